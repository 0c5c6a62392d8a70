// Package nickname derives deterministic astronaut call-signs from real names.
package nickname

import (
	"strings"
	"unicode"
)

// The token lists are part of the persisted identity of past cadets and must
// not be reordered or edited.
var (
	prefixes = []string{"Zap", "Neo", "Geo", "Vex", "Blu", "Zen", "Pyro", "Quip", "Nova", "Tiki"}
	suffixes = []string{"tron", "pop", "bit", "do", "ster", "zo", "ly", "ix", "o", "a"}
)

// Generate maps a display name to a whimsical call-sign. It is a pure function
// of the input: the same name always produces the same nickname, which is the
// only dedup key shown to users.
func Generate(name string) string {
	base := "cadet"
	if fields := strings.Fields(strings.TrimSpace(name)); len(fields) > 0 {
		base = strings.ToLower(fields[0])
	}

	letters := make([]rune, 0, len(base))
	for _, r := range base {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) > 5 {
		letters = letters[:5]
	}
	if len(letters) > 0 {
		letters[0] = unicode.ToUpper(letters[0])
	}

	// The hash runs over the original, untrimmed input.
	h := 0
	for _, r := range name {
		h += int(r)
	}
	if name == "" {
		h = 999
	}

	return prefixes[h%len(prefixes)] + string(letters) + suffixes[(h/len(prefixes))%len(suffixes)]
}
