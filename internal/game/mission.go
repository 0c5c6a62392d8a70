// Package game holds the session state machines for the two cadet trials.
// Sessions are plain state machines: timers are computed on read against an
// injected clock, and randomness comes from an injected source so tests can
// pin outcomes. Callers serialize access; see app.Session.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// DefaultMissionTimer is the countdown for a whole mission attempt.
const DefaultMissionTimer = 45 * time.Second

// MissionSession is the ordered-sequence reconstruction game. It is created
// once per play session and discarded on "play again" or navigation.
type MissionSession struct {
	mission   domain.Mission
	options   []string
	selected  []string
	startedAt time.Time
	duration  time.Duration
	now       func() time.Time
	gameOver  bool
	saved     bool
}

// NewMissionSession picks one mission uniformly at random and presents its
// steps in a random order. The shuffle is cosmetic; grading always uses the
// mission's canonical step list.
func NewMissionSession(missions []domain.Mission, duration time.Duration, rnd *rand.Rand) (*MissionSession, error) {
	return NewMissionSessionWithClock(missions, duration, rnd, time.Now)
}

// NewMissionSessionWithClock allows deterministic timestamps in tests.
func NewMissionSessionWithClock(missions []domain.Mission, duration time.Duration, rnd *rand.Rand, now func() time.Time) (*MissionSession, error) {
	if len(missions) == 0 {
		return nil, domain.ErrNoContent
	}
	if duration <= 0 {
		duration = DefaultMissionTimer
	}

	mission := missions[rnd.Intn(len(missions))]

	options := make([]string, len(mission.Steps))
	for i, j := range rnd.Perm(len(mission.Steps)) {
		options[i] = mission.Steps[j]
	}

	return &MissionSession{
		mission:   mission,
		options:   options,
		startedAt: now(),
		duration:  duration,
		now:       now,
	}, nil
}

// sync flips the session to game-over once the countdown has run out. Every
// public method calls it first, so expiry is observed on the next read.
func (m *MissionSession) sync() {
	if !m.gameOver && m.timeLeft() <= 0 {
		m.gameOver = true
	}
}

func (m *MissionSession) timeLeft() int {
	remaining := m.duration - m.now().Sub(m.startedAt)
	secs := int(remaining.Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// Select appends a not-yet-chosen step to the sequence. Selecting the final
// step ends the game.
func (m *MissionSession) Select(step string) error {
	m.sync()
	if m.gameOver {
		return domain.ErrGameOver
	}

	known := false
	for _, opt := range m.options {
		if opt == step {
			known = true
			break
		}
	}
	if !known {
		return domain.ErrUnknownStep
	}
	for _, chosen := range m.selected {
		if chosen == step {
			return domain.ErrStepAlreadyChosen
		}
	}

	m.selected = append(m.selected, step)
	if len(m.selected) == len(m.options) {
		m.gameOver = true
	}
	return nil
}

// ResetOrder clears the selected sequence so the cadet can start over while
// time remains.
func (m *MissionSession) ResetOrder() error {
	m.sync()
	if m.gameOver {
		return domain.ErrGameOver
	}
	m.selected = nil
	return nil
}

// GameOver reports whether the session has reached its terminal state.
func (m *MissionSession) GameOver() bool {
	m.sync()
	return m.gameOver
}

// Correct grades by exact ordered equality with the canonical sequence. A
// partial selection never scores, even when its prefix matches.
func (m *MissionSession) Correct() bool {
	if len(m.selected) != len(m.mission.Steps) {
		return false
	}
	for i, step := range m.mission.Steps {
		if m.selected[i] != step {
			return false
		}
	}
	return true
}

// Score is binary: 1 for a perfect sequence, 0 otherwise.
func (m *MissionSession) Score() int {
	if m.Correct() {
		return 1
	}
	return 0
}

// TimeLeft is the remaining countdown in whole seconds, computed on read.
func (m *MissionSession) TimeLeft() int {
	return m.timeLeft()
}

// Mission returns the mission being played.
func (m *MissionSession) Mission() domain.Mission {
	return m.mission
}

// Selected returns a copy of the chosen sequence so far.
func (m *MissionSession) Selected() []string {
	return append([]string(nil), m.selected...)
}

// Saved reports whether this session's result has already been persisted.
func (m *MissionSession) Saved() bool {
	return m.saved
}

// MarkSaved flags the result as persisted; re-rendering the terminal state
// must not persist again.
func (m *MissionSession) MarkSaved() {
	m.saved = true
}

// View builds a render snapshot. The canonical sequence is only revealed once
// the game is over.
func (m *MissionSession) View() domain.MissionView {
	m.sync()
	left := m.timeLeft()

	view := domain.MissionView{
		MissionName: m.mission.Name,
		Blurb:       m.mission.Blurb,
		Emoji:       m.mission.Emoji,
		Options:     append([]string(nil), m.options...),
		Selected:    m.Selected(),
		TimeLeft:    left,
		TimeDisplay: formatSeconds(left),
		GameOver:    m.gameOver,
	}
	if m.gameOver {
		view.Correct = m.Correct()
		view.Score = m.Score()
		view.CorrectSteps = append([]string(nil), m.mission.Steps...)
	}
	return view
}

func formatSeconds(secs int) string {
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
