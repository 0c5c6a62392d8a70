package domain

// Leaderboard partitions; these values appear in the persisted document and in
// the Game column of the remote sheet, so they must stay stable.
const (
	GameKeyMission = "mission_game"
	GameKeyQuiz    = "quiz_game"
)

// TimeFormat is the timestamp layout used in leaderboard entries and sheet rows.
const TimeFormat = "2006-01-02 15:04:05"

// CadetProfile is created once at registration and is immutable for the session.
type CadetProfile struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Branch        string `json:"branch"`
	AstronautName string `json:"astronaut_name"`
}

// LeaderboardEntry records one completed game session. Entries are appended,
// never mutated; ordering is applied at read time by Rank.
type LeaderboardEntry struct {
	Name     string `json:"name"`
	Branch   string `json:"branch"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	Time     string `json:"time"`
}

// Leaderboard maps a game key to its entries in arrival order.
type Leaderboard map[string][]LeaderboardEntry

// EmptyLeaderboard returns the default two-key document.
func EmptyLeaderboard() Leaderboard {
	return Leaderboard{
		GameKeyMission: {},
		GameKeyQuiz:    {},
	}
}

// LeaderboardView is the ranked, render-ready form of both leaderboards.
type LeaderboardView struct {
	MissionGame []LeaderboardEntry `json:"mission_game"`
	QuizGame    []LeaderboardEntry `json:"quiz_game"`
}

// Mission is static reference data: an ordered flight sequence the cadet has
// to reconstruct.
type Mission struct {
	Name  string   `json:"name"`
	Blurb string   `json:"blurb"`
	Emoji string   `json:"emoji"`
	Steps []string `json:"steps_correct"`
}

// QuizQuestion is static reference data for the multiple-choice game.
type QuizQuestion struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"q"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_idx"`
	Explain     string   `json:"explain"`
}

// QuizAnswer is appended once per question, in question order, and never
// mutated afterwards.
type QuizAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
	TimeLeft   int    `json:"timeLeft"`
}

// MissionView is a render snapshot of a mission game session.
type MissionView struct {
	MissionName string   `json:"missionName"`
	Blurb       string   `json:"blurb"`
	Emoji       string   `json:"emoji"`
	Options     []string `json:"options"`
	Selected    []string `json:"selected"`
	TimeLeft    int      `json:"timeLeft"`
	TimeDisplay string   `json:"timeDisplay"`
	GameOver    bool     `json:"gameOver"`
	Correct     bool     `json:"correct"`
	Score       int      `json:"score"`
	// CorrectSteps is revealed only once the game is over.
	CorrectSteps []string `json:"correctSteps,omitempty"`
}

// QuizView is a render snapshot of a quiz game session.
type QuizView struct {
	Index       int      `json:"index"`
	Total       int      `json:"total"`
	QuestionID  string   `json:"questionId"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	Selected    int      `json:"selected"`
	TimeLeft    int      `json:"timeLeft"`
	TimeDisplay string   `json:"timeDisplay"`
	Submitted   bool     `json:"submitted"`
	// Revealed once the current question has been submitted.
	LastAnswer    *QuizAnswer  `json:"lastAnswer,omitempty"`
	CorrectAnswer string       `json:"correctAnswer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Complete      bool         `json:"complete"`
	CorrectCount  int          `json:"correctCount"`
	Answers       []QuizAnswer `json:"answers,omitempty"`
}
