// Package app contains the cadet trials use cases: registration, the two
// games, and exactly-once result persistence.
package app

import (
	"context"
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/game"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/nickname"
)

// Worksheet names and leaderboard size are part of the external surface.
const (
	MissionWorksheet = "Mission_Game"
	QuizWorksheet    = "Quiz_Game"
	LeaderboardSize  = 10
)

var (
	missionHeader = []string{
		"timestamp", "name", "email", "branch", "astronaut_name",
		"mission_name", "mission_correct", "time_left_seconds",
		"user_sequence", "correct_sequence", "score", "notes",
	}
	quizHeader = []string{
		"timestamp", "name", "email", "branch", "astronaut_name",
		"total_questions", "correct_answers", "score", "question_ids",
		"user_answers", "correct_answers_detail", "time_taken", "notes",
	}
)

// SessionRepository abstracts how cadet sessions are stored (in-memory, Redis
// liveness markers, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// ContentRepository loads the static mission set and quiz pool
// (from cache/backing store).
type ContentRepository interface {
	GetMissions(ctx context.Context) ([]domain.Mission, error)
	GetQuizPool(ctx context.Context) ([]domain.QuizQuestion, error)
}

// LeaderboardStore persists completed game results. Load never fails: missing
// or corrupt backing data is the empty two-key document.
type LeaderboardStore interface {
	Load(ctx context.Context) domain.Leaderboard
	Append(ctx context.Context, gameKey string, entry domain.LeaderboardEntry) error
}

// ResponseSink records one audit row per completed session, best effort. The
// header is written when the named worksheet is first created.
type ResponseSink interface {
	Append(ctx context.Context, worksheet string, header, row []string) error
}

// Session holds one cadet's profile and any in-flight game state. The mutex
// serializes the HTTP handlers and the websocket tick loop.
type Session struct {
	mu      sync.Mutex
	id      string
	profile domain.CadetProfile
	mission *game.MissionSession
	quiz    *game.QuizSession
}

// ID returns the session identifier issued at registration.
func (s *Session) ID() string {
	return s.id
}

// Profile returns the immutable cadet profile.
func (s *Session) Profile() domain.CadetProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Options tune the trials; zero values fall back to the game defaults.
type Options struct {
	MissionTimer   time.Duration
	QuestionTimer  time.Duration
	QuizSampleSize int
	Rand           *rand.Rand
	Now            func() time.Time
}

// TrialsService wires the games to their stores and the response sink.
type TrialsService struct {
	sessions SessionRepository
	content  ContentRepository
	store    LeaderboardStore
	sink     ResponseSink

	missionTimer  time.Duration
	questionTimer time.Duration
	quizSample    int

	rndMu sync.Mutex
	rnd   *rand.Rand
	now   func() time.Time
}

func NewTrialsService(sessions SessionRepository, content ContentRepository, store LeaderboardStore, sink ResponseSink, opts Options) *TrialsService {
	if opts.MissionTimer <= 0 {
		opts.MissionTimer = game.DefaultMissionTimer
	}
	if opts.QuestionTimer <= 0 {
		opts.QuestionTimer = game.DefaultQuestionTimer
	}
	if opts.QuizSampleSize <= 0 {
		opts.QuizSampleSize = game.DefaultSampleSize
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TrialsService{
		sessions:      sessions,
		content:       content,
		store:         store,
		sink:          sink,
		missionTimer:  opts.MissionTimer,
		questionTimer: opts.QuestionTimer,
		quizSample:    opts.QuizSampleSize,
		rnd:           opts.Rand,
		now:           opts.Now,
	}
}

// Register validates the four required fields, derives the astronaut name and
// opens a new cadet session. Invalid input changes no state.
func (s *TrialsService) Register(_ context.Context, name, email, branch string, consent bool) (string, domain.CadetProfile, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(branch) == "" || !consent {
		return "", domain.CadetProfile{}, domain.ErrMissingFields
	}

	profile := domain.CadetProfile{
		Name:          strings.TrimSpace(name),
		Email:         strings.TrimSpace(email),
		Branch:        strings.TrimSpace(branch),
		AstronautName: nickname.Generate(name),
	}
	session := &Session{
		id:      uuid.NewString(),
		profile: profile,
	}
	s.sessions.Put(session)
	return session.id, profile, nil
}

// Restart drops the session and any in-flight game state unconditionally.
func (s *TrialsService) Restart(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// Profile resolves a session ID to its cadet profile.
func (s *TrialsService) Profile(_ context.Context, sessionID string) (domain.CadetProfile, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.CadetProfile{}, domain.ErrSessionNotFound
	}
	return session.Profile(), nil
}

// Leaderboard loads and ranks the top entries for both game keys.
func (s *TrialsService) Leaderboard(ctx context.Context) domain.LeaderboardView {
	data := s.store.Load(ctx)
	return domain.LeaderboardView{
		MissionGame: data.Rank(domain.GameKeyMission, LeaderboardSize),
		QuizGame:    data.Rank(domain.GameKeyQuiz, LeaderboardSize),
	}
}

// StartMission begins a fresh mission session, replacing any previous one.
func (s *TrialsService) StartMission(ctx context.Context, sessionID string) (domain.MissionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.MissionView{}, domain.ErrSessionNotFound
	}
	missions, err := s.content.GetMissions(ctx)
	if err != nil {
		return domain.MissionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	s.rndMu.Lock()
	mission, err := game.NewMissionSessionWithClock(missions, s.missionTimer, s.rnd, s.now)
	s.rndMu.Unlock()
	if err != nil {
		return domain.MissionView{}, err
	}
	session.mission = mission
	return mission.View(), nil
}

// MissionState re-renders the mission session; reading the terminal state
// triggers the one-time persistence.
func (s *TrialsService) MissionState(ctx context.Context, sessionID string) (domain.MissionView, error) {
	return s.withMission(ctx, sessionID, func(*game.MissionSession) error { return nil })
}

// SelectMissionStep appends one not-yet-chosen step to the sequence.
func (s *TrialsService) SelectMissionStep(ctx context.Context, sessionID, step string) (domain.MissionView, error) {
	return s.withMission(ctx, sessionID, func(m *game.MissionSession) error {
		return m.Select(step)
	})
}

// ResetMissionOrder clears the selected sequence while time remains.
func (s *TrialsService) ResetMissionOrder(ctx context.Context, sessionID string) (domain.MissionView, error) {
	return s.withMission(ctx, sessionID, func(m *game.MissionSession) error {
		return m.ResetOrder()
	})
}

// QuitMission discards the mission state so a fresh session starts clean.
func (s *TrialsService) QuitMission(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.mission = nil
	return nil
}

// withMission runs op under the session lock, then renders and persists the
// terminal state at most once.
func (s *TrialsService) withMission(ctx context.Context, sessionID string, op func(*game.MissionSession) error) (domain.MissionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.MissionView{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	mission := session.mission
	if mission == nil {
		return domain.MissionView{}, domain.ErrGameNotStarted
	}
	if err := op(mission); err != nil {
		return domain.MissionView{}, err
	}
	view := mission.View()
	if mission.GameOver() && !mission.Saved() {
		mission.MarkSaved()
		s.persistMission(ctx, session.profile, mission)
	}
	return view, nil
}

func (s *TrialsService) persistMission(ctx context.Context, profile domain.CadetProfile, m *game.MissionSession) {
	ts := s.now().Format(domain.TimeFormat)

	userSeq := strings.Join(m.Selected(), " → ")
	if userSeq == "" {
		userSeq = "No sequence"
	}
	row := []string{
		ts, profile.Name, profile.Email, profile.Branch, profile.AstronautName,
		m.Mission().Name, strconv.FormatBool(m.Correct()), strconv.Itoa(m.TimeLeft()),
		userSeq, strings.Join(m.Mission().Steps, " → "), strconv.Itoa(m.Score()),
		"Mission Game Completed",
	}
	if err := s.sink.Append(ctx, MissionWorksheet, missionHeader, row); err != nil {
		log.Printf("response sink append failed: %v", err)
	}

	entry := domain.LeaderboardEntry{
		Name:     profile.Name,
		Branch:   profile.Branch,
		Nickname: profile.AstronautName,
		Score:    m.Score(),
		Time:     ts,
	}
	if err := s.store.Append(ctx, domain.GameKeyMission, entry); err != nil {
		log.Printf("leaderboard append failed: %v", err)
	}
}

// StartQuiz begins a fresh quiz session, replacing any previous one.
func (s *TrialsService) StartQuiz(ctx context.Context, sessionID string) (domain.QuizView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuizView{}, domain.ErrSessionNotFound
	}
	pool, err := s.content.GetQuizPool(ctx)
	if err != nil {
		return domain.QuizView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	s.rndMu.Lock()
	quiz, err := game.NewQuizSessionWithClock(pool, s.quizSample, s.questionTimer, s.rnd, s.now)
	s.rndMu.Unlock()
	if err != nil {
		return domain.QuizView{}, err
	}
	session.quiz = quiz
	return quiz.View(), nil
}

// QuizState re-renders the quiz session, auto-submitting expired questions.
func (s *TrialsService) QuizState(ctx context.Context, sessionID string) (domain.QuizView, error) {
	return s.withQuiz(ctx, sessionID, func(*game.QuizSession) error { return nil })
}

// SelectQuizOption records a tentative choice for the current question.
func (s *TrialsService) SelectQuizOption(ctx context.Context, sessionID string, option int) (domain.QuizView, error) {
	return s.withQuiz(ctx, sessionID, func(q *game.QuizSession) error {
		return q.Select(option)
	})
}

// SubmitQuizAnswer grades the tentative selection.
func (s *TrialsService) SubmitQuizAnswer(ctx context.Context, sessionID string) (domain.QuizView, error) {
	return s.withQuiz(ctx, sessionID, func(q *game.QuizSession) error {
		return q.Submit()
	})
}

// NextQuizQuestion advances to the following question.
func (s *TrialsService) NextQuizQuestion(ctx context.Context, sessionID string) (domain.QuizView, error) {
	return s.withQuiz(ctx, sessionID, func(q *game.QuizSession) error {
		return q.Next()
	})
}

// FinishQuiz ends the session after the last question.
func (s *TrialsService) FinishQuiz(ctx context.Context, sessionID string) (domain.QuizView, error) {
	return s.withQuiz(ctx, sessionID, func(q *game.QuizSession) error {
		return q.Finish()
	})
}

// QuitQuiz discards the quiz state.
func (s *TrialsService) QuitQuiz(_ context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.quiz = nil
	return nil
}

func (s *TrialsService) withQuiz(ctx context.Context, sessionID string, op func(*game.QuizSession) error) (domain.QuizView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.QuizView{}, domain.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	quiz := session.quiz
	if quiz == nil {
		return domain.QuizView{}, domain.ErrGameNotStarted
	}
	if err := op(quiz); err != nil {
		return domain.QuizView{}, err
	}
	view := quiz.View()
	if quiz.Complete() && !quiz.Saved() {
		quiz.MarkSaved()
		s.persistQuiz(ctx, session.profile, quiz)
	}
	return view, nil
}

func (s *TrialsService) persistQuiz(ctx context.Context, profile domain.CadetProfile, q *game.QuizSession) {
	ts := s.now().Format(domain.TimeFormat)

	questions := q.Questions()
	answers := q.Answers()
	ids := make([]string, len(questions))
	correctDetail := make([]string, len(questions))
	for i, question := range questions {
		ids[i] = question.ID
		correctDetail[i] = question.Options[question.AnswerIndex]
	}
	given := make([]string, len(answers))
	for i, ans := range answers {
		given[i] = ans.Answer
	}

	correct := q.CorrectCount()
	total := len(questions)
	// correct_answers and score are the same count; the duplication in the
	// row layout is kept for sheet compatibility.
	row := []string{
		ts, profile.Name, profile.Email, profile.Branch, profile.AstronautName,
		strconv.Itoa(total), strconv.Itoa(correct), strconv.Itoa(correct),
		strings.Join(ids, " | "), strings.Join(given, " | "), strings.Join(correctDetail, " | "),
		strconv.Itoa(q.TotalTimeTaken()),
		"Quiz completed with " + strconv.Itoa(correct) + "/" + strconv.Itoa(total) + " correct answers",
	}
	if err := s.sink.Append(ctx, QuizWorksheet, quizHeader, row); err != nil {
		log.Printf("response sink append failed: %v", err)
	}

	entry := domain.LeaderboardEntry{
		Name:     profile.Name,
		Branch:   profile.Branch,
		Nickname: profile.AstronautName,
		Score:    correct,
		Time:     ts,
	}
	if err := s.store.Append(ctx, domain.GameKeyQuiz, entry); err != nil {
		log.Printf("leaderboard append failed: %v", err)
	}
}
