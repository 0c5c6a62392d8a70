package app_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/infra/memory"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type sinkRow struct {
	worksheet string
	row       []string
}

type recordingSink struct {
	rows []sinkRow
}

func (s *recordingSink) Append(_ context.Context, worksheet string, _, row []string) error {
	s.rows = append(s.rows, sinkRow{worksheet: worksheet, row: row})
	return nil
}

func testMissions() []domain.Mission {
	return []domain.Mission{{
		Name:  "Test Flight",
		Blurb: "A short hop.",
		Emoji: "🚀",
		Steps: []string{"ignition", "liftoff", "staging", "orbit", "deorbit", "landing"},
	}}
}

func testQuizPool() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{ID: "q1", Prompt: "one", Options: []string{"a", "b"}, AnswerIndex: 1},
		{ID: "q2", Prompt: "two", Options: []string{"a", "b"}, AnswerIndex: 0},
		{ID: "q3", Prompt: "three", Options: []string{"a", "b"}, AnswerIndex: 1},
	}
}

func newTestService(clock *fakeClock) (*app.TrialsService, *memory.LeaderboardStore, *recordingSink) {
	store := memory.NewLeaderboardStore()
	sink := &recordingSink{}
	content := memory.NewContentRepository(memory.NewStaticContentLoader(testMissions(), testQuizPool()), time.Minute)
	service := app.NewTrialsService(memory.NewSessionStore(), content, store, sink, app.Options{
		Rand: rand.New(rand.NewSource(42)),
		Now:  clock.Now,
	})
	return service, store, sink
}

func register(t *testing.T, service *app.TrialsService) string {
	t.Helper()
	id, profile, err := service.Register(context.Background(), "Asha Rao", "asha@example.com", "ECE", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.AstronautName == "" {
		t.Fatal("expected non-empty astronaut name")
	}
	return id
}

func TestRegisterRejectsIncompleteForms(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(&fakeClock{t: time.Unix(1700000000, 0)})

	cases := []struct {
		name, email, branch string
		consent             bool
	}{
		{"", "a@b.c", "ECE", true},
		{"Asha", "", "ECE", true},
		{"Asha", "a@b.c", "", true},
		{"Asha", "a@b.c", "ECE", false},
		{"   ", "a@b.c", "ECE", true},
	}
	for _, tc := range cases {
		if _, _, err := service.Register(ctx, tc.name, tc.email, tc.branch, tc.consent); !errors.Is(err, domain.ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields for %+v, got %v", tc, err)
		}
	}
}

func TestRegisterDerivesDeterministicNickname(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(&fakeClock{t: time.Unix(1700000000, 0)})

	_, first, err := service.Register(ctx, "Asha Rao", "asha@example.com", "ECE", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	_, second, err := service.Register(ctx, "Asha Rao", "asha@other.com", "CSE", true)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if first.AstronautName != second.AstronautName {
		t.Fatalf("nickname not deterministic: %q vs %q", first.AstronautName, second.AstronautName)
	}
}

func TestMissionPerfectRunPersistsOnce(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	service, store, sink := newTestService(clock)
	id := register(t, service)

	if _, err := service.StartMission(ctx, id); err != nil {
		t.Fatalf("start mission: %v", err)
	}

	var view domain.MissionView
	var err error
	for _, step := range testMissions()[0].Steps {
		view, err = service.SelectMissionStep(ctx, id, step)
		if err != nil {
			t.Fatalf("select %q: %v", step, err)
		}
	}

	if !view.GameOver || view.Score != 1 {
		t.Fatalf("expected winning terminal view, got %+v", view)
	}

	// Re-rendering the terminal state must not persist again.
	for i := 0; i < 3; i++ {
		if _, err := service.MissionState(ctx, id); err != nil {
			t.Fatalf("state: %v", err)
		}
	}

	entries := store.Load(ctx)[domain.GameKeyMission]
	if len(entries) != 1 {
		t.Fatalf("expected exactly one leaderboard entry, got %d", len(entries))
	}
	if entries[0].Score != 1 || entries[0].Nickname == "" {
		t.Fatalf("unexpected entry %+v", entries[0])
	}
	if len(sink.rows) != 1 || sink.rows[0].worksheet != app.MissionWorksheet {
		t.Fatalf("expected one mission sink row, got %+v", sink.rows)
	}
}

func TestMissionTimeoutPersistsZeroScore(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	service, store, sink := newTestService(clock)
	id := register(t, service)

	if _, err := service.StartMission(ctx, id); err != nil {
		t.Fatalf("start mission: %v", err)
	}
	if _, err := service.SelectMissionStep(ctx, id, testMissions()[0].Steps[0]); err != nil {
		t.Fatalf("select: %v", err)
	}

	clock.Advance(time.Minute)

	view, err := service.MissionState(ctx, id)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !view.GameOver || view.Score != 0 {
		t.Fatalf("expected losing terminal view, got %+v", view)
	}

	entries := store.Load(ctx)[domain.GameKeyMission]
	if len(entries) != 1 || entries[0].Score != 0 {
		t.Fatalf("expected one zero-score entry, got %+v", entries)
	}
	if len(sink.rows) != 1 {
		t.Fatalf("expected one sink row, got %d", len(sink.rows))
	}
}

func TestQuizCompletionPersistsCorrectCount(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	service, store, sink := newTestService(clock)
	id := register(t, service)

	view, err := service.StartQuiz(ctx, id)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	if view.Total != 3 {
		t.Fatalf("expected 3 sampled questions, got %d", view.Total)
	}

	pool := map[string]domain.QuizQuestion{}
	for _, q := range testQuizPool() {
		pool[q.ID] = q
	}

	for i := 0; i < view.Total; i++ {
		state, err := service.QuizState(ctx, id)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if _, err := service.SelectQuizOption(ctx, id, pool[state.QuestionID].AnswerIndex); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := service.SubmitQuizAnswer(ctx, id); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if i < view.Total-1 {
			if _, err := service.NextQuizQuestion(ctx, id); err != nil {
				t.Fatalf("next: %v", err)
			}
		}
	}

	final, err := service.FinishQuiz(ctx, id)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if !final.Complete || final.CorrectCount != 3 {
		t.Fatalf("expected complete view with 3 correct, got %+v", final)
	}

	// Idempotent terminal re-render.
	if _, err := service.QuizState(ctx, id); err != nil {
		t.Fatalf("state: %v", err)
	}

	entries := store.Load(ctx)[domain.GameKeyQuiz]
	if len(entries) != 1 || entries[0].Score != 3 {
		t.Fatalf("expected one quiz entry with score 3, got %+v", entries)
	}
	if len(sink.rows) != 1 || sink.rows[0].worksheet != app.QuizWorksheet {
		t.Fatalf("expected one quiz sink row, got %+v", sink.rows)
	}
}

func TestQuizFailingSinkDoesNotBlockLeaderboard(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	store := memory.NewLeaderboardStore()
	content := memory.NewContentRepository(memory.NewStaticContentLoader(testMissions(), testQuizPool()), time.Minute)
	service := app.NewTrialsService(memory.NewSessionStore(), content, store, failingSink{}, app.Options{
		Rand: rand.New(rand.NewSource(42)),
		Now:  clock.Now,
	})
	id := register(t, service)

	if _, err := service.StartMission(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := service.MissionState(ctx, id); err != nil {
		t.Fatalf("state: %v", err)
	}

	if entries := store.Load(ctx)[domain.GameKeyMission]; len(entries) != 1 {
		t.Fatalf("expected leaderboard entry despite sink failure, got %+v", entries)
	}
}

func TestRestartDropsSessionAndGames(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(&fakeClock{t: time.Unix(1700000000, 0)})
	id := register(t, service)

	if _, err := service.StartMission(ctx, id); err != nil {
		t.Fatalf("start: %v", err)
	}
	service.Restart(ctx, id)

	if _, err := service.Profile(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.MissionState(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestGameActionsRequireStart(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newTestService(&fakeClock{t: time.Unix(1700000000, 0)})
	id := register(t, service)

	if _, err := service.MissionState(ctx, id); !errors.Is(err, domain.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted, got %v", err)
	}
	if _, err := service.SubmitQuizAnswer(ctx, id); !errors.Is(err, domain.ErrGameNotStarted) {
		t.Fatalf("expected ErrGameNotStarted, got %v", err)
	}
}

func TestLeaderboardRanksBothGames(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	service, store, _ := newTestService(clock)

	seed := []struct {
		key   string
		entry domain.LeaderboardEntry
	}{
		{domain.GameKeyMission, domain.LeaderboardEntry{Nickname: "late", Score: 1, Time: "2025-01-02 10:00:00"}},
		{domain.GameKeyMission, domain.LeaderboardEntry{Nickname: "early", Score: 1, Time: "2025-01-01 10:00:00"}},
		{domain.GameKeyQuiz, domain.LeaderboardEntry{Nickname: "two", Score: 2}},
		{domain.GameKeyQuiz, domain.LeaderboardEntry{Nickname: "three", Score: 3}},
	}
	for _, s := range seed {
		if err := store.Append(ctx, s.key, s.entry); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	view := service.Leaderboard(ctx)
	if view.MissionGame[0].Nickname != "early" {
		t.Fatalf("expected earlier timestamp first, got %+v", view.MissionGame)
	}
	if view.QuizGame[0].Nickname != "three" {
		t.Fatalf("expected highest quiz score first, got %+v", view.QuizGame)
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, string, []string, []string) error {
	return errors.New("quota exceeded")
}
