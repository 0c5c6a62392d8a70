package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

func testPool() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{ID: "q1", Prompt: "one", Options: []string{"a", "b", "c"}, AnswerIndex: 1, Explain: "b it is"},
		{ID: "q2", Prompt: "two", Options: []string{"a", "b", "c"}, AnswerIndex: 0, Explain: "a it is"},
		{ID: "q3", Prompt: "three", Options: []string{"a", "b", "c"}, AnswerIndex: 2, Explain: "c it is"},
		{ID: "q4", Prompt: "four", Options: []string{"a", "b", "c"}, AnswerIndex: 1, Explain: "b again"},
		{ID: "q5", Prompt: "five", Options: []string{"a", "b", "c"}, AnswerIndex: 0, Explain: "a again"},
	}
}

func newQuizSession(t *testing.T, clock *fakeClock, sample int) *QuizSession {
	t.Helper()
	session, err := NewQuizSessionWithClock(testPool(), sample, DefaultQuestionTimer, rand.New(rand.NewSource(11)), clock.Now)
	if err != nil {
		t.Fatalf("new quiz session: %v", err)
	}
	return session
}

func TestQuizSamplesWithoutRepetition(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	questions := session.Questions()
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	seen := map[string]bool{}
	for _, q := range questions {
		if seen[q.ID] {
			t.Fatalf("question %s sampled twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestQuizSampleLargerThanPoolUsesWholePool(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 50)
	if got := len(session.Questions()); got != len(testPool()) {
		t.Fatalf("expected whole pool, got %d questions", got)
	}
}

func TestQuizScoreCountsCorrectAnswers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	for i, q := range session.Questions() {
		if err := session.Select(q.AnswerIndex); err != nil {
			t.Fatalf("select: %v", err)
		}
		if err := session.Submit(); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if i < 2 {
			if err := session.Next(); err != nil {
				t.Fatalf("next: %v", err)
			}
		}
	}
	if err := session.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if !session.Complete() {
		t.Fatal("expected completed session")
	}
	if got := session.CorrectCount(); got != 3 {
		t.Fatalf("expected 3 correct, got %d", got)
	}
}

func TestQuizAutoSubmitDefaultsToFirstOption(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	clock.Advance(DefaultQuestionTimer + time.Second)

	view := session.View()
	if !view.Submitted {
		t.Fatal("expected auto-submit after timer expiry")
	}
	answers := session.Answers()
	if len(answers) != 1 {
		t.Fatalf("expected one recorded answer, got %d", len(answers))
	}
	first := session.Questions()[0]
	if answers[0].Answer != first.Options[0] {
		t.Fatalf("expected default first option %q, got %q", first.Options[0], answers[0].Answer)
	}
	if answers[0].Correct != (first.AnswerIndex == 0) {
		t.Fatalf("correctness flag does not match default option")
	}
}

func TestQuizAllTimersExpireSessionStillCompletes(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	for i := 0; i < 3; i++ {
		clock.Advance(DefaultQuestionTimer + time.Second)
		if !session.View().Submitted {
			t.Fatalf("question %d not auto-submitted", i)
		}
		if i < 2 {
			if err := session.Next(); err != nil {
				t.Fatalf("next: %v", err)
			}
		}
	}
	if err := session.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	answers := session.Answers()
	if len(answers) != 3 {
		t.Fatalf("expected 3 answers, got %d", len(answers))
	}
	coincidental := 0
	for i, q := range session.Questions() {
		wantCorrect := q.AnswerIndex == 0
		if answers[i].Correct != wantCorrect {
			t.Fatalf("answer %d correctness = %v, want %v", i, answers[i].Correct, wantCorrect)
		}
		if wantCorrect {
			coincidental++
		}
	}
	if session.CorrectCount() != coincidental {
		t.Fatalf("score %d does not match coincidental matches %d", session.CorrectCount(), coincidental)
	}
}

func TestQuizTransitionGuards(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	if err := session.Next(); !errors.Is(err, domain.ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
	if err := session.Select(99); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := session.Submit(); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if err := session.Finish(); !errors.Is(err, domain.ErrQuestionsRemaining) {
		t.Fatalf("expected ErrQuestionsRemaining, got %v", err)
	}
}

func TestQuizSelectionCanChangeBeforeSubmit(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 3)

	if err := session.Select(0); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := session.Select(2); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	q := session.Questions()[0]
	ans := session.Answers()[0]
	if ans.Answer != q.Options[2] {
		t.Fatalf("expected final selection %q, got %q", q.Options[2], ans.Answer)
	}
}

func TestQuizTotalTimeTaken(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	session := newQuizSession(t, clock, 2)

	clock.Advance(5 * time.Second)
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := session.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	clock.Advance(7 * time.Second)
	if err := session.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := session.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}

	if got := session.TotalTimeTaken(); got != 12 {
		t.Fatalf("expected 12 seconds taken, got %d", got)
	}
}
