package game

import (
	"math/rand"
	"time"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

const (
	// DefaultQuestionTimer is the per-question countdown.
	DefaultQuestionTimer = 15 * time.Second
	// DefaultSampleSize is how many questions a session draws from the pool.
	DefaultSampleSize = 3
)

// QuizSession iterates over a random fixed-size sample of the question pool.
// Each question runs its own countdown; an expired countdown auto-submits the
// tentative selection (defaulting to the first option).
type QuizSession struct {
	questions     []domain.QuizQuestion
	current       int
	answers       []domain.QuizAnswer
	questionStart time.Time
	perQuestion   time.Duration
	now           func() time.Time
	selected      int // -1 until the cadet touches the control
	submitted     bool
	complete      bool
	saved         bool
}

// NewQuizSession samples sampleSize questions (or the whole pool if smaller)
// without repetition, in random order.
func NewQuizSession(pool []domain.QuizQuestion, sampleSize int, perQuestion time.Duration, rnd *rand.Rand) (*QuizSession, error) {
	return NewQuizSessionWithClock(pool, sampleSize, perQuestion, rnd, time.Now)
}

// NewQuizSessionWithClock allows deterministic timestamps in tests.
func NewQuizSessionWithClock(pool []domain.QuizQuestion, sampleSize int, perQuestion time.Duration, rnd *rand.Rand, now func() time.Time) (*QuizSession, error) {
	if len(pool) == 0 {
		return nil, domain.ErrNoContent
	}
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	if sampleSize > len(pool) {
		sampleSize = len(pool)
	}
	if perQuestion <= 0 {
		perQuestion = DefaultQuestionTimer
	}

	questions := make([]domain.QuizQuestion, 0, sampleSize)
	for _, idx := range rnd.Perm(len(pool))[:sampleSize] {
		questions = append(questions, pool[idx])
	}

	return &QuizSession{
		questions:     questions,
		questionStart: now(),
		perQuestion:   perQuestion,
		now:           now,
		selected:      -1,
	}, nil
}

// sync auto-submits the current question once its countdown has run out.
func (q *QuizSession) sync() {
	if q.complete || q.submitted {
		return
	}
	if q.timeLeft() <= 0 {
		q.record()
	}
}

func (q *QuizSession) timeLeft() int {
	remaining := q.perQuestion - q.now().Sub(q.questionStart)
	secs := int(remaining.Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// record appends the answer for the current question. The answers list grows
// by exactly one entry per question, in question order.
func (q *QuizSession) record() {
	idx := q.selected
	if idx < 0 {
		idx = 0
	}
	question := q.questions[q.current]
	q.answers = append(q.answers, domain.QuizAnswer{
		QuestionID: question.ID,
		Answer:     question.Options[idx],
		Correct:    idx == question.AnswerIndex,
		TimeLeft:   q.timeLeft(),
	})
	q.submitted = true
}

// Select records a tentative choice. The cadet may change it freely until the
// question is submitted.
func (q *QuizSession) Select(option int) error {
	q.sync()
	if q.complete {
		return domain.ErrGameOver
	}
	if q.submitted {
		return domain.ErrAlreadySubmitted
	}
	if option < 0 || option >= len(q.questions[q.current].Options) {
		return domain.ErrInvalidOption
	}
	q.selected = option
	return nil
}

// Submit grades the tentative selection against the stored correct index.
func (q *QuizSession) Submit() error {
	q.sync()
	if q.complete {
		return domain.ErrGameOver
	}
	if q.submitted {
		return domain.ErrAlreadySubmitted
	}
	q.record()
	return nil
}

// Next advances to the following question, resetting its countdown and the
// tentative selection.
func (q *QuizSession) Next() error {
	q.sync()
	if q.complete {
		return domain.ErrGameOver
	}
	if !q.submitted {
		return domain.ErrNotSubmitted
	}
	if q.current+1 >= len(q.questions) {
		return domain.ErrNoMoreQuestions
	}
	q.current++
	q.questionStart = q.now()
	q.selected = -1
	q.submitted = false
	return nil
}

// Finish ends the session; only allowed once the last question is submitted.
func (q *QuizSession) Finish() error {
	q.sync()
	if q.complete {
		return domain.ErrGameOver
	}
	if !q.submitted {
		return domain.ErrNotSubmitted
	}
	if q.current+1 < len(q.questions) {
		return domain.ErrQuestionsRemaining
	}
	q.complete = true
	return nil
}

// Complete reports whether the session reached its terminal state.
func (q *QuizSession) Complete() bool {
	q.sync()
	return q.complete
}

// CorrectCount is both the score and the number-correct metric.
func (q *QuizSession) CorrectCount() int {
	count := 0
	for _, ans := range q.answers {
		if ans.Correct {
			count++
		}
	}
	return count
}

// TotalTimeTaken sums the seconds spent on each answered question.
func (q *QuizSession) TotalTimeTaken() int {
	perQuestion := int(q.perQuestion.Seconds())
	total := 0
	for _, ans := range q.answers {
		total += perQuestion - ans.TimeLeft
	}
	return total
}

// Questions returns the session's sampled question sequence.
func (q *QuizSession) Questions() []domain.QuizQuestion {
	return append([]domain.QuizQuestion(nil), q.questions...)
}

// Answers returns the recorded answers in question order.
func (q *QuizSession) Answers() []domain.QuizAnswer {
	return append([]domain.QuizAnswer(nil), q.answers...)
}

// Saved reports whether this session's result has already been persisted.
func (q *QuizSession) Saved() bool {
	return q.saved
}

// MarkSaved flags the result as persisted.
func (q *QuizSession) MarkSaved() {
	q.saved = true
}

// View builds a render snapshot of the current question or the final results.
func (q *QuizSession) View() domain.QuizView {
	q.sync()

	question := q.questions[q.current]
	left := q.timeLeft()

	view := domain.QuizView{
		Index:        q.current,
		Total:        len(q.questions),
		QuestionID:   question.ID,
		Prompt:       question.Prompt,
		Options:      append([]string(nil), question.Options...),
		Selected:     q.selected,
		TimeLeft:     left,
		TimeDisplay:  formatSeconds(left),
		Submitted:    q.submitted,
		Complete:     q.complete,
		CorrectCount: q.CorrectCount(),
	}
	if q.submitted && len(q.answers) > 0 {
		last := q.answers[len(q.answers)-1]
		view.LastAnswer = &last
		view.CorrectAnswer = question.Options[question.AnswerIndex]
		view.Explanation = question.Explain
	}
	if q.complete {
		view.Answers = q.Answers()
	}
	return view
}
