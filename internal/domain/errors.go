package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no cadet session exists for an ID.
	ErrSessionNotFound = errors.New("cadet session not found")
	// ErrMissingFields rejects a registration with empty fields or no consent.
	ErrMissingFields = errors.New("all required fields and consent must be provided")
	// ErrGameNotStarted is returned when acting on a game that has no state yet.
	ErrGameNotStarted = errors.New("game not started")
	// ErrGameOver rejects actions on a finished game session.
	ErrGameOver = errors.New("game is already over")
	// ErrStepAlreadyChosen rejects re-selecting a mission step.
	ErrStepAlreadyChosen = errors.New("step already chosen")
	// ErrUnknownStep indicates a selected step is not part of the mission.
	ErrUnknownStep = errors.New("step not part of this mission")
	// ErrInvalidOption indicates an option index outside the question's range.
	ErrInvalidOption = errors.New("option out of range")
	// ErrAlreadySubmitted rejects a second submit for the same question.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrNotSubmitted rejects advancing before the current answer is in.
	ErrNotSubmitted = errors.New("answer not yet submitted")
	// ErrQuestionsRemaining rejects finishing before the last question.
	ErrQuestionsRemaining = errors.New("questions remaining")
	// ErrNoMoreQuestions rejects advancing past the last question.
	ErrNoMoreQuestions = errors.New("no more questions")
	// ErrNoContent indicates the mission or question pool is empty.
	ErrNoContent = errors.New("no game content available")
)
