// Package http exposes the trials over JSON endpoints and websockets.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

const sessionHeader = "X-Session-ID"

// Handler serves the JSON API.
type Handler struct {
	service *app.TrialsService
}

func NewHandler(service *app.TrialsService) *Handler {
	return &Handler{service: service}
}

// Register mounts all JSON routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", h.register)
	mux.HandleFunc("/api/restart", h.restart)
	mux.HandleFunc("/api/profile", h.profile)
	mux.HandleFunc("/api/leaderboard", h.leaderboard)

	mux.HandleFunc("/api/mission/start", h.missionStart)
	mux.HandleFunc("/api/mission/select", h.missionSelect)
	mux.HandleFunc("/api/mission/reset", h.missionReset)
	mux.HandleFunc("/api/mission/state", h.missionState)
	mux.HandleFunc("/api/mission/quit", h.missionQuit)

	mux.HandleFunc("/api/quiz/start", h.quizStart)
	mux.HandleFunc("/api/quiz/select", h.quizSelect)
	mux.HandleFunc("/api/quiz/submit", h.quizSubmit)
	mux.HandleFunc("/api/quiz/next", h.quizNext)
	mux.HandleFunc("/api/quiz/finish", h.quizFinish)
	mux.HandleFunc("/api/quiz/state", h.quizState)
	mux.HandleFunc("/api/quiz/quit", h.quizQuit)
}

type registerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Branch  string `json:"branch"`
	Consent bool   `json:"consent"`
}

type registerResponse struct {
	SessionID string              `json:"sessionId"`
	Profile   domain.CadetProfile `json:"profile"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrMissingFields)
		return
	}
	id, profile, err := h.service.Register(r.Context(), req.Name, req.Email, req.Branch, req.Consent)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{SessionID: id, Profile: profile})
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.service.Restart(r.Context(), sessionID(r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "restarted"})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Leaderboard(r.Context()))
}

func (h *Handler) missionStart(w http.ResponseWriter, r *http.Request) {
	h.missionOp(w, r, http.MethodPost, func(id string) (domain.MissionView, error) {
		return h.service.StartMission(r.Context(), id)
	})
}

type missionSelectRequest struct {
	Step string `json:"step"`
}

func (h *Handler) missionSelect(w http.ResponseWriter, r *http.Request) {
	var req missionSelectRequest
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrUnknownStep)
			return
		}
	}
	h.missionOp(w, r, http.MethodPost, func(id string) (domain.MissionView, error) {
		return h.service.SelectMissionStep(r.Context(), id, req.Step)
	})
}

func (h *Handler) missionReset(w http.ResponseWriter, r *http.Request) {
	h.missionOp(w, r, http.MethodPost, func(id string) (domain.MissionView, error) {
		return h.service.ResetMissionOrder(r.Context(), id)
	})
}

func (h *Handler) missionState(w http.ResponseWriter, r *http.Request) {
	h.missionOp(w, r, http.MethodGet, func(id string) (domain.MissionView, error) {
		return h.service.MissionState(r.Context(), id)
	})
}

func (h *Handler) missionQuit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.service.QuitMission(r.Context(), sessionID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "quit"})
}

func (h *Handler) missionOp(w http.ResponseWriter, r *http.Request, method string, op func(string) (domain.MissionView, error)) {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := op(sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) quizStart(w http.ResponseWriter, r *http.Request) {
	h.quizOp(w, r, http.MethodPost, func(id string) (domain.QuizView, error) {
		return h.service.StartQuiz(r.Context(), id)
	})
}

type quizSelectRequest struct {
	Option int `json:"option"`
}

func (h *Handler) quizSelect(w http.ResponseWriter, r *http.Request) {
	req := quizSelectRequest{Option: -1}
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, domain.ErrInvalidOption)
			return
		}
	}
	h.quizOp(w, r, http.MethodPost, func(id string) (domain.QuizView, error) {
		return h.service.SelectQuizOption(r.Context(), id, req.Option)
	})
}

func (h *Handler) quizSubmit(w http.ResponseWriter, r *http.Request) {
	h.quizOp(w, r, http.MethodPost, func(id string) (domain.QuizView, error) {
		return h.service.SubmitQuizAnswer(r.Context(), id)
	})
}

func (h *Handler) quizNext(w http.ResponseWriter, r *http.Request) {
	h.quizOp(w, r, http.MethodPost, func(id string) (domain.QuizView, error) {
		return h.service.NextQuizQuestion(r.Context(), id)
	})
}

func (h *Handler) quizFinish(w http.ResponseWriter, r *http.Request) {
	h.quizOp(w, r, http.MethodPost, func(id string) (domain.QuizView, error) {
		return h.service.FinishQuiz(r.Context(), id)
	})
}

func (h *Handler) quizState(w http.ResponseWriter, r *http.Request) {
	h.quizOp(w, r, http.MethodGet, func(id string) (domain.QuizView, error) {
		return h.service.QuizState(r.Context(), id)
	})
}

func (h *Handler) quizQuit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.service.QuitQuiz(r.Context(), sessionID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "quit"})
}

func (h *Handler) quizOp(w http.ResponseWriter, r *http.Request, method string, op func(string) (domain.QuizView, error)) {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	view, err := op(sessionID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// sessionID reads the session from the header, falling back to the query
// string for websocket-style clients.
func sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("session")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrGameNotStarted),
		errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrStepAlreadyChosen),
		errors.Is(err, domain.ErrUnknownStep),
		errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrNotSubmitted),
		errors.Is(err, domain.ErrQuestionsRemaining),
		errors.Is(err, domain.ErrNoMoreQuestions):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNoContent):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
