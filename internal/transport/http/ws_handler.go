package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/app"
	"github.com/BhavyaSpace/APOGEE-Orientation-Game/internal/domain"
)

// statePushInterval drives the countdown on connected clients.
const statePushInterval = time.Second

type WSHandler struct {
	service  *app.TrialsService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TrialsService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type stepPayload struct {
	Step string `json:"step"`
}

type optionPayload struct {
	Option int `json:"option"`
}

// ServeMission upgrades the connection and streams mission state snapshots
// while the cadet plays.
func (h *WSHandler) ServeMission(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(sessionID string, msg inboundMessage) (any, error) {
		ctx := r.Context()
		switch msg.Type {
		case "start":
			return h.service.StartMission(ctx, sessionID)
		case "select":
			var payload stepPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return nil, domain.ErrUnknownStep
			}
			return h.service.SelectMissionStep(ctx, sessionID, payload.Step)
		case "reset":
			return h.service.ResetMissionOrder(ctx, sessionID)
		case "quit":
			return nil, h.service.QuitMission(ctx, sessionID)
		default:
			return nil, errUnsupported
		}
	}, func(sessionID string) (any, error) {
		return h.service.MissionState(r.Context(), sessionID)
	})
}

// ServeQuiz is the quiz counterpart of ServeMission.
func (h *WSHandler) ServeQuiz(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(sessionID string, msg inboundMessage) (any, error) {
		ctx := r.Context()
		switch msg.Type {
		case "start":
			return h.service.StartQuiz(ctx, sessionID)
		case "select":
			var payload optionPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				return nil, domain.ErrInvalidOption
			}
			return h.service.SelectQuizOption(ctx, sessionID, payload.Option)
		case "submit":
			return h.service.SubmitQuizAnswer(ctx, sessionID)
		case "next":
			return h.service.NextQuizQuestion(ctx, sessionID)
		case "finish":
			return h.service.FinishQuiz(ctx, sessionID)
		case "quit":
			return nil, h.service.QuitQuiz(ctx, sessionID)
		default:
			return nil, errUnsupported
		}
	}, func(sessionID string) (any, error) {
		return h.service.QuizState(r.Context(), sessionID)
	})
}

var errUnsupported = errors.New("unsupported message type")

func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, dispatch func(string, inboundMessage) (any, error), state func(string) (any, error)) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}
	if _, err := h.service.Profile(r.Context(), sessionID); err != nil {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// The ticker re-renders every second so the countdown and the timeout
	// transitions reach the client without polling.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(statePushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				view, err := state(sessionID)
				if err != nil {
					continue
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: view}:
				case <-writerDone:
					return
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	// Sends race a dead writer: if it exited on a write error with the buffer
	// full, a bare send would strand this read loop forever.
	enqueue := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		view, err := dispatch(sessionID, inbound)
		var msg outboundMessage[any]
		switch {
		case err != nil:
			msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		case view == nil:
			msg = outboundMessage[any]{Type: "quit", Payload: nil}
		default:
			msg = outboundMessage[any]{Type: "state", Payload: view}
		}
		if !enqueue(msg) {
			break
		}
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}
