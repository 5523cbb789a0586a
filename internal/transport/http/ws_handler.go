package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"quiz-maker-service/internal/app"
	"quiz-maker-service/internal/domain"
)

// WSHandler runs one take session per websocket connection.
type WSHandler struct {
	take     *app.TakeService
	progress *app.ProgressService
	upgrader websocket.Upgrader
}

func NewWSHandler(take *app.TakeService, progress *app.ProgressService) *WSHandler {
	return &WSHandler{
		take:     take,
		progress: progress,
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

type startPayload struct {
	Mode   domain.FeedbackMode `json:"mode"`
	Resume bool                `json:"resume"`
}

type selectPayload struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

type navigatePayload struct {
	Index int `json:"index"`
}

type startedPayload struct {
	Quiz     domain.Quiz     `json:"quiz"`
	Progress domain.Progress `json:"progress"`
	State    string          `json:"state"`
}

type hintPayload struct {
	QuestionID string `json:"questionId"`
	Hint       string `json:"hint"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func newErrorMessage(err error) outboundMessage[any] {
	payload := errorPayload{Message: err.Error()}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		payload.Errors = vErr.Violations
	}
	return outboundMessage[any]{Type: "error", Payload: payload}
}

// ServeWS upgrades HTTP requests to websockets and drives a take session:
// the client sends start, select, skip, hint, navigate, reveal, submit and
// clear events; the server answers each and streams progress updates for the
// quiz, including saves made by other connections.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders sync.WaitGroup

	// single writer; gorilla connections allow one concurrent writer
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				_ = conn.Close()
				return
			}
		}
	}()

	emit := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	subscribed := false
	subscribe := func() error {
		if subscribed {
			return nil
		}
		updates, cancel, err := h.progress.Subscribe(ctx, quizID)
		if err != nil {
			return err
		}
		subscribed = true
		forwarders.Add(1)
		go func() {
			defer forwarders.Done()
			defer cancel()
			for {
				select {
				case update, ok := <-updates:
					if !ok {
						return
					}
					select {
					case send <- outboundMessage[any]{Type: "progress", Payload: update}:
					case <-closeSignals:
						return
					case <-writerDone:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
		return nil
	}

	var session *app.TakeSession
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if inbound.Type != "start" && session == nil {
			emit(newErrorMessage(domain.ErrSessionClosed))
			continue
		}

		switch inbound.Type {
		case "start":
			if session != nil && session.State() == app.TakeInProgress {
				emit(newErrorMessage(errors.New("take session already started")))
				continue
			}
			var payload startPayload
			if err := decodePayload(inbound.Payload, &payload); err != nil {
				emit(newErrorMessage(err))
				continue
			}
			if payload.Mode == "" {
				payload.Mode = domain.FeedbackEnd
			}
			started, err := h.take.Start(ctx, quizID, payload.Mode, payload.Resume)
			if err != nil {
				emit(newErrorMessage(err))
				continue
			}
			session = started
			emit(outboundMessage[any]{Type: "started", Payload: startedPayload{
				Quiz:     session.Quiz(),
				Progress: session.Progress(),
				State:    session.State().String(),
			}})
			if err := subscribe(); err != nil {
				emit(newErrorMessage(err))
			}
		case "select":
			var payload selectPayload
			if err := decodePayload(inbound.Payload, &payload); err != nil {
				emit(newErrorMessage(err))
				continue
			}
			if err := h.take.Select(ctx, session, payload.QuestionID, payload.OptionID); err != nil {
				emit(newErrorMessage(err))
			}
		case "skip":
			if err := h.take.Skip(ctx, session); err != nil {
				emit(newErrorMessage(err))
			}
		case "hint":
			questionID := session.CurrentQuestion().ID
			hint, err := h.take.UseHint(ctx, session)
			if err != nil {
				emit(newErrorMessage(err))
				continue
			}
			emit(outboundMessage[any]{Type: "hint", Payload: hintPayload{QuestionID: questionID, Hint: hint}})
		case "navigate":
			var payload navigatePayload
			if err := decodePayload(inbound.Payload, &payload); err != nil {
				emit(newErrorMessage(err))
				continue
			}
			if err := h.take.Navigate(ctx, session, payload.Index); err != nil {
				emit(newErrorMessage(err))
			}
		case "reveal":
			result, err := h.take.Reveal(ctx, session)
			if err != nil {
				emit(newErrorMessage(err))
				continue
			}
			emit(outboundMessage[any]{Type: "questionResult", Payload: result})
		case "submit":
			attempt, err := h.take.Submit(ctx, session)
			if err != nil {
				emit(newErrorMessage(err))
				continue
			}
			emit(outboundMessage[any]{Type: "attempt", Payload: attempt})
		case "clear":
			if err := h.take.Clear(ctx, session); err != nil {
				emit(newErrorMessage(err))
			}
		default:
			emit(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}

	close(closeSignals)
	forwarders.Wait()
	close(send)
	<-writerDone
}

func decodePayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid payload: %w", domain.ErrInvalidInput)
	}
	return nil
}
