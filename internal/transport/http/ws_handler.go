package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.PresentationService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PresentationService, logger *slog.Logger) *WSHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WSHandler{
		service: service,
		logger:  logger,
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

type selectPayload struct {
	QuestionIndex int     `json:"questionIndex"`
	OptionIndex   *int    `json:"optionIndex"`
	Option        *string `json:"option"`
}

type submitPayload struct {
	Confirmed bool `json:"confirmed"`
}

type confirmPayload struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one presentation per
// connection. A presentation opened here is closed when the socket goes away;
// one resumed by presentationId is left for its owner.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	presentationID := query.Get("presentationId")
	quizID := query.Get("quizId")
	if presentationID == "" && quizID == "" {
		http.Error(w, "missing quizId or presentationId", http.StatusBadRequest)
		return
	}
	mode, err := app.ParseMode(query.Get("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	resumed := presentationID != ""
	var opened app.Opened
	if resumed {
		view, err := h.service.View(ctx, presentationID)
		if err != nil {
			_ = conn.WriteJSON(errorMessage(err))
			return
		}
		opened = app.Opened{PresentationID: presentationID, View: view}
	} else {
		opened, err = h.service.Open(ctx, quizID, mode)
		if err != nil {
			_ = conn.WriteJSON(errorMessage(err))
			return
		}
		defer h.close(opened.PresentationID)
	}
	id := opened.PresentationID

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warn("ws write error", "presentation_id", id, "error", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "opened", Payload: opened}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg := h.handle(ctx, id, inbound)
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, id string, inbound inboundMessage) outboundMessage[any] {
	var (
		view app.View
		err  error
	)
	switch inbound.Type {
	case "select":
		var payload selectPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return invalidPayload("select")
		}
		switch {
		case payload.OptionIndex != nil:
			view, err = h.service.Select(ctx, id, payload.QuestionIndex, *payload.OptionIndex)
		case payload.Option != nil:
			view, err = h.service.SelectText(ctx, id, payload.QuestionIndex, *payload.Option)
		default:
			return invalidPayload("select")
		}
	case "submit":
		var payload submitPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return invalidPayload("submit")
		}
		view, err = h.service.Submit(ctx, id, payload.Confirmed)
	case "retake":
		view, err = h.service.Retake(ctx, id)
	case "view":
		view, err = h.service.View(ctx, id)
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "unsupported", Message: "unsupported message type"}}
	}

	var confirm *app.ConfirmationError
	switch {
	case errors.As(err, &confirm):
		return outboundMessage[any]{Type: "confirm", Payload: confirmPayload{Answered: confirm.Answered, Total: confirm.Total}}
	case err != nil:
		return errorMessage(err)
	}
	return outboundMessage[any]{Type: "view", Payload: view}
}

func (h *WSHandler) close(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.service.Close(ctx, id); err != nil {
		h.logger.Error("close presentation", "presentation_id", id, "error", err)
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func invalidPayload(kind string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: "invalid_payload", Message: "invalid " + kind + " payload"}}
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: errorCode(err), Message: err.Error()}}
}

// errorCode gives clients a stable identifier for the sentinel behind err.
func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrQuizNotFound):
		return "quiz_not_found"
	case errors.Is(err, domain.ErrPresentationNotFound):
		return "presentation_not_found"
	case errors.Is(err, domain.ErrMalformedQuiz):
		return "malformed_quiz"
	case errors.Is(err, domain.ErrReviewOnly):
		return "review_only"
	case errors.Is(err, domain.ErrAnswersLocked):
		return "answers_locked"
	case errors.Is(err, domain.ErrAlreadySubmitted):
		return "already_submitted"
	case errors.Is(err, domain.ErrQuestionNotFound):
		return "question_not_found"
	case errors.Is(err, domain.ErrOptionNotFound):
		return "option_not_found"
	case errors.Is(err, domain.ErrAmbiguousOption):
		return "ambiguous_option"
	default:
		return "internal"
	}
}
