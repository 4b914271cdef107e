package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"quizforge/internal/domain"
	"quizforge/internal/quiz"
)

// WSHandler drives one quiz session per websocket connection. All lifecycle
// transitions are discrete client events handled synchronously in arrival
// order, so a single read loop is enough — there is exactly one owner per
// session and no fan-out.
type WSHandler struct {
	manager  *quiz.Manager
	upgrader websocket.Upgrader
	log      *zap.SugaredLogger
}

func NewWSHandler(manager *quiz.Manager, log *zap.SugaredLogger) *WSHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WSHandler{
		manager: manager,
		log:     log,
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

type setQuestionsPayload struct {
	Questions []domain.Question `json:"questions"`
	FileName  string            `json:"fileName"`
}

type updateQuestionPayload struct {
	Index    int             `json:"index"`
	Question domain.Question `json:"question"`
}

type optionPayload struct {
	Index       int    `json:"index"`
	OptionIndex int    `json:"optionIndex"`
	Text        string `json:"text"`
}

type answerPayload struct {
	Answer int `json:"answer"`
}

type removeHistoryPayload struct {
	ID string `json:"id"`
}

type submitPayload struct {
	Answers []domain.Answer `json:"answers"`
}

type sessionPayload struct {
	SessionID string       `json:"sessionId"`
	Session   quiz.Session `json:"session"`
}

// ServeWS upgrades the request and wires the socket into the session's
// lifecycle transitions.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	svc := h.manager.GetOrCreate(sessionID)

	writeJSON := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			h.log.Warnw("ws write failed", "session", sessionID, "err", err)
		}
	}
	sendState := func(sess quiz.Session) {
		writeJSON(outboundMessage[quiz.Session]{Type: "state", Payload: sess})
	}
	sendError := func(err error) {
		writeJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
	}

	writeJSON(outboundMessage[sessionPayload]{Type: "joined", Payload: sessionPayload{
		SessionID: sessionID,
		Session:   svc.Session(),
	}})

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "setQuestions":
			var p setQuestionsPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			sendState(svc.SetQuestions(ctx, p.Questions, p.FileName))

		case "updateQuestion":
			var p updateQuestionPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			sess, err := svc.UpdateQuestion(ctx, p.Index, p.Question)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "addOption":
			var p optionPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			h.editOption(ctx, svc, p.Index, func(q domain.Question) (domain.Question, error) {
				text := p.Text
				if text == "" {
					text = "New Option"
				}
				return domain.AddOption(q, text)
			}, sendState, sendError)

		case "removeOption":
			var p optionPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			h.editOption(ctx, svc, p.Index, func(q domain.Question) (domain.Question, error) {
				return domain.RemoveOption(q, p.OptionIndex)
			}, sendState, sendError)

		case "start":
			sess, err := svc.Start(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "answer":
			var p answerPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			sess, err := svc.Answer(ctx, p.Answer)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "next":
			sess, err := svc.Next(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "retry":
			sess, err := svc.Retry(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "reset":
			sendState(svc.Reset(ctx))

		case "loadProgress":
			sess, err := svc.LoadProgress(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "clearProgress":
			svc.ClearProgress(ctx)
			writeJSON(outboundMessage[quiz.SavedState]{Type: "saved", Payload: svc.Saved(ctx)})

		case "saved":
			writeJSON(outboundMessage[quiz.SavedState]{Type: "saved", Payload: svc.Saved(ctx)})

		case "restoreQuestions":
			sess, err := svc.RestoreQuestions(ctx)
			if err != nil {
				sendError(err)
				continue
			}
			sendState(sess)

		case "history":
			writeJSON(outboundMessage[[]domain.HistoryEntry]{Type: "history", Payload: svc.History(ctx)})

		case "removeHistory":
			var p removeHistoryPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			svc.RemoveHistory(ctx, p.ID)
			writeJSON(outboundMessage[[]domain.HistoryEntry]{Type: "history", Payload: svc.History(ctx)})

		case "submit":
			var p submitPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				sendError(errInvalidPayload)
				continue
			}
			writeJSON(outboundMessage[domain.SubmissionSummary]{Type: "submitResult", Payload: svc.Submit(p.Answers)})

		default:
			sendError(errUnsupportedType)
		}
	}
}

// editOption applies an option edit to one question and commits it through
// the validated UpdateQuestion transition.
func (h *WSHandler) editOption(ctx context.Context, svc *quiz.Service, index int, edit func(domain.Question) (domain.Question, error), sendState func(quiz.Session), sendError func(error)) {
	sess := svc.Session()
	if index < 0 || index >= len(sess.Questions) {
		sendError(domain.ErrQuestionIndex)
		return
	}
	edited, err := edit(sess.Questions[index])
	if err != nil {
		sendError(err)
		return
	}
	next, err := svc.UpdateQuestion(ctx, index, edited)
	if err != nil {
		sendError(err)
		return
	}
	sendState(next)
}

var (
	errInvalidPayload  = errors.New("invalid payload")
	errUnsupportedType = errors.New("unsupported message type")
)
