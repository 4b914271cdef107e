package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quizforge/internal/domain"
	"quizforge/internal/generate"
	"quizforge/internal/quiz"
)

// UploadHandler accepts the PDF upload, validates it, runs the generation
// collaborator, and installs the resulting questions into the session.
type UploadHandler struct {
	manager *quiz.Manager
	log     *zap.SugaredLogger
}

func NewUploadHandler(manager *quiz.Manager, log *zap.SugaredLogger) *UploadHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UploadHandler{manager: manager, log: log}
}

type generateResponse struct {
	SessionID string            `json:"sessionId"`
	FileName  string            `json:"fileName"`
	Questions []domain.Question `json:"questions"`
}

// ServeGenerate handles POST /generate. The multipart field "file" carries
// the PDF; ?demo=1 skips the collaborator and serves the demo set. A second
// upload while one is pending is rejected with 409.
func (h *UploadHandler) ServeGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	svc := h.manager.GetOrCreate(sessionID)

	if r.URL.Query().Get("demo") == "1" {
		sess, err := svc.GenerateDemo(r.Context())
		if err != nil {
			h.writeError(w, err)
			return
		}
		h.writeQuestions(w, sessionID, sess)
		return
	}

	if err := r.ParseMultipartForm(generate.MaxPDFBytes + 1<<20); err != nil {
		h.writeError(w, errors.New("invalid upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, errors.New("missing file field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, generate.MaxPDFBytes+1))
	if err != nil {
		h.writeError(w, errors.New("reading upload failed"))
		return
	}
	if err := generate.CheckPDF(data, header.Header.Get("Content-Type")); err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := svc.Generate(r.Context(), data, header.Filename)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeQuestions(w, sessionID, sess)
}

func (h *UploadHandler) writeQuestions(w http.ResponseWriter, sessionID string, sess quiz.Session) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(generateResponse{
		SessionID: sessionID,
		FileName:  sess.FileName,
		Questions: sess.Questions,
	}); err != nil {
		h.log.Warnw("writing generate response failed", "err", err)
	}
}

// writeError surfaces the failure message verbatim; clients show it as-is.
func (h *UploadHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, domain.ErrProcessing):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNoGenerator):
		status = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorPayload{Message: err.Error()})
}
