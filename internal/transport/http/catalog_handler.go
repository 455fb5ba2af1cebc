package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"wiki-quiz-service/internal/app"
	"wiki-quiz-service/internal/domain"
	"wiki-quiz-service/internal/quizdoc"
)

const maxDocumentBytes = 1 << 20

// CatalogHandler serves the quiz history and imports generated quizzes.
type CatalogHandler struct {
	service  *app.PresentationService
	importer *app.Importer
	logger   *slog.Logger
}

func NewCatalogHandler(service *app.PresentationService, importer *app.Importer, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogHandler{service: service, importer: importer, logger: logger}
}

// Register mounts the catalog routes on mux.
func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /history", h.history)
	mux.HandleFunc("GET /quizzes/{id}", h.record)
	mux.HandleFunc("POST /quizzes", h.importQuiz)
}

type importRequest struct {
	URL      string          `json:"url"`
	Document json.RawMessage `json:"document"`
}

type recordResponse struct {
	domain.HistoryItem
	Quiz domain.Quiz `json:"quiz"`
}

func (h *CatalogHandler) history(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.History(r.Context())
	if err != nil {
		h.logger.Error("list history", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) record(w http.ResponseWriter, r *http.Request) {
	record, err := h.service.Record(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrQuizNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("get quiz", "quiz_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}
	writeJSON(w, http.StatusOK, recordResponse{HistoryItem: record.HistoryItem, Quiz: record.Quiz})
}

// importQuiz accepts the generator document either as a JSON object or as the
// raw generator text in a JSON string.
func (h *CatalogHandler) importQuiz(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	var req importRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.Document) == 0 {
		writeError(w, http.StatusBadRequest, "expected {url, document}")
		return
	}

	raw := []byte(req.Document)
	var text string
	if json.Unmarshal(req.Document, &text) == nil {
		raw = []byte(text)
	}

	item, err := h.importer.Import(r.Context(), req.URL, raw)
	switch {
	case errors.Is(err, quizdoc.ErrInvalidDocument), errors.Is(err, domain.ErrMalformedQuiz):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("import quiz", "url", req.URL, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import quiz")
		return
	}
	h.logger.Info("quiz imported", "quiz_id", item.ID, "url", item.URL)
	writeJSON(w, http.StatusCreated, item)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}
