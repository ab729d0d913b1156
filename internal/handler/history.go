package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/handler/dto"
	"github.com/speakhelper/speakhelper/internal/model"
)

// HistoryService is the practice-history capability the handlers need.
type HistoryService interface {
	RecordEntry(ctx context.Context, user *model.AuthenticatedUser, prompt, response string) (*model.PracticeEntry, error)
	ListEntries(ctx context.Context, user *model.AuthenticatedUser, limit int) ([]*model.PracticeEntry, error)
}

// HistoryHandler handles the practice-history endpoints. Routes must be
// mounted behind middleware.RequireUser.
type HistoryHandler struct {
	svc    HistoryService
	logger *slog.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(svc HistoryService, logger *slog.Logger) *HistoryHandler {
	return &HistoryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /practice-history.
func (h *HistoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PracticeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user := auth.UserFromContext(r.Context())
	entry, err := h.svc.RecordEntry(r.Context(), user, *req.Prompt, *req.Response)
	if err != nil {
		writeServiceError(w, r, h.logger, "practice_history_create", err)
		return
	}

	h.logger.Info("practice_entry_created",
		"entry_id", entry.ID,
		"user_id", entry.UserID,
	)

	writeJSON(w, http.StatusCreated, dto.PracticeEntryResponse{Status: "ok", Entry: entry})
}

// List handles GET /practice-history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "limit: must be an integer")
			return
		}
		limit = parsed
	}

	user := auth.UserFromContext(r.Context())
	entries, err := h.svc.ListEntries(r.Context(), user, limit)
	if err != nil {
		writeServiceError(w, r, h.logger, "practice_history_list", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PracticeHistoryResponse{Entries: entries})
}
