package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/service/draft"
)

// draftService defines the minimal interface needed by DraftHandler.
type draftService interface {
	Create(ctx context.Context, input draft.CreateInput) (*domain.Draft, error)
	List(ctx context.Context) ([]*domain.Draft, error)
	Get(ctx context.Context, eventID uuid.UUID) (*domain.Draft, error)
}

// DraftHandler serves the draft staging endpoints.
type DraftHandler struct {
	svc draftService
	log *slog.Logger
}

// NewDraftHandler creates a DraftHandler.
func NewDraftHandler(svc draftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{svc: svc, log: logger.With("handler", "draft")}
}

type createDraftRequest struct {
	EventID       uuid.UUID          `json:"eventId"`
	TransactionID uuid.UUID          `json:"transactionId"`
	Type          domain.ActionType  `json:"type"`
	Declaration   domain.Declaration `json:"declaration"`
	Annotation    map[string]any     `json:"annotation"`
}

// Create handles POST /api/event.draft.create.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.Create(r.Context(), draft.CreateInput{
		EventID:       req.EventID,
		TransactionID: req.TransactionID,
		Type:          req.Type,
		Declaration:   req.Declaration,
		Annotation:    req.Annotation,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDraftResponse(d))
}

// List handles POST /api/event.draft.list. It returns the caller's drafts.
func (h *DraftHandler) List(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	results := make([]draftResponse, 0, len(drafts))
	for _, d := range drafts {
		results = append(results, toDraftResponse(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Get handles POST /api/event.draft.get. A missing draft slot is a 404.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req eventIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := h.svc.Get(r.Context(), req.EventID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toDraftResponse(d))
}
