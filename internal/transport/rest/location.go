package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/service/location"
)

// locationService defines the minimal interface needed by LocationHandler.
type locationService interface {
	Set(ctx context.Context, input location.SetInput) error
	List(ctx context.Context) ([]domain.Location, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	ListAdminAreas(ctx context.Context) ([]domain.AdministrativeArea, error)
}

// LocationHandler serves the reference-data endpoints.
type LocationHandler struct {
	svc locationService
	log *slog.Logger
}

// NewLocationHandler creates a LocationHandler.
func NewLocationHandler(svc locationService, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{svc: svc, log: logger.With("handler", "location")}
}

type locationPayload struct {
	ID           uuid.UUID  `json:"id"`
	ParentID     *uuid.UUID `json:"parentId"`
	Name         string     `json:"name"`
	LocationType string     `json:"locationType"`
	ValidUntil   *time.Time `json:"validUntil"`
}

type setLocationsRequest struct {
	Locations []locationPayload `json:"locations"`
}

type locationIDRequest struct {
	ID uuid.UUID `json:"id"`
}

// Set handles POST /api/locations.set. Seeding is additive: the batch
// inserts or updates, records absent from it are left untouched.
func (h *LocationHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setLocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	locations := make([]domain.Location, 0, len(req.Locations))
	for _, l := range req.Locations {
		locations = append(locations, domain.Location{
			ID:           l.ID,
			ParentID:     l.ParentID,
			Name:         l.Name,
			LocationType: domain.LocationType(l.LocationType),
			ValidUntil:   l.ValidUntil,
		})
	}

	if err := h.svc.Set(r.Context(), location.SetInput{Locations: locations}); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "count": len(locations)})
}

// List handles POST /api/locations.list.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := h.svc.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	results := make([]locationResponse, 0, len(locations))
	for _, l := range locations {
		results = append(results, toLocationResponse(l))
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Get handles POST /api/locations.get.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req locationIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.svc.Get(r.Context(), req.ID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toLocationResponse(*l))
}

// ListAdminAreas handles POST /api/locations.adminAreas.list.
func (h *LocationHandler) ListAdminAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.ListAdminAreas(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	results := make([]adminAreaResponse, 0, len(areas))
	for _, a := range areas {
		results = append(results, adminAreaResponse{ID: a.ID, ParentID: a.ParentID, Name: a.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
