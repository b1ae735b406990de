package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/metrics"
	"github.com/opencivil/registry-backend/internal/service/event"
)

// eventService defines the minimal interface needed by EventHandler.
type eventService interface {
	Create(ctx context.Context, input event.CreateInput) (*domain.Event, error)
	Get(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	GetState(ctx context.Context, eventID uuid.UUID) (*domain.EventState, error)
	List(ctx context.Context, input event.ListInput) (*event.ListResult, error)
	RequestAction(ctx context.Context, input event.RequestActionInput) (*domain.Event, error)
	Assign(ctx context.Context, input event.AssignInput) (*domain.Event, error)
	Unassign(ctx context.Context, input event.UnassignInput) (*domain.Event, error)
	ApproveCorrection(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error)
	RejectCorrection(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error)
}

// EventHandler serves the event workflow endpoints.
type EventHandler struct {
	svc     eventService
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewEventHandler creates an EventHandler. metrics may be nil.
func NewEventHandler(svc eventService, logger *slog.Logger, m *metrics.Metrics) *EventHandler {
	return &EventHandler{svc: svc, log: logger.With("handler", "event"), metrics: m}
}

type createEventRequest struct {
	TransactionID uuid.UUID `json:"transactionId"`
	Type          string    `json:"type"`
}

type eventIDRequest struct {
	EventID uuid.UUID `json:"eventId"`
}

type requestActionRequest struct {
	EventID        uuid.UUID          `json:"eventId"`
	TransactionID  uuid.UUID          `json:"transactionId"`
	Declaration    domain.Declaration `json:"declaration"`
	Annotation     map[string]any     `json:"annotation"`
	KeepAssignment bool               `json:"keepAssignment"`
}

type deleteEventRequest struct {
	EventID       uuid.UUID `json:"eventId"`
	TransactionID uuid.UUID `json:"transactionId"`
}

type assignRequest struct {
	EventID       uuid.UUID `json:"eventId"`
	TransactionID uuid.UUID `json:"transactionId"`
	AssignedTo    uuid.UUID `json:"assignedTo"`
}

type unassignRequest struct {
	EventID       uuid.UUID `json:"eventId"`
	TransactionID uuid.UUID `json:"transactionId"`
}

type correctionDecisionRequest struct {
	EventID        uuid.UUID `json:"eventId"`
	TransactionID  uuid.UUID `json:"transactionId"`
	RequestID      uuid.UUID `json:"requestId"`
	KeepAssignment bool      `json:"keepAssignment"`
}

type listEventsRequest struct {
	Type         string    `json:"type"`
	CreatedBy    uuid.UUID `json:"createdBy"`
	AssignedTo   uuid.UUID `json:"assignedTo"`
	TrackingID   string    `json:"trackingId"`
	UpdatedSince time.Time `json:"updatedSince"`
	Limit        int       `json:"limit"`
	Offset       int       `json:"offset"`
}

type listEventsResponse struct {
	Results []eventStateResponse `json:"results"`
	Total   int                  `json:"total"`
}

// Create handles POST /api/event.create.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.Create(r.Context(), event.CreateInput{
		TransactionID: req.TransactionID,
		Type:          req.Type,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.metrics.IncrementActionAccepted(e.Type, string(domain.ActionCreate))
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// Get handles POST /api/event.get. It returns the projected state together
// with the full action log.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	var req eventIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.Get(r.Context(), req.EventID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	state, err := h.svc.GetState(r.Context(), req.EventID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"event": toEventResponse(e),
		"state": toEventStateResponse(state),
	})
}

// List handles POST /api/event.list.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	var req listEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.List(r.Context(), event.ListInput{
		EventType:    req.Type,
		CreatedBy:    req.CreatedBy,
		AssignedTo:   req.AssignedTo,
		TrackingID:   req.TrackingID,
		UpdatedSince: req.UpdatedSince,
		Limit:        req.Limit,
		Offset:       req.Offset,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	results := make([]eventStateResponse, 0, len(result.States))
	for _, s := range result.States {
		results = append(results, toEventStateResponse(s))
	}
	writeJSON(w, http.StatusOK, listEventsResponse{Results: results, Total: result.Total})
}

// Delete handles POST /api/event.delete.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.RequestAction(r.Context(), event.RequestActionInput{
		EventID:       req.EventID,
		TransactionID: req.TransactionID,
		ActionType:    domain.ActionDelete,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.metrics.IncrementActionAccepted(e.Type, string(domain.ActionDelete))
	writeJSON(w, http.StatusOK, map[string]string{"id": e.ID.String(), "status": "deleted"})
}

// Action returns the handler for POST /api/event.actions.<type>.request.
// The action type is fixed per route; the body carries the payload.
func (h *EventHandler) Action(actionType domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requestActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		e, err := h.svc.RequestAction(r.Context(), event.RequestActionInput{
			EventID:        req.EventID,
			TransactionID:  req.TransactionID,
			ActionType:     actionType,
			Declaration:    req.Declaration,
			Annotation:     req.Annotation,
			KeepAssignment: req.KeepAssignment,
		})
		if err != nil {
			handleError(w, r, h.log, err)
			return
		}

		h.metrics.IncrementActionAccepted(e.Type, string(actionType))
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

// Assign handles POST /api/event.actions.assign.request.
func (h *EventHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.Assign(r.Context(), event.AssignInput{
		EventID:       req.EventID,
		TransactionID: req.TransactionID,
		AssignedTo:    req.AssignedTo,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.metrics.IncrementActionAccepted(e.Type, string(domain.ActionAssign))
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// Unassign handles POST /api/event.actions.unassign.request.
func (h *EventHandler) Unassign(w http.ResponseWriter, r *http.Request) {
	var req unassignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.svc.Unassign(r.Context(), event.UnassignInput{
		EventID:       req.EventID,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.metrics.IncrementActionAccepted(e.Type, string(domain.ActionUnassign))
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

// ApproveCorrection handles POST /api/event.actions.correction.approve.request.
func (h *EventHandler) ApproveCorrection(w http.ResponseWriter, r *http.Request) {
	h.decideCorrection(w, r, domain.ActionApproveCorrection, h.svc.ApproveCorrection)
}

// RejectCorrection handles POST /api/event.actions.correction.reject.request.
func (h *EventHandler) RejectCorrection(w http.ResponseWriter, r *http.Request) {
	h.decideCorrection(w, r, domain.ActionRejectCorrection, h.svc.RejectCorrection)
}

func (h *EventHandler) decideCorrection(
	w http.ResponseWriter,
	r *http.Request,
	actionType domain.ActionType,
	decide func(ctx context.Context, input event.CorrectionDecisionInput) (*domain.Event, error),
) {
	var req correctionDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := decide(r.Context(), event.CorrectionDecisionInput{
		EventID:        req.EventID,
		TransactionID:  req.TransactionID,
		RequestID:      req.RequestID,
		KeepAssignment: req.KeepAssignment,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.metrics.IncrementActionAccepted(e.Type, string(actionType))
	writeJSON(w, http.StatusOK, toEventResponse(e))
}
