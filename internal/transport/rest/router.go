package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opencivil/registry-backend/internal/config"
	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/metrics"
	"github.com/opencivil/registry-backend/internal/transport/middleware"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (ctxutil.Identity, error)
}

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Logger    *slog.Logger
	Events    eventService
	Drafts    draftService
	Locations locationService
	Validator tokenValidator
	DB        dbPinger
	Metrics   *metrics.Metrics
	CORS      config.CORSConfig
	Version   string
}

// NewRouter builds the full HTTP surface: health probes, Prometheus
// metrics, and the method-per-operation API under /api.
func NewRouter(deps RouterDeps) http.Handler {
	events := NewEventHandler(deps.Events, deps.Logger, deps.Metrics)
	drafts := NewDraftHandler(deps.Drafts, deps.Logger)
	locations := NewLocationHandler(deps.Locations, deps.Logger)
	health := NewHealthHandler(deps.DB, deps.Version)

	r := chi.NewRouter()
	r.Use(middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORS),
		middleware.Logger(deps.Logger),
		middleware.Metrics(deps.Metrics),
	))

	r.Get("/health", health.Health)
	r.Get("/live", health.Live)
	r.Get("/ready", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Auth(deps.Validator))

		api.Post("/event.create", events.Create)
		api.Post("/event.get", events.Get)
		api.Post("/event.list", events.List)
		api.Post("/event.delete", events.Delete)

		actionRoutes := map[string]domain.ActionType{
			"declare":          domain.ActionDeclare,
			"notify":           domain.ActionNotify,
			"validate":         domain.ActionValidate,
			"register":         domain.ActionRegister,
			"reject":           domain.ActionReject,
			"archive":          domain.ActionArchive,
			"printCertificate": domain.ActionPrintCertificate,
			"markDuplicate":    domain.ActionMarkDuplicate,
			"dismissDuplicate": domain.ActionDismissDuplicate,
			"read":             domain.ActionRead,
		}
		for name, actionType := range actionRoutes {
			api.Post("/event.actions."+name+".request", events.Action(actionType))
		}
		api.Post("/event.actions.assign.request", events.Assign)
		api.Post("/event.actions.unassign.request", events.Unassign)

		api.Post("/event.actions.correction.request.request", events.Action(domain.ActionRequestCorrection))
		api.Post("/event.actions.correction.approve.request", events.ApproveCorrection)
		api.Post("/event.actions.correction.reject.request", events.RejectCorrection)

		api.Post("/event.draft.create", drafts.Create)
		api.Post("/event.draft.list", drafts.List)
		api.Post("/event.draft.get", drafts.Get)

		api.With(middleware.RequireScope(domain.ScopeDataSeeding)).
			Post("/locations.set", locations.Set)
		api.Post("/locations.list", locations.List)
		api.Post("/locations.get", locations.Get)
		api.Post("/locations.adminAreas.list", locations.ListAdminAreas)
	})

	return r
}
