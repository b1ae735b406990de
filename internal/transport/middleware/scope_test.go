package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

func TestRequireScope(t *testing.T) {
	t.Parallel()

	handler := RequireScope(domain.ScopeDataSeeding)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		identity   *ctxutil.Identity
		wantStatus int
	}{
		{
			name:       "anonymous",
			identity:   nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing scope",
			identity:   &ctxutil.Identity{UserID: uuid.New()},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "has scope",
			identity: &ctxutil.Identity{
				UserID: uuid.New(),
				Scopes: []domain.Scope{domain.ScopeDataSeeding},
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/locations.set", nil)
			if tt.identity != nil {
				req = req.WithContext(ctxutil.WithIdentity(req.Context(), *tt.identity))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
