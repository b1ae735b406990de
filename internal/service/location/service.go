// Package location manages the administrative / facility reference data
// used by declarations. Seeding is additive only.
package location

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/domain"
)

type locationRepo interface {
	UpsertBatch(ctx context.Context, locations []domain.Location) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	ListAdminAreas(ctx context.Context) ([]domain.AdministrativeArea, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements location reference-data seeding and lookup.
type Service struct {
	log       *slog.Logger
	locations locationRepo
	tx        txManager
}

// NewService creates a new location service.
func NewService(logger *slog.Logger, locations locationRepo, tx txManager) *Service {
	return &Service{
		log:       logger.With("service", "location"),
		locations: locations,
		tx:        tx,
	}
}
