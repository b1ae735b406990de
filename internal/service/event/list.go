package event

import (
	"context"
	"fmt"

	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/pkg/ctxutil"
)

// ListResult is one page of projected event states.
type ListResult struct {
	States []*domain.EventState
	Total  int
}

// List returns a page of events matching the filter, each projected to its
// current state.
func (s *Service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	if _, ok := ctxutil.IdentityFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	filter := domain.EventFilter{
		EventType:    input.EventType,
		CreatedBy:    input.CreatedBy,
		AssignedTo:   input.AssignedTo,
		TrackingID:   input.TrackingID,
		UpdatedSince: input.UpdatedSince,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}

	events, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Configurations rarely vary within a page; fetch each type once.
	configs := make(map[string]*domain.EventConfiguration)
	states := make([]*domain.EventState, 0, len(events))
	now := s.now()
	for _, e := range events {
		cfg, ok := configs[e.Type]
		if !ok {
			cfg, err = s.configs.GetConfiguration(ctx, e.Type)
			if err != nil {
				return nil, fmt.Errorf("load event configuration for %q: %w", e.Type, err)
			}
			configs[e.Type] = cfg
		}
		states = append(states, Project(e, cfg, now))
	}

	return &ListResult{States: states, Total: total}, nil
}
