// Package inventory owns the material ledger and the recipe catalog. All
// mutations funnel through one service guarded by a single RWMutex, so
// check-then-act sequences (delete-if-unused, create-with-valid-references)
// never interleave, and snapshot reads for the feasibility engine observe
// materials and products at one logical point.
package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/feasibility"
	"github.com/autoflex/inventory/internal/metrics"
	"github.com/autoflex/inventory/internal/repository"
)

// Service exposes ledger and catalog operations over a Store.
type Service struct {
	mu     sync.RWMutex
	store  repository.Store
	logger *zap.Logger
}

// NewService wires a new inventory service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Snapshot returns materials and products at a single logical point relative
// to any in-flight mutation.
func (s *Service) Snapshot(ctx context.Context) ([]models.RawMaterial, []models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Snapshot(ctx)
}

// SuggestedProduction recomputes the feasibility report from a fresh
// snapshot. Results are never cached: recomputing on every request avoids
// the staleness problem outright at this scale.
func (s *Service) SuggestedProduction(ctx context.Context) ([]models.ProductionSuggestion, error) {
	materials, products, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	metrics.SuggestionRuns.Inc()
	return feasibility.Compute(materials, products), nil
}
