package inventory

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/metrics"
	"github.com/autoflex/inventory/internal/repository"
)

// ListMaterials returns all raw materials in insertion order.
func (s *Service) ListMaterials(ctx context.Context) ([]models.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.ListMaterials(ctx)
}

// CreateMaterial validates and stores a new raw material.
func (s *Service) CreateMaterial(ctx context.Context, name string, stockQuantity float64) (*models.RawMaterial, error) {
	if err := validateMaterial(name, stockQuantity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created, err := s.store.InsertMaterial(ctx, models.RawMaterial{
		Name:          strings.TrimSpace(name),
		StockQuantity: stockQuantity,
	})
	if err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("material", "create").Inc()
	s.logger.Info("material created",
		zap.Int64("id", created.ID),
		zap.String("name", created.Name),
		zap.Float64("stock", created.StockQuantity))
	return created, nil
}

// UpdateMaterial replaces the name and stock quantity of an existing material.
func (s *Service) UpdateMaterial(ctx context.Context, id int64, name string, stockQuantity float64) (*models.RawMaterial, error) {
	if err := validateMaterial(name, stockQuantity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.store.UpdateMaterial(ctx, models.RawMaterial{
		ID:            id,
		Name:          strings.TrimSpace(name),
		StockQuantity: stockQuantity,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("material", id)
	}
	if err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("material", "update").Inc()
	s.logger.Info("material updated",
		zap.Int64("id", updated.ID),
		zap.Float64("stock", updated.StockQuantity))
	return updated, nil
}

// DeleteMaterial removes a material unless some recipe still consumes it.
func (s *Service) DeleteMaterial(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inUse, err := s.store.CountCompositionsUsing(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return models.NewConflictError("material %d is used by %d product(s)", id, inUse)
	}

	err = s.store.DeleteMaterial(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("material", id)
	}
	if err != nil {
		return err
	}

	metrics.Mutations.WithLabelValues("material", "delete").Inc()
	s.logger.Info("material deleted", zap.Int64("id", id))
	return nil
}

func validateMaterial(name string, stockQuantity float64) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("material name must not be empty")
	}
	if stockQuantity < 0 {
		return models.NewValidationError("stock quantity must not be negative, got %v", stockQuantity)
	}
	return nil
}
