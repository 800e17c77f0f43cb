package inventory

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/metrics"
	"github.com/autoflex/inventory/internal/repository"
)

// ListProducts returns all products in insertion order, each composition
// resolved against the current material set. A composition whose material
// has since been deleted keeps its id but carries no resolved material.
func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	materials, products, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]models.RawMaterial, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	for i := range products {
		for j := range products[i].Compositions {
			if m, ok := byID[products[i].Compositions[j].RawMaterialID]; ok {
				resolved := m
				products[i].Compositions[j].RawMaterial = &resolved
			}
		}
	}
	return products, nil
}

// CreateProduct validates the payload, filters out composition entries with
// unknown materials or non-positive quantities, and stores the product with
// its surviving recipe. The recipe is fixed from this point on.
func (s *Service) CreateProduct(ctx context.Context, name string, price float64, compositions []models.Composition) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, models.NewValidationError("product name must not be empty")
	}
	if price <= 0 {
		return nil, models.NewValidationError("product price must be positive, got %v", price)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	materials, err := s.store.ListMaterials(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]bool, len(materials))
	for _, m := range materials {
		known[m.ID] = true
	}

	valid := make([]models.Composition, 0, len(compositions))
	for _, c := range compositions {
		if c.QuantityRequired <= 0 {
			s.logger.Warn("dropping composition with non-positive quantity",
				zap.Int64("materialId", c.RawMaterialID),
				zap.Float64("quantity", c.QuantityRequired))
			continue
		}
		if !known[c.RawMaterialID] {
			s.logger.Warn("dropping composition referencing unknown material",
				zap.Int64("materialId", c.RawMaterialID))
			continue
		}
		valid = append(valid, models.Composition{
			RawMaterialID:    c.RawMaterialID,
			QuantityRequired: c.QuantityRequired,
		})
	}
	if len(valid) == 0 {
		return nil, models.NewValidationError("product needs at least one valid composition")
	}

	created, err := s.store.InsertProduct(ctx, models.Product{
		Name:         strings.TrimSpace(name),
		Price:        price,
		Compositions: valid,
	})
	if err != nil {
		return nil, err
	}

	metrics.Mutations.WithLabelValues("product", "create").Inc()
	s.logger.Info("product created",
		zap.Int64("id", created.ID),
		zap.String("name", created.Name),
		zap.Int("compositions", len(created.Compositions)))
	return created, nil
}

// DeleteProductByID removes the product and its recipe. No stock is
// restored: creating a product never deducted any.
func (s *Service) DeleteProductByID(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteProductLocked(ctx, id)
}

// DeleteProductByName resolves the name to the oldest matching product and
// removes it. Kept for callers that predate id-keyed deletion.
func (s *Service) DeleteProductByName(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.FindProductByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("product", name)
	}
	if err != nil {
		return err
	}
	return s.deleteProductLocked(ctx, p.ID)
}

// DeleteProduct treats a numeric identifier as an id and anything else as a
// name. Id is the product's stable identity; the name form exists for the
// original dashboard, which deletes by display name.
func (s *Service) DeleteProduct(ctx context.Context, identifier string) error {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return s.DeleteProductByID(ctx, id)
	}
	return s.DeleteProductByName(ctx, identifier)
}

func (s *Service) deleteProductLocked(ctx context.Context, id int64) error {
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewNotFoundError("product", id)
	}
	if err != nil {
		return err
	}

	metrics.Mutations.WithLabelValues("product", "delete").Inc()
	s.logger.Info("product deleted", zap.Int64("id", id))
	return nil
}
