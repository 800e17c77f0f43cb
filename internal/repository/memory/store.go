// Package memory provides a mutex-guarded in-memory Store. It backs tests
// and the STORAGE_DRIVER=memory mode for running the service without a
// database.
package memory

import (
	"context"
	"sync"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/repository"
)

// Store keeps all records in insertion-ordered slices.
type Store struct {
	mu         sync.RWMutex
	materials  []models.RawMaterial
	products   []models.Product
	reports    []models.ProductionReport
	materialID int64
	productID  int64
}

// Verify interface compliance.
var _ repository.Store = (*Store)(nil)

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// ListMaterials returns a copy of all materials in insertion order.
func (s *Store) ListMaterials(ctx context.Context) ([]models.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMaterials(s.materials), nil
}

// GetMaterial returns the material with the given id.
func (s *Store) GetMaterial(ctx context.Context, id int64) (*models.RawMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.materials {
		if m.ID == id {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertMaterial assigns the next id and stores the record.
func (s *Store) InsertMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materialID++
	m.ID = s.materialID
	s.materials = append(s.materials, m)
	out := m
	return &out, nil
}

// UpdateMaterial replaces the stored record with the same id.
func (s *Store) UpdateMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.materials {
		if s.materials[i].ID == m.ID {
			s.materials[i] = m
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// DeleteMaterial removes the record with the given id.
func (s *Store) DeleteMaterial(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.materials {
		if s.materials[i].ID == id {
			s.materials = append(s.materials[:i], s.materials[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ListProducts returns a copy of all products in insertion order.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyProducts(s.products), nil
}

// FindProductByName returns the first product with the given name.
func (s *Store) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.Name == name {
			out := copyProduct(p)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InsertProduct assigns the next id and stores the record.
func (s *Store) InsertProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productID++
	p.ID = s.productID
	stored := copyProduct(p)
	s.products = append(s.products, stored)
	out := copyProduct(stored)
	return &out, nil
}

// DeleteProduct removes the product and its embedded compositions.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// CountCompositionsUsing reports how many products reference the material.
func (s *Store) CountCompositionsUsing(ctx context.Context, materialID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.products {
		for _, c := range p.Compositions {
			if c.RawMaterialID == materialID {
				n++
				break
			}
		}
	}
	return n, nil
}

// Snapshot returns materials and products under one lock acquisition.
func (s *Store) Snapshot(ctx context.Context) ([]models.RawMaterial, []models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMaterials(s.materials), copyProducts(s.products), nil
}

// SaveReport appends a production report.
func (s *Store) SaveReport(ctx context.Context, report models.ProductionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// LatestReport returns the most recently saved report.
func (s *Store) LatestReport(ctx context.Context) (*models.ProductionReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.reports) == 0 {
		return nil, repository.ErrNotFound
	}
	out := s.reports[len(s.reports)-1]
	return &out, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close(ctx context.Context) error { return nil }

func copyMaterials(in []models.RawMaterial) []models.RawMaterial {
	out := make([]models.RawMaterial, len(in))
	copy(out, in)
	return out
}

func copyProduct(p models.Product) models.Product {
	out := p
	out.Compositions = make([]models.Composition, len(p.Compositions))
	copy(out.Compositions, p.Compositions)
	return out
}

func copyProducts(in []models.Product) []models.Product {
	out := make([]models.Product, len(in))
	for i, p := range in {
		out[i] = copyProduct(p)
	}
	return out
}
