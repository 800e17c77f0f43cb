// Package repository defines the persistence contract shared by the mongodb
// and memory backends.
package repository

import (
	"context"
	"errors"

	"github.com/autoflex/inventory/internal/domain/models"
)

// ErrNotFound is returned by lookups whose target record does not exist.
// The service layer translates it into the caller-facing error taxonomy.
var ErrNotFound = errors.New("record not found")

// Store persists materials, products and production reports. Implementations
// assign int64 identities on insert and return copies that callers may
// mutate freely. Referential integrity between products and materials is the
// service layer's job, not the store's.
type Store interface {
	ListMaterials(ctx context.Context) ([]models.RawMaterial, error)
	GetMaterial(ctx context.Context, id int64) (*models.RawMaterial, error)
	InsertMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error)
	UpdateMaterial(ctx context.Context, m models.RawMaterial) (*models.RawMaterial, error)
	DeleteMaterial(ctx context.Context, id int64) error

	ListProducts(ctx context.Context) ([]models.Product, error)
	FindProductByName(ctx context.Context, name string) (*models.Product, error)
	InsertProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// CountCompositionsUsing reports how many products reference the
	// given material in their recipe.
	CountCompositionsUsing(ctx context.Context, materialID int64) (int64, error)

	// Snapshot returns materials and products at a single logical point,
	// in insertion order.
	Snapshot(ctx context.Context) ([]models.RawMaterial, []models.Product, error)

	SaveReport(ctx context.Context, report models.ProductionReport) error
	LatestReport(ctx context.Context) (*models.ProductionReport, error)

	Close(ctx context.Context) error
}
