package inventory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/repository/memory"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewStore(), nil)
}

func mustCreateMaterial(t *testing.T, svc *Service, name string, stock float64) *models.RawMaterial {
	t.Helper()
	m, err := svc.CreateMaterial(context.Background(), name, stock)
	if err != nil {
		t.Fatalf("CreateMaterial(%q) failed: %v", name, err)
	}
	return m
}

func TestCreateMaterial_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		stock float64
	}{
		{"", 10},
		{"   ", 10},
		{"Steel", -1},
	}
	for _, tt := range tests {
		_, err := svc.CreateMaterial(ctx, tt.name, tt.stock)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("CreateMaterial(%q, %v): expected ValidationError, got %v", tt.name, tt.stock, err)
		}
	}
}

func TestCreateMaterial_AssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t)

	first := mustCreateMaterial(t, svc, "Steel", 10)
	second := mustCreateMaterial(t, svc, "Oak", 5)

	if first.ID == 0 || second.ID == 0 {
		t.Fatalf("expected assigned ids, got %d and %d", first.ID, second.ID)
	}
	if second.ID <= first.ID {
		t.Errorf("ids must be monotonic: %d then %d", first.ID, second.ID)
	}
}

func TestUpdateMaterial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	m := mustCreateMaterial(t, svc, "Steel", 10)

	updated, err := svc.UpdateMaterial(ctx, m.ID, "Steel Plate", 25)
	if err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}
	if updated.Name != "Steel Plate" || updated.StockQuantity != 25 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	_, err = svc.UpdateMaterial(ctx, 9999, "Ghost", 1)
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError for unknown id, got %v", err)
	}

	_, err = svc.UpdateMaterial(ctx, m.ID, "", 1)
	var validationErr *models.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("expected ValidationError for empty name, got %v", err)
	}
}

func TestDeleteMaterial_BlockedWhileInUse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)
	oak := mustCreateMaterial(t, svc, "Oak", 10)

	_, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	err = svc.DeleteMaterial(ctx, steel.ID)
	var conflictErr *models.ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError deleting referenced material, got %v", err)
	}

	// An unreferenced material deletes cleanly and disappears from list().
	if err := svc.DeleteMaterial(ctx, oak.ID); err != nil {
		t.Fatalf("DeleteMaterial(unreferenced) failed: %v", err)
	}
	materials, err := svc.ListMaterials(ctx)
	if err != nil {
		t.Fatalf("ListMaterials failed: %v", err)
	}
	for _, m := range materials {
		if m.ID == oak.ID {
			t.Errorf("deleted material %d still listed", oak.ID)
		}
	}
}

func TestDeleteMaterial_FreedAfterProductDeletion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)
	p, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if err := svc.DeleteProductByID(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProductByID failed: %v", err)
	}
	if err := svc.DeleteMaterial(ctx, steel.ID); err != nil {
		t.Errorf("material should be deletable after product removal, got %v", err)
	}
}

func TestDeleteMaterial_NotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.DeleteMaterial(context.Background(), 42)
	var notFoundErr *models.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)

	tests := []struct {
		desc         string
		name         string
		price        float64
		compositions []models.Composition
	}{
		{"empty name", "", 50, []models.Composition{{RawMaterialID: steel.ID, QuantityRequired: 1}}},
		{"zero price", "Axe", 0, []models.Composition{{RawMaterialID: steel.ID, QuantityRequired: 1}}},
		{"negative price", "Axe", -5, []models.Composition{{RawMaterialID: steel.ID, QuantityRequired: 1}}},
		{"no compositions", "Axe", 50, nil},
		{"only invalid quantities", "Axe", 50, []models.Composition{{RawMaterialID: steel.ID, QuantityRequired: 0}}},
		{"only unknown materials", "Axe", 50, []models.Composition{{RawMaterialID: 999, QuantityRequired: 2}}},
	}
	for _, tt := range tests {
		_, err := svc.CreateProduct(ctx, tt.name, tt.price, tt.compositions)
		var validationErr *models.ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("%s: expected ValidationError, got %v", tt.desc, err)
		}
	}
}

func TestCreateProduct_FiltersInvalidEntries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)

	p, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
		{RawMaterialID: 999, QuantityRequired: 2},
		{RawMaterialID: steel.ID, QuantityRequired: -3},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if len(p.Compositions) != 1 {
		t.Fatalf("expected 1 surviving composition, got %d", len(p.Compositions))
	}
	if p.Compositions[0].RawMaterialID != steel.ID || p.Compositions[0].QuantityRequired != 4 {
		t.Errorf("unexpected surviving composition: %+v", p.Compositions[0])
	}
}

func TestListProducts_ResolvesCompositions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)
	if _, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	resolved := products[0].Compositions[0].RawMaterial
	if resolved == nil || resolved.Name != "Steel" {
		t.Errorf("composition not resolved: %+v", products[0].Compositions[0])
	}
}

func TestDeleteProduct_ByNameAndByID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 100)
	axe, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, "Shield", 80, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 6},
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	// Numeric identifiers resolve as ids, anything else as names.
	if err := svc.DeleteProduct(ctx, "Shield"); err != nil {
		t.Fatalf("DeleteProduct by name failed: %v", err)
	}
	if err := svc.DeleteProduct(ctx, strconv.FormatInt(axe.ID, 10)); err != nil {
		t.Fatalf("DeleteProduct by id failed: %v", err)
	}

	var notFoundErr *models.NotFoundError
	if err := svc.DeleteProduct(ctx, "Ghost"); !errors.As(err, &notFoundErr) {
		t.Errorf("expected NotFoundError for unknown name, got %v", err)
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty catalog, got %d products", len(products))
	}
}

func TestSuggestedProduction_EndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)
	if _, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	suggestions, err := svc.SuggestedProduction(ctx)
	if err != nil {
		t.Fatalf("SuggestedProduction failed: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}
	s := suggestions[0]
	if s.ProductName != "Axe" || s.QuantityPossible != 2 || s.TotalPrice != 50 {
		t.Errorf("unexpected suggestion: %+v", s)
	}
	if len(s.MaterialsUsed) != 1 || s.MaterialsUsed[0].Name != "Steel" || s.MaterialsUsed[0].Quantity != 4 {
		t.Errorf("unexpected materialsUsed: %+v", s.MaterialsUsed)
	}
}

func TestSuggestedProduction_ReflectsStockUpdates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 10)
	if _, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	if _, err := svc.UpdateMaterial(ctx, steel.ID, "Steel", 40); err != nil {
		t.Fatalf("UpdateMaterial failed: %v", err)
	}

	suggestions, err := svc.SuggestedProduction(ctx)
	if err != nil {
		t.Fatalf("SuggestedProduction failed: %v", err)
	}
	if suggestions[0].QuantityPossible != 10 {
		t.Errorf("expected recomputed quantity 10, got %d", suggestions[0].QuantityPossible)
	}
}

// Run with -race: churns the ledger and catalog while suggestions are
// recomputed, checking every observed snapshot is internally consistent.
func TestSuggestedProduction_ConcurrentWithMutations(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	steel := mustCreateMaterial(t, svc, "Steel", 100)
	if _, err := svc.CreateProduct(ctx, "Axe", 50, []models.Composition{
		{RawMaterialID: steel.ID, QuantityRequired: 4},
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	const rounds = 200
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			m, err := svc.CreateMaterial(ctx, fmt.Sprintf("Scrap %d", i), float64(i))
			if err != nil {
				t.Errorf("CreateMaterial failed: %v", err)
				return
			}
			if err := svc.DeleteMaterial(ctx, m.ID); err != nil {
				t.Errorf("DeleteMaterial failed: %v", err)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			p, err := svc.CreateProduct(ctx, fmt.Sprintf("Blade %d", i), 10, []models.Composition{
				{RawMaterialID: steel.ID, QuantityRequired: 2},
			})
			if err != nil {
				t.Errorf("CreateProduct failed: %v", err)
				return
			}
			if err := svc.DeleteProductByID(ctx, p.ID); err != nil {
				t.Errorf("DeleteProductByID failed: %v", err)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if _, err := svc.UpdateMaterial(ctx, steel.ID, "Steel", float64(100+i%7)); err != nil {
				t.Errorf("UpdateMaterial failed: %v", err)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			suggestions, err := svc.SuggestedProduction(ctx)
			if err != nil {
				t.Errorf("SuggestedProduction failed: %v", err)
				return
			}
			for _, s := range suggestions {
				if s.QuantityPossible < 0 {
					t.Errorf("%s: negative quantityPossible %d", s.ProductName, s.QuantityPossible)
				}
				if len(s.MaterialsUsed) == 0 {
					t.Errorf("%s: suggestion with no materials", s.ProductName)
				}
			}
		}
	}()

	wg.Wait()

	// The churn leaves the durable state untouched.
	suggestions, err := svc.SuggestedProduction(ctx)
	if err != nil {
		t.Fatalf("SuggestedProduction failed: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].ProductName != "Axe" {
		t.Fatalf("unexpected suggestions after churn: %+v", suggestions)
	}
	if got := suggestions[0].QuantityPossible; got < 25 || got > 26 {
		t.Errorf("QuantityPossible = %d, want floor(stock/4) for stock in [100,106]", got)
	}

	// Serialized mutations guarantee no recipe ever points at a deleted
	// material, even after heavy interleaving.
	materials, products, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	known := make(map[int64]bool, len(materials))
	for _, m := range materials {
		known[m.ID] = true
	}
	for _, p := range products {
		for _, c := range p.Compositions {
			if !known[c.RawMaterialID] {
				t.Errorf("%s references deleted material %d", p.Name, c.RawMaterialID)
			}
		}
	}
}
