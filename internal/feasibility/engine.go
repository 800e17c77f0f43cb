// Package feasibility computes how many units of each catalog product the
// current material stock supports. The computation is pure: it reads a
// snapshot, mutates nothing and performs no I/O, so identical inputs always
// produce identical output.
package feasibility

import (
	"math"

	"github.com/autoflex/inventory/internal/domain/models"
)

// Compute returns one ProductionSuggestion per product whose recipe fully
// resolves against the material snapshot. Output follows catalog order and
// each suggestion's materialsUsed preserves recipe order.
//
// A product is omitted when any composition references a material absent
// from the snapshot: a recipe pointing at a deleted material is invalid, and
// one malformed product must never block suggestions for the rest. A product
// whose recipe needs an out-of-stock material is still reported, with
// quantityPossible 0.
func Compute(materials []models.RawMaterial, products []models.Product) []models.ProductionSuggestion {
	byID := make(map[int64]models.RawMaterial, len(materials))
	for _, m := range materials {
		byID[m.ID] = m
	}

	suggestions := make([]models.ProductionSuggestion, 0, len(products))
	for _, p := range products {
		if s, ok := suggest(byID, p); ok {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

func suggest(byID map[int64]models.RawMaterial, p models.Product) (models.ProductionSuggestion, bool) {
	var (
		used     []models.MaterialComposition
		possible int64
		limited  bool
	)

	for _, c := range p.Compositions {
		if c.QuantityRequired <= 0 {
			// Creation-time validation filters these out; tolerate
			// stale rows rather than poisoning the whole product.
			continue
		}

		mat, ok := byID[c.RawMaterialID]
		if !ok {
			return models.ProductionSuggestion{}, false
		}

		units := flooredUnits(mat.StockQuantity, c.QuantityRequired)
		if !limited || units < possible {
			possible = units
			limited = true
		}

		used = append(used, models.MaterialComposition{
			Name:     mat.Name,
			Quantity: c.QuantityRequired,
		})
	}

	if !limited {
		// No valid composition survived; nothing meaningful to report.
		return models.ProductionSuggestion{}, false
	}

	return models.ProductionSuggestion{
		ProductName:      p.Name,
		QuantityPossible: possible,
		TotalPrice:       p.Price,
		MaterialsUsed:    used,
	}, true
}

// flooredUnits divides stock by the per-unit requirement and floors the
// result. Stocks large enough to overflow int64 clamp to MaxInt64: a
// float-to-int conversion out of range is implementation-defined and could
// turn an enormous stock into a negative count.
func flooredUnits(stock, required float64) int64 {
	f := math.Floor(stock / required)
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
