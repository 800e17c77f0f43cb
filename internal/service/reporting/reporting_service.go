// Package reporting aggregates feasibility results into persisted production
// reports and serves spreadsheet exports of the current suggestions.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/autoflex/inventory/internal/domain/models"
	"github.com/autoflex/inventory/internal/feasibility"
	"github.com/autoflex/inventory/internal/metrics"
	"github.com/autoflex/inventory/internal/repository"
	"github.com/autoflex/inventory/internal/repository/sheets"
)

// Snapshotter supplies a consistent materials+products view.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]models.RawMaterial, []models.Product, error)
}

// Service builds, persists and exports production reports.
type Service struct {
	inventory Snapshotter
	store     repository.Store
	exporter  sheets.Exporter
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. The exporter may be nil
// when no spreadsheet is configured.
func NewService(inventory Snapshotter, store repository.Store, exporter sheets.Exporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inventory, store: store, exporter: exporter, logger: logger}
}

// BuildReport computes the current feasibility aggregate. Revenue is summed
// with decimal arithmetic so per-line rounding never drifts the total.
func (s *Service) BuildReport(ctx context.Context, now time.Time) (models.ProductionReport, error) {
	materials, products, err := s.inventory.Snapshot(ctx)
	if err != nil {
		return models.ProductionReport{}, fmt.Errorf("snapshot inventory: %w", err)
	}

	suggestions := feasibility.Compute(materials, products)

	var totalStock float64
	for _, m := range materials {
		totalStock += m.StockQuantity
	}

	var (
		totalUnits   int64
		totalRevenue = decimal.Zero
		lines        = make([]models.ReportLine, 0, len(suggestions))
	)
	for _, sg := range suggestions {
		revenue := decimal.NewFromFloat(sg.TotalPrice).
			Mul(decimal.NewFromInt(sg.QuantityPossible))
		totalUnits += sg.QuantityPossible
		totalRevenue = totalRevenue.Add(revenue)

		lines = append(lines, models.ReportLine{
			ProductName:      sg.ProductName,
			QuantityPossible: sg.QuantityPossible,
			UnitPrice:        sg.TotalPrice,
			PotentialRevenue: revenue.InexactFloat64(),
		})
	}

	return models.ProductionReport{
		Date:                  now.Truncate(24 * time.Hour),
		MaterialCount:         len(materials),
		ProductCount:          len(products),
		TotalStockUnits:       totalStock,
		TotalProducibleUnits:  totalUnits,
		TotalPotentialRevenue: totalRevenue.InexactFloat64(),
		Lines:                 lines,
		CreatedAt:             now,
	}, nil
}

// GenerateDaily builds the report, persists it and, when an exporter is
// configured, appends the summary row to the spreadsheet. An export failure
// does not fail the run; the persisted report is the source of truth.
func (s *Service) GenerateDaily(ctx context.Context, now time.Time) (models.ProductionReport, error) {
	report, err := s.BuildReport(ctx, now)
	if err != nil {
		return models.ProductionReport{}, err
	}

	if err := s.store.SaveReport(ctx, report); err != nil {
		return models.ProductionReport{}, fmt.Errorf("persist report: %w", err)
	}
	metrics.ReportRuns.Inc()

	if s.exporter != nil {
		if err := s.exporter.AppendReport(ctx, report); err != nil {
			s.logger.Error("sheet export failed", zap.Error(err))
		}
	}

	s.logger.Info("production report generated",
		zap.Int("products", report.ProductCount),
		zap.Int64("producibleUnits", report.TotalProducibleUnits),
		zap.Float64("potentialRevenue", report.TotalPotentialRevenue))
	return report, nil
}

// LatestReport returns the most recently persisted report.
func (s *Service) LatestReport(ctx context.Context) (*models.ProductionReport, error) {
	report, err := s.store.LatestReport(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewNotFoundError("report", "latest")
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SuggestionsWorkbook renders the given suggestions as an xlsx workbook with
// one row per product plus a potential-revenue column.
func (s *Service) SuggestionsWorkbook(suggestions []models.ProductionSuggestion) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"product_name",
		"quantity_possible",
		"unit_price",
		"potential_revenue",
		"materials_used",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write workbook header: %w", err)
	}

	row := 2
	for _, sg := range suggestions {
		revenue := decimal.NewFromFloat(sg.TotalPrice).
			Mul(decimal.NewFromInt(sg.QuantityPossible))

		recipe := ""
		for i, mat := range sg.MaterialsUsed {
			if i > 0 {
				recipe += ", "
			}
			recipe += fmt.Sprintf("%vx %s", mat.Quantity, mat.Name)
		}

		values := []interface{}{
			sg.ProductName,
			sg.QuantityPossible,
			sg.TotalPrice,
			revenue.InexactFloat64(),
			recipe,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write workbook row %d: %w", row, err)
		}
		row++
	}

	return f, nil
}
