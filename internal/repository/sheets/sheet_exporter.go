// Package sheets appends production report summaries to a Google
// spreadsheet. The export is optional: the service runs without it when no
// credentials are configured.
package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/autoflex/inventory/internal/config"
	"github.com/autoflex/inventory/internal/domain/models"
)

const (
	reportRange = "Reports!A:F"
	dateLayout  = "2006-01-02"
)

// Exporter pushes report rows to an external spreadsheet.
type Exporter interface {
	AppendReport(ctx context.Context, report models.ProductionReport) error
}

// SheetExporter implements Exporter using the official Google Sheets API.
type SheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewSheetExporter builds a Google Sheets backed exporter instance.
func NewSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*SheetExporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &SheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendReport writes one summary row per report run.
func (e *SheetExporter) AppendReport(ctx context.Context, report models.ProductionReport) error {
	values := []interface{}{
		report.Date.Format(dateLayout),
		report.MaterialCount,
		report.ProductCount,
		report.TotalStockUnits,
		report.TotalProducibleUnits,
		report.TotalPotentialRevenue,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, reportRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append report row into range %s: %w", reportRange, err)
	}

	e.logger.Debug("report row appended to sheet", zap.String("range", reportRange))
	return nil
}
