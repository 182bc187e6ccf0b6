package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/battvalue/valuator/internal/domain"
)

const pricesSheet = "PRICES"

// priceColumns fixes the metal column order in the PRICES sheet.
var priceColumns = []domain.MetalSymbol{
	domain.MetalNickel,
	domain.MetalCobalt,
	domain.MetalLithium,
	domain.MetalCopper,
	domain.MetalAluminum,
	domain.MetalManganese,
}

// SheetsMonitor appends each refreshed market snapshot as a row to a Google
// Sheet, giving the trading desk a running price log. Implements
// worker.SnapshotHook.
type SheetsMonitor struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsMonitor creates a SheetsMonitor authenticated with a service account JSON.
func NewSheetsMonitor(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsMonitor, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsMonitor{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Record appends one snapshot row, creating the PRICES sheet with a header
// row on first use.
func (m *SheetsMonitor) Record(ctx context.Context, snapshot domain.MarketSnapshot) error {
	if err := m.ensureSheet(ctx); err != nil {
		return err
	}

	row := buildPriceRow(snapshot)
	_, err := m.svc.Spreadsheets.Values.Append(
		m.spreadsheetID,
		pricesSheet+"!A:J",
		&sheets.ValueRange{Values: [][]any{row}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending price row: %w", err)
	}

	return nil
}

// buildPriceRow flattens a snapshot into one sheet row.
// Columns: Date | Currency | Source | Ni | Co | Li | Cu | Al | Mn | FX
func buildPriceRow(snapshot domain.MarketSnapshot) []any {
	row := make([]any, 0, 4+len(priceColumns))
	row = append(row,
		snapshot.CapturedAt.Format("2006-01-02 15:04:05"),
		snapshot.Currency,
		snapshot.PriceSource,
	)
	for _, metal := range priceColumns {
		row = append(row, snapshot.SpotPrice(metal))
	}
	row = append(row, snapshot.FXRate)
	return row
}

// ensureSheet creates the PRICES sheet with its header row if missing.
func (m *SheetsMonitor) ensureSheet(ctx context.Context) error {
	spreadsheet, err := m.svc.Spreadsheets.Get(m.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties.Title == pricesSheet {
			return nil
		}
	}

	_, err = m.svc.Spreadsheets.BatchUpdate(
		m.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: pricesSheet},
				},
			}},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating prices sheet: %w", err)
	}

	header := []any{"Date", "Currency", "Source"}
	for _, metal := range priceColumns {
		header = append(header, string(metal))
	}
	header = append(header, "FX")

	_, err = m.svc.Spreadsheets.Values.Update(
		m.spreadsheetID,
		pricesSheet+"!A1",
		&sheets.ValueRange{Values: [][]any{header}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	return nil
}
