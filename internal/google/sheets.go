package google

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	bookingsSheet = "Bookings"
	bookingsRange = bookingsSheet + "!A:M"
)

// BookingHeaders names the columns of the bookings sheet, in order.
var BookingHeaders = []string{
	"Timestamp", "Client Name", "Client Email", "Client Phone", "Service",
	"Date", "Time", "Duration", "Price", "Status",
	"Confirmation Code", "Special Requests", "Calendar Event ID",
}

type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	logger        *slog.Logger
}

func NewSheetsClient(ctx context.Context, logger *slog.Logger, spreadsheetID string, opts ...option.ClientOption) (*SheetsClient, error) {
	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsClient{service: service, spreadsheetID: spreadsheetID, logger: logger}, nil
}

// AppendBooking appends one row to the bookings sheet and returns the
// updated range.
func (c *SheetsClient) AppendBooking(ctx context.Context, row []string) (string, error) {
	if len(row) != len(BookingHeaders) {
		return "", fmt.Errorf("booking row has %d columns, want %d", len(row), len(BookingHeaders))
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	resp, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, bookingsRange, &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to append booking row: %w", err)
	}

	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	c.logger.Debug("Booking row appended", "range", updated)
	return updated, nil
}

// CreateTracker creates a new spreadsheet with a header row on the
// bookings sheet and returns its id.
func (c *SheetsClient) CreateTracker(ctx context.Context, title string) (string, error) {
	created, err := c.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{
				Title:          bookingsSheet,
				GridProperties: &sheets.GridProperties{RowCount: 1000, ColumnCount: int64(len(BookingHeaders))},
			}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	header := make([]interface{}, len(BookingHeaders))
	for i, h := range BookingHeaders {
		header[i] = h
	}
	_, err = c.service.Spreadsheets.Values.Update(created.SpreadsheetId, bookingsSheet+"!A1:M1", &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return created.SpreadsheetId, fmt.Errorf("failed to write header row: %w", err)
	}
	return created.SpreadsheetId, nil
}
