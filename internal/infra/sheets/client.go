// Package sheets talks to the club's Google spreadsheet: one worksheet per
// response log, plus the shared Leaderboard worksheet.
package sheets

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// Client wraps the Sheets API for a single spreadsheet. Worksheets are
// created lazily, with their header row, the first time they are written to.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string

	mu    sync.Mutex
	known map[string]bool
}

// NewClient authenticates with a service-account credentials file, or an
// inline credentials payload when one is provided.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string, credentialsJSON []byte) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id not configured")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case len(credentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: auth failed: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		known:         make(map[string]bool),
	}, nil
}

// ensureWorksheet creates the named worksheet with its header row if the
// spreadsheet does not have it yet.
func (c *Client) ensureWorksheet(ctx context.Context, title string, header []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.known[title] {
		return nil
	}

	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			c.known[title] = true
			return nil
		}
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: add worksheet %s: %w", title, err)
	}
	if len(header) > 0 {
		if err := c.appendRow(ctx, title, header); err != nil {
			return err
		}
	}
	c.known[title] = true
	return nil
}

func (c *Client) appendRow(ctx context.Context, title string, row []string) error {
	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, title+"!A1", &sheets.ValueRange{
		Values: [][]interface{}{values},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", title, err)
	}
	return nil
}

func (c *Client) readRows(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", rangeSpec, err)
	}
	return resp.Values, nil
}
