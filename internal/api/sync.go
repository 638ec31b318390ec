package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

type syncRequest struct {
	FeedbackID int `json:"feedback_id,omitempty"`
}

// SyncSheets asks the backend to push unsynced feedback to the spreadsheet.
// A non-zero feedbackID syncs only that record.
func (c *Client) SyncSheets(ctx context.Context, feedbackID int) (*domain.SyncResult, error) {
	var result domain.SyncResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/google-sheets-sync",
		body:   syncRequest{FeedbackID: feedbackID},
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SyncStatus reports how many records are already in the spreadsheet
func (c *Client) SyncStatus(ctx context.Context) (*domain.SyncStatus, error) {
	var status domain.SyncStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: "/google-sheets/status"}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SheetsConfig returns the backend's spreadsheet settings
func (c *Client) SheetsConfig(ctx context.Context) (*domain.SheetsConfig, error) {
	var cfg domain.SheetsConfig
	if err := c.do(ctx, request{method: http.MethodGet, path: "/google-sheets/config"}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type sheetsConfigRequest struct {
	SpreadsheetID string `json:"spreadsheet_id"`
}

// SetSpreadsheet points the backend at another spreadsheet and
// re-authenticates
func (c *Client) SetSpreadsheet(ctx context.Context, spreadsheetID string) (*domain.SheetsResult, error) {
	return c.sheetsAction(ctx, "/google-sheets/config", sheetsConfigRequest{SpreadsheetID: spreadsheetID})
}

type createSheetRequest struct {
	Title string `json:"title,omitempty"`
}

// CreateSpreadsheet creates a new spreadsheet; a blank title keeps the
// backend default
func (c *Client) CreateSpreadsheet(ctx context.Context, title string) (*domain.SheetsResult, error) {
	return c.sheetsAction(ctx, "/google-sheets/create", createSheetRequest{Title: title})
}

// TestSheets checks that the backend can reach the spreadsheet
func (c *Client) TestSheets(ctx context.Context) (*domain.SheetsResult, error) {
	return c.sheetsAction(ctx, "/google-sheets/test", struct{}{})
}

func (c *Client) sheetsAction(ctx context.Context, path string, body any) (*domain.SheetsResult, error) {
	var result domain.SheetsResult
	if err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
