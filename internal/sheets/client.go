// Package sheets keeps the registration list in a Google spreadsheet so
// staff can follow up with users straight from the sheet.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultBaseURL is the Sheets API v4 endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// Scopes requested for the service account.
var Scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

// Config locates the spreadsheet.
type Config struct {
	SpreadsheetID   string
	Sheet           string // tab name, default "Sheet1"
	CredentialsFile string // service-account JSON key
	BaseURL         string
	// Location is used for the time columns. Default Asia/Taipei, falling
	// back to UTC when the zone database is unavailable.
	Location *time.Location
}

// APIError is a non-2xx Sheets API response.
type APIError struct {
	Status int
	Body   struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets api: %d %s: %s", e.Status, e.Body.Status, e.Body.Message)
}

// client is a thin values API wrapper.
type client struct {
	http  *resty.Client
	id    string
	sheet string
}

// New authenticates with the service-account key in cfg.CredentialsFile.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	key, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read sheets credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(key, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse sheets credentials: %w", err)
	}
	return NewWithTokenSource(ctx, cfg, jwt.TokenSource(ctx))
}

// NewWithTokenSource builds a backend over an existing token source.
func NewWithTokenSource(ctx context.Context, cfg Config, ts oauth2.TokenSource) (*Backend, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}
	if cfg.Sheet == "" {
		cfg.Sheet = "Sheet1"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Location == nil {
		loc, err := time.LoadLocation("Asia/Taipei")
		if err != nil {
			loc = time.UTC
		}
		cfg.Location = loc
	}

	hc := resty.NewWithClient(oauth2.NewClient(ctx, ts)).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		})

	return &Backend{
		api: &client{http: hc, id: cfg.SpreadsheetID, sheet: cfg.Sheet},
		loc: cfg.Location,
	}, nil
}

type valueRange struct {
	Range  string  `json:"range,omitempty"`
	Values [][]any `json:"values"`
}

// a1 qualifies a cell range with the sheet name.
func (c *client) a1(r string) string {
	return fmt.Sprintf("'%s'!%s", c.sheet, r)
}

func (c *client) get(ctx context.Context, r string) ([][]string, error) {
	var out struct {
		Values [][]string `json:"values"`
	}
	apiErr := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": c.id, "range": c.a1(r)}).
		SetResult(&out).
		SetError(apiErr).
		Get("/v4/spreadsheets/{id}/values/{range}")
	if err := check(resp, err, apiErr); err != nil {
		return nil, err
	}
	return out.Values, nil
}

func (c *client) append(ctx context.Context, row []any) error {
	apiErr := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": c.id, "range": c.a1("A:I")}).
		SetQueryParams(map[string]string{
			"valueInputOption": "USER_ENTERED",
			"insertDataOption": "INSERT_ROWS",
		}).
		SetBody(valueRange{Values: [][]any{row}}).
		SetError(apiErr).
		Post("/v4/spreadsheets/{id}/values/{range}:append")
	return check(resp, err, apiErr)
}

// update writes several single cells in one call. Keys are A1 cells
// without the sheet name.
func (c *client) update(ctx context.Context, cells map[string]any) error {
	body := struct {
		ValueInputOption string       `json:"valueInputOption"`
		Data             []valueRange `json:"data"`
	}{ValueInputOption: "USER_ENTERED"}
	for cell, v := range cells {
		body.Data = append(body.Data, valueRange{Range: c.a1(cell), Values: [][]any{{v}}})
	}

	apiErr := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", c.id).
		SetBody(body).
		SetError(apiErr).
		Post("/v4/spreadsheets/{id}/values:batchUpdate")
	return check(resp, err, apiErr)
}

func check(resp *resty.Response, err error, apiErr *APIError) error {
	if err != nil {
		return fmt.Errorf("sheets request: %w", err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return nil
}
