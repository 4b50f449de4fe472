// Package sheets reads the attendance spreadsheet the import runs against,
// either from its published CSV export or through the Sheets API.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ukd-dev/ukdportal/internal/common"
	"github.com/ukd-dev/ukdportal/internal/netx"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Source yields the raw grid of a sheet, header rows included.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// CSVSource downloads a "File > Share > Publish to web" CSV export.
type CSVSource struct {
	URL    string
	Client *http.Client
}

func NewCSVSource(url string, timeout time.Duration) *CSVSource {
	return &CSVSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (s *CSVSource) Rows(ctx context.Context) ([][]string, error) {
	body, err := netx.FetchBytes(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}
	return ParseCSV(body)
}

// ParseCSV reads a sheet export. Rows may have different lengths and stray
// quotes are tolerated, as spreadsheet exports often contain both.
func ParseCSV(body []byte) ([][]string, error) {
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(body))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv: %v", common.ErrExternalFetch, err)
	}
	return rows, nil
}

// APISource reads a range through the Sheets API using an API key, which
// works for sheets shared as "anyone with the link".
type APISource struct {
	SpreadsheetID string
	Range         string
	Timeout       time.Duration
	Options       []option.ClientOption
}

func NewAPISource(apiKey, spreadsheetID, readRange string, timeout time.Duration) *APISource {
	return &APISource{
		SpreadsheetID: spreadsheetID,
		Range:         readRange,
		Timeout:       timeout,
		Options:       []option.ClientOption{option.WithAPIKey(apiKey)},
	}
}

func (s *APISource) Rows(ctx context.Context) ([][]string, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	srv, err := sheetsapi.NewService(ctx, s.Options...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrExternalFetch, err)
	}

	resp, err := srv.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return nil, &netx.StatusError{StatusCode: apiErr.Code}
		}
		return nil, fmt.Errorf("%w: %v", common.ErrExternalFetch, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
