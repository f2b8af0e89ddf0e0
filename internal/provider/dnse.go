package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"sharkwatch/internal/httpx"
	"sharkwatch/internal/model"
)

const dnseBaseURL = "https://services.entrade.com.vn/chart-api/v2/ohlcs"

// DNSE fetches daily bars from the DNSE entrade chart API. The payload is
// column-oriented (parallel arrays keyed t/o/h/l/c/v) with unix-second
// timestamps and no foreign-flow data.
type DNSE struct {
	BaseURL string
	Client  *httpx.Client
}

// NewDNSE creates a DNSE adapter.
func NewDNSE(client *httpx.Client) *DNSE {
	return &DNSE{BaseURL: dnseBaseURL, Client: client}
}

func (d *DNSE) Name() string         { return "dnse" }
func (d *DNSE) HasForeignFlow() bool { return false }

func (d *DNSE) History(ctx context.Context, symbol string, start, end time.Time) (*Table, error) {
	endpoint := fmt.Sprintf("%s/stock?symbol=%s&resolution=1D&from=%d&to=%d",
		d.BaseURL, url.QueryEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewError(d.Name(), ClassFatal, err)
	}
	resp, err := d.Client.Do(ctx, req)
	if err != nil {
		return nil, NewError(d.Name(), ClassTransient, fmt.Errorf("fetch ohlcs: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewError(d.Name(), classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var payload struct {
		T []int64   `json:"t"`
		O []float64 `json:"o"`
		H []float64 `json:"h"`
		L []float64 `json:"l"`
		C []float64 `json:"c"`
		V []float64 `json:"v"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewError(d.Name(), ClassFatal, fmt.Errorf("decode ohlcs: %w", err))
	}
	if len(payload.T) == 0 {
		return nil, NewError(d.Name(), ClassNoData, ErrNoData)
	}

	table := &Table{
		Columns: []string{"time", "open", "high", "low", "close", "volume"},
		Rows:    make([][]any, 0, len(payload.T)),
	}
	for i, ts := range payload.T {
		row := []any{ts, cell(payload.O, i), cell(payload.H, i), cell(payload.L, i),
			cell(payload.C, i), cell(payload.V, i)}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Realtime is unsupported: the entrade chart API has no board endpoint.
func (d *DNSE) Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	return nil, NewError(d.Name(), ClassFatal, fmt.Errorf("realtime snapshot not supported"))
}

// cell guards against ragged parallel arrays in the upstream payload.
func cell(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
