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

const tcbsBaseURL = "https://apipro.tcbs.com.vn/stock-insight/v1/stock"

// TCBS fetches daily bars from the TCBS stock-insight API. Its history
// payload carries foreign buy/sell quantities alongside OHLCV, which makes
// it the preferred source when foreign flow is wanted.
type TCBS struct {
	BaseURL string
	Client  *httpx.Client
}

// NewTCBS creates a TCBS adapter.
func NewTCBS(client *httpx.Client) *TCBS {
	return &TCBS{BaseURL: tcbsBaseURL, Client: client}
}

func (t *TCBS) Name() string         { return "tcbs" }
func (t *TCBS) HasForeignFlow() bool { return true }

// tcbsBar is the per-bar JSON shape from bars-long-term.
type tcbsBar struct {
	TradingDate     string  `json:"tradingDate"`
	Open            float64 `json:"open"`
	High            float64 `json:"high"`
	Low             float64 `json:"low"`
	Close           float64 `json:"close"`
	Volume          float64 `json:"volume"`
	BuyForeignQtty  float64 `json:"buyForeignQtty"`
	SellForeignQtty float64 `json:"sellForeignQtty"`
}

func (t *TCBS) History(ctx context.Context, symbol string, start, end time.Time) (*Table, error) {
	endpoint := fmt.Sprintf("%s/bars-long-term?ticker=%s&type=stock&resolution=D&from=%d&to=%d",
		t.BaseURL, url.QueryEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewError(t.Name(), ClassFatal, err)
	}
	resp, err := t.Client.Do(ctx, req)
	if err != nil {
		return nil, NewError(t.Name(), ClassTransient, fmt.Errorf("fetch bars: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewError(t.Name(), classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var payload struct {
		Data []tcbsBar `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewError(t.Name(), ClassFatal, fmt.Errorf("decode bars: %w", err))
	}
	if len(payload.Data) == 0 {
		return nil, NewError(t.Name(), ClassNoData, ErrNoData)
	}

	table := &Table{
		Columns: []string{"tradingDate", "open", "high", "low", "close", "volume",
			"buyForeignQtty", "sellForeignQtty"},
		Rows: make([][]any, 0, len(payload.Data)),
	}
	for _, b := range payload.Data {
		table.Rows = append(table.Rows, []any{
			b.TradingDate, b.Open, b.High, b.Low, b.Close, b.Volume,
			b.BuyForeignQtty, b.SellForeignQtty,
		})
	}
	return table, nil
}

// Realtime is not served by the bars API; the live board lives behind a
// different TCBS product. Fatal so the orchestrator moves on immediately.
func (t *TCBS) Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	return nil, NewError(t.Name(), ClassFatal, fmt.Errorf("realtime snapshot not supported"))
}
