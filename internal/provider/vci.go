package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sharkwatch/internal/httpx"
	"sharkwatch/internal/model"
)

const vciBaseURL = "https://trading.vietcap.com.vn/api"

// VCI fetches daily bars and the live price board from the Vietcap trading
// API. History is price-only; the board snapshot carries foreign volumes,
// so VCI doubles as the realtime source for the patch step.
type VCI struct {
	BaseURL string
	Client  *httpx.Client
}

// NewVCI creates a VCI adapter.
func NewVCI(client *httpx.Client) *VCI {
	return &VCI{BaseURL: vciBaseURL, Client: client}
}

func (v *VCI) Name() string         { return "vci" }
func (v *VCI) HasForeignFlow() bool { return false }

func (v *VCI) History(ctx context.Context, symbol string, start, end time.Time) (*Table, error) {
	reqBody, err := json.Marshal(map[string]any{
		"timeFrame": "ONE_DAY",
		"symbols":   []string{symbol},
		"from":      start.Unix(),
		"to":        end.Unix(),
	})
	if err != nil {
		return nil, NewError(v.Name(), ClassFatal, err)
	}

	endpoint := v.BaseURL + "/chart/OHLCChart/gap-chart"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewError(v.Name(), ClassFatal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(ctx, req)
	if err != nil {
		return nil, NewError(v.Name(), ClassTransient, fmt.Errorf("fetch chart: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewError(v.Name(), classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var payload []struct {
		Symbol string    `json:"symbol"`
		T      []int64   `json:"t"`
		O      []float64 `json:"o"`
		H      []float64 `json:"h"`
		L      []float64 `json:"l"`
		C      []float64 `json:"c"`
		V      []float64 `json:"v"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewError(v.Name(), ClassFatal, fmt.Errorf("decode chart: %w", err))
	}
	if len(payload) == 0 || len(payload[0].T) == 0 {
		return nil, NewError(v.Name(), ClassNoData, ErrNoData)
	}

	chart := payload[0]
	table := &Table{
		Columns: []string{"time", "open", "high", "low", "close", "volume"},
		Rows:    make([][]any, 0, len(chart.T)),
	}
	for i, ts := range chart.T {
		table.Rows = append(table.Rows, []any{ts, cell(chart.O, i), cell(chart.H, i),
			cell(chart.L, i), cell(chart.C, i), cell(chart.V, i)})
	}
	return table, nil
}

func (v *VCI) Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	reqBody, err := json.Marshal(map[string]any{"symbols": []string{symbol}})
	if err != nil {
		return nil, NewError(v.Name(), ClassFatal, err)
	}

	endpoint := v.BaseURL + "/price/symbols/getList"
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, NewError(v.Name(), ClassFatal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(ctx, req)
	if err != nil {
		return nil, NewError(v.Name(), ClassTransient, fmt.Errorf("fetch board: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewError(v.Name(), classifyStatus(resp.StatusCode),
			fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var board []struct {
		Symbol            string  `json:"symbol"`
		MatchPrice        float64 `json:"matchPrice"`
		TotalVolume       float64 `json:"totalVolume"`
		BidPrice          float64 `json:"bidPrice"`
		AskPrice          float64 `json:"askPrice"`
		ForeignBuyVolume  float64 `json:"foreignBuyVolume"`
		ForeignSellVolume float64 `json:"foreignSellVolume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, NewError(v.Name(), ClassFatal, fmt.Errorf("decode board: %w", err))
	}
	if len(board) == 0 {
		return nil, NewError(v.Name(), ClassNoData, ErrNoData)
	}

	row := board[0]
	return &model.RealtimeQuote{
		Symbol:      symbol,
		Price:       row.MatchPrice,
		Volume:      row.TotalVolume,
		Bid:         row.BidPrice,
		Ask:         row.AskPrice,
		ForeignBuy:  row.ForeignBuyVolume,
		ForeignSell: row.ForeignSellVolume,
		Source:      v.Name(),
		Time:        time.Now(),
	}, nil
}
