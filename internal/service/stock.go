// Package service composes cache, orchestrator, realtime patching, and the
// classifier into the operations the HTTP layer exposes.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"sharkwatch/internal/analysis"
	"sharkwatch/internal/cache"
	"sharkwatch/internal/fetch"
	"sharkwatch/internal/model"
)

// Config holds the service-level tunables.
type Config struct {
	StockDays   int
	ForeignDays int
	IndexDays   int
	Thresholds  analysis.Thresholds
}

// StockPayload is the full response for a stock lookup.
type StockPayload struct {
	Data    []model.PriceBar    `json:"data"`
	Latest  *model.PriceBar     `json:"latest"`
	Shark   *model.SignalResult `json:"shark_analysis"`
	Warning string              `json:"warning,omitempty"`
}

// ForeignRow is one day of foreign-investor flow in wire format.
type ForeignRow struct {
	Date      string  `json:"date"`
	BuyVol    float64 `json:"buyVol"`
	SellVol   float64 `json:"sellVol"`
	NetVolume float64 `json:"netVolume"`
}

// StockService runs the fetch→normalize→patch→classify pipeline behind a
// short-TTL cache. Concurrent misses for the same key collapse into one
// upstream fetch via singleflight; stored payloads are shared read-only.
type StockService struct {
	orch  *fetch.Orchestrator
	cache cache.Cache
	group singleflight.Group
	cfg   Config
	now   func() time.Time
}

// New creates a StockService.
func New(orch *fetch.Orchestrator, c cache.Cache, cfg Config) *StockService {
	return &StockService{orch: orch, cache: c, cfg: cfg, now: time.Now}
}

// GetStock returns history, the latest bar, and the shark classification for
// a symbol. days <= 0 uses the configured default window.
func (s *StockService) GetStock(ctx context.Context, symbol string, days int) (*StockPayload, error) {
	symbol = canonSymbol(symbol)
	if days <= 0 {
		days = s.cfg.StockDays
	}
	key := fmt.Sprintf("stock:%s:%d", symbol, days)

	v, err := s.cached(key, func() (any, error) {
		return s.buildStock(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return v.(*StockPayload), nil
}

func (s *StockService) buildStock(ctx context.Context, symbol string, days int) (*StockPayload, error) {
	end := s.now()
	start := end.AddDate(0, 0, -days)

	series, warning, err := s.orch.Fetch(ctx, symbol, start, end, fetch.IntentPriceForeign)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	// Best effort: a missing live board never degrades the response below
	// what history alone provides.
	if quote, err := s.orch.Realtime(ctx, symbol); err == nil {
		fetch.PatchRealtime(series, quote, end.Format("2006-01-02"))
	} else {
		log.Debug().Str("symbol", symbol).Err(err).Msg("realtime patch skipped")
	}

	sig := analysis.Classify(analysis.ComputeInputs(series), s.cfg.Thresholds)
	payload := &StockPayload{
		Data:    series.Bars,
		Shark:   &sig,
		Warning: warning,
	}
	if last := series.Last(); last != nil {
		latest := *last
		payload.Latest = &latest
	}
	return payload, nil
}

// GetForeign returns the trailing foreign-flow window for a symbol.
func (s *StockService) GetForeign(ctx context.Context, symbol string) ([]ForeignRow, error) {
	symbol = canonSymbol(symbol)
	key := "foreign:" + symbol

	v, err := s.cached(key, func() (any, error) {
		end := s.now()
		start := end.AddDate(0, 0, -s.cfg.ForeignDays)
		series, _, err := s.orch.Fetch(ctx, symbol, start, end, fetch.IntentPriceForeign)
		if err != nil {
			return nil, fmt.Errorf("fetch foreign %s: %w", symbol, err)
		}
		rows := make([]ForeignRow, 0, len(series.Bars))
		for _, b := range series.Bars {
			rows = append(rows, ForeignRow{
				Date:      b.Date,
				BuyVol:    b.ForeignBuy,
				SellVol:   b.ForeignSell,
				NetVolume: b.ForeignNet,
			})
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ForeignRow), nil
}

// GetIndex returns the raw price series for a market index. No foreign flow
// is expected for indices.
func (s *StockService) GetIndex(ctx context.Context, symbol string) ([]model.PriceBar, error) {
	symbol = canonSymbol(symbol)
	key := "index:" + symbol

	v, err := s.cached(key, func() (any, error) {
		end := s.now()
		start := end.AddDate(0, 0, -s.cfg.IndexDays)
		series, _, err := s.orch.Fetch(ctx, symbol, start, end, fetch.IntentPrice)
		if err != nil {
			return nil, fmt.Errorf("fetch index %s: %w", symbol, err)
		}
		return series.Bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.PriceBar), nil
}

// GetRealtime returns the current board snapshot, bypassing the cache.
func (s *StockService) GetRealtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	return s.orch.Realtime(ctx, canonSymbol(symbol))
}

// cached serves key from the cache, collapsing concurrent misses into one
// build call whose result is stored before anyone sees it.
func (s *StockService) cached(key string, build func() (any, error)) (any, error) {
	if v, ok := s.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v)
		return v, nil
	})
	return v, err
}

func canonSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
