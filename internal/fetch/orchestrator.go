// Package fetch turns unreliable upstream providers into one consistent
// series: priority-ordered fallback, foreign-flow merging, and same-day
// realtime patching.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"sharkwatch/internal/model"
	"sharkwatch/internal/normalize"
	"sharkwatch/internal/provider"
)

// Intent selects the provider priority order and whether a foreign-flow
// merge pass is wanted.
type Intent int

const (
	// IntentPrice wants OHLCV only; the fastest provider is tried first.
	IntentPrice Intent = iota
	// IntentPriceForeign wants foreign flow too; providers known to carry
	// it are tried first.
	IntentPriceForeign
)

// ErrAllSourcesExhausted is the terminal failure after every provider in the
// priority list has been tried.
var ErrAllSourcesExhausted = errors.New("all data sources exhausted")

// foreignUnavailableWarning is surfaced when prices were obtained but no
// provider could supply foreign flow. Availability beats completeness.
const foreignUnavailableWarning = "foreign investor data unavailable from all sources; returning price-only series"

// Orchestrator tries providers in priority order, short-circuiting on the
// first usable series, and merges a secondary provider's foreign-flow
// columns onto the primary series when needed.
type Orchestrator struct {
	providers    map[string]provider.Provider
	priceOrder   []string
	foreignOrder []string
	retry        *provider.Retrier
}

// NewOrchestrator wires providers with per-intent priority lists.
func NewOrchestrator(provs []provider.Provider, priceOrder, foreignOrder []string, retry *provider.Retrier) *Orchestrator {
	byName := make(map[string]provider.Provider, len(provs))
	for _, p := range provs {
		byName[p.Name()] = p
	}
	return &Orchestrator{
		providers:    byName,
		priceOrder:   priceOrder,
		foreignOrder: foreignOrder,
		retry:        retry,
	}
}

// Fetch returns the best available series for the symbol and range, plus an
// optional human-readable degradation warning. It never panics; total
// failure is ErrAllSourcesExhausted.
func (o *Orchestrator) Fetch(ctx context.Context, symbol string, start, end time.Time, intent Intent) (*model.Series, string, error) {
	order := o.priceOrder
	if intent == IntentPriceForeign {
		order = o.foreignOrder
	}

	primary := o.fetchFirst(ctx, order, symbol, start, end)
	if primary == nil {
		return nil, "", ErrAllSourcesExhausted
	}

	if intent == IntentPriceForeign && !primary.HasForeign {
		if warn := o.mergeForeign(ctx, primary, start, end); warn != "" {
			return primary, warn, nil
		}
	}
	return primary, "", nil
}

func (o *Orchestrator) fetchFirst(ctx context.Context, order []string, symbol string, start, end time.Time) *model.Series {
	for _, name := range order {
		p, ok := o.providers[name]
		if !ok {
			continue
		}
		table, err := o.retry.History(ctx, p, symbol, start, end)
		if err != nil {
			o.logFailure(p.Name(), symbol, err)
			continue
		}
		s := normalize.Series(symbol, table)
		if s == nil || len(s.Bars) == 0 {
			log.Warn().Str("provider", p.Name()).Str("symbol", symbol).
				Msg("provider returned unrecognizable schema, trying next")
			continue
		}
		s.Source = p.Name()
		return s
	}
	return nil
}

// mergeForeign left-joins a foreign-carrying provider's buy/sell columns
// onto the primary series by date. Unmatched dates stay zero-filled; price
// columns are always owned by the primary source. Returns a warning string
// when no secondary source could serve.
func (o *Orchestrator) mergeForeign(ctx context.Context, primary *model.Series, start, end time.Time) string {
	for _, name := range o.foreignOrder {
		p, ok := o.providers[name]
		if !ok || !p.HasForeignFlow() || p.Name() == primary.Source {
			continue
		}
		table, err := o.retry.History(ctx, p, primary.Symbol, start, end)
		if err != nil {
			o.logFailure(p.Name(), primary.Symbol, err)
			continue
		}
		secondary := normalize.Series(primary.Symbol, table)
		if secondary == nil || !secondary.HasForeign {
			continue
		}

		flows := make(map[string]model.PriceBar, len(secondary.Bars))
		for _, b := range secondary.Bars {
			flows[b.Date] = b
		}
		for i := range primary.Bars {
			if f, ok := flows[primary.Bars[i].Date]; ok {
				primary.Bars[i].ForeignBuy = f.ForeignBuy
				primary.Bars[i].ForeignSell = f.ForeignSell
				primary.Bars[i].ForeignNet = f.ForeignNet
			} else {
				primary.Bars[i].ForeignBuy = 0
				primary.Bars[i].ForeignSell = 0
				primary.Bars[i].ForeignNet = 0
			}
		}
		primary.HasForeign = true
		log.Debug().Str("primary", primary.Source).Str("secondary", p.Name()).
			Str("symbol", primary.Symbol).Msg("merged foreign flow onto price series")
		return ""
	}
	return foreignUnavailableWarning
}

// Realtime returns the first live snapshot any provider can serve,
// in price-priority order.
func (o *Orchestrator) Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	for _, name := range o.priceOrder {
		p, ok := o.providers[name]
		if !ok {
			continue
		}
		quote, err := o.retry.Realtime(ctx, p, symbol)
		if err != nil {
			o.logFailure(p.Name(), symbol, err)
			continue
		}
		return quote, nil
	}
	return nil, ErrAllSourcesExhausted
}

func (o *Orchestrator) logFailure(name, symbol string, err error) {
	switch provider.ClassOf(err) {
	case provider.ClassNoData:
		log.Debug().Str("provider", name).Str("symbol", symbol).Msg("provider has no data")
	case provider.ClassFatal:
		log.Error().Str("provider", name).Str("symbol", symbol).Err(err).
			Msg("provider failed fatally, trying next")
	default:
		log.Warn().Str("provider", name).Str("symbol", symbol).Err(err).
			Msg("provider failed, trying next")
	}
}
