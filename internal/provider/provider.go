package provider

import (
	"context"
	"time"

	"sharkwatch/internal/model"
)

// Table is a provider-agnostic tabular result: upstream column names as
// delivered (any casing), row values as loosely-typed cells. The normalizer
// owns all schema interpretation.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Provider fetches raw history and live snapshots for one upstream.
type Provider interface {
	Name() string
	// HasForeignFlow reports whether this upstream carries foreign-investor
	// buy/sell columns in its history payload.
	HasForeignFlow() bool
	History(ctx context.Context, symbol string, start, end time.Time) (*Table, error)
	Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error)
}

// Options configures adapter construction. All adapters share one
// explicit options object instead of reading ambient globals.
type Options struct {
	Timeout    time.Duration
	MaxRetries int
	BackoffMin time.Duration
	BackoffMax time.Duration
	Proxy      string
}
