package provider

import (
	"context"
	"sync/atomic"
	"time"

	"sharkwatch/internal/model"
)

// Mock returns controllable fixed data for development and testing.
// Call counters let tests assert how often the upstream was actually hit.
type Mock struct {
	NameStr     string
	ForeignFlow bool

	HistoryTable *Table
	HistoryErr   error
	Quote        *model.RealtimeQuote
	QuoteErr     error

	// HistoryErrs, when non-empty, is consumed one entry per History call
	// before HistoryTable/HistoryErr take over. A nil entry means success.
	HistoryErrs []error

	historyCalls  atomic.Int64
	realtimeCalls atomic.Int64
}

func (m *Mock) Name() string {
	if m.NameStr == "" {
		return "mock"
	}
	return m.NameStr
}

func (m *Mock) HasForeignFlow() bool { return m.ForeignFlow }

func (m *Mock) History(ctx context.Context, symbol string, start, end time.Time) (*Table, error) {
	n := m.historyCalls.Add(1)
	if idx := int(n) - 1; idx < len(m.HistoryErrs) {
		if err := m.HistoryErrs[idx]; err != nil {
			return nil, err
		}
		return m.HistoryTable, nil
	}
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	return m.HistoryTable, nil
}

func (m *Mock) Realtime(ctx context.Context, symbol string) (*model.RealtimeQuote, error) {
	m.realtimeCalls.Add(1)
	if m.QuoteErr != nil {
		return nil, m.QuoteErr
	}
	if m.Quote == nil {
		return nil, NewError(m.Name(), ClassNoData, ErrNoData)
	}
	return m.Quote, nil
}

// HistoryCalls reports how many times History was invoked.
func (m *Mock) HistoryCalls() int { return int(m.historyCalls.Load()) }

// RealtimeCalls reports how many times Realtime was invoked.
func (m *Mock) RealtimeCalls() int { return int(m.realtimeCalls.Load()) }
