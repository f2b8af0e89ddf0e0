package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier(attempts int) *Retrier {
	return &Retrier{
		MaxAttempts: attempts,
		BackoffMin:  time.Millisecond,
		BackoffMax:  2 * time.Millisecond,
	}
}

var (
	retryStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	retryEnd   = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
)

func TestRetrier_SuccessNeedsOneCall(t *testing.T) {
	m := &Mock{NameStr: "tcbs", HistoryTable: &Table{Columns: []string{"date"}}}

	table, err := fastRetrier(3).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, 1, m.HistoryCalls())
}

func TestRetrier_TransientFailureThenSuccess(t *testing.T) {
	m := &Mock{NameStr: "tcbs",
		HistoryErrs: []error{
			NewError("tcbs", ClassTransient, errors.New("status 503")),
			NewError("tcbs", ClassTransient, errors.New("status 429")),
			nil,
		},
		HistoryTable: &Table{Columns: []string{"date"}},
	}

	table, err := fastRetrier(3).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.NoError(t, err)
	assert.NotNil(t, table)
	assert.Equal(t, 3, m.HistoryCalls())
}

func TestRetrier_TransientExhaustsAttempts(t *testing.T) {
	wrapped := errors.New("connection reset")
	m := &Mock{NameStr: "tcbs", HistoryErr: NewError("tcbs", ClassTransient, wrapped)}

	_, err := fastRetrier(3).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.Error(t, err)
	assert.ErrorIs(t, err, wrapped)
	assert.Equal(t, 3, m.HistoryCalls())
}

func TestRetrier_FatalIsNeverRetried(t *testing.T) {
	m := &Mock{NameStr: "tcbs", HistoryErr: NewError("tcbs", ClassFatal, errors.New("status 403"))}

	_, err := fastRetrier(5).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.Error(t, err)
	assert.Equal(t, 1, m.HistoryCalls())
}

func TestRetrier_NoDataIsNeverRetried(t *testing.T) {
	m := &Mock{NameStr: "tcbs", HistoryErr: NewError("tcbs", ClassNoData, ErrNoData)}

	_, err := fastRetrier(5).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, 1, m.HistoryCalls())
}

func TestRetrier_ContextCancelStopsBackoff(t *testing.T) {
	m := &Mock{NameStr: "tcbs", HistoryErr: NewError("tcbs", ClassTransient, errors.New("timeout"))}
	r := &Retrier{MaxAttempts: 3, BackoffMin: time.Minute, BackoffMax: 2 * time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := r.History(ctx, m, "VNM", retryStart, retryEnd)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, m.HistoryCalls())
}

func TestRetrier_ZeroAttemptsStillCallsOnce(t *testing.T) {
	m := &Mock{NameStr: "tcbs", HistoryTable: &Table{Columns: []string{"date"}}}

	_, err := (&Retrier{}).History(context.Background(), m, "VNM", retryStart, retryEnd)
	require.NoError(t, err)
	assert.Equal(t, 1, m.HistoryCalls())
}

func TestRetrier_RealtimeRetriesTransient(t *testing.T) {
	m := &Mock{NameStr: "vci", QuoteErr: NewError("vci", ClassTransient, errors.New("status 502"))}

	_, err := fastRetrier(2).Realtime(context.Background(), m, "VNM")
	require.Error(t, err)
	assert.Equal(t, 2, m.RealtimeCalls())
}

func TestClassOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Class
	}{
		{"sentinel no data", ErrNoData, ClassNoData},
		{"wrapped no data stays no data", NewError("tcbs", ClassFatal, ErrNoData), ClassNoData},
		{"classified transient", NewError("dnse", ClassTransient, errors.New("x")), ClassTransient},
		{"classified fatal", NewError("vci", ClassFatal, errors.New("x")), ClassFatal},
		{"doubly wrapped", fmt.Errorf("fetch VNM: %w", NewError("vci", ClassFatal, errors.New("x"))), ClassFatal},
		{"context canceled", context.Canceled, ClassFatal},
		{"unknown defaults transient", errors.New("mystery"), ClassTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassOf(tc.err))
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, ClassTransient, classifyStatus(429))
	assert.Equal(t, ClassTransient, classifyStatus(500))
	assert.Equal(t, ClassTransient, classifyStatus(503))
	assert.Equal(t, ClassFatal, classifyStatus(403))
	assert.Equal(t, ClassFatal, classifyStatus(404))
	assert.Equal(t, ClassFatal, classifyStatus(302))
}

func TestErrorStringCarriesProviderAndClass(t *testing.T) {
	err := NewError("tcbs", ClassTransient, errors.New("status 503"))
	assert.Equal(t, "tcbs: transient: status 503", err.Error())
}
