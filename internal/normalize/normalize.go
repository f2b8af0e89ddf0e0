// Package normalize maps heterogeneous upstream tabular results onto the
// canonical PriceBar schema. Providers disagree on column names, date
// formats, and price units; everything schema-related is resolved here so
// adapters stay dumb pass-throughs.
package normalize

import (
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"sharkwatch/internal/model"
	"sharkwatch/internal/provider"
)

// unitFixThreshold: sources that report prices in thousands of dong produce
// closes like 45 instead of 45000. A last close below this threshold triggers
// a whole-series x1000 rescale. Known false-positive risk for genuinely
// penny-priced symbols.
const unitFixThreshold = 500

// Alias tables, one ordered list per canonical field. Order is priority:
// the first alias present in the table wins.
var (
	dateAliases = []string{"time", "trading_date", "tradingdate", "date", "ngay", "txn_date"}

	priceAliases = map[string][]string{
		"open":   {"open", "open_price", "gia_mo_cua"},
		"high":   {"high", "high_price", "gia_cao_nhat"},
		"low":    {"low", "low_price", "gia_thap_nhat"},
		"close":  {"close", "close_price", "gia_dong_cua"},
		"volume": {"volume", "total_volume", "match_volume", "khoi_luong"},
	}

	foreignBuyAliases  = []string{"foreign_buy", "nn_mua", "buy_foreign_qtty", "buy_foreign_volume", "foreign_buy_volume"}
	foreignSellAliases = []string{"foreign_sell", "nn_ban", "sell_foreign_qtty", "sell_foreign_volume", "foreign_sell_volume"}
	foreignNetAliases  = []string{"khoi_luong_rong", "net_value", "foreign_net", "net_volume"}
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02 15:04:05",
	"2006.01.02",
	"02/01/2006",
}

// Series converts a raw provider table into a canonical series, or nil when
// no date column can be recognized. Rows whose date fails to parse are
// dropped; duplicate dates collapse last-write-wins; output is ascending.
func Series(symbol string, t *provider.Table) *model.Series {
	if t == nil || len(t.Columns) == 0 {
		return nil
	}

	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = snakeCase(c)
	}
	resolve := func(aliases []string) int {
		for _, a := range aliases {
			for i, c := range cols {
				if c == a {
					return i
				}
			}
		}
		return -1
	}

	dateIdx := resolve(dateAliases)
	if dateIdx < 0 {
		return nil
	}
	openIdx := resolve(priceAliases["open"])
	highIdx := resolve(priceAliases["high"])
	lowIdx := resolve(priceAliases["low"])
	closeIdx := resolve(priceAliases["close"])
	volIdx := resolve(priceAliases["volume"])
	buyIdx := resolve(foreignBuyAliases)
	sellIdx := resolve(foreignSellAliases)
	netIdx := resolve(foreignNetAliases)

	byDate := make(map[string]model.PriceBar, len(t.Rows))
	for _, row := range t.Rows {
		if dateIdx >= len(row) {
			continue
		}
		date, ok := parseDate(row[dateIdx])
		if !ok {
			continue
		}
		bar := model.PriceBar{
			Date:   date,
			Open:   num(row, openIdx),
			High:   num(row, highIdx),
			Low:    num(row, lowIdx),
			Close:  num(row, closeIdx),
			Volume: num(row, volIdx),
		}
		buy := num(row, buyIdx)
		sell := num(row, sellIdx)
		net := buy - sell
		if buy == 0 && sell == 0 && netIdx >= 0 {
			net = num(row, netIdx)
		}
		bar.ForeignBuy, bar.ForeignSell, bar.ForeignNet = buy, sell, net
		byDate[date] = bar // duplicates: last row wins
	}
	if len(byDate) == 0 {
		return nil
	}

	bars := make([]model.PriceBar, 0, len(byDate))
	for _, b := range byDate {
		bars = append(bars, b)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })

	if last := bars[len(bars)-1].Close; last > 0 && last < unitFixThreshold {
		for i := range bars {
			bars[i].Open *= 1000
			bars[i].High *= 1000
			bars[i].Low *= 1000
			bars[i].Close *= 1000
		}
	}

	return &model.Series{
		Symbol:     symbol,
		Bars:       bars,
		HasForeign: buyIdx >= 0 || sellIdx >= 0 || netIdx >= 0,
		FetchedAt:  time.Now(),
	}
}

// Table converts a canonical series back into tabular form. Useful for
// round-trip checks: Series(Table(s)) must equal s.
func Table(s *model.Series) *provider.Table {
	t := &provider.Table{
		Columns: []string{"date", "open", "high", "low", "close", "volume",
			"foreign_buy", "foreign_sell", "foreign_net"},
	}
	for _, b := range s.Bars {
		t.Rows = append(t.Rows, []any{b.Date, b.Open, b.High, b.Low, b.Close, b.Volume,
			b.ForeignBuy, b.ForeignSell, b.ForeignNet})
	}
	return t
}

// num reads a cell as float64, tolerating missing columns and mixed types.
func num(row []any, idx int) float64 {
	if idx < 0 || idx >= len(row) {
		return 0
	}
	return toFloat(row[idx])
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// parseDate accepts date strings in any known layout, unix-second numbers,
// and numeric strings. Output is always YYYY-MM-DD.
func parseDate(v any) (string, bool) {
	switch d := v.(type) {
	case time.Time:
		return d.Format("2006-01-02"), true
	case int64:
		return unixDate(d)
	case int:
		return unixDate(int64(d))
	case float64:
		return unixDate(int64(d))
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return "", false
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.Format("2006-01-02"), true
			}
		}
		// ISO timestamps with unusual sub-second precision still carry the
		// calendar day in the first ten characters.
		if len(s) > 10 {
			if ts, err := time.Parse("2006-01-02", s[:10]); err == nil {
				return ts.Format("2006-01-02"), true
			}
		}
		if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
			return unixDate(sec)
		}
		return "", false
	default:
		return "", false
	}
}

func unixDate(sec int64) (string, bool) {
	if sec <= 0 {
		return "", false
	}
	return time.Unix(sec, 0).UTC().Format("2006-01-02"), true
}

// snakeCase lowercases a column name and breaks camelCase words with
// underscores, so tradingDate, trading_date, and "Trading Date" all map to
// the same key.
func snakeCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		case r == ' ' || r == '-' || r == '.':
			b.WriteByte('_')
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}
