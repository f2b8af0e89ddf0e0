package model

import "time"

// PriceBar is one daily candlestick with foreign-investor flow attached.
// Foreign fields are zero (never null) when the source carries no flow data,
// so downstream arithmetic never has to guard against missing values.
type PriceBar struct {
	Date        string  `json:"date"` // YYYY-MM-DD, unique per symbol
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	ForeignBuy  float64 `json:"foreign_buy"`
	ForeignSell float64 `json:"foreign_sell"`
	ForeignNet  float64 `json:"foreign_net"`
}

// Series holds the reconciled price history for one symbol, strictly
// ascending by date with no duplicate dates.
type Series struct {
	Symbol     string
	Bars       []PriceBar
	Source     string // provider that supplied the price columns
	HasForeign bool   // whether any foreign-flow column was resolved
	FetchedAt  time.Time
}

// Last returns the most recent bar, or nil for an empty series.
func (s *Series) Last() *PriceBar {
	if s == nil || len(s.Bars) == 0 {
		return nil
	}
	return &s.Bars[len(s.Bars)-1]
}

// RealtimeQuote is a same-day intraday snapshot from a live price board.
type RealtimeQuote struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Volume      float64   `json:"volume"`
	Bid         float64   `json:"bid"`
	Ask         float64   `json:"ask"`
	ForeignBuy  float64   `json:"foreign_buy"`
	ForeignSell float64   `json:"foreign_sell"`
	Source      string    `json:"source"`
	Time        time.Time `json:"time"`
}
