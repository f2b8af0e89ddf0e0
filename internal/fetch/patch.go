package fetch

import (
	"math"

	"sharkwatch/internal/model"
)

// volumeSimilarityPct: some exchanges delay the calendar rollover of their
// batch history feed relative to the live board. A live volume within this
// percentage of the last historical bar's volume is treated as the same
// session reported twice and patched in place instead of appended.
const volumeSimilarityPct = 5.0

// PatchRealtime reconciles a same-day live snapshot against the last
// historical bar, either correcting it in place or appending a row dated
// today. Repeated application with the same snapshot is idempotent: the
// series length never grows past one appended row.
func PatchRealtime(s *model.Series, q *model.RealtimeQuote, today string) {
	if s == nil || q == nil || q.Price <= 0 {
		return
	}

	last := s.Last()
	if last == nil {
		if q.Volume > 0 {
			s.Bars = append(s.Bars, liveBar(q, today))
		}
		return
	}

	switch {
	case last.Date == today:
		overwriteLive(last, q)
	case last.Date < today && sameSessionVolume(last.Volume, q.Volume):
		// Stale rollover: the history feed has not advanced its date yet.
		overwriteLive(last, q)
	case last.Date < today && q.Volume > 0:
		s.Bars = append(s.Bars, liveBar(q, today))
	}
}

func overwriteLive(bar *model.PriceBar, q *model.RealtimeQuote) {
	bar.Close = q.Price
	bar.Volume = q.Volume
	bar.ForeignBuy = q.ForeignBuy
	bar.ForeignSell = q.ForeignSell
	bar.ForeignNet = q.ForeignBuy - q.ForeignSell
}

// liveBar builds today's bar from a snapshot. Intraday OHLC detail is not
// available, so the live price stands in for open/high/low.
func liveBar(q *model.RealtimeQuote, today string) model.PriceBar {
	return model.PriceBar{
		Date:        today,
		Open:        q.Price,
		High:        q.Price,
		Low:         q.Price,
		Close:       q.Price,
		Volume:      q.Volume,
		ForeignBuy:  q.ForeignBuy,
		ForeignSell: q.ForeignSell,
		ForeignNet:  q.ForeignBuy - q.ForeignSell,
	}
}

func sameSessionVolume(histVol, liveVol float64) bool {
	if histVol <= 0 || liveVol <= 0 {
		return false
	}
	return math.Abs(liveVol-histVol)/histVol*100 <= volumeSimilarityPct
}
