package analysis

import "sharkwatch/internal/model"

const (
	volumeMAWindow = 20
	foreignNetDays = 5
)

// ComputeInputs derives the classifier primitives from a reconciled series.
// The MA20 denominator is floored at 1 so the ratio stays defined even when
// the trailing average volume is legitimately zero (long suspensions) or the
// history is short.
func ComputeInputs(s *model.Series) Inputs {
	var in Inputs
	if s == nil || len(s.Bars) == 0 {
		return in
	}

	n := len(s.Bars)
	today := s.Bars[n-1]

	avg := sma(volumes(s.Bars[:n-1]), volumeMAWindow)
	if avg < 1 {
		avg = 1
	}
	if n == 1 {
		// No baseline yet: a ratio of 1 keeps the classifier indecisive
		// instead of reading the very first session as a volume spike.
		in.VolRatio = 1
	} else {
		in.VolRatio = today.Volume / avg
	}

	if n >= 2 {
		yesterday := s.Bars[n-2]
		if yesterday.Close != 0 {
			in.PriceChangePct = (today.Close - yesterday.Close) / yesterday.Close * 100
		}
	}

	in.ForeignNetToday = today.ForeignNet
	for i := n - 1; i >= 0 && i > n-1-foreignNetDays; i-- {
		in.ForeignNet5d += s.Bars[i].ForeignNet
	}
	return in
}

// sma averages the trailing window of xs. Shorter histories shrink the
// window rather than erroring out.
func sma(xs []float64, window int) float64 {
	if len(xs) == 0 || window <= 0 {
		return 0
	}
	if len(xs) < window {
		window = len(xs)
	}
	sum := 0.0
	for i := len(xs) - window; i < len(xs); i++ {
		sum += xs[i]
	}
	return sum / float64(window)
}

func volumes(bars []model.PriceBar) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
