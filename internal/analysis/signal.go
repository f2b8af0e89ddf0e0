// Package analysis derives the accumulation/distribution classification from
// the reconciled series. Classification is a pure function of its inputs.
package analysis

import (
	"fmt"

	"sharkwatch/internal/model"
)

// Thresholds are the tunable cut-offs of the classification table. The
// defaults reflect the intended heuristic but are configuration, not law.
type Thresholds struct {
	HighVolRatio float64 // above: volume regime is "high"
	LowVolRatio  float64 // below: volume regime is "thin"
	PriceMovePct float64 // price move treated as directional on high volume
	ThinMovePct  float64 // price move treated as directional on thin volume
}

// DefaultThresholds returns the stock cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighVolRatio: 1.3,
		LowVolRatio:  0.6,
		PriceMovePct: 1.5,
		ThinMovePct:  2.0,
	}
}

// Inputs are the three primitives the classifier consumes, plus the 5-day
// cumulative foreign net carried through as annotation.
type Inputs struct {
	VolRatio        float64
	PriceChangePct  float64
	ForeignNetToday float64
	ForeignNet5d    float64
}

// Classify maps the inputs onto an action/color/detail triple. Rules are
// evaluated top to bottom; the first match wins. Volume divergence from its
// trailing baseline is the primary regime signal; price direction and
// foreign net act as corroborating or contradicting evidence.
func Classify(in Inputs, th Thresholds) model.SignalResult {
	res := model.SignalResult{
		VolRatio:        in.VolRatio,
		PriceChangePct:  in.PriceChangePct,
		ForeignNetToday: in.ForeignNetToday,
		ForeignNet5d:    in.ForeignNet5d,
	}

	switch {
	case in.VolRatio > th.HighVolRatio && in.PriceChangePct > th.PriceMovePct && in.ForeignNetToday > 0:
		res.Action, res.Color = model.ActionStrongAccumulation, model.ColorStrongBuy
	case in.VolRatio > th.HighVolRatio && in.PriceChangePct > th.PriceMovePct:
		res.Action, res.Color = model.ActionMomentumNoForeign, model.ColorBuy
	case in.VolRatio > th.HighVolRatio && in.PriceChangePct < -th.PriceMovePct && in.ForeignNetToday < 0:
		res.Action, res.Color = model.ActionStrongDistribution, model.ColorStrongSell
	case in.VolRatio > th.HighVolRatio && in.PriceChangePct < -th.PriceMovePct:
		res.Action, res.Color = model.ActionPanicBuy, model.ColorBuy
	case in.VolRatio > th.HighVolRatio:
		res.Action, res.Color = model.ActionHighVolNoDirection, model.ColorWarning
	case in.VolRatio < th.LowVolRatio && in.PriceChangePct > th.ThinMovePct:
		res.Action, res.Color = model.ActionThinPushUp, model.ColorBuy
	case in.VolRatio < th.LowVolRatio && in.PriceChangePct < -th.ThinMovePct:
		res.Action, res.Color = model.ActionThinPushDown, model.ColorSell
	default:
		res.Action, res.Color = model.ActionIndecisive, model.ColorNeutral
	}

	res.Detail = fmt.Sprintf("volume %.2fx MA20, price %+.2f%%, foreign net today %+.0f (5d %+.0f)",
		in.VolRatio, in.PriceChangePct, in.ForeignNetToday, in.ForeignNet5d)
	return res
}
