package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"sharkwatch/internal/model"
)

func TestClassify_RuleTable(t *testing.T) {
	th := DefaultThresholds()

	cases := []struct {
		name   string
		in     Inputs
		action string
		color  model.Color
	}{
		{"high vol, price up, foreign buying",
			Inputs{VolRatio: 1.8, PriceChangePct: 2.3, ForeignNetToday: 50000},
			model.ActionStrongAccumulation, model.ColorStrongBuy},
		{"high vol, price up, foreign flat",
			Inputs{VolRatio: 1.8, PriceChangePct: 2.3, ForeignNetToday: 0},
			model.ActionMomentumNoForeign, model.ColorBuy},
		{"high vol, price up, foreign selling still momentum",
			Inputs{VolRatio: 2.0, PriceChangePct: 3.0, ForeignNetToday: -10000},
			model.ActionMomentumNoForeign, model.ColorBuy},
		{"high vol, price down, foreign selling",
			Inputs{VolRatio: 1.5, PriceChangePct: -2.0, ForeignNetToday: -80000},
			model.ActionStrongDistribution, model.ColorStrongSell},
		{"high vol, price down, foreign buying the dip",
			Inputs{VolRatio: 1.5, PriceChangePct: -2.0, ForeignNetToday: 30000},
			model.ActionPanicBuy, model.ColorBuy},
		{"high vol, price sideways",
			Inputs{VolRatio: 1.7, PriceChangePct: 0.4, ForeignNetToday: 1000},
			model.ActionHighVolNoDirection, model.ColorWarning},
		{"thin vol, price pushed up",
			Inputs{VolRatio: 0.4, PriceChangePct: 3.0},
			model.ActionThinPushUp, model.ColorBuy},
		{"thin vol, price pushed down",
			Inputs{VolRatio: 0.4, PriceChangePct: -3.0},
			model.ActionThinPushDown, model.ColorSell},
		{"thin vol, price sideways",
			Inputs{VolRatio: 0.4, PriceChangePct: 0.5},
			model.ActionIndecisive, model.ColorNeutral},
		{"normal vol, big move still indecisive",
			Inputs{VolRatio: 1.0, PriceChangePct: 4.0, ForeignNetToday: 90000},
			model.ActionIndecisive, model.ColorNeutral},
		{"exact threshold is not a breach",
			Inputs{VolRatio: 1.3, PriceChangePct: 1.5},
			model.ActionIndecisive, model.ColorNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.in, th)
			assert.Equal(t, tc.action, got.Action)
			assert.Equal(t, tc.color, got.Color)
		})
	}
}

func TestClassify_EchoesInputsAndDetail(t *testing.T) {
	in := Inputs{VolRatio: 1.8, PriceChangePct: 2.3, ForeignNetToday: 50000, ForeignNet5d: 120000}
	got := Classify(in, DefaultThresholds())

	assert.InDelta(t, 1.8, got.VolRatio, 1e-9)
	assert.InDelta(t, 2.3, got.PriceChangePct, 1e-9)
	assert.InDelta(t, 50000.0, got.ForeignNetToday, 1e-9)
	assert.InDelta(t, 120000.0, got.ForeignNet5d, 1e-9)
	assert.Equal(t,
		"volume 1.80x MA20, price +2.30%, foreign net today +50000 (5d +120000)",
		got.Detail)
}

func TestClassify_IsPure(t *testing.T) {
	in := Inputs{VolRatio: 1.5, PriceChangePct: -2.0, ForeignNetToday: -500}
	th := DefaultThresholds()
	first := Classify(in, th)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(in, th))
	}
}

func TestClassify_CustomThresholds(t *testing.T) {
	th := Thresholds{HighVolRatio: 3.0, LowVolRatio: 0.2, PriceMovePct: 5.0, ThinMovePct: 8.0}
	// Loud under the defaults, quiet under the custom cut-offs.
	got := Classify(Inputs{VolRatio: 1.8, PriceChangePct: 2.3, ForeignNetToday: 50000}, th)
	assert.Equal(t, model.ActionIndecisive, got.Action)
}

func bars(volumes []float64, closes []float64) *model.Series {
	s := &model.Series{Symbol: "VNM"}
	for i := range volumes {
		s.Bars = append(s.Bars, model.PriceBar{
			Date:   fmt.Sprintf("2024-01-%02d", i+1),
			Close:  closes[i],
			Volume: volumes[i],
		})
	}
	return s
}

func TestComputeInputs_VolRatioUsesTrailingAverage(t *testing.T) {
	// 20 sessions at 1M, then today at 2M: ratio must be 2.0 exactly, and
	// today's own volume must not pollute the baseline.
	vols := make([]float64, 21)
	closes := make([]float64, 21)
	for i := range vols {
		vols[i] = 1_000_000
		closes[i] = 50_000
	}
	vols[20] = 2_000_000
	closes[20] = 51_000

	in := ComputeInputs(bars(vols, closes))
	assert.InDelta(t, 2.0, in.VolRatio, 1e-9)
	assert.InDelta(t, 2.0, in.PriceChangePct, 1e-9)
}

func TestComputeInputs_ZeroBaselineFloorsAtOne(t *testing.T) {
	// Long suspension: every prior session traded zero volume.
	vols := make([]float64, 21)
	closes := make([]float64, 21)
	for i := range closes {
		closes[i] = 10_000
	}
	vols[20] = 500_000

	in := ComputeInputs(bars(vols, closes))
	assert.InDelta(t, 500_000.0, in.VolRatio, 1e-9)
}

func TestComputeInputs_SingleBarIsNeutral(t *testing.T) {
	in := ComputeInputs(bars([]float64{900_000}, []float64{45_000}))
	assert.InDelta(t, 1.0, in.VolRatio, 1e-9)
	assert.Zero(t, in.PriceChangePct)

	got := Classify(in, DefaultThresholds())
	assert.Equal(t, model.ActionIndecisive, got.Action)
}

func TestComputeInputs_ZeroYesterdayCloseGuards(t *testing.T) {
	in := ComputeInputs(bars([]float64{1000, 1000}, []float64{0, 45_000}))
	assert.Zero(t, in.PriceChangePct)
}

func TestComputeInputs_ForeignNet5dSumsTrailingWindow(t *testing.T) {
	s := bars(
		[]float64{1000, 1000, 1000, 1000, 1000, 1000, 1000},
		[]float64{100, 100, 100, 100, 100, 100, 100},
	)
	for i := range s.Bars {
		s.Bars[i].ForeignNet = float64((i + 1) * 10)
	}

	in := ComputeInputs(s)
	// Last five nets: 30+40+50+60+70.
	assert.InDelta(t, 250.0, in.ForeignNet5d, 1e-9)
	assert.InDelta(t, 70.0, in.ForeignNetToday, 1e-9)
}

func TestComputeInputs_EmptySeries(t *testing.T) {
	assert.Zero(t, ComputeInputs(nil))
	assert.Zero(t, ComputeInputs(&model.Series{Symbol: "VNM"}))
}

func TestComputeInputs_ShortHistoryShrinksWindow(t *testing.T) {
	// Three prior bars only: baseline is their plain average.
	in := ComputeInputs(bars(
		[]float64{100, 200, 300, 600},
		[]float64{100, 100, 100, 101},
	))
	assert.InDelta(t, 3.0, in.VolRatio, 1e-9)
}
