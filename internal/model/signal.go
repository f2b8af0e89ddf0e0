package model

// Color is the severity tag attached to a classification.
type Color string

const (
	ColorStrongBuy  Color = "strong_buy"
	ColorBuy        Color = "buy"
	ColorStrongSell Color = "strong_sell"
	ColorSell       Color = "sell"
	ColorWarning    Color = "warning"
	ColorNeutral    Color = "neutral"
)

// Actions form the closed vocabulary of classification outcomes.
const (
	ActionStrongAccumulation = "strong accumulation"
	ActionMomentumNoForeign  = "momentum without foreign confirmation"
	ActionStrongDistribution = "strong distribution"
	ActionPanicBuy           = "panic-buy against selling"
	ActionHighVolNoDirection = "high volume, no clear direction"
	ActionThinPushUp         = "price pushed up on thin volume"
	ActionThinPushDown       = "price pushed down on thin volume"
	ActionIndecisive         = "indecisive"
)

// SignalResult is the accumulation/distribution classification derived from
// the current series. It is recomputed per request and never persisted.
type SignalResult struct {
	Action          string  `json:"action"`
	Color           Color   `json:"color"`
	Detail          string  `json:"detail"`
	VolRatio        float64 `json:"vol_ratio"`
	PriceChangePct  float64 `json:"price_change_pct"`
	ForeignNetToday float64 `json:"foreign_net_today"`
	// ForeignNet5d is trend context only; it never changes the classification.
	ForeignNet5d float64 `json:"foreign_net_5d"`
}

// NewsItem is a single headline from the news aggregator.
type NewsItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	PublishDate string `json:"publishdate"`
	Source      string `json:"source"`
}
