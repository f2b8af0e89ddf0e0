package notifier

import (
	"fmt"
	"strings"
	"time"

	"sharkwatch/internal/model"
)

// FormatSignalAlert renders a watchlist hit as a Telegram HTML message.
func FormatSignalAlert(symbol string, latest *model.PriceBar, sig *model.SignalResult) string {
	var b strings.Builder

	icon := "🦈"
	if sig.Color == model.ColorStrongSell {
		icon = "🚨"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n\n", icon, symbol, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Signal: <b>%s</b> (%s)\n", sig.Action, sig.Color))

	if latest != nil {
		b.WriteString(fmt.Sprintf("Close: %.0f | Volume: %.0f\n", latest.Close, latest.Volume))
	}
	b.WriteString(fmt.Sprintf("Volume vs MA20: %.2fx\n", sig.VolRatio))
	b.WriteString(fmt.Sprintf("Price change: %+.2f%%\n", sig.PriceChangePct))
	b.WriteString(fmt.Sprintf("Foreign net today: %+.0f (5d %+.0f)\n", sig.ForeignNetToday, sig.ForeignNet5d))

	return b.String()
}
