package notifier

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"MomentumCheck/internal/model"
)

var hundred = decimal.NewFromInt(100)

// FormatPercent renders a fractional return as a signed percentage with two
// decimals, e.g. 0.083333 -> "+8.33%". Halves round away from zero.
func FormatPercent(v float64) string {
	pct := decimal.NewFromFloat(v).Mul(hundred).Round(2)
	s := pct.StringFixed(2) + "%"
	if pct.IsPositive() {
		return "+" + s
	}
	return s
}

// TrendMarker returns the marker a renderer shows for the momentum sign.
func TrendMarker(r model.MomentumResult) string {
	if r.Positive() {
		return "🟢"
	}
	return "🔴"
}

// FormatReport formats an analysis into a Telegram/CLI message.
func FormatReport(a *model.Analysis) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📈 <b>%s Momentum</b> | %s\n", html.EscapeString(a.Identifier), a.MonthEnd.Format("2006-01-02")))
	if a.Identifier != a.RequestedSymbol {
		b.WriteString(fmt.Sprintf("(requested %s)\n", html.EscapeString(a.RequestedSymbol)))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("<b>Avg Momentum Score: %s</b> %s\n\n", FormatPercent(a.Result.Avg), TrendMarker(a.Result)))
	for _, h := range a.Result.Horizons() {
		b.WriteString(fmt.Sprintf("  %2d Months: %s\n", h.Months, FormatPercent(h.Return)))
	}

	if n := len(a.Display); n > 0 {
		last := a.Display[n-1]
		b.WriteString(fmt.Sprintf("\n📉 1 Year Trend (%d days, %s)\n", n, a.Field))
		b.WriteString(fmt.Sprintf("  Last: %.2f on %s\n", last.Price, last.Time.Format("2006-01-02")))
		b.WriteString(fmt.Sprintf("  Range: %.2f ~ %.2f\n", a.DisplayLow, a.DisplayHigh))
	}
	return b.String()
}

// FormatError maps a pipeline error to a user-facing message. Each error kind
// has its own wording so users can tell a bad symbol from a short history or
// a network problem.
func FormatError(symbol string, err error) string {
	symbol = html.EscapeString(symbol)
	var (
		ins *model.InsufficientDataError
		ip  *model.InvalidPriceError
	)
	switch model.ErrorKind(err) {
	case model.KindNotFound:
		return fmt.Sprintf("❌ No data found for %s. Check the symbol.", symbol)
	case model.KindInsufficientData:
		if errors.As(err, &ins) {
			return fmt.Sprintf("⚠️ Not enough history for %s: %d monthly closes, at least %d needed.", symbol, ins.Have, ins.Need)
		}
	case model.KindInvalidPrice:
		if errors.As(err, &ip) {
			return fmt.Sprintf("⚠️ Cannot compute momentum for %s: invalid %d-month look-back price (%.2f on %s).",
				symbol, ip.Months, ip.Price, ip.Time.Format("2006-01-02"))
		}
	case model.KindTransport:
		return fmt.Sprintf("🌐 Data source is temporarily unavailable for %s. Try again later.", symbol)
	}
	return fmt.Sprintf("❌ Unexpected error for %s: %s", symbol, html.EscapeString(err.Error()))
}

var htmlTag = regexp.MustCompile(`</?[a-z]+>`)

// PlainText converts a Telegram HTML message into terminal text.
func PlainText(msg string) string {
	return html.UnescapeString(htmlTag.ReplaceAllString(msg, ""))
}
