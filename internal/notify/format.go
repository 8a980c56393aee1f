package notify

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// maxFractionDigits matches the grouping style toasts and the UI display.
const maxFractionDigits = 3

// FormatAmount renders a balance with thousands separators and at most
// three fraction digits, e.g. 15000 as "15,000".
func FormatAmount(v float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(maxFractionDigits)))
}
