package usecase

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// NotAvailable is rendered for any value the provider did not report.
const NotAvailable = "N/A"

// FormatPrice renders a price with tiered precision:
// two decimals with thousands separators from $1, four decimals from $0.01, eight below.
func FormatPrice(price *float64) string {
	if price == nil {
		return NotAvailable
	}
	p := *price
	switch {
	case p >= 1:
		return "$" + humanize.FormatFloat("#,###.##", p)
	case p >= 0.01:
		return fmt.Sprintf("$%.4f", p)
	default:
		return fmt.Sprintf("$%.8f", p)
	}
}

// FormatMarketCap scales a capitalization to T/B/M/K with two decimals.
func FormatMarketCap(marketCap *float64) string {
	if marketCap == nil {
		return NotAvailable
	}
	m := *marketCap
	switch {
	case m >= 1e12:
		return fmt.Sprintf("$%.2fT", m/1e12)
	case m >= 1e9:
		return fmt.Sprintf("$%.2fB", m/1e9)
	case m >= 1e6:
		return fmt.Sprintf("$%.2fM", m/1e6)
	case m >= 1e3:
		return fmt.Sprintf("$%.2fK", m/1e3)
	default:
		return fmt.Sprintf("$%.2f", m)
	}
}

// FormatChange renders a signed percentage; non-negative values get a "+" prefix.
func FormatChange(change *float64) string {
	if change == nil {
		return NotAvailable
	}
	if *change >= 0 {
		return fmt.Sprintf("+%.2f%%", *change)
	}
	return fmt.Sprintf("%.2f%%", *change)
}
