package exporter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// formatDecimal formats an amount with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatInt formats an integer count for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate renders an order date, dropping the time of day when dateOnly
func formatDate(t time.Time, dateOnly bool) string {
	if dateOnly {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}
