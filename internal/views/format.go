package views

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"ricepro-web/internal/models"
	"ricepro-web/internal/timeutil"
)

// Currency formats an amount as "KES 12,345", rounded to whole shillings
// unless it has cents.
func Currency(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	amount = amount.Abs()

	var s string
	if amount.Equal(amount.Truncate(0)) {
		s = groupThousands(amount.StringFixed(0))
	} else {
		fixed := amount.StringFixed(2)
		dot := strings.IndexByte(fixed, '.')
		s = groupThousands(fixed[:dot]) + fixed[dot:]
	}
	if neg {
		s = "-" + s
	}
	return "KES " + s
}

// CurrencyFloat is Currency for plain float amounts.
func CurrencyFloat(amount float64) string {
	return Currency(decimal.NewFromFloat(amount))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Kg formats a weight like "1,250 kg" or "12.5 kg".
func Kg(kg float64) string {
	whole := strconv.FormatFloat(kg, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(whole, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	out := groupThousands(intPart)
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out + " kg"
}

// Date renders a backend timestamp as "January 02, 2006" in EAT. Values
// that cannot be parsed are shown unchanged.
func Date(raw string) string {
	if raw == "" {
		return "-"
	}
	t, err := timeutil.ParseBackend(raw)
	if err != nil {
		return raw
	}
	return timeutil.FormatEAT(t, timeutil.DisplayDate)
}

// RecordDate prefers the backend's preformatted date.
func RecordDate(r models.InventoryRecord) string {
	if r.FormattedDate != "" {
		return r.FormattedDate
	}
	return Date(r.DateAdded)
}

// StatusBadge returns the badge class of an order status.
func StatusBadge(s models.OrderStatus) string {
	switch s {
	case models.OrderDelivered:
		return "badge-green"
	case models.OrderCancelled:
		return "badge-red"
	default:
		return "badge-yellow"
	}
}

type StockLevel string

const (
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockGood   StockLevel = "good"
)

// Stock grades the available kg: up to 100 is low, up to 500 medium.
func Stock(availableKg float64) StockLevel {
	switch {
	case availableKg <= 100:
		return StockLow
	case availableKg <= 500:
		return StockMedium
	default:
		return StockGood
	}
}

func (l StockLevel) Label() string {
	switch l {
	case StockLow:
		return "Low Stock"
	case StockMedium:
		return "Medium Stock"
	default:
		return "Good Stock"
	}
}
