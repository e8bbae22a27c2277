package ingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/soulfoods/morsel/internal/sales"
)

// parsePrice converts raw price text into a decimal amount. Extracts
// render prices like "$3.00" or "$1,234.50"; the currency symbol and
// thousands separators are stripped before parsing.
func parsePrice(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, "$", "")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", sales.ErrMalformedPrice, s)
	}

	return d, nil
}

// salesCents derives the sale value of a row in cents: quantity times
// unit price.
func salesCents(price decimal.Decimal, quantity int64) int64 {
	value := price.Mul(decimal.NewFromInt(quantity))

	return value.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
