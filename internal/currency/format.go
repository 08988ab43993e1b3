package currency

import "fmt"

// DefaultSymbol is used for currency codes missing from the symbol table.
const DefaultSymbol = "$"

// symbols maps supported currency codes to their display symbols.
var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"INR": "₹",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
}

// Symbol returns the display symbol for a currency code, falling back to the
// default symbol for unrecognized codes.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return DefaultSymbol
}

// Format renders an amount as symbol plus a fixed two-decimal figure, e.g.
// "₹262.50". No locale-aware grouping is applied. Negative amounts keep
// their sign after the symbol ("₹-0.50"); callers that want a leading minus,
// as the discount row does, prefix it themselves.
func Format(amount float64, code string) string {
	return fmt.Sprintf("%s%.2f", Symbol(code), amount)
}
