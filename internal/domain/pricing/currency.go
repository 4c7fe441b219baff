package pricing

import "fmt"

// symbols is the closed set of supported display currencies. Display is a
// formatting concern only; arithmetic always happens in the schedule's base
// unit.
var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Symbol returns the display symbol for a currency code, falling back to the
// code itself for anything outside the supported set.
func Symbol(code string) string {
	if s, ok := symbols[code]; ok {
		return s
	}
	return code
}

// Format renders an amount for display, e.g. "₹710.80".
func Format(amount float64, code string) string {
	return fmt.Sprintf("%s%.2f", Symbol(code), amount)
}
