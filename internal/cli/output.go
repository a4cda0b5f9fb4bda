package cli

import (
	"fmt"
	"strconv"
)

// money formats a dollar amount, or a dash when the value is not
// computable.
func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}

// num formats a float pointer with the given precision, dash when nil.
func num(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

// price formats a price with enough precision for both JPY and
// non-JPY quotes.
func price(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
