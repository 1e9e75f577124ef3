package trade

import (
	"fmt"
	"regexp"
	"strconv"
)

var numericNumber = regexp.MustCompile(`^[0-9]+$`)

// NextNumber returns max+1 over the purely numeric values in existing, or 1 when
// there are none. Alphanumeric legacy numbers and values that do not fit into
// an int64 are skipped.
func NextNumber(existing []string) int64 {
	var max int64
	for _, n := range existing {
		if !numericNumber.MatchString(n) {
			continue
		}
		v, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max + 1
}

// FormatNumber zero-pads n to width digits for display
func FormatNumber(n int64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
