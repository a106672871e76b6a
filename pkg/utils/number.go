package utils

import (
	"fmt"
	"math"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// FormatCPM renders a CPM as the canonical two decimal place string used on
// the wire, e.g. 2.1 -> "2.10".
func FormatCPM(f float64) string {
	return fmt.Sprintf("%.2f", RoundWithTwoDecimalPlace(f))
}
