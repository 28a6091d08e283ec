package domain

import "fmt"

// FormatMass renders a mass in grams with a unit suited to its magnitude.
// Boundary values take the larger unit: exactly 1,000 g is "1.00 kg".
func FormatMass(grams float64) string {
	switch {
	case grams >= 1_000_000:
		return fmt.Sprintf("%.2f tonnes", grams/1_000_000)
	case grams >= 1_000:
		return fmt.Sprintf("%.2f kg", grams/1_000)
	default:
		return fmt.Sprintf("%.0f g", grams)
	}
}
