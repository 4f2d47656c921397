// Package masking derives display-safe representations of card fields.
// Masking happens at response-construction time only; the masked forms are
// never written back to the store.
package masking

import "strings"

const (
	panMaskToken   = "******"
	panPlaceholder = "****"
	cvvPlaceholder = "***"
)

// MaskPan keeps the first 6 and last 4 digits, e.g. 123456******7890.
// Absent or too-short input collapses to a constant placeholder.
func MaskPan(pan string) string {
	if len(pan) < 10 {
		return panPlaceholder
	}
	return pan[:6] + panMaskToken + pan[len(pan)-4:]
}

// MaskCvv replaces every character, preserving length.
func MaskCvv(cvv string) string {
	if cvv == "" {
		return cvvPlaceholder
	}
	return strings.Repeat("*", len(cvv))
}
