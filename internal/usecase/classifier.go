package usecase

import "regexp"

// Package-level compiled regex pattern for performance. EAN-8 through
// EAN-13/UPC: 8 to 13 ASCII digits, no separators. The bounds are exact;
// they decide whether the Open Food Facts barcode path runs.
var barcodeRegex = regexp.MustCompile(`^[0-9]{8,13}$`)

// IsBarcode reports whether a trimmed query string is a product barcode.
func IsBarcode(query string) bool {
	return barcodeRegex.MatchString(query)
}
