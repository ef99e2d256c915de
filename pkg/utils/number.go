package utils

import "fmt"

// FormatDocumentNumber renders a document number like "INV-2026-00042" from a
// prefix, the issue year and a per-user sequence value. The sequence widens
// past five digits instead of wrapping.
func FormatDocumentNumber(prefix string, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, year, sequence)
}
