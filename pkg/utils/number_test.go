package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "INV-2026-00001", FormatDocumentNumber("INV", 2026, 1))
	assert.Equal(t, "DEV-2026-00042", FormatDocumentNumber("DEV", 2026, 42))
	assert.Equal(t, "INV-2026-123456", FormatDocumentNumber("INV", 2026, 123456), "the sequence widens instead of wrapping")
}
