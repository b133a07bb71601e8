package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsE164(t *testing.T) {
	valid := []string{
		"+14155550100",
		"+447911123456",
		"+919876543210",
		"+12",
		"+123456789012345", // 15 digits, upper bound
	}
	for _, n := range valid {
		assert.True(t, IsE164(n), n)
	}

	invalid := []string{
		"",
		"14155550100",       // no plus
		"+04155550100",      // country code starting with 0
		"+1",                // too short
		"+1234567890123456", // 16 digits
		"+1 415 555 0100",   // spaces
		"+1415555010a",
	}
	for _, n := range invalid {
		assert.False(t, IsE164(n), n)
	}
}
