package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestNew_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := New()
		require.NoError(t, err)
		assert.Regexp(t, sixDigits, code)
	}
}

// Ten thousand samples: every digit position should see each digit with a
// frequency close to 1/10. A loose 20% tolerance keeps the test stable while
// still catching a broken or biased source.
func TestNew_Distribution(t *testing.T) {
	const samples = 10_000
	counts := [Length][10]int{}
	for i := 0; i < samples; i++ {
		code, err := New()
		require.NoError(t, err)
		require.Len(t, code, Length)
		for pos := 0; pos < Length; pos++ {
			counts[pos][code[pos]-'0']++
		}
	}
	expected := float64(samples) / 10
	for pos := 0; pos < Length; pos++ {
		for d := 0; d < 10; d++ {
			got := float64(counts[pos][d])
			assert.InDelta(t, expected, got, expected*0.2,
				"digit %d at position %d occurred %v times", d, pos, got)
		}
	}
}

func TestNew_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := New()
		require.NoError(t, err)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1)
}
