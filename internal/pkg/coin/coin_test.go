package coin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	t.Run("should group the integral part and strip trailing fraction zeros", func(t *testing.T) {
		got := FormatAmount(big.NewInt(1_234_567_890), 1_000_000)
		assert.Equal(t, "1,234.56789", got)
	})

	t.Run("should omit the fraction for integral amounts", func(t *testing.T) {
		got := FormatAmount(big.NewInt(50_000_000), 1_000_000)
		assert.Equal(t, "50", got)
	})

	t.Run("should keep sub-unit amounts fully padded", func(t *testing.T) {
		assert.Equal(t, "0.000001", FormatAmount(big.NewInt(1), 1_000_000))
		assert.Equal(t, "0.5", FormatAmount(big.NewInt(500_000), 1_000_000))
	})

	t.Run("should group every three digits on large amounts", func(t *testing.T) {
		got := FormatAmount(big.NewInt(1_234_567_000_000), 1_000_000)
		assert.Equal(t, "1,234,567", got)
	})

	t.Run("should render zero and nil as zero", func(t *testing.T) {
		assert.Equal(t, "0", FormatAmount(big.NewInt(0), 1_000_000))
		assert.Equal(t, "0", FormatAmount(nil, 1_000_000))
	})
}

func TestParseDisplayAmount(t *testing.T) {
	t.Run("should scale integral amounts", func(t *testing.T) {
		got, err := ParseDisplayAmount("40", 1_000_000)

		require.NoError(t, err)
		assert.Zero(t, got.Cmp(big.NewInt(40_000_000)))
	})

	t.Run("should scale fractional amounts", func(t *testing.T) {
		got, err := ParseDisplayAmount("0.5", 1_000_000)

		require.NoError(t, err)
		assert.Zero(t, got.Cmp(big.NewInt(500_000)))
	})

	t.Run("should accept comma grouped input", func(t *testing.T) {
		got, err := ParseDisplayAmount("1,234.56789", 1_000_000)

		require.NoError(t, err)
		assert.Zero(t, got.Cmp(big.NewInt(1_234_567_890)))
	})

	t.Run("should reject malformed input", func(t *testing.T) {
		for _, input := range []string{"", "  ", "abc", "1.2.3", "-5", "1.", ".5x", "1e6"} {
			_, err := ParseDisplayAmount(input, 1_000_000)

			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", input)
		}
	})

	t.Run("should reject fractions finer than the scale", func(t *testing.T) {
		_, err := ParseDisplayAmount("0.0000001", 1_000_000)

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("should round trip through FormatAmount", func(t *testing.T) {
		for _, display := range []string{"1,234.56789", "50", "0.000001", "999,999,999.999999"} {
			parsed, err := ParseDisplayAmount(display, 1_000_000)

			require.NoError(t, err)
			assert.Equal(t, display, FormatAmount(parsed, 1_000_000))
		}
	})
}
