// Package coin converts between integer amounts expressed in a chain's base
// denomination and human-readable display strings scaled by a fixed factor.
//
// Amounts are unsigned: the chain never emits negative transfer values, and
// ParseDisplayAmount rejects anything that is not a plain decimal number.
// The scale factor is expected to be a power of ten (e.g., 1_000_000 for a
// six-decimal asset).
package coin

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a display amount cannot be parsed into
// base units.
var ErrInvalidAmount = errors.New("invalid display amount")

// FormatAmount renders an amount of base units as a display-scaled decimal
// string: the integral part is grouped with commas and the fractional part is
// stripped of trailing zeros (integral amounts carry no fraction at all).
//
// Example: FormatAmount(big.NewInt(1_234_567_890), 1_000_000) == "1,234.56789".
func FormatAmount(amount *big.Int, scale uint64) string {
	if amount == nil || amount.Sign() == 0 || scale == 0 {
		return "0"
	}

	quo, rem := new(big.Int).QuoRem(amount, new(big.Int).SetUint64(scale), new(big.Int))

	integral := groupThousands(quo.String())

	frac := rem.String()
	if pad := fractionWidth(scale) - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}
	frac = strings.TrimRight(frac, "0")

	if frac == "" {
		return integral
	}
	return integral + "." + frac
}

// ParseDisplayAmount converts a display-scaled decimal string (optionally
// comma-grouped, e.g. "1,234.56789") into base units. It returns
// ErrInvalidAmount for empty, negative, or malformed input, and for fractions
// finer than the scale can represent.
func ParseDisplayAmount(s string, scale uint64) (*big.Int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	intPart, fracPart, hasFraction := strings.Cut(cleaned, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if hasFraction && (fracPart == "" || !isDigits(fracPart)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	width := fractionWidth(scale)
	if hasFraction && len(fracPart) > width {
		return nil, fmt.Errorf("%w: %q exceeds %d fractional digits", ErrInvalidAmount, s, width)
	}

	value, _ := new(big.Int).SetString(intPart, 10)
	value.Mul(value, new(big.Int).SetUint64(scale))

	if hasFraction {
		// Pad the fraction to the full scale width so "5" at scale 1e6 means
		// five tenths, not five base units.
		padded := fracPart + strings.Repeat("0", width-len(fracPart))
		frac, _ := new(big.Int).SetString(padded, 10)
		value.Add(value, frac)
	}

	return value, nil
}

// fractionWidth returns the number of decimal digits a remainder modulo scale
// can occupy.
func fractionWidth(scale uint64) int {
	return len(strconv.FormatUint(scale, 10)) - 1
}

// groupThousands inserts a comma every three digits, counting from the right.
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
