package rewards

import (
	"math/big"
	"strings"
)

func pow10(n int) *big.Int {
	if n <= 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// halfUp returns the half-up rounding addend for a positive denominator.
func halfUp(x *big.Int) *big.Int {
	if x == nil || x.Sign() <= 0 {
		return big.NewInt(0)
	}
	half := new(big.Int).Add(x, big.NewInt(1))
	return half.Rsh(half, 1)
}

// parseDecimalAmount converts a user-entered decimal string into a fixed-point
// integer scaled by 10^decimals. Fractional digits beyond the scale are
// truncated. Returns false for malformed or negative input.
func parseDecimalAmount(value string, decimals int) (*big.Int, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.HasPrefix(trimmed, "-") {
		return nil, false
	}
	trimmed = strings.TrimPrefix(trimmed, "+")
	intPart, fracPart, hasFrac := strings.Cut(trimmed, ".")
	if intPart == "" && fracPart == "" {
		return nil, false
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (hasFrac && fracPart != "" && !isDigits(fracPart)) {
		return nil, false
	}
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	scaled, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, false
	}
	scaled.Mul(scaled, pow10(decimals))
	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return nil, false
		}
		frac.Mul(frac, pow10(decimals-len(fracPart)))
		scaled.Add(scaled, frac)
	}
	return scaled, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
