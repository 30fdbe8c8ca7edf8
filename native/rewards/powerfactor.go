package rewards

import (
	"fmt"
	"math/big"
)

// MaxPowerFactor is the display ceiling for the reward multiplier.
const MaxPowerFactor = 10.7

const (
	maxPowerFactorTenths  = 107
	basePowerFactorTenths = 10
)

var (
	// powerFactorDenom descales a raw on-chain multiplier to a plain
	// factor: 10^MultiplierScale for the fixed point, times the contract
	// rewards divider.
	powerFactorDenom  = new(big.Int).Mul(pow10(MultiplierScale), big.NewInt(RewardsDivider))
	maxPowerFactorRat = big.NewRat(maxPowerFactorTenths, 10)
)

// FormatPowerFactor renders a raw contract multiplier as a display factor of
// the form "xN.N", capped at the ceiling. Raw multipliers are unsigned
// on-chain, so nil or negative input falls back to "x1.0"; an exact zero
// reports "x0.0".
func FormatPowerFactor(raw *big.Int) string {
	if raw == nil || raw.Sign() < 0 {
		return "x1.0"
	}
	if raw.Sign() == 0 {
		return "x0.0"
	}
	tenths := new(big.Int).Mul(raw, big.NewInt(10))
	tenths.Add(tenths, halfUp(powerFactorDenom))
	tenths.Quo(tenths, powerFactorDenom)
	if tenths.Cmp(big.NewInt(maxPowerFactorTenths)) > 0 {
		return formatTenths(maxPowerFactorTenths)
	}
	return formatTenths(tenths.Int64())
}

// FormatPowerFactorPrecise renders the same factor through exact rational
// arithmetic. It agrees with FormatPowerFactor on every one-decimal value.
func FormatPowerFactorPrecise(raw *big.Int) string {
	if raw == nil || raw.Sign() < 0 {
		return "x1.0"
	}
	if raw.Sign() == 0 {
		return "x0.0"
	}
	factor := new(big.Rat).SetFrac(raw, powerFactorDenom)
	if factor.Cmp(maxPowerFactorRat) > 0 {
		factor = maxPowerFactorRat
	}
	return "x" + factor.FloatString(1)
}

// PowerFactorFromDuration maps a lock duration to its display factor. Locks
// below the activation threshold, and invalid input, report the neutral
// "x1.0".
func PowerFactorFromDuration(value string, unit Unit) string {
	seconds := normalizeSeconds(value, unit)
	if seconds == 0 || seconds < activationSeconds {
		return formatTenths(basePowerFactorTenths)
	}
	return formatTenths(durationTenths(seconds))
}

// WillActivatePowerFactor reports whether the duration reaches the
// seven-month activation threshold. Invalid input never activates.
func WillActivatePowerFactor(value string, unit Unit) bool {
	seconds := normalizeSeconds(value, unit)
	return seconds >= activationSeconds && seconds != 0
}

// durationTenths interpolates linearly between the activation boundary (x1.0)
// and the six-year maximum (x10.7), in tenths of a factor.
func durationTenths(seconds uint64) int64 {
	if seconds >= sixYearLockSeconds {
		return maxPowerFactorTenths
	}
	span := uint64(sixYearLockSeconds - activationSeconds)
	progress := seconds - activationSeconds
	return basePowerFactorTenths + int64(progress*(maxPowerFactorTenths-basePowerFactorTenths)/span)
}

func formatTenths(tenths int64) string {
	return fmt.Sprintf("x%d.%d", tenths/10, tenths%10)
}
