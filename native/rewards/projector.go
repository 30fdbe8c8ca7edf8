package rewards

import (
	"math"
	"math/big"
	"strings"
)

// DefaultAnnualGrowthRate is the compounding pool-rate growth assumed by
// reward projections when the caller does not supply one.
const DefaultAnnualGrowthRate = 0.10

var poolRateScale = pow10(DecimalScale)

// CalculateBaseRewards computes the rewards accrued by a deposit between the
// user's entry rate and the current pool rate:
//
//	deposit * (currentRate - userRate) / 10^DecimalScale
//
// Unparseable or non-positive deposits yield zero, as does a user rate at or
// above the current rate. The result is never negative.
func CalculateBaseRewards(deposit string, currentRate, userRate *big.Int, decimals int) *big.Int {
	amount, ok := parseDecimalAmount(deposit, decimals)
	if !ok || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	return baseRewardsFromScaled(amount, currentRate, userRate)
}

func baseRewardsFromScaled(amount, currentRate, userRate *big.Int) *big.Int {
	if currentRate == nil {
		return big.NewInt(0)
	}
	delta := new(big.Int).Set(currentRate)
	if userRate != nil {
		delta.Sub(delta, userRate)
	}
	if delta.Sign() <= 0 {
		return big.NewInt(0)
	}
	accrued := new(big.Int).Mul(amount, delta)
	return accrued.Quo(accrued, poolRateScale)
}

// ApplyPowerFactor scales base rewards by a display factor of the form "xN.N"
// or a bare decimal. Unparseable, zero or negative factors leave the base
// unchanged.
func ApplyPowerFactor(base *big.Int, factor string) *big.Int {
	if base == nil {
		return big.NewInt(0)
	}
	parsed, ok := parsePowerFactor(factor)
	if !ok || parsed.Sign() <= 0 {
		return new(big.Int).Set(base)
	}
	scaled := new(big.Int).Mul(base, parsed.Num())
	return scaled.Quo(scaled, parsed.Denom())
}

func parsePowerFactor(factor string) (*big.Rat, bool) {
	trimmed := strings.TrimSpace(factor)
	trimmed = strings.TrimPrefix(trimmed, "x")
	trimmed = strings.TrimPrefix(trimmed, "X")
	if trimmed == "" {
		return nil, false
	}
	return new(big.Rat).SetString(trimmed)
}

// CalculateEstimatedRewards validates the deposit and pool rate, projects the
// pool rate forward over the horizon, and returns the power-factor-adjusted
// rewards the deposit would accrue against the projected rate.
func CalculateEstimatedRewards(deposit string, poolRate *big.Int, factor string, projectionYears float64, decimals int) EstimatedRewards {
	amount, ok := parseDecimalAmount(deposit, decimals)
	if !ok || amount.Sign() <= 0 {
		return EstimatedRewards{ErrorMessage: "Invalid deposit amount"}
	}
	if poolRate == nil || poolRate.Sign() <= 0 {
		return EstimatedRewards{ErrorMessage: "Invalid pool rate"}
	}
	projected := EstimateFuturePoolRate(poolRate, projectionYears, DefaultAnnualGrowthRate)
	base := baseRewardsFromScaled(amount, projected, poolRate)
	final := ApplyPowerFactor(base, factor)
	return EstimatedRewards{
		IsValid:          true,
		BaseRewards:      base,
		FinalRewards:     final,
		FormattedRewards: FormatRewardsForDisplay(final, decimals),
	}
}

// EstimateFuturePoolRate compounds the pool rate by (1 + growth) per year over
// the horizon. Non-positive horizons and zero growth return the rate
// unchanged. Fractional years compound fractionally so longer horizons always
// project strictly higher under positive growth.
func EstimateFuturePoolRate(rate *big.Int, years float64, growth float64) *big.Int {
	if rate == nil {
		return big.NewInt(0)
	}
	if years <= 0 || growth == 0 {
		return new(big.Int).Set(rate)
	}
	multiplier := math.Pow(1+growth, years)
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return new(big.Int).Set(rate)
	}
	factor := new(big.Rat).SetFloat64(multiplier)
	if factor == nil {
		return new(big.Int).Set(rate)
	}
	projected := new(big.Int).Mul(rate, factor.Num())
	den := factor.Denom()
	if den.Cmp(big.NewInt(1)) > 0 {
		projected.Add(projected, halfUp(den))
		projected.Quo(projected, den)
	}
	return projected
}

// LockDurationInYears converts a lock duration into fractional years for
// projection horizons. Days use the mean tropical year of 365.25 days.
func LockDurationInYears(value string, unit Unit) float64 {
	parsed, ok := parsePositiveInt(value)
	if !ok {
		return 0
	}
	switch unit {
	case UnitYears:
		return float64(parsed)
	case UnitMonths:
		return float64(parsed) / 12
	case UnitDays:
		return float64(parsed) / 365.25
	case UnitMinutes:
		return float64(parsed) / (365.25 * 24 * 60)
	}
	return 0
}
