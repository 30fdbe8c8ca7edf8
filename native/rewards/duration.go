package rewards

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit identifies the unit of a user-entered lock duration.
type Unit string

const (
	UnitMinutes Unit = "minutes"
	UnitDays    Unit = "days"
	UnitMonths  Unit = "months"
	UnitYears   Unit = "years"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
	daysPerMonth     = 30
	daysPerYear      = 365

	// SafetyBufferSeconds is added to every normalised duration so the
	// lock-end timestamp submitted on-chain survives block-time drift.
	SafetyBufferSeconds = 300

	// sixYearLockSeconds is the contract's fixed boundary for the six-year
	// maximum power-factor lock.
	sixYearLockSeconds = 189_216_000

	// minActivationMonths is the shortest lock, in months, that activates
	// the power factor.
	minActivationMonths = 7

	activationSeconds = minActivationMonths * daysPerMonth * secondsPerDay

	// maxLockDays is ten years of lock expressed in days, including leap
	// days.
	maxLockDays = 3653
)

// DurationToSeconds converts a user-entered (value, unit) pair into whole
// seconds plus the safety buffer. Non-numeric, zero or negative input yields 0.
func DurationToSeconds(value string, unit Unit) uint64 {
	base := normalizeSeconds(value, unit)
	if base == 0 {
		return 0
	}
	return base + SafetyBufferSeconds
}

// normalizeSeconds converts without the safety buffer. Months count as exactly
// 30 days and years as exactly 365, except the six-year lock which maps to the
// contract boundary constant.
func normalizeSeconds(value string, unit Unit) uint64 {
	parsed, ok := parsePositiveInt(value)
	if !ok {
		return 0
	}
	switch unit {
	case UnitMinutes:
		return parsed * secondsPerMinute
	case UnitDays:
		return parsed * secondsPerDay
	case UnitMonths:
		return parsed * daysPerMonth * secondsPerDay
	case UnitYears:
		if parsed == 6 {
			return sixYearLockSeconds
		}
		return parsed * daysPerYear * secondsPerDay
	}
	return 0
}

func parsePositiveInt(value string) (uint64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return uint64(parsed), true
}

// MinAllowedValue returns the smallest accepted numeric value for the unit.
func MinAllowedValue(unit Unit) uint64 {
	switch unit {
	case UnitMinutes:
		return 7 * 24 * 60
	case UnitDays:
		return 7
	case UnitMonths, UnitYears:
		return 1
	}
	return 0
}

// MaxAllowedValue returns the largest accepted numeric value for the unit,
// bounding every lock at ten years.
func MaxAllowedValue(unit Unit) uint64 {
	switch unit {
	case UnitMinutes:
		return maxLockDays * 24 * 60
	case UnitDays:
		return maxLockDays
	case UnitMonths:
		return 120
	case UnitYears:
		return 10
	}
	return 0
}

// ValidateLockDuration checks a user-entered lock duration against the unit
// bounds. Valid durations below the power-factor activation threshold succeed
// with a warning so the form can hint at the longer lock.
func ValidateLockDuration(value string, unit Unit) ValidationResult {
	seconds := normalizeSeconds(value, unit)
	if seconds == 0 {
		return ValidationResult{ErrorMessage: "Please enter a valid positive number"}
	}
	parsed, _ := parsePositiveInt(value)
	if max := MaxAllowedValue(unit); parsed > max {
		return ValidationResult{ErrorMessage: fmt.Sprintf("Maximum lock period is %d %s", max, unit)}
	}
	if min := MinAllowedValue(unit); parsed < min {
		return ValidationResult{ErrorMessage: fmt.Sprintf("Minimum lock period is %d %s", min, unit)}
	}
	result := ValidationResult{IsValid: true}
	if seconds < activationSeconds {
		result.WarningMessage = fmt.Sprintf("Power factor starts after %d months of lock period", minActivationMonths)
	}
	return result
}

// ValidateMaxYears checks a bare year count against the ten-year ceiling.
func ValidateMaxYears(value string) ValidationResult {
	return ValidateLockDuration(value, UnitYears)
}
