package rewards

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"morpheus/native/assets"
)

var (
	ratCent     = big.NewRat(1, 100)
	ratThousand = new(big.Rat).SetInt64(1_000)
	ratMillion  = new(big.Rat).SetInt64(1_000_000)
)

// FormatRewardsForDisplay renders a fixed-point reward amount with K/M
// suffixes for large values and a floor marker for dust.
func FormatRewardsForDisplay(amount *big.Int, decimals int) string {
	if amount == nil || amount.Sign() <= 0 {
		return "0.00"
	}
	value := new(big.Rat).SetFrac(amount, pow10(decimals))
	switch {
	case value.Cmp(ratCent) < 0:
		return "< 0.01"
	case value.Cmp(ratMillion) >= 0:
		return new(big.Rat).Quo(value, ratMillion).FloatString(2) + "M"
	case value.Cmp(ratThousand) >= 0:
		return new(big.Rat).Quo(value, ratThousand).FloatString(2) + "K"
	}
	return value.FloatString(2)
}

// FormatBigInt renders a fixed-point amount with comma thousands separators
// and the requested fractional precision. Nil input renders the placeholder.
func FormatBigInt(amount *big.Int, decimals, precision int) string {
	if amount == nil {
		return "---"
	}
	if precision < 0 {
		precision = 0
	}
	value := new(big.Rat).SetFrac(amount, pow10(decimals))
	return groupThousands(value.FloatString(precision))
}

func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var grouped strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteByte(intPart[i])
	}
	out := sign + grouped.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}

// FormatTimestamp renders an unlock time for display. Nil means the value has
// not loaded yet, zero means the lock never expires, small values read as a
// relative duration and anything larger as a calendar date.
func FormatTimestamp(value *int64) string {
	if value == nil {
		return "--- --, ----"
	}
	v := *value
	switch {
	case v < 0:
		return "Invalid Number"
	case v == 0:
		return "Never"
	case v < 2*secondsPerDay:
		return formatRelative(v)
	}
	return time.Unix(v, 0).UTC().Format("Jan 2, 2006")
}

func formatRelative(seconds int64) string {
	switch {
	case seconds < secondsPerMinute:
		return pluralize(seconds, "second")
	case seconds < 60*secondsPerMinute:
		return pluralize(seconds/secondsPerMinute, "minute")
	case seconds < secondsPerDay:
		return pluralize(seconds/(60*secondsPerMinute), "hour")
	}
	return pluralize(seconds/secondsPerDay, "day")
}

func pluralize(count int64, unit string) string {
	if count == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", count, unit)
}

// FormatAssetAmount renders an available balance using the asset registry's
// display rules. Trailing zeros are stripped on this path only.
func FormatAssetAmount(value float64, symbol string) string {
	digits := assets.GenericDisplayDecimals
	if asset, ok := assets.Lookup(symbol); ok {
		digits = asset.Display.AvailableDecimals(value)
	}
	return stripTrailingZeros(formatFixed(value, digits))
}

// FormatStakedAmount renders a staked balance; trailing zeros are kept so
// columns of staked positions stay aligned.
func FormatStakedAmount(value float64, symbol string) string {
	digits := assets.GenericDisplayDecimals
	if asset, ok := assets.Lookup(symbol); ok {
		digits = asset.Display.StakedDecimals(value)
	}
	return formatFixed(value, digits)
}

func formatFixed(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

func stripTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
