package rewards

import (
	"math/big"
	"testing"
)

func scaledRate(factor int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(factor), poolRateScale)
}

func TestCalculateBaseRewards(t *testing.T) {
	current := scaledRate(2)
	entry := scaledRate(1)

	got := CalculateBaseRewards("100", current, entry, DefaultTokenDecimals)
	want := new(big.Int).Mul(big.NewInt(100), pow10(DefaultTokenDecimals))
	if got.Cmp(want) != 0 {
		t.Fatalf("base rewards = %s, want %s", got, want)
	}
}

func TestCalculateBaseRewardsZeroCases(t *testing.T) {
	current := scaledRate(2)
	cases := []struct {
		name    string
		deposit string
		current *big.Int
		user    *big.Int
	}{
		{"equal rates", "100", current, scaledRate(2)},
		{"user above current", "100", current, scaledRate(3)},
		{"nil current", "100", nil, nil},
		{"zero deposit", "0", current, nil},
		{"negative deposit", "-5", current, nil},
		{"garbage deposit", "abc", current, nil},
	}
	for _, tc := range cases {
		got := CalculateBaseRewards(tc.deposit, tc.current, tc.user, DefaultTokenDecimals)
		if got.Sign() != 0 {
			t.Fatalf("%s: base rewards = %s, want 0", tc.name, got)
		}
	}
}

func TestCalculateBaseRewardsFractionalDeposit(t *testing.T) {
	got := CalculateBaseRewards("0.5", scaledRate(3), scaledRate(1), DefaultTokenDecimals)
	want := new(big.Int).Mul(big.NewInt(1), pow10(DefaultTokenDecimals))
	if got.Cmp(want) != 0 {
		t.Fatalf("base rewards = %s, want %s", got, want)
	}
}

func TestApplyPowerFactor(t *testing.T) {
	base := new(big.Int).Mul(big.NewInt(100), pow10(DefaultTokenDecimals))

	if got := ApplyPowerFactor(base, "x1.0"); got.Cmp(base) != 0 {
		t.Fatalf("identity factor changed base: %s", got)
	}
	want := new(big.Int).Mul(big.NewInt(150), pow10(DefaultTokenDecimals))
	if got := ApplyPowerFactor(base, "x1.5"); got.Cmp(want) != 0 {
		t.Fatalf("x1.5 factor = %s, want %s", got, want)
	}
	if got := ApplyPowerFactor(base, "2.5"); got.Cmp(new(big.Int).Mul(big.NewInt(250), pow10(DefaultTokenDecimals))) != 0 {
		t.Fatalf("bare factor 2.5 = %s", got)
	}
	for _, factor := range []string{"", "x", "nonsense", "x0.0", "-2"} {
		if got := ApplyPowerFactor(base, factor); got.Cmp(base) != 0 {
			t.Fatalf("factor %q changed base: %s", factor, got)
		}
	}
	if got := ApplyPowerFactor(nil, "x1.5"); got.Sign() != 0 {
		t.Fatalf("nil base = %s, want 0", got)
	}
}

func TestApplyPowerFactorCopiesBase(t *testing.T) {
	base := big.NewInt(1000)
	got := ApplyPowerFactor(base, "x1.0")
	got.SetInt64(7)
	if base.Int64() != 1000 {
		t.Fatalf("base mutated to %s", base)
	}
}

func TestCalculateEstimatedRewardsErrors(t *testing.T) {
	rate := scaledRate(1)

	result := CalculateEstimatedRewards("", rate, "x1.0", 1, DefaultTokenDecimals)
	if result.IsValid || result.ErrorMessage != "Invalid deposit amount" {
		t.Fatalf("empty deposit: %+v", result)
	}
	result = CalculateEstimatedRewards("-10", rate, "x1.0", 1, DefaultTokenDecimals)
	if result.IsValid || result.ErrorMessage != "Invalid deposit amount" {
		t.Fatalf("negative deposit: %+v", result)
	}
	result = CalculateEstimatedRewards("100", nil, "x1.0", 1, DefaultTokenDecimals)
	if result.IsValid || result.ErrorMessage != "Invalid pool rate" {
		t.Fatalf("nil pool rate: %+v", result)
	}
	result = CalculateEstimatedRewards("100", big.NewInt(0), "x1.0", 1, DefaultTokenDecimals)
	if result.IsValid || result.ErrorMessage != "Invalid pool rate" {
		t.Fatalf("zero pool rate: %+v", result)
	}
}

func TestCalculateEstimatedRewardsZeroHorizon(t *testing.T) {
	result := CalculateEstimatedRewards("100", scaledRate(1), "x1.5", 0, DefaultTokenDecimals)
	if !result.IsValid {
		t.Fatalf("unexpected error: %q", result.ErrorMessage)
	}
	if result.BaseRewards.Sign() != 0 || result.FinalRewards.Sign() != 0 {
		t.Fatalf("zero horizon accrued rewards: base %s, final %s", result.BaseRewards, result.FinalRewards)
	}
	if result.FormattedRewards != "0.00" {
		t.Fatalf("formatted = %q, want 0.00", result.FormattedRewards)
	}
}

func TestCalculateEstimatedRewardsGrowsWithHorizon(t *testing.T) {
	rate := scaledRate(1)
	prev := big.NewInt(-1)
	for _, years := range []float64{0.5, 1, 2, 5, 10} {
		result := CalculateEstimatedRewards("100", rate, "x1.0", years, DefaultTokenDecimals)
		if !result.IsValid {
			t.Fatalf("horizon %v: unexpected error %q", years, result.ErrorMessage)
		}
		if result.BaseRewards.Cmp(prev) <= 0 {
			t.Fatalf("horizon %v: base %s not above previous %s", years, result.BaseRewards, prev)
		}
		prev = result.BaseRewards
	}
}

func TestCalculateEstimatedRewardsAppliesFactor(t *testing.T) {
	rate := scaledRate(1)
	result := CalculateEstimatedRewards("100", rate, "x2.0", 1, DefaultTokenDecimals)
	if !result.IsValid {
		t.Fatalf("unexpected error: %q", result.ErrorMessage)
	}
	want := new(big.Int).Mul(result.BaseRewards, big.NewInt(2))
	if result.FinalRewards.Cmp(want) != 0 {
		t.Fatalf("final = %s, want %s", result.FinalRewards, want)
	}
}

func TestEstimateFuturePoolRate(t *testing.T) {
	rate := scaledRate(1)

	if got := EstimateFuturePoolRate(rate, 0, DefaultAnnualGrowthRate); got.Cmp(rate) != 0 {
		t.Fatalf("zero horizon changed rate: %s", got)
	}
	if got := EstimateFuturePoolRate(rate, 5, 0); got.Cmp(rate) != 0 {
		t.Fatalf("zero growth changed rate: %s", got)
	}
	if got := EstimateFuturePoolRate(nil, 1, DefaultAnnualGrowthRate); got.Sign() != 0 {
		t.Fatalf("nil rate = %s, want 0", got)
	}

	oneYear := EstimateFuturePoolRate(rate, 1, DefaultAnnualGrowthRate)
	twoYears := EstimateFuturePoolRate(rate, 2, DefaultAnnualGrowthRate)
	if oneYear.Cmp(rate) <= 0 {
		t.Fatalf("one year projection %s not above %s", oneYear, rate)
	}
	if twoYears.Cmp(oneYear) <= 0 {
		t.Fatalf("two year projection %s not above one year %s", twoYears, oneYear)
	}
}

func TestEstimateFuturePoolRateCopiesInput(t *testing.T) {
	rate := big.NewInt(500)
	got := EstimateFuturePoolRate(rate, 0, DefaultAnnualGrowthRate)
	got.SetInt64(9)
	if rate.Int64() != 500 {
		t.Fatalf("input mutated to %s", rate)
	}
}

func TestLockDurationInYears(t *testing.T) {
	cases := []struct {
		value string
		unit  Unit
		want  float64
	}{
		{"3", UnitYears, 3},
		{"6", UnitMonths, 0.5},
		{"365", UnitDays, 365 / 365.25},
		{"bogus", UnitYears, 0},
		{"0", UnitMonths, 0},
	}
	for _, tc := range cases {
		if got := LockDurationInYears(tc.value, tc.unit); got != tc.want {
			t.Fatalf("LockDurationInYears(%q, %s) = %v, want %v", tc.value, tc.unit, got, tc.want)
		}
	}
}
