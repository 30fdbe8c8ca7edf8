package rewards

import "math/big"

const (
	// DecimalScale is the fixed-point scale of pool and user rates. Rates
	// are integers representing accumulated yield per unit staked,
	// multiplied by 10^25.
	DecimalScale = 25

	// MultiplierScale is the fixed-point scale of the raw power-factor
	// multiplier returned by the reward contract.
	MultiplierScale = 21

	// RewardsDivider is the contract-side divisor applied to the descaled
	// multiplier before display.
	RewardsDivider = 10_000

	// DefaultTokenDecimals is the fixed-point scale used when the caller
	// does not name an asset.
	DefaultTokenDecimals = 18
)

// ValidationResult reports the outcome of a user-facing form validation.
// WarningMessage may be set on valid input.
type ValidationResult struct {
	IsValid        bool
	ErrorMessage   string
	WarningMessage string
}

// EstimatedRewards is the structured result of a reward projection.
type EstimatedRewards struct {
	IsValid          bool
	BaseRewards      *big.Int
	FinalRewards     *big.Int
	FormattedRewards string
	ErrorMessage     string
}
