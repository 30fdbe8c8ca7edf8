package rpc

import (
	"math/big"
	"strconv"
	"strings"

	"morpheus/native/assets"
	"morpheus/native/rewards"
)

type durationParams struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

type durationResult struct {
	Seconds uint64 `json:"seconds"`
}

func (s *Server) handleDurationToSeconds(req *RPCRequest) (any, *RPCError) {
	var params durationParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	return durationResult{Seconds: rewards.DurationToSeconds(params.Value, rewards.Unit(params.Unit))}, nil
}

type validationResult struct {
	IsValid        bool   `json:"isValid"`
	ErrorMessage   string `json:"errorMessage,omitempty"`
	WarningMessage string `json:"warningMessage,omitempty"`
}

func (s *Server) handleValidateLockDuration(req *RPCRequest) (any, *RPCError) {
	var params durationParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	result := rewards.ValidateLockDuration(params.Value, rewards.Unit(params.Unit))
	return validationResult{
		IsValid:        result.IsValid,
		ErrorMessage:   result.ErrorMessage,
		WarningMessage: result.WarningMessage,
	}, nil
}

type powerFactorParams struct {
	RawMultiplier string `json:"rawMultiplier"`
	Precise       bool   `json:"precise,omitempty"`
}

type powerFactorResult struct {
	PowerFactor string `json:"powerFactor"`
}

func (s *Server) handlePowerFactor(req *RPCRequest) (any, *RPCError) {
	var params powerFactorParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	raw, ok := new(big.Int).SetString(strings.TrimSpace(params.RawMultiplier), 10)
	if !ok {
		return nil, &RPCError{Code: codeInvalidParams, Message: "rawMultiplier must be an integer string"}
	}
	factor := rewards.FormatPowerFactor(raw)
	if params.Precise {
		factor = rewards.FormatPowerFactorPrecise(raw)
	}
	return powerFactorResult{PowerFactor: factor}, nil
}

type durationFactorResult struct {
	PowerFactor  string `json:"powerFactor"`
	WillActivate bool   `json:"willActivate"`
}

func (s *Server) handlePowerFactorFromDuration(req *RPCRequest) (any, *RPCError) {
	var params durationParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	unit := rewards.Unit(params.Unit)
	return durationFactorResult{
		PowerFactor:  rewards.PowerFactorFromDuration(params.Value, unit),
		WillActivate: rewards.WillActivatePowerFactor(params.Value, unit),
	}, nil
}

type baseRewardsParams struct {
	Deposit     string `json:"deposit"`
	CurrentRate string `json:"currentRate"`
	UserRate    string `json:"userRate,omitempty"`
	Asset       string `json:"asset,omitempty"`
}

type baseRewardsResult struct {
	BaseRewards string `json:"baseRewards"`
}

func (s *Server) handleBaseRewards(req *RPCRequest) (any, *RPCError) {
	var params baseRewardsParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	currentRate, rpcErr := parseRate(params.CurrentRate, "currentRate")
	if rpcErr != nil {
		return nil, rpcErr
	}
	var userRate *big.Int
	if strings.TrimSpace(params.UserRate) != "" {
		if userRate, rpcErr = parseRate(params.UserRate, "userRate"); rpcErr != nil {
			return nil, rpcErr
		}
	}
	base := rewards.CalculateBaseRewards(params.Deposit, currentRate, userRate, decimalsFor(params.Asset))
	return baseRewardsResult{BaseRewards: base.String()}, nil
}

type estimateParams struct {
	Deposit         string  `json:"deposit"`
	PoolRate        string  `json:"poolRate"`
	PowerFactor     string  `json:"powerFactor"`
	ProjectionYears float64 `json:"projectionYears"`
	Asset           string  `json:"asset,omitempty"`
}

type estimateResult struct {
	IsValid          bool   `json:"isValid"`
	BaseRewards      string `json:"baseRewards,omitempty"`
	FinalRewards     string `json:"finalRewards,omitempty"`
	FormattedRewards string `json:"formattedRewards,omitempty"`
	Error            string `json:"error,omitempty"`
}

func (s *Server) handleEstimateRewards(req *RPCRequest) (any, *RPCError) {
	var params estimateParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	poolRate, _ := new(big.Int).SetString(strings.TrimSpace(params.PoolRate), 10)
	estimated := rewards.CalculateEstimatedRewards(
		params.Deposit,
		poolRate,
		params.PowerFactor,
		params.ProjectionYears,
		decimalsFor(params.Asset),
	)
	if !estimated.IsValid {
		return estimateResult{Error: estimated.ErrorMessage}, nil
	}
	return estimateResult{
		IsValid:          true,
		BaseRewards:      estimated.BaseRewards.String(),
		FinalRewards:     estimated.FinalRewards.String(),
		FormattedRewards: estimated.FormattedRewards,
	}, nil
}

type futurePoolRateParams struct {
	PoolRate   string   `json:"poolRate"`
	Years      float64  `json:"years"`
	GrowthRate *float64 `json:"growthRate,omitempty"`
}

type futurePoolRateResult struct {
	PoolRate string `json:"poolRate"`
}

func (s *Server) handleFuturePoolRate(req *RPCRequest) (any, *RPCError) {
	var params futurePoolRateParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	rate, rpcErr := parseRate(params.PoolRate, "poolRate")
	if rpcErr != nil {
		return nil, rpcErr
	}
	growth := s.cfg.AnnualGrowthRate
	if params.GrowthRate != nil {
		growth = *params.GrowthRate
	}
	projected := rewards.EstimateFuturePoolRate(rate, params.Years, growth)
	return futurePoolRateResult{PoolRate: projected.String()}, nil
}

type formatAmountParams struct {
	Value  float64 `json:"value"`
	Symbol string  `json:"symbol"`
	Staked bool    `json:"staked,omitempty"`
}

type formatAmountResult struct {
	Formatted string `json:"formatted"`
}

func (s *Server) handleFormatAmount(req *RPCRequest) (any, *RPCError) {
	var params formatAmountParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	formatted := rewards.FormatAssetAmount(params.Value, params.Symbol)
	if params.Staked {
		formatted = rewards.FormatStakedAmount(params.Value, params.Symbol)
	}
	return formatAmountResult{Formatted: formatted}, nil
}

type formatTimestampParams struct {
	// Timestamp is a decimal string so the frontend can forward raw input;
	// null reports the unloaded placeholder.
	Timestamp *string `json:"timestamp"`
}

type formatTimestampResult struct {
	Formatted string `json:"formatted"`
}

func (s *Server) handleFormatTimestamp(req *RPCRequest) (any, *RPCError) {
	var params formatTimestampParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		return nil, rpcErr
	}
	if params.Timestamp == nil {
		return formatTimestampResult{Formatted: rewards.FormatTimestamp(nil)}, nil
	}
	parsed, err := strconv.ParseInt(strings.TrimSpace(*params.Timestamp), 10, 64)
	if err != nil {
		return formatTimestampResult{Formatted: "Invalid Number"}, nil
	}
	return formatTimestampResult{Formatted: rewards.FormatTimestamp(&parsed)}, nil
}

func parseRate(value, field string) (*big.Int, *RPCError) {
	rate, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, &RPCError{Code: codeInvalidParams, Message: field + " must be an integer string"}
	}
	return rate, nil
}

func decimalsFor(symbol string) int {
	if strings.TrimSpace(symbol) == "" {
		return rewards.DefaultTokenDecimals
	}
	return assets.Decimals(symbol)
}
