// Package assets holds the closed table of tokens the platform can display.
// Adding an asset is a data change: extend the registry map and the display
// rules pick it up everywhere.
package assets

import (
	"sort"
	"strings"
)

// Symbol is a supported asset ticker.
type Symbol string

const (
	MOR   Symbol = "MOR"
	StETH Symbol = "stETH"
	WETH  Symbol = "wETH"
	WBTC  Symbol = "wBTC"
	USDC  Symbol = "USDC"
	USDT  Symbol = "USDT"
)

// DisplayRule selects the decimal-precision behaviour for an asset class.
type DisplayRule int

const (
	// DisplayStable renders two fractional digits regardless of magnitude.
	DisplayStable DisplayRule = iota
	// DisplayVolatile widens the precision for small balances.
	DisplayVolatile
)

// GenericDisplayDecimals applies to symbols outside the registry.
const GenericDisplayDecimals = 2

// Asset describes one supported token.
type Asset struct {
	Symbol   Symbol
	Decimals int // fixed-point scale of on-chain amounts
	Display  DisplayRule
}

var registry = map[Symbol]Asset{
	MOR:   {Symbol: MOR, Decimals: 18, Display: DisplayVolatile},
	StETH: {Symbol: StETH, Decimals: 18, Display: DisplayVolatile},
	WETH:  {Symbol: WETH, Decimals: 18, Display: DisplayVolatile},
	WBTC:  {Symbol: WBTC, Decimals: 8, Display: DisplayVolatile},
	USDC:  {Symbol: USDC, Decimals: 6, Display: DisplayStable},
	USDT:  {Symbol: USDT, Decimals: 6, Display: DisplayStable},
}

var bySymbol = func() map[string]Asset {
	index := make(map[string]Asset, len(registry))
	for sym, asset := range registry {
		index[strings.ToLower(string(sym))] = asset
	}
	return index
}()

// Lookup resolves a ticker case-insensitively.
func Lookup(symbol string) (Asset, bool) {
	asset, ok := bySymbol[strings.ToLower(strings.TrimSpace(symbol))]
	return asset, ok
}

// Decimals returns the fixed-point scale for the symbol, defaulting to the
// 18-decimal convention for unknown tickers.
func Decimals(symbol string) int {
	if asset, ok := Lookup(symbol); ok {
		return asset.Decimals
	}
	return 18
}

// All returns the registry entries ordered by symbol.
func All() []Asset {
	out := make([]Asset, 0, len(registry))
	for _, asset := range registry {
		out = append(out, asset)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// AvailableDecimals returns the fractional digits for an available balance.
func (r DisplayRule) AvailableDecimals(value float64) int {
	if r == DisplayVolatile && value < 1 {
		return 3
	}
	return 2
}

// StakedDecimals returns the fractional digits for a staked balance.
func (r DisplayRule) StakedDecimals(value float64) int {
	if r == DisplayVolatile && value < 0.01 {
		return 4
	}
	return 2
}
