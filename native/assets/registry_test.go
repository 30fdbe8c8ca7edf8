package assets

import "testing"

func TestLookup(t *testing.T) {
	asset, ok := Lookup("USDC")
	if !ok || asset.Symbol != USDC || asset.Decimals != 6 {
		t.Fatalf("Lookup(USDC) = %+v, %v", asset, ok)
	}
	asset, ok = Lookup("steth")
	if !ok || asset.Symbol != StETH {
		t.Fatalf("lowercase lookup failed: %+v, %v", asset, ok)
	}
	asset, ok = Lookup("  wBTC  ")
	if !ok || asset.Decimals != 8 {
		t.Fatalf("trimmed lookup failed: %+v, %v", asset, ok)
	}
	if _, ok := Lookup("DOGE"); ok {
		t.Fatal("unexpected hit for unlisted symbol")
	}
	if _, ok := Lookup(""); ok {
		t.Fatal("unexpected hit for empty symbol")
	}
}

func TestDecimals(t *testing.T) {
	cases := []struct {
		symbol string
		want   int
	}{
		{"MOR", 18},
		{"wETH", 18},
		{"wBTC", 8},
		{"USDT", 6},
		{"UNKNOWN", 18},
	}
	for _, tc := range cases {
		if got := Decimals(tc.symbol); got != tc.want {
			t.Fatalf("Decimals(%q) = %d, want %d", tc.symbol, got, tc.want)
		}
	}
}

func TestAllOrdered(t *testing.T) {
	all := All()
	if len(all) != len(registry) {
		t.Fatalf("All() returned %d assets, want %d", len(all), len(registry))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Symbol >= all[i].Symbol {
			t.Fatalf("All() not ordered at index %d: %s >= %s", i, all[i-1].Symbol, all[i].Symbol)
		}
	}
}

func TestAvailableDecimals(t *testing.T) {
	if got := DisplayVolatile.AvailableDecimals(0.5); got != 3 {
		t.Fatalf("volatile sub-unit = %d, want 3", got)
	}
	if got := DisplayVolatile.AvailableDecimals(2); got != 2 {
		t.Fatalf("volatile whole = %d, want 2", got)
	}
	if got := DisplayStable.AvailableDecimals(0.5); got != 2 {
		t.Fatalf("stable sub-unit = %d, want 2", got)
	}
}

func TestStakedDecimals(t *testing.T) {
	if got := DisplayVolatile.StakedDecimals(0.005); got != 4 {
		t.Fatalf("volatile dust = %d, want 4", got)
	}
	if got := DisplayVolatile.StakedDecimals(0.5); got != 2 {
		t.Fatalf("volatile = %d, want 2", got)
	}
	if got := DisplayStable.StakedDecimals(0.005); got != 2 {
		t.Fatalf("stable dust = %d, want 2", got)
	}
}
