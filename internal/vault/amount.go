package vault

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// Decimals is the fixed unit scale shared by the base asset (SOL) and the
// receipt token: 1 display unit = 10^9 base units.
const Decimals = 9

// ToBaseUnits converts a display amount to integer base units at the given
// decimal scale. Fractional dust below one base unit is truncated toward
// zero, matching integer-multiply-then-floor semantics.
func ToBaseUnits(amount float64, decimals int32) (uint64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("amount must not be negative: %f", amount)
	}
	scaled := decimal.NewFromFloat(amount).Shift(decimals).Truncate(0)
	if !scaled.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %f overflows u64 at %d decimals", amount, decimals)
	}
	return scaled.BigInt().Uint64(), nil
}

// FromBaseUnits converts integer base units back to a display amount.
func FromBaseUnits(raw uint64, decimals int32) float64 {
	display, _ := decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0).Shift(-decimals).Float64()
	return display
}
