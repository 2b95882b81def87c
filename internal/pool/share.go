package pool

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"memepool/internal/vault"
)

// TokenReport is one reserve of a pool in display units.
type TokenReport struct {
	Mint      string  `json:"mint"`
	Symbol    string  `json:"symbol"`
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

// Report is the user-facing view of a pool snapshot: display-scaled
// reserves, the LP position and the vault's proportional share.
type Report struct {
	Name             string      `json:"name"`
	Address          string      `json:"address"`
	Token1           TokenReport `json:"token1"`
	Token2           TokenReport `json:"token2"`
	LpMint           string      `json:"lp_mint"`
	LpSupply         float64     `json:"lp_supply"`
	LpSupplyText     string      `json:"lp_supply_formatted"`
	VaultLpBalance   float64     `json:"vault_lp_balance"`
	VaultLpText      string      `json:"vault_lp_balance_formatted"`
	SharePercent     float64     `json:"share_percent"`
	SharePercentText string      `json:"share_percent_formatted"`
}

// BuildReport converts a raw snapshot into display units and computes the
// vault's share of the pool.
func BuildReport(info *Info) Report {
	lpSupply := vault.FromBaseUnits(info.LpSupply, int32(info.LpDecimals))
	vaultLp := vault.FromBaseUnits(info.VaultLpBalance, int32(info.LpDecimals))
	share := SharePercent(info.VaultLpBalance, info.LpSupply)

	return Report{
		Name:             info.Name,
		Address:          info.Address.String(),
		Token1:           tokenReport(info.Token1),
		Token2:           tokenReport(info.Token2),
		LpMint:           info.LpMint.String(),
		LpSupply:         lpSupply,
		LpSupplyText:     FormatAmount(lpSupply),
		VaultLpBalance:   vaultLp,
		VaultLpText:      FormatAmount(vaultLp),
		SharePercent:     share,
		SharePercentText: FormatPercent(share),
	}
}

func tokenReport(t TokenInfo) TokenReport {
	amount := vault.FromBaseUnits(t.Amount, int32(t.Decimals))
	return TokenReport{
		Mint:      t.Mint.String(),
		Symbol:    t.Symbol,
		Amount:    amount,
		Formatted: FormatAmount(amount),
	}
}

// SharePercent is the vault's proportional ownership of the pool in percent.
// A pool with no LP supply has no owners: the share is exactly 0, never a
// division by zero.
func SharePercent(vaultLp, lpSupply uint64) float64 {
	if lpSupply == 0 {
		return 0
	}
	share, _ := decimal.NewFromBigInt(new(big.Int).SetUint64(vaultLp), 0).
		Div(decimal.NewFromBigInt(new(big.Int).SetUint64(lpSupply), 0)).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return share
}

// FormatAmount renders a display amount. Values below 0.0001 switch to
// scientific notation with 4 fractional digits; everything else keeps a
// fixed 6-digit fractional window.
func FormatAmount(amount float64) string {
	if amount == 0 {
		return "0"
	}
	if amount < 0.0001 {
		return formatExponential(amount)
	}
	return strconv.FormatFloat(amount, 'f', 6, 64)
}

// FormatPercent renders a percentage with trailing zeros trimmed.
func FormatPercent(percent float64) string {
	if percent == 0 {
		return "0%"
	}
	if percent < 0.0001 {
		return formatExponential(percent) + "%"
	}
	text := strconv.FormatFloat(percent, 'f', 6, 64)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")
	return text + "%"
}

// formatExponential matches JS Number.toExponential(4): no leading zero in
// the exponent.
func formatExponential(v float64) string {
	text := strconv.FormatFloat(v, 'e', 4, 64)
	text = strings.Replace(text, "e-0", "e-", 1)
	text = strings.Replace(text, "e+0", "e+", 1)
	return text
}
