package pool

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"memepool/internal/vault"
)

func TestSharePercent(t *testing.T) {
	// 50 of 1000 is exactly 5 percent.
	assert.Equal(t, 5.0, SharePercent(50, 1000))
	assert.Equal(t, 100.0, SharePercent(1000, 1000))
	assert.Equal(t, 0.0, SharePercent(0, 1000))
}

func TestSharePercentZeroSupply(t *testing.T) {
	// An empty pool has no owners; never a division by zero.
	assert.Equal(t, 0.0, SharePercent(0, 0))
	assert.Equal(t, 0.0, SharePercent(50, 0))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "1.000000", FormatAmount(1))
	assert.Equal(t, "2.000000", FormatAmount(2))
	assert.Equal(t, "0.500000", FormatAmount(0.5))
	assert.Equal(t, "1234.567890", FormatAmount(1234.56789))

	// Below the threshold amounts switch to scientific notation.
	assert.Equal(t, "5.0000e-5", FormatAmount(0.00005))
	assert.Equal(t, "1.2345e-7", FormatAmount(0.00000012345))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0%", FormatPercent(0))
	assert.Equal(t, "5%", FormatPercent(5))
	assert.Equal(t, "5.5%", FormatPercent(5.5))
	assert.Equal(t, "0.25%", FormatPercent(0.25))
	assert.Equal(t, "33.333333%", FormatPercent(33.333333))
	assert.Equal(t, "5.0000e-5%", FormatPercent(0.00005))
}

func TestReserveDisplayScaling(t *testing.T) {
	// 1e9 raw at 9 decimals and 2e6 raw at 6 decimals are both whole units.
	assert.Equal(t, "1.000000", FormatAmount(vault.FromBaseUnits(1_000_000_000, 9)))
	assert.Equal(t, "2.000000", FormatAmount(vault.FromBaseUnits(2_000_000, 6)))
}

func TestBuildReport(t *testing.T) {
	info := &Info{
		Name:    "SOL-MEME",
		Address: solana.NewWallet().PublicKey(),
		Token1: TokenInfo{
			Mint:     solana.NewWallet().PublicKey(),
			Symbol:   "SOL",
			Amount:   1_000_000_000,
			Decimals: 9,
		},
		Token2: TokenInfo{
			Mint:     solana.NewWallet().PublicKey(),
			Symbol:   "MEME",
			Amount:   2_000_000,
			Decimals: 6,
		},
		LpMint:         solana.NewWallet().PublicKey(),
		LpSupply:       1000,
		LpDecimals:     0,
		VaultLpBalance: 50,
	}

	report := BuildReport(info)
	assert.Equal(t, "SOL-MEME", report.Name)
	assert.Equal(t, "1.000000", report.Token1.Formatted)
	assert.Equal(t, "2.000000", report.Token2.Formatted)
	assert.Equal(t, 5.0, report.SharePercent)
	assert.Equal(t, "5%", report.SharePercentText)
	assert.Equal(t, 50.0, report.VaultLpBalance)
	assert.Equal(t, 1000.0, report.LpSupply)
}

func TestBuildReportEmptyPool(t *testing.T) {
	report := BuildReport(&Info{Name: "empty"})
	assert.Equal(t, 0.0, report.SharePercent)
	assert.Equal(t, "0%", report.SharePercentText)
	assert.Equal(t, "0", report.Token1.Formatted)
}
