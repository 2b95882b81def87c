package vault

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PDA seed constants, fixed by the on-chain program.
const (
	SeedVault           = "vault"
	SeedMeme            = "meme"
	SeedPortfolio       = "portfolio"
	SeedWithdrawRequest = "withdraw_request"
)

// VaultAddress derives the singleton vault PDA.
func VaultAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedVault)}, programID)
}

// MemeMintAddress derives the receipt-token mint PDA.
func MemeMintAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedMeme)}, programID)
}

// PortfolioAddress derives the per-user portfolio PDA.
func PortfolioAddress(user, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(SeedPortfolio), user.Bytes()}, programID)
}

// WithdrawRequestAddress derives the per-(user, counter) withdraw request PDA.
// The counter is encoded as 8 little-endian bytes, matching the program's seeds.
func WithdrawRequestAddress(user solana.PublicKey, counter uint64, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(SeedWithdrawRequest),
		user.Bytes(),
		counterSeed(counter),
	}, programID)
}

func counterSeed(counter uint64) []byte {
	seed := make([]byte, 8)
	binary.LittleEndian.PutUint64(seed, counter)
	return seed
}

// mustFind panics on a failed derivation. No bump existing in the search
// space is a broken program id, not a runtime condition.
func mustFind(addr solana.PublicKey, _ uint8, err error) solana.PublicKey {
	if err != nil {
		panic(fmt.Sprintf("pda derivation failed: %v", err))
	}
	return addr
}

// associatedTokenAddress derives the associated token account for (owner, mint).
func associatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %v", err)
	}
	return ata, nil
}
