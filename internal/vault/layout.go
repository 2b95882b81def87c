package vault

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Withdraw request lifecycle statuses as stored on chain. A request that is
// neither pending nor ready has been claimed and its account closed; there is
// no third stored value.
const (
	StatusPending uint8 = 0
	StatusReady   uint8 = 1
)

// WithdrawRequestAccountSize is the exact byte size of a withdraw request
// account: 8 discriminator + 32 user + 1 bump + 1 status + 8 memeAmt + 8 count.
const WithdrawRequestAccountSize = 58

// userOffset is where the user field starts inside the account payload,
// right after the anchor discriminator. Used by the memcmp listing filter.
const userOffset = 8

// WithdrawRequestAccount is the on-chain withdraw request record.
type WithdrawRequestAccount struct {
	Discriminator [8]byte
	User          solana.PublicKey
	Bump          uint8
	Status        uint8
	MemeAmt       uint64
	Count         uint64
}

// PortfolioAccount is the on-chain per-user portfolio record. Only the
// counter is consumed client-side.
type PortfolioAccount struct {
	Discriminator [8]byte
	User          solana.PublicKey
	Counter       uint64
}

// DecodeWithdrawRequest decodes the fixed 58-byte layout. A size mismatch or
// short read is a decode failure, never a not-found.
func DecodeWithdrawRequest(data []byte) (*WithdrawRequestAccount, error) {
	if len(data) != WithdrawRequestAccountSize {
		return nil, fmt.Errorf("%w: withdraw request is %d bytes, want %d", ErrDecodeFailure, len(data), WithdrawRequestAccountSize)
	}
	var req WithdrawRequestAccount
	if err := bin.NewBorshDecoder(data).Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return &req, nil
}

// EncodeWithdrawRequest serializes a record back to its 58-byte layout.
func EncodeWithdrawRequest(req *WithdrawRequestAccount) ([]byte, error) {
	var buf bytes.Buffer
	if err := bin.NewBorshEncoder(&buf).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to encode withdraw request: %v", err)
	}
	return buf.Bytes(), nil
}

// DecodePortfolio decodes a portfolio account. Trailing bytes beyond the
// counter are ignored so layout growth on chain does not break reads.
func DecodePortfolio(data []byte) (*PortfolioAccount, error) {
	var portfolio PortfolioAccount
	if err := bin.NewBorshDecoder(data).Decode(&portfolio); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}
	return &portfolio, nil
}
