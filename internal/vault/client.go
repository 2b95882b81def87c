package vault

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// Client bundles the read/write transport and the optional signer for the
// vault program. It is constructed once by the application and passed into
// every operation; there is no ambient session state.
type Client struct {
	rpc       *rpc.Client
	ws        *ws.Client
	programID solana.PublicKey
	signer    *solana.PrivateKey

	vault    solana.PublicKey
	memeMint solana.PublicKey

	withdrawLocks *keyedLocks
}

// NewClient creates a vault client. The signer may be nil, in which case the
// client is read-only and every write fails with ErrSignerUnavailable.
func NewClient(rpcClient *rpc.Client, wsClient *ws.Client, programID solana.PublicKey, signer *solana.PrivateKey) *Client {
	return &Client{
		rpc:           rpcClient,
		ws:            wsClient,
		programID:     programID,
		signer:        signer,
		vault:         mustFind(VaultAddress(programID)),
		memeMint:      mustFind(MemeMintAddress(programID)),
		withdrawLocks: newKeyedLocks(),
	}
}

// ProgramID returns the vault program id.
func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// Vault returns the singleton vault PDA.
func (c *Client) Vault() solana.PublicKey {
	return c.vault
}

// MemeMint returns the receipt-token mint PDA.
func (c *Client) MemeMint() solana.PublicKey {
	return c.memeMint
}

// SignerKey returns the signer's public key, or an error when the client is
// read-only.
func (c *Client) SignerKey() (solana.PublicKey, error) {
	if c.signer == nil {
		return solana.PublicKey{}, ErrSignerUnavailable
	}
	return c.signer.PublicKey(), nil
}

// Balance returns an address's SOL balance in display units.
func (c *Client) Balance(ctx context.Context, addr solana.PublicKey) (float64, error) {
	out, err := c.rpc.GetBalance(ctx, addr, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	return FromBaseUnits(out.Value, Decimals), nil
}

// TokenBalance returns the owner's receipt-token balance in display units.
// A missing associated token account means the owner never held the token
// and reads as zero.
func (c *Client) TokenBalance(ctx context.Context, owner solana.PublicKey) (float64, error) {
	ata, err := associatedTokenAddress(owner, c.memeMint)
	if err != nil {
		return 0, err
	}
	out, err := c.rpc.GetTokenAccountBalance(ctx, ata, rpc.CommitmentFinalized)
	if err != nil {
		if IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	raw, err := ParseRawAmount(out.Value.Amount)
	if err != nil {
		return 0, err
	}
	return FromBaseUnits(raw, int32(out.Value.Decimals)), nil
}
