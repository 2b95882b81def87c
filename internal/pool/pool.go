package pool

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"memepool/internal/vault"
)

// TokenInfo describes one reserve of a pool.
type TokenInfo struct {
	Mint     solana.PublicKey
	Symbol   string
	Amount   uint64
	Decimals uint8
}

// Info is a point-in-time snapshot of a pool plus the vault's stake in it.
// It is recomputed on every read and never cached.
type Info struct {
	Name           string
	Address        solana.PublicKey
	Token1         TokenInfo
	Token2         TokenInfo
	LpMint         solana.PublicKey
	LpSupply       uint64
	LpDecimals     uint8
	VaultLpBalance uint64
}

// Accountant fetches pool snapshots and computes the vault's share.
type Accountant struct {
	rpc   *rpc.Client
	vault solana.PublicKey
	pools []Pool
}

// NewAccountant creates an accountant over a fixed pool registry. vaultAddr
// is the vault PDA whose LP holdings are measured.
func NewAccountant(rpcClient *rpc.Client, vaultAddr solana.PublicKey, pools []Pool) *Accountant {
	return &Accountant{
		rpc:   rpcClient,
		vault: vaultAddr,
		pools: pools,
	}
}

// Pools returns the configured pool registry.
func (a *Accountant) Pools() []Pool {
	return a.pools
}

// Find returns the configured pool with the given name.
func (a *Accountant) Find(name string) (Pool, bool) {
	for _, p := range a.pools {
		if p.Name == name {
			return p, true
		}
	}
	return Pool{}, false
}

// Snapshot fetches the live reserves, LP supply and the vault's LP balance
// for one pool.
func (a *Accountant) Snapshot(ctx context.Context, p Pool) (*Info, error) {
	token1, err := a.reserveInfo(ctx, p.Token1Account, p.Token1Symbol)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %v", p.Name, err)
	}
	token2, err := a.reserveInfo(ctx, p.Token2Account, p.Token2Symbol)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %v", p.Name, err)
	}

	supply, err := a.rpc.GetTokenSupply(ctx, p.LpMint, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("%w: lp supply of %s: %v", vault.ErrTransportFailure, p.Name, err)
	}
	lpSupply, err := vault.ParseRawAmount(supply.Value.Amount)
	if err != nil {
		return nil, err
	}

	vaultLp, err := a.vaultLpBalance(ctx, p.LpMint)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %v", p.Name, err)
	}

	return &Info{
		Name:           p.Name,
		Address:        p.Address,
		Token1:         token1,
		Token2:         token2,
		LpMint:         p.LpMint,
		LpSupply:       lpSupply,
		LpDecimals:     supply.Value.Decimals,
		VaultLpBalance: vaultLp,
	}, nil
}

// reserveInfo reads a reserve token account and its mint's decimal scale.
// Pool decimals are not fixed; they are read per pool from chain metadata.
func (a *Accountant) reserveInfo(ctx context.Context, account solana.PublicKey, symbol string) (TokenInfo, error) {
	out, err := a.rpc.GetAccountInfo(ctx, account)
	if err != nil {
		// A configured reserve that does not exist is a registry problem,
		// not a network one.
		if vault.IsNotFound(err) {
			return TokenInfo{}, fmt.Errorf("%w: reserve account %s", vault.ErrAccountNotFound, account)
		}
		return TokenInfo{}, fmt.Errorf("%w: reserve account %s: %v", vault.ErrTransportFailure, account, err)
	}

	var reserve token.Account
	if err := reserve.UnmarshalWithDecoder(bin.NewBinDecoder(out.Value.Data.GetBinary())); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: reserve account %s: %v", vault.ErrDecodeFailure, account, err)
	}

	mintOut, err := a.rpc.GetAccountInfo(ctx, reserve.Mint)
	if err != nil {
		if vault.IsNotFound(err) {
			return TokenInfo{}, fmt.Errorf("%w: mint %s", vault.ErrAccountNotFound, reserve.Mint)
		}
		return TokenInfo{}, fmt.Errorf("%w: mint %s: %v", vault.ErrTransportFailure, reserve.Mint, err)
	}
	var mint token.Mint
	if err := mint.UnmarshalWithDecoder(bin.NewBinDecoder(mintOut.Value.Data.GetBinary())); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: mint %s: %v", vault.ErrDecodeFailure, reserve.Mint, err)
	}

	return TokenInfo{
		Mint:     reserve.Mint,
		Symbol:   symbol,
		Amount:   reserve.Amount,
		Decimals: mint.Decimals,
	}, nil
}

// vaultLpBalance reads the vault's associated LP token account. An absent
// account means the vault holds none of this pool's LP tokens.
func (a *Accountant) vaultLpBalance(ctx context.Context, lpMint solana.PublicKey) (uint64, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(a.vault, lpMint)
	if err != nil {
		return 0, fmt.Errorf("failed to derive vault lp account: %v", err)
	}

	out, err := a.rpc.GetTokenAccountBalance(ctx, ata, rpc.CommitmentFinalized)
	if err != nil {
		if vault.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: vault lp balance: %v", vault.ErrTransportFailure, err)
	}
	return vault.ParseRawAmount(out.Value.Amount)
}
