package vault

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

// Instruction names as declared by the on-chain program.
const (
	ixVaultDeposit          = "vault_deposit"
	ixVaultRequestWithdraw  = "vault_request_withdraw"
	ixVaultFinalizeWithdraw = "vault_finalize_withdraw"
)

// DepositAccounts is the closed account set for vault_deposit, in
// program-defined order.
type DepositAccounts struct {
	Depositer              solana.PublicKey
	Vault                  solana.PublicKey
	MemeMint               solana.PublicKey
	DepositerMemeAta       solana.PublicKey
	WsolMint               solana.PublicKey
	VaultWsolAta           solana.PublicKey
	SystemProgram          solana.PublicKey
	TokenProgram           solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
}

func (a DepositAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(a.Depositer, true, true),
		solana.NewAccountMeta(a.Vault, true, false),
		solana.NewAccountMeta(a.MemeMint, true, false),
		solana.NewAccountMeta(a.DepositerMemeAta, true, false),
		solana.NewAccountMeta(a.WsolMint, false, false),
		solana.NewAccountMeta(a.VaultWsolAta, true, false),
		solana.NewAccountMeta(a.SystemProgram, false, false),
		solana.NewAccountMeta(a.TokenProgram, false, false),
		solana.NewAccountMeta(a.AssociatedTokenProgram, false, false),
	}
}

// RequestWithdrawAccounts is the closed account set for vault_request_withdraw.
type RequestWithdrawAccounts struct {
	Withdrawer             solana.PublicKey
	Vault                  solana.PublicKey
	MemeMint               solana.PublicKey
	WithdrawerMemeAta      solana.PublicKey
	Portfolio              solana.PublicKey
	WithdrawRequest        solana.PublicKey
	WithdrawRequestMemeAta solana.PublicKey
	SystemProgram          solana.PublicKey
	TokenProgram           solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
}

func (a RequestWithdrawAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(a.Withdrawer, true, true),
		solana.NewAccountMeta(a.Vault, true, false),
		solana.NewAccountMeta(a.MemeMint, true, false),
		solana.NewAccountMeta(a.WithdrawerMemeAta, true, false),
		solana.NewAccountMeta(a.Portfolio, true, false),
		solana.NewAccountMeta(a.WithdrawRequest, true, false),
		solana.NewAccountMeta(a.WithdrawRequestMemeAta, true, false),
		solana.NewAccountMeta(a.SystemProgram, false, false),
		solana.NewAccountMeta(a.TokenProgram, false, false),
		solana.NewAccountMeta(a.AssociatedTokenProgram, false, false),
	}
}

// FinalizeWithdrawAccounts is the closed account set for vault_finalize_withdraw.
type FinalizeWithdrawAccounts struct {
	Withdrawer             solana.PublicKey
	WithdrawRequest        solana.PublicKey
	MemeMint               solana.PublicKey
	Vault                  solana.PublicKey
	WithdrawRequestMemeAta solana.PublicKey
	WsolMint               solana.PublicKey
	VaultWsolAta           solana.PublicKey
	SystemProgram          solana.PublicKey
	TokenProgram           solana.PublicKey
	AssociatedTokenProgram solana.PublicKey
}

func (a FinalizeWithdrawAccounts) metas() solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(a.Withdrawer, true, true),
		solana.NewAccountMeta(a.WithdrawRequest, true, false),
		solana.NewAccountMeta(a.MemeMint, true, false),
		solana.NewAccountMeta(a.Vault, true, false),
		solana.NewAccountMeta(a.WithdrawRequestMemeAta, true, false),
		solana.NewAccountMeta(a.WsolMint, false, false),
		solana.NewAccountMeta(a.VaultWsolAta, true, false),
		solana.NewAccountMeta(a.SystemProgram, false, false),
		solana.NewAccountMeta(a.TokenProgram, false, false),
		solana.NewAccountMeta(a.AssociatedTokenProgram, false, false),
	}
}

// Deposit converts the display amount to base units, assembles the
// vault_deposit instruction and submits it. Returns after finality only.
func (c *Client) Deposit(ctx context.Context, amount float64) (solana.Signature, error) {
	depositer, err := c.SignerKey()
	if err != nil {
		return solana.Signature{}, err
	}

	lamports, err := ToBaseUnits(amount, Decimals)
	if err != nil {
		return solana.Signature{}, err
	}

	accounts, err := c.depositAccounts(depositer)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := solana.NewInstruction(c.programID, accounts.metas(), instructionData(ixVaultDeposit, lamports))
	return c.signAndSubmit(ctx, []solana.Instruction{ix}, depositer)
}

func (c *Client) depositAccounts(depositer solana.PublicKey) (DepositAccounts, error) {
	depositerMemeAta, err := associatedTokenAddress(depositer, c.memeMint)
	if err != nil {
		return DepositAccounts{}, err
	}
	vaultWsolAta, err := associatedTokenAddress(c.vault, solana.SolMint)
	if err != nil {
		return DepositAccounts{}, err
	}
	return DepositAccounts{
		Depositer:              depositer,
		Vault:                  c.vault,
		MemeMint:               c.memeMint,
		DepositerMemeAta:       depositerMemeAta,
		WsolMint:               solana.SolMint,
		VaultWsolAta:           vaultWsolAta,
		SystemProgram:          solana.SystemProgramID,
		TokenProgram:           solana.TokenProgramID,
		AssociatedTokenProgram: solana.SPLAssociatedTokenAccountProgramID,
	}, nil
}

// RequestWithdraw burns receipt tokens into a new withdraw request. The
// portfolio counter is read immediately before assembly and the request
// address derived from it, so concurrent calls for one user would collide
// on the same address; calls are serialized per user for that reason.
func (c *Client) RequestWithdraw(ctx context.Context, amount float64) (solana.Signature, error) {
	withdrawer, err := c.SignerKey()
	if err != nil {
		return solana.Signature{}, err
	}

	unlock := c.withdrawLocks.lock(withdrawer.String())
	defer unlock()

	memeAmt, err := ToBaseUnits(amount, Decimals)
	if err != nil {
		return solana.Signature{}, err
	}

	counter, err := c.PortfolioCounter(ctx, withdrawer)
	if err != nil {
		return solana.Signature{}, err
	}

	accounts, err := c.requestWithdrawAccounts(withdrawer, counter)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := solana.NewInstruction(c.programID, accounts.metas(), instructionData(ixVaultRequestWithdraw, memeAmt))
	return c.signAndSubmit(ctx, []solana.Instruction{ix}, withdrawer)
}

func (c *Client) requestWithdrawAccounts(withdrawer solana.PublicKey, counter uint64) (RequestWithdrawAccounts, error) {
	withdrawerMemeAta, err := associatedTokenAddress(withdrawer, c.memeMint)
	if err != nil {
		return RequestWithdrawAccounts{}, err
	}
	portfolio := mustFind(PortfolioAddress(withdrawer, c.programID))
	withdrawRequest := mustFind(WithdrawRequestAddress(withdrawer, counter, c.programID))
	// The request's own meme ATA escrows the burned amount until finalize.
	escrow, err := associatedTokenAddress(withdrawRequest, c.memeMint)
	if err != nil {
		return RequestWithdrawAccounts{}, err
	}
	return RequestWithdrawAccounts{
		Withdrawer:             withdrawer,
		Vault:                  c.vault,
		MemeMint:               c.memeMint,
		WithdrawerMemeAta:      withdrawerMemeAta,
		Portfolio:              portfolio,
		WithdrawRequest:        withdrawRequest,
		WithdrawRequestMemeAta: escrow,
		SystemProgram:          solana.SystemProgramID,
		TokenProgram:           solana.TokenProgramID,
		AssociatedTokenProgram: solana.SPLAssociatedTokenAccountProgramID,
	}, nil
}

// FinalizeWithdraw claims a matured withdraw request identified by its
// counter. The request's identity is already fixed, so the portfolio counter
// is not re-read. The program's own status check is authoritative; callers
// may pre-check locally to avoid a doomed submission.
func (c *Client) FinalizeWithdraw(ctx context.Context, counter uint64) (solana.Signature, error) {
	withdrawer, err := c.SignerKey()
	if err != nil {
		return solana.Signature{}, err
	}

	accounts, err := c.finalizeWithdrawAccounts(withdrawer, counter)
	if err != nil {
		return solana.Signature{}, err
	}

	ix := solana.NewInstruction(c.programID, accounts.metas(), instructionData(ixVaultFinalizeWithdraw))
	return c.signAndSubmit(ctx, []solana.Instruction{ix}, withdrawer)
}

func (c *Client) finalizeWithdrawAccounts(withdrawer solana.PublicKey, counter uint64) (FinalizeWithdrawAccounts, error) {
	withdrawRequest := mustFind(WithdrawRequestAddress(withdrawer, counter, c.programID))
	escrow, err := associatedTokenAddress(withdrawRequest, c.memeMint)
	if err != nil {
		return FinalizeWithdrawAccounts{}, err
	}
	vaultWsolAta, err := associatedTokenAddress(c.vault, solana.SolMint)
	if err != nil {
		return FinalizeWithdrawAccounts{}, err
	}
	return FinalizeWithdrawAccounts{
		Withdrawer:             withdrawer,
		WithdrawRequest:        withdrawRequest,
		MemeMint:               c.memeMint,
		Vault:                  c.vault,
		WithdrawRequestMemeAta: escrow,
		WsolMint:               solana.SolMint,
		VaultWsolAta:           vaultWsolAta,
		SystemProgram:          solana.SystemProgramID,
		TokenProgram:           solana.TokenProgramID,
		AssociatedTokenProgram: solana.SPLAssociatedTokenAccountProgramID,
	}, nil
}

// instructionData builds anchor-style instruction data: an 8-byte
// sha256("global:<name>") discriminator followed by little-endian u64 args.
func instructionData(name string, args ...uint64) []byte {
	data := make([]byte, 0, 8+8*len(args))
	disc := anchorDiscriminator(name)
	data = append(data, disc[:]...)
	for _, arg := range args {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], arg)
		data = append(data, buf[:]...)
	}
	return data
}

func anchorDiscriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("global:" + name))
	var disc [8]byte
	copy(disc[:], sum[:8])
	return disc
}

// signAndSubmit signs, submits and awaits finalized confirmation. A
// submission accepted by the network but not yet finalized is never
// reported as success.
func (c *Client) signAndSubmit(ctx context.Context, instrs []solana.Instruction, payer solana.PublicKey) (solana.Signature, error) {
	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	tx, err := solana.NewTransaction(instrs, recent.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %v", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if c.signer != nil && key.Equals(c.signer.PublicKey()) {
			return c.signer
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %v", ErrSignerUnavailable, err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		// A JSON-RPC error response is the ledger answering (preflight or
		// program rejection); anything else never got an answer at all.
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			return solana.Signature{}, fmt.Errorf("%w: %v", ErrLedgerRejection, err)
		}
		return solana.Signature{}, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	if err := c.awaitFinality(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

// awaitFinality blocks until the signature is finalized. A subscription or
// timeout failure after a successful send is an unknown outcome, distinct
// from a rejection: the transaction may still land.
func (c *Client) awaitFinality(ctx context.Context, sig solana.Signature) error {
	sub, err := c.ws.SignatureSubscribe(sig, rpc.CommitmentFinalized)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnknownOutcome, sig, err)
	}
	defer sub.Unsubscribe()

	res, err := sub.Recv(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnknownOutcome, sig, err)
	}
	if res.Value.Err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerRejection, res.Value.Err)
	}
	return nil
}
