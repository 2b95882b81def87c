package vault

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchorDiscriminator(t *testing.T) {
	want := sha256.Sum256([]byte("global:vault_deposit"))
	got := anchorDiscriminator("vault_deposit")
	assert.Equal(t, want[:8], got[:])

	// Distinct instructions get distinct discriminators.
	assert.NotEqual(t, anchorDiscriminator("vault_deposit"), anchorDiscriminator("vault_request_withdraw"))
}

func TestInstructionData(t *testing.T) {
	data := instructionData(ixVaultDeposit, 1_500_000_000)
	require.Len(t, data, 16)

	disc := anchorDiscriminator(ixVaultDeposit)
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, uint64(1_500_000_000), binary.LittleEndian.Uint64(data[8:16]))

	// No-arg instruction is discriminator only.
	assert.Len(t, instructionData(ixVaultFinalizeWithdraw), 8)
}

func TestDepositAccountOrder(t *testing.T) {
	client := NewClient(nil, nil, testProgramID, nil)
	depositer := solana.NewWallet().PublicKey()

	accounts, err := client.depositAccounts(depositer)
	require.NoError(t, err)

	metas := accounts.metas()
	require.Len(t, metas, 9)
	assert.Equal(t, depositer, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)
	assert.Equal(t, client.Vault(), metas[1].PublicKey)
	assert.Equal(t, client.MemeMint(), metas[2].PublicKey)
	assert.Equal(t, solana.SolMint, metas[4].PublicKey)
	assert.Equal(t, solana.SystemProgramID, metas[6].PublicKey)
	assert.Equal(t, solana.TokenProgramID, metas[7].PublicKey)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, metas[8].PublicKey)

	depositerMemeAta, _, err := solana.FindAssociatedTokenAddress(depositer, client.MemeMint())
	require.NoError(t, err)
	assert.Equal(t, depositerMemeAta, metas[3].PublicKey)
}

func TestRequestWithdrawAccountOrder(t *testing.T) {
	client := NewClient(nil, nil, testProgramID, nil)
	withdrawer := solana.NewWallet().PublicKey()

	accounts, err := client.requestWithdrawAccounts(withdrawer, 3)
	require.NoError(t, err)

	metas := accounts.metas()
	require.Len(t, metas, 10)
	assert.Equal(t, withdrawer, metas[0].PublicKey)
	assert.True(t, metas[0].IsSigner)

	portfolio := mustFind(PortfolioAddress(withdrawer, testProgramID))
	assert.Equal(t, portfolio, metas[4].PublicKey)

	withdrawRequest := mustFind(WithdrawRequestAddress(withdrawer, 3, testProgramID))
	assert.Equal(t, withdrawRequest, metas[5].PublicKey)

	// The escrow is the request account's own meme ATA.
	escrow, _, err := solana.FindAssociatedTokenAddress(withdrawRequest, client.MemeMint())
	require.NoError(t, err)
	assert.Equal(t, escrow, metas[6].PublicKey)
}

func TestFinalizeWithdrawAccountOrder(t *testing.T) {
	client := NewClient(nil, nil, testProgramID, nil)
	withdrawer := solana.NewWallet().PublicKey()

	accounts, err := client.finalizeWithdrawAccounts(withdrawer, 3)
	require.NoError(t, err)

	metas := accounts.metas()
	require.Len(t, metas, 10)
	assert.Equal(t, withdrawer, metas[0].PublicKey)

	withdrawRequest := mustFind(WithdrawRequestAddress(withdrawer, 3, testProgramID))
	assert.Equal(t, withdrawRequest, metas[1].PublicKey)
	assert.Equal(t, client.MemeMint(), metas[2].PublicKey)
	assert.Equal(t, client.Vault(), metas[3].PublicKey)
}

func TestWritesFailFastWithoutSigner(t *testing.T) {
	client := NewClient(nil, nil, testProgramID, nil)
	ctx := context.Background()

	_, err := client.Deposit(ctx, 1.5)
	assert.True(t, errors.Is(err, ErrSignerUnavailable))

	_, err = client.RequestWithdraw(ctx, 1)
	assert.True(t, errors.Is(err, ErrSignerUnavailable))

	_, err = client.FinalizeWithdraw(ctx, 0)
	assert.True(t, errors.Is(err, ErrSignerUnavailable))

	_, err = client.SignerKey()
	assert.True(t, errors.Is(err, ErrSignerUnavailable))
}

func TestKeyedLocksSerializePerKey(t *testing.T) {
	locks := newKeyedLocks()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("user-a")
			defer unlock()

			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight)
}
