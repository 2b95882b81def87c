package vault

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawRequestRoundTrip(t *testing.T) {
	original := &WithdrawRequestAccount{
		Discriminator: [8]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4},
		User:          solana.NewWallet().PublicKey(),
		Bump:          254,
		Status:        StatusReady,
		MemeAmt:       1_500_000_000,
		Count:         42,
	}

	data, err := EncodeWithdrawRequest(original)
	require.NoError(t, err)
	require.Len(t, data, WithdrawRequestAccountSize)

	decoded, err := DecodeWithdrawRequest(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestWithdrawRequestFieldOffsets(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	req := &WithdrawRequestAccount{
		User:    user,
		Bump:    7,
		Status:  StatusPending,
		MemeAmt: 123456789,
		Count:   3,
	}

	data, err := EncodeWithdrawRequest(req)
	require.NoError(t, err)

	// The listing filter matches the user at offset 8; field offsets are
	// part of the external contract.
	assert.Equal(t, user.Bytes(), data[8:40])
	assert.Equal(t, byte(7), data[40])
	assert.Equal(t, byte(StatusPending), data[41])
	assert.Equal(t, uint64(123456789), binary.LittleEndian.Uint64(data[42:50]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(data[50:58]))
}

func TestDecodeWithdrawRequestRejectsWrongSize(t *testing.T) {
	_, err := DecodeWithdrawRequest(make([]byte, 57))
	assert.True(t, errors.Is(err, ErrDecodeFailure))

	_, err = DecodeWithdrawRequest(make([]byte, 59))
	assert.True(t, errors.Is(err, ErrDecodeFailure))

	_, err = DecodeWithdrawRequest(nil)
	assert.True(t, errors.Is(err, ErrDecodeFailure))
}

func TestDecodePortfolio(t *testing.T) {
	user := solana.NewWallet().PublicKey()

	data := make([]byte, 0, 48)
	data = append(data, make([]byte, 8)...) // discriminator
	data = append(data, user.Bytes()...)
	counter := make([]byte, 8)
	binary.LittleEndian.PutUint64(counter, 5)
	data = append(data, counter...)

	portfolio, err := DecodePortfolio(data)
	require.NoError(t, err)
	assert.Equal(t, user, portfolio.User)
	assert.Equal(t, uint64(5), portfolio.Counter)
}

func TestDecodePortfolioShortBuffer(t *testing.T) {
	_, err := DecodePortfolio(make([]byte, 12))
	assert.True(t, errors.Is(err, ErrDecodeFailure))
}
