package pool

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"

	"memepool/internal/vault"
)

func TestReserveInfoMissingAccountIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":null}}`)
	}))
	defer server.Close()

	a := NewAccountant(rpc.New(server.URL), solana.PublicKey{}, nil)
	_, err := a.reserveInfo(context.Background(), solana.NewWallet().PublicKey(), "SOL")
	assert.True(t, errors.Is(err, vault.ErrAccountNotFound))
	assert.False(t, errors.Is(err, vault.ErrTransportFailure))
}

func TestReserveInfoTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer server.Close()

	a := NewAccountant(rpc.New(server.URL), solana.PublicKey{}, nil)
	_, err := a.reserveInfo(context.Background(), solana.NewWallet().PublicKey(), "SOL")
	assert.True(t, errors.Is(err, vault.ErrTransportFailure))
}
