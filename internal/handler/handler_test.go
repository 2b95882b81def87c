package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memepool/internal/model"
	"memepool/internal/vault"
)

var testProgramID = solana.MustPublicKeyFromBase58("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")

func TestClassifyOutcome(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status string
		code   int
	}{
		{"success", nil, model.OperationStatusConfirmed, http.StatusOK},
		{"unknown outcome", vault.ErrUnknownOutcome, model.OperationStatusUnknown, http.StatusAccepted},
		{"wrapped unknown outcome", fmt.Errorf("await: %w", vault.ErrUnknownOutcome), model.OperationStatusUnknown, http.StatusAccepted},
		{"no signer", vault.ErrSignerUnavailable, model.OperationStatusFailed, http.StatusServiceUnavailable},
		{"rejected by program", vault.ErrLedgerRejection, model.OperationStatusFailed, http.StatusBadRequest},
		{"transport failure", vault.ErrTransportFailure, model.OperationStatusFailed, http.StatusBadGateway},
		{"unclassified", errors.New("boom"), model.OperationStatusFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := classifyOutcome(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestClassifyOutcomeUnknownTellsCallerToRequery(t *testing.T) {
	_, _, detail := classifyOutcome(vault.ErrUnknownOutcome)
	assert.Contains(t, detail, "re-query")
}

func TestFinalizeWithdrawRejectsPendingRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	wallet := solana.NewWallet()

	record, err := vault.EncodeWithdrawRequest(&vault.WithdrawRequestAccount{
		User:    wallet.PublicKey(),
		Status:  vault.StatusPending,
		MemeAmt: 1_000_000_000,
		Count:   0,
	})
	require.NoError(t, err)

	// Any account read resolves to the still-pending request.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":{"data":["%s","base64"],"executable":false,"lamports":1,"owner":"%s","rentEpoch":0}}}`,
			base64.StdEncoding.EncodeToString(record), testProgramID)
	}))
	defer server.Close()

	client := vault.NewClient(rpc.New(server.URL), nil, testProgramID, &wallet.PrivateKey)
	h := NewHandler(nil, client, nil, nil, time.Second)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/vault/finalize-withdraw", strings.NewReader(`{"counter":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.FinalizeWithdraw(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not ready")
}
