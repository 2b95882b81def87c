package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"memepool/internal/database"
	"memepool/internal/model"
	"memepool/internal/notify"
	"memepool/internal/pool"
	"memepool/internal/vault"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
)

// Handler manages HTTP request handling and business logic
type Handler struct {
	db             *database.Database
	vault          *vault.Client
	pools          *pool.Accountant
	notifier       *notify.Notifier
	confirmTimeout time.Duration
}

// NewHandler creates a new Handler instance over the vault client and its
// collaborators.
func NewHandler(db *database.Database, vaultClient *vault.Client, pools *pool.Accountant, notifier *notify.Notifier, confirmTimeout time.Duration) *Handler {
	return &Handler{
		db:             db,
		vault:          vaultClient,
		pools:          pools,
		notifier:       notifier,
		confirmTimeout: confirmTimeout,
	}
}

// GetVaultInfo returns the derived protocol addresses.
func (h *Handler) GetVaultInfo(c *gin.Context) {
	info := model.VaultInfo{
		ProgramID: h.vault.ProgramID().String(),
		Vault:     h.vault.Vault().String(),
		MemeMint:  h.vault.MemeMint().String(),
	}
	if signer, err := h.vault.SignerKey(); err == nil {
		info.Signer = signer.String()
	}
	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    info,
	})
}

// GetBalance returns an address's SOL balance in display units.
func (h *Handler) GetBalance(c *gin.Context) {
	pubKey, ok := h.parsePubKey(c)
	if !ok {
		return
	}

	balance, err := h.vault.Balance(c.Request.Context(), pubKey)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.Response{
			Success: false,
			Error:   fmt.Sprintf("failed to get balance: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data: model.BalanceResponse{
			PubKey:  pubKey.String(),
			Balance: balance,
		},
	})
}

// GetTokenBalance returns an owner's receipt-token balance in display units.
func (h *Handler) GetTokenBalance(c *gin.Context) {
	pubKey, ok := h.parsePubKey(c)
	if !ok {
		return
	}

	balance, err := h.vault.TokenBalance(c.Request.Context(), pubKey)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.Response{
			Success: false,
			Error:   fmt.Sprintf("failed to get token balance: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data: model.BalanceResponse{
			PubKey:  pubKey.String(),
			Balance: balance,
		},
	})
}

// Deposit handles vault deposit requests.
func (h *Handler) Deposit(c *gin.Context) {
	var req model.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	h.submit(c, model.OperationTypeDeposit, req.Amount, nil, func(ctx context.Context) (solana.Signature, error) {
		return h.vault.Deposit(ctx, req.Amount)
	})
}

// RequestWithdraw handles withdraw request creation. The balance guard
// lives here at the boundary, not inside the builder.
func (h *Handler) RequestWithdraw(c *gin.Context) {
	var req model.RequestWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	signer, err := h.vault.SignerKey()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, model.Response{
			Success: false,
			Error:   "signer unavailable",
		})
		return
	}

	balance, err := h.vault.TokenBalance(c.Request.Context(), signer)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.Response{
			Success: false,
			Error:   fmt.Sprintf("failed to check token balance: %v", err),
		})
		return
	}
	if req.Amount > balance {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   fmt.Sprintf("insufficient balance: have %.9f MEME, requested %.9f MEME", balance, req.Amount),
		})
		return
	}

	h.submit(c, model.OperationTypeRequestWithdraw, req.Amount, nil, func(ctx context.Context) (solana.Signature, error) {
		return h.vault.RequestWithdraw(ctx, req.Amount)
	})
}

// FinalizeWithdraw handles withdraw claims. The local readiness check only
// avoids a doomed submission; the program's own check is authoritative.
func (h *Handler) FinalizeWithdraw(c *gin.Context) {
	var req model.FinalizeWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}
	counter := *req.Counter

	signer, err := h.vault.SignerKey()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, model.Response{
			Success: false,
			Error:   "signer unavailable",
		})
		return
	}

	request, err := h.vault.WithdrawRequestByCounter(c.Request.Context(), signer, counter)
	switch {
	case err == nil && !request.Ready():
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   fmt.Sprintf("withdraw request %d is not ready", counter),
		})
		return
	case errors.Is(err, vault.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, model.Response{
			Success: false,
			Error:   fmt.Sprintf("withdraw request %d not found", counter),
		})
		return
	case err != nil:
		// Pre-check unavailable; submit anyway and let the program decide.
		log.Printf("Readiness pre-check failed for request %d: %v", counter, err)
	}

	amount := 0.0
	if request != nil {
		amount = vault.FromBaseUnits(request.MemeAmt, vault.Decimals)
	}

	h.submit(c, model.OperationTypeFinalizeWithdraw, amount, &counter, func(ctx context.Context) (solana.Signature, error) {
		return h.vault.FinalizeWithdraw(ctx, counter)
	})
}

// submit journals a write, runs it under the confirmation timeout and maps
// the outcome. A confirmation timeout is reported as status "unknown",
// distinct from both success and rejection.
func (h *Handler) submit(c *gin.Context, opType model.OperationType, amount float64, counter *uint64, fn func(context.Context) (solana.Signature, error)) {
	signer, err := h.vault.SignerKey()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, model.Response{
			Success: false,
			Error:   "signer unavailable",
		})
		return
	}

	opID, err := h.db.RecordOperation(signer.String(), opType, amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.Response{
			Success: false,
			Error:   "failed to journal operation",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.confirmTimeout)
	defer cancel()

	sig, err := fn(ctx)
	status, code, detail := classifyOutcome(err)

	sigText := ""
	if !sig.IsZero() {
		sigText = sig.String()
	}
	if err := h.db.FinishOperation(opID, sigText, status); err != nil {
		log.Printf("Failed to update operation %d: %v", opID, err)
	}
	h.notifier.OperationOutcome(opType, amount, sigText, status)

	if status == model.OperationStatusFailed {
		c.JSON(code, model.Response{
			Success: false,
			Error:   detail,
		})
		return
	}

	c.JSON(code, model.Response{
		Success: status == model.OperationStatusConfirmed,
		Data: model.TransactionResponse{
			Signature: sigText,
			Status:    status,
			Amount:    amount,
			Counter:   counter,
			Detail:    detail,
		},
	})
}

// classifyOutcome maps a builder error to a journal status, HTTP code and
// user-facing detail.
func classifyOutcome(err error) (string, int, string) {
	switch {
	case err == nil:
		return model.OperationStatusConfirmed, http.StatusOK, ""
	case errors.Is(err, vault.ErrUnknownOutcome):
		return model.OperationStatusUnknown, http.StatusAccepted,
			"transaction outcome unknown: re-query the ledger before retrying"
	case errors.Is(err, vault.ErrSignerUnavailable):
		return model.OperationStatusFailed, http.StatusServiceUnavailable, "signer unavailable"
	case errors.Is(err, vault.ErrLedgerRejection):
		return model.OperationStatusFailed, http.StatusBadRequest, err.Error()
	case errors.Is(err, vault.ErrTransportFailure):
		return model.OperationStatusFailed, http.StatusBadGateway, err.Error()
	default:
		return model.OperationStatusFailed, http.StatusInternalServerError, err.Error()
	}
}

// GetWithdrawRequests lists a user's withdraw requests. This listing backs
// a display table, so a transport failure deliberately degrades to an empty
// list instead of propagating; clients needing strict failure visibility
// read the core directly.
func (h *Handler) GetWithdrawRequests(c *gin.Context) {
	pubKey, ok := h.parsePubKey(c)
	if !ok {
		return
	}

	requests, err := h.vault.WithdrawRequests(c.Request.Context(), pubKey)
	if err != nil {
		log.Printf("Failed to list withdraw requests for %s: %v", pubKey, err)
		requests = nil
	}

	views := make([]model.WithdrawRequestView, 0, len(requests))
	for _, req := range requests {
		status := ""
		switch req.Status {
		case vault.StatusPending:
			status = "pending"
		case vault.StatusReady:
			status = "ready"
		default:
			// Anything else means claimed/closed; not an active request.
			continue
		}
		views = append(views, model.WithdrawRequestView{
			Count:     req.Count,
			Address:   req.Address.String(),
			Status:    status,
			MemeAmt:   vault.FromBaseUnits(req.MemeAmt, vault.Decimals),
			Claimable: req.Ready(),
		})
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    views,
	})
}

// GetPools returns a share report for every configured pool.
func (h *Handler) GetPools(c *gin.Context) {
	reports := make([]pool.Report, 0, len(h.pools.Pools()))
	for _, p := range h.pools.Pools() {
		info, err := h.pools.Snapshot(c.Request.Context(), p)
		if err != nil {
			c.JSON(http.StatusBadGateway, model.Response{
				Success: false,
				Error:   fmt.Sprintf("failed to snapshot pool %s: %v", p.Name, err),
			})
			return
		}
		reports = append(reports, pool.BuildReport(info))
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    reports,
	})
}

// GetPool returns the share report for one pool by name.
func (h *Handler) GetPool(c *gin.Context) {
	name := c.Param("name")
	p, found := h.pools.Find(name)
	if !found {
		c.JSON(http.StatusNotFound, model.Response{
			Success: false,
			Error:   "pool not found",
		})
		return
	}

	info, err := h.pools.Snapshot(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusBadGateway, model.Response{
			Success: false,
			Error:   fmt.Sprintf("failed to snapshot pool %s: %v", name, err),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    pool.BuildReport(info),
	})
}

// GetOperations handles requests for the journaled operation history.
func (h *Handler) GetOperations(c *gin.Context) {
	pubKey, ok := h.parsePubKey(c)
	if !ok {
		return
	}

	page := 1
	pageSize := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if pageSizeStr := c.Query("page_size"); pageSizeStr != "" {
		if ps, err := strconv.Atoi(pageSizeStr); err == nil && ps > 0 && ps <= 100 {
			pageSize = ps
		}
	}

	history, err := h.db.GetOperations(pubKey.String(), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.Response{
			Success: false,
			Error:   fmt.Sprintf("failed to get operations: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, model.Response{
		Success: true,
		Data:    history,
	})
}

func (h *Handler) parsePubKey(c *gin.Context) (solana.PublicKey, bool) {
	raw := c.Param("pub_key")
	if raw == "" {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "public key is required",
		})
		return solana.PublicKey{}, false
	}

	pubKey, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.Response{
			Success: false,
			Error:   "invalid public key",
		})
		return solana.PublicKey{}, false
	}
	return pubKey, true
}
