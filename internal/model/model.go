package model

// Response is the envelope for every API reply.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// OperationType represents the type of operation
type OperationType string

const (
	OperationTypeDeposit          OperationType = "deposit"
	OperationTypeRequestWithdraw  OperationType = "request_withdraw"
	OperationTypeFinalizeWithdraw OperationType = "finalize_withdraw"
)

// Operation statuses. "unknown" marks a submission whose confirmation timed
// out: the transaction may still land and the ledger must be re-queried
// before any retry.
const (
	OperationStatusPending   = "pending"
	OperationStatusConfirmed = "confirmed"
	OperationStatusFailed    = "failed"
	OperationStatusUnknown   = "unknown"
)

// Operation is one journaled write against the vault program.
type Operation struct {
	ID        int64         `json:"id"`
	PubKey    string        `json:"pub_key"`
	Type      OperationType `json:"type"`
	Amount    float64       `json:"amount"`
	Signature string        `json:"signature,omitempty"`
	Status    string        `json:"status"`
	CreatedAt int64         `json:"created_at"`
}

// OperationHistory represents a list of operations with pagination info
type OperationHistory struct {
	Operations []Operation `json:"operations"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}
