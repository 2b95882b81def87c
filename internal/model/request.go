package model

// DepositRequest is the request body for a vault deposit, in display units
// of the base asset.
type DepositRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// RequestWithdrawRequest is the request body for requesting a withdrawal,
// in display units of the receipt token.
type RequestWithdrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// FinalizeWithdrawRequest identifies the withdraw request to claim by its
// counter. A pointer keeps counter 0 bindable.
type FinalizeWithdrawRequest struct {
	Counter *uint64 `json:"counter" binding:"required"`
}

// TransactionResponse reports a submitted write operation.
type TransactionResponse struct {
	Signature string  `json:"signature"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount,omitempty"`
	Counter   *uint64 `json:"counter,omitempty"`
	Detail    string  `json:"detail,omitempty"`
}

// WithdrawRequestView is one decoded withdraw request for display.
type WithdrawRequestView struct {
	Count     uint64  `json:"count"`
	Address   string  `json:"address"`
	Status    string  `json:"status"`
	MemeAmt   float64 `json:"meme_amount"`
	Claimable bool    `json:"claimable"`
}

// VaultInfo exposes the derived protocol addresses.
type VaultInfo struct {
	ProgramID string `json:"program_id"`
	Vault     string `json:"vault"`
	MemeMint  string `json:"meme_mint"`
	Signer    string `json:"signer,omitempty"`
}

// BalanceResponse reports a balance in display units.
type BalanceResponse struct {
	PubKey  string  `json:"pub_key"`
	Balance float64 `json:"balance"`
}
