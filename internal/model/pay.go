package model

// DepositRequest represents request for POST /escrow/deposit and /escrow/token/deposit
type DepositRequest struct {
	User   string `json:"user"`
	Mint   string `json:"mint,omitempty"` // token deposits only
	Amount string `json:"amount"`         // base units
}

// WithdrawRequest represents request for POST /escrow/withdraw and /escrow/token/withdraw
type WithdrawRequest struct {
	User string `json:"user"`
	Mint string `json:"mint,omitempty"` // token withdrawals only
}

// TransferResponse represents response for deposit and withdraw endpoints
type TransferResponse struct {
	User     string `json:"user"`
	Custody  string `json:"custody"`
	Amount   string `json:"amount"`  // moved, base units
	Balance  string `json:"balance"` // owed after the operation, base units
	Currency string `json:"currency"`
	Decimals uint8  `json:"decimals"`
}

// FaucetRequest represents request for POST /escrow/faucet
type FaucetRequest struct {
	User   string `json:"user"`
	Amount string `json:"amount,omitempty"` // lamports
	SOL    string `json:"sol,omitempty"`    // alternative to amount, e.g. "1.5"
}

// FaucetResponse represents response for POST /escrow/faucet
type FaucetResponse struct {
	User     string `json:"user"`
	Lamports string `json:"lamports"`
	SOL      string `json:"sol"`
}
