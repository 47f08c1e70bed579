package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType transaction type
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
	TransactionTypeMint     TransactionType = "MINT"
)

// Transaction represents one journal entry of a user
type Transaction struct {
	Type      TransactionType `json:"type"`
	TxID      string          `json:"txId"`
	User      string          `json:"user"`
	Custody   string          `json:"custody,omitempty"`
	Mint      string          `json:"mint,omitempty"`
	Amount    string          `json:"amount"`    // with decimal point
	BaseUnits string          `json:"baseUnits"` // integer amount
	Currency  string          `json:"currency"`  // "SOL" or the token symbol
	Timestamp time.Time       `json:"timestamp"`
}

// CurrencyTotals sums the listed transactions of one currency
type CurrencyTotals struct {
	Deposited string `json:"deposited"`
	Withdrawn string `json:"withdrawn"`
	Minted    string `json:"minted"`
}

// LogResponse represents response for GET /escrow/transactions
type LogResponse struct {
	User         string                    `json:"user"`
	Totals       map[string]CurrencyTotals `json:"totals"`
	Transactions []Transaction             `json:"transactions"`
}

// LogRequest represents request parameters for GET /escrow/transactions
type LogRequest struct {
	Type      *TransactionType `form:"type"`
	TxID      *string          `form:"txId"`
	From      *time.Time       `form:"from"`
	To        *time.Time       `form:"to"`
	MinAmount *string          `form:"minAmount"`
	MaxAmount *string          `form:"maxAmount"`
	Currency  *string          `form:"currency"` // "SOL" or the token symbol
}

// Validate validates LogRequest filter parameters.
func (r *LogRequest) Validate() error {
	if r.Type != nil {
		switch *r.Type {
		case TransactionTypeDeposit, TransactionTypeWithdraw, TransactionTypeMint:
		default:
			return fmt.Errorf("type must be DEPOSIT, WITHDRAW or MINT")
		}
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return fmt.Errorf("to date must be after or equal to from date")
	}
	var minAmount, maxAmount decimal.Decimal
	var err error
	if r.MinAmount != nil {
		if minAmount, err = decimal.NewFromString(*r.MinAmount); err != nil {
			return fmt.Errorf("invalid minAmount: %w", err)
		}
	}
	if r.MaxAmount != nil {
		if maxAmount, err = decimal.NewFromString(*r.MaxAmount); err != nil {
			return fmt.Errorf("invalid maxAmount: %w", err)
		}
	}
	if r.MinAmount != nil && r.MaxAmount != nil && minAmount.GreaterThan(maxAmount) {
		return fmt.Errorf("minAmount must be less than or equal to maxAmount")
	}
	return nil
}
