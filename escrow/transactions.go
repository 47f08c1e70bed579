package escrow

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/model"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

// GetTransactions gets the journal of user with filtering, newest first
func (s *Service) GetTransactions(ctx context.Context, user solana.PublicKey, req *model.LogRequest) (*model.LogResponse, error) {
	if user.IsZero() {
		return nil, errs.ErrInvalidIdentity
	}
	if req == nil {
		req = &model.LogRequest{}
	}

	entries, err := s.runtime.Store().Journal(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	var minAmount, maxAmount *decimal.Decimal
	if req.MinAmount != nil {
		d, err := decimal.NewFromString(*req.MinAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid minAmount: %w", err)
		}
		minAmount = &d
	}
	if req.MaxAmount != nil {
		d, err := decimal.NewFromString(*req.MaxAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid maxAmount: %w", err)
		}
		maxAmount = &d
	}

	resultTransactions := make([]model.Transaction, 0, len(entries))
	amounts := make([]decimal.Decimal, 0, len(entries))
	for _, entry := range entries {
		// Filter by type
		if req.Type != nil && string(*req.Type) != string(entry.Type) {
			continue
		}

		// Filter by txId
		if req.TxID != nil && *req.TxID != entry.ID {
			continue
		}

		// Filter by currency
		if req.Currency != nil && *req.Currency != entry.Currency {
			continue
		}

		// Filter by dates
		if req.From != nil && entry.Timestamp.Before(*req.From) {
			continue
		}
		if req.To != nil && entry.Timestamp.After(*req.To) {
			continue
		}

		// Filter by amount in display units, exact decimal comparison
		amount := entryAmount(entry)
		if minAmount != nil && amount.LessThan(*minAmount) {
			continue
		}
		if maxAmount != nil && amount.GreaterThan(*maxAmount) {
			continue
		}

		resultTransactions = append(resultTransactions, toTransaction(entry))
		amounts = append(amounts, amount)
	}

	// Totals per currency over the filtered set
	totals := make(map[string]*[3]decimal.Decimal)
	for i, tx := range resultTransactions {
		t, ok := totals[tx.Currency]
		if !ok {
			t = &[3]decimal.Decimal{}
			totals[tx.Currency] = t
		}
		switch tx.Type {
		case model.TransactionTypeDeposit:
			t[0] = t[0].Add(amounts[i])
		case model.TransactionTypeWithdraw:
			t[1] = t[1].Add(amounts[i])
		case model.TransactionTypeMint:
			t[2] = t[2].Add(amounts[i])
		}
	}

	// Sort by time DESC (newest first)
	sort.SliceStable(resultTransactions, func(i, j int) bool {
		return resultTransactions[i].Timestamp.After(resultTransactions[j].Timestamp)
	})

	resp := &model.LogResponse{
		User:         user.String(),
		Totals:       make(map[string]model.CurrencyTotals, len(totals)),
		Transactions: resultTransactions,
	}
	for currency, t := range totals {
		resp.Totals[currency] = model.CurrencyTotals{
			Deposited: t[0].String(),
			Withdrawn: t[1].String(),
			Minted:    t[2].String(),
		}
	}
	return resp, nil
}

func entryAmount(entry store.Entry) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(entry.Amount), -int32(entry.Decimals))
}

func toTransaction(entry store.Entry) model.Transaction {
	tx := model.Transaction{
		Type:      model.TransactionType(entry.Type),
		TxID:      entry.ID,
		User:      entry.User.String(),
		Amount:    common.FormatAmount(entry.Amount, int(entry.Decimals)),
		BaseUnits: strconv.FormatUint(entry.Amount, 10),
		Currency:  entry.Currency,
		Timestamp: entry.Timestamp,
	}
	if !entry.Custody.IsZero() {
		tx.Custody = entry.Custody.String()
	}
	if !entry.Mint.IsZero() {
		tx.Mint = entry.Mint.String()
	}
	return tx
}
