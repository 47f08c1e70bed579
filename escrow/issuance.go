package escrow

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/issuance"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

// MintResult is the outcome of MintToken.
type MintResult struct {
	Class        *issuance.TokenClass
	Destination  solana.PublicKey
	TokenAccount solana.PublicKey
	Amount       uint64
}

// CreateTokenClass creates the program's token class. It can only succeed once.
func (s *Service) CreateTokenClass(ctx context.Context, md issuance.Metadata) (class *issuance.TokenClass, err error) {
	start := time.Now()
	defer func() { s.observe("create_token_class", start, err, zap.String("symbol", md.Symbol)) }()

	err = s.runtime.Execute(ctx, func(tx *runtime.Tx) error {
		created, err := s.issuer.CreateTokenClass(tx, md)
		class = created
		return err
	})
	if err != nil {
		return nil, err
	}
	return class, nil
}

// TokenClass returns the program's token class, or ErrUnknownTokenClass before it is created.
func (s *Service) TokenClass(ctx context.Context) (*issuance.TokenClass, error) {
	mint, _, err := s.issuer.MintAddress()
	if err != nil {
		return nil, err
	}
	var class *issuance.TokenClass
	err = s.runtime.View(ctx, func(tx *runtime.Tx) error {
		loaded, err := s.issuer.LoadTokenClass(tx, mint)
		class = loaded
		return err
	})
	return class, err
}

// MintToken mints amount new units of mint to destination under the issuance capability.
// Destination must be a wallet; custody addresses only receive tokens by deposit.
func (s *Service) MintToken(ctx context.Context, mint solana.PublicKey, amount uint64, destination solana.PublicKey) (res *MintResult, err error) {
	start := time.Now()
	defer func() { s.observe("mint_token", start, err, zap.Stringer("destination", destination)) }()

	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	if destination.IsZero() {
		return nil, errs.ErrInvalidIdentity
	}
	if err := refuseCustody(destination); err != nil {
		return nil, err
	}
	tokenAccount, err := transfer.TokenAddress(destination, mint)
	if err != nil {
		return nil, err
	}

	err = s.runtime.Execute(ctx, func(tx *runtime.Tx) error {
		if err := s.issuer.Mint(tx, mint, amount, destination); err != nil {
			return err
		}
		class, err := s.issuer.LoadTokenClass(tx, mint)
		if err != nil {
			return err
		}
		tx.Record(store.Entry{
			Type:     store.EntryMint,
			User:     destination,
			Custody:  tokenAccount,
			Mint:     mint,
			Amount:   amount,
			Decimals: class.Decimals,
			Currency: class.Symbol,
		})
		res = &MintResult{Class: class, Destination: destination, TokenAccount: tokenAccount, Amount: amount}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// TokenHoldings returns what the token account of owner holds, zero before it exists.
func (s *Service) TokenHoldings(ctx context.Context, owner, mint solana.PublicKey) (uint64, error) {
	var amount uint64
	err := s.runtime.View(ctx, func(tx *runtime.Tx) error {
		held, err := transfer.NewToken(mint).Held(tx, owner)
		amount = held
		return err
	})
	return amount, err
}
