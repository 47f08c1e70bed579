package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/ledger"
	"github.com/AlexZinkM/escrow-ledger/internal/metrics"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

// asset is what an escrow kind moves, resolved inside the transaction.
type asset struct {
	adapter  transfer.Adapter
	mint     solana.PublicKey // zero for native value
	currency string
	decimals uint8
}

// escrowKind binds a purpose and record slot to the asset it moves.
type escrowKind struct {
	kind    Kind
	purpose derive.Purpose
	slot    ledger.Slot
	resolve func(tx *runtime.Tx) (asset, error)
}

// Transfer is the outcome of a deposit or withdrawal.
type Transfer struct {
	User     solana.PublicKey
	Custody  solana.PublicKey
	Amount   uint64
	Balance  uint64
	Currency string
	Decimals uint8
}

func (s *Service) nativeKind() escrowKind {
	return escrowKind{
		kind:    KindNative,
		purpose: derive.PurposeNativeEscrow,
		slot:    ledger.SlotNative,
		resolve: func(*runtime.Tx) (asset, error) {
			return asset{adapter: s.native, currency: currencySOL, decimals: solDecimals}, nil
		},
	}
}

func (s *Service) tokenKind(mint solana.PublicKey) escrowKind {
	return escrowKind{
		kind:    KindToken,
		purpose: derive.PurposeTokenEscrow,
		slot:    ledger.SlotToken,
		resolve: func(tx *runtime.Tx) (asset, error) {
			return s.tokenAsset(tx, mint)
		},
	}
}

// tokenAsset accepts only the token class issued by this program.
func (s *Service) tokenAsset(tx *runtime.Tx, mint solana.PublicKey) (asset, error) {
	expected, _, err := s.issuer.MintAddress()
	if err != nil {
		return asset{}, err
	}
	if !mint.Equals(expected) {
		return asset{}, fmt.Errorf("%w: %s", errs.ErrUnknownTokenClass, mint)
	}
	class, err := s.issuer.LoadTokenClass(tx, mint)
	if err != nil {
		return asset{}, err
	}
	return asset{
		adapter:  transfer.NewToken(mint),
		mint:     mint,
		currency: class.Symbol,
		decimals: class.Decimals,
	}, nil
}

// deposit: derive, ensure the record, cache the proof index, move value in, credit.
func (s *Service) deposit(ctx context.Context, k escrowKind, user solana.PublicKey, amount uint64) (*Transfer, error) {
	if amount == 0 {
		return nil, errs.ErrInvalidAmount
	}
	vault, index, err := s.deriver.Derive(k.purpose, user)
	if err != nil {
		return nil, err
	}

	var out *Transfer
	err = s.runtime.Execute(ctx, func(tx *runtime.Tx) error {
		a, err := k.resolve(tx)
		if err != nil {
			return err
		}
		rec, err := s.ledger.EnsureRecord(tx, vault)
		if err != nil {
			return err
		}
		if err := rec.CacheProofIndex(k.slot, index); err != nil {
			return err
		}
		if err := a.adapter.Deposit(tx, user, vault, amount); err != nil {
			return err
		}
		if err := rec.Credit(amount); err != nil {
			return err
		}
		if err := s.ledger.Save(tx, vault, rec); err != nil {
			return err
		}

		tx.Record(store.Entry{
			Type:     store.EntryDeposit,
			User:     user,
			Custody:  vault,
			Mint:     a.mint,
			Amount:   amount,
			Decimals: a.decimals,
			Currency: a.currency,
		})
		out = &Transfer{User: user, Custody: vault, Amount: amount, Balance: rec.Balance, Currency: a.currency, Decimals: a.decimals}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMoved("deposit", out.Currency, amount)
	return out, nil
}

// withdraw: locate the record by re-derivation, check the cached index against the fresh one,
// debit everything, and move it out under the capability built from the cached index.
func (s *Service) withdraw(ctx context.Context, k escrowKind, user solana.PublicKey) (*Transfer, error) {
	vault, index, err := s.deriver.Derive(k.purpose, user)
	if err != nil {
		return nil, err
	}

	var out *Transfer
	err = s.runtime.Execute(ctx, func(tx *runtime.Tx) error {
		if !tx.IsSigner(user) {
			return fmt.Errorf("%w: %s", errs.ErrMissingSignature, user)
		}
		a, err := k.resolve(tx)
		if err != nil {
			return err
		}
		rec, err := s.ledger.Load(tx, vault)
		if errors.Is(err, errs.ErrRecordNotFound) {
			return errs.ErrInsufficientBalance
		}
		if err != nil {
			return err
		}
		amount, err := rec.DebitAll()
		if err != nil {
			return err
		}

		cached, ok := rec.ProofIndex(k.slot)
		if !ok {
			return fmt.Errorf("%w: funded %s record %s has no cached proof index", errs.ErrDerivationDrift, k.slot, vault)
		}
		if cached != index {
			return fmt.Errorf("%w: %s record %s cached %d, derived %d", errs.ErrDerivationDrift, k.slot, vault, cached, index)
		}
		capability := s.authority.Authorize(k.purpose, user, cached)

		if err := a.adapter.Withdraw(tx, vault, user, amount, capability); err != nil {
			return err
		}
		if err := s.ledger.Save(tx, vault, rec); err != nil {
			return err
		}

		tx.Record(store.Entry{
			Type:     store.EntryWithdraw,
			User:     user,
			Custody:  vault,
			Mint:     a.mint,
			Amount:   amount,
			Decimals: a.decimals,
			Currency: a.currency,
		})
		out = &Transfer{User: user, Custody: vault, Amount: amount, Currency: a.currency, Decimals: a.decimals}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.RecordMoved("withdraw", out.Currency, out.Amount)
	return out, nil
}

// Deposit moves amount lamports from user into the native custody address of user.
// The request context must carry the user's signature (runtime.WithSigners).
func (s *Service) Deposit(ctx context.Context, user solana.PublicKey, amount uint64) (out *Transfer, err error) {
	start := time.Now()
	defer func() { s.observe("deposit", start, err, zap.Stringer("user", user)) }()

	return s.deposit(ctx, s.nativeKind(), user, amount)
}

// Withdraw returns the full native balance owed to user and empties the record.
// Like Deposit it requires the user's signature.
func (s *Service) Withdraw(ctx context.Context, user solana.PublicKey) (out *Transfer, err error) {
	start := time.Now()
	defer func() { s.observe("withdraw", start, err, zap.Stringer("user", user)) }()

	return s.withdraw(ctx, s.nativeKind(), user)
}

// DepositToken moves amount units of mint from the token account of user into token custody.
func (s *Service) DepositToken(ctx context.Context, user, mint solana.PublicKey, amount uint64) (out *Transfer, err error) {
	start := time.Now()
	defer func() { s.observe("deposit_token", start, err, zap.Stringer("user", user)) }()

	return s.deposit(ctx, s.tokenKind(mint), user, amount)
}

// WithdrawToken returns the full token balance owed to user.
func (s *Service) WithdrawToken(ctx context.Context, user, mint solana.PublicKey) (out *Transfer, err error) {
	start := time.Now()
	defer func() { s.observe("withdraw_token", start, err, zap.Stringer("user", user)) }()

	return s.withdraw(ctx, s.tokenKind(mint), user)
}
