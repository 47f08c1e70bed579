// Package transfer moves value into and out of custody addresses.
package transfer

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/custody"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

// Adapter is implemented once per escrow kind.
//
// Deposit moves amount from a signing user into vault. Withdraw moves amount out of vault and
// must be given a capability that re-derives vault exactly. Held reports what vault holds.
type Adapter interface {
	Deposit(tx *runtime.Tx, user, vault solana.PublicKey, amount uint64) error
	Withdraw(tx *runtime.Tx, vault, user solana.PublicKey, amount uint64, capability custody.Capability) error
	Held(tx *runtime.Tx, vault solana.PublicKey) (uint64, error)
}

// Native moves lamports.
type Native struct{}

// NewNative creates the native value adapter.
func NewNative() *Native {
	return &Native{}
}

func (n *Native) Deposit(tx *runtime.Tx, user, vault solana.PublicKey, amount uint64) error {
	if !tx.IsSigner(user) {
		return fmt.Errorf("%w: %s", errs.ErrMissingSignature, user)
	}

	src, err := tx.Account(user)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s has no account", errs.ErrInsufficientFunds, user)
	}
	if err != nil {
		return err
	}
	if !src.Owner.Equals(solana.SystemProgramID) {
		return fmt.Errorf("%w: %s is not a system account", errs.ErrAccountInUse, user)
	}

	dst, err := tx.Account(vault)
	if err != nil {
		return fmt.Errorf("failed to load custody account %s: %w", vault, err)
	}
	return moveLamports(src, dst, amount)
}

func (n *Native) Withdraw(tx *runtime.Tx, vault, user solana.PublicKey, amount uint64, capability custody.Capability) error {
	if err := capability.Verify(vault); err != nil {
		return err
	}

	src, err := tx.Account(vault)
	if err != nil {
		return fmt.Errorf("failed to load custody account %s: %w", vault, err)
	}
	dst, err := tx.Account(user)
	if errors.Is(err, store.ErrNotFound) {
		dst, err = tx.Create(user, solana.SystemProgramID)
	}
	if err != nil {
		return err
	}
	return moveLamports(src, dst, amount)
}

func (n *Native) Held(tx *runtime.Tx, vault solana.PublicKey) (uint64, error) {
	acct, err := tx.Account(vault)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Lamports, nil
}

func moveLamports(src, dst *store.Account, amount uint64) error {
	if src.Lamports < amount {
		return fmt.Errorf("%w: have %d, need %d", errs.ErrInsufficientFunds, src.Lamports, amount)
	}
	sum, err := common.CheckedAdd(dst.Lamports, amount)
	if err != nil {
		return err
	}
	src.Lamports -= amount
	dst.Lamports = sum
	return nil
}

// Token moves units of one mint between token sub-accounts.
type Token struct {
	mint solana.PublicKey
}

// NewToken creates a token adapter bound to mint.
func NewToken(mint solana.PublicKey) *Token {
	return &Token{mint: mint}
}

// Mint returns the token class the adapter moves.
func (t *Token) Mint() solana.PublicKey {
	return t.mint
}

func (t *Token) Deposit(tx *runtime.Tx, user, vault solana.PublicKey, amount uint64) error {
	if !tx.IsSigner(user) {
		return fmt.Errorf("%w: %s", errs.ErrMissingSignature, user)
	}

	src, err := LoadTokenAccount(tx, user, t.mint)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s holds no %s", errs.ErrInsufficientFunds, user, t.mint)
	}
	if err != nil {
		return err
	}
	dst, err := EnsureTokenAccount(tx, vault, t.mint)
	if err != nil {
		return err
	}
	return t.move(tx, src, dst, amount)
}

func (t *Token) Withdraw(tx *runtime.Tx, vault, user solana.PublicKey, amount uint64, capability custody.Capability) error {
	if err := capability.Verify(vault); err != nil {
		return err
	}

	src, err := LoadTokenAccount(tx, vault, t.mint)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: custody %s holds no %s", errs.ErrInsufficientFunds, vault, t.mint)
	}
	if err != nil {
		return err
	}
	dst, err := EnsureTokenAccount(tx, user, t.mint)
	if err != nil {
		return err
	}
	return t.move(tx, src, dst, amount)
}

func (t *Token) Held(tx *runtime.Tx, vault solana.PublicKey) (uint64, error) {
	ta, err := LoadTokenAccount(tx, vault, t.mint)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

func (t *Token) move(tx *runtime.Tx, src, dst *TokenAccount, amount uint64) error {
	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", errs.ErrInsufficientFunds, src.Amount, amount)
	}
	sum, err := common.CheckedAdd(dst.Amount, amount)
	if err != nil {
		return err
	}
	src.Amount -= amount
	dst.Amount = sum

	if err := SaveTokenAccount(tx, src); err != nil {
		return err
	}
	return SaveTokenAccount(tx, dst)
}
