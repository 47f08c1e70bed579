package transfer

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

// TokenAccount is the token sub-account of one owner for one mint.
// Layout follows the leading fields of an SPL token account: mint, owner, amount.
type TokenAccount struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

func (a TokenAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(a.Mint[:], false); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return err
	}
	return enc.WriteUint64(a.Amount, bin.LE)
}

func (a *TokenAccount) UnmarshalWithDecoder(dec *bin.Decoder) error {
	mint, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Mint = solana.PublicKeyFromBytes(mint)
	a.Owner = solana.PublicKeyFromBytes(owner)
	a.Amount, err = dec.ReadUint64(bin.LE)
	return err
}

// TokenAddress returns the token sub-account address of owner for mint.
func TokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find token account address: %w", err)
	}
	return addr, nil
}

// LoadTokenAccount reads the token sub-account of owner for mint. store.ErrNotFound when absent.
func LoadTokenAccount(tx *runtime.Tx, owner, mint solana.PublicKey) (*TokenAccount, error) {
	addr, err := TokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	acct, err := tx.Account(addr)
	if err != nil {
		return nil, err
	}
	return decodeTokenAccount(addr, acct, owner, mint)
}

// EnsureTokenAccount returns the token sub-account of owner for mint, creating an empty one if needed.
func EnsureTokenAccount(tx *runtime.Tx, owner, mint solana.PublicKey) (*TokenAccount, error) {
	ta, err := LoadTokenAccount(tx, owner, mint)
	if !errors.Is(err, store.ErrNotFound) {
		return ta, err
	}

	addr, err := TokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	acct, err := tx.Create(addr, solana.TokenProgramID)
	if err != nil {
		return nil, err
	}
	ta = &TokenAccount{Mint: mint, Owner: owner}
	if err := writeTokenAccount(acct, ta); err != nil {
		return nil, err
	}
	return ta, nil
}

// SaveTokenAccount writes ta back to its sub-account.
func SaveTokenAccount(tx *runtime.Tx, ta *TokenAccount) error {
	addr, err := TokenAddress(ta.Owner, ta.Mint)
	if err != nil {
		return err
	}
	acct, err := tx.Account(addr)
	if err != nil {
		return fmt.Errorf("failed to save token account %s: %w", addr, err)
	}
	return writeTokenAccount(acct, ta)
}

func decodeTokenAccount(addr solana.PublicKey, acct *store.Account, owner, mint solana.PublicKey) (*TokenAccount, error) {
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return nil, fmt.Errorf("%w: %s is not a token account", errs.ErrAccountInUse, addr)
	}
	var ta TokenAccount
	if err := bin.NewBorshDecoder(acct.Data).Decode(&ta); err != nil {
		return nil, fmt.Errorf("%w: token account %s: %v", errs.ErrCorruptAccount, addr, err)
	}
	if !ta.Mint.Equals(mint) || !ta.Owner.Equals(owner) {
		return nil, fmt.Errorf("%w: token account %s belongs to %s/%s", errs.ErrCorruptAccount, addr, ta.Owner, ta.Mint)
	}
	return &ta, nil
}

func writeTokenAccount(acct *store.Account, ta *TokenAccount) error {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(ta); err != nil {
		return fmt.Errorf("failed to encode token account: %w", err)
	}
	acct.Data = buf.Bytes()
	return nil
}
