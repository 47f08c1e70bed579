package ledger

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

// Ledger reads and writes records stored as program-owned account data at custody addresses.
type Ledger struct {
	programID solana.PublicKey
}

// New creates a Ledger for records owned by programID.
func New(programID solana.PublicKey) *Ledger {
	return &Ledger{programID: programID}
}

// EnsureRecord returns the record at key, creating an empty one if none exists.
// An empty system account at key is adopted; anything else there is refused.
func (l *Ledger) EnsureRecord(tx *runtime.Tx, key solana.PublicKey) (*Record, error) {
	acct, err := tx.Account(key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		if acct, err = tx.Create(key, l.programID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case acct.Owner.Equals(l.programID):
		return l.decode(key, acct)
	case acct.Owner.Equals(solana.SystemProgramID) && acct.Lamports == 0 && len(acct.Data) == 0:
		acct.Owner = l.programID
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrAccountInUse, key)
	}

	rec := &Record{}
	if err := l.write(acct, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load returns the record at key or ErrRecordNotFound.
func (l *Ledger) Load(tx *runtime.Tx, key solana.PublicKey) (*Record, error) {
	acct, err := tx.Account(key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", errs.ErrRecordNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(l.programID) {
		return nil, fmt.Errorf("%w: %s", errs.ErrRecordNotFound, key)
	}
	return l.decode(key, acct)
}

// Save writes rec back to the account at key.
func (l *Ledger) Save(tx *runtime.Tx, key solana.PublicKey, rec *Record) error {
	acct, err := tx.Account(key)
	if err != nil {
		return fmt.Errorf("failed to save record %s: %w", key, err)
	}
	if !acct.Owner.Equals(l.programID) {
		return fmt.Errorf("%w: %s", errs.ErrAccountInUse, key)
	}
	return l.write(acct, rec)
}

// StateOf reports the lifecycle state of the record at key.
func (l *Ledger) StateOf(tx *runtime.Tx, key solana.PublicKey) (State, error) {
	rec, err := l.Load(tx, key)
	if errors.Is(err, errs.ErrRecordNotFound) {
		return Uninitialized, nil
	}
	if err != nil {
		return Uninitialized, err
	}
	return rec.State(), nil
}

func (l *Ledger) decode(key solana.PublicKey, acct *store.Account) (*Record, error) {
	rec, err := DecodeRecord(acct.Data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", key, err)
	}
	return rec, nil
}

func (l *Ledger) write(acct *store.Account, rec *Record) error {
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	acct.Data = data
	return nil
}
