// Package store persists runtime accounts and the operation journal.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// ErrNotFound is returned by Get when no account exists at the key.
var ErrNotFound = errors.New("account not found")

// Account is the unit of state: a lamport balance, the program that owns it, and opaque data.
type Account struct {
	Lamports uint64           `json:"lamports"`
	Owner    solana.PublicKey `json:"owner"`
	Data     []byte           `json:"data"`
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	out := &Account{Lamports: a.Lamports, Owner: a.Owner}
	if a.Data != nil {
		out.Data = append([]byte(nil), a.Data...)
	}
	return out
}

func (a Account) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint64(a.Lamports, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteBytes(a.Owner[:], false); err != nil {
		return err
	}
	return enc.WriteBytes(a.Data, true)
}

func (a *Account) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if a.Lamports, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	owner, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	a.Owner = solana.PublicKeyFromBytes(owner)
	data, err := dec.ReadByteSlice()
	if err != nil {
		return err
	}
	a.Data = append([]byte(nil), data...)
	return nil
}

// EncodeAccount serializes an account for byte-oriented backends.
func EncodeAccount(a *Account) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(a); err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeAccount is the inverse of EncodeAccount.
func DecodeAccount(data []byte) (*Account, error) {
	var a Account
	if err := bin.NewBorshDecoder(data).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	return &a, nil
}

// EntryType classifies journal entries.
type EntryType string

const (
	EntryDeposit  EntryType = "DEPOSIT"
	EntryWithdraw EntryType = "WITHDRAW"
	EntryMint     EntryType = "MINT"
)

// Entry records one committed value movement.
type Entry struct {
	ID        string           `json:"id"`
	Type      EntryType        `json:"type"`
	User      solana.PublicKey `json:"user"`
	Custody   solana.PublicKey `json:"custody"`
	Mint      solana.PublicKey `json:"mint"` // zero for native value
	Amount    uint64           `json:"amount"`
	Decimals  uint8            `json:"decimals"`
	Currency  string           `json:"currency"`
	Timestamp time.Time        `json:"timestamp"`
}

// Batch is everything one transaction writes.
type Batch struct {
	Accounts map[solana.PublicKey]*Account
	Entries  []Entry
}

// Store is implemented by every persistence backend. Commit must apply a batch entirely or not at all.
type Store interface {
	Get(ctx context.Context, key solana.PublicKey) (*Account, error)
	Commit(ctx context.Context, batch Batch) error
	Journal(ctx context.Context, user solana.PublicKey) ([]Entry, error)
	Close() error
}
