// Package runtime executes escrow operations as atomic transactions over the account store.
//
// A transaction reads accounts into a private overlay, mutates them there, and either commits
// every changed account plus its journal entries in one store call or discards everything.
package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

type signersKey struct{}

// WithSigners marks keys as having signed the request carried by ctx.
func WithSigners(ctx context.Context, keys ...solana.PublicKey) context.Context {
	signers := make(map[solana.PublicKey]struct{}, len(keys))
	if prev, ok := ctx.Value(signersKey{}).(map[solana.PublicKey]struct{}); ok {
		for k := range prev {
			signers[k] = struct{}{}
		}
	}
	for _, k := range keys {
		signers[k] = struct{}{}
	}
	return context.WithValue(ctx, signersKey{}, signers)
}

func signersFrom(ctx context.Context) map[solana.PublicKey]struct{} {
	signers, _ := ctx.Value(signersKey{}).(map[solana.PublicKey]struct{})
	return signers
}

// Runtime serializes transactions against one store.
type Runtime struct {
	mu     sync.Mutex
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// New creates a runtime over st.
func New(st store.Store, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runtime{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Store returns the underlying store.
func (r *Runtime) Store() store.Store {
	return r.store
}

// Execute runs fn in a transaction. Nothing fn wrote is visible unless it returns nil.
func (r *Runtime) Execute(ctx context.Context, fn func(*Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx := r.begin(ctx)
	if err := fn(tx); err != nil {
		r.logger.Debug("transaction rolled back", zap.Error(err))
		return err
	}

	batch := tx.batch()
	if len(batch.Accounts) == 0 && len(batch.Entries) == 0 {
		return nil
	}
	if err := r.store.Commit(ctx, batch); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.logger.Debug("transaction committed",
		zap.Int("accounts", len(batch.Accounts)),
		zap.Int("entries", len(batch.Entries)),
	)
	return nil
}

// View runs fn against a consistent snapshot and discards any writes.
func (r *Runtime) View(ctx context.Context, fn func(*Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fn(r.begin(ctx))
}

func (r *Runtime) begin(ctx context.Context) *Tx {
	return &Tx{
		ctx:      ctx,
		store:    r.store,
		now:      r.now(),
		signers:  signersFrom(ctx),
		original: make(map[solana.PublicKey]*store.Account),
		working:  make(map[solana.PublicKey]*store.Account),
	}
}

// Airdrop credits lamports to a system-owned account, creating it if needed.
// Program-owned accounts are refused so custody balances only move through the escrow paths.
func (r *Runtime) Airdrop(ctx context.Context, to solana.PublicKey, lamports uint64) error {
	if lamports == 0 {
		return errs.ErrInvalidAmount
	}
	return r.Execute(ctx, func(tx *Tx) error {
		acct, err := tx.Account(to)
		if errors.Is(err, store.ErrNotFound) {
			acct, err = tx.Create(to, solana.SystemProgramID)
		}
		if err != nil {
			return err
		}
		if !acct.Owner.Equals(solana.SystemProgramID) {
			return fmt.Errorf("%w: %s is owned by %s", errs.ErrAccountInUse, to, acct.Owner)
		}
		acct.Lamports, err = common.CheckedAdd(acct.Lamports, lamports)
		return err
	})
}

// NativeBalance returns the lamports held at key, zero when the account does not exist.
func (r *Runtime) NativeBalance(ctx context.Context, key solana.PublicKey) (uint64, error) {
	var lamports uint64
	err := r.View(ctx, func(tx *Tx) error {
		acct, err := tx.Account(key)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		lamports = acct.Lamports
		return nil
	})
	return lamports, err
}

// Tx is one transaction's view of the account space.
type Tx struct {
	ctx      context.Context
	store    store.Store
	now      time.Time
	signers  map[solana.PublicKey]struct{}
	original map[solana.PublicKey]*store.Account // nil value: absent when first read
	working  map[solana.PublicKey]*store.Account
	entries  []store.Entry
}

// Context returns the request context.
func (tx *Tx) Context() context.Context {
	return tx.ctx
}

// Now returns the transaction timestamp.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// IsSigner reports whether key signed the request.
func (tx *Tx) IsSigner(key solana.PublicKey) bool {
	_, ok := tx.signers[key]
	return ok
}

// Account returns the working copy of the account at key, or store.ErrNotFound.
// Mutations through the returned pointer are part of the transaction.
func (tx *Tx) Account(key solana.PublicKey) (*store.Account, error) {
	if acct, ok := tx.working[key]; ok {
		if acct == nil {
			return nil, store.ErrNotFound
		}
		return acct, nil
	}

	acct, err := tx.store.Get(tx.ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		tx.original[key] = nil
		tx.working[key] = nil
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", key, err)
	}
	tx.original[key] = acct.Clone()
	tx.working[key] = acct
	return acct, nil
}

// Exists reports whether an account is present at key.
func (tx *Tx) Exists(key solana.PublicKey) (bool, error) {
	_, err := tx.Account(key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Create allocates an empty account at key owned by owner.
func (tx *Tx) Create(key, owner solana.PublicKey) (*store.Account, error) {
	exists, err := tx.Exists(key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", errs.ErrAlreadyExists, key)
	}
	acct := &store.Account{Owner: owner}
	tx.working[key] = acct
	return acct, nil
}

// Record appends a journal entry, committed together with the account changes.
func (tx *Tx) Record(entry store.Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = tx.now
	}
	tx.entries = append(tx.entries, entry)
}

func (tx *Tx) batch() store.Batch {
	batch := store.Batch{
		Accounts: make(map[solana.PublicKey]*store.Account),
		Entries:  tx.entries,
	}
	for key, acct := range tx.working {
		if acct == nil || !changed(tx.original[key], acct) {
			continue
		}
		batch.Accounts[key] = acct.Clone()
	}
	return batch
}

func changed(before, after *store.Account) bool {
	if before == nil {
		return true
	}
	return before.Lamports != after.Lamports ||
		!before.Owner.Equals(after.Owner) ||
		!bytes.Equal(before.Data, after.Data)
}
