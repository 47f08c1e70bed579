package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/crypto"
)

// File keeps state in memory and rewrites an encrypted snapshot on every commit.
type File struct {
	mem       *Memory
	path      string
	programID string
	key       *crypto.Key
}

type snapshot struct {
	Accounts map[solana.PublicKey]*Account `json:"accounts"`
	Journal  []Entry                       `json:"journal"`
}

// OpenFile loads the snapshot at path, or starts an empty one if the file does not exist.
// password must be []byte for security (caller should zero it after use)
func OpenFile(path string, programID solana.PublicKey, password []byte) (*File, error) {
	f := &File{
		mem:       NewMemory(),
		path:      path,
		programID: programID.String(),
	}

	header, key, plaintext, err := crypto.ReadSnapshot(path, password)
	switch {
	case errors.Is(err, os.ErrNotExist):
		key, err = crypto.NewKey(password)
		if err != nil {
			return nil, err
		}
		f.key = key
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer clear(plaintext)

	if header.ProgramID != f.programID {
		return nil, fmt.Errorf("snapshot belongs to program %s, not %s", header.ProgramID, f.programID)
	}

	var snap snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	f.mem.apply(Batch{Accounts: snap.Accounts, Entries: snap.Journal})
	f.key = key
	return f, nil
}

func (f *File) Get(ctx context.Context, key solana.PublicKey) (*Account, error) {
	return f.mem.Get(ctx, key)
}

// Commit persists the merged state before exposing it, so a failed write leaves memory untouched.
func (f *File) Commit(_ context.Context, batch Batch) error {
	f.mem.mu.Lock()
	defer f.mem.mu.Unlock()

	next := snapshot{
		Accounts: make(map[solana.PublicKey]*Account, len(f.mem.accounts)+len(batch.Accounts)),
	}
	for key, acct := range f.mem.accounts {
		next.Accounts[key] = acct
	}
	for key, acct := range batch.Accounts {
		next.Accounts[key] = acct
	}
	for _, entries := range f.mem.journal {
		next.Journal = append(next.Journal, entries...)
	}
	next.Journal = append(next.Journal, batch.Entries...)

	plaintext, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	defer clear(plaintext)

	if err := crypto.WriteSnapshot(f.path, f.programID, f.key, plaintext); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	f.mem.apply(batch)
	return nil
}

func (f *File) Journal(ctx context.Context, user solana.PublicKey) ([]Entry, error) {
	return f.mem.Journal(ctx, user)
}

func (f *File) Close() error {
	return nil
}
