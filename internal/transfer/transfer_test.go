package transfer

import (
	"context"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/AlexZinkM/escrow-ledger/internal/custody"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

type fixture struct {
	rt        *runtime.Runtime
	program   solana.PublicKey
	user      solana.PublicKey
	vault     solana.PublicKey
	index     derive.ProofIndex
	authority *custody.Authority
}

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func newFixture(t *testing.T, purpose derive.Purpose) *fixture {
	t.Helper()
	f := &fixture{
		rt:      runtime.New(store.NewMemory(), zaptest.NewLogger(t)),
		program: newKey(t),
		user:    newKey(t),
	}
	var err error
	f.vault, f.index, err = derive.NewDeriver(f.program).Derive(purpose, f.user)
	require.NoError(t, err)
	f.authority = custody.NewAuthority(f.program)

	require.NoError(t, f.rt.Execute(context.Background(), func(tx *runtime.Tx) error {
		_, err := tx.Create(f.vault, f.program)
		return err
	}))
	return f
}

func (f *fixture) signed() context.Context {
	return runtime.WithSigners(context.Background(), f.user)
}

func TestNativeRoundTrip(t *testing.T) {
	f := newFixture(t, derive.PurposeNativeEscrow)
	adapter := NewNative()
	require.NoError(t, f.rt.Airdrop(context.Background(), f.user, 1000))

	require.NoError(t, f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 600)
	}))

	require.NoError(t, f.rt.View(context.Background(), func(tx *runtime.Tx) error {
		held, err := adapter.Held(tx, f.vault)
		require.NoError(t, err)
		assert.Equal(t, uint64(600), held)
		return nil
	}))

	capability := f.authority.Authorize(derive.PurposeNativeEscrow, f.user, f.index)
	require.NoError(t, f.rt.Execute(context.Background(), func(tx *runtime.Tx) error {
		return adapter.Withdraw(tx, f.vault, f.user, 600, capability)
	}))

	balance, err := f.rt.NativeBalance(context.Background(), f.user)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), balance)
	held, err := f.rt.NativeBalance(context.Background(), f.vault)
	require.NoError(t, err)
	assert.Zero(t, held)
}

func TestNativeDepositFailures(t *testing.T) {
	f := newFixture(t, derive.PurposeNativeEscrow)
	adapter := NewNative()

	err := f.rt.Execute(context.Background(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 1)
	})
	assert.ErrorIs(t, err, errs.ErrMissingSignature)

	err = f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 1)
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

	require.NoError(t, f.rt.Airdrop(context.Background(), f.user, 5))
	err = f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 6)
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

	balance, err := f.rt.NativeBalance(context.Background(), f.user)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), balance)
}

func TestNativeDepositOverflow(t *testing.T) {
	f := newFixture(t, derive.PurposeNativeEscrow)
	adapter := NewNative()
	ctx := context.Background()

	require.NoError(t, f.rt.Airdrop(ctx, f.user, math.MaxUint64))
	require.NoError(t, f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, math.MaxUint64)
	}))
	require.NoError(t, f.rt.Airdrop(ctx, f.user, 1))

	err := f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 1)
	})
	assert.ErrorIs(t, err, errs.ErrArithmeticOverflow)

	balance, err := f.rt.NativeBalance(ctx, f.user)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), balance)
}

func TestWithdrawRejectsForeignCapabilities(t *testing.T) {
	for _, tc := range []struct {
		name    string
		purpose derive.Purpose
		adapter func(mint solana.PublicKey) Adapter
	}{
		{"native", derive.PurposeNativeEscrow, func(solana.PublicKey) Adapter { return NewNative() }},
		{"token", derive.PurposeTokenEscrow, func(mint solana.PublicKey) Adapter { return NewToken(mint) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.purpose)
			adapter := tc.adapter(newKey(t))
			other := newKey(t)

			capabilities := map[string]custody.Capability{
				"other user":    f.authority.Authorize(tc.purpose, other, f.index),
				"other purpose": f.authority.Authorize(derive.PurposeIssuance, f.user, f.index),
				"other program": custody.NewAuthority(newKey(t)).Authorize(tc.purpose, f.user, f.index),
				"other index":   f.authority.Authorize(tc.purpose, f.user, f.index-1),
			}
			for name, capability := range capabilities {
				err := f.rt.Execute(context.Background(), func(tx *runtime.Tx) error {
					return adapter.Withdraw(tx, f.vault, f.user, 0, capability)
				})
				assert.ErrorIs(t, err, errs.ErrAuthorityMismatch, name)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	f := newFixture(t, derive.PurposeTokenEscrow)
	mint := newKey(t)
	adapter := NewToken(mint)
	ctx := context.Background()

	err := f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 1)
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds, "user has no token account yet")

	require.NoError(t, f.rt.Execute(ctx, func(tx *runtime.Tx) error {
		ta, err := EnsureTokenAccount(tx, f.user, mint)
		if err != nil {
			return err
		}
		ta.Amount = 100
		return SaveTokenAccount(tx, ta)
	}))

	require.NoError(t, f.rt.Execute(f.signed(), func(tx *runtime.Tx) error {
		return adapter.Deposit(tx, f.user, f.vault, 100)
	}))

	capability := f.authority.Authorize(derive.PurposeTokenEscrow, f.user, f.index)
	require.NoError(t, f.rt.Execute(ctx, func(tx *runtime.Tx) error {
		held, err := adapter.Held(tx, f.vault)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), held)
		return adapter.Withdraw(tx, f.vault, f.user, 100, capability)
	}))

	require.NoError(t, f.rt.View(ctx, func(tx *runtime.Tx) error {
		held, err := adapter.Held(tx, f.vault)
		require.NoError(t, err)
		assert.Zero(t, held)

		ta, err := LoadTokenAccount(tx, f.user, mint)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), ta.Amount)

		addr, err := TokenAddress(f.vault, mint)
		require.NoError(t, err)
		acct, err := tx.Account(addr)
		require.NoError(t, err)
		assert.Equal(t, solana.TokenProgramID, acct.Owner)
		return nil
	}))
}

func TestTokenAccountRejectsForeignOwner(t *testing.T) {
	rt := runtime.New(store.NewMemory(), zaptest.NewLogger(t))
	owner, mint := newKey(t), newKey(t)
	addr, err := TokenAddress(owner, mint)
	require.NoError(t, err)

	require.NoError(t, rt.Execute(context.Background(), func(tx *runtime.Tx) error {
		_, err := tx.Create(addr, solana.SystemProgramID)
		return err
	}))

	err = rt.View(context.Background(), func(tx *runtime.Tx) error {
		_, err := LoadTokenAccount(tx, owner, mint)
		return err
	})
	assert.ErrorIs(t, err, errs.ErrAccountInUse)
}
