package ledger

import (
	"context"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
)

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func index(v uint8) *derive.ProofIndex {
	return &v
}

func TestCacheProofIndex(t *testing.T) {
	rec := &Record{}

	_, ok := rec.ProofIndex(SlotNative)
	assert.False(t, ok)

	// Zero is a real index, not "unset"
	require.NoError(t, rec.CacheProofIndex(SlotNative, 0))
	got, ok := rec.ProofIndex(SlotNative)
	require.True(t, ok)
	assert.Equal(t, uint8(0), got)

	require.NoError(t, rec.CacheProofIndex(SlotNative, 0))
	assert.ErrorIs(t, rec.CacheProofIndex(SlotNative, 1), errs.ErrDerivationDrift)
	got, _ = rec.ProofIndex(SlotNative)
	assert.Equal(t, uint8(0), got)

	_, ok = rec.ProofIndex(SlotToken)
	assert.False(t, ok)
	require.NoError(t, rec.CacheProofIndex(SlotToken, 254))
	assert.ErrorIs(t, rec.CacheProofIndex(SlotToken, 253), errs.ErrDerivationDrift)
}

func TestCreditAndDebitAll(t *testing.T) {
	rec := &Record{}
	assert.Equal(t, Empty, rec.State())

	require.NoError(t, rec.Credit(1000))
	require.NoError(t, rec.Credit(500))
	assert.Equal(t, uint64(1500), rec.Balance)
	assert.Equal(t, Funded, rec.State())

	amount, err := rec.DebitAll()
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), amount)
	assert.Zero(t, rec.Balance)
	assert.Equal(t, Empty, rec.State())

	_, err = rec.DebitAll()
	assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
	assert.Zero(t, rec.Balance)

	rec.Balance = math.MaxUint64
	assert.ErrorIs(t, rec.Credit(1), errs.ErrArithmeticOverflow)
	assert.Equal(t, uint64(math.MaxUint64), rec.Balance)
}

func TestRecordCodec(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
	}{
		{"empty", Record{}},
		{"native only", Record{Balance: 7, NativeProofIndex: index(255)}},
		{"both with zero index", Record{Balance: math.MaxUint64, NativeProofIndex: index(0), TokenProofIndex: index(9)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.rec.Encode()
			require.NoError(t, err)
			assert.Len(t, data, 8+8+2+countSet(tt.rec))

			got, err := DecodeRecord(data)
			require.NoError(t, err)
			assert.Equal(t, tt.rec, *got)
		})
	}
}

func countSet(r Record) int {
	n := 0
	if r.NativeProofIndex != nil {
		n++
	}
	if r.TokenProofIndex != nil {
		n++
	}
	return n
}

func TestDecodeRecordRejectsForeignData(t *testing.T) {
	_, err := DecodeRecord(make([]byte, 18))
	assert.ErrorIs(t, err, errs.ErrCorruptAccount)

	_, err = DecodeRecord([]byte{1, 2})
	assert.ErrorIs(t, err, errs.ErrCorruptAccount)
}

func TestEnsureRecordIsIdempotent(t *testing.T) {
	program := newKey(t)
	l := New(program)
	rt := runtime.New(store.NewMemory(), zap.NewNop())
	ctx := context.Background()
	key := newKey(t)

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		state, err := l.StateOf(tx, key)
		require.NoError(t, err)
		assert.Equal(t, Uninitialized, state)

		rec, err := l.EnsureRecord(tx, key)
		require.NoError(t, err)
		assert.Equal(t, &Record{}, rec)
		require.NoError(t, rec.Credit(10))
		require.NoError(t, rec.CacheProofIndex(SlotNative, 3))
		return l.Save(tx, key, rec)
	}))

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		rec, err := l.EnsureRecord(tx, key)
		require.NoError(t, err)
		assert.Equal(t, uint64(10), rec.Balance)
		idx, ok := rec.ProofIndex(SlotNative)
		assert.True(t, ok)
		assert.Equal(t, uint8(3), idx)

		again, err := l.EnsureRecord(tx, key)
		require.NoError(t, err)
		assert.Equal(t, rec, again)

		state, err := l.StateOf(tx, key)
		require.NoError(t, err)
		assert.Equal(t, Funded, state)

		acct, err := tx.Account(key)
		require.NoError(t, err)
		assert.Equal(t, program, acct.Owner)
		return nil
	}))
}

func TestEnsureRecordOwnership(t *testing.T) {
	program := newKey(t)
	l := New(program)
	rt := runtime.New(store.NewMemory(), zap.NewNop())
	ctx := context.Background()

	empty, funded, foreign := newKey(t), newKey(t), newKey(t)
	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		if _, err := tx.Create(empty, solana.SystemProgramID); err != nil {
			return err
		}
		if _, err := tx.Create(foreign, newKey(t)); err != nil {
			return err
		}
		return nil
	}))
	require.NoError(t, rt.Airdrop(ctx, funded, 1))

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		_, err := l.EnsureRecord(tx, empty)
		require.NoError(t, err, "an empty system account is adopted")

		_, err = l.EnsureRecord(tx, funded)
		assert.ErrorIs(t, err, errs.ErrAccountInUse)

		_, err = l.EnsureRecord(tx, foreign)
		assert.ErrorIs(t, err, errs.ErrAccountInUse)

		_, err = l.Load(tx, foreign)
		assert.ErrorIs(t, err, errs.ErrRecordNotFound)
		_, err = l.Load(tx, newKey(t))
		assert.ErrorIs(t, err, errs.ErrRecordNotFound)
		return nil
	}))
}
