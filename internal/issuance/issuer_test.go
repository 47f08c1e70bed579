package issuance

import (
	"context"
	"math"
	"strings"
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
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

func newKey(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func newIssuer(t *testing.T) (*Issuer, *runtime.Runtime) {
	t.Helper()
	program := newKey(t)
	return New(derive.NewDeriver(program), custody.NewAuthority(program)),
		runtime.New(store.NewMemory(), zaptest.NewLogger(t))
}

var gold = Metadata{Name: "Escrow Gold", Symbol: "EGLD", URI: "https://example.org/egld.json", Decimals: 6}

func TestMetadataValidate(t *testing.T) {
	tests := []struct {
		name  string
		md    Metadata
		valid bool
	}{
		{"ok", gold, true},
		{"no uri", Metadata{Name: "a", Symbol: "b"}, true},
		{"empty name", Metadata{Symbol: "b"}, false},
		{"long name", Metadata{Name: strings.Repeat("n", 33), Symbol: "b"}, false},
		{"empty symbol", Metadata{Name: "a"}, false},
		{"long symbol", Metadata{Name: "a", Symbol: strings.Repeat("s", 11)}, false},
		{"long uri", Metadata{Name: "a", Symbol: "b", URI: strings.Repeat("u", 201)}, false},
		{"max decimals", Metadata{Name: "a", Symbol: "b", Decimals: 19}, true},
		{"too many decimals", Metadata{Name: "a", Symbol: "b", Decimals: 20}, false},
		{"bad utf8", Metadata{Name: "\xff", Symbol: "b"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.md.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidMetadata)
			}
		})
	}
}

func TestCreateTokenClass(t *testing.T) {
	issuer, rt := newIssuer(t)
	ctx := context.Background()

	var class *TokenClass
	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		var err error
		class, err = issuer.CreateTokenClass(tx, gold)
		return err
	}))

	mint, _, err := issuer.MintAddress()
	require.NoError(t, err)
	assert.Equal(t, mint, class.Mint)
	assert.False(t, mint.IsOnCurve(), "mint address has no private key")

	err = rt.Execute(ctx, func(tx *runtime.Tx) error {
		_, err := issuer.CreateTokenClass(tx, gold)
		return err
	})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	require.NoError(t, rt.View(ctx, func(tx *runtime.Tx) error {
		loaded, err := issuer.LoadTokenClass(tx, mint)
		require.NoError(t, err)
		assert.Equal(t, class, loaded)

		_, err = issuer.LoadTokenClass(tx, newKey(t))
		assert.ErrorIs(t, err, errs.ErrUnknownTokenClass)
		return nil
	}))
}

func TestMint(t *testing.T) {
	issuer, rt := newIssuer(t)
	ctx := context.Background()
	user := newKey(t)

	mint, _, err := issuer.MintAddress()
	require.NoError(t, err)

	err = rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, mint, 1, user)
	})
	assert.ErrorIs(t, err, errs.ErrUnknownTokenClass)

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		_, err := issuer.CreateTokenClass(tx, gold)
		return err
	}))

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, mint, 100, user)
	}))
	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, mint, 20, user)
	}))

	require.NoError(t, rt.View(ctx, func(tx *runtime.Tx) error {
		ta, err := transfer.LoadTokenAccount(tx, user, mint)
		require.NoError(t, err)
		assert.Equal(t, uint64(120), ta.Amount)

		class, err := issuer.LoadTokenClass(tx, mint)
		require.NoError(t, err)
		assert.Equal(t, uint64(120), class.Supply)
		return nil
	}))

	err = rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, mint, math.MaxUint64, user)
	})
	assert.ErrorIs(t, err, errs.ErrArithmeticOverflow)

	err = rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, newKey(t), 1, user)
	})
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)
}

func TestMintOfAnotherProgramIsRejected(t *testing.T) {
	issuer, rt := newIssuer(t)
	other, _ := newIssuer(t)
	ctx := context.Background()

	require.NoError(t, rt.Execute(ctx, func(tx *runtime.Tx) error {
		_, err := other.CreateTokenClass(tx, gold)
		return err
	}))
	foreign, _, err := other.MintAddress()
	require.NoError(t, err)

	err = rt.Execute(ctx, func(tx *runtime.Tx) error {
		return issuer.Mint(tx, foreign, 1, newKey(t))
	})
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)
}
