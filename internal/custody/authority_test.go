package custody

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
)

var programID = solana.MustPublicKeyFromBase58("62GKaiorngxb3x15sqHL8SPZEiz2EyxkiRUJVUQcZ9Zf")

func newUser(t *testing.T) solana.PublicKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	return key.PublicKey()
}

func TestCapabilityVerifiesDerivedAddress(t *testing.T) {
	user := newUser(t)
	addr, index, err := derive.NewDeriver(programID).Derive(derive.PurposeNativeEscrow, user)
	require.NoError(t, err)

	capability := NewAuthority(programID).Authorize(derive.PurposeNativeEscrow, user, index)
	require.NoError(t, capability.Verify(addr))

	got, err := capability.Address()
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestCapabilityMismatch(t *testing.T) {
	d := derive.NewDeriver(programID)
	auth := NewAuthority(programID)
	alice, bob := newUser(t), newUser(t)

	aliceAddr, aliceIndex, err := d.Derive(derive.PurposeNativeEscrow, alice)
	require.NoError(t, err)
	bobAddr, _, err := d.Derive(derive.PurposeNativeEscrow, bob)
	require.NoError(t, err)

	// Another user's custody address
	err = auth.Authorize(derive.PurposeNativeEscrow, alice, aliceIndex).Verify(bobAddr)
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)

	// Same user, other purpose
	err = auth.Authorize(derive.PurposeTokenEscrow, alice, aliceIndex).Verify(aliceAddr)
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)

	// Wrong index: either lands on the curve or on a different address
	err = auth.Authorize(derive.PurposeNativeEscrow, alice, aliceIndex-1).Verify(aliceAddr)
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)

	// Another program
	err = NewAuthority(newUser(t)).Authorize(derive.PurposeNativeEscrow, alice, aliceIndex).Verify(aliceAddr)
	assert.ErrorIs(t, err, errs.ErrAuthorityMismatch)
}

func TestAuthorizeProgram(t *testing.T) {
	mint, index, err := derive.NewDeriver(programID).DeriveProgram(derive.PurposeIssuance)
	require.NoError(t, err)
	assert.NoError(t, NewAuthority(programID).AuthorizeProgram(derive.PurposeIssuance, index).Verify(mint))
}
