// Package derive maps (program, purpose, user) to custody addresses.
//
// Addresses are Solana program-derived addresses: sha256 over the seeds, the program id and the
// "ProgramDerivedAddress" marker, probed with a one-byte index until the hash falls off the
// ed25519 curve. Off-curve points have no private key, and on-curve points are the space
// reserved for real identities. Probing follows the canonical order (255 downward) so the
// addresses equal those of an on-chain deployment under the same program id.
package derive

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
)

// Purpose is the seed that separates one escrow kind from another.
type Purpose string

const (
	PurposeNativeEscrow Purpose = "native-escrow"
	PurposeTokenEscrow  Purpose = "token-escrow"
	PurposeIssuance     Purpose = "issuance"
)

// ProofIndex is the probe index that made a derivation fall off the curve.
type ProofIndex = uint8

// Validate checks that p can be used as a single seed.
func (p Purpose) Validate() error {
	if len(p) == 0 || len(p) > solana.MaxSeedLength {
		return fmt.Errorf("%w: %q", errs.ErrInvalidPurpose, string(p))
	}
	return nil
}

// Seeds returns the seed list for purpose and, when non-nil, the user.
// The proof index is not included.
func Seeds(purpose Purpose, user *solana.PublicKey) [][]byte {
	seeds := make([][]byte, 0, 3)
	seeds = append(seeds, []byte(purpose))
	if user != nil {
		seeds = append(seeds, user.Bytes())
	}
	return seeds
}

// Deriver derives custody addresses for a fixed program identity.
type Deriver struct {
	programID solana.PublicKey
}

// NewDeriver creates a Deriver bound to programID.
func NewDeriver(programID solana.PublicKey) *Deriver {
	return &Deriver{programID: programID}
}

// ProgramID returns the program identity the deriver is bound to.
func (d *Deriver) ProgramID() solana.PublicKey {
	return d.programID
}

// Derive returns the custody address of user for purpose and its proof index.
func (d *Deriver) Derive(purpose Purpose, user solana.PublicKey) (solana.PublicKey, ProofIndex, error) {
	if user.IsZero() {
		return solana.PublicKey{}, 0, errs.ErrInvalidIdentity
	}
	return d.find(purpose, &user)
}

// DeriveProgram returns the address tied to the program identity alone, used for the token class.
func (d *Deriver) DeriveProgram(purpose Purpose) (solana.PublicKey, ProofIndex, error) {
	return d.find(purpose, nil)
}

func (d *Deriver) find(purpose Purpose, user *solana.PublicKey) (solana.PublicKey, ProofIndex, error) {
	if err := purpose.Validate(); err != nil {
		return solana.PublicKey{}, 0, err
	}
	address, index, err := solana.FindProgramAddress(Seeds(purpose, user), d.programID)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("failed to derive %s address: %w", purpose, err)
	}
	return address, index, nil
}

// ParseIdentity decodes a base58 user identity.
func ParseIdentity(s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", errs.ErrInvalidIdentity, err)
	}
	if key.IsZero() {
		return solana.PublicKey{}, errs.ErrInvalidIdentity
	}
	return key, nil
}
