// Package custody builds capabilities that authorize moving funds out of derived addresses.
package custody

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
)

// Capability is the seed material of a derived address. Presenting it proves control of the
// address the same way a signature proves control of a keypair address.
type Capability struct {
	ProgramID  solana.PublicKey
	Purpose    derive.Purpose
	User       *solana.PublicKey
	ProofIndex derive.ProofIndex
}

// Seeds returns the full signer seeds, proof index last.
func (c Capability) Seeds() [][]byte {
	return append(derive.Seeds(c.Purpose, c.User), []byte{c.ProofIndex})
}

// Address re-derives the address the capability controls.
func (c Capability) Address() (solana.PublicKey, error) {
	addr, err := solana.CreateProgramAddress(c.Seeds(), c.ProgramID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", errs.ErrAuthorityMismatch, err)
	}
	return addr, nil
}

// Verify succeeds only when the capability reproduces target exactly.
func (c Capability) Verify(target solana.PublicKey) error {
	addr, err := c.Address()
	if err != nil {
		return err
	}
	if !addr.Equals(target) {
		return fmt.Errorf("%w: capability signs for %s, not %s", errs.ErrAuthorityMismatch, addr, target)
	}
	return nil
}

// Authority issues capabilities for one program identity.
type Authority struct {
	programID solana.PublicKey
}

// NewAuthority creates an Authority bound to programID.
func NewAuthority(programID solana.PublicKey) *Authority {
	return &Authority{programID: programID}
}

// Authorize builds the capability for the custody address of user under purpose.
func (a *Authority) Authorize(purpose derive.Purpose, user solana.PublicKey, index derive.ProofIndex) Capability {
	return Capability{
		ProgramID:  a.programID,
		Purpose:    purpose,
		User:       &user,
		ProofIndex: index,
	}
}

// AuthorizeProgram builds the capability for an address tied to the program alone.
func (a *Authority) AuthorizeProgram(purpose derive.Purpose, index derive.ProofIndex) Capability {
	return Capability{
		ProgramID:  a.programID,
		Purpose:    purpose,
		ProofIndex: index,
	}
}
