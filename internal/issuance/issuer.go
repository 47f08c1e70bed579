// Package issuance creates the system's token class and mints its supply.
//
// The token class lives at the address derived from the program identity and the issuance
// purpose alone, and that same derivation is the mint authority.
package issuance

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/custody"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
	"github.com/AlexZinkM/escrow-ledger/internal/runtime"
	"github.com/AlexZinkM/escrow-ledger/internal/store"
	"github.com/AlexZinkM/escrow-ledger/internal/transfer"
)

// Limits enforced by the token metadata program.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
	MaxDecimals     = 19
)

// Metadata describes a token class.
type Metadata struct {
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
}

// Validate checks metadata against the registry limits.
func (m Metadata) Validate() error {
	switch {
	case m.Name == "":
		return fmt.Errorf("%w: name is required", errs.ErrInvalidMetadata)
	case len(m.Name) > MaxNameLength:
		return fmt.Errorf("%w: name exceeds %d bytes", errs.ErrInvalidMetadata, MaxNameLength)
	case m.Symbol == "":
		return fmt.Errorf("%w: symbol is required", errs.ErrInvalidMetadata)
	case len(m.Symbol) > MaxSymbolLength:
		return fmt.Errorf("%w: symbol exceeds %d bytes", errs.ErrInvalidMetadata, MaxSymbolLength)
	case len(m.URI) > MaxURILength:
		return fmt.Errorf("%w: uri exceeds %d bytes", errs.ErrInvalidMetadata, MaxURILength)
	case m.Decimals > MaxDecimals:
		return fmt.Errorf("%w: decimals exceed %d", errs.ErrInvalidMetadata, MaxDecimals)
	case !utf8.ValidString(m.Name) || !utf8.ValidString(m.Symbol) || !utf8.ValidString(m.URI):
		return fmt.Errorf("%w: metadata must be valid UTF-8", errs.ErrInvalidMetadata)
	}
	return nil
}

// TokenClass is a created token class as stored on its accounts.
type TokenClass struct {
	Mint     solana.PublicKey
	Metadata solana.PublicKey
	Name     string
	Symbol   string
	URI      string
	Decimals uint8
	Supply   uint64
}

// Issuer creates and mints the token class of one program.
type Issuer struct {
	deriver   *derive.Deriver
	authority *custody.Authority
}

// New creates an Issuer.
func New(deriver *derive.Deriver, authority *custody.Authority) *Issuer {
	return &Issuer{deriver: deriver, authority: authority}
}

// MintAddress returns the address of the token class and its authority proof index.
func (i *Issuer) MintAddress() (solana.PublicKey, derive.ProofIndex, error) {
	return i.deriver.DeriveProgram(derive.PurposeIssuance)
}

// CreateTokenClass allocates the mint and metadata accounts. A second call fails with ErrAlreadyExists.
func (i *Issuer) CreateTokenClass(tx *runtime.Tx, md Metadata) (*TokenClass, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}

	mint, index, err := i.MintAddress()
	if err != nil {
		return nil, err
	}
	metadata, _, err := solana.FindTokenMetadataAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("failed to find metadata address: %w", err)
	}

	mintAcct, err := tx.Create(mint, solana.TokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("token class: %w", err)
	}
	if mintAcct.Data, err = encode(mintAccount{Decimals: md.Decimals, AuthorityIndex: index}); err != nil {
		return nil, err
	}

	metaAcct, err := tx.Create(metadata, solana.TokenMetadataProgramID)
	if err != nil {
		return nil, fmt.Errorf("token metadata: %w", err)
	}
	if metaAcct.Data, err = encode(metadataAccount{Mint: mint, Name: md.Name, Symbol: md.Symbol, URI: md.URI}); err != nil {
		return nil, err
	}

	return &TokenClass{
		Mint:     mint,
		Metadata: metadata,
		Name:     md.Name,
		Symbol:   md.Symbol,
		URI:      md.URI,
		Decimals: md.Decimals,
	}, nil
}

// LoadTokenClass reads the token class at mint, or ErrUnknownTokenClass.
func (i *Issuer) LoadTokenClass(tx *runtime.Tx, mint solana.PublicKey) (*TokenClass, error) {
	class, _, err := i.load(tx, mint)
	return class, err
}

func (i *Issuer) load(tx *runtime.Tx, mint solana.PublicKey) (*TokenClass, *mintAccount, error) {
	acct, err := tx.Account(mint)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrUnknownTokenClass, mint)
	}
	if err != nil {
		return nil, nil, err
	}
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return nil, nil, fmt.Errorf("%w: %s", errs.ErrUnknownTokenClass, mint)
	}
	var m mintAccount
	if err := decode(acct.Data, &m); err != nil {
		return nil, nil, fmt.Errorf("mint %s: %w", mint, err)
	}

	class := &TokenClass{Mint: mint, Decimals: m.Decimals, Supply: m.Supply}
	metadata, _, err := solana.FindTokenMetadataAddress(mint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find metadata address: %w", err)
	}
	metaAcct, err := tx.Account(metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("metadata for %s: %w", mint, err)
	}
	var md metadataAccount
	if err := decode(metaAcct.Data, &md); err != nil {
		return nil, nil, fmt.Errorf("metadata %s: %w", metadata, err)
	}
	class.Metadata = metadata
	class.Name, class.Symbol, class.URI = md.Name, md.Symbol, md.URI
	return class, &m, nil
}

// Mint creates amount new units in the token account of destination.
// The capability is rebuilt from the authority index cached on the mint.
func (i *Issuer) Mint(tx *runtime.Tx, mint solana.PublicKey, amount uint64, destination solana.PublicKey) error {
	expected, index, err := i.MintAddress()
	if err != nil {
		return err
	}
	if !mint.Equals(expected) {
		return fmt.Errorf("%w: %s is not minted by this program", errs.ErrAuthorityMismatch, mint)
	}

	_, m, err := i.load(tx, mint)
	if err != nil {
		return err
	}
	if m.AuthorityIndex != index {
		return fmt.Errorf("%w: mint authority cached %d, derived %d", errs.ErrDerivationDrift, m.AuthorityIndex, index)
	}
	if err := i.authority.AuthorizeProgram(derive.PurposeIssuance, m.AuthorityIndex).Verify(mint); err != nil {
		return err
	}

	if m.Supply, err = common.CheckedAdd(m.Supply, amount); err != nil {
		return fmt.Errorf("supply: %w", err)
	}
	dst, err := transfer.EnsureTokenAccount(tx, destination, mint)
	if err != nil {
		return err
	}
	if dst.Amount, err = common.CheckedAdd(dst.Amount, amount); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if err := transfer.SaveTokenAccount(tx, dst); err != nil {
		return err
	}

	mintAcct, err := tx.Account(mint)
	if err != nil {
		return err
	}
	mintAcct.Data, err = encode(m)
	return err
}
