package issuance

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/escrow-ledger/internal/errs"
)

var (
	mintDiscriminator     = bin.SighashAccount("TokenMint")
	metadataDiscriminator = bin.SighashAccount("TokenMetadata")
)

// mintAccount is the data stored at the token class address.
type mintAccount struct {
	Supply         uint64
	Decimals       uint8
	AuthorityIndex uint8
}

func (m mintAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(mintDiscriminator, false); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Supply, bin.LE); err != nil {
		return err
	}
	if err := enc.WriteUint8(m.Decimals); err != nil {
		return err
	}
	return enc.WriteUint8(m.AuthorityIndex)
}

func (m *mintAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err := readDiscriminator(dec, mintDiscriminator); err != nil {
		return err
	}
	if m.Supply, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return err
	}
	m.AuthorityIndex, err = dec.ReadUint8()
	return err
}

// metadataAccount is the data stored at the token class metadata address.
type metadataAccount struct {
	Mint   solana.PublicKey
	Name   string
	Symbol string
	URI    string
}

func (m metadataAccount) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(metadataDiscriminator, false); err != nil {
		return err
	}
	if err := enc.WriteBytes(m.Mint[:], false); err != nil {
		return err
	}
	for _, s := range []string{m.Name, m.Symbol, m.URI} {
		if err := enc.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func (m *metadataAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if err := readDiscriminator(dec, metadataDiscriminator); err != nil {
		return err
	}
	mint, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	m.Mint = solana.PublicKeyFromBytes(mint)
	for _, dst := range []*string{&m.Name, &m.Symbol, &m.URI} {
		if *dst, err = dec.ReadString(); err != nil {
			return err
		}
	}
	return nil
}

func readDiscriminator(dec *bin.Decoder, want []byte) error {
	got, err := dec.ReadNBytes(len(want))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: unexpected discriminator %x", errs.ErrCorruptAccount, got)
	}
	return nil
}

func encode(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode account: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v interface{}) error {
	if err := bin.NewBorshDecoder(data).Decode(v); err != nil {
		if errs.IsFatal(err) {
			return err
		}
		return fmt.Errorf("%w: %v", errs.ErrCorruptAccount, err)
	}
	return nil
}
