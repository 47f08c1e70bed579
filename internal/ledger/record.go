// Package ledger keeps the owed balance of each custody address.
package ledger

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/AlexZinkM/escrow-ledger/internal/common"
	"github.com/AlexZinkM/escrow-ledger/internal/derive"
	"github.com/AlexZinkM/escrow-ledger/internal/errs"
)

var recordDiscriminator = bin.SighashAccount("EscrowRecord")

// Slot selects which cached proof index an operation refers to.
type Slot int

const (
	SlotNative Slot = iota
	SlotToken
)

func (s Slot) String() string {
	switch s {
	case SlotNative:
		return "native"
	case SlotToken:
		return "token"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// State is the lifecycle position of a record.
type State int

const (
	Uninitialized State = iota
	Funded
	Empty
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Funded:
		return "FUNDED"
	case Empty:
		return "EMPTY"
	default:
		return "UNKNOWN"
	}
}

// Record is the persisted balance of one user for one escrow kind.
// A nil proof index has not been cached yet; every value 0..255 is a valid index.
type Record struct {
	Balance          uint64
	NativeProofIndex *derive.ProofIndex
	TokenProofIndex  *derive.ProofIndex
}

// ProofIndex returns the cached index for slot.
func (r *Record) ProofIndex(slot Slot) (derive.ProofIndex, bool) {
	p := r.slot(slot)
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

func (r *Record) slot(slot Slot) **derive.ProofIndex {
	switch slot {
	case SlotNative:
		return &r.NativeProofIndex
	case SlotToken:
		return &r.TokenProofIndex
	default:
		return nil
	}
}

// CacheProofIndex stores index in slot the first time and afterwards only accepts the same value.
func (r *Record) CacheProofIndex(slot Slot, index derive.ProofIndex) error {
	p := r.slot(slot)
	if p == nil {
		return fmt.Errorf("unknown proof index slot %s", slot)
	}
	if *p == nil {
		v := index
		*p = &v
		return nil
	}
	if **p != index {
		return fmt.Errorf("%w: %s slot holds %d, derived %d", errs.ErrDerivationDrift, slot, **p, index)
	}
	return nil
}

// Credit adds amount to the balance, refusing to wrap.
func (r *Record) Credit(amount uint64) error {
	sum, err := common.CheckedAdd(r.Balance, amount)
	if err != nil {
		return fmt.Errorf("%w: balance %d + %d", err, r.Balance, amount)
	}
	r.Balance = sum
	return nil
}

// DebitAll zeroes the balance and returns what it held.
func (r *Record) DebitAll() (uint64, error) {
	if r.Balance == 0 {
		return 0, errs.ErrInsufficientBalance
	}
	amount := r.Balance
	r.Balance = 0
	return amount, nil
}

// State reports Funded or Empty. Uninitialized only applies to a missing record.
func (r *Record) State() State {
	if r.Balance > 0 {
		return Funded
	}
	return Empty
}

func (r Record) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(recordDiscriminator, false); err != nil {
		return err
	}
	if err := enc.WriteUint64(r.Balance, bin.LE); err != nil {
		return err
	}
	for _, idx := range []*derive.ProofIndex{r.NativeProofIndex, r.TokenProofIndex} {
		if err := enc.WriteOption(idx != nil); err != nil {
			return err
		}
		if idx != nil {
			if err := enc.WriteUint8(*idx); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Record) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	disc, err := dec.ReadNBytes(len(recordDiscriminator))
	if err != nil {
		return err
	}
	if !bytes.Equal(disc, recordDiscriminator) {
		return fmt.Errorf("%w: not an escrow record", errs.ErrCorruptAccount)
	}
	if r.Balance, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	for _, dst := range []**derive.ProofIndex{&r.NativeProofIndex, &r.TokenProofIndex} {
		present, err := dec.ReadOption()
		if err != nil {
			return err
		}
		if !present {
			*dst = nil
			continue
		}
		v, err := dec.ReadUint8()
		if err != nil {
			return err
		}
		*dst = &v
	}
	return nil
}

// Encode serializes the record as account data.
func (r *Record) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeRecord parses account data written by Encode.
func DecodeRecord(data []byte) (*Record, error) {
	var r Record
	if err := bin.NewBorshDecoder(data).Decode(&r); err != nil {
		if errs.IsFatal(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptAccount, err)
	}
	return &r, nil
}
