package contract

import (
	"lnpbp.dev/rgb-consensus/rgb/strict"
	"lnpbp.dev/rgb-consensus/rgb/tagged"
)

// TxPtrKind discriminates the two TxPtr variants of spec.md §3.2.
type TxPtrKind uint8

const (
	// TxPtrWitnessTx is the "blank" self-reference: this transition's own
	// witness transaction, not yet known. Spec.md §9 is explicit that this
	// MUST be treated as a distinct byte value (tag 0x00, empty payload),
	// never as a placeholder filled in later inside this core.
	TxPtrWitnessTx TxPtrKind = 0
	TxPtrTxid      TxPtrKind = 1
)

// TxPtr is either the witness-tx self-reference or a concrete prior txid.
type TxPtr struct {
	Kind TxPtrKind
	Txid [32]byte // valid only when Kind == TxPtrTxid
}

func WitnessTxPtr() TxPtr             { return TxPtr{Kind: TxPtrWitnessTx} }
func TxidPtr(txid [32]byte) TxPtr     { return TxPtr{Kind: TxPtrTxid, Txid: txid} }

func (p TxPtr) EncodeStrict(w *strict.Writer) error {
	w.WriteU8(uint8(p.Kind))
	switch p.Kind {
	case TxPtrWitnessTx:
		// empty payload, by design (spec.md §9).
	case TxPtrTxid:
		w.WriteRaw(p.Txid[:])
	default:
		return errUnknownDiscriminant("TxPtr", uint8(p.Kind))
	}
	return nil
}

func (p *TxPtr) DecodeStrict(r *strict.Reader) error {
	k, err := r.ReadU8()
	if err != nil {
		return err
	}
	p.Kind = TxPtrKind(k)
	switch p.Kind {
	case TxPtrWitnessTx:
		return nil
	case TxPtrTxid:
		b, err := r.ReadRaw(32)
		if err != nil {
			return err
		}
		copy(p.Txid[:], b)
		return nil
	default:
		return errUnknownDiscriminant("TxPtr", k)
	}
}

// Seal is implemented by both revealed-seal shapes (GenesisSeal for
// genesis operations, TransitionSeal for transitions). Conceal reduces
// either to the SecretSeal form that commitments are always computed
// over (spec.md §3.2/§4.3).
type Seal interface {
	strict.Marshaler
	Conceal() SecretSeal
}

// GenesisSeal is the Txid-shaped revealed seal used by Genesis
// assignments: BlindSealTxid{txid, vout, blinding}.
type GenesisSeal struct {
	Txid     [32]byte
	Vout     uint32
	Blinding uint64
}

func (s GenesisSeal) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(s.Txid[:])
	w.WriteU32(s.Vout)
	w.WriteU64(s.Blinding)
	return nil
}

func (s *GenesisSeal) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(s.Txid[:], b)
	if s.Vout, err = r.ReadU32(); err != nil {
		return err
	}
	if s.Blinding, err = r.ReadU64(); err != nil {
		return err
	}
	return nil
}

func (s GenesisSeal) Conceal() SecretSeal { return concealSeal(s) }

// TransitionSeal is the TxPtr-shaped revealed seal used by Transition
// assignments: BlindSealTxPtr{txid: TxPtr, vout, blinding}.
type TransitionSeal struct {
	TxPtr    TxPtr
	Vout     uint32
	Blinding uint64
}

func (s TransitionSeal) EncodeStrict(w *strict.Writer) error {
	if err := s.TxPtr.EncodeStrict(w); err != nil {
		return err
	}
	w.WriteU32(s.Vout)
	w.WriteU64(s.Blinding)
	return nil
}

func (s *TransitionSeal) DecodeStrict(r *strict.Reader) error {
	if err := s.TxPtr.DecodeStrict(r); err != nil {
		return err
	}
	var err error
	if s.Vout, err = r.ReadU32(); err != nil {
		return err
	}
	if s.Blinding, err = r.ReadU64(); err != nil {
		return err
	}
	return nil
}

func (s TransitionSeal) Conceal() SecretSeal { return concealSeal(s) }

// SecretSeal is the tagged SHA-256 of a revealed seal's strict encoding —
// the confidential form every commitment is computed over (spec.md §3.2).
type SecretSeal [32]byte

func (s SecretSeal) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(s[:])
	return nil
}

func (s *SecretSeal) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(s[:], b)
	return nil
}

func concealSeal(s strict.Marshaler) SecretSeal {
	b, err := strict.Encode(s)
	if err != nil {
		// Encoding a seal this process just built can never fail; a
		// failure here means a Seal implementation is broken, which is a
		// bug, not a reportable validation error.
		panic("rgb/contract: seal failed to encode for concealment: " + err.Error())
	}
	return SecretSeal(tagged.Hash(tagged.TagSecretSeal, b))
}

func errUnknownDiscriminant(typeName string, got uint8) error {
	return &discriminantError{typeName: typeName, got: got}
}

type discriminantError struct {
	typeName string
	got      uint8
}

func (e *discriminantError) Error() string {
	return "strict: unknown discriminant 0x" + hexByte(e.got) + " for " + e.typeName
}

func hexByte(b uint8) string {
	const hexdigits = "0123456789abcdef"
	return string([]byte{hexdigits[b>>4], hexdigits[b&0xF]})
}
