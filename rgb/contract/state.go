package contract

import "lnpbp.dev/rgb-consensus/rgb/strict"

// State is implemented by the three state variants of spec.md §3.3. Kind
// reports the StateKind discriminant so generic code (TypedAssigns,
// schema validation) can check variant agreement without a type switch at
// every call site.
type State interface {
	strict.Marshaler
	Kind() StateKind
}

// VoidState carries no data: declarative assignments exist only as a
// witness that a seal was defined, never to transfer a value.
type VoidState struct{}

func (VoidState) Kind() StateKind                        { return StateKindDeclarative }
func (VoidState) EncodeStrict(w *strict.Writer) error     { return nil }
func (s *VoidState) DecodeStrict(r *strict.Reader) error   { return nil }

// FungibleState holds the one active fungible representation at this
// protocol version: an unsigned 64-bit amount.
type FungibleState struct {
	Bits64 uint64
}

func (FungibleState) Kind() StateKind { return StateKindFungible }

func (s FungibleState) EncodeStrict(w *strict.Writer) error {
	w.WriteU8(uint8(FungibleTypeUnsigned64Bit))
	w.WriteU64(s.Bits64)
	return nil
}

func (s *FungibleState) DecodeStrict(r *strict.Reader) error {
	ft, err := r.ReadU8()
	if err != nil {
		return err
	}
	if !FungibleType(ft).Valid() {
		return errUnknownDiscriminant("FungibleType", ft)
	}
	s.Bits64, err = r.ReadU64()
	return err
}

// RevealedData is opaque to the core; schema-interpreted structured state.
type RevealedData struct {
	Data []byte
}

func (RevealedData) Kind() StateKind { return StateKindStructured }

func (s RevealedData) EncodeStrict(w *strict.Writer) error {
	return w.WriteBytes(strict.Width16, s.Data)
}

func (s *RevealedData) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadBytes(strict.Width16)
	if err != nil {
		return err
	}
	s.Data = b
	return nil
}
