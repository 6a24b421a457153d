package contract

import "lnpbp.dev/rgb-consensus/rgb/strict"

// Transition spends prior assignments (its Inputs) and produces new ones.
// Its assignments are TxPtr-shaped, so a transition can be built, signed
// and composed before its own witness transaction exists (spec.md §3.4,
// §9 on TxPtr::WitnessTx).
type Transition struct {
	Ffv            uint16
	ContractId     ContractId
	Nonce          uint64
	TransitionType TransitionType
	Metadata       Metadata
	Globals        GlobalState
	Inputs         InputSet
	Assignments    Assignments
	Signature      []byte // optional; empty when absent
}

func (t Transition) EncodeStrict(w *strict.Writer) error {
	w.WriteU16(t.Ffv)
	w.WriteRaw(t.ContractId[:])
	w.WriteU64(t.Nonce)
	w.WriteU16(uint16(t.TransitionType))
	if err := t.Metadata.EncodeStrict(w); err != nil {
		return err
	}
	if err := t.Globals.EncodeStrict(w); err != nil {
		return err
	}
	if err := t.Inputs.EncodeStrict(w); err != nil {
		return err
	}
	if err := t.Assignments.EncodeStrict(w, SealShapeTransition); err != nil {
		return err
	}
	w.WriteBool(len(t.Signature) > 0)
	if len(t.Signature) > 0 {
		return w.WriteBytes(strict.Width16, t.Signature)
	}
	return nil
}

func (t *Transition) DecodeStrict(r *strict.Reader) error {
	var err error
	if t.Ffv, err = r.ReadU16(); err != nil {
		return err
	}
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(t.ContractId[:], b)
	if t.Nonce, err = r.ReadU64(); err != nil {
		return err
	}
	tt, err := r.ReadU16()
	if err != nil {
		return err
	}
	t.TransitionType = TransitionType(tt)
	if err := t.Metadata.DecodeStrict(r); err != nil {
		return err
	}
	if err := t.Globals.DecodeStrict(r); err != nil {
		return err
	}
	if err := t.Inputs.DecodeStrict(r); err != nil {
		return err
	}
	t.Assignments, err = DecodeAssignments(r, SealShapeTransition)
	if err != nil {
		return err
	}
	hasSig, err := r.ReadBool()
	if err != nil {
		return err
	}
	if hasSig {
		t.Signature, err = r.ReadBytes(strict.Width16)
		return err
	}
	return nil
}

// Conceal returns a copy of t with every assignment's seal replaced by its
// SecretSeal.
func (t Transition) Conceal() Transition {
	out := t
	out.Assignments = t.Assignments.ConcealAll()
	return out
}
