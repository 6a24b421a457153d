package contract

import "lnpbp.dev/rgb-consensus/rgb/strict"

// Genesis is the root operation of a contract (spec.md §3.4). Its
// assignments are Txid-shaped: genesis seals refer to an existing,
// already-confirmed txid, never to a not-yet-anchored witness.
type Genesis struct {
	Ffv                 uint16
	SchemaId            SchemaId
	Timestamp           int64
	Issuer              Identity
	ChainNet            ChainNet
	SealClosingStrategy SealClosingStrategy
	Metadata            Metadata
	Globals             GlobalState
	Assignments         Assignments
}

func (g Genesis) EncodeStrict(w *strict.Writer) error {
	w.WriteU16(g.Ffv)
	w.WriteRaw(g.SchemaId[:])
	w.WriteI64(g.Timestamp)
	if err := g.Issuer.EncodeStrict(w); err != nil {
		return err
	}
	w.WriteU8(uint8(g.ChainNet))
	w.WriteU8(uint8(g.SealClosingStrategy))
	if err := g.Metadata.EncodeStrict(w); err != nil {
		return err
	}
	if err := g.Globals.EncodeStrict(w); err != nil {
		return err
	}
	return g.Assignments.EncodeStrict(w, SealShapeGenesis)
}

func (g *Genesis) DecodeStrict(r *strict.Reader) error {
	var err error
	if g.Ffv, err = r.ReadU16(); err != nil {
		return err
	}
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(g.SchemaId[:], b)
	if g.Timestamp, err = r.ReadI64(); err != nil {
		return err
	}
	if err := g.Issuer.DecodeStrict(r); err != nil {
		return err
	}
	chainNet, err := r.ReadU8()
	if err != nil {
		return err
	}
	g.ChainNet = ChainNet(chainNet)
	closing, err := r.ReadU8()
	if err != nil {
		return err
	}
	g.SealClosingStrategy = SealClosingStrategy(closing)
	if err := g.Metadata.DecodeStrict(r); err != nil {
		return err
	}
	if err := g.Globals.DecodeStrict(r); err != nil {
		return err
	}
	g.Assignments, err = DecodeAssignments(r, SealShapeGenesis)
	return err
}

// Conceal returns a copy of g with every assignment's seal replaced by its
// SecretSeal (spec.md §4.3).
func (g Genesis) Conceal() Genesis {
	out := g
	out.Assignments = g.Assignments.ConcealAll()
	return out
}
