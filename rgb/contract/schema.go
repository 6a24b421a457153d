package contract

import (
	"sort"

	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// LibSite addresses one entry point in an attached validator library:
// spec.md §4.5 step 3's (LibId, entry_offset).
type LibSite struct {
	Lib   LibId
	Entry uint16
}

func (l LibSite) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(l.Lib[:])
	w.WriteU16(l.Entry)
	return nil
}

func (l *LibSite) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(l.Lib[:], b)
	l.Entry, err = r.ReadU16()
	return err
}

func encodeOptionalLibSite(w *strict.Writer, site *LibSite) error {
	w.WriteBool(site != nil)
	if site != nil {
		return site.EncodeStrict(w)
	}
	return nil
}

func decodeOptionalLibSite(r *strict.Reader) (*LibSite, error) {
	present, err := r.ReadBool()
	if err != nil || !present {
		return nil, err
	}
	var site LibSite
	if err := site.DecodeStrict(r); err != nil {
		return nil, err
	}
	return &site, nil
}

// MetaDetails declares, for one MetaType, the semantic id its payloads
// must decode against (spec.md §3.5).
type MetaDetails struct {
	SemId SemId
	Name  string
}

func (d MetaDetails) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(d.SemId[:])
	return w.WriteBytes(strict.Width8, []byte(d.Name))
}

func (d *MetaDetails) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(d.SemId[:], b)
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	d.Name = string(name)
	return nil
}

// GlobalDetails declares, for one GlobalStateType, its decode semantics
// and the hard cap on how many values an operation may carry under it.
type GlobalDetails struct {
	SemId    SemId
	MaxItems uint16
	Name     string
}

func (d GlobalDetails) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(d.SemId[:])
	w.WriteU16(d.MaxItems)
	return w.WriteBytes(strict.Width8, []byte(d.Name))
}

func (d *GlobalDetails) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(d.SemId[:], b)
	var err2 error
	if d.MaxItems, err2 = r.ReadU16(); err2 != nil {
		return err2
	}
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	d.Name = string(name)
	return nil
}

// OwnedStateSchema is the tagged union declaring what shape an
// AssignmentType's state must have (spec.md §3.5): declarative, fungible
// (with a FungibleType), or structured (with a SemId).
type OwnedStateSchema struct {
	Kind         StateKind
	FungibleType FungibleType // valid iff Kind == StateKindFungible
	SemId        SemId        // valid iff Kind == StateKindStructured
}

func (s OwnedStateSchema) EncodeStrict(w *strict.Writer) error {
	w.WriteU8(uint8(s.Kind))
	switch s.Kind {
	case StateKindDeclarative:
	case StateKindFungible:
		w.WriteU8(uint8(s.FungibleType))
	case StateKindStructured:
		w.WriteRaw(s.SemId[:])
	default:
		return errUnknownDiscriminant("OwnedStateSchema", uint8(s.Kind))
	}
	return nil
}

func (s *OwnedStateSchema) DecodeStrict(r *strict.Reader) error {
	k, err := r.ReadU8()
	if err != nil {
		return err
	}
	s.Kind = StateKind(k)
	switch s.Kind {
	case StateKindDeclarative:
		return nil
	case StateKindFungible:
		ft, err := r.ReadU8()
		if err != nil {
			return err
		}
		s.FungibleType = FungibleType(ft)
		return nil
	case StateKindStructured:
		b, err := r.ReadRaw(32)
		if err != nil {
			return err
		}
		copy(s.SemId[:], b)
		return nil
	default:
		return errUnknownDiscriminant("OwnedStateSchema", k)
	}
}

// Matches reports whether assigned's variant agrees with the schema
// (spec.md §3.6 / error kind StateShapeMismatch).
func (s OwnedStateSchema) Matches(kind StateKind) bool { return s.Kind == kind }

// AssignmentDetails declares, for one AssignmentType, its state shape and
// the transition type a wallet should default to when creating one.
// DefaultTransition is presentation-only (spec.md §9 Open Question): it
// does not affect consensus but is still part of the encoded schema and
// thus the SchemaId.
type AssignmentDetails struct {
	StateSchema       OwnedStateSchema
	Name              string
	DefaultTransition *TransitionType
}

func (d AssignmentDetails) EncodeStrict(w *strict.Writer) error {
	if err := d.StateSchema.EncodeStrict(w); err != nil {
		return err
	}
	if err := w.WriteBytes(strict.Width8, []byte(d.Name)); err != nil {
		return err
	}
	w.WriteBool(d.DefaultTransition != nil)
	if d.DefaultTransition != nil {
		w.WriteU16(uint16(*d.DefaultTransition))
	}
	return nil
}

func (d *AssignmentDetails) DecodeStrict(r *strict.Reader) error {
	if err := d.StateSchema.DecodeStrict(r); err != nil {
		return err
	}
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	d.Name = string(name)
	present, err := r.ReadBool()
	if err != nil {
		return err
	}
	if present {
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		tt := TransitionType(v)
		d.DefaultTransition = &tt
	}
	return nil
}

// encodeOccurrences/decodeOccurrences are the shared encode/decode shape
// behind every type->Occurrences table in GenesisSchema/TransitionDetails.
func encodeOccurrences[K ~uint16](w *strict.Writer, t map[K]Occurrences) error {
	keys := make([]K, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if err := w.WriteLen(strict.Width16, len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		w.WriteU16(uint16(k))
		w.WriteU16(t[k].Min)
		w.WriteU16(t[k].Max)
	}
	return nil
}

func decodeOccurrences[K ~uint16](r *strict.Reader) (map[K]Occurrences, error) {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return nil, err
	}
	out := make(map[K]Occurrences, n)
	for i := 0; i < n; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		min, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		max, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		out[K(k)] = Occurrences{Min: min, Max: max}
	}
	return out, nil
}

// GenesisSchema constrains the shape of a contract's genesis operation.
type GenesisSchema struct {
	MetaOccurrences       map[MetaType]Occurrences
	GlobalOccurrences     map[GlobalStateType]Occurrences
	AssignmentOccurrences map[AssignmentType]Occurrences
	Validator             *LibSite
}

func (g GenesisSchema) EncodeStrict(w *strict.Writer) error {
	if err := encodeOccurrences(w, g.MetaOccurrences); err != nil {
		return err
	}
	if err := encodeOccurrences(w, g.GlobalOccurrences); err != nil {
		return err
	}
	if err := encodeOccurrences(w, g.AssignmentOccurrences); err != nil {
		return err
	}
	return encodeOptionalLibSite(w, g.Validator)
}

func (g *GenesisSchema) DecodeStrict(r *strict.Reader) error {
	var err error
	if g.MetaOccurrences, err = decodeOccurrences[MetaType](r); err != nil {
		return err
	}
	if g.GlobalOccurrences, err = decodeOccurrences[GlobalStateType](r); err != nil {
		return err
	}
	if g.AssignmentOccurrences, err = decodeOccurrences[AssignmentType](r); err != nil {
		return err
	}
	g.Validator, err = decodeOptionalLibSite(r)
	return err
}

// TransitionDetails constrains the shape of transitions of one
// TransitionType.
type TransitionDetails struct {
	Name                  string
	MetaOccurrences       map[MetaType]Occurrences
	GlobalOccurrences     map[GlobalStateType]Occurrences
	InputOccurrences      map[AssignmentType]Occurrences
	AssignmentOccurrences map[AssignmentType]Occurrences
	DefaultAssignment     *AssignmentType
	Validator             *LibSite
}

func (t TransitionDetails) EncodeStrict(w *strict.Writer) error {
	if err := w.WriteBytes(strict.Width8, []byte(t.Name)); err != nil {
		return err
	}
	if err := encodeOccurrences(w, t.MetaOccurrences); err != nil {
		return err
	}
	if err := encodeOccurrences(w, t.GlobalOccurrences); err != nil {
		return err
	}
	if err := encodeOccurrences(w, t.InputOccurrences); err != nil {
		return err
	}
	if err := encodeOccurrences(w, t.AssignmentOccurrences); err != nil {
		return err
	}
	w.WriteBool(t.DefaultAssignment != nil)
	if t.DefaultAssignment != nil {
		w.WriteU16(uint16(*t.DefaultAssignment))
	}
	return encodeOptionalLibSite(w, t.Validator)
}

func (t *TransitionDetails) DecodeStrict(r *strict.Reader) error {
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	t.Name = string(name)
	if t.MetaOccurrences, err = decodeOccurrences[MetaType](r); err != nil {
		return err
	}
	if t.GlobalOccurrences, err = decodeOccurrences[GlobalStateType](r); err != nil {
		return err
	}
	if t.InputOccurrences, err = decodeOccurrences[AssignmentType](r); err != nil {
		return err
	}
	if t.AssignmentOccurrences, err = decodeOccurrences[AssignmentType](r); err != nil {
		return err
	}
	present, err := r.ReadBool()
	if err != nil {
		return err
	}
	if present {
		v, err := r.ReadU16()
		if err != nil {
			return err
		}
		at := AssignmentType(v)
		t.DefaultAssignment = &at
	}
	t.Validator, err = decodeOptionalLibSite(r)
	return err
}

// Schema is the full declaration of spec.md §3.5.
type Schema struct {
	Ffv         uint16
	Name        string
	MetaTypes   map[MetaType]MetaDetails
	GlobalTypes map[GlobalStateType]GlobalDetails
	OwnedTypes  map[AssignmentType]AssignmentDetails
	Genesis     GenesisSchema
	Transitions map[TransitionType]TransitionDetails
}

func (s Schema) EncodeStrict(w *strict.Writer) error {
	w.WriteU16(s.Ffv)
	if err := w.WriteBytes(strict.Width8, []byte(s.Name)); err != nil {
		return err
	}

	metaKeys := sortedMetaTypes(s.MetaTypes)
	if err := w.WriteLen(strict.Width16, len(metaKeys)); err != nil {
		return err
	}
	for _, k := range metaKeys {
		w.WriteU16(uint16(k))
		if err := s.MetaTypes[k].EncodeStrict(w); err != nil {
			return err
		}
	}

	globalKeys := sortedGlobalTypes(s.GlobalTypes)
	if err := w.WriteLen(strict.Width16, len(globalKeys)); err != nil {
		return err
	}
	for _, k := range globalKeys {
		w.WriteU16(uint16(k))
		if err := s.GlobalTypes[k].EncodeStrict(w); err != nil {
			return err
		}
	}

	ownedKeys := sortedAssignmentTypes(s.OwnedTypes)
	if err := w.WriteLen(strict.Width16, len(ownedKeys)); err != nil {
		return err
	}
	for _, k := range ownedKeys {
		w.WriteU16(uint16(k))
		if err := s.OwnedTypes[k].EncodeStrict(w); err != nil {
			return err
		}
	}

	if err := s.Genesis.EncodeStrict(w); err != nil {
		return err
	}

	transitionKeys := make([]TransitionType, 0, len(s.Transitions))
	for k := range s.Transitions {
		transitionKeys = append(transitionKeys, k)
	}
	sort.Slice(transitionKeys, func(i, j int) bool { return transitionKeys[i] < transitionKeys[j] })
	if err := w.WriteLen(strict.Width16, len(transitionKeys)); err != nil {
		return err
	}
	for _, k := range transitionKeys {
		w.WriteU16(uint16(k))
		if err := s.Transitions[k].EncodeStrict(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) DecodeStrict(r *strict.Reader) error {
	var err error
	if s.Ffv, err = r.ReadU16(); err != nil {
		return err
	}
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	s.Name = string(name)

	nMeta, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	s.MetaTypes = make(map[MetaType]MetaDetails, nMeta)
	for i := 0; i < nMeta; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return err
		}
		var d MetaDetails
		if err := d.DecodeStrict(r); err != nil {
			return err
		}
		s.MetaTypes[MetaType(k)] = d
	}

	nGlobal, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	s.GlobalTypes = make(map[GlobalStateType]GlobalDetails, nGlobal)
	for i := 0; i < nGlobal; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return err
		}
		var d GlobalDetails
		if err := d.DecodeStrict(r); err != nil {
			return err
		}
		s.GlobalTypes[GlobalStateType(k)] = d
	}

	nOwned, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	s.OwnedTypes = make(map[AssignmentType]AssignmentDetails, nOwned)
	for i := 0; i < nOwned; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return err
		}
		var d AssignmentDetails
		if err := d.DecodeStrict(r); err != nil {
			return err
		}
		s.OwnedTypes[AssignmentType(k)] = d
	}

	if err := s.Genesis.DecodeStrict(r); err != nil {
		return err
	}

	nTransitions, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	s.Transitions = make(map[TransitionType]TransitionDetails, nTransitions)
	for i := 0; i < nTransitions; i++ {
		k, err := r.ReadU16()
		if err != nil {
			return err
		}
		var d TransitionDetails
		if err := d.DecodeStrict(r); err != nil {
			return err
		}
		s.Transitions[TransitionType(k)] = d
	}
	return nil
}

func sortedMetaTypes(m map[MetaType]MetaDetails) []MetaType {
	out := make([]MetaType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedGlobalTypes(m map[GlobalStateType]GlobalDetails) []GlobalStateType {
	out := make([]GlobalStateType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedAssignmentTypes(m map[AssignmentType]AssignmentDetails) []AssignmentType {
	out := make([]AssignmentType, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
