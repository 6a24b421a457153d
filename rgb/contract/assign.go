package contract

import (
	"fmt"
	"sort"

	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// SealShape selects which concrete revealed-seal type an assignment list
// decodes to: genesis assignments are Txid-shaped, transition assignments
// are TxPtr-shaped (spec.md §3.4).
type SealShape int

const (
	SealShapeGenesis SealShape = iota
	SealShapeTransition
)

// Assign pairs a seal (revealed or already-confidential) with a state
// value. Exactly one of RevealedSeal/Confidential is meaningful, selected
// by Revealed.
type Assign struct {
	Revealed     bool
	RevealedSeal Seal // valid iff Revealed
	Confidential SecretSeal
	State        State
}

const (
	assignRevealed     = 0x00
	assignConfidential = 0x01
)

func (a Assign) EncodeStrict(w *strict.Writer) error {
	if a.Revealed {
		w.WriteU8(assignRevealed)
		if err := a.RevealedSeal.EncodeStrict(w); err != nil {
			return err
		}
	} else {
		w.WriteU8(assignConfidential)
		if err := a.Confidential.EncodeStrict(w); err != nil {
			return err
		}
	}
	return a.State.EncodeStrict(w)
}

func decodeAssign(r *strict.Reader, shape SealShape, kind StateKind) (Assign, error) {
	disc, err := r.ReadU8()
	if err != nil {
		return Assign{}, err
	}
	var a Assign
	switch disc {
	case assignRevealed:
		a.Revealed = true
		switch shape {
		case SealShapeGenesis:
			var s GenesisSeal
			if err := s.DecodeStrict(r); err != nil {
				return Assign{}, err
			}
			a.RevealedSeal = s
		case SealShapeTransition:
			var s TransitionSeal
			if err := s.DecodeStrict(r); err != nil {
				return Assign{}, err
			}
			a.RevealedSeal = s
		default:
			return Assign{}, fmt.Errorf("contract: unknown seal shape %d", shape)
		}
	case assignConfidential:
		a.Revealed = false
		if err := a.Confidential.DecodeStrict(r); err != nil {
			return Assign{}, err
		}
	default:
		return Assign{}, errUnknownDiscriminant("Assign", disc)
	}

	state, err := decodeState(r, kind)
	if err != nil {
		return Assign{}, err
	}
	a.State = state
	return a, nil
}

func decodeState(r *strict.Reader, kind StateKind) (State, error) {
	switch kind {
	case StateKindDeclarative:
		var s VoidState
		return s, s.DecodeStrict(r)
	case StateKindFungible:
		var s FungibleState
		return s, s.DecodeStrict(r)
	case StateKindStructured:
		var s RevealedData
		return s, s.DecodeStrict(r)
	default:
		return nil, fmt.Errorf("contract: unknown state kind %d", kind)
	}
}

// Conceal replaces a revealed seal with its SecretSeal. State is never
// concealed (spec.md §4.3: "RGB at this version hides seals, not state
// values").
func (a Assign) Conceal() Assign {
	if !a.Revealed {
		return a
	}
	return Assign{Revealed: false, Confidential: a.RevealedSeal.Conceal(), State: a.State}
}

// TypedAssigns is one of the three tagged-union variants of spec.md §3.3:
// a non-empty list of assignments all sharing the same state kind.
type TypedAssigns struct {
	Kind  StateKind
	Items []Assign
}

func (t TypedAssigns) Validate() error {
	if len(t.Items) == 0 {
		return fmt.Errorf("contract: typed assigns for kind %s has no elements", t.Kind)
	}
	for i, it := range t.Items {
		if it.State == nil || it.State.Kind() != t.Kind {
			return fmt.Errorf("contract: typed assigns[%d] state kind mismatch: want %s", i, t.Kind)
		}
	}
	return nil
}

func (t TypedAssigns) ConcealAll() TypedAssigns {
	items := make([]Assign, len(t.Items))
	for i, it := range t.Items {
		items[i] = it.Conceal()
	}
	return TypedAssigns{Kind: t.Kind, Items: items}
}

func (t TypedAssigns) EncodeStrict(w *strict.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	w.WriteU8(uint8(t.Kind))
	if err := w.WriteLen(strict.Width16, len(t.Items)); err != nil {
		return err
	}
	for _, it := range t.Items {
		if err := it.EncodeStrict(w); err != nil {
			return err
		}
	}
	return nil
}

func decodeTypedAssigns(r *strict.Reader, shape SealShape) (TypedAssigns, error) {
	k, err := r.ReadU8()
	if err != nil {
		return TypedAssigns{}, err
	}
	kind := StateKind(k)
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return TypedAssigns{}, err
	}
	items := make([]Assign, n)
	for i := 0; i < n; i++ {
		a, err := decodeAssign(r, shape, kind)
		if err != nil {
			return TypedAssigns{}, err
		}
		items[i] = a
	}
	out := TypedAssigns{Kind: kind, Items: items}
	if err := out.Validate(); err != nil {
		return TypedAssigns{}, err
	}
	return out, nil
}

// Assignments is the full Assignments map of an operation: AssignmentType
// -> TypedAssigns (spec.md §3.4).
type Assignments map[AssignmentType]TypedAssigns

func (a Assignments) sortedTypes() []AssignmentType {
	types := make([]AssignmentType, 0, len(a))
	for ty := range a {
		types = append(types, ty)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (a Assignments) EncodeStrict(w *strict.Writer, shape SealShape) error {
	types := a.sortedTypes()
	if err := w.WriteLen(strict.Width16, len(types)); err != nil {
		return err
	}
	for _, ty := range types {
		w.WriteU16(uint16(ty))
		if err := a[ty].EncodeStrict(w); err != nil {
			return err
		}
	}
	return nil
}

func DecodeAssignments(r *strict.Reader, shape SealShape) (Assignments, error) {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return nil, err
	}
	out := make(Assignments, n)
	var prev AssignmentType
	for i := 0; i < n; i++ {
		tyRaw, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		ty := AssignmentType(tyRaw)
		if i > 0 && ty <= prev {
			return nil, fmt.Errorf("contract: assignments not in strict key order")
		}
		prev = ty
		ta, err := decodeTypedAssigns(r, shape)
		if err != nil {
			return nil, err
		}
		out[ty] = ta
	}
	return out, nil
}

func (a Assignments) ConcealAll() Assignments {
	out := make(Assignments, len(a))
	for ty, ta := range a {
		out[ty] = ta.ConcealAll()
	}
	return out
}
