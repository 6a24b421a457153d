package contract

import (
	"fmt"
	"sort"

	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// Opout uniquely identifies one assignment produced by one prior
// operation: the no-th assignment of type ty in operation op (spec.md
// §3.4).
type Opout struct {
	Op OpId
	Ty AssignmentType
	No uint16
}

func (o Opout) EncodeStrict(w *strict.Writer) error {
	w.WriteRaw(o.Op[:])
	w.WriteU16(uint16(o.Ty))
	w.WriteU16(o.No)
	return nil
}

func (o *Opout) DecodeStrict(r *strict.Reader) error {
	b, err := r.ReadRaw(32)
	if err != nil {
		return err
	}
	copy(o.Op[:], b)
	ty, err := r.ReadU16()
	if err != nil {
		return err
	}
	o.Ty = AssignmentType(ty)
	o.No, err = r.ReadU16()
	return err
}

// Bytes returns the canonical encoding used both as the Opout's own
// on-wire form and as the sort key for ordered containers keyed by Opout
// (bundle InputMap, OpCommitment Inputs).
func (o Opout) Bytes() []byte {
	b, err := strict.Encode(o)
	if err != nil {
		panic("rgb/contract: Opout failed to encode: " + err.Error())
	}
	return b
}

func (o Opout) String() string {
	return fmt.Sprintf("%s/%d/%d", OpId(o.Op), o.Ty, o.No)
}

// InputSet is a Transition's set of consumed Opouts (spec.md §3.4). It
// MUST be non-empty and duplicate-free; SortedUnique returns a
// canonically-ordered, deduplication-checked copy for commitment and
// for schema/double-spend validation.
type InputSet []Opout

func (s InputSet) EncodeStrict(w *strict.Writer) error {
	sorted, err := s.sortedUnique()
	if err != nil {
		return err
	}
	if err := w.WriteLen(strict.Width16, len(sorted)); err != nil {
		return err
	}
	for _, o := range sorted {
		if err := o.EncodeStrict(w); err != nil {
			return err
		}
	}
	return nil
}

func (s *InputSet) DecodeStrict(r *strict.Reader) error {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	out := make(InputSet, n)
	for i := 0; i < n; i++ {
		if err := out[i].DecodeStrict(r); err != nil {
			return err
		}
	}
	if _, err := out.sortedUnique(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s InputSet) sortedUnique() ([]Opout, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("contract: input set is empty")
	}
	sorted := append([]Opout(nil), s...)
	sort.Slice(sorted, func(i, j int) bool {
		return string(sorted[i].Bytes()) < string(sorted[j].Bytes())
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("contract: duplicate input %s", sorted[i])
		}
	}
	return sorted, nil
}

// Contains reports whether opout appears in the set.
func (s InputSet) Contains(opout Opout) bool {
	for _, o := range s {
		if o == opout {
			return true
		}
	}
	return false
}
