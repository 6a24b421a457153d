package contract

import (
	"fmt"
	"sort"

	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// KnownTransition is one fully-revealed member of a TransitionBundle: the
// transition's frozen OpId plus the transition itself.
type KnownTransition struct {
	OpId       OpId
	Transition Transition
}

// TransitionBundle groups every transition sharing one witness
// transaction (spec.md §3.4). InputMap binds each consumed Opout to the
// OpId of the transition that spends it — the minimum information needed
// to verify single-use-seal closure; it deliberately does not bind the
// transitions' full contents (spec.md §4.4.2 rationale).
type TransitionBundle struct {
	InputMap         map[Opout]OpId
	KnownTransitions []KnownTransition
}

// Validate checks the structural invariants of spec.md §3.6: InputMap is
// non-empty, every InputMap value appears as some KnownTransition's OpId,
// and every KnownTransition's inputs appear as InputMap keys.
func (b TransitionBundle) Validate() error {
	if len(b.InputMap) == 0 {
		return fmt.Errorf("contract: bundle input map is empty")
	}
	known := make(map[OpId]bool, len(b.KnownTransitions))
	for _, kt := range b.KnownTransitions {
		known[kt.OpId] = true
	}
	for opout, opid := range b.InputMap {
		if !known[opid] {
			return fmt.Errorf("contract: bundle input map references unknown opid for %s", opout)
		}
	}
	for _, kt := range b.KnownTransitions {
		for _, in := range kt.Transition.Inputs {
			if _, ok := b.InputMap[in]; !ok {
				return fmt.Errorf("contract: transition %s input %s missing from bundle input map", kt.OpId, in)
			}
		}
	}
	return nil
}

func (b TransitionBundle) sortedOpouts() []Opout {
	outs := make([]Opout, 0, len(b.InputMap))
	for o := range b.InputMap {
		outs = append(outs, o)
	}
	sort.Slice(outs, func(i, j int) bool {
		return string(outs[i].Bytes()) < string(outs[j].Bytes())
	})
	return outs
}

// EncodeInputMap encodes just the InputMap, sorted by Opout — this is the
// payload rgb/commit hashes for BundleId (spec.md §4.4.2); the
// KnownTransitions list is local bookkeeping, never part of the
// commitment.
func (b TransitionBundle) EncodeInputMap(w *strict.Writer) error {
	outs := b.sortedOpouts()
	if err := w.WriteLen(strict.Width16, len(outs)); err != nil {
		return err
	}
	for _, o := range outs {
		if err := o.EncodeStrict(w); err != nil {
			return err
		}
		opid := b.InputMap[o]
		w.WriteRaw(opid[:])
	}
	return nil
}

// EncodeStrict is the bundle's own full wire form — InputMap plus
// KnownTransitions — used wherever a bundle needs to round-trip whole
// (storage, the CLI), as opposed to EncodeInputMap's narrower commitment
// payload which deliberately drops KnownTransitions.
func (b TransitionBundle) EncodeStrict(w *strict.Writer) error {
	outs := b.sortedOpouts()
	if err := w.WriteLen(strict.Width16, len(outs)); err != nil {
		return err
	}
	for _, o := range outs {
		if err := o.EncodeStrict(w); err != nil {
			return err
		}
		opid := b.InputMap[o]
		w.WriteRaw(opid[:])
	}

	sortedKnown := make([]KnownTransition, len(b.KnownTransitions))
	copy(sortedKnown, b.KnownTransitions)
	sort.Slice(sortedKnown, func(i, j int) bool {
		return string(sortedKnown[i].OpId[:]) < string(sortedKnown[j].OpId[:])
	})
	if err := w.WriteLen(strict.Width16, len(sortedKnown)); err != nil {
		return err
	}
	for _, kt := range sortedKnown {
		w.WriteRaw(kt.OpId[:])
		if err := kt.Transition.EncodeStrict(w); err != nil {
			return err
		}
	}
	return nil
}

func (b *TransitionBundle) DecodeStrict(r *strict.Reader) error {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	inputMap := make(map[Opout]OpId, n)
	for i := 0; i < n; i++ {
		var o Opout
		if err := o.DecodeStrict(r); err != nil {
			return err
		}
		raw, err := r.ReadRaw(32)
		if err != nil {
			return err
		}
		var opid OpId
		copy(opid[:], raw)
		inputMap[o] = opid
	}

	m, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	known := make([]KnownTransition, m)
	for i := 0; i < m; i++ {
		raw, err := r.ReadRaw(32)
		if err != nil {
			return err
		}
		var opid OpId
		copy(opid[:], raw)
		var t Transition
		if err := t.DecodeStrict(r); err != nil {
			return err
		}
		known[i] = KnownTransition{OpId: opid, Transition: t}
	}

	b.InputMap = inputMap
	b.KnownTransitions = known
	return nil
}
