// Package state implements the contract state assembler of spec.md §4.6:
// reconstructing and incrementally advancing a contract's unspent-
// assignment set from its genesis and its transitions.
package state

import (
	"fmt"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// Unspent is the unspent-assignment set of a contract at some point in its
// history: every Opout produced by an operation that has not yet been
// consumed by a later transition's inputs.
type Unspent map[contract.Opout]contract.Assign

// FromGenesis seeds an Unspent set with every assignment genesis produces,
// keyed under its own OpId — spec.md §8 scenario S1's "state has one
// unspent Opout{op=ContractId, ty=1, no=0}" (ContractId and genesis OpId
// are the same bytes, per spec.md §4.4.4).
func FromGenesis(genesis contract.Genesis) Unspent {
	return fromAssignments(commit.OpIdOfGenesis(genesis), genesis.Assignments)
}

func fromAssignments(opID contract.OpId, assignments contract.Assignments) Unspent {
	out := make(Unspent)
	for ty, ta := range assignments {
		for no, item := range ta.Items {
			out[contract.Opout{Op: opID, Ty: ty, No: uint16(no)}] = item
		}
	}
	return out
}

// Apply incrementally advances u by one transition: it removes every Opout
// the transition consumes and adds every assignment it produces, keyed
// under the transition's own OpId, as one atomic step (spec.md §4.6). u
// itself is left untouched; Apply returns a new set.
func Apply(u Unspent, t contract.Transition) (Unspent, error) {
	out := make(Unspent, len(u))
	for opout, assign := range u {
		out[opout] = assign
	}
	for _, in := range t.Inputs {
		if _, ok := out[in]; !ok {
			return nil, fmt.Errorf("rgb/state: transition consumes unknown or already-spent opout %s", in)
		}
		delete(out, in)
	}
	opID := commit.OpIdOfTransition(t)
	for opout, assign := range fromAssignments(opID, t.Assignments) {
		out[opout] = assign
	}
	return out, nil
}

// Assemble walks genesis followed by transitions in dependency order and
// applies each in turn, returning the final unspent set. A transition
// referencing a predecessor absent from genesis+transitions is a fatal
// error, per spec.md §4.6 ("absence of a referenced predecessor is a fatal
// error"), not a silently-dropped transition.
func Assemble(genesis contract.Genesis, transitions []contract.Transition) (Unspent, error) {
	ordered, err := TopologicalSort(genesis, transitions)
	if err != nil {
		return nil, err
	}
	u := FromGenesis(genesis)
	for _, t := range ordered {
		u, err = Apply(u, t)
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}
