package validate

import (
	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// Resolver supplies previously-produced assignments to the validator and
// state assembler: spec.md §4.5's "a resolver supplying previous
// assignments by Opout." A deployment backs this with its persisted
// operation store (rgbnode/store); self-contained validation backs it with
// SetResolver, built directly from the operation set under validation.
type Resolver interface {
	// HasOperation reports whether opID is known at all, distinguishing
	// UnknownPredecessor (operation missing entirely) from BadOpoutIndex
	// (operation known, assignment index out of range).
	HasOperation(opID contract.OpId) bool
	// ResolveOpout returns the assignment opout refers to, if any.
	ResolveOpout(opout contract.Opout) (contract.Assign, bool)
}

// SetResolver resolves Opouts against a fixed, self-contained set of
// operations: one genesis plus zero or more transitions. This is the
// resolver spec.md §8 scenarios S1-S6 exercise directly — no persistence,
// just the operations under test.
type SetResolver struct {
	ops map[contract.OpId]contract.Assignments
}

// NewSetResolver indexes genesis and transitions by their own OpId (computed
// via rgb/commit) so Opout inputs can resolve against operations validated
// in the same run.
func NewSetResolver(genesis contract.Genesis, transitions []contract.Transition) *SetResolver {
	ops := make(map[contract.OpId]contract.Assignments, 1+len(transitions))
	ops[commit.OpIdOfGenesis(genesis)] = genesis.Assignments
	for _, t := range transitions {
		ops[commit.OpIdOfTransition(t)] = t.Assignments
	}
	return &SetResolver{ops: ops}
}

func (r *SetResolver) HasOperation(opID contract.OpId) bool {
	_, ok := r.ops[opID]
	return ok
}

func (r *SetResolver) ResolveOpout(opout contract.Opout) (contract.Assign, bool) {
	assignments, ok := r.ops[opout.Op]
	if !ok {
		return contract.Assign{}, false
	}
	ta, ok := assignments[opout.Ty]
	if !ok || int(opout.No) >= len(ta.Items) {
		return contract.Assign{}, false
	}
	return ta.Items[opout.No], true
}

// WitnessOrd mirrors original_source/validation/validator.rs's WitnessOrd:
// the confirmation status a chain-data backend attaches to a witness
// transaction closing a seal. Only WitnessMined carries a meaningful
// height.
type WitnessOrd uint8

const (
	WitnessMined WitnessOrd = iota
	WitnessTentative
	WitnessIgnored
	WitnessArchived
)

// WitnessResolver optionally supplies confirmation status for the witness
// transactions closing a validation run's TransitionSeals. It is separate
// from Resolver (which resolves Opouts to assignments): most deployments,
// and every self-contained test scenario built on SetResolver, have no
// chain data backing it, so a nil WitnessResolver in Options simply skips
// the unsafe-history check rather than forcing every caller to implement
// one.
type WitnessResolver interface {
	// WitnessOrdinal reports txid's confirmation status. ok is false if
	// the backend has never seen the transaction at all.
	WitnessOrdinal(txid [32]byte) (height uint32, ord WitnessOrd, ok bool)
}
