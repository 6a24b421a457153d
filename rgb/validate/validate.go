// Package validate implements the schema & operation validator of spec.md
// §4.5: structural conformance of metadata, global state and assignments
// against a Schema, input resolution and double-spend detection for
// transitions, and script-VM invocation where a schema attaches one. It
// reports every failure it finds via an accumulating rgb.Status rather than
// stopping at the first (spec.md §4.7) — the same "collect everything in
// one pass" shape the original validator's Status/Failure/Warning triad
// uses.
package validate

import (
	"fmt"

	"lnpbp.dev/rgb-consensus/rgb"
	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/vm"
)

// Options configures one validation run. Every field is optional: a nil
// Resolver is replaced by a SetResolver built from genesis and
// transitions; a nil Decoder accepts every payload; a nil ChainNet/
// SealClosingStrategy skips that particular genesis check.
type Options struct {
	ChainNet            *contract.ChainNet
	SealClosingStrategy *contract.SealClosingStrategy
	Resolver            Resolver
	Decoder             SemanticDecoder
	Libs                LibResolver

	// Witness and SafeHeight together enable the original validator's
	// unsafe-history warning (original_source/validation/validator.rs's
	// Warning::UnsafeHistory): when both are set, any transition whose
	// TransitionSeal references a witness transaction that is not
	// WitnessMined, or is Mined deeper than SafeHeight, is reported as a
	// non-fatal Warning rather than a Failure. Nil Witness skips the
	// check entirely, since no chain data backs it in self-contained
	// validation.
	Witness    WitnessResolver
	SafeHeight *uint32
}

// Validate runs the procedure of spec.md §4.5 over one genesis and its
// transitions and returns the accumulated Status. Determinism follows from
// operating purely on its arguments: no wall clock, no RNG, no environment
// reads.
func Validate(schema contract.Schema, genesis contract.Genesis, transitions []contract.Transition, opts Options) *rgb.Status {
	status := &rgb.Status{}

	decoder := opts.Decoder
	if decoder == nil {
		decoder = AcceptAllDecoder{}
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewSetResolver(genesis, transitions)
	}

	schemaID, err := commit.CommitSchema(schema)
	if err != nil {
		rgb.PanicEncodingFatal("validate.CommitSchema", err)
	}

	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	// Step 1: genesis check (spec.md §4.5 step 1).
	if genesis.SchemaId != schemaID {
		status.AddFailure(genesisOpID, rgb.ErrOf(rgb.GenesisMismatch, genesisOpID, "genesis schemaId does not match schema"))
	}
	if opts.ChainNet != nil && genesis.ChainNet != *opts.ChainNet {
		status.AddFailure(genesisOpID, rgb.ErrOf(rgb.GenesisMismatch, genesisOpID, "genesis chainNet does not match expected value"))
	}
	if opts.SealClosingStrategy != nil && genesis.SealClosingStrategy != *opts.SealClosingStrategy {
		status.AddFailure(genesisOpID, rgb.ErrOf(rgb.GenesisMismatch, genesisOpID, "genesis sealClosingStrategy does not match expected value"))
	}
	if contract.OpId(contractID) != genesisOpID {
		status.AddFailure(genesisOpID, rgb.ErrOf(rgb.GenesisMismatch, genesisOpID, "contractId does not equal genesis OpId"))
	}

	validateGenesisOp(status, schema, genesis, genesisOpID, decoder, opts.Libs)

	spent := make(map[contract.Opout]contract.OpId, len(transitions))
	for _, t := range transitions {
		opID := commit.OpIdOfTransition(t)
		validateTransitionOp(status, schema, t, opID, decoder, resolver, opts.Libs)

		// Step 4: double-spend, across the full set of transitions being
		// validated (spec.md §4.5 step 4).
		for _, in := range t.Inputs {
			if prior, ok := spent[in]; ok {
				status.AddFailure(opID, rgb.ErrOf(rgb.DoubleSpend, opID, fmt.Sprintf("opout %s already spent by operation %s", in, prior)))
				continue
			}
			spent[in] = opID
		}

		checkUnsafeHistory(status, t, opID, opts.Witness, opts.SafeHeight)
	}

	return status
}

func validateGenesisOp(status *rgb.Status, schema contract.Schema, genesis contract.Genesis, opID contract.OpId, decoder SemanticDecoder, libs LibResolver) {
	validateMetadata(status, opID, schema.MetaTypes, schema.Genesis.MetaOccurrences, genesis.Metadata, decoder)
	validateGlobals(status, opID, schema.GlobalTypes, schema.Genesis.GlobalOccurrences, genesis.Globals, decoder)
	validateAssignments(status, opID, schema.OwnedTypes, schema.Genesis.AssignmentOccurrences, genesis.Assignments, decoder)

	ctx := vm.Context{
		OpID:        opID,
		IsGenesis:   true,
		Metadata:    genesis.Metadata,
		Globals:     genesis.Globals,
		Assignments: genesis.Assignments,
	}
	runValidatorScript(status, opID, schema.Genesis.Validator, ctx, libs)
}

func validateTransitionOp(status *rgb.Status, schema contract.Schema, t contract.Transition, opID contract.OpId, decoder SemanticDecoder, resolver Resolver, libs LibResolver) {
	details, ok := schema.Transitions[t.TransitionType]
	if !ok {
		status.AddFailure(opID, rgb.ErrOf(rgb.UndeclaredTransition, opID, fmt.Sprintf("transition type %d not declared in schema", t.TransitionType)))
		return
	}

	validateMetadata(status, opID, schema.MetaTypes, details.MetaOccurrences, t.Metadata, decoder)
	validateGlobals(status, opID, schema.GlobalTypes, details.GlobalOccurrences, t.Globals, decoder)
	validateAssignments(status, opID, schema.OwnedTypes, details.AssignmentOccurrences, t.Assignments, decoder)
	validateInputs(status, opID, details, t.Inputs, resolver)

	inputs := make([]vm.ResolvedInput, 0, len(t.Inputs))
	for _, in := range t.Inputs {
		if a, ok := resolver.ResolveOpout(in); ok {
			inputs = append(inputs, vm.ResolvedInput{Opout: in, State: a.State})
		}
	}
	ctx := vm.Context{
		OpID:           opID,
		IsGenesis:      false,
		TransitionType: t.TransitionType,
		Metadata:       t.Metadata,
		Globals:        t.Globals,
		Assignments:    t.Assignments,
		Inputs:         inputs,
	}
	runValidatorScript(status, opID, details.Validator, ctx, libs)
}

// validateMetadata implements spec.md §4.5 step 2b: every present MetaType
// must be declared, its payload must decode against the declared SemId,
// and every declared type's occurrence count (0 or 1, since Metadata is a
// type->payload map) must fall within its Occurrences range.
func validateMetadata(status *rgb.Status, opID contract.OpId, metaTypes map[contract.MetaType]contract.MetaDetails, occ map[contract.MetaType]contract.Occurrences, metadata contract.Metadata, decoder SemanticDecoder) {
	for ty, payload := range metadata {
		details, ok := metaTypes[ty]
		if !ok {
			status.AddFailure(opID, rgb.ErrOf(rgb.SchemaMismatch, opID, fmt.Sprintf("metadata type %d not declared in schema", ty)))
			continue
		}
		if !decoder.Decodes(details.SemId, payload) {
			status.AddFailure(opID, rgb.ErrOf(rgb.MetaDecodeFailure, opID, fmt.Sprintf("metadata type %d payload failed semantic decode", ty)))
		}
	}
	for ty, o := range occ {
		count := 0
		if _, present := metadata[ty]; present {
			count = 1
		}
		if !o.Contains(count) {
			status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, fmt.Sprintf("metadata type %d: got %d, want [%d,%d]", ty, count, o.Min, o.Max)))
		}
	}
}

// validateGlobals implements spec.md §4.5 step 2c.
func validateGlobals(status *rgb.Status, opID contract.OpId, globalTypes map[contract.GlobalStateType]contract.GlobalDetails, occ map[contract.GlobalStateType]contract.Occurrences, globals contract.GlobalState, decoder SemanticDecoder) {
	for ty, values := range globals {
		details, ok := globalTypes[ty]
		if !ok {
			status.AddFailure(opID, rgb.ErrOf(rgb.SchemaMismatch, opID, fmt.Sprintf("global state type %d not declared in schema", ty)))
			continue
		}
		if len(values) > int(details.MaxItems) {
			status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, fmt.Sprintf("global state type %d: %d values exceeds maxItems %d", ty, len(values), details.MaxItems)))
		}
		for _, v := range values {
			if !decoder.Decodes(details.SemId, v) {
				status.AddFailure(opID, rgb.ErrOf(rgb.StateDecodeFailure, opID, fmt.Sprintf("global state type %d value failed semantic decode", ty)))
			}
		}
	}
	for ty, o := range occ {
		if !o.Contains(len(globals[ty])) {
			status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, fmt.Sprintf("global state type %d: got %d, want [%d,%d]", ty, len(globals[ty]), o.Min, o.Max)))
		}
	}
}

// validateAssignments implements spec.md §4.5 step 2d: every present
// AssignmentType must be declared, its TypedAssigns variant must match the
// declared OwnedStateSchema variant, its count must fall within the
// declared Occurrences range, and for structured state every RevealedData
// payload must decode against the declared SemId.
func validateAssignments(status *rgb.Status, opID contract.OpId, ownedTypes map[contract.AssignmentType]contract.AssignmentDetails, occ map[contract.AssignmentType]contract.Occurrences, assignments contract.Assignments, decoder SemanticDecoder) {
	for ty, ta := range assignments {
		details, ok := ownedTypes[ty]
		if !ok {
			status.AddFailure(opID, rgb.ErrOf(rgb.SchemaMismatch, opID, fmt.Sprintf("assignment type %d not declared in schema", ty)))
			continue
		}
		if !details.StateSchema.Matches(ta.Kind) {
			status.AddFailure(opID, rgb.ErrOf(rgb.StateShapeMismatch, opID, fmt.Sprintf("assignment type %d: schema declares %s, operation provides %s", ty, details.StateSchema.Kind, ta.Kind)))
			continue
		}
		if details.StateSchema.Kind == contract.StateKindStructured {
			for _, item := range ta.Items {
				rd, ok := item.State.(contract.RevealedData)
				if ok && !decoder.Decodes(details.StateSchema.SemId, rd.Data) {
					status.AddFailure(opID, rgb.ErrOf(rgb.StateDecodeFailure, opID, fmt.Sprintf("assignment type %d structured payload failed semantic decode", ty)))
				}
			}
		}
	}
	for ty, o := range occ {
		count := 0
		if ta, ok := assignments[ty]; ok {
			count = len(ta.Items)
		}
		if !o.Contains(count) {
			status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, fmt.Sprintf("assignment type %d: got %d, want [%d,%d]", ty, count, o.Min, o.Max)))
		}
	}
}

// validateInputs implements spec.md §4.5 step 2e: every input Opout must
// resolve to an existing assignment, and per-type input counts must fall
// within the transition schema's declared input Occurrences.
func validateInputs(status *rgb.Status, opID contract.OpId, details contract.TransitionDetails, inputs contract.InputSet, resolver Resolver) {
	if len(inputs) == 0 {
		status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, "transition input set is empty"))
		return
	}
	observed := make(map[contract.AssignmentType]int, len(inputs))
	for _, in := range inputs {
		if !resolver.HasOperation(in.Op) {
			status.AddFailure(opID, rgb.ErrOf(rgb.UnknownPredecessor, opID, fmt.Sprintf("input %s: predecessor operation not found", in)))
			continue
		}
		if _, ok := resolver.ResolveOpout(in); !ok {
			status.AddFailure(opID, rgb.ErrOf(rgb.BadOpoutIndex, opID, fmt.Sprintf("input %s: assignment index out of range", in)))
			continue
		}
		observed[in.Ty]++
	}
	for ty, o := range details.InputOccurrences {
		if !o.Contains(observed[ty]) {
			status.AddFailure(opID, rgb.ErrOf(rgb.OccurrencesOutOfRange, opID, fmt.Sprintf("input type %d: got %d, want [%d,%d]", ty, observed[ty], o.Min, o.Max)))
		}
	}
}

// checkUnsafeHistory implements the original validator's Warning::
// UnsafeHistory (original_source/validation/validator.rs): a transition
// whose TransitionSeal closes against a witness transaction that the
// resolver reports as not yet Mined, or Mined deeper than SafeHeight, is
// not fatal — client-side validation can't reorg the chain — but is worth
// surfacing, since a contract built on it could still be rolled back.
// Skips entirely when Witness is nil, which every self-contained
// SetResolver scenario leaves it.
func checkUnsafeHistory(status *rgb.Status, t contract.Transition, opID contract.OpId, witness WitnessResolver, safeHeight *uint32) {
	if witness == nil || safeHeight == nil {
		return
	}
	seen := make(map[[32]byte]bool)
	for _, ta := range t.Assignments {
		for _, item := range ta.Items {
			if !item.Revealed {
				continue
			}
			seal, ok := item.RevealedSeal.(contract.TransitionSeal)
			if !ok || seal.TxPtr.Kind != contract.TxPtrTxid {
				continue
			}
			txid := seal.TxPtr.Txid
			if seen[txid] {
				continue
			}
			seen[txid] = true
			height, ord, ok := witness.WitnessOrdinal(txid)
			if !ok {
				continue
			}
			if ord != WitnessMined {
				status.AddWarning(opID, fmt.Sprintf("witness %x closing a seal is not mined (status %d)", txid, ord))
				continue
			}
			if height > *safeHeight {
				status.AddWarning(opID, fmt.Sprintf("witness %x closing a seal is mined at height %d, deeper than safe height %d", txid, height, *safeHeight))
			}
		}
	}
}

func runValidatorScript(status *rgb.Status, opID contract.OpId, site *contract.LibSite, ctx vm.Context, libs LibResolver) {
	if site == nil {
		return
	}
	if libs == nil {
		status.AddFailure(opID, rgb.ErrOf(rgb.ScriptReject, opID, "schema declares a validator but no library resolver was configured"))
		return
	}
	lib, ok := libs.ResolveLib(site.Lib)
	if !ok {
		status.AddFailure(opID, rgb.ErrOf(rgb.ScriptReject, opID, "validator library "+site.Lib.String()+" not found"))
		return
	}
	res, err := vm.Run(lib, site.Entry, ctx)
	if err != nil {
		status.AddFailure(opID, rgb.ErrOf(rgb.ScriptReject, opID, err.Error()))
		return
	}
	if res != vm.Accept {
		status.AddFailure(opID, rgb.ErrOf(rgb.ScriptReject, opID, "validator script rejected"))
	}
}
