package validate

import (
	"testing"

	"lnpbp.dev/rgb-consensus/rgb"
	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

func declarativeSchema(min, max uint16) contract.Schema {
	return contract.Schema{
		Ffv:  1,
		Name: "minimal",
		OwnedTypes: map[contract.AssignmentType]contract.AssignmentDetails{
			1: {StateSchema: contract.OwnedStateSchema{Kind: contract.StateKindDeclarative}, Name: "unit"},
		},
		Genesis: contract.GenesisSchema{
			AssignmentOccurrences: map[contract.AssignmentType]contract.Occurrences{1: {Min: min, Max: max}},
		},
		Transitions: map[contract.TransitionType]contract.TransitionDetails{
			1: {
				Name:                  "transfer",
				InputOccurrences:      map[contract.AssignmentType]contract.Occurrences{1: {Min: 1, Max: 1}},
				AssignmentOccurrences: map[contract.AssignmentType]contract.Occurrences{1: {Min: 1, Max: 1}},
			},
		},
	}
}

func buildGenesis(t *testing.T, schema contract.Schema) contract.Genesis {
	schemaID, err := commit.CommitSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	return contract.Genesis{
		Ffv:                 1,
		SchemaId:            schemaID,
		Timestamp:           1_700_000_000,
		Issuer:              contract.Identity{Name: "issuer"},
		ChainNet:            contract.ChainNetBitcoinRegtest,
		SealClosingStrategy: contract.SealClosingFirstOpretOrTapret,
		Assignments: contract.Assignments{
			1: {
				Kind: contract.StateKindDeclarative,
				Items: []contract.Assign{
					{
						Revealed: true,
						RevealedSeal: contract.GenesisSeal{
							Txid:     [32]byte{0x00, 0x01},
							Vout:     0,
							Blinding: 7,
						},
						State: contract.VoidState{},
					},
				},
			},
		},
	}
}

// TestS1MinimalGenesisValidates exercises spec.md §8 scenario S1.
func TestS1MinimalGenesisValidates(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)

	status := Validate(schema, genesis, nil, Options{})
	if !status.Valid() {
		t.Fatalf("expected Ok, got failures: %+v", status.Failures)
	}

	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)
	if contract.OpId(contractID) != genesisOpID {
		t.Fatalf("contractId must equal genesis OpId")
	}
}

// TestS2ConcealedGenesisValidatesIdentically exercises spec.md §8 scenario
// S2: a concealed genesis commits to the same OpId and validates the same
// way as its revealed form.
func TestS2ConcealedGenesisValidatesIdentically(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	concealed := genesis.Conceal()

	if commit.OpIdOfGenesis(genesis) != commit.OpIdOfGenesis(concealed) {
		t.Fatalf("OpId(genesis) != OpId(conceal(genesis))")
	}

	status := Validate(schema, concealed, nil, Options{})
	if !status.Valid() {
		t.Fatalf("expected Ok for concealed genesis, got failures: %+v", status.Failures)
	}
}

func buildSpendingTransition(genesisOpID contract.OpId, contractID contract.ContractId, nonce uint64) contract.Transition {
	return contract.Transition{
		Ffv:            1,
		ContractId:     contractID,
		Nonce:          nonce,
		TransitionType: 1,
		Inputs:         contract.InputSet{{Op: genesisOpID, Ty: 1, No: 0}},
		Assignments: contract.Assignments{
			1: {
				Kind: contract.StateKindDeclarative,
				Items: []contract.Assign{
					{
						Revealed: true,
						RevealedSeal: contract.TransitionSeal{
							TxPtr:    contract.WitnessTxPtr(),
							Vout:     0,
							Blinding: 9,
						},
						State: contract.VoidState{},
					},
				},
			},
		},
	}
}

// TestS3SingleTransitionValidates exercises spec.md §8 scenario S3.
func TestS3SingleTransitionValidates(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{})
	if !status.Valid() {
		t.Fatalf("expected Ok, got failures: %+v", status.Failures)
	}
}

// TestS4DoubleSpendRejected exercises spec.md §8 scenario S4.
func TestS4DoubleSpendRejected(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	t1 := buildSpendingTransition(genesisOpID, contractID, 1)
	t2 := buildSpendingTransition(genesisOpID, contractID, 2)

	status := Validate(schema, genesis, []contract.Transition{t1, t2}, Options{})
	if status.Valid() {
		t.Fatalf("expected double-spend rejection")
	}
	if !hasFailureKind(status, rgb.DoubleSpend) {
		t.Fatalf("expected a DoubleSpend failure, got: %+v", status.Failures)
	}
}

// TestS5OccurrenceViolation exercises spec.md §8 scenario S5.
func TestS5OccurrenceViolation(t *testing.T) {
	schema := declarativeSchema(1, 1)
	schema.Transitions[1] = contract.TransitionDetails{
		Name:                  "transfer",
		InputOccurrences:      map[contract.AssignmentType]contract.Occurrences{1: {Min: 1, Max: 1}},
		AssignmentOccurrences: map[contract.AssignmentType]contract.Occurrences{1: {Min: 2, Max: 2}},
	}
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{})
	if status.Valid() {
		t.Fatalf("expected OccurrencesOutOfRange rejection")
	}
	if !hasFailureKind(status, rgb.OccurrencesOutOfRange) {
		t.Fatalf("expected an OccurrencesOutOfRange failure, got: %+v", status.Failures)
	}
}

// TestS6TypeShapeMismatch exercises spec.md §8 scenario S6.
func TestS6TypeShapeMismatch(t *testing.T) {
	schema := contract.Schema{
		Ffv:  1,
		Name: "shape-mismatch",
		OwnedTypes: map[contract.AssignmentType]contract.AssignmentDetails{
			3: {
				StateSchema: contract.OwnedStateSchema{Kind: contract.StateKindFungible, FungibleType: contract.FungibleTypeUnsigned64Bit},
				Name:        "amount",
			},
		},
		Genesis: contract.GenesisSchema{
			AssignmentOccurrences: map[contract.AssignmentType]contract.Occurrences{3: {Min: 1, Max: 1}},
		},
		Transitions: map[contract.TransitionType]contract.TransitionDetails{},
	}
	schemaID, err := commit.CommitSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	genesis := contract.Genesis{
		Ffv:                 1,
		SchemaId:            schemaID,
		Timestamp:           1_700_000_000,
		Issuer:              contract.Identity{Name: "issuer"},
		ChainNet:            contract.ChainNetBitcoinRegtest,
		SealClosingStrategy: contract.SealClosingFirstOpretOrTapret,
		Assignments: contract.Assignments{
			3: {
				Kind: contract.StateKindDeclarative,
				Items: []contract.Assign{
					{
						Revealed:     true,
						RevealedSeal: contract.GenesisSeal{Txid: [32]byte{0x01}, Vout: 0, Blinding: 1},
						State:        contract.VoidState{},
					},
				},
			},
		},
	}

	status := Validate(schema, genesis, nil, Options{})
	if status.Valid() {
		t.Fatalf("expected StateShapeMismatch rejection")
	}
	if !hasFailureKind(status, rgb.StateShapeMismatch) {
		t.Fatalf("expected a StateShapeMismatch failure, got: %+v", status.Failures)
	}
}

func TestUndeclaredTransitionTypeRejected(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)
	transition.TransitionType = 99

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{})
	if !hasFailureKind(status, rgb.UndeclaredTransition) {
		t.Fatalf("expected an UndeclaredTransition failure, got: %+v", status.Failures)
	}
}

func TestUnknownPredecessorRejected(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(contract.OpId{0xFF}, contractID, 1)

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{})
	if !hasFailureKind(status, rgb.UnknownPredecessor) {
		t.Fatalf("expected an UnknownPredecessor failure, got: %+v", status.Failures)
	}
}

type fakeWitnessResolver map[[32]byte]struct {
	height uint32
	ord    WitnessOrd
}

func (f fakeWitnessResolver) WitnessOrdinal(txid [32]byte) (uint32, WitnessOrd, bool) {
	v, ok := f[txid]
	return v.height, v.ord, ok
}

// TestUnsafeHistoryWarningForUnminedWitness exercises the non-fatal
// UnsafeHistory-style warning: a transition closing against a witness
// transaction the resolver reports as not yet Mined produces a Warning,
// not a Failure, and does not affect Status.Valid.
func TestUnsafeHistoryWarningForUnminedWitness(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)
	txid := [32]byte{0xAB}
	ta := transition.Assignments[1]
	ta.Items[0].RevealedSeal = contract.TransitionSeal{
		TxPtr:    contract.TxidPtr(txid),
		Vout:     0,
		Blinding: 9,
	}
	transition.Assignments[1] = ta

	witness := fakeWitnessResolver{
		txid: {height: 0, ord: WitnessTentative},
	}
	safeHeight := uint32(100)

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{
		Witness:    witness,
		SafeHeight: &safeHeight,
	})
	if !status.Valid() {
		t.Fatalf("unsafe history must be a warning, not a failure: %+v", status.Failures)
	}
	if len(status.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", status.Warnings)
	}
}

// TestUnsafeHistoryWarningForDeepWitness exercises the SafeHeight branch:
// a Mined witness deeper than SafeHeight still warns.
func TestUnsafeHistoryWarningForDeepWitness(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)
	txid := [32]byte{0xCD}
	ta := transition.Assignments[1]
	ta.Items[0].RevealedSeal = contract.TransitionSeal{
		TxPtr:    contract.TxidPtr(txid),
		Vout:     0,
		Blinding: 9,
	}
	transition.Assignments[1] = ta

	witness := fakeWitnessResolver{
		txid: {height: 500, ord: WitnessMined},
	}
	safeHeight := uint32(100)

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{
		Witness:    witness,
		SafeHeight: &safeHeight,
	})
	if !status.Valid() {
		t.Fatalf("unsafe history must be a warning, not a failure: %+v", status.Failures)
	}
	if len(status.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", status.Warnings)
	}
}

// TestNoWitnessResolverSkipsUnsafeHistoryCheck confirms the check is
// opt-in: without a WitnessResolver, a transition referencing an
// unresolved txid produces no warning at all.
func TestNoWitnessResolverSkipsUnsafeHistoryCheck(t *testing.T) {
	schema := declarativeSchema(1, 1)
	genesis := buildGenesis(t, schema)
	genesisOpID := commit.OpIdOfGenesis(genesis)
	contractID := commit.ContractIdOfGenesis(genesis)

	transition := buildSpendingTransition(genesisOpID, contractID, 1)
	ta := transition.Assignments[1]
	ta.Items[0].RevealedSeal = contract.TransitionSeal{
		TxPtr:    contract.TxidPtr([32]byte{0xEF}),
		Vout:     0,
		Blinding: 9,
	}
	transition.Assignments[1] = ta

	status := Validate(schema, genesis, []contract.Transition{transition}, Options{})
	if len(status.Warnings) != 0 {
		t.Fatalf("expected no warnings without a WitnessResolver, got %+v", status.Warnings)
	}
}

func hasFailureKind(status *rgb.Status, kind rgb.Kind) bool {
	for _, f := range status.Failures {
		if f.Err.Code == kind {
			return true
		}
	}
	return false
}
