package store

import (
	"testing"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

func minimalGenesis() contract.Genesis {
	return contract.Genesis{
		Ffv:                 1,
		SchemaId:            contract.SchemaId{0x01},
		Timestamp:           1_700_000_000,
		Issuer:              contract.Identity{Name: "issuer"},
		ChainNet:            contract.ChainNetBitcoinRegtest,
		SealClosingStrategy: contract.SealClosingFirstOpretOrTapret,
		Assignments: contract.Assignments{
			1: {
				Kind: contract.StateKindDeclarative,
				Items: []contract.Assign{
					{
						Revealed:     true,
						RevealedSeal: contract.GenesisSeal{Txid: [32]byte{0x00, 0x01}, Vout: 0, Blinding: 7},
						State:        contract.VoidState{},
					},
				},
			},
		},
	}
}

func spendingTransition(genesisOpID contract.OpId, contractID contract.ContractId, nonce uint64) contract.Transition {
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
						Revealed:     true,
						RevealedSeal: contract.TransitionSeal{TxPtr: contract.WitnessTxPtr(), Vout: 0, Blinding: 3},
						State:        contract.VoidState{},
					},
				},
			},
		},
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyGenesisSeedsUnspentIndex(t *testing.T) {
	db := openTestDB(t)
	g := minimalGenesis()

	opID, err := db.ApplyGenesis(g)
	if err != nil {
		t.Fatal(err)
	}
	if opID != commit.OpIdOfGenesis(g) {
		t.Fatalf("ApplyGenesis returned an OpId not matching commit.OpIdOfGenesis")
	}
	if !db.HasOperation(opID) {
		t.Fatalf("expected genesis to be persisted")
	}

	opout := contract.Opout{Op: opID, Ty: 1, No: 0}
	unspent, err := db.IsUnspent(opout)
	if err != nil {
		t.Fatal(err)
	}
	if !unspent {
		t.Fatalf("expected genesis's own opout to be unspent")
	}
}

func TestResolveOpoutRoundTripsAssign(t *testing.T) {
	db := openTestDB(t)
	g := minimalGenesis()
	opID, err := db.ApplyGenesis(g)
	if err != nil {
		t.Fatal(err)
	}

	opout := contract.Opout{Op: opID, Ty: 1, No: 0}
	assign, ok := db.ResolveOpout(opout)
	if !ok {
		t.Fatalf("expected ResolveOpout to resolve the genesis's own opout")
	}
	if !assign.Revealed {
		t.Fatalf("expected the resolved assign to still be revealed")
	}
}

func TestApplyTransitionMovesUnspentIndex(t *testing.T) {
	db := openTestDB(t)
	g := minimalGenesis()
	genesisOpID, err := db.ApplyGenesis(g)
	if err != nil {
		t.Fatal(err)
	}
	contractID := commit.ContractIdOfGenesis(g)
	tr := spendingTransition(genesisOpID, contractID, 1)

	trOpID, err := db.ApplyTransition(tr)
	if err != nil {
		t.Fatal(err)
	}

	spentOpout := contract.Opout{Op: genesisOpID, Ty: 1, No: 0}
	if spent, err := db.IsUnspent(spentOpout); err != nil {
		t.Fatal(err)
	} else if spent {
		t.Fatalf("expected the genesis opout to be removed from the unspent index")
	}

	producedOpout := contract.Opout{Op: trOpID, Ty: 1, No: 0}
	if unspent, err := db.IsUnspent(producedOpout); err != nil {
		t.Fatal(err)
	} else if !unspent {
		t.Fatalf("expected the transition's own output to be unspent")
	}

	// The genesis opout still resolves to an Assign via its producing
	// operation's record, even though it is no longer unspent.
	if _, ok := db.ResolveOpout(spentOpout); !ok {
		t.Fatalf("ResolveOpout should still resolve a spent opout through its producing operation")
	}
	if _, found, err := db.UnspentAssign(spentOpout); err != nil {
		t.Fatal(err)
	} else if found {
		t.Fatalf("UnspentAssign must not resolve an already-spent opout")
	}
}

func TestHasOperationFalseForUnknownOpId(t *testing.T) {
	db := openTestDB(t)
	if db.HasOperation(contract.OpId{0xFF}) {
		t.Fatalf("expected HasOperation to report false for an unknown OpId")
	}
}

func TestPutSchemaRoundTrips(t *testing.T) {
	db := openTestDB(t)
	schema := contract.Schema{
		Ffv:  1,
		Name: "minimal",
		OwnedTypes: map[contract.AssignmentType]contract.AssignmentDetails{
			1: {StateSchema: contract.OwnedStateSchema{Kind: contract.StateKindDeclarative}, Name: "unit"},
		},
		Genesis: contract.GenesisSchema{
			AssignmentOccurrences: map[contract.AssignmentType]contract.Occurrences{1: {Min: 1, Max: 1}},
		},
		Transitions: map[contract.TransitionType]contract.TransitionDetails{},
	}

	id, err := db.PutSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	wantID, err := commit.CommitSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	if id != wantID {
		t.Fatalf("PutSchema returned an id not matching commit.CommitSchema")
	}

	got, found, err := db.GetSchema(id)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatalf("expected the schema to be found")
	}
	if got.Name != schema.Name {
		t.Fatalf("decoded schema name mismatch: got %q want %q", got.Name, schema.Name)
	}
}

func TestPutBundleRoundTrips(t *testing.T) {
	db := openTestDB(t)
	g := minimalGenesis()
	genesisOpID, err := db.ApplyGenesis(g)
	if err != nil {
		t.Fatal(err)
	}
	contractID := commit.ContractIdOfGenesis(g)
	tr := spendingTransition(genesisOpID, contractID, 1)
	trOpID := commit.OpIdOfTransition(tr)

	bundle := contract.TransitionBundle{
		InputMap: map[contract.Opout]contract.OpId{
			{Op: genesisOpID, Ty: 1, No: 0}: trOpID,
		},
		KnownTransitions: []contract.KnownTransition{{OpId: trOpID, Transition: tr}},
	}

	id, err := db.PutBundle(bundle)
	if err != nil {
		t.Fatal(err)
	}
	wantID, err := commit.CommitBundle(bundle)
	if err != nil {
		t.Fatal(err)
	}
	if id != wantID {
		t.Fatalf("PutBundle returned an id not matching commit.CommitBundle")
	}

	got, found, err := db.GetBundle(id)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatalf("expected the bundle to be found")
	}
	if len(got.KnownTransitions) != 1 || got.KnownTransitions[0].OpId != trOpID {
		t.Fatalf("decoded bundle's known transitions mismatch: %+v", got.KnownTransitions)
	}
	if got.InputMap[contract.Opout{Op: genesisOpID, Ty: 1, No: 0}] != trOpID {
		t.Fatalf("decoded bundle's input map mismatch: %+v", got.InputMap)
	}
}
