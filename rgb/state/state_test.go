package state

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

// TestFromGenesisProducesOneUnspentOpout exercises spec.md §8 scenario S1's
// expected state.
func TestFromGenesisProducesOneUnspentOpout(t *testing.T) {
	g := minimalGenesis()
	opID := commit.OpIdOfGenesis(g)

	u := FromGenesis(g)
	if len(u) != 1 {
		t.Fatalf("expected exactly one unspent opout, got %d", len(u))
	}
	if _, ok := u[contract.Opout{Op: opID, Ty: 1, No: 0}]; !ok {
		t.Fatalf("expected unspent set to contain the genesis's own opout")
	}
}

// TestApplyRemovesConsumedAndAddsProduced exercises spec.md §8 scenario S3:
// after one transition, the genesis's opout is gone and exactly one new
// unspent opout exists.
func TestApplyRemovesConsumedAndAddsProduced(t *testing.T) {
	g := minimalGenesis()
	genesisOpID := commit.OpIdOfGenesis(g)
	contractID := commit.ContractIdOfGenesis(g)

	u := FromGenesis(g)
	tr := spendingTransition(genesisOpID, contractID, 1)

	next, err := Apply(u, tr)
	if err != nil {
		t.Fatal(err)
	}
	if len(next) != 1 {
		t.Fatalf("expected exactly one unspent opout after the transition, got %d", len(next))
	}
	if _, ok := next[contract.Opout{Op: genesisOpID, Ty: 1, No: 0}]; ok {
		t.Fatalf("genesis opout should have been consumed")
	}
	trOpID := commit.OpIdOfTransition(tr)
	if _, ok := next[contract.Opout{Op: trOpID, Ty: 1, No: 0}]; !ok {
		t.Fatalf("expected the transition's own output to be unspent")
	}
	if _, ok := u[contract.Opout{Op: genesisOpID, Ty: 1, No: 0}]; !ok {
		t.Fatalf("Apply must not mutate its input set")
	}
}

func TestApplyRejectsUnknownInput(t *testing.T) {
	g := minimalGenesis()
	u := FromGenesis(g)
	contractID := commit.ContractIdOfGenesis(g)

	tr := spendingTransition(contract.OpId{0xFF}, contractID, 1)
	if _, err := Apply(u, tr); err == nil {
		t.Fatalf("expected an error consuming an unknown opout")
	}
}

func TestAssembleOrdersAcrossAChain(t *testing.T) {
	g := minimalGenesis()
	genesisOpID := commit.OpIdOfGenesis(g)
	contractID := commit.ContractIdOfGenesis(g)

	t1 := spendingTransition(genesisOpID, contractID, 1)
	t1ID := commit.OpIdOfTransition(t1)
	t2 := spendingTransition(t1ID, contractID, 2)

	// Passed out of dependency order; Assemble must still resolve it via
	// TopologicalSort.
	u, err := Assemble(g, []contract.Transition{t2, t1})
	if err != nil {
		t.Fatal(err)
	}
	if len(u) != 1 {
		t.Fatalf("expected exactly one unspent opout after a two-hop chain, got %d", len(u))
	}
	t2ID := commit.OpIdOfTransition(t2)
	if _, ok := u[contract.Opout{Op: t2ID, Ty: 1, No: 0}]; !ok {
		t.Fatalf("expected the final transition's output to be the sole unspent opout")
	}
}

func TestTopologicalSortRejectsMissingPredecessor(t *testing.T) {
	g := minimalGenesis()
	contractID := commit.ContractIdOfGenesis(g)
	tr := spendingTransition(contract.OpId{0xAB}, contractID, 1)

	if _, err := TopologicalSort(g, []contract.Transition{tr}); err == nil {
		t.Fatalf("expected an error for a missing predecessor")
	}
}
