package commit

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"

	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// goldenVector mirrors cmd/gen-commitment-fixtures's vector shape.
type goldenVector struct {
	ChainNet   string `json:"chain_net"`
	GenesisHex string `json:"genesis_hex"`
	OpIDHex    string `json:"op_id_hex"`
	ContractID string `json:"contract_id_hex"`
	TransHex   string `json:"transition_hex"`
	TransOpID  string `json:"transition_op_id_hex"`
}

// TestGoldenVectorsMatchReferenceImplementation checks testdata/
// commitment-vectors.json, the golden-vector file spec.md §8 requires
// ("implementations MUST ship a fixed test vector file...one genesis and
// one transition per ChainNet value"), against this implementation's own
// commitment engine. The file is produced by cmd/gen-commitment-fixtures
// and is expected to be regenerated and committed whenever the wire
// format changes; this test is what would catch an accidental commitment
// format break, not what produces the fixture.
func TestGoldenVectorsMatchReferenceImplementation(t *testing.T) {
	data, err := os.ReadFile("../../testdata/commitment-vectors.json")
	if os.IsNotExist(err) {
		t.Skip("testdata/commitment-vectors.json not generated yet; run cmd/gen-commitment-fixtures")
	}
	if err != nil {
		t.Fatal(err)
	}

	var vectors []goldenVector
	if err := json.Unmarshal(data, &vectors); err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 7 {
		t.Fatalf("expected one vector per ChainNet value (7), got %d", len(vectors))
	}

	for _, v := range vectors {
		genesisBytes, err := hex.DecodeString(v.GenesisHex)
		if err != nil {
			t.Fatalf("%s: bad genesis hex: %v", v.ChainNet, err)
		}
		var genesis contract.Genesis
		if err := strict.Decode(genesisBytes, &genesis); err != nil {
			t.Fatalf("%s: decode genesis: %v", v.ChainNet, err)
		}

		gotOpID := OpIdOfGenesis(genesis)
		if hex.EncodeToString(gotOpID[:]) != v.OpIDHex {
			t.Errorf("%s: OpId mismatch: got %s want %s", v.ChainNet, hex.EncodeToString(gotOpID[:]), v.OpIDHex)
		}
		gotContractID := ContractIdOfGenesis(genesis)
		if hex.EncodeToString(gotContractID[:]) != v.ContractID {
			t.Errorf("%s: ContractId mismatch: got %s want %s", v.ChainNet, hex.EncodeToString(gotContractID[:]), v.ContractID)
		}

		transitionBytes, err := hex.DecodeString(v.TransHex)
		if err != nil {
			t.Fatalf("%s: bad transition hex: %v", v.ChainNet, err)
		}
		var transition contract.Transition
		if err := strict.Decode(transitionBytes, &transition); err != nil {
			t.Fatalf("%s: decode transition: %v", v.ChainNet, err)
		}
		gotTransOpID := OpIdOfTransition(transition)
		if hex.EncodeToString(gotTransOpID[:]) != v.TransOpID {
			t.Errorf("%s: transition OpId mismatch: got %s want %s", v.ChainNet, hex.EncodeToString(gotTransOpID[:]), v.TransOpID)
		}
	}
}
