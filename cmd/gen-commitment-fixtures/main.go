// Command gen-commitment-fixtures regenerates testdata/commitment-vectors.json,
// the golden-vector file spec.md §8 requires: one genesis and one
// transition per ChainNet value, with their expected OpId hex. Modeled on
// the teacher's cmd/gen-conformance-fixtures — a small, repo-local tool
// that derives fixtures straight from the consensus core rather than
// hand-maintaining them.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/strict"
)

type vector struct {
	ChainNet   string `json:"chain_net"`
	GenesisHex string `json:"genesis_hex"`
	OpIDHex    string `json:"op_id_hex"`
	ContractID string `json:"contract_id_hex"`
	TransHex   string `json:"transition_hex"`
	TransOpID  string `json:"transition_op_id_hex"`
}

var allChainNets = []contract.ChainNet{
	contract.ChainNetBitcoinMainnet,
	contract.ChainNetBitcoinTestnet3,
	contract.ChainNetBitcoinTestnet4,
	contract.ChainNetBitcoinSignet,
	contract.ChainNetBitcoinRegtest,
	contract.ChainNetLiquidMainnet,
	contract.ChainNetLiquidTestnet,
}

func sampleGenesis(net contract.ChainNet) contract.Genesis {
	return contract.Genesis{
		Ffv:                 1,
		SchemaId:            contract.SchemaId{0x01},
		Timestamp:           1_700_000_000,
		Issuer:              contract.Identity{Name: "gen-commitment-fixtures"},
		ChainNet:            net,
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

func sampleTransition(contractID contract.ContractId, genesisOpID contract.OpId) contract.Transition {
	return contract.Transition{
		Ffv:            1,
		ContractId:     contractID,
		Nonce:          1,
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

func repoRootFromGoModule() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

func main() {
	repoRoot, err := repoRootFromGoModule()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gen-commitment-fixtures:", err)
		os.Exit(1)
	}

	vectors := make([]vector, 0, len(allChainNets))
	for _, net := range allChainNets {
		genesis := sampleGenesis(net)
		genesisBytes, err := strict.Encode(genesis)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gen-commitment-fixtures:", err)
			os.Exit(1)
		}
		opID := commit.OpIdOfGenesis(genesis)
		contractID := commit.ContractIdOfGenesis(genesis)

		transition := sampleTransition(contractID, opID)
		transitionBytes, err := strict.Encode(transition)
		if err != nil {
			fmt.Fprintln(os.Stderr, "gen-commitment-fixtures:", err)
			os.Exit(1)
		}
		transOpID := commit.OpIdOfTransition(transition)

		vectors = append(vectors, vector{
			ChainNet:   net.String(),
			GenesisHex: hex.EncodeToString(genesisBytes),
			OpIDHex:    hex.EncodeToString(opID[:]),
			ContractID: hex.EncodeToString(contractID[:]),
			TransHex:   hex.EncodeToString(transitionBytes),
			TransOpID:  hex.EncodeToString(transOpID[:]),
		})
	}

	out, err := json.MarshalIndent(vectors, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "gen-commitment-fixtures:", err)
		os.Exit(1)
	}
	path := filepath.Join(repoRoot, "testdata", "commitment-vectors.json")
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "gen-commitment-fixtures:", err)
		os.Exit(1)
	}
	fmt.Println("wrote", path)
}
