// Command rgb-consensus-cli is a thin JSON-over-stdin/stdout driver for the
// commitment and validation core, modeled on the teacher's
// cmd/rubin-consensus-cli (one Request/Response envelope, one op switch,
// no flags, no persistent state).
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/strict"
	"lnpbp.dev/rgb-consensus/rgb/validate"
)

// Request mirrors the teacher's flat op-discriminated envelope: every
// field a particular op needs, hex-encoded, everything else left zero.
type Request struct {
	Op             string   `json:"op"`
	SchemaHex      string   `json:"schema_hex,omitempty"`
	GenesisHex     string   `json:"genesis_hex,omitempty"`
	TransitionsHex []string `json:"transitions_hex,omitempty"`
	BundleHex      string   `json:"bundle_hex,omitempty"`
	ChainNet       *uint8   `json:"chain_net,omitempty"`
}

type Response struct {
	Ok           bool     `json:"ok"`
	Err          string   `json:"err,omitempty"`
	OpIDHex      string   `json:"op_id,omitempty"`
	ContractIDHex string  `json:"contract_id,omitempty"`
	BundleIDHex  string   `json:"bundle_id,omitempty"`
	SchemaIDHex  string   `json:"schema_id,omitempty"`
	Failures     []string `json:"failures,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func decodeHex(name, h string) ([]byte, error) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("bad %s hex: %w", name, err)
	}
	return b, nil
}

func main() {
	logger := slog.Default()

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}

	switch req.Op {
	case "commit_schema":
		schemaBytes, err := decodeHex("schema", req.SchemaHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		var schema contract.Schema
		if err := strict.Decode(schemaBytes, &schema); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "decode schema: " + err.Error()})
			return
		}
		id, err := commit.CommitSchema(schema)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		writeResp(os.Stdout, Response{Ok: true, SchemaIDHex: hex.EncodeToString(id[:])})
		return

	case "commit_genesis":
		genesisBytes, err := decodeHex("genesis", req.GenesisHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		var genesis contract.Genesis
		if err := strict.Decode(genesisBytes, &genesis); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "decode genesis: " + err.Error()})
			return
		}
		opID := commit.OpIdOfGenesis(genesis)
		contractID := commit.ContractIdOfGenesis(genesis)
		writeResp(os.Stdout, Response{
			Ok:            true,
			OpIDHex:       hex.EncodeToString(opID[:]),
			ContractIDHex: hex.EncodeToString(contractID[:]),
		})
		return

	case "commit_bundle":
		bundleBytes, err := decodeHex("bundle", req.BundleHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		var bundle contract.TransitionBundle
		if err := strict.Decode(bundleBytes, &bundle); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "decode bundle: " + err.Error()})
			return
		}
		id, err := commit.CommitBundle(bundle)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		writeResp(os.Stdout, Response{Ok: true, BundleIDHex: hex.EncodeToString(id[:])})
		return

	case "validate":
		schemaBytes, err := decodeHex("schema", req.SchemaHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		var schema contract.Schema
		if err := strict.Decode(schemaBytes, &schema); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "decode schema: " + err.Error()})
			return
		}
		genesisBytes, err := decodeHex("genesis", req.GenesisHex)
		if err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
			return
		}
		var genesis contract.Genesis
		if err := strict.Decode(genesisBytes, &genesis); err != nil {
			writeResp(os.Stdout, Response{Ok: false, Err: "decode genesis: " + err.Error()})
			return
		}
		transitions := make([]contract.Transition, 0, len(req.TransitionsHex))
		for i, th := range req.TransitionsHex {
			tb, err := decodeHex(fmt.Sprintf("transitions[%d]", i), th)
			if err != nil {
				writeResp(os.Stdout, Response{Ok: false, Err: err.Error()})
				return
			}
			var t contract.Transition
			if err := strict.Decode(tb, &t); err != nil {
				writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("decode transitions[%d]: %v", i, err)})
				return
			}
			transitions = append(transitions, t)
		}

		opts := validate.Options{}
		if req.ChainNet != nil {
			cn := contract.ChainNet(*req.ChainNet)
			opts.ChainNet = &cn
		}

		status := validate.Validate(schema, genesis, transitions, opts)
		contractID := commit.ContractIdOfGenesis(genesis)

		resp := Response{
			Ok:            status.Valid(),
			ContractIDHex: hex.EncodeToString(contractID[:]),
		}
		for _, f := range status.Failures {
			resp.Failures = append(resp.Failures, f.Err.Error())
			logger.Warn("validation failure", "op_id", hex.EncodeToString(f.OpID[:]), "failure_kind", string(f.Err.Code))
		}
		for _, w := range status.Warnings {
			resp.Warnings = append(resp.Warnings, w.Msg)
		}
		writeResp(os.Stdout, resp)
		return

	default:
		writeResp(os.Stdout, Response{Ok: false, Err: "unknown op"})
		return
	}
}
