// Package vm is the consensus core's view of the deterministic script VM
// of spec.md §6.3: a black box exposing load, run-entry-point-with-context
// and accept/reject. rgb/validate invokes it through this package without
// knowing anything about bytecode; the reference interpreter in refvm.go
// exists only so the repo is runnable end-to-end, per SPEC_FULL.md — it is
// not a general AluVM replacement.
package vm

import (
	"fmt"

	"golang.org/x/crypto/sha3"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// Result is the VM's verdict for one validator invocation.
type Result int

const (
	Reject Result = iota
	Accept
)

func (r Result) String() string {
	if r == Accept {
		return "accept"
	}
	return "reject"
}

// Lib is a loaded validator library: its content-addressed id plus the
// raw bytecode. Content addressing with SHA3-256 rather than the
// tagged-hash primitive of rgb/tagged is deliberate — LibId anchors a
// bulk blob the way the teacher's TxID/merkle hashes do (SHA3 family),
// while OpId/BundleId/SchemaId anchor protocol entities with the
// domain-separated tagged construction. Two hash families, one per
// concern, mirrors the teacher's own crypto.CryptoProvider split between
// SHA3_256 (bulk data) and signature verification.
type Lib struct {
	ID       contract.LibId
	Bytecode []byte
}

// Load content-addresses bytecode into a Lib.
func Load(bytecode []byte) Lib {
	h := sha3.Sum256(bytecode)
	var id contract.LibId
	copy(id[:], h[:])
	return Lib{ID: id, Bytecode: append([]byte(nil), bytecode...)}
}

// ResolvedInput is one previous assignment an operation's Opout input
// resolved to — the read-only view the validator context exposes for the
// input side of a transition.
type ResolvedInput struct {
	Opout contract.Opout
	State contract.State
}

// Context is the read-only view a validator script runs against: the
// operation itself, plus its resolved inputs (spec.md §4.5 step 3).
type Context struct {
	OpID           contract.OpId
	IsGenesis      bool
	TransitionType contract.TransitionType
	Metadata       contract.Metadata
	Globals        contract.GlobalState
	Assignments    contract.Assignments
	Inputs         []ResolvedInput
}

// Run loads lib's entry point and executes it against ctx, returning the
// VM's accept/reject verdict. It never mutates ctx or lib.
func Run(lib Lib, entry uint16, ctx Context) (Result, error) {
	return runReference(lib, entry, ctx)
}

func errUnknownOpcode(op byte) error {
	return fmt.Errorf("vm: unknown opcode 0x%02x", op)
}
