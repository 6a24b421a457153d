// Package contract implements the data model of spec.md §3: seals, state,
// assignments, operations, transition bundles and schemas, plus every
// conceal operation of §4.3. It is the algebraic core the commitment and
// validation layers build on; nothing in this package hashes anything
// itself — rgb/commit owns the tagged-hash reductions.
package contract

import "encoding/hex"

// OpId, BundleId, SchemaId and ContractId are all 32-byte tagged-hash
// outputs (spec.md §3.1). They are defined here rather than in rgb/commit
// because the data model itself references them (a Transition carries a
// ContractId, a bundle's InputMap is keyed by OpId) — rgb/commit computes
// them, it does not own their representation.
type OpId [32]byte

type BundleId [32]byte

type SchemaId [32]byte

// ContractId is, per spec.md §3.1/§4.4.4, equal to the OpId of the
// contract's genesis, reinterpreted under a distinct name so a Transition
// can reference "the contract" without conflating it with "a specific
// operation."
type ContractId [32]byte

// SemId identifies, opaquely to this core, the semantic schema a metadata
// payload, global-state value or structured-state payload must decode
// against. The core never interprets a SemId beyond using it as an
// allow/deny key and a decode context passed to the strict-encoding
// oracle.
type SemId [32]byte

// LibId content-addresses an attached validator script library. Spec.md
// §6.3 treats the script VM as a black box; LibId is the one piece of its
// addressing scheme the data model needs to reference (Schema.Validator).
type LibId [32]byte

func (id OpId) String() string       { return "rgb:" + hex.EncodeToString(id[:]) }
func (id BundleId) String() string   { return "rgb:" + hex.EncodeToString(id[:]) }
func (id SchemaId) String() string   { return "rgb:" + hex.EncodeToString(id[:]) }
func (id ContractId) String() string { return "rgb:" + hex.EncodeToString(id[:]) }
func (id SemId) String() string      { return hex.EncodeToString(id[:]) }
func (id LibId) String() string      { return hex.EncodeToString(id[:]) }

// ContractIdFromOpId reinterprets a genesis OpId as a ContractId — a
// same-bytes cast with a name, not a distinct derivation (spec.md §4.4.4).
func ContractIdFromOpId(id OpId) ContractId { return ContractId(id) }
