// Package rgb holds the types shared across every layer of the consensus
// core: the error-kind table of spec.md §7, and the accumulating
// Status/Failure/Warning triad the validator reports through.
package rgb

import "fmt"

// Kind enumerates the fatal-failure categories a validation run can report.
// It mirrors the teacher's ErrorCode string enum, generalized from
// TX_ERR_*/BLOCK_ERR_* to the commitment/validation vocabulary of this
// protocol.
type Kind string

const (
	SchemaMismatch         Kind = "SCHEMA_MISMATCH"
	OccurrencesOutOfRange  Kind = "OCCURRENCES_OUT_OF_RANGE"
	StateShapeMismatch     Kind = "STATE_SHAPE_MISMATCH"
	MetaDecodeFailure      Kind = "META_DECODE_FAILURE"
	StateDecodeFailure     Kind = "STATE_DECODE_FAILURE"
	UnknownPredecessor     Kind = "UNKNOWN_PREDECESSOR"
	BadOpoutIndex          Kind = "BAD_OPOUT_INDEX"
	DoubleSpend            Kind = "DOUBLE_SPEND"
	ScriptReject           Kind = "SCRIPT_REJECT"
	EncodingFatal          Kind = "ENCODING_FATAL"
	BundleMalformed        Kind = "BUNDLE_MALFORMED"
	GenesisMismatch        Kind = "GENESIS_MISMATCH"
	UndeclaredTransition   Kind = "UNDECLARED_TRANSITION"
)

// ValidationError is the concrete value every recoverable failure is
// reported as: a closed Kind plus the offending operation id and a
// human-readable message. It carries no stack, no wrapped cause chain —
// validation is a pure function reporting values, not propagating
// exceptions.
type ValidationError struct {
	Code Kind
	OpID [32]byte
	Msg  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return fmt.Sprintf("%s: op %x", e.Code, e.OpID)
	}
	return fmt.Sprintf("%s: op %x: %s", e.Code, e.OpID, e.Msg)
}

// ErrOf constructs a *ValidationError. Kept as a short constructor, the way
// the teacher's txerr/blockerr helpers are, since every validation site
// needs one.
func ErrOf(code Kind, opID [32]byte, msg string) *ValidationError {
	return &ValidationError{Code: code, OpID: opID, Msg: msg}
}

// EncodingFatal is hit when a value this process produced itself fails to
// round-trip through strict encoding. Per spec.md §4.7 that is a bug, not a
// reportable validation failure, so it panics rather than returning a value
// — matching the teacher's own panic use in vault.go for states considered
// impossible by construction.
func PanicEncodingFatal(context string, err error) {
	panic(fmt.Sprintf("rgb: encoding fatal in %s: %v", context, err))
}

// Warning is a non-fatal observation surfaced alongside a Status — e.g. a
// witness whose ordering could not be confirmed by the resolver. Present in
// the original RGB validator (original_source) and reinstated here even
// though spec.md's distillation dropped it, per SPEC_FULL.md.
type Warning struct {
	OpID [32]byte
	Msg  string
}

// Failure pairs a ValidationError with the step that raised it, so a single
// Status can accumulate failures from many operations in one pass.
type Failure struct {
	OpID [32]byte
	Err  *ValidationError
}

// Status accumulates every failure and warning seen during one validation
// run instead of stopping at the first. Grounded on the original_source
// validator's Status/Failure/Warning triad (its own stated rationale is
// that collecting everything helps debugging and lets callers detect all
// problems in one pass); spec.md §4.7's "fatal for the operation" is
// realized here as "fatal for that operation's entry in Status, validation
// continues over the rest of the graph."
type Status struct {
	Failures []Failure
	Warnings []Warning
}

// AddFailure appends a failure for opID. Kept as a method so a zero Status
// is usable directly (no constructor required), the same ergonomic the
// teacher's *TxError affords via the txerr helper.
func (s *Status) AddFailure(opID [32]byte, err *ValidationError) {
	s.Failures = append(s.Failures, Failure{OpID: opID, Err: err})
}

func (s *Status) AddWarning(opID [32]byte, msg string) {
	s.Warnings = append(s.Warnings, Warning{OpID: opID, Msg: msg})
}

// Valid reports whether the run produced zero fatal failures. Warnings do
// not affect validity.
func (s *Status) Valid() bool { return len(s.Failures) == 0 }

// FirstFailure returns the first recorded failure, or nil if none, for
// callers that only care about "did it fail and why."
func (s *Status) FirstFailure() *Failure {
	if len(s.Failures) == 0 {
		return nil
	}
	return &s.Failures[0]
}
