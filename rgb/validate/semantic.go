package validate

import "lnpbp.dev/rgb-consensus/rgb/contract"

// SemanticDecoder checks whether a payload decodes against a declared
// SemId (spec.md §4.5 steps 2b-2d). rgb/contract deliberately never
// interprets a SemId itself; this is the pluggable oracle spec.md §6.3
// names as the "strict encoder: decode<T>(bytes) → T" external
// collaborator, narrowed down to a yes/no decode check for validation
// purposes.
type SemanticDecoder interface {
	Decodes(semID contract.SemId, payload []byte) bool
}

// AcceptAllDecoder treats every payload as decodable against any SemId. It
// is the default used when a deployment hasn't wired a real schema-aware
// decoder: spec.md §8 scenarios S1-S6 are about structural, occurrence and
// shape validation, not semantic decoding, and exercise this default.
type AcceptAllDecoder struct{}

func (AcceptAllDecoder) Decodes(contract.SemId, []byte) bool { return true }
