// Package commit implements the per-entity commitment reductions of
// spec.md §4.4: OpCommitment, OpId, BundleId, SchemaId, ContractId. It is
// the only place that feeds contract data through rgb/tagged — everything
// below (rgb/contract) stays hash-agnostic so the same structs can be
// re-used by storage and wire code without dragging the commitment scheme
// along.
package commit

import (
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/strict"
	"lnpbp.dev/rgb-consensus/rgb/tagged"
)

// typeCommitmentGenesis / typeCommitmentTransition are the TypeCommitment
// discriminants of spec.md §4.4.1.
const (
	typeCommitmentGenesis    = 0x00
	typeCommitmentTransition = 0x01
)

// baseCommitment packs the genesis-only fields that anchor a genesis
// OpCommitment (spec.md §4.4.1).
type baseCommitment struct {
	SchemaId            contract.SchemaId
	Timestamp           int64
	IssuerHash          [32]byte
	ChainNet            contract.ChainNet
	SealClosingStrategy contract.SealClosingStrategy
}

func (b baseCommitment) encodeStrict(w *strict.Writer) error {
	w.WriteRaw(b.SchemaId[:])
	w.WriteI64(b.Timestamp)
	w.WriteRaw(b.IssuerHash[:])
	w.WriteU8(uint8(b.ChainNet))
	w.WriteU8(uint8(b.SealClosingStrategy))
	return nil
}

// opCommitment is the hashable projection of one operation (spec.md
// §4.4.1). It is never decoded — only ever built from a Genesis/Transition
// and hashed — so it carries no DecodeStrict counterpart.
type opCommitment struct {
	Ffv    uint16
	Nonce  uint64
	IsGenesis bool
	Base            baseCommitment // valid iff IsGenesis
	ContractId      contract.ContractId
	TransitionType  contract.TransitionType
	MetadataHash    [32]byte
	GlobalsHash     [32]byte
	InputsHash      [32]byte
	AssignmentsHash [32]byte
}

func (c opCommitment) encodeStrict(w *strict.Writer) error {
	w.WriteU16(c.Ffv)
	w.WriteU64(c.Nonce)
	if c.IsGenesis {
		w.WriteU8(typeCommitmentGenesis)
		if err := c.Base.encodeStrict(w); err != nil {
			return err
		}
	} else {
		w.WriteU8(typeCommitmentTransition)
		w.WriteRaw(c.ContractId[:])
		w.WriteU16(uint16(c.TransitionType))
	}
	w.WriteRaw(c.MetadataHash[:])
	w.WriteRaw(c.GlobalsHash[:])
	w.WriteRaw(c.InputsHash[:])
	w.WriteRaw(c.AssignmentsHash[:])
	return nil
}

func strictHashMetadata(m contract.Metadata) [32]byte {
	b, err := strict.Encode(m)
	if err != nil {
		panic("rgb/commit: metadata failed to encode: " + err.Error())
	}
	return tagged.Hash(tagged.TagMetadata, b)
}

func strictHashIdentity(id contract.Identity) [32]byte {
	b, err := strict.Encode(id)
	if err != nil {
		panic("rgb/commit: identity failed to encode: " + err.Error())
	}
	return tagged.Hash(tagged.TagIdentity, b)
}

// merkleLeavesFromGlobals builds the globals Merkle leaves: each leaf is
// the strict encoding of one (GlobalStateType, values) pair.
func merkleLeavesFromGlobals(g contract.GlobalState) [][]byte {
	leaves := make([][]byte, 0, len(g))
	for ty, values := range g {
		w := strict.NewWriter()
		w.WriteU16(uint16(ty))
		if err := w.WriteLen(strict.Width16, len(values)); err != nil {
			panic("rgb/commit: globals leaf length overflow: " + err.Error())
		}
		for _, v := range values {
			if err := w.WriteBytes(strict.Width16, v); err != nil {
				panic("rgb/commit: globals leaf value overflow: " + err.Error())
			}
		}
		leaves = append(leaves, w.Bytes())
	}
	return leaves
}

// merkleLeavesFromInputs builds the inputs Merkle leaves: each leaf is one
// Opout's own strict encoding (spec.md §4.1/§4.4.1).
func merkleLeavesFromInputs(inputs contract.InputSet) [][]byte {
	leaves := make([][]byte, len(inputs))
	for i, o := range inputs {
		leaves[i] = o.Bytes()
	}
	return leaves
}

// merkleLeavesFromAssignments builds the assignments Merkle leaves: each
// leaf is the strict encoding of one (AssignmentType, concealed
// TypedAssigns) pair. Concealment happens here, per assignment, before
// encoding — this is what makes OpId identical whether computed from the
// revealed or the confidential form of an operation (spec.md §4.3/§8
// property 2).
func merkleLeavesFromAssignments(a contract.Assignments) [][]byte {
	leaves := make([][]byte, 0, len(a))
	for ty, ta := range a {
		w := strict.NewWriter()
		w.WriteU16(uint16(ty))
		if err := ta.ConcealAll().EncodeStrict(w); err != nil {
			panic("rgb/commit: assignments leaf failed to encode: " + err.Error())
		}
		leaves = append(leaves, w.Bytes())
	}
	return leaves
}

func globalsHash(g contract.GlobalState) [32]byte {
	return tagged.MerkleRoot(tagged.TagGlobals, merkleLeavesFromGlobals(g))
}

func inputsHash(inputs contract.InputSet) [32]byte {
	return tagged.MerkleRoot(tagged.TagInputs, merkleLeavesFromInputs(inputs))
}

func assignmentsHash(a contract.Assignments) [32]byte {
	return tagged.MerkleRoot(tagged.TagAssignments, merkleLeavesFromAssignments(a))
}

// OpIdOfGenesis computes the OpId of a genesis operation (spec.md
// §4.4.1/§4.4.4: the ContractId is this value, reinterpreted).
func OpIdOfGenesis(g contract.Genesis) contract.OpId {
	c := opCommitment{
		Ffv:   g.Ffv,
		Nonce: 0, // genesis carries no nonce field; fixed at zero for the commitment.
		IsGenesis: true,
		Base: baseCommitment{
			SchemaId:            g.SchemaId,
			Timestamp:           g.Timestamp,
			IssuerHash:          strictHashIdentity(g.Issuer),
			ChainNet:            g.ChainNet,
			SealClosingStrategy: g.SealClosingStrategy,
		},
		MetadataHash:    strictHashMetadata(g.Metadata),
		GlobalsHash:     globalsHash(g.Globals),
		InputsHash:      inputsHash(nil),
		AssignmentsHash: assignmentsHash(g.Assignments),
	}
	return hashOpCommitment(c)
}

// OpIdOfTransition computes the OpId of a transition.
func OpIdOfTransition(t contract.Transition) contract.OpId {
	c := opCommitment{
		Ffv:            t.Ffv,
		Nonce:          t.Nonce,
		IsGenesis:      false,
		ContractId:     t.ContractId,
		TransitionType: t.TransitionType,
		MetadataHash:    strictHashMetadata(t.Metadata),
		GlobalsHash:     globalsHash(t.Globals),
		InputsHash:      inputsHash(t.Inputs),
		AssignmentsHash: assignmentsHash(t.Assignments),
	}
	return hashOpCommitment(c)
}

func hashOpCommitment(c opCommitment) contract.OpId {
	w := strict.NewWriter()
	if err := c.encodeStrict(w); err != nil {
		panic("rgb/commit: OpCommitment failed to encode: " + err.Error())
	}
	return contract.OpId(tagged.Hash(tagged.TagOperation, w.Bytes()))
}

// ContractIdOfGenesis is the ContractId of a contract whose genesis is g —
// equal to OpIdOfGenesis(g), reinterpreted (spec.md §4.4.4).
func ContractIdOfGenesis(g contract.Genesis) contract.ContractId {
	return contract.ContractIdFromOpId(OpIdOfGenesis(g))
}

// CommitBundle computes the BundleId of a transition bundle: the tagged
// hash of its InputMap, sorted by Opout (spec.md §4.4.2). The bundle's
// KnownTransitions are deliberately excluded from the hashed payload.
func CommitBundle(b contract.TransitionBundle) (contract.BundleId, error) {
	if err := b.Validate(); err != nil {
		return contract.BundleId{}, err
	}
	w := strict.NewWriter()
	if err := b.EncodeInputMap(w); err != nil {
		return contract.BundleId{}, err
	}
	return contract.BundleId(tagged.Hash(tagged.TagBundle, w.Bytes())), nil
}

// CommitSchema computes the SchemaId of a schema: the tagged hash of its
// full strict encoding (spec.md §4.4.3). Presentation-only fields
// (DefaultTransition/DefaultAssignment) are included, per spec.md §9's
// Open Question resolution: they are part of the encoded schema and thus
// contribute to the hash, never omitted.
func CommitSchema(s contract.Schema) (contract.SchemaId, error) {
	b, err := strict.Encode(s)
	if err != nil {
		return contract.SchemaId{}, err
	}
	return contract.SchemaId(tagged.Hash(tagged.TagSchema, b)), nil
}
