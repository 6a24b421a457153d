package vm

import (
	"encoding/binary"

	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// Opcodes understood by the reference interpreter. This is intentionally
// tiny: one builtin, fungible-state conservation, sufficient to make
// spec.md §8 property 6 ("sum(inputs) == sum(outputs), if implemented, is
// a testable invariant") demonstrable end to end. Spec.md §9's Open
// Question is explicit that the *core* does not hard-code conservation —
// this lives entirely inside an attached validator script, exercised only
// when a schema chooses to attach one.
const opFungibleConservation byte = 0x01

func runReference(lib Lib, entry uint16, ctx Context) (Result, error) {
	if int(entry) >= len(lib.Bytecode) {
		return Reject, errUnknownOpcode(0)
	}
	op := lib.Bytecode[entry]
	switch op {
	case opFungibleConservation:
		return runFungibleConservation(lib, entry, ctx)
	default:
		return Reject, errUnknownOpcode(op)
	}
}

// runFungibleConservation reads a 2-byte AssignmentType operand following
// the opcode and rejects unless the sum of that type's input values
// equals the sum of its output values.
func runFungibleConservation(lib Lib, entry uint16, ctx Context) (Result, error) {
	if len(lib.Bytecode) < int(entry)+3 {
		return Reject, errUnknownOpcode(opFungibleConservation)
	}
	ty := contract.AssignmentType(binary.LittleEndian.Uint16(lib.Bytecode[entry+1 : entry+3]))

	var inSum uint64
	for _, in := range ctx.Inputs {
		if in.Opout.Ty != ty {
			continue
		}
		fs, ok := in.State.(contract.FungibleState)
		if !ok {
			return Reject, nil
		}
		inSum += fs.Bits64
	}

	var outSum uint64
	ta, ok := ctx.Assignments[ty]
	if ok {
		for _, item := range ta.Items {
			fs, ok := item.State.(contract.FungibleState)
			if !ok {
				return Reject, nil
			}
			outSum += fs.Bits64
		}
	}

	if inSum != outSum {
		return Reject, nil
	}
	return Accept, nil
}
