// Package scripts ships example validator bytecode for the reference VM
// in rgb/vm, so a schema that wants fungible-state conservation enforced
// has something real to attach rather than an assertion only the test
// suite knows about.
package scripts

import (
	"encoding/binary"

	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/vm"
)

// FungibleConservation builds a one-instruction validator library that
// rejects a transition unless the sum of AssignmentType ty's input values
// equals the sum of its output values, and returns the LibSite a
// TransitionDetails.Validator field should point at.
func FungibleConservation(ty contract.AssignmentType) (vm.Lib, contract.LibSite) {
	bytecode := make([]byte, 3)
	bytecode[0] = 0x01 // opFungibleConservation, mirrored from rgb/vm/refvm.go
	binary.LittleEndian.PutUint16(bytecode[1:3], uint16(ty))

	lib := vm.Load(bytecode)
	return lib, contract.LibSite{Lib: lib.ID, Entry: 0}
}
