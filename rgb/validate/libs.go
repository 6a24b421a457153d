package validate

import (
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/vm"
)

// LibResolver loads the bytecode a schema's LibSite addresses. A schema
// only carries a (LibId, entry) pair (spec.md §4.5 step 3); something has
// to turn that id back into runnable bytecode, the way rgbnode/store turns
// an OpId back into an operation.
type LibResolver interface {
	ResolveLib(id contract.LibId) (vm.Lib, bool)
}

// MapLibResolver resolves libraries from a fixed, pre-loaded set — the
// simplest LibResolver, suitable when every attached validator script is
// already in hand (tests, or a deployment that bundles its schema's
// scripts alongside the schema itself).
type MapLibResolver map[contract.LibId]vm.Lib

func (m MapLibResolver) ResolveLib(id contract.LibId) (vm.Lib, bool) {
	lib, ok := m[id]
	return lib, ok
}
