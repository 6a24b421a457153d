package state

import (
	"fmt"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
)

// TopologicalSort orders transitions so that every transition appears
// after every transition producing one of its inputs (spec.md §4.6:
// "order of evaluation is a topological sort keyed by Opout
// reachability"). A transition whose input references an operation
// missing from genesis+transitions is a fatal error, not a skipped
// transition; a reference cycle is likewise fatal — the operation graph is
// a DAG by construction (spec.md §9).
func TopologicalSort(genesis contract.Genesis, transitions []contract.Transition) ([]contract.Transition, error) {
	genesisID := commit.OpIdOfGenesis(genesis)

	byID := make(map[contract.OpId]contract.Transition, len(transitions))
	for _, t := range transitions {
		byID[commit.OpIdOfTransition(t)] = t
	}

	var ordered []contract.Transition
	visited := make(map[contract.OpId]bool, len(transitions))
	visiting := make(map[contract.OpId]bool, len(transitions))

	var visit func(id contract.OpId) error
	visit = func(id contract.OpId) error {
		if visited[id] || id == genesisID {
			visited[id] = true
			return nil
		}
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("rgb/state: no operation produces referenced predecessor %s", id)
		}
		if visiting[id] {
			return fmt.Errorf("rgb/state: cyclic dependency detected at operation %s", id)
		}
		visiting[id] = true
		for _, in := range t.Inputs {
			if err := visit(in.Op); err != nil {
				return err
			}
		}
		visiting[id] = false
		visited[id] = true
		ordered = append(ordered, t)
		return nil
	}

	for _, t := range transitions {
		if err := visit(commit.OpIdOfTransition(t)); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}
