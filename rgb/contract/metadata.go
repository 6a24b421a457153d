package contract

import (
	"fmt"
	"sort"

	"lnpbp.dev/rgb-consensus/rgb/strict"
)

// Metadata is the MetaType -> payload map carried by every operation
// (spec.md §3.4). The core never interprets payload bytes itself; the
// schema validator decodes them against a MetaDetails.SemId.
type Metadata map[MetaType][]byte

func (m Metadata) sortedTypes() []MetaType {
	types := make([]MetaType, 0, len(m))
	for ty := range m {
		types = append(types, ty)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (m Metadata) EncodeStrict(w *strict.Writer) error {
	types := m.sortedTypes()
	if err := w.WriteLen(strict.Width16, len(types)); err != nil {
		return err
	}
	for _, ty := range types {
		w.WriteU16(uint16(ty))
		if err := w.WriteBytes(strict.Width16, m[ty]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metadata) DecodeStrict(r *strict.Reader) error {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	out := make(Metadata, n)
	var prev MetaType
	for i := 0; i < n; i++ {
		tyRaw, err := r.ReadU16()
		if err != nil {
			return err
		}
		ty := MetaType(tyRaw)
		if i > 0 && ty <= prev {
			return fmt.Errorf("contract: metadata not in strict key order")
		}
		prev = ty
		payload, err := r.ReadBytes(strict.Width16)
		if err != nil {
			return err
		}
		out[ty] = payload
	}
	*m = out
	return nil
}

// GlobalState is the GlobalStateType -> list-of-values map of spec.md
// §3.4. Each type may carry multiple values, bounded by GlobalDetails's
// Occurrences and MaxItems.
type GlobalState map[GlobalStateType][][]byte

func (g GlobalState) sortedTypes() []GlobalStateType {
	types := make([]GlobalStateType, 0, len(g))
	for ty := range g {
		types = append(types, ty)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (g GlobalState) EncodeStrict(w *strict.Writer) error {
	types := g.sortedTypes()
	if err := w.WriteLen(strict.Width16, len(types)); err != nil {
		return err
	}
	for _, ty := range types {
		w.WriteU16(uint16(ty))
		values := g[ty]
		if err := w.WriteLen(strict.Width16, len(values)); err != nil {
			return err
		}
		for _, v := range values {
			if err := w.WriteBytes(strict.Width16, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *GlobalState) DecodeStrict(r *strict.Reader) error {
	n, err := r.ReadLen(strict.Width16)
	if err != nil {
		return err
	}
	out := make(GlobalState, n)
	var prev GlobalStateType
	for i := 0; i < n; i++ {
		tyRaw, err := r.ReadU16()
		if err != nil {
			return err
		}
		ty := GlobalStateType(tyRaw)
		if i > 0 && ty <= prev {
			return fmt.Errorf("contract: globals not in strict key order")
		}
		prev = ty
		count, err := r.ReadLen(strict.Width16)
		if err != nil {
			return err
		}
		values := make([][]byte, count)
		for j := 0; j < count; j++ {
			v, err := r.ReadBytes(strict.Width16)
			if err != nil {
				return err
			}
			values[j] = v
		}
		out[ty] = values
	}
	*g = out
	return nil
}
