package vm

import "github.com/zinc-lang/zinc/lang/types"

// leafTypes expands t into the ordered sequence of scalar leaf types that
// back its Size() field elements — the same decomposition
// lang/semantic/expr.go's buildAggregate performs at the IR level via
// individual Store instructions for every composite literal. The VM only
// needs this standalone version at its two untyped boundaries: wrapping
// Run's flat []constraint.Wire entry inputs, and describing a storage
// field's leaf layout, where there is no Store sequence to read the types
// back off of.
func leafTypes(t types.Type) []types.Type {
	switch tt := t.(type) {
	case types.Unit:
		return nil
	case types.Array:
		elem := leafTypes(tt.Elem)
		out := make([]types.Type, 0, len(elem)*tt.Len)
		for i := 0; i < tt.Len; i++ {
			out = append(out, elem...)
		}
		return out
	case types.Tuple:
		var out []types.Type
		for _, e := range tt.Elems {
			out = append(out, leafTypes(e)...)
		}
		return out
	case *types.Struct:
		var out []types.Type
		for _, f := range tt.Fields {
			out = append(out, leafTypes(f.Type)...)
		}
		return out
	default:
		return []types.Type{t}
	}
}
