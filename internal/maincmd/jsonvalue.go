// JSON input/output templates (spec.md §6): integers render as decimal
// strings to preserve precision beyond float64, bool as JSON booleans,
// arrays as arrays, structs as objects with named keys. Tuples render as
// JSON arrays in element order, not as objects with positional keys. This is the one boundary format the rest of the compiler never
// touches — lang/vm only ever sees flat []*big.Int leaf vectors (see
// lang/vm/flatten.go) — so it lives here rather than in a core package.
package maincmd

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/zinc-lang/zinc/lang/types"
)

// encodeValue consumes leading elements of leaves according to t's shape
// and returns the corresponding JSON-marshalable value plus the unconsumed
// remainder.
func encodeValue(t types.Type, leaves []*big.Int) (any, []*big.Int, error) {
	switch tt := t.(type) {
	case types.Unit:
		return nil, leaves, nil
	case types.Bool:
		if len(leaves) == 0 {
			return nil, nil, fmt.Errorf("maincmd: too few values for %s", t)
		}
		return leaves[0].Sign() != 0, leaves[1:], nil
	case types.Field, types.Integer:
		if len(leaves) == 0 {
			return nil, nil, fmt.Errorf("maincmd: too few values for %s", t)
		}
		return leaves[0].String(), leaves[1:], nil
	case types.Array:
		out := make([]any, tt.Len)
		rest := leaves
		for i := 0; i < tt.Len; i++ {
			var v any
			var err error
			v, rest, err = encodeValue(tt.Elem, rest)
			if err != nil {
				return nil, nil, err
			}
			out[i] = v
		}
		return out, rest, nil
	case types.Tuple:
		out := make([]any, len(tt.Elems))
		rest := leaves
		for i, e := range tt.Elems {
			var v any
			var err error
			v, rest, err = encodeValue(e, rest)
			if err != nil {
				return nil, nil, err
			}
			out[i] = v
		}
		return out, rest, nil
	case *types.Struct:
		out := make(map[string]any, len(tt.Fields))
		rest := leaves
		for _, f := range tt.Fields {
			var v any
			var err error
			v, rest, err = encodeValue(f.Type, rest)
			if err != nil {
				return nil, nil, err
			}
			out[f.Name] = v
		}
		return out, rest, nil
	}
	return nil, nil, fmt.Errorf("maincmd: type %s has no JSON rendering", t)
}

// decodeValue parses raw (already json.Unmarshal'd into generic any values)
// into t's flat leaf sequence, appended to out.
func decodeValue(t types.Type, raw any, out []*big.Int) ([]*big.Int, error) {
	switch tt := t.(type) {
	case types.Unit:
		return out, nil
	case types.Bool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("maincmd: expected bool for %s", t)
		}
		n := int64(0)
		if b {
			n = 1
		}
		return append(out, big.NewInt(n)), nil
	case types.Field, types.Integer:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("maincmd: expected decimal string for %s", t)
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("maincmd: invalid integer literal %q for %s", s, t)
		}
		return append(out, v), nil
	case types.Array:
		arr, ok := raw.([]any)
		if !ok || len(arr) != tt.Len {
			return nil, fmt.Errorf("maincmd: expected array of %d elements for %s", tt.Len, t)
		}
		for _, e := range arr {
			var err error
			out, err = decodeValue(tt.Elem, e, out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case types.Tuple:
		arr, ok := raw.([]any)
		if !ok || len(arr) != len(tt.Elems) {
			return nil, fmt.Errorf("maincmd: expected %d-tuple for %s", len(tt.Elems), t)
		}
		for i, e := range tt.Elems {
			var err error
			out, err = decodeValue(e, arr[i], out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case *types.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("maincmd: expected object for %s", t)
		}
		for _, f := range tt.Fields {
			v, ok := obj[f.Name]
			if !ok {
				return nil, fmt.Errorf("maincmd: missing field %q for %s", f.Name, t)
			}
			var err error
			out, err = decodeValue(f.Type, v, out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("maincmd: type %s has no JSON rendering", t)
}

func marshalValue(t types.Type, leaves []*big.Int) ([]byte, error) {
	v, rest, err := encodeValue(t, leaves)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("maincmd: %d leaf values left unconsumed by %s", len(rest), t)
	}
	return json.MarshalIndent(v, "", "  ")
}

func unmarshalValue(t types.Type, data []byte) ([]*big.Int, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return decodeValue(t, raw, nil)
}
