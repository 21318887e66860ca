// Package bytecode implements spec.md §6's "binary encoding of
// Application = Circuit | Contract" and §3's Instruction variant set: the
// immutable, serializable program lang/generator emits and lang/vm
// executes. Every Instruction is a CBOR-tagged struct (DESIGN.md: wired to
// github.com/fxamacker/cbor/v2, pulled in by the opal-lang-opal pack entry)
// whose keyasint field tags give the "tag byte followed by tag-specific
// fields" framing spec.md describes without a hand-rolled binary reader.
package bytecode

import (
	"fmt"
	"strings"

	"github.com/zinc-lang/zinc/lang/types"
)

// TypeKind tags which variant of types.Type a TypeDescriptor encodes.
type TypeKind uint8

const (
	KindUnit TypeKind = iota
	KindBool
	KindField
	KindUint
	KindInt
	KindArray
	KindTuple
	KindStruct
	KindEnum
	KindContract
)

// TypeDescriptor is the serializable, structural rendering of a types.Type
// used by a Circuit/Contract's recorded input/output signatures and by
// Cast/Dbg instructions (spec.md §6 "Input/output JSON templates" and §3's
// Type variant set). Struct/enum/contract descriptors are reconstructed
// structurally on Decode, not by nominal identity: lang/vm only needs a
// type's Size() and representation to execute, never pointer identity, so
// round-tripping through bytecode never needs to recover the original
// *types.Struct/*types.Enum/*types.Contract value.
type TypeDescriptor struct {
	Kind   TypeKind         `cbor:"0,keyasint"`
	Width  int              `cbor:"1,keyasint,omitempty"`
	Elem   *TypeDescriptor  `cbor:"2,keyasint,omitempty"`
	Len    int              `cbor:"3,keyasint,omitempty"`
	Elems  []TypeDescriptor `cbor:"4,keyasint,omitempty"`
	Name   string           `cbor:"5,keyasint,omitempty"`
	Fields []FieldDescriptor `cbor:"6,keyasint,omitempty"`
}

// FieldDescriptor is one named field of a KindStruct TypeDescriptor.
type FieldDescriptor struct {
	Name string         `cbor:"0,keyasint"`
	Type TypeDescriptor `cbor:"1,keyasint"`
}

// DescribeType converts a resolved types.Type into its wire form.
func DescribeType(t types.Type) TypeDescriptor {
	switch tt := t.(type) {
	case types.Unit:
		return TypeDescriptor{Kind: KindUnit}
	case types.Bool:
		return TypeDescriptor{Kind: KindBool}
	case types.Field:
		return TypeDescriptor{Kind: KindField}
	case types.Integer:
		k := KindUint
		if tt.Signed {
			k = KindInt
		}
		return TypeDescriptor{Kind: k, Width: tt.Width}
	case types.Array:
		elem := DescribeType(tt.Elem)
		return TypeDescriptor{Kind: KindArray, Elem: &elem, Len: tt.Len}
	case types.Tuple:
		elems := make([]TypeDescriptor, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = DescribeType(e)
		}
		return TypeDescriptor{Kind: KindTuple, Elems: elems}
	case *types.Struct:
		fields := make([]FieldDescriptor, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = FieldDescriptor{Name: f.Name, Type: DescribeType(f.Type)}
		}
		return TypeDescriptor{Kind: KindStruct, Name: tt.Name, Fields: fields}
	case *types.Enum:
		return TypeDescriptor{Kind: KindEnum, Name: tt.Name, Width: tt.Size()}
	case *types.Contract:
		return TypeDescriptor{Kind: KindContract, Name: tt.Name, Width: tt.Size()}
	}
	panic(fmt.Sprintf("bytecode: cannot describe type %T", t))
}

// Type reconstructs a structural types.Type from the descriptor. A struct
// descriptor becomes a fresh *types.Struct with the same name and field
// layout; enum and contract descriptors become fresh *types.Enum and
// *types.Contract values carrying only the name. Nominal (pointer)
// equality is lost, which lang/vm never relies on.
func (d TypeDescriptor) Type() types.Type {
	switch d.Kind {
	case KindUnit:
		return types.Unit{}
	case KindBool:
		return types.Bool{}
	case KindField:
		return types.Field{}
	case KindUint:
		return types.Integer{Width: d.Width, Signed: false}
	case KindInt:
		return types.Integer{Width: d.Width, Signed: true}
	case KindArray:
		return types.Array{Elem: d.Elem.Type(), Len: d.Len}
	case KindTuple:
		elems := make([]types.Type, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = e.Type()
		}
		return types.Tuple{Elems: elems}
	case KindStruct:
		fields := make([]types.StructField, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: f.Type.Type()}
		}
		return &types.Struct{Name: d.Name, Fields: fields}
	case KindEnum:
		// A decoded enum only needs to report its name and overall size to
		// the VM; its variant table is looked up from the Application's
		// method/field metadata where actually needed.
		return &types.Enum{Name: d.Name}
	case KindContract:
		return &types.Contract{Name: d.Name}
	}
	panic(fmt.Sprintf("bytecode: invalid TypeKind %d", d.Kind))
}

func (d TypeDescriptor) String() string { return d.Type().String() }

// StorageFieldDescriptor is one entry of a Contract's storage layout
// (spec.md §3 "storage layout"), carrying MTreeMap key/value metadata when
// IsMap is set (spec.md §4.5 "key size and value size are carried as
// compile-time metadata").
type StorageFieldDescriptor struct {
	Name     string         `cbor:"0,keyasint"`
	IsMap    bool           `cbor:"1,keyasint,omitempty"`
	Type     TypeDescriptor `cbor:"2,keyasint,omitempty"`
	MapKey   TypeDescriptor `cbor:"3,keyasint,omitempty"`
	MapValue TypeDescriptor `cbor:"4,keyasint,omitempty"`
}

// MethodDescriptor is one entry of a Contract's method table (spec.md §6
// "a method table keyed by name ({is_mutable, input_type, output_type})").
type MethodDescriptor struct {
	Name      string         `cbor:"0,keyasint"`
	IsMutable bool           `cbor:"1,keyasint,omitempty"`
	Input     TypeDescriptor `cbor:"2,keyasint,omitempty"`
	Output    TypeDescriptor `cbor:"3,keyasint,omitempty"`
	Address   uint64         `cbor:"4,keyasint"`
}

// UnitTest is one entry of the unit-test table spec.md §6 attaches to both
// Circuit and Contract: a #[test]-annotated function's name and entry
// address, invoked by the "zinc test" command (exit codes per spec.md §6:
// 0 passed, 1 failed, 2 ignored).
type UnitTest struct {
	Name    string `cbor:"0,keyasint"`
	Address uint64 `cbor:"1,keyasint"`
	Ignore  bool   `cbor:"2,keyasint,omitempty"`
}

func joinTypes(ts []TypeDescriptor) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
