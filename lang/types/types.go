// Package types implements spec.md §3's closed Type variant set: the
// compile-time representation every value, place and IR node carries from
// the semantic pass onward. Every concrete Type knows its own Size (number
// of field elements it occupies once lowered to bytecode/constraints),
// mirroring the teacher's lang/types.Value shape (a single small interface
// plus one struct per variant), adapted from runtime values to compile-time
// types since Zinc resolves everything statically before code generation.
package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every member of spec.md §3's closed Type variant
// set: unit, bool, field, uint{N}, int{N}, array, tuple, structure,
// enumeration, contract, string, function, alias (the last never survives
// past the semantic pass, see Alias below).
type Type interface {
	// String renders the type the way Zinc source spells it, used in
	// diagnostics and in the bytecode's human-readable disassembly.
	String() string

	// Size reports the type's size in field elements, recursively defined.
	// string and function have no runtime representation and panic if
	// asked; alias must be resolved away before Size is ever called on it.
	Size() int

	// Equal reports structural equality for array/tuple, nominal (identity)
	// equality for structure/enumeration/contract, matching spec.md §8's
	// "Type equality is structural for arrays and tuples; nominal for
	// structures, enumerations, and contracts."
	Equal(other Type) bool
}

// Unit is the zero-size type of "()", the value of statements, assignment
// expressions, and functions with no declared return type.
type Unit struct{}

func (Unit) String() string     { return "()" }
func (Unit) Size() int          { return 0 }
func (Unit) Equal(o Type) bool  { _, ok := o.(Unit); return ok }

// Bool is the single-element boolean type, realized in the VM as a field
// element constrained to {0, 1}.
type Bool struct{}

func (Bool) String() string    { return "bool" }
func (Bool) Size() int         { return 1 }
func (Bool) Equal(o Type) bool { _, ok := o.(Bool); return ok }

// Field is the native BN254 scalar field element type, spec.md §3's
// "element of BN256 scalar field, ≈254 bits".
type Field struct{}

func (Field) String() string    { return "field" }
func (Field) Size() int         { return 1 }
func (Field) Equal(o Type) bool { _, ok := o.(Field); return ok }

// Integer is uint{N} (Signed == false) or int{N} (Signed == true) for
// N in [1, 248], spec.md §3's fixed-width integer family.
type Integer struct {
	Width  int
	Signed bool
}

func (t Integer) String() string {
	if t.Signed {
		return fmt.Sprintf("i%d", t.Width)
	}
	return fmt.Sprintf("u%d", t.Width)
}
func (Integer) Size() int { return 1 }
func (t Integer) Equal(o Type) bool {
	u, ok := o.(Integer)
	return ok && u.Width == t.Width && u.Signed == t.Signed
}

// MaxBitWidth is spec.md §3's upper bound on any uint{N}/int{N} width.
const MaxBitWidth = 248

// Array is "[element; size]", a fixed-length homogeneous sequence.
type Array struct {
	Elem Type
	Len  int
}

func (t Array) String() string { return fmt.Sprintf("[%s; %d]", t.Elem, t.Len) }
func (t Array) Size() int      { return t.Elem.Size() * t.Len }
func (t Array) Equal(o Type) bool {
	u, ok := o.(Array)
	return ok && u.Len == t.Len && u.Elem.Equal(t.Elem)
}

// Tuple is "(T0, T1, ...)", including the zero-element tuple which is
// represented instead as Unit (spec.md's "()" is the unit type, not a
// 0-tuple), so every Tuple built by the semantic pass has at least one
// element.
type Tuple struct {
	Elems []Type
}

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Size() int {
	n := 0
	for _, e := range t.Elems {
		n += e.Size()
	}
	return n
}
func (t Tuple) Equal(o Type) bool {
	u, ok := o.(Tuple)
	if !ok || len(u.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(u.Elems[i]) {
			return false
		}
	}
	return true
}

// StructField describes one named field of a Struct, in declaration order (which
// is also storage order).
type StructField struct {
	Name string
	Type Type
}

// Struct is a nominal structure type; two Structs are Equal only if they
// are the exact same declaration (compared by pointer identity, per spec.md
// §8 "nominal for structures").
type Struct struct {
	Name   string
	Fields []StructField
}

func (t *Struct) String() string { return t.Name }
func (t *Struct) Size() int {
	n := 0
	for _, f := range t.Fields {
		n += f.Type.Size()
	}
	return n
}
func (t *Struct) Equal(o Type) bool {
	u, ok := o.(*Struct)
	return ok && u == t
}

// FieldOffset returns the field element offset and size of the named field,
// used by the generator's place-resolution (spec.md §4.4 "Place access").
func (t *Struct) FieldOffset(name string) (offset, size int, ok bool) {
	off := 0
	for _, f := range t.Fields {
		if f.Name == name {
			return off, f.Type.Size(), true
		}
		off += f.Type.Size()
	}
	return 0, 0, false
}

// Enum is a nominal enumeration type: a fixed map from variant name to
// integer discriminant, plus (for non-unit variants) the tuple of field
// types carried by that variant. Its runtime representation is a single
// field element (the discriminant) for unit-only enums; variants carrying
// fields are represented as (discriminant, ...fields) and the semantic
// analyzer rejects variants mixed with non-unit payloads appearing where a
// bare scalar discriminant is required (match on a payload-carrying enum is
// restricted to spec.md's literal/binding/wildcard pattern kinds on the
// discriminant alone).
type Enum struct {
	Name     string
	Variants []EnumVariant
}

// EnumVariant is one member of an Enum: its name, assigned discriminant,
// and (for a tuple variant) the types of its fields.
type EnumVariant struct {
	Name        string
	Discriminant int64
	Fields      []Type
}

func (t *Enum) String() string { return t.Name }
func (t *Enum) Size() int {
	maxPayload := 0
	for _, v := range t.Variants {
		sz := 0
		for _, f := range v.Fields {
			sz += f.Size()
		}
		if sz > maxPayload {
			maxPayload = sz
		}
	}
	return 1 + maxPayload
}
func (t *Enum) Equal(o Type) bool {
	u, ok := o.(*Enum)
	return ok && u == t
}

// Discriminant returns the discriminant assigned to the named variant.
func (t *Enum) Discriminant(name string) (int64, bool) {
	for _, v := range t.Variants {
		if v.Name == name {
			return v.Discriminant, true
		}
	}
	return 0, false
}

// StorageField describes one declared field of a contract's storage layout
// (spec.md §3 "storage layout"): either a plain scalar/array/struct Type, or
// an MTreeMap, Zinc's one dynamic collection (spec.md §4.3: "instantiation
// forbidden outside contract storage").
type StorageField struct {
	Name string
	Type Type // nil if MapKey/MapValue are set
	// MapKey/MapValue are non-nil exactly when this field is an
	// MTreeMap<MapKey, MapValue>.
	MapKey, MapValue Type
}

// IsMap reports whether this storage field is an MTreeMap.
func (f StorageField) IsMap() bool { return f.MapKey != nil }

// Method describes one entry of a contract's method table (spec.md §6
// "Bytecode format ... a method table keyed by name
// ({is_mutable, input_type, output_type})").
type Method struct {
	Name      string
	IsMutable bool
	Input     Type
	Output    Type
}

// Contract is a nominal contract type: storage layout plus method table,
// spec.md §3's `contract{identifier, storage layout, method table}`.
type Contract struct {
	Name    string
	Storage []StorageField
	Methods []Method
}

func (t *Contract) String() string { return t.Name }
func (t *Contract) Size() int {
	n := 0
	for _, f := range t.Storage {
		if f.IsMap() {
			continue // maps are variable-length storage leaves, not fixed-size.
		}
		n += f.Type.Size()
	}
	return n
}
func (t *Contract) Equal(o Type) bool {
	u, ok := o.(*Contract)
	return ok && u == t
}

// StorageFieldOffset returns the field element offset of the named plain
// (non-map) storage field, used to address the contract's Merkle leaves.
func (t *Contract) StorageFieldOffset(name string) (offset int, field StorageField, ok bool) {
	off := 0
	for _, f := range t.Storage {
		if f.Name == name {
			return off, f, true
		}
		if !f.IsMap() {
			off += f.Type.Size()
		} else {
			off++ // one leaf slot, addressed by field index rather than element offset
		}
	}
	return 0, StorageField{}, false
}

// Function is a resolved function signature plus the unique id spec.md §3
// assigns to each monomorphized instance; it carries no runtime size of its
// own (spec.md: function values are resolved at compile time, never stored
// as data).
type Function struct {
	Name    string
	UniqueID uint64
	Params  []Type
	Result  Type
}

func (t *Function) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Result)
}
func (t *Function) Size() int { panic("types: function has no runtime size") }
func (t *Function) Equal(o Type) bool {
	u, ok := o.(*Function)
	return ok && u == t
}

// String is the compile-time-only string type (spec.md §3): legal only as
// the format/message argument to an intrinsic, never surviving to IR.
type String struct{}

func (String) String() string    { return "string" }
func (String) Size() int         { panic("types: string has no runtime size") }
func (String) Equal(o Type) bool { _, ok := o.(String); return ok }

// Alias defers to a not-yet-resolved path expression; the semantic pass
// resolves every Alias to its target before any IR is built, so Alias must
// never appear past the resolution phase (spec.md §3: "alias(path
// expression) (resolved in semantic pass; never survives to IR)").
type Alias struct {
	Path string // textual rendering of the aliased path, for diagnostics only
}

func (t Alias) String() string { return t.Path }
func (Alias) Size() int        { panic("types: unresolved alias has no size") }
func (t Alias) Equal(o Type) bool {
	u, ok := o.(Alias)
	return ok && u.Path == t.Path
}

// MTreeMapName is the reserved intrinsic generic type name, spec.md §4.3:
// "instantiation-forbidden outside contract storage ... may only appear as
// a direct field of a contract type."
const MTreeMapName = "MTreeMap"

// FitsBits reports whether an N-bit-wide value (as produced by the lexer's
// integer-literal bit-count) fits into a concrete Zinc type per spec.md §8's
// literal-typing invariant: u{N} for N = 8*ceil(bits/8) when N <= 248,
// field when 249 <= bits <= 254, and an error (ok == false) otherwise.
func FitsBits(bits int) (t Type, ok bool) {
	if bits <= MaxBitWidth {
		width := ((bits + 7) / 8) * 8
		if width == 0 {
			width = 8
		}
		return Integer{Width: width, Signed: false}, true
	}
	if bits <= 254 {
		return Field{}, true
	}
	return nil, false
}
