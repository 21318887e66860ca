package bytecode

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Circuit is spec.md §6's Circuit application: "its name, entry address,
// input and output type descriptors, a unit-test table, and an instruction
// vector."
type Circuit struct {
	Name         string         `cbor:"0,keyasint"`
	EntryAddress uint64         `cbor:"1,keyasint"`
	Input        TypeDescriptor `cbor:"2,keyasint,omitempty"`
	Output       TypeDescriptor `cbor:"3,keyasint,omitempty"`
	UnitTests    []UnitTest     `cbor:"4,keyasint,omitempty"`
	Instructions []Instruction  `cbor:"5,keyasint"`
}

// Contract is spec.md §6's Contract application: "its name, storage layout
// (ordered list of (name, type)), a method table keyed by name, a
// unit-test table, and an instruction vector."
type Contract struct {
	Name         string                   `cbor:"0,keyasint"`
	Storage      []StorageFieldDescriptor `cbor:"1,keyasint,omitempty"`
	Methods      []MethodDescriptor       `cbor:"2,keyasint,omitempty"`
	UnitTests    []UnitTest               `cbor:"3,keyasint,omitempty"`
	Instructions []Instruction            `cbor:"4,keyasint"`
}

// Method looks up a method descriptor by name.
func (c *Contract) Method(name string) (MethodDescriptor, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return MethodDescriptor{}, false
}

// StorageFieldByName looks up a storage field descriptor by name.
func (c *Contract) StorageFieldByName(name string) (StorageFieldDescriptor, int, bool) {
	for i, f := range c.Storage {
		if f.Name == name {
			return f, i, true
		}
	}
	return StorageFieldDescriptor{}, -1, false
}

// Application is spec.md §6's "Application = Circuit | Contract" closed
// sum, the top-level value encoded to and decoded from bytecode.
type Application struct {
	Circuit  *Circuit  `cbor:"0,keyasint,omitempty"`
	Contract *Contract `cbor:"1,keyasint,omitempty"`
}

// Instructions returns whichever instruction vector the Application holds.
func (a *Application) Instructions() []Instruction {
	if a.Circuit != nil {
		return a.Circuit.Instructions
	}
	if a.Contract != nil {
		return a.Contract.Instructions
	}
	return nil
}

// EntryAddress returns the Circuit's entry address. It panics for a
// Contract application, which has no single entry point (spec.md §6: a
// contract dispatches to one of its method table's addresses instead).
func (a *Application) EntryAddress() uint64 {
	if a.Circuit == nil {
		panic("bytecode: EntryAddress called on a Contract application")
	}
	return a.Circuit.EntryAddress
}

// Encode serializes an Application to its canonical CBOR binary form
// (spec.md §6 "binary encoding of Application = Circuit | Contract").
func Encode(app *Application) ([]byte, error) {
	opts := cbor.CanonicalEncOptions()
	em, err := opts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("bytecode: build encoder: %w", err)
	}
	buf, err := em.Marshal(app)
	if err != nil {
		return nil, fmt.Errorf("bytecode: encode: %w", err)
	}
	return buf, nil
}

// Decode deserializes an Application previously produced by Encode.
func Decode(data []byte) (*Application, error) {
	var app Application
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("bytecode: build decoder: %w", err)
	}
	if err := dm.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("bytecode: decode: %w", err)
	}
	return &app, nil
}

// Equal reports whether two Applications encode identically, used by
// round-trip tests (spec.md §8 "Bytecode serialize/deserialize is
// identity").
func Equal(a, b *Application) (bool, error) {
	ea, err := Encode(a)
	if err != nil {
		return false, err
	}
	eb, err := Encode(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ea, eb), nil
}
