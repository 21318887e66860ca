package ast

import "github.com/zinc-lang/zinc/lang/token"

// Param is one function parameter, including the special "self" receiver
// parameter (SelfPos valid, Name/Type unused).
type Param struct {
	SelfPos token.Pos // valid only for a "self" receiver parameter
	Name    *Ident
	Colon   token.Pos
	Type    TypeExpr
}

func (p *Param) Span() (start, end token.Pos) {
	if p.SelfPos.IsValid() {
		return p.SelfPos, p.SelfPos + 4
	}
	start, _ = p.Name.Span()
	_, end = p.Type.Span()
	return start, end
}
func (p *Param) Walk(v Visitor) {
	if p.Name != nil {
		Walk(v, p.Name)
	}
	if p.Type != nil {
		Walk(v, p.Type)
	}
}

type (
	// UseItem is "use path::to::name;", importing a name from another
	// module of the same compilation (spec.md excludes manifest/multi-crate
	// resolution, so paths only ever reach into sibling mod blocks).
	UseItem struct {
		UsePos  token.Pos
		Segments []*Ident
		Colons  []token.Pos
		Semi    token.Pos
	}

	// ModItem is "mod name { items... }", an inline sub-module.
	ModItem struct {
		ModPos token.Pos
		Pub    token.Pos
		Name   *Ident
		Lbrace token.Pos
		Items  []Item
		Rbrace token.Pos
	}

	// ConstItem is "const NAME: Type = value;", a compile-time constant.
	ConstItem struct {
		ConstPos token.Pos
		Pub      token.Pos
		Name     *Ident
		Colon    token.Pos
		Type     TypeExpr
		Eq       token.Pos
		Value    Expr
		Semi     token.Pos
	}

	// TypeAliasItem is "type Name = Type;".
	TypeAliasItem struct {
		TypePos token.Pos
		Pub     token.Pos
		Name    *Ident
		Eq      token.Pos
		Type    TypeExpr
		Semi    token.Pos
	}

	// StructField is one "name: Type" field of a StructItem.
	StructField struct {
		Pub   token.Pos
		Name  *Ident
		Colon token.Pos
		Type  TypeExpr
	}

	// StructItem is "struct Name<Generics> { field: Type, ... }".
	StructItem struct {
		StructPos token.Pos
		Pub       token.Pos
		Name      *Ident
		Generics  []*Ident
		Lbrace    token.Pos
		Fields    []*StructField
		Rbrace    token.Pos
	}

	// EnumVariant is one variant of an EnumItem, either a unit variant
	// ("Up") or a tuple variant carrying fields ("Transfer(u160, u64)").
	EnumVariant struct {
		Name   *Ident
		Lparen token.Pos // invalid for a unit variant
		Fields []TypeExpr
		Rparen token.Pos
	}

	// EnumItem is "enum Name { Variant, Variant(Type, ...), ... }".
	EnumItem struct {
		EnumPos  token.Pos
		Pub      token.Pos
		Name     *Ident
		Lbrace   token.Pos
		Variants []*EnumVariant
		Rbrace   token.Pos
	}

	// FnItem is a function or method declaration, shared between top-level
	// fn items and the bodies of an ImplItem.
	FnItem struct {
		FnPos    token.Pos
		Pub      token.Pos
		Name     *Ident
		Generics []*Ident
		Lparen   token.Pos
		Params   []*Param
		Rparen   token.Pos
		Arrow    token.Pos // invalid when the return type is elided (unit)
		RetType  TypeExpr
		Body     *Block
	}

	// ImplItem is "impl Target { fn ... }", attaching methods and
	// associated functions to Target.
	ImplItem struct {
		ImplPos token.Pos
		Target  TypeExpr
		Lbrace  token.Pos
		Methods []*FnItem
		Rbrace  token.Pos
	}

	// ContractItem is "contract Name { storage fields..., fn methods... }"
	// (spec.md §3's `contract{identifier, storage layout, method table}`
	// type): a struct-shaped storage layout plus an inline method table,
	// one of which may be the "new" constructor.
	ContractItem struct {
		ContractPos token.Pos
		Pub         token.Pos
		Name        *Ident
		Lbrace      token.Pos
		Storage     []*StructField
		Methods     []*FnItem
		Rbrace      token.Pos
	}
)

func (it *UseItem) Span() (start, end token.Pos) {
	return it.UsePos, it.Semi + 1
}
func (it *UseItem) Walk(v Visitor) {
	for _, s := range it.Segments {
		Walk(v, s)
	}
}
func (it *UseItem) item() {}
func (it *UseItem) ItemName() string {
	return it.Segments[len(it.Segments)-1].Name
}

func (it *ModItem) Span() (start, end token.Pos) { return it.ModPos, it.Rbrace + 1 }
func (it *ModItem) Walk(v Visitor) {
	Walk(v, it.Name)
	for _, sub := range it.Items {
		Walk(v, sub)
	}
}
func (it *ModItem) item()             {}
func (it *ModItem) ItemName() string  { return it.Name.Name }

func (it *ConstItem) Span() (start, end token.Pos) { return it.ConstPos, it.Semi + 1 }
func (it *ConstItem) Walk(v Visitor) {
	Walk(v, it.Name)
	Walk(v, it.Type)
	Walk(v, it.Value)
}
func (it *ConstItem) item()            {}
func (it *ConstItem) ItemName() string { return it.Name.Name }

func (it *TypeAliasItem) Span() (start, end token.Pos) { return it.TypePos, it.Semi + 1 }
func (it *TypeAliasItem) Walk(v Visitor) {
	Walk(v, it.Name)
	Walk(v, it.Type)
}
func (it *TypeAliasItem) item()            {}
func (it *TypeAliasItem) ItemName() string { return it.Name.Name }

func (f *StructField) Span() (start, end token.Pos) {
	start, _ = f.Name.Span()
	_, end = f.Type.Span()
	return start, end
}
func (f *StructField) Walk(v Visitor) { Walk(v, f.Name); Walk(v, f.Type) }

func (it *StructItem) Span() (start, end token.Pos) { return it.StructPos, it.Rbrace + 1 }
func (it *StructItem) Walk(v Visitor) {
	Walk(v, it.Name)
	for _, f := range it.Fields {
		Walk(v, f)
	}
}
func (it *StructItem) item()            {}
func (it *StructItem) ItemName() string { return it.Name.Name }

func (ev *EnumVariant) Span() (start, end token.Pos) {
	start, end = ev.Name.Span()
	if ev.Lparen.IsValid() {
		end = ev.Rparen + 1
	}
	return start, end
}
func (ev *EnumVariant) Walk(v Visitor) {
	Walk(v, ev.Name)
	for _, f := range ev.Fields {
		Walk(v, f)
	}
}

func (it *EnumItem) Span() (start, end token.Pos) { return it.EnumPos, it.Rbrace + 1 }
func (it *EnumItem) Walk(v Visitor) {
	Walk(v, it.Name)
	for _, ev := range it.Variants {
		Walk(v, ev)
	}
}
func (it *EnumItem) item()            {}
func (it *EnumItem) ItemName() string { return it.Name.Name }

func (it *FnItem) Span() (start, end token.Pos) {
	if it.Body != nil {
		_, end = it.Body.Span()
	} else {
		end = it.Rparen + 1
	}
	return it.FnPos, end
}
func (it *FnItem) Walk(v Visitor) {
	Walk(v, it.Name)
	for _, p := range it.Params {
		Walk(v, p)
	}
	if it.RetType != nil {
		Walk(v, it.RetType)
	}
	if it.Body != nil {
		Walk(v, it.Body)
	}
}
func (it *FnItem) item()            {}
func (it *FnItem) ItemName() string { return it.Name.Name }

func (it *ImplItem) Span() (start, end token.Pos) { return it.ImplPos, it.Rbrace + 1 }
func (it *ImplItem) Walk(v Visitor) {
	Walk(v, it.Target)
	for _, m := range it.Methods {
		Walk(v, m)
	}
}
func (it *ImplItem) item() {}
func (it *ImplItem) ItemName() string {
	if pt, ok := it.Target.(*PathType); ok && len(pt.Segments) > 0 {
		return pt.Segments[len(pt.Segments)-1].Name
	}
	return ""
}

func (it *ContractItem) Span() (start, end token.Pos) { return it.ContractPos, it.Rbrace + 1 }
func (it *ContractItem) Walk(v Visitor) {
	Walk(v, it.Name)
	for _, f := range it.Storage {
		Walk(v, f)
	}
	for _, m := range it.Methods {
		Walk(v, m)
	}
}
func (it *ContractItem) item()            {}
func (it *ContractItem) ItemName() string { return it.Name.Name }
