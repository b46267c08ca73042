// Package analyze resolves names, types and locations.
//
// It owns the attribute table: every expression reachable from a
// statement is annotated with its type and location before code
// generation starts. All user-facing diagnostics are raised here;
// the generator assumes well-typed, well-located input.
package analyze

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/tp"
)

type (
	Info struct {
		Contract *ast.Contract

		Structs map[string]*tp.Struct
		Fields  map[string]*StorageField
		Params  map[*ast.Func][]Param

		// Slots is the total number of storage slots the contract occupies.
		Slots int

		attrs map[ast.Node]*Attributes
	}

	StorageField struct {
		Name string
		Type tp.Type
		Slot int
	}

	Param struct {
		Name string
		Type tp.Type
	}

	scope struct {
		vars map[string]local
	}

	local struct {
		typ tp.Type
		loc Kind
	}
)

var baseTypes = map[string]tp.Base{
	"u256":    tp.U256,
	"u128":    tp.U128,
	"u64":     tp.U64,
	"u32":     tp.U32,
	"u8":      tp.U8,
	"bool":    tp.Bool,
	"address": tp.Address,
}

func NewInfo() *Info {
	return &Info{
		Structs: map[string]*tp.Struct{},
		Fields:  map[string]*StorageField{},
		Params:  map[*ast.Func][]Param{},
		attrs:   map[ast.Node]*Attributes{},
	}
}

func Analyze(ctx context.Context, f *ast.File) (n *Info, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze", "contract", f.Contract.Name)
	defer tr.Finish("err", &err)

	n = NewInfo()
	n.Contract = f.Contract

	for _, s := range f.Contract.Structs {
		err = n.structDef(s)
		if err != nil {
			return nil, errors.Wrap(err, "struct %v", s.Name)
		}
	}

	for _, fd := range f.Contract.Fields {
		err = n.storageField(fd)
		if err != nil {
			return nil, errors.Wrap(err, "storage field %v", fd.Name)
		}
	}

	for _, fn := range f.Contract.Funcs {
		err = n.fn(ctx, fn)
		if err != nil {
			return nil, errors.Wrap(err, "fn %v", fn.Name)
		}
	}

	return n, nil
}

func (n *Info) structDef(s *ast.StructDef) error {
	if _, ok := n.Structs[s.Name]; ok {
		return errors.New("redefined")
	}

	st := &tp.Struct{Name: s.Name}

	for _, f := range s.Fields {
		typ, err := n.resolveType(f.Type)
		if err != nil {
			return errors.Wrap(err, "field %v", f.Name)
		}

		ft, ok := typ.(tp.FixedSize)
		if !ok {
			return errors.New("field %v: maps cannot be struct fields", f.Name)
		}

		st.Fields = append(st.Fields, tp.StructField{Name: f.Name, Type: ft})
	}

	n.Structs[s.Name] = st

	return nil
}

func (n *Info) storageField(f *ast.Field) error {
	if _, ok := n.Fields[f.Name]; ok {
		return errors.New("redefined")
	}

	typ, err := n.resolveType(f.Type)
	if err != nil {
		return err
	}

	n.Fields[f.Name] = &StorageField{
		Name: f.Name,
		Type: typ,
		Slot: n.Slots,
	}

	if ft, ok := typ.(tp.FixedSize); ok {
		n.Slots += tp.Words(ft)
	} else {
		n.Slots++
	}

	return nil
}

func (n *Info) fn(ctx context.Context, fn *ast.Func) (err error) {
	tr := tlog.SpanFromContext(ctx)

	sc := &scope{vars: map[string]local{}}

	for _, p := range fn.Params {
		typ, err := n.resolveType(p.Type)
		if err != nil {
			return errors.Wrap(err, "param %v", p.Name)
		}

		if !tp.Scalar(typ) {
			return errors.New("param %v: only scalar parameters are supported", p.Name)
		}

		sc.vars[p.Name] = local{typ: typ, loc: Value}
		n.Params[fn] = append(n.Params[fn], Param{Name: p.Name, Type: typ})
	}

	for _, st := range fn.Body {
		switch st := st.(type) {
		case *ast.Let:
			err = n.let(sc, st)
		case *ast.Assign:
			err = n.assign(sc, st)
		default:
			err = errors.New("unsupported statement: %T", st)
		}

		if err != nil {
			return err
		}
	}

	tr.Printw("fn analyzed", "name", fn.Name, "pub", fn.Pub, "params", len(fn.Params))

	return nil
}

func (n *Info) let(sc *scope, x *ast.Let) error {
	if _, ok := sc.vars[x.Name]; ok {
		return errors.New("%v: redeclared", x.Name)
	}

	typ, err := n.resolveType(x.Type)
	if err != nil {
		return errors.Wrap(err, "%v", x.Name)
	}

	loc := Value

	switch typ.(type) {
	case tp.Base:
	case *tp.Struct, tp.Array:
		loc = Memory
	default:
		return errors.New("%v: maps live in contract storage only", x.Name)
	}

	if x.Value != nil {
		va, err := n.expr(sc, x.Value, false)
		if err != nil {
			return errors.Wrap(err, "%v", x.Name)
		}

		err = n.convertible(x.Value, va, typ)
		if err != nil {
			return errors.Wrap(err, "%v", x.Name)
		}

		// A storage value bound to a memory local is copied out of
		// storage by the expression lowering, not by the binding.
		if va.FinalLocation().Kind == Storage && loc == Memory {
			va.Move = &Location{Kind: Memory, Slot: NoSlot}
		}
	}

	sc.vars[x.Name] = local{typ: typ, loc: loc}

	n.attrs[x] = &Attributes{
		Type: typ,
		Loc:  Location{Kind: loc, Slot: NoSlot},
	}

	return nil
}

func (n *Info) assign(sc *scope, x *ast.Assign) error {
	switch x.Target.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
	default:
		return errors.New("invalid assignment target: %T", x.Target)
	}

	ta, err := n.expr(sc, x.Target, true)
	if err != nil {
		return errors.Wrap(err, "target")
	}

	if _, ok := ta.Type.(tp.Map); ok {
		return errors.New("cannot assign to a map")
	}

	va, err := n.expr(sc, x.Value, false)
	if err != nil {
		return errors.Wrap(err, "value")
	}

	err = n.convertible(x.Value, va, ta.Type)
	if err != nil {
		return err
	}

	// Raw storage may never be assigned into memory directly. Resolve
	// the indirection here so the lowering engine never sees that pair:
	// scalars load into value space, aggregates copy into fresh memory.
	if va.FinalLocation().Kind == Storage && ta.FinalLocation().Kind == Memory {
		if tp.Scalar(va.Type) {
			va.Move = &Location{Kind: Value, Slot: NoSlot}
		} else {
			va.Move = &Location{Kind: Memory, Slot: NoSlot}
		}
	}

	return nil
}

// expr annotates x and every reachable sub-expression, returning the
// attributes of x itself. lvalue is true in assignment target position.
func (n *Info) expr(sc *scope, x ast.Expr, lvalue bool) (*Attributes, error) {
	switch x := x.(type) {
	case *ast.Name:
		return n.name(sc, x)
	case *ast.Num:
		if lvalue {
			return nil, errors.New("cannot assign to a literal")
		}

		return n.bind(x, &Attributes{
			Type: tp.U256,
			Loc:  Location{Kind: Value, Slot: NoSlot},
		}), nil
	case *ast.Attribute:
		return n.attribute(sc, x, lvalue)
	case *ast.Subscript:
		return n.subscript(sc, x)
	default:
		return nil, errors.New("unsupported expression: %T", x)
	}
}

func (n *Info) name(sc *scope, x *ast.Name) (*Attributes, error) {
	if v, ok := sc.vars[x.Ident]; ok {
		return n.bind(x, &Attributes{
			Type: v.typ,
			Loc:  Location{Kind: v.loc, Slot: NoSlot},
		}), nil
	}

	if f, ok := n.Fields[x.Ident]; ok {
		return n.bind(x, &Attributes{
			Type: f.Type,
			Loc:  Location{Kind: Storage, Slot: f.Slot},
		}), nil
	}

	return nil, errors.New("unknown name: %v", x.Ident)
}

func (n *Info) attribute(sc *scope, x *ast.Attribute, lvalue bool) (*Attributes, error) {
	pa, err := n.expr(sc, x.Value, false)
	if err != nil {
		return nil, err
	}

	st, ok := pa.Type.(*tp.Struct)
	if !ok {
		return nil, errors.New("no field %v on %v", x.Attr, pa.Type)
	}

	idx, f, ok := st.Field(x.Attr)
	if !ok {
		return nil, errors.New("no field %v on %v", x.Attr, st)
	}

	switch pa.FinalLocation().Kind {
	case Memory:
		a := &Attributes{
			Type: f.Type,
			Loc:  Location{Kind: Memory, Slot: NoSlot},
		}

		// In read position the field accessor dereferences, so a scalar
		// field arrives as a plain value. The address-form is recovered
		// in target position by the lowering engine.
		if !lvalue && tp.Scalar(f.Type) {
			a.Move = &Location{Kind: Value, Slot: NoSlot}
		}

		return n.bind(x, a), nil
	case Storage:
		slot := NoSlot
		if s := pa.FinalLocation().Slot; s != NoSlot {
			slot = s + idx
		}

		return n.bind(x, &Attributes{
			Type: f.Type,
			Loc:  Location{Kind: Storage, Slot: slot},
		}), nil
	default:
		return nil, errors.New("field %v of a value expression", x.Attr)
	}
}

func (n *Info) subscript(sc *scope, x *ast.Subscript) (*Attributes, error) {
	pa, err := n.expr(sc, x.Value, false)
	if err != nil {
		return nil, err
	}

	ia, err := n.expr(sc, x.Index, false)
	if err != nil {
		return nil, errors.Wrap(err, "index")
	}

	switch typ := pa.Type.(type) {
	case tp.Map:
		if pa.FinalLocation().Kind != Storage {
			return nil, errors.New("map outside of storage")
		}

		err = n.convertible(x.Index, ia, typ.Key)
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}

		n.loadIndex(ia)

		return n.bind(x, &Attributes{
			Type: typ.Value,
			Loc:  Location{Kind: Storage, Slot: NoSlot},
		}), nil
	case tp.Array:
		if !tp.Scalar(ia.Type) {
			return nil, errors.New("array index: want an integer, got %v", ia.Type)
		}

		n.loadIndex(ia)

		return n.bind(x, &Attributes{
			Type: typ.Elem,
			Loc:  Location{Kind: pa.FinalLocation().Kind, Slot: NoSlot},
		}), nil
	default:
		return nil, errors.New("cannot index %v", pa.Type)
	}
}

// loadIndex forces an index or key sub-expression into value space.
// Unlike top level assignment operands, these are consumed by address
// arithmetic and must be loaded where they stand.
func (n *Info) loadIndex(a *Attributes) {
	if a.FinalLocation().Kind == Value {
		return
	}

	a.Move = &Location{Kind: Value, Slot: NoSlot}
}

func (n *Info) convertible(x ast.Expr, a *Attributes, want tp.Type) error {
	if tp.Same(a.Type, want) {
		return nil
	}

	// Integer literals take the width the context asks for.
	if _, ok := x.(*ast.Num); ok && tp.Scalar(want) {
		a.Type = want
		return nil
	}

	return errors.New("type mismatch: want %v, got %v", want, a.Type)
}

func (n *Info) bind(x ast.Node, a *Attributes) *Attributes {
	n.attrs[x] = a
	return a
}

func (n *Info) resolveType(x ast.TypeExpr) (tp.Type, error) {
	switch x := x.(type) {
	case *ast.TypeName:
		if b, ok := baseTypes[x.Name]; ok {
			return b, nil
		}

		if s, ok := n.Structs[x.Name]; ok {
			return s, nil
		}

		return nil, errors.New("unknown type: %v", x.Name)
	case *ast.MapType:
		k, err := n.resolveType(x.Key)
		if err != nil {
			return nil, errors.Wrap(err, "map key")
		}

		kf, ok := k.(tp.Base)
		if !ok {
			return nil, errors.New("map key must be scalar, got %v", k)
		}

		v, err := n.resolveType(x.Value)
		if err != nil {
			return nil, errors.Wrap(err, "map value")
		}

		vf, ok := v.(tp.FixedSize)
		if !ok {
			return nil, errors.New("map value must be fixed size, got %v", v)
		}

		return tp.Map{Key: kf, Value: vf}, nil
	case *ast.ArrayType:
		e, err := n.resolveType(x.Elem)
		if err != nil {
			return nil, errors.Wrap(err, "array element")
		}

		ef, ok := e.(tp.FixedSize)
		if !ok {
			return nil, errors.New("array element must be fixed size, got %v", e)
		}

		return tp.Array{Elem: ef, Len: x.Len}, nil
	default:
		return nil, errors.New("unsupported type expression: %T", x)
	}
}
