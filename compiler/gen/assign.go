package gen

import (
	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
	"github.com/crest-lang/crest/compiler/yul"
)

// locPair is the pair of final locations an assignment moves data
// between. The dispatch below is total over all nine combinations;
// adding a location kind must revisit every arm.
type locPair struct {
	value, target analyze.Kind
}

// Assign lowers an assignment statement into exactly one Yul statement.
//
// Both sides arrive already lowered and annotated. The engine only
// selects the data movement primitive and wires its operands; sizing and
// packing belong to the primitives themselves.
func (g *Gen) Assign(x *ast.Assign) yul.Statement {
	target := g.Expr(x.Target)
	value := g.Expr(x.Value)

	ta := g.attrs(x.Target)
	va := g.attrs(x.Value)

	typ := fixedSize(ta.Type)

	switch (locPair{va.FinalLocation().Kind, ta.FinalLocation().Kind}) {
	case locPair{analyze.Memory, analyze.Storage}:
		return mcopys(typ, target, value)
	case locPair{analyze.Memory, analyze.Value}:
		return yul.Assignment{
			Target: exprAsIdent(target),
			Value:  mload(typ, value),
		}
	case locPair{analyze.Memory, analyze.Memory}:
		// A field of a memory struct is written through its raw
		// address; see rawAccessor for the asymmetry this papers over.
		if g.structFieldTarget(x.Target) {
			return yul.ExprStmt{X: yul.Call{
				Func: yul.Ident{Name: "mstoren"},
				Args: []yul.Expression{rawAccessor(target), yul.Int(tp.WordSize), value},
			}}
		}

		// Both sides address the same linear space: rebind the name
		// to the evaluated address instead of copying the region.
		return yul.Assignment{
			Target: exprAsIdent(target),
			Value:  value,
		}
	case locPair{analyze.Storage, analyze.Storage}:
		return scopys(typ, target, value)
	case locPair{analyze.Storage, analyze.Value}:
		return yul.Assignment{
			Target: exprAsIdent(target),
			Value:  sload(typ, value),
		}
	case locPair{analyze.Storage, analyze.Memory}:
		// Analysis resolves this pair by moving the value out of
		// storage first (see analyze). Reaching it here means the
		// location resolution is broken.
		ice.Bug("raw storage to memory assign")
		panic("unreachable")
	case locPair{analyze.Value, analyze.Memory}:
		return mstore(typ, g.writeTarget(x.Target, target), value)
	case locPair{analyze.Value, analyze.Storage}:
		return sstore(typ, target, value)
	case locPair{analyze.Value, analyze.Value}:
		return yul.Assignment{
			Target: exprAsIdent(target),
			Value:  value,
		}
	default:
		ice.Bug("unhandled location pair: %v -> %v", va.FinalLocation(), ta.FinalLocation())
		panic("unreachable")
	}
}

// structFieldTarget reports whether the assignment target is a field
// projection whose parent is a struct.
func (g *Gen) structFieldTarget(x ast.Expr) bool {
	f, ok := x.(*ast.Attribute)
	if !ok {
		return false
	}

	_, ok = g.attrs(f.Value).Type.(*tp.Struct)

	return ok
}

// writeTarget coerces a lowered memory target to its address form.
// Plain names and subscripts already denote addresses; field accessors
// dereference and must be rewritten.
func (g *Gen) writeTarget(node ast.Expr, target yul.Expression) yul.Expression {
	if g.structFieldTarget(node) {
		return rawAccessor(target)
	}

	return target
}

// rawAccessor rewrites a lowered field accessor call to its raw sibling:
// same address computation, no load. The read form is the only one the
// expression lowering produces, which is convenient everywhere but in
// write position. Anything but the expected call shape means the
// accessor contract drifted.
func rawAccessor(x yul.Expression) yul.Expression {
	c, ok := x.(yul.Call)
	if !ok {
		ice.Bug("struct field write target is not an accessor call: %v", x)
	}

	c.Func.Name += "_raw"

	return c
}

func exprAsIdent(x yul.Expression) yul.Ident {
	id, ok := x.(yul.Ident)
	if !ok {
		ice.Bug("expression is not an identifier: %v", x)
	}

	return id
}

func fixedSize(t tp.Type) tp.FixedSize {
	f, ok := t.(tp.FixedSize)
	if !ok {
		ice.Bug("moving a type with no static size: %v", t)
	}

	return f
}
