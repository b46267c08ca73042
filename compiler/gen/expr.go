package gen

import (
	"fmt"
	"strconv"

	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
	"github.com/crest-lang/crest/compiler/yul"
)

// Expr lowers an expression and resolves its declared location into its
// final one, so that whatever consumes the result can rely on
// FinalLocation describing what the Yul expression actually yields.
func (g *Gen) Expr(x ast.Expr) yul.Expression {
	e := g.expr(x)

	a := g.attrs(x)
	if a.Move == nil {
		return e
	}

	switch {
	case a.Move.Kind == a.Loc.Kind:
		return e
	case a.Loc.Kind == analyze.Storage && a.Move.Kind == analyze.Memory:
		return scopym(fixedSize(a.Type), e)
	case a.Loc.Kind == analyze.Storage && a.Move.Kind == analyze.Value:
		return sload(fixedSize(a.Type), e)
	case a.Loc.Kind == analyze.Memory && a.Move.Kind == analyze.Value:
		// Field accessors load on their own; everything else in
		// memory is an address and needs the explicit load.
		if g.autoDeref(x) {
			return e
		}

		return mload(fixedSize(a.Type), e)
	default:
		ice.Bug("unsupported move: %v -> %v", a.Loc, *a.Move)
		panic("unreachable")
	}
}

func (g *Gen) expr(x ast.Expr) yul.Expression {
	switch x := x.(type) {
	case *ast.Name:
		a := g.attrs(x)

		if a.Loc.Kind == analyze.Storage {
			if a.Loc.Slot == analyze.NoSlot {
				ice.Bug("storage name %v with no slot", x.Ident)
			}

			return yul.Int(a.Loc.Slot)
		}

		return yul.Ident{Name: x.Ident}
	case *ast.Num:
		return yul.Literal{Value: strconv.FormatUint(x.Value, 10)}
	case *ast.Attribute:
		return g.attributeExpr(x)
	case *ast.Subscript:
		return g.subscriptExpr(x)
	default:
		ice.Bug("unsupported expression: %T", x)
		panic("unreachable")
	}
}

func (g *Gen) attributeExpr(x *ast.Attribute) yul.Expression {
	a := g.attrs(x)
	pa := g.attrs(x.Value)

	st, ok := pa.Type.(*tp.Struct)
	if !ok {
		ice.Bug("field %v of non-struct %v", x.Attr, pa.Type)
	}

	switch a.Loc.Kind {
	case analyze.Storage:
		if a.Loc.Slot != analyze.NoSlot {
			return yul.Int(a.Loc.Slot)
		}

		idx, _, ok := st.Field(x.Attr)
		if !ok {
			ice.Bug("no field %v on %v", x.Attr, st)
		}

		return call("add", g.Expr(x.Value), yul.Int(idx))
	case analyze.Memory:
		return call(accessor(st, x.Attr), g.Expr(x.Value))
	default:
		ice.Bug("field %v resides in %v", x.Attr, a.Loc)
		panic("unreachable")
	}
}

func (g *Gen) subscriptExpr(x *ast.Subscript) yul.Expression {
	pa := g.attrs(x.Value)

	switch typ := pa.Type.(type) {
	case tp.Map:
		return call("map_value_ptr", g.Expr(x.Value), g.Expr(x.Index))
	case tp.Array:
		stride := tp.Padded(typ.Elem)
		if pa.FinalLocation().Kind == analyze.Storage {
			stride = tp.Words(typ.Elem)
		}

		return call("add",
			g.Expr(x.Value),
			call("mul", g.Expr(x.Index), yul.Int(stride)),
		)
	default:
		ice.Bug("subscript of %v", pa.Type)
		panic("unreachable")
	}
}

// autoDeref reports whether the lowered form of x already yields a
// loaded value rather than an address.
func (g *Gen) autoDeref(x ast.Expr) bool {
	f, ok := x.(*ast.Attribute)
	if !ok {
		return false
	}

	pa := g.attrs(f.Value)

	_, isStruct := pa.Type.(*tp.Struct)

	return isStruct && pa.FinalLocation().Kind == analyze.Memory
}

// accessor is the read-form field accessor name. Its "_raw" sibling,
// derived by name in the assignment engine, yields the address instead.
func accessor(st *tp.Struct, field string) string {
	return fmt.Sprintf("struct_%v_get_%v", st.Name, field)
}
