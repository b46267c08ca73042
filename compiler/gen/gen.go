// Package gen lowers an analyzed contract into a Yul object.
//
// Statement lowering is a pure function of the statement and the
// attributes analysis left behind; gen never mutates them. Anything that
// breaks the analyzer's contracts surfaces as an ice panic, not as an
// error: by the time this stage runs, user input has been fully checked.
package gen

import (
	"context"
	"fmt"
	"sort"

	"tlog.app/go/tlog"

	"github.com/crest-lang/crest/compiler/abi"
	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/ast"
	"github.com/crest-lang/crest/compiler/ice"
	"github.com/crest-lang/crest/compiler/tp"
	"github.com/crest-lang/crest/compiler/yul"
)

type (
	Gen struct {
		info *analyze.Info
	}
)

func New(info *analyze.Info) *Gen {
	return &Gen{
		info: info,
	}
}

// attrs is the read side of the attribute table. Missing attributes are
// an analysis defect, never a user error.
func (g *Gen) attrs(x ast.Node) *analyze.Attributes {
	return g.info.Attributes(x)
}

// Object renders the full deployable Yul object for the contract.
func (g *Gen) Object(ctx context.Context, b []byte) (_ []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "gen: yul object", "contract", g.info.Contract.Name)
	defer tr.Finish("err", &err)

	c := g.info.Contract

	b = fmt.Appendf(b, `object %q {
	code {
		datacopy(0, dataoffset("runtime"), datasize("runtime"))
		return(0, datasize("runtime"))
	}
	object "runtime" {
		code {
`, c.Name)

	b = yul.Append(b, g.dispatch(), 3)

	for _, fn := range c.Funcs {
		b = append(b, '\n')
		b = yul.Append(b, g.Func(ctx, fn), 3)
	}

	for _, st := range g.structs() {
		for _, fd := range structAccessors(st) {
			b = append(b, '\n')
			b = yul.Append(b, fd, 3)
		}
	}

	b = append(b, '\n')
	b = appendRuntime(b, 3)

	b = append(b, "\t\t}\n\t}\n}\n"...)

	if tr.If("dump_obj") {
		tr.Printw("yul object", "text", string(b))
	}

	return b, nil
}

// dispatch routes an incoming call to the public function whose
// selector matches the first four bytes of calldata.
func (g *Gen) dispatch() yul.Statement {
	sw := yul.Switch{
		X: call("shr", yul.Int(224), call("calldataload", yul.Int(0))),
		Default: &yul.Block{Statements: []yul.Statement{
			yul.ExprStmt{X: call("revert", yul.Int(0), yul.Int(0))},
		}},
	}

	for _, fn := range g.info.Contract.Funcs {
		if !fn.Pub {
			continue
		}

		params := g.info.Params[fn]

		c := call(mangle(fn.Name))
		for i := range params {
			c.Args = append(c.Args, call("calldataload", yul.Int(4+i*tp.WordSize)))
		}

		sw.Cases = append(sw.Cases, yul.Case{
			Value: yul.Literal{Value: abi.Selector(fn.Name, params)},
			Body:  yul.Block{Statements: []yul.Statement{yul.ExprStmt{X: c}}},
		})
	}

	return sw
}

// Func lowers one function into a Yul function definition.
func (g *Gen) Func(ctx context.Context, fn *ast.Func) yul.FuncDef {
	tr := tlog.SpanFromContext(ctx)
	tr.Printw("lower fn", "name", fn.Name, "stmts", len(fn.Body))

	if tr.If("dump_fn_" + fn.Name) {
		tr.Printw("fn ast", "fn", fn)
	}

	def := yul.FuncDef{
		Name: mangle(fn.Name),
	}

	for _, p := range g.info.Params[fn] {
		def.Params = append(def.Params, yul.Ident{Name: p.Name})
	}

	for _, st := range fn.Body {
		def.Body.Statements = append(def.Body.Statements, g.Stmt(st)...)
	}

	return def
}

// Stmt lowers a single statement. Assignments always lower to exactly
// one Yul statement; declarations may take two.
func (g *Gen) Stmt(x ast.Stmt) []yul.Statement {
	switch x := x.(type) {
	case *ast.Let:
		return g.let(x)
	case *ast.Assign:
		return []yul.Statement{g.Assign(x)}
	default:
		ice.Bug("unsupported statement: %T", x)
		panic("unreachable")
	}
}

func (g *Gen) let(x *ast.Let) []yul.Statement {
	a := g.attrs(x)

	if x.Value == nil {
		init := yul.Expression(yul.Int(0))
		if a.Loc.Kind == analyze.Memory {
			init = alloc(tp.Padded(fixedSize(a.Type)))
		}

		return []yul.Statement{yul.VarDecl{
			Name:  yul.Ident{Name: x.Name},
			Value: init,
		}}
	}

	value := g.Expr(x.Value)
	va := g.attrs(x.Value)

	return []yul.Statement{yul.VarDecl{
		Name:  yul.Ident{Name: x.Name},
		Value: g.bindValue(a.Loc.Kind, fixedSize(a.Type), value, va),
	}}
}

// bindValue adapts a lowered value to the space a fresh local lives in.
// Unlike assignment there is no addressable target yet, so every arm
// yields the declaration's right hand side.
func (g *Gen) bindValue(target analyze.Kind, typ tp.FixedSize, value yul.Expression, va *analyze.Attributes) yul.Expression {
	switch (locPair{va.FinalLocation().Kind, target}) {
	case locPair{analyze.Value, analyze.Value}:
		return value
	case locPair{analyze.Memory, analyze.Value}:
		return mload(typ, value)
	case locPair{analyze.Storage, analyze.Value}:
		return sload(typ, value)
	case locPair{analyze.Memory, analyze.Memory}:
		return value
	default:
		ice.Bug("unsupported declaration binding: %v local from %v value", target, va.FinalLocation())
		panic("unreachable")
	}
}

func (g *Gen) structs() []*tp.Struct {
	var ss []*tp.Struct

	for _, st := range g.info.Structs {
		ss = append(ss, st)
	}

	sort.Slice(ss, func(i, j int) bool { return ss[i].Name < ss[j].Name })

	return ss
}

// structAccessors generates the field accessor pairs for a struct: the
// read form loads the field, the raw form yields its address. The raw
// name is derived from the read name by suffix; the assignment engine
// depends on that convention.
func structAccessors(st *tp.Struct) []yul.FuncDef {
	var defs []yul.FuncDef

	for i, f := range st.Fields {
		read := accessor(st, f.Name)
		ptr := yul.Ident{Name: "ptr"}
		v := yul.Ident{Name: "v"}

		defs = append(defs, yul.FuncDef{
			Name:   read,
			Params: []yul.Ident{ptr},
			Ret:    []yul.Ident{v},
			Body: yul.Block{Statements: []yul.Statement{
				yul.Assignment{
					Target: v,
					Value:  call("mloadn", fieldPtr(ptr, i), yul.Int(tp.WordSize)),
				},
			}},
		}, yul.FuncDef{
			Name:   read + "_raw",
			Params: []yul.Ident{ptr},
			Ret:    []yul.Ident{v},
			Body: yul.Block{Statements: []yul.Statement{
				yul.Assignment{
					Target: v,
					Value:  fieldPtr(ptr, i),
				},
			}},
		})
	}

	return defs
}

func fieldPtr(ptr yul.Expression, idx int) yul.Expression {
	if idx == 0 {
		return ptr
	}

	return call("add", ptr, yul.Int(idx*tp.WordSize))
}

func mangle(fn string) string {
	return "fn_" + fn
}
