package yul

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprString(t *testing.T) {
	add := Call{
		Func: Ident{Name: "add"},
		Args: []Expression{Ident{Name: "a"}, Int(32)},
	}

	assert.Equal(t, "add(a, 32)", add.String())

	nested := Call{
		Func: Ident{Name: "mloadn"},
		Args: []Expression{add, Int(32)},
	}

	assert.Equal(t, "mloadn(add(a, 32), 32)", nested.String())

	assert.Equal(t, "f()", Call{Func: Ident{Name: "f"}}.String())
	assert.Equal(t, "0x60fe47b1", Literal{Value: "0x60fe47b1"}.String())
}

func TestStmtString(t *testing.T) {
	assert.Equal(t, "x := y", Assignment{Target: Ident{Name: "x"}, Value: Ident{Name: "y"}}.String())
	assert.Equal(t, "let x := 0", VarDecl{Name: Ident{Name: "x"}, Value: Int(0)}.String())
	assert.Equal(t, "let x", VarDecl{Name: Ident{Name: "x"}}.String())

	es := ExprStmt{X: Call{Func: Ident{Name: "sstore"}, Args: []Expression{Int(0), Ident{Name: "v"}}}}
	assert.Equal(t, "sstore(0, v)", fmt.Sprintf("%v", es))
}

func TestAppendFuncDef(t *testing.T) {
	fd := FuncDef{
		Name:   "f",
		Params: []Ident{{Name: "a"}, {Name: "b"}},
		Ret:    []Ident{{Name: "v"}},
		Body: Block{Statements: []Statement{
			Assignment{
				Target: Ident{Name: "v"},
				Value:  Call{Func: Ident{Name: "add"}, Args: []Expression{Ident{Name: "a"}, Ident{Name: "b"}}},
			},
		}},
	}

	assert.Equal(t, "function f(a, b) -> v {\n\tv := add(a, b)\n}\n", string(Append(nil, fd, 0)))
}

func TestAppendSwitch(t *testing.T) {
	sw := Switch{
		X: Call{Func: Ident{Name: "selector"}},
		Cases: []Case{{
			Value: Literal{Value: "0x60fe47b1"},
			Body: Block{Statements: []Statement{
				ExprStmt{X: Call{Func: Ident{Name: "fn_set"}, Args: []Expression{Int(1)}}},
			}},
		}},
		Default: &Block{Statements: []Statement{
			ExprStmt{X: Call{Func: Ident{Name: "revert"}, Args: []Expression{Int(0), Int(0)}}},
		}},
	}

	want := `switch selector()
case 0x60fe47b1 {
	fn_set(1)
}
default {
	revert(0, 0)
}
`

	assert.Equal(t, want, string(Append(nil, sw, 0)))
}

func TestAppendDepth(t *testing.T) {
	got := Append(nil, VarDecl{Name: Ident{Name: "x"}, Value: Int(5)}, 2)

	assert.Equal(t, "\t\tlet x := 5\n", string(got))
}
