// Package yul models the subset of Yul the code generator emits.
package yul

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	Node interface{}

	Statement interface {
		Node
		isStmt()
	}

	Expression interface {
		Node
		isExpr()
	}

	Ident struct {
		Name string
	}

	Literal struct {
		Value string
	}

	Call struct {
		Func Ident
		Args []Expression
	}

	// Assignment rebinds an already declared identifier: Target := Value.
	Assignment struct {
		Target Ident
		Value  Expression
	}

	// VarDecl declares a fresh identifier: let Name := Value.
	VarDecl struct {
		Name  Ident
		Value Expression
	}

	// ExprStmt is a call in statement position.
	ExprStmt struct {
		X Expression
	}

	Block struct {
		Statements []Statement
	}

	Switch struct {
		X       Expression
		Cases   []Case
		Default *Block
	}

	Case struct {
		Value Literal
		Body  Block
	}

	FuncDef struct {
		Name   string
		Params []Ident
		Ret    []Ident
		Body   Block
	}
)

func (Ident) isExpr()   {}
func (Literal) isExpr() {}
func (Call) isExpr()    {}

func (Assignment) isStmt() {}
func (VarDecl) isStmt()    {}
func (ExprStmt) isStmt()   {}
func (Block) isStmt()      {}
func (Switch) isStmt()     {}
func (FuncDef) isStmt()    {}

// Int is a decimal integer literal.
func Int(v int) Literal {
	return Literal{Value: strconv.Itoa(v)}
}

func (x Ident) String() string   { return x.Name }
func (x Literal) String() string { return x.Value }

func (x Call) String() string {
	var b strings.Builder

	b.WriteString(x.Func.Name)
	b.WriteByte('(')

	for i, a := range x.Args {
		if i != 0 {
			b.WriteString(", ")
		}

		fmt.Fprintf(&b, "%v", a)
	}

	b.WriteByte(')')

	return b.String()
}

func (x Assignment) String() string {
	return fmt.Sprintf("%v := %v", x.Target, x.Value)
}

func (x VarDecl) String() string {
	if x.Value == nil {
		return fmt.Sprintf("let %v", x.Name)
	}

	return fmt.Sprintf("let %v := %v", x.Name, x.Value)
}

func (x ExprStmt) String() string { return fmt.Sprintf("%v", x.X) }

func (x Block) String() string {
	b := Append(nil, x, 0)
	return string(b)
}

func (x Switch) String() string {
	b := Append(nil, x, 0)
	return string(b)
}

func (x FuncDef) String() string {
	b := Append(nil, x, 0)
	return string(b)
}
