package ast

type (
	Node interface {
	}

	Base struct {
		Pos int
		End int
	}

	// File is a single parsed source file: an optional pragma line
	// followed by one contract.
	File struct {
		Base `tlog:",embed"`

		Pragma   string
		Contract *Contract
	}

	Contract struct {
		Base `tlog:",embed"`

		Name    string
		Fields  []*Field
		Structs []*StructDef
		Funcs   []*Func
	}

	// Field is a name: type pair. Used for storage fields, struct fields
	// and function parameters alike.
	Field struct {
		Base `tlog:",embed"`

		Name string
		Type TypeExpr
	}

	StructDef struct {
		Base `tlog:",embed"`

		Name   string
		Fields []*Field
	}

	Func struct {
		Base `tlog:",embed"`

		Name   string
		Pub    bool
		Params []*Field
		Body   []Stmt
	}

	Stmt interface{ Node }
	Expr interface{ Node }

	// Let declares a local. Value may be nil.
	Let struct {
		Base `tlog:",embed"`

		Name  string
		Type  TypeExpr
		Value Expr
	}

	Assign struct {
		Base `tlog:",embed"`

		Target Expr
		Value  Expr
	}

	Name struct {
		Base `tlog:",embed"`

		Ident string
	}

	Num struct {
		Base `tlog:",embed"`

		Value uint64
	}

	// Attribute is a field projection: Value.Attr.
	Attribute struct {
		Base `tlog:",embed"`

		Value Expr
		Attr  string
	}

	// Subscript is an index expression: Value[Index].
	Subscript struct {
		Base `tlog:",embed"`

		Value Expr
		Index Expr
	}

	TypeExpr interface{ Node }

	TypeName struct {
		Base `tlog:",embed"`

		Name string
	}

	MapType struct {
		Base `tlog:",embed"`

		Key   TypeExpr
		Value TypeExpr
	}

	ArrayType struct {
		Base `tlog:",embed"`

		Elem TypeExpr
		Len  int
	}
)
