package front

import (
	"context"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/crest-lang/crest/compiler/ast"
)

var keywords = map[string]struct{}{
	"pragma":   {},
	"contract": {},
	"storage":  {},
	"struct":   {},
	"fn":       {},
	"pub":      {},
	"let":      {},
	"map":      {},
}

func (s *State) Parse(ctx context.Context) (f *ast.File, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "parse", "size", len(s.b))
	defer tr.Finish("err", &err)

	f, i, err := s.parseFile(ctx, 0)
	if err != nil {
		return nil, errors.Wrap(err, "at pos 0x%x", i)
	}

	tr.Printw("file", "contract", f.Contract.Name, "pragma", f.Pragma)

	return f, nil
}

func (s *State) parseFile(ctx context.Context, st int) (f *ast.File, i int, err error) {
	f = &ast.File{Base: ast.Base{Pos: st}}

	i = s.skipLines(st)

	tk, tst, j := s.next(i)
	if kw, ok := tk.(Keyword); ok && string(kw) == "pragma" {
		f.Pragma, i = s.restOfLine(j)

		if f.Pragma == "" {
			return nil, tst, errors.New("empty pragma")
		}
	}

	i = s.skipLines(i)

	f.Contract, i, err = s.parseContract(ctx, i)
	if err != nil {
		return nil, i, err
	}

	i = s.skipLines(i)

	if tk, tst, _ := s.next(i); tk != nil {
		return nil, tst, NewUnexpected(tk, nil)
	}

	f.End = i

	return f, i, nil
}

func (s *State) parseContract(ctx context.Context, st int) (c *ast.Contract, i int, err error) {
	tk, tst, i := s.next(st)
	if kw, ok := tk.(Keyword); !ok || string(kw) != "contract" {
		return nil, tst, NewUnexpected(tk, Keyword("contract"))
	}

	tk, tst, i = s.next(i)

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""))
	}

	c = &ast.Contract{
		Base: ast.Base{Pos: st},
		Name: string(name),
	}

	tk, tst, i = s.next(i)
	if tk != Char('{') {
		return nil, tst, NewUnexpected(tk, Char('{'))
	}

loop:
	for {
		i = s.skipLines(i)

		tk, tst, j := s.next(i)

		switch tk := tk.(type) {
		case Char:
			if tk == '}' {
				i = j
				break loop
			}
		case Keyword:
			switch string(tk) {
			case "storage":
				var fields []*ast.Field

				fields, i, err = s.parseFieldBlock(ctx, j)
				if err != nil {
					return nil, i, errors.Wrap(err, "storage")
				}

				c.Fields = append(c.Fields, fields...)

				continue
			case "struct":
				var sd *ast.StructDef

				sd, i, err = s.parseStructDef(ctx, i)
				if err != nil {
					return nil, i, err
				}

				c.Structs = append(c.Structs, sd)

				continue
			case "pub", "fn":
				var fn *ast.Func

				fn, i, err = s.parseFunc(ctx, i)
				if err != nil {
					return nil, i, err
				}

				c.Funcs = append(c.Funcs, fn)

				continue
			}
		}

		return nil, tst, NewUnexpected(tk, Keyword("storage"), Keyword("struct"), Keyword("fn"), Char('}'))
	}

	c.End = i

	return c, i, nil
}

func (s *State) parseStructDef(ctx context.Context, st int) (sd *ast.StructDef, i int, err error) {
	tk, tst, i := s.next(st)
	if kw, ok := tk.(Keyword); !ok || string(kw) != "struct" {
		return nil, tst, NewUnexpected(tk, Keyword("struct"))
	}

	tk, tst, i = s.next(i)

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""))
	}

	sd = &ast.StructDef{
		Base: ast.Base{Pos: st},
		Name: string(name),
	}

	sd.Fields, i, err = s.parseFieldBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "struct %v", sd.Name)
	}

	sd.End = i

	return sd, i, nil
}

func (s *State) parseFieldBlock(ctx context.Context, st int) (fields []*ast.Field, i int, err error) {
	tk, tst, i := s.next(st)
	if tk != Char('{') {
		return nil, tst, NewUnexpected(tk, Char('{'))
	}

loop:
	for {
		i = s.skipLines(i)

		j := i

		tk, tst, i = s.next(i)
		switch tk {
		case Char('}'):
			break loop
		default:
			i = j
		}

		var f *ast.Field

		f, i, err = s.parseField(ctx, i)
		if err != nil {
			return nil, i, err
		}

		fields = append(fields, f)

		tk, tst, j = s.next(i)
		switch tk {
		case Char('\n'), Char(','):
			i = j
		case Char('}'):
		default:
			return nil, tst, NewUnexpected(tk, Char('\n'), Char('}'))
		}
	}

	return fields, i, nil
}

func (s *State) parseField(ctx context.Context, st int) (f *ast.Field, i int, err error) {
	tk, tst, i := s.next(st)

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""))
	}

	tk, tst, i = s.next(i)
	if tk != Char(':') {
		return nil, tst, NewUnexpected(tk, Char(':'))
	}

	typ, i, err := s.parseType(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "field %v type", name)
	}

	f = &ast.Field{
		Base: ast.Base{Pos: st, End: i},
		Name: string(name),
		Type: typ,
	}

	return f, i, nil
}

func (s *State) parseFunc(ctx context.Context, st int) (fn *ast.Func, i int, err error) {
	fn = &ast.Func{Base: ast.Base{Pos: st}}

	tk, tst, i := s.next(st)
	if kw, ok := tk.(Keyword); ok && string(kw) == "pub" {
		fn.Pub = true

		tk, tst, i = s.next(i)
	}

	if kw, ok := tk.(Keyword); !ok || string(kw) != "fn" {
		return nil, tst, NewUnexpected(tk, Keyword("fn"))
	}

	tk, tst, i = s.next(i)

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""))
	}

	fn.Name = string(name)

	tk, tst, i = s.next(i)
	if tk != Char('(') {
		return nil, tst, NewUnexpected(tk, Char('('))
	}

	tk, _, j := s.next(i)
	if tk != Char(')') {
		for {
			var p *ast.Field

			p, i, err = s.parseField(ctx, i)
			if err != nil {
				return nil, i, errors.Wrap(err, "fn %v params", fn.Name)
			}

			fn.Params = append(fn.Params, p)

			tk, tst, i = s.next(i)
			if tk == Char(',') {
				continue
			}

			if tk != Char(')') {
				return nil, tst, NewUnexpected(tk, Char(','), Char(')'))
			}

			break
		}
	} else {
		i = j
	}

	fn.Body, i, err = s.parseBlock(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "fn %v", fn.Name)
	}

	fn.End = i

	return fn, i, nil
}

func (s *State) parseBlock(ctx context.Context, st int) (stmts []ast.Stmt, i int, err error) {
	tk, tst, i := s.next(st)
	if tk != Char('{') {
		return nil, tst, NewUnexpected(tk, Char('{'))
	}

loop:
	for {
		i = s.skipLines(i)

		j := i

		tk, _, i = s.next(i)
		switch tk {
		case Char('}'):
			break loop
		default:
			i = j
		}

		var stmt ast.Stmt

		stmt, i, err = s.parseStatement(ctx, i)
		if err != nil {
			return nil, i, err
		}

		stmts = append(stmts, stmt)
	}

	return stmts, i, nil
}

func (s *State) parseStatement(ctx context.Context, st int) (x ast.Stmt, i int, err error) {
	tk, _, _ := s.next(st)

	if kw, ok := tk.(Keyword); ok && string(kw) == "let" {
		return s.parseLet(ctx, st)
	}

	return s.parseAssignment(ctx, st)
}

func (s *State) parseLet(ctx context.Context, st int) (x ast.Stmt, i int, err error) {
	tk, tst, i := s.next(st)
	if kw, ok := tk.(Keyword); !ok || string(kw) != "let" {
		return nil, tst, NewUnexpected(tk, Keyword("let"))
	}

	tk, tst, i = s.next(i)

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""))
	}

	tk, tst, i = s.next(i)
	if tk != Char(':') {
		return nil, tst, NewUnexpected(tk, Char(':'))
	}

	l := &ast.Let{
		Base: ast.Base{Pos: st},
		Name: string(name),
	}

	l.Type, i, err = s.parseType(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "let %v type", l.Name)
	}

	tk, _, j := s.next(i)
	if tk == Char('=') {
		l.Value, i, err = s.parseExpr(ctx, j)
		if err != nil {
			return nil, i, errors.Wrap(err, "let %v value", l.Name)
		}
	}

	l.End = i

	return l, i, nil
}

func (s *State) parseAssignment(ctx context.Context, st int) (x ast.Stmt, i int, err error) {
	lhs, i, err := s.parseExpr(ctx, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "lhs")
	}

	tk, tst, i := s.next(i)
	if tk != Char('=') {
		return nil, tst, NewUnexpected(tk, Char('='))
	}

	rhs, i, err := s.parseExpr(ctx, i)
	if err != nil {
		return nil, i, errors.Wrap(err, "rhs")
	}

	a := &ast.Assign{
		Base:   ast.Base{Pos: st, End: i},
		Target: lhs,
		Value:  rhs,
	}

	return a, i, nil
}

func (s *State) parseExpr(ctx context.Context, st int) (x ast.Expr, i int, err error) {
	tk, tst, i := s.next(st)

	switch tk := tk.(type) {
	case Ident:
		x = &ast.Name{
			Base:  ast.Base{Pos: tst, End: i},
			Ident: string(tk),
		}
	case Number:
		v, err := strconv.ParseUint(string(tk), 0, 64)
		if err != nil {
			return nil, tst, errors.Wrap(err, "number")
		}

		x = &ast.Num{
			Base:  ast.Base{Pos: tst, End: i},
			Value: v,
		}
	default:
		return nil, tst, NewUnexpected(tk, Ident(""), Number(""))
	}

	for {
		tk, tst, j := s.next(i)

		switch tk {
		case Char('.'):
			tk, tst, j = s.next(j)

			attr, ok := tk.(Ident)
			if !ok {
				return nil, tst, NewUnexpected(tk, Ident(""))
			}

			x = &ast.Attribute{
				Base:  ast.Base{Pos: st, End: j},
				Value: x,
				Attr:  string(attr),
			}

			i = j
		case Char('['):
			var idx ast.Expr

			idx, j, err = s.parseExpr(ctx, j)
			if err != nil {
				return nil, j, errors.Wrap(err, "index")
			}

			tk, tst, j = s.next(j)
			if tk != Char(']') {
				return nil, tst, NewUnexpected(tk, Char(']'))
			}

			x = &ast.Subscript{
				Base:  ast.Base{Pos: st, End: j},
				Value: x,
				Index: idx,
			}

			i = j
		default:
			return x, i, nil
		}
	}
}

func (s *State) parseType(ctx context.Context, st int) (x ast.TypeExpr, i int, err error) {
	tk, tst, i := s.next(st)

	if kw, ok := tk.(Keyword); ok && string(kw) == "map" {
		tk, tst, i = s.next(i)
		if tk != Char('[') {
			return nil, tst, NewUnexpected(tk, Char('['))
		}

		key, i, err := s.parseType(ctx, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "map key")
		}

		tk, tst, i = s.next(i)
		if tk != Char(']') {
			return nil, tst, NewUnexpected(tk, Char(']'))
		}

		val, i, err := s.parseType(ctx, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "map value")
		}

		m := &ast.MapType{
			Base:  ast.Base{Pos: st, End: i},
			Key:   key,
			Value: val,
		}

		return m, i, nil
	}

	name, ok := tk.(Ident)
	if !ok {
		return nil, tst, NewUnexpected(tk, Ident(""), Keyword("map"))
	}

	x = &ast.TypeName{
		Base: ast.Base{Pos: tst, End: i},
		Name: string(name),
	}

	tk, _, j := s.next(i)
	if tk != Char('[') {
		return x, i, nil
	}

	tk, tst, j = s.next(j)

	num, ok := tk.(Number)
	if !ok {
		return nil, tst, NewUnexpected(tk, Number(""))
	}

	l, err := strconv.Atoi(string(num))
	if err != nil {
		return nil, tst, errors.Wrap(err, "array length")
	}

	tk, tst, j = s.next(j)
	if tk != Char(']') {
		return nil, tst, NewUnexpected(tk, Char(']'))
	}

	a := &ast.ArrayType{
		Base: ast.Base{Pos: st, End: j},
		Elem: x,
		Len:  l,
	}

	return a, j, nil
}
