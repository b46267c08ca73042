package compiler

import (
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/crest-lang/crest/compiler/abi"
	"github.com/crest-lang/crest/compiler/analyze"
	"github.com/crest-lang/crest/compiler/front"
	"github.com/crest-lang/crest/compiler/gen"
	"github.com/crest-lang/crest/compiler/pragma"
)

// Version is checked against source pragma constraints.
const Version = "0.1.0"

type (
	// Output is everything one compilation produces, one field per
	// emit target.
	Output struct {
		Contract string

		AST []byte
		Yul []byte
		ABI []byte
	}
)

func CompileFile(ctx context.Context, name string) (out *Output, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text)
}

func Compile(ctx context.Context, name string, text []byte) (out *Output, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "name", name)
	defer tr.Finish("err", &err)

	st := front.New()

	st.AddFile(ctx, name, text)

	f, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	err = pragma.Check(f.Pragma, Version)
	if err != nil {
		return nil, err
	}

	info, err := analyze.Analyze(ctx, f)
	if err != nil {
		return nil, errors.Wrap(err, "analyze")
	}

	out = &Output{
		Contract: f.Contract.Name,
	}

	out.AST = fmt.Appendf(nil, "%+v\n", f)

	out.Yul, err = gen.New(info).Object(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "gen")
	}

	out.ABI, err = abi.JSON(info)
	if err != nil {
		return nil, errors.Wrap(err, "abi")
	}

	return out, nil
}
