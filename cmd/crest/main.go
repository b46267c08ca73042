package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/crest-lang/crest/compiler"
	"github.com/crest-lang/crest/compiler/front"
	"github.com/crest-lang/crest/compiler/ice"
)

func main() {
	parseCmd := &cli.Command{
		Name:   "parse",
		Action: parseAct,
		Args:   cli.Args{},
	}

	compileFlags := []*cli.Flag{
		cli.NewFlag("output-dir,o", "output", "directory to store the compiler output"),
		cli.NewFlag("emit,e", "yul,abi", "comma separated emit targets: ast,yul,abi"),
		cli.NewFlag("overwrite", false, "overwrite contents of the output directory"),
	}

	compileCmd := &cli.Command{
		Name:   "compile",
		Action: compileAct,
		Args:   cli.Args{},
		Flags:  compileFlags,
	}

	watchCmd := &cli.Command{
		Name:        "watch",
		Description: "recompile whenever the source changes",
		Action:      watchAct,
		Args:        cli.Args{},
		Flags:       compileFlags,
	}

	app := &cli.Command{
		Name:        "crest",
		Description: "compiler for the Crest contract language",
		Commands: []*cli.Command{
			parseCmd,
			compileCmd,
			watchCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func parseAct(c *cli.Command) (err error) {
	defer presentICE()

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		text, err := os.ReadFile(a)
		if err != nil {
			return errors.Wrap(err, "read %v", a)
		}

		st := front.New()
		st.AddFile(ctx, a, text)

		f, err := st.Parse(ctx)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("ast: %+v\n", f)
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	defer presentICE()

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		err = compileOne(ctx, c, a)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}
	}

	return nil
}

func watchAct(c *cli.Command) (err error) {
	defer presentICE()

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	tr := tlog.SpanFromContext(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "new watcher")
	}

	defer func() {
		e := w.Close()
		if err == nil {
			err = errors.Wrap(e, "close watcher")
		}
	}()

	for _, a := range c.Args {
		err = w.Add(a)
		if err != nil {
			return errors.Wrap(err, "watch %v", a)
		}

		err = compileOne(ctx, c, a)
		if err != nil {
			tr.Printw("compile", "file", a, "err", err)
		}
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			tr.Printw("source changed", "file", ev.Name)

			err = compileOne(ctx, c, ev.Name)
			if err != nil {
				tr.Printw("compile", "file", ev.Name, "err", err)
			}
		case e, ok := <-w.Errors:
			if !ok {
				return nil
			}

			tr.Printw("watch", "err", e)
		}
	}
}

func compileOne(ctx context.Context, c *cli.Command, name string) (err error) {
	out, err := compiler.CompileFile(ctx, name)
	if err != nil {
		return err
	}

	dir := c.String("output-dir")

	err = prepareDir(dir, c.Bool("overwrite"))
	if err != nil {
		return err
	}

	for _, e := range splitList(c.String("emit")) {
		var text []byte

		switch e {
		case "ast":
			text = out.AST
		case "yul":
			text = out.Yul
		case "abi":
			text = out.ABI
		default:
			return errors.New("unknown emit target: %v", e)
		}

		file := filepath.Join(dir, out.Contract+"."+e)

		err = os.WriteFile(file, text, 0o644)
		if err != nil {
			return errors.Wrap(err, "write %v", file)
		}

		tlog.SpanFromContext(ctx).Printw("emitted", "file", file, "size", len(text))
	}

	return nil
}

func prepareDir(dir string, overwrite bool) error {
	fs, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return errors.Wrap(err, "read dir %v", dir)
	}

	if len(fs) != 0 && !overwrite {
		return errors.New("output directory %v is not empty, use --overwrite", dir)
	}

	return nil
}

func splitList(s string) []string {
	var l []string

	for len(s) != 0 {
		i := 0
		for i < len(s) && s[i] != ',' {
			i++
		}

		if i != 0 {
			l = append(l, s[:i])
		}

		if i == len(s) {
			break
		}

		s = s[i+1:]
	}

	return l
}

// presentICE is the only place internal compiler panics are caught.
// The core propagates them untouched; here they turn into a report
// asking for a bug filing instead of a bare stack trace.
func presentICE() {
	p := recover()
	if p == nil {
		return
	}

	e, ok := p.(*ice.Error)
	if !ok {
		panic(p)
	}

	fmt.Fprintf(os.Stderr, "%v\n", e)
	fmt.Fprintf(os.Stderr, "this is a bug in the compiler, not in the source being compiled\n")
	fmt.Fprintf(os.Stderr, "please report it: https://github.com/crest-lang/crest/issues\n")

	os.Exit(101)
}
