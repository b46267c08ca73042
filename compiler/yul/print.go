package yul

import "fmt"

// Append renders a statement into b with curly-brace indentation,
// one statement per line, d tabs deep. The trailing newline is included.
func Append(b []byte, x Statement, d int) []byte {
	switch x := x.(type) {
	case Block:
		return appendBlock(b, x, d)
	case Switch:
		b = app(b, d, "switch %v\n", x.X)

		for _, c := range x.Cases {
			b = app(b, d, "case %v ", c.Value)
			b = appendBlock(b, c.Body, d)
		}

		if x.Default != nil {
			b = app(b, d, "default ")
			b = appendBlock(b, *x.Default, d)
		}

		return b
	case FuncDef:
		b = app(b, d, "function %v(", x.Name)

		for i, p := range x.Params {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = append(b, p.Name...)
		}

		b = append(b, ')')

		if len(x.Ret) != 0 {
			b = append(b, " -> "...)

			for i, r := range x.Ret {
				if i != 0 {
					b = append(b, ", "...)
				}

				b = append(b, r.Name...)
			}
		}

		b = append(b, ' ')

		return appendBlock(b, x.Body, d)
	default:
		return app(b, d, "%v\n", x)
	}
}

func appendBlock(b []byte, x Block, d int) []byte {
	b = append(b, "{\n"...)

	for _, s := range x.Statements {
		b = Append(b, s, d+1)
	}

	b = app(b, d, "}\n")

	return b
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t\t\t\t\t\t\t\t"

	b = append(b, tabs[:d]...)
	b = fmt.Appendf(b, f, args...)

	return b
}
