// Package front turns source text into the ast.
package front

import (
	"context"
	"fmt"
	"strings"
)

type (
	State struct {
		b []byte // all files concatenated

		files []file
	}

	file struct {
		Name string
		Base int
	}

	Token interface{}

	Char    byte
	Keyword string
	Ident   string
	Number  string

	UnexpectedError struct {
		Token Token
		Want  []Token
	}
)

func New() *State {
	return &State{}
}

func (s *State) AddFile(ctx context.Context, name string, text []byte) {
	f := file{
		Name: name,
		Base: len(s.b),
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

// Text returns the raw source between two positions.
func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

func NewUnexpected(tk Token, want ...Token) UnexpectedError {
	return UnexpectedError{
		Token: tk,
		Want:  want,
	}
}

func (e UnexpectedError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "unexpected %v", tokStr(e.Token))

	for i, w := range e.Want {
		if i == 0 {
			b.WriteString(", wanted ")
		} else {
			b.WriteString(" or ")
		}

		b.WriteString(tokStr(w))
	}

	return b.String()
}

func tokStr(tk Token) string {
	switch tk := tk.(type) {
	case Char:
		if tk == '\n' {
			return "end of line"
		}

		return fmt.Sprintf("%q", string(byte(tk)))
	case Keyword:
		return fmt.Sprintf("keyword %q", string(tk))
	case Ident:
		if tk == "" {
			return "a name"
		}

		return fmt.Sprintf("name %q", string(tk))
	case Number:
		if tk == "" {
			return "a number"
		}

		return fmt.Sprintf("number %v", string(tk))
	case nil:
		return "end of file"
	default:
		return fmt.Sprintf("%v", tk)
	}
}
