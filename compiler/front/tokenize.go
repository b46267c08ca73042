package front

import "strings"

// next returns the next token, its start position and the position
// right after it. Spaces and comments are skipped, line breaks are not:
// they separate statements and fields. nil means end of input.
func (s *State) next(i int) (tk Token, st, e int) {
	i = s.skipSpaces(i)

	st = i

	if i == len(s.b) {
		return nil, st, i
	}

	c := s.b[i]

	switch {
	case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
		e = i + 1
		for e < len(s.b) && isWord(s.b[e]) {
			e++
		}

		w := string(s.b[i:e])

		if _, ok := keywords[w]; ok {
			return Keyword(w), st, e
		}

		return Ident(w), st, e
	case c >= '0' && c <= '9':
		e = i + 1
		for e < len(s.b) && (isWord(s.b[e]) || s.b[e] == 'x') {
			e++
		}

		return Number(s.b[i:e]), st, e
	default:
		return Char(c), st, i + 1
	}
}

func (s *State) skipSpaces(i int) int {
	for i < len(s.b) {
		switch s.b[i] {
		case ' ', '\t', '\r':
			i++
		case '/':
			if i+1 == len(s.b) || s.b[i+1] != '/' {
				return i
			}

			for i < len(s.b) && s.b[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}

	return i
}

// skipLines advances past any mix of blank space and line breaks.
func (s *State) skipLines(i int) int {
	for {
		i = s.skipSpaces(i)

		if i < len(s.b) && s.b[i] == '\n' {
			i++
			continue
		}

		return i
	}
}

// restOfLine consumes the remainder of the current line as raw text.
func (s *State) restOfLine(i int) (string, int) {
	i = s.skipSpaces(i)

	e := i
	for e < len(s.b) && s.b[e] != '\n' {
		e++
	}

	return strings.TrimSpace(string(s.b[i:e])), e
}

func isWord(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
