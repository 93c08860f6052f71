package vcd

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const maxLine = 64 << 20

type token struct {
	text string
	line int
}

// scanner splits the input into whitespace separated words and keeps track of
// the line each word came from.
type scanner struct {
	sc     *bufio.Scanner
	line   int
	fields []string
}

func newScanner(r io.Reader) *scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &scanner{sc: sc}
}

// next returns false once the input is exhausted.
func (s *scanner) next() (token, bool, error) {
	for len(s.fields) == 0 {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return token{}, false, errors.Wrapf(err, "vcd: read after line %d", s.line)
			}
			return token{}, false, nil
		}
		s.line++
		s.fields = strings.Fields(s.sc.Text())
	}
	t := token{text: s.fields[0], line: s.line}
	s.fields = s.fields[1:]
	return t, true, nil
}

// untilEnd collects the words of a declaration up to its $end keyword.
func (s *scanner) untilEnd(kw token) ([]string, error) {
	var out []string
	for {
		t, ok, err := s.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, formatError(kw, "missing $end for %s", kw.text)
		}
		if t.text == "$end" {
			return out, nil
		}
		out = append(out, t.text)
	}
}
