package vcd

import (
	"fmt"

	"github.com/pkg/errors"
)

var errEndOfHeader = errors.New("unexpected end of input before $enddefinitions")

// FormatError reports malformed trace structure at a given input line.
type FormatError struct {
	Line  int
	Token string
	Err   error
}

func (e *FormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("vcd: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("vcd: line %d near %q: %v", e.Line, e.Token, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func formatError(t token, format string, args ...interface{}) error {
	return &FormatError{Line: t.line, Token: t.text, Err: errors.Errorf(format, args...)}
}

func wrapFormatError(t token, err error, msg string) error {
	return &FormatError{Line: t.line, Token: t.text, Err: errors.Wrap(err, msg)}
}
