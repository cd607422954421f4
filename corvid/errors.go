// SPDX-License-Identifier: MIT
package corvid

import (
	"errors"
	"fmt"
)

// Sentinel parse-error causes (spec §7, ParseError/UnknownToken taxonomy).
var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrUnexpectedIndent  = errors.New("unexpected indentation")
	ErrMixedIndent       = errors.New("can not mix tabs and spaces for indentation")
	ErrMissingDelimiter  = errors.New("missing delimiter")
	ErrEmptyBlock        = errors.New("block requires at least one statement")
	ErrNotAssignable     = errors.New("left-hand side of assignment is not assignable")
	ErrBadImportTarget   = errors.New("import target must be a string literal")
	ErrNamedArgAfterBare = errors.New("positional argument can not follow a named argument")
)

// ParseError is a parser-side failure, carrying the byte offset of the
// offending token for caller diagnostics.
type ParseError struct {
	Pos int
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %v", e.Pos, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// errAt wraps cause as a *ParseError positioned at byte offset pos.
func (p *Parser) errAt(pos uint32, cause error) error {
	return &ParseError{Pos: int(pos), Err: cause}
}

// errf is errAt with a formatted cause, for messages that need the
// offending token's text or kind inlined.
func (p *Parser) errf(pos uint32, format string, args ...any) error {
	return p.errAt(pos, fmt.Errorf(format, args...))
}
