// SPDX-License-Identifier: MIT
package corvid

import (
	"github.com/corvidlang/corvid/lexer"
	"github.com/sirupsen/logrus"
)

// ParserOpts configures a Parser, mirroring lexer.Opts's shape so the
// two compose the same way the teacher's Opts/Config pair does.
type ParserOpts struct {
	// IgnoreErrors is forwarded verbatim to the tokenizer (spec §4.1).
	// The parser itself never recovers from a syntax error: first
	// error wins regardless of this flag.
	IgnoreErrors bool

	// Logger receives Debug-level entries from the parser (one per
	// successful parse) and from the scanner it drives. A nil Logger is replaced by a fresh logrus.Logger
	// in Validate.
	Logger logrus.FieldLogger
}

// NewParserOpts returns ParserOpts populated with defaults.
func NewParserOpts() *ParserOpts {
	return &ParserOpts{Logger: logrus.New()}
}

// Validate populates missing ParserOpts entries with defaults.
func (o *ParserOpts) Validate() {
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}

func (o ParserOpts) lexerOpts() lexer.Opts {
	return lexer.Opts{IgnoreErrors: o.IgnoreErrors, Logger: o.Logger}
}
