// SPDX-License-Identifier: MIT
package lexer

import "github.com/sirupsen/logrus"

// Opts configures a Scan call.
type Opts struct {
	// IgnoreErrors makes the scanner forgiving: unrecognized input
	// produces a KindErr token and scanning continues instead of
	// aborting.
	IgnoreErrors bool

	// Logger receives one Debug-level entry per Scan call: the token
	// dump on success, or the error's byte offset on failure. A nil Logger is replaced by a fresh logrus.Logger
	// in Validate.
	Logger logrus.FieldLogger
}

// NewOpts returns Opts populated with defaults.
func NewOpts() *Opts {
	return &Opts{Logger: logrus.New()}
}

// Validate populates missing Opts entries with defaults.
func (o *Opts) Validate() {
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}
