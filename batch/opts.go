// SPDX-License-Identifier: MIT

// Package batch parses many source buffers concurrently, a fresh
// *corvid.Parser for each source, run on worker goroutines drawn from
// an ants.Pool — the
// teacher's go.mod requires panjf2000/ants/v2 but never exercises it
// directly, so this package is where that dependency earns its place
// (see corvid.Parser's "not safe for concurrent Parse calls" note).
package batch

import "github.com/sirupsen/logrus"

// Opts configures ParseAll.
type Opts struct {
	// PoolSize caps the number of concurrent parses in flight. Zero
	// means "let Validate pick a default".
	PoolSize int

	// Logger receives one Debug entry per parsed file plus a summary
	// entry once every file has been processed.
	Logger logrus.FieldLogger
}

const defaultPoolSize = 8

// NewOpts returns Opts populated with defaults.
func NewOpts() *Opts {
	return &Opts{PoolSize: defaultPoolSize, Logger: logrus.New()}
}

// Validate populates missing Opts entries with defaults.
func (o *Opts) Validate() {
	if o.PoolSize < 1 {
		o.PoolSize = defaultPoolSize
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
	}
}
