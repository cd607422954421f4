// SPDX-License-Identifier: MIT
package batch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/corvidlang/corvid/corvid"
	"github.com/corvidlang/corvid/types"
)

// FileResult is one source's outcome from a ParseAll run.
type FileResult struct {
	Name string
	View corvid.ResultView
	Err  error
}

// Summary aggregates counts across an entire ParseAll run.
type Summary struct {
	Files      int
	OKFiles    int
	ErrFiles   int
	TokenCount int
	NodeCount  int
}

// ParseAll parses every entry in sources concurrently across an
// ants.Pool sized by opts.PoolSize, returning one FileResult per
// source (ordered by name, independent of completion order) plus an
// aggregate Summary. ctx cancellation stops submission of further
// work; files already in flight still finish and are reported.
func ParseAll(ctx context.Context, sources map[string][]byte, opts Opts) ([]FileResult, Summary, error) {
	opts.Validate()

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	pool, err := ants.NewPool(opts.PoolSize)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("batch: create pool: %w", err)
	}
	defer pool.Release()

	results := make([]FileResult, len(names))
	submitted := make([]bool, len(names))
	var tokenCount, nodeCount, okFiles, errFiles types.SafeCounter

	var wg sync.WaitGroup
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		i, name := i, name
		src := sources[name]
		submitted[i] = true
		wg.Add(1)

		submitErr := pool.Submit(func() {
			defer wg.Done()

			p := corvid.NewParser(*corvid.NewParserOpts())
			view, parseErr := p.ParseNoErr(name, src)
			dup := corvid.Dupe(view)
			results[i] = FileResult{Name: name, View: dup, Err: parseErr}

			tokenCount.Add(len(dup.Tokens))
			nodeCount.Add(len(dup.Nodes))
			if parseErr != nil {
				errFiles.Inc()
				opts.Logger.Debugf("batch: %s: %v", name, parseErr)
				return
			}
			okFiles.Inc()
			opts.Logger.Debugf("batch: %s: ok, %d tokens, %d nodes", name, len(dup.Tokens), len(dup.Nodes))
		})
		if submitErr != nil {
			wg.Done()
			results[i] = FileResult{Name: name, Err: fmt.Errorf("batch: submit %s: %w", name, submitErr)}
			errFiles.Inc()
		}
	}
	wg.Wait()

	out := results[:0]
	for i, ok := range submitted {
		if ok {
			out = append(out, results[i])
		}
	}

	summary := Summary{
		Files:      len(out),
		OKFiles:    okFiles.Value(),
		ErrFiles:   errFiles.Value(),
		TokenCount: tokenCount.Value(),
		NodeCount:  nodeCount.Value(),
	}
	opts.Logger.Debugf("batch: done, %d files (%d ok, %d errors)", summary.Files, summary.OKFiles, summary.ErrFiles)

	return out, summary, nil
}
