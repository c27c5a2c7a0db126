// Package metadata merges a tree of structured metadata files into a shared
// key-value store.
//
// A load has two stages:
//   - resolve: the Directory spec is turned into an absolute glob pattern
//     anchored at the source directory (see package resolve)
//   - merge: every matching file is parsed by the parser registered for its
//     extension and stored under its source-relative path without extension
//
// For example, with source directory /site/src and Directory "./**/*.json",
// the file /site/src/subdirectory/site.json is stored under the key
// "subdirectory/site".
//
// Keys are never overwritten. A key that already exists in the store, whether
// from an earlier pipeline step or from another file in the same load, fails
// the whole load. Empty files are skipped.
package metadata

import (
	"context"

	"github.com/leapstack-labs/metadir/pkg/metadata/resolve"
)

// Host is the pipeline that owns the source directory and the store.
type Host interface {
	Source() string
	Metadata() Store
}

// Step is a pipeline stage operating on a Host.
type Step func(ctx context.Context, h Host) error

// Run resolves opts.Directory against baseDir and merges the matching files
// into store.
func Run(ctx context.Context, baseDir string, store Store, opts Options) (*Result, error) {
	pattern, err := resolve.Resolve(baseDir, opts.Directory)
	if err != nil {
		return nil, err
	}
	return NewLoader(opts).Load(ctx, pattern, store, baseDir)
}

// Plugin returns a Step that loads metadata into the host's store.
func Plugin(opts Options) Step {
	return func(ctx context.Context, h Host) error {
		_, err := Run(ctx, h.Source(), h.Metadata(), opts)
		return err
	}
}
