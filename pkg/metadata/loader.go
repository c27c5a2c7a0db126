package metadata

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// Options configures a metadata load.
type Options struct {
	// Directory is the directory or glob spec, relative to the source
	// directory. It must be a single string.
	Directory any

	// Schema is passed to the YAML parser. Nil means parsers.CoreSchema.
	Schema parsers.Schema

	// Concurrency bounds the number of files processed at once.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Concurrency int

	// Registry overrides the extension to parser mapping.
	Registry *parsers.Registry

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// FileEntry describes one matched file while it is being merged.
type FileEntry struct {
	Path    string // absolute path
	Base    string // file name
	Ext     string // final extension, with dot
	Key     string // merge key
	Content []byte
}

// Result summarises a successful load.
type Result struct {
	Pattern  string
	Matched  int
	Loaded   []string          // keys inserted, sorted
	Skipped  []string          // keys of empty files, sorted
	Sources  map[string]string // key to absolute file path, loaded and skipped
	Duration time.Duration
}

// Loader enumerates files matching a resolved pattern and merges their parsed
// content into a Store.
type Loader struct {
	registry    *parsers.Registry
	parseOpts   parsers.ParseOptions
	concurrency int
	logger      *slog.Logger
}

// NewLoader creates a loader from opts. Directory is not used by the loader.
func NewLoader(opts Options) *Loader {
	registry := opts.Registry
	if registry == nil {
		registry = parsers.Default()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		registry:    registry,
		parseOpts:   parsers.ParseOptions{Schema: opts.Schema},
		concurrency: concurrency,
		logger:      logger.With("component", "metadata"),
	}
}

// Load merges every file matching pattern into store. Keys are file paths
// relative to baseDir without their final extension.
//
// The first failure stops the load: no new files are started, files already
// being read finish but are not inserted. Entries merged before the failure
// stay in the store.
func (l *Loader) Load(ctx context.Context, pattern string, store Store, baseDir string) (*Result, error) {
	start := time.Now()

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("discovering metadata files", "pattern", pattern)

	files, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, &DiscoveryError{Pattern: pattern, Err: err}
	}
	if len(files) == 0 {
		return nil, &EmptyResultError{Pattern: pattern}
	}
	slices.Sort(files)

	l.logger.Debug("metadata files found", "count", len(files), "files", files)

	var (
		mu      sync.Mutex
		loaded  []string
		skipped []string
		sources = make(map[string]string, len(files))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, file := range files {
		// Stop scheduling once any file has failed.
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			inserted, key, err := l.loadFile(gctx, file, absBase, store)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case inserted:
				loaded = append(loaded, key)
				sources[key] = file
			case key != "":
				skipped = append(skipped, key)
				sources[key] = file
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slices.Sort(loaded)
	slices.Sort(skipped)
	result := &Result{
		Pattern:  pattern,
		Matched:  len(files),
		Loaded:   loaded,
		Skipped:  skipped,
		Sources:  sources,
		Duration: time.Since(start),
	}

	l.logger.Debug("metadata load completed",
		"matched", result.Matched,
		"loaded", len(result.Loaded),
		"skipped", len(result.Skipped),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// loadFile merges a single file. It reports whether an entry was inserted and
// the key it derived; an empty key with a nil error means the work was
// abandoned after cancellation.
func (l *Loader) loadFile(ctx context.Context, file, absBase string, store Store) (bool, string, error) {
	if ctx.Err() != nil {
		return false, "", nil
	}

	entry := FileEntry{
		Path: file,
		Base: filepath.Base(file),
		Ext:  FileExt(file),
	}

	parse, ok := l.registry.Lookup(entry.Ext)
	if !ok {
		return false, "", &UnsupportedTypeError{Ext: entry.Ext, Path: file, Available: l.registry.Extensions()}
	}

	key, err := DeriveKey(absBase, file)
	if err != nil {
		return false, "", err
	}
	entry.Key = key

	if store.Has(entry.Key) {
		return false, "", &DuplicateKeyError{Key: entry.Key, Path: file}
	}

	content, err := os.ReadFile(file) //nolint:gosec // G304: file comes from the resolved glob
	if err != nil {
		return false, "", &ReadError{Path: file, Err: err}
	}
	entry.Content = content

	if len(entry.Content) == 0 {
		l.logger.Debug("skipping empty metadata file", "path", file, "key", entry.Key)
		return false, entry.Key, nil
	}

	value, err := parse(l.parseOpts, entry.Content)
	if err != nil {
		return false, "", &MalformedDataError{Ext: entry.Ext, Name: entry.Base, Err: err}
	}

	// Results read after another file failed are dropped.
	if ctx.Err() != nil {
		return false, "", nil
	}

	if !store.PutIfAbsent(entry.Key, value) {
		return false, "", &DuplicateKeyError{Key: entry.Key, Path: file}
	}

	l.logger.Debug("merged metadata file", "path", file, "key", entry.Key, "ext", entry.Ext)
	return true, entry.Key, nil
}

// DeriveKey returns the merge key for file: its slash separated path
// relative to baseDir with only the final extension removed.
func DeriveKey(baseDir, file string) (string, error) {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, FileExt(rel)), nil
}

// FileExt returns the final extension of the last path element, with dot.
// Leading dots belong to the name, so ".json" has no extension and
// ".site.json" has ".json".
func FileExt(name string) string {
	base := strings.TrimLeft(path.Base(filepath.ToSlash(name)), ".")
	return path.Ext(base)
}
