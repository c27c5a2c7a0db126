package metadata

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/metadir/internal/testutil"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		spec  string
		want  map[string]any
	}{
		{
			name:  "single JSON file",
			files: map[string]string{"example.json": `{"text":"Text from a json file"}`},
			spec:  "./**/*.json",
			want:  map[string]any{"example": map[string]any{"text": "Text from a json file"}},
		},
		{
			name: "JSON files in subdirectories",
			files: map[string]string{
				"example.json":           `{"text":"Text from a json file"}`,
				"subdirectory/site.json": `{"url":"http://test.dev"}`,
			},
			spec: "./**/*.json",
			want: map[string]any{
				"example":           map[string]any{"text": "Text from a json file"},
				"subdirectory/site": map[string]any{"url": "http://test.dev"},
			},
		},
		{
			name: "empty file is ignored",
			files: map[string]string{
				"example.json": `{"text":"Text from a json file"}`,
				"empty.json":   "",
			},
			spec: "**/*.json",
			want: map[string]any{"example": map[string]any{"text": "Text from a json file"}},
		},
		{
			name: "mixed formats",
			files: map[string]string{
				"data/site.yaml":    "title: Site\nport: 8080\n",
				"data/nav.yml":      "- home\n- about\n",
				"data/owner.toml":   "name = \"Ada\"\n",
				"data/authors.json": `["ada"]`,
			},
			spec: "data/*",
			want: map[string]any{
				"data/site":    map[string]any{"title": "Site", "port": 8080},
				"data/nav":     []any{"home", "about"},
				"data/owner":   map[string]any{"name": "Ada"},
				"data/authors": []any{"ada"},
			},
		},
		{
			name:  "only the last extension is stripped",
			files: map[string]string{"a.b.json": `{"x":1}`},
			spec:  "*.json",
			want:  map[string]any{"a.b": map[string]any{"x": float64(1)}},
		},
		{
			name: "pattern limits matches",
			files: map[string]string{
				"keep/a.json": `1`,
				"skip/b.json": `2`,
			},
			spec: "keep/**/*.json",
			want: map[string]any{"keep/a": float64(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.SetupSource(t, tt.files)
			store := NewMapStore(nil)

			_, err := Run(context.Background(), src, store, Options{
				Directory: tt.spec,
				Logger:    testutil.NewTestLogger(t),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, store.Snapshot())
		})
	}
}

func TestRunResult(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{
		"b.json":     `{}`,
		"a.json":     `{}`,
		"empty.yaml": "",
	})

	res, err := Run(context.Background(), src, NewMapStore(nil), Options{Directory: "*"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(src, "*"), res.Pattern)
	assert.Equal(t, 3, res.Matched)
	assert.Equal(t, []string{"a", "b"}, res.Loaded)
	assert.Equal(t, []string{"empty"}, res.Skipped)
	assert.Equal(t, map[string]string{
		"a":     filepath.Join(src, "a.json"),
		"b":     filepath.Join(src, "b.json"),
		"empty": filepath.Join(src, "empty.yaml"),
	}, res.Sources)
}

func TestRunPreservesExistingEntries(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"site.json": `{"url":"http://test.dev"}`})
	store := NewMapStore(map[string]any{"build": "prod"})

	_, err := Run(context.Background(), src, store, Options{Directory: "**/*.json"})
	require.NoError(t, err)

	assert.Equal(t, []string{"build", "site"}, store.Keys())
	v, ok := store.Get("build")
	require.True(t, ok)
	assert.Equal(t, "prod", v)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		seed    map[string]any
		spec    any
		wantErr error
		wantMsg []string
	}{
		{
			name:    "malformed JSON",
			files:   map[string]string{"example.json": `{"text": "unterminated`},
			spec:    "./**/*.json",
			wantErr: ErrMalformedData,
			wantMsg: []string{".json", "example.json"},
		},
		{
			name:    "malformed YAML",
			files:   map[string]string{"conf/site.yaml": "a: [1, 2\n"},
			spec:    "conf/*.yaml",
			wantErr: ErrMalformedData,
			wantMsg: []string{".yaml", "site.yaml"},
		},
		{
			name:    "no files match",
			files:   map[string]string{"example.json": `{}`},
			spec:    "**/*.yaml",
			wantErr: ErrEmptyResult,
			wantMsg: []string{"no files found"},
		},
		{
			name:    "duplicate key across formats",
			files:   map[string]string{"site.json": `{}`, "site.yaml": "a: 1\n"},
			spec:    "*",
			wantErr: ErrDuplicateKey,
			wantMsg: []string{"site"},
		},
		{
			name:    "duplicate key with existing entry",
			files:   map[string]string{"example.json": `{}`},
			seed:    map[string]any{"example": true},
			spec:    "*.json",
			wantErr: ErrDuplicateKey,
			wantMsg: []string{"example"},
		},
		{
			name:    "unsupported extension",
			files:   map[string]string{"notes.txt": "hello"},
			spec:    "**/*",
			wantErr: ErrUnsupportedType,
			wantMsg: []string{`".txt"`},
		},
		{
			name:    "dotfile without extension",
			files:   map[string]string{".json": `{}`, "b.json": `{}`},
			spec:    "**/*.json",
			wantErr: ErrUnsupportedType,
			wantMsg: []string{`""`, ".json"},
		},
		{
			name:    "nested dotfile without extension",
			files:   map[string]string{"sub/.json": `{}`},
			spec:    "**/*.json",
			wantErr: ErrUnsupportedType,
			wantMsg: []string{`""`, "sub"},
		},
		{
			name:    "directory list",
			files:   map[string]string{"a.json": `{}`},
			spec:    []string{"a/*.json", "b/*.json"},
			wantErr: ErrInvalidInputKind,
			wantMsg: []string{"cannot be an array"},
		},
		{
			name:    "bad glob pattern",
			files:   map[string]string{"a.json": `{}`},
			spec:    "[a-/*.json",
			wantErr: ErrDiscovery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := testutil.SetupSource(t, tt.files)
			store := NewMapStore(tt.seed)

			_, err := Run(context.Background(), src, store, Options{
				Directory: tt.spec,
				Logger:    testutil.NewTestLogger(t),
			})
			require.ErrorIs(t, err, tt.wantErr)
			for _, msg := range tt.wantMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestRunMalformedLeavesKeyUnset(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"example.json": `not json`})
	store := NewMapStore(nil)

	_, err := Run(context.Background(), src, store, Options{Directory: "*.json"})

	var malformed *MalformedDataError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, ".json", malformed.Ext)
	assert.Equal(t, "example.json", malformed.Name)
	assert.False(t, store.Has("example"))
}

func TestRunTwiceFailsWithDuplicate(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"example.json": `{"text":"Text from a json file"}`})
	store := NewMapStore(nil)
	opts := Options{Directory: "**/*.json"}

	_, err := Run(context.Background(), src, store, opts)
	require.NoError(t, err)

	_, err = Run(context.Background(), src, store, opts)
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "example", dup.Key)
}

func TestRunKeepsPartialMerge(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{
		"a.json": `{"ok":true}`,
		"b.json": `{broken`,
		"c.json": `{"ok":true}`,
	})
	store := NewMapStore(nil)

	_, err := Run(context.Background(), src, store, Options{Directory: "*.json", Concurrency: 1})
	require.ErrorIs(t, err, ErrMalformedData)

	// Files are processed in lexical order; nothing after the failure is merged.
	assert.Equal(t, []string{"a"}, store.Keys())
}

func TestRunConcurrentDuplicateDetection(t *testing.T) {
	files := make(map[string]string)
	for i := range 40 {
		files[fmt.Sprintf("dir/item%02d.json", i)] = fmt.Sprintf(`{"n":%d}`, i)
		files[fmt.Sprintf("dir/item%02d.yaml", i)] = fmt.Sprintf("n: %d\n", i)
	}
	src := testutil.SetupSource(t, files)

	for range 5 {
		store := NewMapStore(nil)
		_, err := Run(context.Background(), src, store, Options{Directory: "dir/*", Concurrency: 16})
		require.ErrorIs(t, err, ErrDuplicateKey)
		for _, key := range store.Keys() {
			assert.Regexp(t, `^dir/item\d\d$`, key)
		}
	}
}

func TestRunConcurrentLoad(t *testing.T) {
	files := make(map[string]string)
	want := make(map[string]any)
	for i := range 100 {
		files[fmt.Sprintf("d%d/f%03d.json", i%7, i)] = fmt.Sprintf(`{"n":%d}`, i)
		want[fmt.Sprintf("d%d/f%03d", i%7, i)] = map[string]any{"n": float64(i)}
	}
	src := testutil.SetupSource(t, files)
	store := NewMapStore(nil)

	res, err := Run(context.Background(), src, store, Options{Directory: "**/*.json", Concurrency: 8})
	require.NoError(t, err)
	assert.Len(t, res.Loaded, 100)
	assert.Equal(t, want, store.Snapshot())
}

func TestRunSchemaOption(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"site.yaml": "port: 8080\nenabled: yes\n"})
	store := NewMapStore(nil)

	_, err := Run(context.Background(), src, store, Options{
		Directory: "*.yaml",
		Schema:    parsers.FailsafeSchema,
	})
	require.NoError(t, err)

	v, _ := store.Get("site")
	assert.Equal(t, map[string]any{"port": "8080", "enabled": "yes"}, v)
}

func TestRunCustomRegistry(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"readme.txt": "hello"})
	store := NewMapStore(nil)

	reg := parsers.Default().With(".txt", func(_ parsers.ParseOptions, data []byte) (any, error) {
		return string(data), nil
	})
	_, err := Run(context.Background(), src, store, Options{Directory: "*.txt", Registry: reg})
	require.NoError(t, err)

	v, _ := store.Get("readme")
	assert.Equal(t, "hello", v)
}

func TestRunCancelledContext(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"a.json": `{}`})
	store := NewMapStore(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, src, store, Options{Directory: "*.json"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, store.Len())
}

func TestRunDebugLogging(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{
		"site.json":  `{"url":"http://test.dev"}`,
		"empty.yaml": "",
	})
	logger, logs := testutil.NewCaptureLogger()

	_, err := Run(context.Background(), src, NewMapStore(nil), Options{Directory: "*", Logger: logger})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "component=metadata")
	assert.Contains(t, out, "discovering metadata files")
	assert.Contains(t, out, "skipping empty metadata file")
	assert.Contains(t, out, "key=site")
	assert.Contains(t, out, "metadata load completed")
}

type testHost struct {
	src   string
	store *MapStore
}

func (h testHost) Source() string  { return h.src }
func (h testHost) Metadata() Store { return h.store }

func TestPlugin(t *testing.T) {
	src := testutil.SetupSource(t, map[string]string{"subdirectory/site.yaml": "url: http://test.dev\n"})
	host := testHost{src: src, store: NewMapStore(nil)}

	step := Plugin(Options{Directory: "./**/*.yaml"})
	require.NoError(t, step(context.Background(), host))

	v, ok := host.store.Get("subdirectory/site")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"url": "http://test.dev"}, v)
}

func TestFileExt(t *testing.T) {
	tests := map[string]string{
		"site.json":       ".json",
		"a.b.yaml":        ".yaml",
		".json":           "",
		"..json":          "",
		".site.json":      ".json",
		"sub/.json":       "",
		"v1.0/nav":        "",
		"notes":           "",
		"deep/dir/x.toml": ".toml",
	}
	for name, want := range tests {
		assert.Equal(t, want, FileExt(name), name)
	}
}

func TestDeriveKey(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "site", "src")
	tests := []struct {
		file string
		want string
	}{
		{file: filepath.Join(base, "example.json"), want: "example"},
		{file: filepath.Join(base, "subdirectory", "site.yaml"), want: "subdirectory/site"},
		{file: filepath.Join(base, "a.b.json"), want: "a.b"},
		{file: filepath.Join(base, "v1.0", "nav.yml"), want: "v1.0/nav"},
		{file: filepath.Join(base, ".site.json"), want: ".site"},
		{file: filepath.Join(base, "sub", ".json"), want: "sub/.json"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := DeriveKey(base, tt.file)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
