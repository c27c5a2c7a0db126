// Package resolve turns a user supplied directory or glob spec into an
// absolute glob pattern anchored at a source directory.
//
// A spec is split into a literal prefix, made of the leading path segments
// that contain no glob syntax, and a pattern made of everything from the
// first glob segment on. The literal prefix is first tried relative to the
// source directory; when nothing exists there it is taken as relative to the
// working directory and re-expressed relative to the source directory.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrInvalidInputKind is returned when the directory spec is not a single
// string.
var ErrInvalidInputKind = errors.New("invalid directory spec")

// globChar matches any character that cannot appear in a plain path segment.
var globChar = regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)

// IsGlobSegment reports whether seg contains glob syntax.
func IsGlobSegment(seg string) bool {
	return globChar.MatchString(seg)
}

// Split classifies the slash separated segments of spec. Once a glob segment
// is seen, it and every later segment belong to pattern.
func Split(spec string) (literal, pattern []string) {
	globStart := false
	for _, seg := range strings.Split(filepath.ToSlash(spec), "/") {
		if globStart || IsGlobSegment(seg) {
			globStart = true
			pattern = append(pattern, seg)
			continue
		}
		literal = append(literal, seg)
	}
	return literal, pattern
}

// Resolve returns the absolute glob pattern for spec relative to baseDir.
// spec must be a string; lists are rejected with ErrInvalidInputKind.
func Resolve(baseDir string, spec any) (string, error) {
	s, err := specString(spec)
	if err != nil {
		return "", err
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory %s: %w", baseDir, err)
	}

	literal, pattern := Split(s)
	subPath := strings.Join(literal, "/")

	localPath, err := literalBase(absBase, subPath)
	if err != nil {
		return "", err
	}

	var resolved string
	if filepath.IsAbs(localPath) {
		resolved = localPath
	} else {
		resolved = filepath.Join(absBase, localPath)
	}
	if len(pattern) > 0 {
		resolved = filepath.Join(resolved, filepath.FromSlash(strings.Join(pattern, "/")))
	}
	return resolved, nil
}

// literalBase picks the interpretation of subPath: relative to absBase when
// it exists there, otherwise relative to the working directory.
func literalBase(absBase, subPath string) (string, error) {
	if subPath == "" {
		return "", nil
	}

	local := filepath.FromSlash(subPath)
	candidate := local
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absBase, candidate)
	}
	if _, err := os.Stat(candidate); err == nil {
		return local, nil
	}

	fromCwd, err := filepath.Abs(local)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", subPath, err)
	}
	rel, err := filepath.Rel(absBase, fromCwd)
	if err != nil {
		return "", fmt.Errorf("resolve %s against %s: %w", subPath, absBase, err)
	}
	return rel, nil
}

func specString(spec any) (string, error) {
	switch v := spec.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: directory is required", ErrInvalidInputKind)
		}
		return v, nil
	case []string, []any:
		return "", fmt.Errorf("%w: directory cannot be an array", ErrInvalidInputKind)
	case nil:
		return "", fmt.Errorf("%w: directory is required", ErrInvalidInputKind)
	default:
		return "", fmt.Errorf("%w: directory must be a string, got %T", ErrInvalidInputKind, spec)
	}
}
