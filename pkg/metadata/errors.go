package metadata

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/metadir/pkg/metadata/resolve"
)

// Error kinds. Every typed error below matches exactly one of these with
// errors.Is.
var (
	ErrInvalidInputKind = resolve.ErrInvalidInputKind
	ErrDiscovery        = errors.New("file discovery failed")
	ErrEmptyResult      = errors.New("no files found")
	ErrUnsupportedType  = errors.New("unsupported metadata type")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrMalformedData    = errors.New("malformed data")
)

// DiscoveryError is returned when enumerating the pattern fails.
type DiscoveryError struct {
	Pattern string
	Err     error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("glob error for %s: %v", e.Pattern, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

func (e *DiscoveryError) Is(target error) bool { return target == ErrDiscovery }

// EmptyResultError is returned when the pattern matches no files.
type EmptyResultError struct {
	Pattern string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no files found in directory: %s", e.Pattern)
}

func (e *EmptyResultError) Is(target error) bool { return target == ErrEmptyResult }

// UnsupportedTypeError is returned for a matched file whose extension has no
// registered parser.
type UnsupportedTypeError struct {
	Ext       string
	Path      string
	Available []string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported metadata type %q for %s (supported: %v)", e.Ext, e.Path, e.Available)
}

func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// DuplicateKeyError is returned when a derived key is already in the store.
type DuplicateKeyError struct {
	Key  string
	Path string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate file name: %s (from %s)", e.Key, e.Path)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// MalformedDataError is returned when a parser rejects non-empty content.
type MalformedDataError struct {
	Ext  string
	Name string
	Err  error
}

func (e *MalformedDataError) Error() string {
	return fmt.Sprintf("malformed %s data in %s: %v", e.Ext, e.Name, e.Err)
}

func (e *MalformedDataError) Unwrap() error { return e.Err }

func (e *MalformedDataError) Is(target error) bool { return target == ErrMalformedData }

// ReadError is returned when a matched file cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
