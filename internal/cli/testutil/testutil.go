// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"

	"github.com/leapstack-labs/metadir/internal/cli/output"
)

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer with the given mode and TTY state whose
// output is captured in buffers.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererAuto creates a test renderer in auto mode. Buffers are not
// terminals, so output is markdown.
func NewTestRendererAuto() *TestRenderer {
	return NewTestRenderer(output.ModeAuto, false)
}

// Output returns the captured standard output.
func (r *TestRenderer) Output() string {
	return r.Out.String()
}

// ErrOutput returns the captured error output.
func (r *TestRenderer) ErrOutput() string {
	return r.ErrOut.String()
}
