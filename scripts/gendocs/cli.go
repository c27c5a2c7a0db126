package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leapstack-labs/metadir/internal/cli"
	"github.com/leapstack-labs/metadir/internal/cli/config"
	"github.com/leapstack-labs/metadir/pkg/metadata"
	"github.com/leapstack-labs/metadir/pkg/metadata/parsers"
)

// keyExamples are source-relative files shown in the key derivation table.
var keyExamples = []string{
	"example.json",
	"subdirectory/site.yaml",
	"data/v1.0/nav.yml",
	"data/a.b.toml",
	".site.json",
}

// errorKinds lists the load failures in the order a load can hit them.
var errorKinds = []struct {
	err  error
	when string
}{
	{metadata.ErrInvalidInputKind, "the directory spec is missing or not a single string"},
	{metadata.ErrDiscovery, "the glob pattern is invalid or a directory cannot be read"},
	{metadata.ErrEmptyResult, "the pattern matches no files"},
	{metadata.ErrUnsupportedType, "a matched file has no registered parser for its extension"},
	{metadata.ErrDuplicateKey, "a derived key is already in the store"},
	{metadata.ErrMalformedData, "a parser rejects non-empty file content"},
}

// generateCLIDocs writes index.md and one page per visible command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	cmds := documentedCommands(root)

	if err := writeDoc(outDir, "index.md", cliIndex(root, cmds)); err != nil {
		return err
	}
	for _, cmd := range cmds {
		if err := writeDoc(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	return nil
}

func writeDoc(outDir, name string, w *MarkdownWriter) error {
	log.Printf("  Generated %s", name)
	return os.WriteFile(filepath.Join(outDir, name), w.Bytes(), 0600)
}

func documentedCommands(root *cobra.Command) []*cobra.Command {
	var cmds []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.Hidden || cmd.Name() == "help" {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func cliIndex(root *cobra.Command, cmds []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for metadir")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(cleanDescription(root.Long))
	w.CodeBlock("bash", "metadir <command> [options]")

	w.Header(2, "Commands")
	rows := make([][]string, 0, len(cmds))
	for _, cmd := range cmds {
		link := fmt.Sprintf("[%s](%s.md)", InlineCode(cmd.Name()), cmd.Name())
		rows = append(rows, []string{link, cleanDescription(cmd.Short)})
	}
	w.Table([]string{"Command", "Description"}, rows)

	writeKeySection(w)
	writeFormatSection(w)

	w.Header(2, "Global Options")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment Variables")
	w.Paragraph("Each configuration key can also be set from the environment. Flags win over the environment, which wins over the config file.")
	envRows := make([][]string, 0, len(getConfigSchema()))
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(envVar(f.Name)), f.Description})
	}
	w.Table([]string{"Variable", "Description"}, envRows)

	w.Header(2, "Errors")
	w.Paragraph("A failed load exits with status 1. The message starts with one of these kinds:")
	errRows := make([][]string, 0, len(errorKinds))
	for _, k := range errorKinds {
		errRows = append(errRows, []string{InlineCode(k.err.Error()), k.when})
	}
	w.Table([]string{"Kind", "Raised when"}, errRows)

	return w
}

// writeKeySection documents key derivation with keys computed by the loader.
func writeKeySection(w *MarkdownWriter) {
	w.Header(2, "Metadata Keys")
	w.Paragraph("Every matched file is stored under its path relative to the source directory, using forward slashes, with only the final extension removed. A key that already exists fails the load. Empty files are skipped.")

	base := "src"
	rows := make([][]string, 0, len(keyExamples))
	for _, rel := range keyExamples {
		key, err := metadata.DeriveKey(base, filepath.Join(base, filepath.FromSlash(rel)))
		if err != nil {
			continue
		}
		ext := metadata.FileExt(rel)
		if ext == "" {
			ext = "(none)"
		}
		rows = append(rows, []string{InlineCode(rel), InlineCode(ext), InlineCode(key)})
	}
	w.Table([]string{"File", "Extension", "Key"}, rows)
}

func writeFormatSection(w *MarkdownWriter) {
	w.Header(2, "Supported Formats")
	exts := parsers.Default().Extensions()
	rows := make([][]string, 0, len(exts))
	for _, ext := range exts {
		rows = append(rows, []string{InlineCode(ext), parsers.FormatName(ext)})
	}
	w.Table([]string{"Extension", "Format"}, rows)

	schemas := make([]string, 0, len(parsers.SchemaNames()))
	for _, name := range parsers.SchemaNames() {
		item := InlineCode(name)
		if name == config.DefaultParserSchema {
			item += " (default)"
		}
		schemas = append(schemas, item)
	}
	w.Paragraph("YAML files are built with one of these schemas, chosen with `--schema`:")
	w.BulletList(schemas)
}

func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	w.Paragraph(cleanDescription(desc))

	w.Header(2, "Usage")
	w.CodeBlock("bash", cmd.UseLine())

	if cmd.HasLocalFlags() {
		w.Header(2, "Options")
		writeFlagsTable(w, cmd.LocalFlags())
	}
	if cmd.HasInheritedFlags() {
		w.Header(2, "Global Options")
		w.Paragraph("See the [CLI reference](index.md#global-options).")
	}
	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
	return w
}

func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		def := "-"
		if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
			def = InlineCode(f.DefValue)
		}
		rows = append(rows, []string{InlineCode(name), def, cleanDescription(f.Usage)})
	})
	w.Table([]string{"Flag", "Default", "Description"}, rows)
}

func envVar(key string) string {
	return "METADIR_" + strings.ToUpper(key)
}

// cleanExample strips the indentation shared by every non-blank line.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	prefix, found := "", false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if !found || len(indent) < len(prefix) {
			prefix, found = indent, true
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
