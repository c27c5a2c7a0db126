// Package main generates markdown reference documentation for the metadir
// CLI and its configuration file.
//
// Usage:
//
//	go run ./scripts/gendocs -gen=cli -outdir=docs/cli
//	go run ./scripts/gendocs -gen=config -outdir=docs
//	go run ./scripts/gendocs -gen=all
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

var (
	genFlag    = flag.String("gen", "all", "what to generate: cli, config, all")
	outDirFlag = flag.String("outdir", "", "output directory (defaults based on gen type)")
)

func main() {
	flag.Parse()

	validGenFlags := map[string]bool{"cli": true, "config": true, "all": true}
	if !validGenFlags[*genFlag] {
		log.Fatalf("unknown -gen value: %s (use: cli, config, all)", *genFlag)
	}

	// Find project root (where go.mod is)
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("failed to find project root: %v", err)
	}

	log.Printf("Project root: %s", projectRoot)

	if err := generate(*genFlag, *outDirFlag, projectRoot); err != nil {
		log.Fatal(err)
	}

	log.Println("Done!")
}

// generate writes the requested documents. outDir overrides the default
// location for a single generator.
func generate(gen, outDir, projectRoot string) error {
	if gen == "cli" || gen == "all" {
		dir := filepath.Join(projectRoot, "docs", "cli")
		if gen == "cli" && outDir != "" {
			dir = outDir
		}
		if err := generateCLIDocs(dir); err != nil {
			return err
		}
	}
	if gen == "config" || gen == "all" {
		dir := filepath.Join(projectRoot, "docs")
		if gen == "config" && outDir != "" {
			dir = outDir
		}
		if err := generateConfigDocs(dir); err != nil {
			return err
		}
	}
	return nil
}

// findProjectRoot walks up from current directory to find go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
