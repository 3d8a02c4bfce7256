package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/bubbleset/pkg/pipeline"
)

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each artifact and returns the paths in format order.
// With a single format, output names the file. Otherwise output (or the input
// path without its extensions) is a base path and every format gets its
// extension; JSON layouts use ".layout.json".
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	base := p.output
	if base == "" || len(p.formats) > 1 {
		if base == "" {
			base = p.input
		}
		base = trimExt(base)
	}

	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := base + extension(format)
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// trimExt strips the file extension, including a ".layout" infix.
func trimExt(path string) string {
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return strings.TrimSuffix(path, ".layout")
}

func extension(format string) string {
	if format == pipeline.FormatJSON {
		return ".layout.json"
	}
	return "." + format
}

func pathFor(paths []string, format string) (string, bool) {
	for _, p := range paths {
		if strings.HasSuffix(p, extension(format)) {
			return p, true
		}
	}
	return "", false
}
