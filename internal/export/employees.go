package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml" (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("export: unsupported format %q (want json or yaml)", s)
	}
}

// Encode writes v to w pretty-printed with a two-space indent.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("export: encode json: %w", err)
		}
		return nil
	case FormatYAML:
		node, err := yamlNode(v)
		if err != nil {
			return fmt.Errorf("export: encode yaml: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("export: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("export: encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("export: unsupported format %q", f)
	}
}

// yamlNode builds the YAML tree from the JSON form of v. json.Number values
// then come out as plain integers or floats instead of quoted strings.
func yamlNode(v any) (*yaml.Node, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	clearStyle(&doc)
	return &doc, nil
}

// clearStyle drops the flow and quoting styles inherited from JSON so the
// encoder picks block style.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

// WriteFile encodes v into path on fs, creating parent directories.
// Paths ending in ".br" are brotli-compressed.
func WriteFile(fs afero.Fs, path string, f Format, v any) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("export: create output dir: %w", err)
		}
	}

	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: close %s: %w", path, cerr)
		}
	}()

	if !IsCompressed(path) {
		return Encode(file, f, v)
	}

	bw := brotli.NewWriterLevel(file, brotli.DefaultCompression)
	if err := Encode(bw, f, v); err != nil {
		return err
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("export: compress %s: %w", path, err)
	}
	return nil
}

// IsCompressed reports whether WriteFile brotli-compresses path.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".br")
}
