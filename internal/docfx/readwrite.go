package docfx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal serializes v as a YAML document with 2-space indentation, prefixed
// by the given MIME header line (may be empty, e.g. for xrefmap.yml).
func Marshal(mime string, v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(mime)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("encode record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile serializes v with the given MIME header and writes it to path,
// creating parent directories as needed.
func WriteFile(path, mime string, v any) error {
	data, err := Marshal(mime, v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// ReadFile loads a record from path into v, skipping a leading YamlMime
// header line if present.
func ReadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read record: %w", err)
	}
	if err := yaml.Unmarshal(stripMimeHeader(data), v); err != nil {
		return fmt.Errorf("parse record %s: %w", path, err)
	}
	return nil
}

func stripMimeHeader(data []byte) []byte {
	if !bytes.HasPrefix(data, []byte("### ")) {
		return data
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[i+1:]
	}
	return nil
}

// IsTOC reports whether path is a table-of-contents file, which carries no
// reference items and is skipped by the linker.
func IsTOC(path string) bool {
	return strings.EqualFold(filepath.Base(path), "toc.yml")
}
