package doxygen

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/doxyfx/internal/docfx"
	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
	"git.home.luguber.info/inful/doxyfx/internal/util/sets"
)

// extractorPrefix is the directory prefix under which the extractor writes
// its XML tree.
const extractorPrefix = "doxygen/xml/"

var recordPathRe = regexp.MustCompile(`doxygen/xml/(struct|class|namespace)(.*)\.xml`)

// Converter runs Stage A for individual input files. Instances are safe for
// concurrent use across files: each conversion owns its item graph.
type Converter struct {
	// InputRoot is the directory the extractor paths are relative to.
	InputRoot string
	// OutputRoot is the directory the translated record paths are joined to.
	OutputRoot string
	// APIRoot is the fixed leading segment of every record path.
	APIRoot string
	// ProjectPrefix is stripped from the leading path segment when present.
	ProjectPrefix string
	// NamespaceMatcher marks namespace files whose function members are
	// split into standalone records.
	NamespaceMatcher string
	// Suppressed lists translated record paths that are never written.
	Suppressed sets.Set[string]
}

// ConvertFile parses one extractor XML file and writes its output records.
// It returns the slash-separated record paths relative to OutputRoot; a nil
// slice means the file legitimately produced no output (plain namespaces,
// suppressed artifacts).
func (c *Converter) ConvertFile(ctx context.Context, inputPath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return nil, doxyerrors.NewInputError("open extractor file", err)
	}
	defer f.Close()

	g := NewItemGraph()
	if err := Parse(f, g); err != nil {
		return nil, err
	}

	rel := c.relInput(inputPath)
	switch {
	case c.NamespaceMatcher != "" && strings.Contains(rel, c.NamespaceMatcher):
		return c.writeNamespaceFunctions(rel, g)
	case strings.Contains(rel, "/namespace"):
		// Plain namespace compounds produce no direct record.
		return nil, nil
	default:
		out := c.TranslatePath(rel)
		if c.Suppressed.Has(out) {
			slog.Debug("Suppressed known generator artifact", "path", out)
			return nil, nil
		}
		slog.Debug("Converting", "input", rel, "output", out)
		doc := &docfx.Document{Items: g.Items()}
		if err := c.writeRecord(out, doc); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}
}

// writeNamespaceFunctions splits each function member of a matcher-style
// namespace into its own record under <api>/<namespace>/<function>.yml.
func (c *Converter) writeNamespaceFunctions(rel string, g *ItemGraph) ([]string, error) {
	var namespaceName string
	var outputs []string
	for _, item := range g.Items() {
		switch item.Type {
		case "namespace":
			namespaceName = strings.TrimPrefix(item.UID, "namespace")
		case "method":
			if item.Name == "&" {
				continue
			}
			out := path.Join(c.APIRoot, namespaceName, camelToDashed(item.Name)+".yml")
			slog.Debug("Converting", "input", rel, "output", out)
			doc := &docfx.Document{Items: []*docfx.Item{item}}
			if err := c.writeRecord(out, doc); err != nil {
				return nil, err
			}
			outputs = append(outputs, out)
		}
	}
	return outputs, nil
}

func (c *Converter) writeRecord(rel string, doc *docfx.Document) error {
	target := filepath.Join(c.OutputRoot, filepath.FromSlash(rel))
	if err := docfx.WriteFile(target, docfx.MimeUniversalReference, doc); err != nil {
		return doxyerrors.NewWriteError("write record "+rel, err)
	}
	return nil
}

// relInput normalizes an input path to a slash form relative to InputRoot.
func (c *Converter) relInput(inputPath string) string {
	if c.InputRoot != "" {
		if rel, err := filepath.Rel(c.InputRoot, inputPath); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(inputPath)
}

// TranslatePath maps an extractor XML path to the record path it produces:
// the extractor directory and structural-kind prefixes are stripped, the
// "1_1" disambiguation infix is dropped, the project prefix is removed,
// CamelCase becomes dashed-lowercase, underscores become path separators,
// and the API root segment is prepended. The translation is a pure function
// of the input path.
func (c *Converter) TranslatePath(inputPath string) string {
	p := filepath.ToSlash(inputPath)
	if m := recordPathRe.FindStringSubmatchIndex(p); m != nil {
		p = p[:m[0]] + p[m[4]:m[5]] + ".yml"
	}
	p = strings.ReplaceAll(p, "1_1", "")
	if c.ProjectPrefix != "" && strings.HasPrefix(p, c.ProjectPrefix+"_") {
		p = strings.ReplaceAll(p, c.ProjectPrefix+"_", "")
	}
	p = camelToDashed(p)
	p = strings.ReplaceAll(p, "_", "/")
	return c.APIRoot + "/" + p
}
