package mdcheck

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/doxyfx/internal/docfx"
	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
)

// Severity indicates the importance level of a lint issue.
type Severity int

const (
	// SeverityWarning indicates issues that should be fixed but are not
	// rendered broken.
	SeverityWarning Severity = iota
	// SeverityError indicates links that will be dead on the generated site.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single problem found in a record.
type Issue struct {
	Record   string   // Record path, relative to the output root
	UID      string   // Item the summary belongs to
	Severity Severity // Issue severity level
	Message  string
}

// Result contains all issues found during linting.
type Result struct {
	Issues       []Issue
	RecordsTotal int
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	count := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			count++
		}
	}
	return count
}

// Checker validates records against the consolidated reference map.
type Checker struct {
	root  string
	known map[string]struct{}
}

// NewChecker loads xrefmap.yml from root and prepares a checker for the
// records below it.
func NewChecker(root string) (*Checker, error) {
	var m docfx.XrefMap
	if err := docfx.ReadFile(filepath.Join(root, "xrefmap.yml"), &m); err != nil {
		return nil, doxyerrors.NewInputError("load xrefmap.yml (run build first)", err)
	}
	known := make(map[string]struct{}, len(m.References))
	for _, ref := range m.References {
		known[ref.UID] = struct{}{}
	}
	return &Checker{root: root, known: known}, nil
}

// CheckRecord lints one record's summaries and descriptions.
func (c *Checker) CheckRecord(recordPath string) ([]Issue, error) {
	var doc docfx.LinkedDocument
	if err := docfx.ReadFile(filepath.Join(c.root, filepath.FromSlash(recordPath)), &doc); err != nil {
		return nil, err
	}

	var issues []Issue
	for _, item := range doc.Items {
		for _, uid := range ExtractXrefs([]byte(item.Summary)) {
			if _, ok := c.known[uid]; ok {
				continue
			}
			issues = append(issues, Issue{
				Record:   recordPath,
				UID:      item.UID,
				Severity: SeverityError,
				Message:  fmt.Sprintf("summary links to unknown uid %q", uid),
			})
		}
	}
	return issues, nil
}

// CheckAll lints every given record (paths relative to the checker root).
func (c *Checker) CheckAll(recordPaths []string) (*Result, error) {
	result := &Result{}
	for _, p := range recordPaths {
		if docfx.IsTOC(p) {
			continue
		}
		issues, err := c.CheckRecord(p)
		if err != nil {
			return nil, err
		}
		result.Issues = append(result.Issues, issues...)
		result.RecordsTotal++
	}
	return result, nil
}
