// Package gate implements the static-analysis quality gate: it counts the
// classified severities in a cppcheck XML report and compares the error and
// warning counts against configured thresholds.
package gate

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
)

// Severity classifies one reported finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityStyle
	SeverityPerformance
	SeverityPortability
	SeverityInformation
	SeverityUnknown
)

// severities in report order, for deterministic summaries.
var severities = []Severity{
	SeverityError, SeverityWarning, SeverityStyle,
	SeverityPerformance, SeverityPortability, SeverityInformation,
	SeverityUnknown,
}

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "Errors"
	case SeverityWarning:
		return "Warnings"
	case SeverityStyle:
		return "Style"
	case SeverityPerformance:
		return "Performance"
	case SeverityPortability:
		return "Portability"
	case SeverityInformation:
		return "Information"
	default:
		return "Unknown"
	}
}

// Classify maps a cppcheck severity attribute to a Severity.
func Classify(severity string) Severity {
	switch severity {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "style":
		return SeverityStyle
	case "performance":
		return SeverityPerformance
	case "portability":
		return SeverityPortability
	case "information":
		return SeverityInformation
	default:
		return SeverityUnknown
	}
}

// Counts is the tally of findings per severity.
type Counts map[Severity]int

type reportXML struct {
	XMLName xml.Name     `xml:"results"`
	Errors  []findingXML `xml:"errors>error"`
}

type findingXML struct {
	ID       string `xml:"id,attr"`
	Severity string `xml:"severity,attr"`
	Msg      string `xml:"msg,attr"`
}

// Count parses a cppcheck XML report and tallies findings per severity.
func Count(path string) (Counts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, doxyerrors.NewInputError("read analysis report", err)
	}

	var report reportXML
	if err := xml.Unmarshal(data, &report); err != nil {
		return nil, doxyerrors.NewParseError("malformed analysis report", err)
	}

	counts := make(Counts, len(severities))
	for _, s := range severities {
		counts[s] = 0
	}
	for _, finding := range report.Errors {
		counts[Classify(finding.Severity)]++
	}
	return counts, nil
}

// Result is the gate verdict for one report.
type Result struct {
	Counts           Counts
	ErrorThreshold   int
	WarningThreshold int
}

// Pass reports whether both thresholds hold.
func (r Result) Pass() bool {
	return r.Counts[SeverityError] <= r.ErrorThreshold &&
		r.Counts[SeverityWarning] <= r.WarningThreshold
}

// Err returns a structured gate error when the thresholds are exceeded, nil
// otherwise.
func (r Result) Err() error {
	if r.Pass() {
		return nil
	}
	return doxyerrors.GateFailed(r.Counts[SeverityError], r.Counts[SeverityWarning])
}

// Summary renders the per-severity tally and verdict for the CLI.
func (r Result) Summary() string {
	var b strings.Builder
	if r.Counts[SeverityError] > r.ErrorThreshold {
		fmt.Fprintf(&b, "Too many errors: %d (threshold %d)\n", r.Counts[SeverityError], r.ErrorThreshold)
	}
	if r.Counts[SeverityWarning] > r.WarningThreshold {
		fmt.Fprintf(&b, "Too many warnings: %d (threshold %d)\n", r.Counts[SeverityWarning], r.WarningThreshold)
	}
	b.WriteString("--------------------\n")
	for _, s := range severities {
		fmt.Fprintf(&b, "%s: %d\n", s, r.Counts[s])
	}
	return b.String()
}

// Evaluate compares counts against the thresholds.
func Evaluate(counts Counts, errorThreshold, warningThreshold int) Result {
	return Result{
		Counts:           counts,
		ErrorThreshold:   errorThreshold,
		WarningThreshold: warningThreshold,
	}
}
