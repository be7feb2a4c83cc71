// Package pipeline orchestrates the conversion run: input discovery, the
// per-file transducer stage (parallel, order-insensitive), and the
// cross-reference linker stage behind a completion barrier.
package pipeline

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/doxyfx/internal/config"
	"git.home.luguber.info/inful/doxyfx/internal/docfx"
)

// State is the shared mutable state of one run, passed through the stages.
// It is scoped to a single Run call and discarded afterwards.
type State struct {
	Config *config.Config
	RunID  string

	// Inputs are the discovered extractor XML files (absolute paths).
	Inputs []string

	// Records are the written record paths, slash form, relative to the
	// output directory. Guarded by mu during the parallel convert stage.
	Records []string
	mu      sync.Mutex

	// XrefMap is the consolidated reference map, set by the link stage.
	XrefMap *docfx.XrefMap

	Report *Report
}

// AddRecords appends record paths; safe for concurrent use.
func (s *State) AddRecords(paths ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Records = append(s.Records, paths...)
}

// Report accumulates run statistics for logging and the CLI summary.
type Report struct {
	Inputs         int
	Records        int
	References     int
	StageDurations map[string]time.Duration
}

func NewReport() *Report {
	return &Report{StageDurations: make(map[string]time.Duration)}
}
