package crawl

import (
	"fmt"
	"strings"
	"time"

	"go-jobpost-crawler/internal/models"
)

// State is where a run is in Start → Discovering → Extracting* → Persisting → Done|Failed.
type State int

const (
	StateStart State = iota
	StateDiscovering
	StateExtracting
	StatePersisting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDiscovering:
		return "discovering"
	case StateExtracting:
		return "extracting"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SkipReason classifies why an item did not make it into the batch.
type SkipReason string

const (
	SkipNavigation SkipReason = "navigation"
	SkipExtraction SkipReason = "extraction"
	SkipValidation SkipReason = "validation"
)

type Skip struct {
	URL    string
	Title  string
	Reason SkipReason
	Err    error
}

// Result is what a run reports to the invoking process.
type Result struct {
	State      State
	Discovered int
	Attempted  int
	Skipped    []Skip
	// Records is the batch handed to the persister.
	Records  []models.JobPosting
	Inserted int
	// Err is set when State is StateFailed; store errors are kept verbatim.
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r Result) Failed() bool { return r.State == StateFailed }

// Summary renders the console/telegram report.
func (r Result) Summary() string {
	var b strings.Builder
	if r.Failed() {
		fmt.Fprintf(&b, "❌ Crawl failed: %v\n", r.Err)
	} else {
		fmt.Fprintf(&b, "✅ Crawl done: %d job posts saved\n", r.Inserted)
	}
	fmt.Fprintf(&b, "📋 Discovered: %d\n", r.Discovered)
	fmt.Fprintf(&b, "📄 Attempted: %d\n", r.Attempted)
	fmt.Fprintf(&b, "📦 Batch: %d\n", len(r.Records))
	fmt.Fprintf(&b, "⏭️ Skipped: %d", len(r.Skipped))
	for _, s := range r.Skipped {
		fmt.Fprintf(&b, "\n  - [%s] %s: %v", s.Reason, s.URL, s.Err)
	}
	if !r.FinishedAt.IsZero() && !r.StartedAt.IsZero() {
		fmt.Fprintf(&b, "\n⏱️ Took %s", r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
	}
	return b.String()
}
