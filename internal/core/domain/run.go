package domain

import "time"

// RunState is the orchestrator's processing-run state.
type RunState string

const (
	// RunStateGrouping partitions assets into campaigns.
	RunStateGrouping RunState = "grouping"

	// RunStateAnalyzing runs per-document analysis.
	RunStateAnalyzing RunState = "analyzing"

	// RunStatePersisting writes per-document transactions.
	RunStatePersisting RunState = "persisting"

	// RunStateCompleted is the terminal state with zero document failures.
	RunStateCompleted RunState = "completed"

	// RunStatePartiallyFailed is the terminal state when at least one
	// document failed. Remaining documents were still processed.
	RunStatePartiallyFailed RunState = "partially_failed"
)

// DocumentError records a single document's processing failure.
type DocumentError struct {
	// DocumentID identifies the failed document.
	DocumentID string

	// Path is the document's source path, for operator readability.
	Path string

	// Message is the failure description.
	Message string
}

// ProcessSummary is the structured result of a processing run. A run always
// returns a summary; partial failure is reported here, never as an error.
type ProcessSummary struct {
	// RunID uniquely identifies this run.
	RunID string

	// State is the terminal run state.
	State RunState

	// ProcessedCount is the number of documents persisted successfully.
	ProcessedCount int

	// ErrorCount is the number of documents that failed.
	ErrorCount int

	// Errors lists each document failure.
	Errors []DocumentError

	// CampaignCount is the number of distinct campaigns seen.
	CampaignCount int

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}
