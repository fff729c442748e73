// Package state implements the blackboard: the shared,
// namespaced mapping nodes read from and write to as they pass through
// the graph. It also defines the entity types that flow through it.
package state

import "time"

// FileEntry describes one source file discovered during ParseCodeBatch.
// Created during parse; treated as immutable afterwards.
type FileEntry struct {
	Path              string   `json:"path"`
	Language          string   `json:"language"`
	SizeBytes         int64    `json:"size_bytes"`
	IsBinary          bool     `json:"is_binary"`
	ASTSummary        string   `json:"ast_summary,omitempty"`
	Imports           []string `json:"imports"`
	ExportedSymbols   []string `json:"exported_symbols"`
}

// CommitRecord describes one commit discovered during AnalyzeHistory.
// Ordered newest-first.
type CommitRecord struct {
	SHA          string    `json:"sha"`
	Author       string    `json:"author"`
	Timestamp    time.Time `json:"timestamp"`
	Subject      string    `json:"subject"`
	ChangedFiles []string  `json:"changed_files"`
	Insertions   int       `json:"insertions"`
	Deletions    int       `json:"deletions"`
}

// ModuleDescriptor is an LLM-produced description of a core module.
type ModuleDescriptor struct {
	Name       string   `json:"name"`
	Path       string   `json:"path"`
	Description string  `json:"description"`
	Importance int      `json:"importance"` // [1..10]
	DependsOn  []string `json:"depends_on"`
}

// Chunk is a bounded text fragment prepared for retrieval.
type Chunk struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	ByteStart  int       `json:"byte_start"`
	ByteEnd    int       `json:"byte_end"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// ErrorKind classifies an ErrorRecord for the error propagation policy.
type ErrorKind string

const (
	ErrorKindFatal       ErrorKind = "fatal"
	ErrorKindRecoverable ErrorKind = "recoverable"
	ErrorKindWarning     ErrorKind = "warning"
)

// ErrorRecord captures a single node-level failure.
type ErrorRecord struct {
	Stage      string    `json:"stage"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	Timestamp  time.Time `json:"timestamp"`
	RetryCount int       `json:"retry_count"`
	Recovered  bool      `json:"recovered"`
}

// ValidationFindingSeverity classifies a Mermaid ValidationFinding.
type ValidationFindingSeverity string

const (
	SeverityWarning ValidationFindingSeverity = "warning"
	SeverityError   ValidationFindingSeverity = "error"
)

// ValidationFinding records one Mermaid block that could not be validated
// or repaired within the regeneration budget.
type ValidationFinding struct {
	DocumentPath string                    `json:"document_path"`
	ChartIndex   int                       `json:"chart_index"`
	ChartText    string                    `json:"chart_text"`
	ErrorMessage string                    `json:"error_message"`
	Severity     ValidationFindingSeverity `json:"severity"`
}

// DependencyEdge is one module -> module edge in the dependency graph.
// Unknown targets are coerced to the synthetic ExternalModule node.
type DependencyEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ExternalModule is the synthetic node dependency edges point to when their
// target is not a known module.
const ExternalModule = "external"

// QualityScore is a single section's composite quality. Overall is on the
// scale of the stage that wrote it: 1-10 for generated sections and module
// details, [0,1] for core_modules.
type QualityScore struct {
	Overall      float64            `json:"overall"`
	Dimensions   map[string]float64 `json:"dimensions,omitempty"`
	Attempt      int                `json:"attempt"`
}
