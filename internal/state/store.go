package state

import (
	"sync"

	"github.com/repodocs/repodocs/internal/logging"
)

// Key names a top-level table in the blackboard.
type Key string

const (
	KeyRepoSource      Key = "repo_source"
	KeyTargetLanguage  Key = "target_language"
	KeyOutputDir       Key = "output_dir"
	KeyLocalRepoPath   Key = "local_repo_path"
	KeyCodeStructure   Key = "code_structure"
	KeyCommitHistory   Key = "commit_history"
	KeyDependencies    Key = "dependencies"
	KeyCoreModules     Key = "ai_analysis.core_modules"
	KeyArchSummary     Key = "ai_analysis.architecture_summary"
	KeyHistorySummary  Key = "history_summary"
	KeyRAGChunks       Key = "rag.chunks"
	KeyProcessErrors   Key = "process_status.errors"
	KeyFinalDocuments  Key = "final_documents"
	KeyMermaidReport   Key = "mermaid_report"
	KeyRepoStats       Key = "repo_stats"
)

// RepoStats is the { total_size, file_count, language_breakdown } produced
// by PrepareRepo.
type RepoStats struct {
	TotalSizeBytes     int64          `json:"total_size"`
	FileCount          int            `json:"file_count"`
	LanguageBreakdown  map[string]int `json:"language_breakdown"`
}

// Store is the blackboard: a single mutable mapping passed by reference
// through every node. Writes are not confined to post: several stages call
// the Set* methods from execute, so branches of a Fork can write at the
// same time. The store guards every field with a lock, which serializes
// those writes.
type Store struct {
	mu sync.RWMutex

	repoSource     string
	targetLanguage string
	outputDir      string
	localRepoPath  string

	repoStats RepoStats

	codeStructure []FileEntry
	dependencies  []DependencyEdge

	commitHistory  []CommitRecord
	historySummary string

	coreModules         []ModuleDescriptor
	architectureSummary string

	ragChunks []Chunk

	generatedContent map[string]string // section -> markdown
	moduleDetails    map[string]string // module name -> markdown

	qualityScores map[string]QualityScore // section -> score

	mermaidReport []ValidationFinding

	processErrors []ErrorRecord

	finalDocuments map[string]string // output path -> markdown
}

// New creates an empty blackboard seeded with the run's inputs.
func New(repoSource, targetLanguage, outputDir string) *Store {
	return &Store{
		repoSource:       repoSource,
		targetLanguage:   targetLanguage,
		outputDir:        outputDir,
		generatedContent: make(map[string]string),
		moduleDetails:    make(map[string]string),
		qualityScores:    make(map[string]QualityScore),
	}
}

// --- Inputs (read-only after construction) ---

func (s *Store) RepoSource() string     { return s.repoSource }
func (s *Store) TargetLanguage() string { return s.targetLanguage }
func (s *Store) OutputDir() string      { return s.outputDir }

// --- local_repo_path ---

func (s *Store) LocalRepoPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.localRepoPath
}

func (s *Store) SetLocalRepoPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.localRepoPath = path
	logging.StateDebug("set local_repo_path=%s", path)
}

// --- repo_stats ---

func (s *Store) RepoStats() RepoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repoStats
}

func (s *Store) SetRepoStats(stats RepoStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repoStats = stats
	logging.StateDebug("set repo_stats files=%d size=%d", stats.FileCount, stats.TotalSizeBytes)
}

// --- code_structure ---

// CodeStructure returns a shallow copy of the file tree, safe for a
// parallel worker to range over without racing a concurrent Set.
func (s *Store) CodeStructure() []FileEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FileEntry, len(s.codeStructure))
	copy(out, s.codeStructure)
	return out
}

func (s *Store) SetCodeStructure(entries []FileEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codeStructure = entries
	logging.StateDebug("set code_structure entries=%d", len(entries))
}

// --- dependencies ---

func (s *Store) Dependencies() []DependencyEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]DependencyEdge, len(s.dependencies))
	copy(out, s.dependencies)
	return out
}

func (s *Store) SetDependencies(edges []DependencyEdge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dependencies = edges
	logging.StateDebug("set dependencies edges=%d", len(edges))
}

// --- commit_history / history_summary ---

func (s *Store) CommitHistory() []CommitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CommitRecord, len(s.commitHistory))
	copy(out, s.commitHistory)
	return out
}

func (s *Store) SetCommitHistory(records []CommitRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitHistory = records
	logging.StateDebug("set commit_history records=%d", len(records))
}

func (s *Store) HistorySummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historySummary
}

func (s *Store) SetHistorySummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historySummary = summary
}

// --- ai_analysis.core_modules / ai_analysis.architecture_summary ---

func (s *Store) CoreModules() []ModuleDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ModuleDescriptor, len(s.coreModules))
	copy(out, s.coreModules)
	return out
}

func (s *Store) SetCoreModules(modules []ModuleDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coreModules = modules
	logging.StateDebug("set core_modules count=%d", len(modules))
}

func (s *Store) ArchitectureSummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.architectureSummary
}

func (s *Store) SetArchitectureSummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.architectureSummary = summary
}

// --- rag.chunks ---

func (s *Store) RAGChunks() []Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Chunk, len(s.ragChunks))
	copy(out, s.ragChunks)
	return out
}

func (s *Store) SetRAGChunks(chunks []Chunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ragChunks = chunks
	logging.StateDebug("set rag.chunks count=%d", len(chunks))
}

// --- generated_content.<section> ---

func (s *Store) GeneratedContent(section string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.generatedContent[section]
	return v, ok
}

func (s *Store) SetGeneratedContent(section, markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedContent[section] = markdown
	logging.StateDebug("set generated_content.%s (%d bytes)", section, len(markdown))
}

// AllGeneratedContent returns a shallow copy of every produced section.
func (s *Store) AllGeneratedContent() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.generatedContent))
	for k, v := range s.generatedContent {
		out[k] = v
	}
	return out
}

// --- generated_content.module_details[name] ---

func (s *Store) ModuleDetail(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.moduleDetails[name]
	return v, ok
}

func (s *Store) SetModuleDetail(name, markdown string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moduleDetails[name] = markdown
}

func (s *Store) AllModuleDetails() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.moduleDetails))
	for k, v := range s.moduleDetails {
		out[k] = v
	}
	return out
}

// --- quality_scores.<section> ---

func (s *Store) QualityScoreFor(section string) (QualityScore, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.qualityScores[section]
	return v, ok
}

func (s *Store) SetQualityScore(section string, score QualityScore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qualityScores[section] = score
	logging.StateDebug("set quality_scores.%s overall=%.2f attempt=%d", section, score.Overall, score.Attempt)
}

func (s *Store) AllQualityScores() map[string]QualityScore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]QualityScore, len(s.qualityScores))
	for k, v := range s.qualityScores {
		out[k] = v
	}
	return out
}

// --- mermaid_report ---

func (s *Store) MermaidReport() []ValidationFinding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ValidationFinding, len(s.mermaidReport))
	copy(out, s.mermaidReport)
	return out
}

func (s *Store) AppendMermaidFinding(f ValidationFinding) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mermaidReport = append(s.mermaidReport, f)
}

// --- process_status.errors ---

func (s *Store) Errors() []ErrorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ErrorRecord, len(s.processErrors))
	copy(out, s.processErrors)
	return out
}

// AppendError records a node failure. The graph runner and node code call
// it from post and from execute alike; the store's lock serializes
// concurrent appends.
func (s *Store) AppendError(rec ErrorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processErrors = append(s.processErrors, rec)
	switch rec.Kind {
	case ErrorKindFatal:
		logging.Get(logging.CategoryState).Error("%s: %s", rec.Stage, rec.Message)
	case ErrorKindRecoverable:
		logging.Get(logging.CategoryState).Warn("%s: %s (retry=%d recovered=%v)", rec.Stage, rec.Message, rec.RetryCount, rec.Recovered)
	default:
		logging.StateDebug("%s: %s", rec.Stage, rec.Message)
	}
}

// HasFatalError reports whether any recorded error is fatal.
func (s *Store) HasFatalError() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.processErrors {
		if e.Kind == ErrorKindFatal {
			return true
		}
	}
	return false
}

// --- final_documents ---

func (s *Store) FinalDocuments() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.finalDocuments))
	for k, v := range s.finalDocuments {
		out[k] = v
	}
	return out
}

func (s *Store) SetFinalDocuments(docs map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalDocuments = docs
	logging.StateDebug("set final_documents count=%d", len(docs))
}
