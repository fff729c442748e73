package embedding

import (
	"strings"

	"github.com/repodocs/repodocs/internal/logging"
)

// ContentType represents the kind of text being embedded, used to pick the
// GenAI task type that best matches how the embedding will be used.
type ContentType string

const (
	ContentTypeCode           ContentType = "code"          // Source file content
	ContentTypeDocumentation  ContentType = "documentation"  // Generated or existing docs
	ContentTypeNarrative      ContentType = "narrative"       // Freeform prose (history summaries, commit messages)
	ContentTypeChunk          ContentType = "chunk"           // A RAG chunk of unspecified origin
	ContentTypeQuery          ContentType = "query"           // A retrieval query
	ContentTypeFact           ContentType = "fact"            // A structured fact or finding
	ContentTypeQuestion       ContentType = "question"        // An interrogative query
	ContentTypeAnswer         ContentType = "answer"          // A generated answer
	ContentTypeClassification ContentType = "classification"  // For categorization
	ContentTypeClustering     ContentType = "clustering"      // For grouping similar items
)

// SelectTaskType maps a content type (and whether this call is indexing or
// querying) to the GenAI task type that yields the best-aligned embedding.
func SelectTaskType(contentType ContentType, isQuery bool) string {
	logging.EmbeddingDebug("SelectTaskType: content_type=%s, is_query=%v", contentType, isQuery)

	var taskType string

	switch contentType {
	case ContentTypeCode:
		if isQuery {
			taskType = "CODE_RETRIEVAL_QUERY"
		} else {
			taskType = "RETRIEVAL_DOCUMENT"
		}

	case ContentTypeQuery:
		taskType = "RETRIEVAL_QUERY"

	case ContentTypeQuestion:
		taskType = "QUESTION_ANSWERING"

	case ContentTypeAnswer, ContentTypeDocumentation:
		taskType = "RETRIEVAL_DOCUMENT"

	case ContentTypeFact:
		taskType = "FACT_VERIFICATION"

	case ContentTypeClassification:
		taskType = "CLASSIFICATION"

	case ContentTypeClustering:
		taskType = "CLUSTERING"

	case ContentTypeNarrative, ContentTypeChunk:
		taskType = "SEMANTIC_SIMILARITY"

	default:
		taskType = "SEMANTIC_SIMILARITY"
		logging.EmbeddingDebug("SelectTaskType: unknown content_type=%s, defaulting to SEMANTIC_SIMILARITY", contentType)
	}

	logging.EmbeddingDebug("SelectTaskType: selected task_type=%s", taskType)
	return taskType
}

// DetectContentType infers a ContentType from explicit metadata first, then
// from textual heuristics over the content itself.
func DetectContentType(text string, metadata map[string]interface{}) ContentType {
	logging.EmbeddingDebug("DetectContentType: analyzing text (length=%d chars), metadata_keys=%d", len(text), len(metadata))

	originalText := text
	text = strings.ToLower(text)

	if meta, ok := metadata["content_type"].(string); ok {
		logging.EmbeddingDebug("DetectContentType: found explicit content_type in metadata: %s", meta)
		return ContentType(meta)
	}

	if metaType, ok := metadata["type"].(string); ok {
		logging.EmbeddingDebug("DetectContentType: found type field in metadata: %s", metaType)
		switch metaType {
		case "user_input", "query":
			return ContentTypeQuery
		case "code", "source_code":
			return ContentTypeCode
		case "documentation", "docs":
			return ContentTypeDocumentation
		case "chunk", "fact":
			return ContentTypeChunk
		}
	}

	logging.EmbeddingDebug("DetectContentType: no metadata match, analyzing content heuristics")

	codeIndicators := []string{
		"func ", "function ", "class ", "def ", "import ", "package ",
		"const ", "var ", "let ", "interface ", "struct ", "type ",
		"{", "}", "=>", "->", "//", "/*", "*/", "public ", "private ",
	}
	codeScore := 0
	for _, indicator := range codeIndicators {
		if strings.Contains(text, indicator) {
			codeScore++
		}
	}
	if codeScore >= 3 {
		logging.EmbeddingDebug("DetectContentType: detected as code based on indicators")
		return ContentTypeCode
	}

	if strings.HasPrefix(text, "what ") || strings.HasPrefix(text, "how ") ||
		strings.HasPrefix(text, "why ") || strings.HasPrefix(text, "when ") ||
		strings.HasPrefix(text, "where ") || strings.HasSuffix(text, "?") {
		logging.EmbeddingDebug("DetectContentType: detected as question based on prefix/suffix")
		return ContentTypeQuestion
	}

	if len(originalText) < 100 && (strings.Contains(text, "please") || strings.Contains(text, "can you") || strings.Contains(text, "i want")) {
		logging.EmbeddingDebug("DetectContentType: detected as narrative (short + informal markers)")
		return ContentTypeNarrative
	}

	docIndicators := []string{"# ", "## ", "### ", "/**", "* @param", "* @return", "readme", "documentation"}
	for _, indicator := range docIndicators {
		if strings.Contains(text, indicator) {
			logging.EmbeddingDebug("DetectContentType: detected as documentation based on indicator: %s", indicator)
			return ContentTypeDocumentation
		}
	}

	logging.EmbeddingDebug("DetectContentType: no specific pattern matched, defaulting to narrative")
	return ContentTypeNarrative
}

// GetOptimalTaskType combines detection and selection for convenience.
func GetOptimalTaskType(text string, metadata map[string]interface{}, isQuery bool) string {
	contentType := DetectContentType(text, metadata)
	taskType := SelectTaskType(contentType, isQuery)
	logging.Embedding("GetOptimalTaskType: detected content_type=%s -> task_type=%s", contentType, taskType)
	return taskType
}
