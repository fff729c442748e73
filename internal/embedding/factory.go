package embedding

import (
	"github.com/repodocs/repodocs/internal/config"
)

// NewEngineFromConfig builds an EmbeddingEngine from the layered
// configuration, returning (nil, nil) when embedding is disabled so callers
// can treat a nil engine as "skip this step" rather than an error.
func NewEngineFromConfig(cfg config.EmbeddingConfig) (EmbeddingEngine, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return NewEngine(Config{
		Provider:       cfg.Provider,
		OllamaEndpoint: cfg.OllamaEndpoint,
		OllamaModel:    cfg.OllamaModel,
		GenAIAPIKey:    cfg.GenAIAPIKey,
		GenAIModel:     cfg.GenAIModel,
		TaskType:       cfg.TaskType,
	})
}
