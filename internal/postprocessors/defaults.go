package postprocessors

import (
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/ports/driven"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/postprocessors/identifier"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/postprocessors/splitter"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("splitter", buildSplitter)
	r.Register("identifier", buildIdentifier)
}

// buildSplitter creates a splitter processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 800)
//   - overlap (int): Overlapping characters between chunks (default: 80)
func buildSplitter(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []splitter.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, splitter.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, splitter.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return splitter.New(opts...), nil
}

func buildIdentifier(_ map[string]any) (driven.PostProcessor, error) {
	return identifier.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
