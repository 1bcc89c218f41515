package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/checkmate/helper"
)

// intParam reads an int from an index parameter map, falling back to a default
func intParam(params map[string]interface{}, key string, fallback int) int {
	if value, ok := params[key].(int); ok {
		return value
	}
	return fallback
}

// ChangeIndexType rebuilds the vector index over chunk embeddings.
// init_chunks creates a default HNSW index (idx_chunks_embedding); this
// replaces it with the given type and parameters.
// indexType: "hnsw" or "ivfflat"
//   - For HNSW: "m" (int, default 16), "ef_construction" (int, default 64)
//   - For IVFFlat: "lists" (int, default 100)
func (h *ChunksDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var createIndexSQL string
	switch indexType {
	case "hnsw":
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_chunks_embedding ON chunks USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			intParam(params, "m", 16),
			intParam(params, "ef_construction", 64),
		)
	case "ivfflat":
		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			intParam(params, "lists", 100),
		)
	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw' or 'ivfflat')", indexType))
	}

	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_chunks_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Rebuilt vector index as %s with params: %v", indexType, params))

	return nil
}
