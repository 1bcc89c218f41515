package database

import (
	"testing"
	"time"

	"github.com/siherrmann/checkmate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// axisEmbedding returns a 384-dimension embedding pointing along one axis.
func axisEmbedding(axis int) []float32 {
	embedding := make([]float32, 384)
	embedding[axis] = 1.0
	return embedding
}

func axisEmbeddings(axes ...int) [][]float32 {
	embeddings := make([][]float32, 0, len(axes))
	for _, axis := range axes {
		embeddings = append(embeddings, axisEmbedding(axis))
	}
	return embeddings
}

func TestChunksNewChunksDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewChunksDBHandler", func(t *testing.T) {
		chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
		assert.NoError(t, err, "Expected NewChunksDBHandler to not return an error")
		require.NotNil(t, chunksDbHandler, "Expected NewChunksDBHandler to return a non-nil instance")
		require.NotNil(t, chunksDbHandler.db, "Expected NewChunksDBHandler to have a non-nil database instance")
		require.NotNil(t, chunksDbHandler.db.Instance, "Expected NewChunksDBHandler to have a non-nil database connection instance")
	})

	t.Run("Invalid call NewChunksDBHandler with nil database", func(t *testing.T) {
		_, err := NewChunksDBHandler(nil, 384, false)
		assert.Error(t, err, "Expected error when creating ChunksDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})
}

func TestChunksUpsertDocument(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	t.Run("Upsert document with extraction metadata", func(t *testing.T) {
		extraction := &model.Extraction{
			Text:      "First chunk\n\nSecond chunk\n\nThird chunk",
			PageCount: 3,
			FileSize:  2048,
			Title:     "Test Document",
		}

		inserted, err := chunksDbHandler.UpsertDocument(
			model.CollectionTarget,
			"upsert.pdf",
			[]string{"First chunk", "Second chunk", "Third chunk"},
			axisEmbeddings(0, 1, 2),
			extraction,
		)
		assert.NoError(t, err, "Expected UpsertDocument to not return an error")
		require.Len(t, inserted, 3, "Expected three inserted chunks")

		for i, chunk := range inserted {
			assert.NotEmpty(t, chunk.ID, "Expected inserted chunk to have an ID")
			assert.Equal(t, i, chunk.ChunkIndex, "Expected chunk index to match insert position")
			assert.Equal(t, 3, chunk.PageCount, "Expected page count from extraction")
			assert.Equal(t, int64(2048), chunk.FileSize, "Expected file size from extraction")
			assert.WithinDuration(t, chunk.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		}
	})

	t.Run("Upsert replaces existing chunks", func(t *testing.T) {
		inserted, err := chunksDbHandler.UpsertDocument(
			model.CollectionTarget,
			"upsert.pdf",
			[]string{"New first", "New second"},
			axisEmbeddings(3, 4),
			nil,
		)
		assert.NoError(t, err, "Expected repeated UpsertDocument to not return an error")
		require.Len(t, inserted, 2, "Expected two inserted chunks")

		stored, err := chunksDbHandler.SelectChunksByFilename(model.CollectionTarget, "upsert.pdf", -1)
		require.NoError(t, err)
		assert.Len(t, stored, 2, "Expected old chunks to be replaced, not appended")
		assert.Equal(t, "New first", stored[0].Content, "Expected replaced content")
	})

	t.Run("Upsert with mismatched embeddings", func(t *testing.T) {
		_, err := chunksDbHandler.UpsertDocument(
			model.CollectionTarget,
			"mismatch.pdf",
			[]string{"one", "two"},
			axisEmbeddings(0),
			nil,
		)
		assert.Error(t, err, "Expected error for mismatched chunk and embedding counts")
		assert.Contains(t, err.Error(), "does not match embedding count", "Expected specific error message for mismatch")
	})

	t.Run("Upsert with invalid collection", func(t *testing.T) {
		_, err := chunksDbHandler.UpsertDocument(
			model.CollectionType("invalid"),
			"invalid.pdf",
			[]string{"one"},
			axisEmbeddings(0),
			nil,
		)
		assert.Error(t, err, "Expected error for invalid collection")
	})

	// Cleanup
	chunksDbHandler.DeleteByFilename(model.CollectionTarget, "upsert.pdf")
}

func TestChunksSelectByFilename(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTemplate,
		"select.pdf",
		[]string{"Alpha", "Beta", "Gamma"},
		axisEmbeddings(0, 1, 2),
		nil,
	)
	require.NoError(t, err)

	t.Run("Select all chunks in order", func(t *testing.T) {
		chunks, err := chunksDbHandler.SelectChunksByFilename(model.CollectionTemplate, "select.pdf", -1)
		assert.NoError(t, err, "Expected SelectChunksByFilename to not return an error")
		require.Len(t, chunks, 3, "Expected three chunks")
		assert.Equal(t, "Alpha", chunks[0].Content)
		assert.Equal(t, "Beta", chunks[1].Content)
		assert.Equal(t, "Gamma", chunks[2].Content)
	})

	t.Run("Select with limit", func(t *testing.T) {
		chunks, err := chunksDbHandler.SelectChunksByFilename(model.CollectionTemplate, "select.pdf", 2)
		assert.NoError(t, err)
		assert.Len(t, chunks, 2, "Expected limit to cap the result count")
	})

	t.Run("Select unknown filename", func(t *testing.T) {
		chunks, err := chunksDbHandler.SelectChunksByFilename(model.CollectionTemplate, "unknown.pdf", -1)
		assert.NoError(t, err, "Expected no error for unknown filename")
		assert.Empty(t, chunks, "Expected no chunks for unknown filename")
	})

	t.Run("Collections are isolated", func(t *testing.T) {
		chunks, err := chunksDbHandler.SelectChunksByFilename(model.CollectionTarget, "select.pdf", -1)
		assert.NoError(t, err)
		assert.Empty(t, chunks, "Expected no chunks for the same filename in the other collection")
	})

	// Cleanup
	chunksDbHandler.DeleteByFilename(model.CollectionTemplate, "select.pdf")
}

func TestChunksSelectBySimilarity(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTarget,
		"similarity_a.pdf",
		[]string{"About payments", "About privacy"},
		axisEmbeddings(0, 1),
		nil,
	)
	require.NoError(t, err)

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTarget,
		"similarity_b.pdf",
		[]string{"About retention"},
		axisEmbeddings(2),
		nil,
	)
	require.NoError(t, err)

	t.Run("Orders results by ascending distance", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity(model.CollectionTarget, axisEmbedding(0), 3, "")
		assert.NoError(t, err, "Expected SelectChunksBySimilarity to not return an error")
		require.Len(t, results, 3, "Expected all chunks in the collection")
		assert.Equal(t, "About payments", results[0].Content, "Expected the closest chunk first")
		assert.InDelta(t, 0.0, results[0].Distance, 0.001, "Expected near-zero distance for an identical embedding")
		assert.LessOrEqual(t, results[0].Distance, results[1].Distance, "Expected ascending distance order")
		assert.LessOrEqual(t, results[1].Distance, results[2].Distance, "Expected ascending distance order")
	})

	t.Run("Respects the result limit", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity(model.CollectionTarget, axisEmbedding(0), 1, "")
		assert.NoError(t, err)
		assert.Len(t, results, 1, "Expected the limit to cap the result count")
	})

	t.Run("Filters by filename", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity(model.CollectionTarget, axisEmbedding(0), 10, "similarity_b.pdf")
		assert.NoError(t, err)
		require.Len(t, results, 1, "Expected only chunks of the filtered filename")
		assert.Equal(t, "About retention", results[0].Content)
	})

	t.Run("Empty result for empty collection", func(t *testing.T) {
		results, err := chunksDbHandler.SelectChunksBySimilarity(model.CollectionTemplate, axisEmbedding(0), 10, "")
		assert.NoError(t, err)
		assert.Empty(t, results, "Expected no results from an empty collection")
	})

	// Cleanup
	chunksDbHandler.DeleteByFilename(model.CollectionTarget, "similarity_a.pdf")
	chunksDbHandler.DeleteByFilename(model.CollectionTarget, "similarity_b.pdf")
}

func TestChunksReconstructDocument(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTarget,
		"reconstruct.pdf",
		[]string{"Part one.", "Part two.", "Part three."},
		axisEmbeddings(0, 1, 2),
		nil,
	)
	require.NoError(t, err)

	t.Run("Joins chunks in index order", func(t *testing.T) {
		text, err := chunksDbHandler.ReconstructDocument(model.CollectionTarget, "reconstruct.pdf")
		assert.NoError(t, err, "Expected ReconstructDocument to not return an error")
		assert.Equal(t, "Part one.\n\nPart two.\n\nPart three.", text, "Expected chunks joined in order with blank lines")
	})

	t.Run("Unknown filename returns ErrDocumentNotFound", func(t *testing.T) {
		_, err := chunksDbHandler.ReconstructDocument(model.CollectionTarget, "unknown.pdf")
		assert.Error(t, err, "Expected error for unknown filename")
		assert.ErrorIs(t, err, ErrDocumentNotFound, "Expected ErrDocumentNotFound in the error chain")
	})

	// Cleanup
	chunksDbHandler.DeleteByFilename(model.CollectionTarget, "reconstruct.pdf")
}

func TestChunksListFiles(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	extraction := &model.Extraction{PageCount: 5, FileSize: 1024}
	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTemplate,
		"list_a.pdf",
		[]string{"one", "two"},
		axisEmbeddings(0, 1),
		extraction,
	)
	require.NoError(t, err)

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTemplate,
		"list_b.pdf",
		[]string{"three"},
		axisEmbeddings(2),
		nil,
	)
	require.NoError(t, err)

	t.Run("Lists files with chunk counts", func(t *testing.T) {
		files, err := chunksDbHandler.ListFiles(model.CollectionTemplate)
		assert.NoError(t, err, "Expected ListFiles to not return an error")
		require.Len(t, files, 2, "Expected two files in the collection")
		assert.Equal(t, "list_a.pdf", files[0].Filename, "Expected files ordered by filename")
		assert.Equal(t, 2, files[0].ChunkCount)
		assert.Equal(t, 5, files[0].PageCount)
		assert.Equal(t, int64(1024), files[0].FileSize)
		assert.Equal(t, "list_b.pdf", files[1].Filename)
		assert.Equal(t, 1, files[1].ChunkCount)
	})

	t.Run("Empty collection lists no files", func(t *testing.T) {
		files, err := chunksDbHandler.ListFiles(model.CollectionTarget)
		assert.NoError(t, err)
		assert.Empty(t, files, "Expected no files in an empty collection")
	})

	// Cleanup
	chunksDbHandler.DeleteByFilename(model.CollectionTemplate, "list_a.pdf")
	chunksDbHandler.DeleteByFilename(model.CollectionTemplate, "list_b.pdf")
}

func TestChunksDeleteByFilename(t *testing.T) {
	database := initDB(t)

	chunksDbHandler, err := NewChunksDBHandler(database, 384, true)
	require.NoError(t, err, "Expected NewChunksDBHandler to not return an error")

	_, err = chunksDbHandler.UpsertDocument(
		model.CollectionTarget,
		"delete.pdf",
		[]string{"one", "two", "three"},
		axisEmbeddings(0, 1, 2),
		nil,
	)
	require.NoError(t, err)

	t.Run("Deletes all chunks and returns count", func(t *testing.T) {
		deleted, err := chunksDbHandler.DeleteByFilename(model.CollectionTarget, "delete.pdf")
		assert.NoError(t, err, "Expected DeleteByFilename to not return an error")
		assert.Equal(t, 3, deleted, "Expected all chunks of the file to be deleted")
	})

	t.Run("Deleting an unknown filename returns zero", func(t *testing.T) {
		deleted, err := chunksDbHandler.DeleteByFilename(model.CollectionTarget, "delete.pdf")
		assert.NoError(t, err, "Expected repeated delete to not return an error")
		assert.Equal(t, 0, deleted, "Expected zero deleted chunks for an unknown filename")
	})
}
