package database

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
	loadSql "github.com/siherrmann/checkmate/sql"
)

// ErrDocumentNotFound is returned when no chunks exist for a filename in a collection.
var ErrDocumentNotFound = fmt.Errorf("document not found")

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	UpsertDocument(collection model.CollectionType, filename string, chunks []string, embeddings [][]float32, extraction *model.Extraction) ([]*model.Chunk, error)
	SelectChunksByFilename(collection model.CollectionType, filename string, limit int) ([]*model.Chunk, error)
	SelectChunksBySimilarity(collection model.CollectionType, embedding []float32, limit int, filename string) ([]*model.Chunk, error)
	ReconstructDocument(collection model.CollectionType, filename string) (string, error)
	ListFiles(collection model.CollectionType) ([]*model.FileInfo, error)
	DeleteByFilename(collection model.CollectionType, filename string) (int, error)
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init_chunks() function to create the table and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// UpsertDocument replaces all chunks stored for a filename within a collection.
// Existing chunks for the filename are deleted first, then the given chunks are
// inserted in order with their position as chunk index. The chunks and
// embeddings slices must have equal length.
func (h *ChunksDBHandler) UpsertDocument(collection model.CollectionType, filename string, chunks []string, embeddings [][]float32, extraction *model.Extraction) ([]*model.Chunk, error) {
	err := collection.Valid()
	if err != nil {
		return nil, helper.NewError("collection validation", err)
	}
	if len(chunks) != len(embeddings) {
		return nil, helper.NewError("upsert validation", fmt.Errorf("chunk count %d does not match embedding count %d", len(chunks), len(embeddings)))
	}

	_, err = h.DeleteByFilename(collection, filename)
	if err != nil {
		return nil, helper.NewError("delete existing chunks", err)
	}

	uploadTime := time.Now()
	pageCount := 0
	fileSize := int64(0)
	metadata := model.Metadata{}
	if extraction != nil {
		pageCount = extraction.PageCount
		fileSize = extraction.FileSize
		metadata = extraction.DocumentMetadata()
	}

	inserted := []*model.Chunk{}
	for i, content := range chunks {
		chunk := &model.Chunk{
			Collection: collection,
			Filename:   filename,
			ChunkIndex: i,
			Content:    content,
			Embedding:  embeddings[i],
			UploadTime: uploadTime,
			PageCount:  pageCount,
			FileSize:   fileSize,
			Metadata:   metadata,
		}

		err := h.insertChunk(chunk)
		if err != nil {
			return inserted, helper.NewError(fmt.Sprintf("insert chunk %d of %d", i, len(chunks)), err)
		}

		inserted = append(inserted, chunk)
	}

	return inserted, nil
}

// insertChunk inserts a single chunk and fills in its database-assigned fields.
func (h *ChunksDBHandler) insertChunk(chunk *model.Chunk) error {
	embeddingVector := pgvector.NewVector(chunk.Embedding)
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(chunk.Collection),
		chunk.Filename,
		chunk.ChunkIndex,
		chunk.Content,
		embeddingVector,
		chunk.UploadTime,
		chunk.PageCount,
		chunk.FileSize,
		chunk.Metadata,
	)

	err := row.Scan(
		&chunk.ID,
		&chunk.Collection,
		&chunk.Filename,
		&chunk.ChunkIndex,
		&chunk.Content,
		&chunk.UploadTime,
		&chunk.PageCount,
		&chunk.FileSize,
		&chunk.Metadata,
		&chunk.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectChunksByFilename retrieves all chunks for a filename in a collection
func (h *ChunksDBHandler) SelectChunksByFilename(collection model.CollectionType, filename string, limit int) ([]*model.Chunk, error) {
	err := collection.Valid()
	if err != nil {
		return nil, helper.NewError("collection validation", err)
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_filename($1, $2, $3)`,
		string(collection),
		filename,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.Collection,
			&chunk.Filename,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.UploadTime,
			&chunk.PageCount,
			&chunk.FileSize,
			&chunk.Metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity performs vector similarity search within a collection.
// Results are ordered by ascending cosine distance with the chunk id as
// tiebreaker. If filename is non-empty, only chunks of that file are searched.
func (h *ChunksDBHandler) SelectChunksBySimilarity(collection model.CollectionType, embedding []float32, limit int, filename string) ([]*model.Chunk, error) {
	err := collection.Valid()
	if err != nil {
		return nil, helper.NewError("collection validation", err)
	}

	embeddingVector := pgvector.NewVector(embedding)

	var filenameParam interface{}
	if filename != "" {
		filenameParam = filename
	} else {
		filenameParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3, $4)`,
		string(collection),
		embeddingVector,
		limit,
		filenameParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.Collection,
			&chunk.Filename,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.UploadTime,
			&chunk.PageCount,
			&chunk.FileSize,
			&chunk.Metadata,
			&chunk.CreatedAt,
			&chunk.Distance,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// ReconstructDocument rebuilds the full extracted text of a stored document by
// joining its chunks in chunk index order. Returns ErrDocumentNotFound if no
// chunks exist for the filename.
func (h *ChunksDBHandler) ReconstructDocument(collection model.CollectionType, filename string) (string, error) {
	chunks, err := h.SelectChunksByFilename(collection, filename, -1)
	if err != nil {
		return "", helper.NewError("select chunks", err)
	}
	if len(chunks) == 0 {
		return "", helper.NewError("reconstruct document", fmt.Errorf("%w: %s in collection %s", ErrDocumentNotFound, filename, collection))
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ChunkIndex < chunks[j].ChunkIndex
	})

	contents := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, chunk.Content)
	}

	return strings.Join(contents, "\n\n"), nil
}

// ListFiles retrieves a summary of all distinct filenames in a collection
func (h *ChunksDBHandler) ListFiles(collection model.CollectionType) ([]*model.FileInfo, error) {
	err := collection.Valid()
	if err != nil {
		return nil, helper.NewError("collection validation", err)
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM list_files($1)`,
		string(collection),
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var files []*model.FileInfo
	for rows.Next() {
		file := &model.FileInfo{}
		err := rows.Scan(
			&file.Filename,
			&file.ChunkCount,
			&file.PageCount,
			&file.FileSize,
			&file.UploadTime,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		files = append(files, file)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return files, nil
}

// DeleteByFilename deletes all chunks for a filename in a collection and
// returns the number of deleted chunks. Deleting an unknown filename is not
// an error and returns 0.
func (h *ChunksDBHandler) DeleteByFilename(collection model.CollectionType, filename string) (int, error) {
	err := collection.Valid()
	if err != nil {
		return 0, helper.NewError("collection validation", err)
	}

	var deleted int
	err = h.db.Instance.QueryRow(
		`SELECT delete_chunks_by_filename($1, $2)`,
		string(collection),
		filename,
	).Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return deleted, nil
}
