package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// Pipeline runs files through extraction, chunking, embedding and storage.
// Every stage failure is captured in the per-file result instead of being
// returned, so a batch always produces one result per input file.
type Pipeline struct {
	Extractor ExtractFunc
	Chunker   ChunkFunc
	Embedder  EmbedFunc
	Store     ChunkStore
	Logger    *slog.Logger
}

// NewPipeline creates a new ingestion pipeline
func NewPipeline(extractor ExtractFunc, chunker ChunkFunc, embedder EmbedFunc, store ChunkStore, logger *slog.Logger) (*Pipeline, error) {
	if extractor == nil || chunker == nil || embedder == nil {
		return nil, helper.NewError("pipeline validation", fmt.Errorf("extractor, chunker and embedder must be set"))
	}
	if store == nil {
		return nil, helper.NewError("pipeline validation", fmt.Errorf("store must be set"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		Extractor: extractor,
		Chunker:   chunker,
		Embedder:  embedder,
		Store:     store,
		Logger:    logger,
	}, nil
}

// ProcessFile ingests a single file into a collection. The returned result
// always describes the outcome; stage errors are captured in the result.
func (p *Pipeline) ProcessFile(ctx context.Context, collection model.CollectionType, path string) *model.IngestResult {
	result := &model.IngestResult{
		Status:     model.IngestSuccess,
		Collection: collection,
		FilePath:   path,
		Filename:   filepath.Base(path),
	}

	err := collection.Valid()
	if err != nil {
		return p.fail(result, "collection validation", err)
	}

	extraction, err := p.Extractor(ctx, path)
	if err != nil {
		return p.fail(result, "extract text", err)
	}

	result.PageCount = extraction.PageCount
	result.FileSize = extraction.FileSize

	if strings.TrimSpace(extraction.Text) == "" {
		result.Status = model.IngestWarning
		result.Message = "No text could be extracted from file"
		p.Logger.Warn("File contained no extractable text", slog.String("file", result.Filename))
		return result
	}

	chunks, err := p.Chunker(extraction.Text)
	if err != nil {
		return p.fail(result, "chunk text", err)
	}
	if len(chunks) == 0 {
		result.Status = model.IngestWarning
		result.Message = "No chunks produced from extracted text"
		p.Logger.Warn("Chunker produced no chunks", slog.String("file", result.Filename))
		return result
	}

	embeddings, err := p.Embedder(chunks)
	if err != nil {
		return p.fail(result, "embed chunks", err)
	}

	stored, err := p.Store.UpsertDocument(collection, result.Filename, chunks, embeddings, extraction)
	if err != nil {
		return p.fail(result, "store chunks", err)
	}

	result.ChunksCount = len(stored)
	if len(stored) > 0 {
		result.UploadTime = stored[0].UploadTime
	}
	result.Message = fmt.Sprintf("Ingested %d chunks", len(stored))

	p.Logger.Info(
		"Ingested file",
		slog.String("collection", string(collection)),
		slog.String("file", result.Filename),
		slog.Int("chunks", len(stored)),
	)

	return result
}

// ProcessBatch ingests multiple files sequentially. Failures of one file do
// not stop the batch; the returned results preserve the input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, collection model.CollectionType, paths []string) []*model.IngestResult {
	results := make([]*model.IngestResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, p.ProcessFile(ctx, collection, path))
	}
	return results
}

// ProcessDirectory ingests all PDF files found under a directory
func (p *Pipeline) ProcessDirectory(ctx context.Context, collection model.CollectionType, dir string) ([]*model.IngestResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, helper.NewError("walk directory", err)
	}

	sort.Strings(paths)

	start := time.Now()
	results := p.ProcessBatch(ctx, collection, paths)
	summary := model.SummarizeBatch(results)

	p.Logger.Info(
		"Ingested directory",
		slog.String("collection", string(collection)),
		slog.String("dir", dir),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("warned", summary.Warned),
		slog.Int("failed", summary.Failed),
		slog.Duration("took", time.Since(start)),
	)

	return results, nil
}

func (p *Pipeline) fail(result *model.IngestResult, action string, err error) *model.IngestResult {
	result.Status = model.IngestError
	result.Error = helper.NewError(action, err).Error()
	p.Logger.Error(
		"Ingestion failed",
		slog.String("file", result.Filename),
		slog.String("error", result.Error),
	)
	return result
}
