package checkmate

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/checkmate/core/compliance"
	"github.com/siherrmann/checkmate/core/judge"
	"github.com/siherrmann/checkmate/core/pipeline"
	"github.com/siherrmann/checkmate/database"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
	loadSql "github.com/siherrmann/checkmate/sql"
	"github.com/siherrmann/checkmate/store"
)

// Checkmate provides a unified interface to document ingestion, checklist
// management and compliance checking
type Checkmate struct {
	DB         *helper.Database
	Chunks     *database.ChunksDBHandler
	Store      *store.Store
	Pipeline   *pipeline.Pipeline       // Optional ingestion pipeline
	Judge      *judge.Judge             // Optional judgment engine
	Aggregator *compliance.Aggregator   // Optional compliance aggregator
	Generator  *compliance.Generator    // Optional checklist generator
	// Logging
	log *slog.Logger
}

// NewCheckmate creates a new Checkmate instance with database and storage
// initialized. The ingestion pipeline and judgment engine are set up
// separately via UseDefaultPipeline and UseJudge.
func NewCheckmate(config *helper.DatabaseConfiguration, embeddingDim int, storagePath string) (*Checkmate, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("checkmate", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	checklistStore, err := store.NewStore(storagePath, logger)
	if err != nil {
		return nil, helper.NewError("create checklist store", err)
	}

	return &Checkmate{
		DB:     db,
		Chunks: chunks,
		Store:  checklistStore,
		log:    logger,
	}, nil
}

// Close closes the database connection
func (c *Checkmate) Close() error {
	if c.DB != nil && c.DB.Instance != nil {
		return c.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the ingestion pipeline for document processing
func (c *Checkmate) SetPipeline(p *pipeline.Pipeline) {
	c.Pipeline = p
}

// UseDefaultPipeline sets up the default ingestion pipeline: pdftotext
// extraction, a 1000/200 sliding window chunker and the all-MiniLM-L6-v2
// embedder (384 dimensions)
func (c *Checkmate) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p, err := pipeline.NewPipeline(pipeline.PDFExtractor(), pipeline.DefaultChunker(), embedder, c.Chunks, c.log)
	if err != nil {
		return helper.NewError("create pipeline", err)
	}

	c.Pipeline = p
	return nil
}

// UseJudge wires the judgment engine, compliance aggregator and checklist
// generator to a completion function, typically judge.AnthropicCompleter
func (c *Checkmate) UseJudge(complete judge.CompleteFunc) error {
	if c.Pipeline == nil || c.Pipeline.Embedder == nil {
		return helper.NewError("use judge", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	j, err := judge.NewJudge(complete, c.log)
	if err != nil {
		return helper.NewError("create judge", err)
	}

	aggregator, err := compliance.NewAggregator(c.Chunks, j, c.Pipeline.Embedder, complete, c.Store, c.log)
	if err != nil {
		return helper.NewError("create aggregator", err)
	}

	generator, err := compliance.NewGenerator(complete, c.log)
	if err != nil {
		return helper.NewError("create generator", err)
	}

	c.Judge = j
	c.Aggregator = aggregator
	c.Generator = generator
	return nil
}

// Ingest processes a single file into a collection
func (c *Checkmate) Ingest(ctx context.Context, collection model.CollectionType, path string) (*model.IngestResult, error) {
	if c.Pipeline == nil {
		return nil, helper.NewError("ingest", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return c.Pipeline.ProcessFile(ctx, collection, path), nil
}

// IngestBatch processes multiple files into a collection sequentially
func (c *Checkmate) IngestBatch(ctx context.Context, collection model.CollectionType, paths []string) ([]*model.IngestResult, error) {
	if c.Pipeline == nil {
		return nil, helper.NewError("ingest batch", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return c.Pipeline.ProcessBatch(ctx, collection, paths), nil
}

// IngestDirectory processes all PDF files under a directory into a collection
func (c *Checkmate) IngestDirectory(ctx context.Context, collection model.CollectionType, dir string) ([]*model.IngestResult, error) {
	if c.Pipeline == nil {
		return nil, helper.NewError("ingest directory", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}
	return c.Pipeline.ProcessDirectory(ctx, collection, dir)
}

// Search performs vector similarity search within a collection. If filename
// is non-empty, only chunks of that file are searched.
func (c *Checkmate) Search(ctx context.Context, collection model.CollectionType, query string, limit int, filename string) ([]*model.Chunk, error) {
	if c.Pipeline == nil || c.Pipeline.Embedder == nil {
		return nil, helper.NewError("search", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	embeddings, err := c.Pipeline.Embedder([]string{query})
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}
	if len(embeddings) == 0 {
		return nil, helper.NewError("generate embedding", fmt.Errorf("no embedding generated"))
	}

	return c.Chunks.SelectChunksBySimilarity(collection, embeddings[0], limit, filename)
}

// DocumentContent reconstructs the full extracted text of a stored document
func (c *Checkmate) DocumentContent(collection model.CollectionType, filename string) (string, error) {
	return c.Chunks.ReconstructDocument(collection, filename)
}

// ListFiles lists the distinct files stored in a collection
func (c *Checkmate) ListFiles(collection model.CollectionType) ([]*model.FileInfo, error) {
	return c.Chunks.ListFiles(collection)
}

// DeleteFile deletes all stored chunks of a file and returns the count
func (c *Checkmate) DeleteFile(collection model.CollectionType, filename string) (int, error) {
	return c.Chunks.DeleteByFilename(collection, filename)
}

// RunChecklist runs a stored checklist template against a target document.
// The result is persisted in the checklist store.
func (c *Checkmate) RunChecklist(ctx context.Context, templateID string, targetFilename string) (*model.ChecklistResult, error) {
	if c.Aggregator == nil {
		return nil, helper.NewError("run checklist", fmt.Errorf("judge not set, use UseJudge() first"))
	}

	template, err := c.Store.GetTemplate(templateID)
	if err != nil {
		return nil, helper.NewError("get template", err)
	}

	return c.Aggregator.RunChecklist(ctx, template, targetFilename)
}

// Compare checks a target document chunk by chunk against a stored template
// document and reports per-item compliance
func (c *Checkmate) Compare(ctx context.Context, templateFilename string, targetFilename string, topK int) (*model.ComparisonReport, error) {
	if c.Aggregator == nil {
		return nil, helper.NewError("compare", fmt.Errorf("judge not set, use UseJudge() first"))
	}
	return c.Aggregator.Compare(ctx, templateFilename, targetFilename, topK)
}

// ComplianceReportText renders a comparison as a human-readable report
func (c *Checkmate) ComplianceReportText(ctx context.Context, templateFilename string, targetFilename string) (string, error) {
	report, err := c.Compare(ctx, templateFilename, targetFilename, 10)
	if err != nil {
		return "", err
	}
	return compliance.FormatReport(report), nil
}

// GenerateChecklist derives a checklist template from a stored template
// document and persists it in the checklist store. A failed generation
// returns the marker template without persisting it.
func (c *Checkmate) GenerateChecklist(ctx context.Context, templateFilename string) (*model.ChecklistTemplate, error) {
	if c.Generator == nil {
		return nil, helper.NewError("generate checklist", fmt.Errorf("judge not set, use UseJudge() first"))
	}

	content, err := c.Chunks.ReconstructDocument(model.CollectionTemplate, templateFilename)
	if err != nil {
		return nil, helper.NewError("reconstruct document", err)
	}

	template, err := c.Generator.GenerateChecklist(ctx, content, templateFilename)
	if err != nil {
		return template, nil
	}

	err = c.Store.SaveTemplate(template)
	if err != nil {
		return nil, helper.NewError("save template", err)
	}

	return template, nil
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (c *Checkmate) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return c.Chunks.ChangeIndexType(ctx, indexType, params)
}
