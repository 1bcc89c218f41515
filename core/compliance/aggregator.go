package compliance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/siherrmann/checkmate/core/judge"
	"github.com/siherrmann/checkmate/core/pipeline"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// DocumentStore is the chunk storage surface the aggregator reads from
type DocumentStore interface {
	ReconstructDocument(collection model.CollectionType, filename string) (string, error)
	SelectChunksByFilename(collection model.CollectionType, filename string, limit int) ([]*model.Chunk, error)
	SelectChunksBySimilarity(collection model.CollectionType, embedding []float32, limit int, filename string) ([]*model.Chunk, error)
}

// Judger runs batched judgments over reconstructed document text
type Judger interface {
	BatchAnswer(ctx context.Context, documentContent string, questions []model.Question) []model.QuestionAnswer
	BatchEvaluate(ctx context.Context, documentContent string, conditions []model.Condition) []model.ConditionEvaluation
}

// ResultStore persists checklist results
type ResultStore interface {
	SaveResult(result *model.ChecklistResult) error
}

// Aggregator runs checklist templates and template documents against stored
// target documents and derives compliance verdicts
type Aggregator struct {
	Store    DocumentStore
	Judge    Judger
	Embedder pipeline.EmbedFunc
	Complete judge.CompleteFunc
	Results  ResultStore
	Logger   *slog.Logger
}

// NewAggregator creates a new compliance aggregator. The result store is
// optional; without it results are returned but not persisted.
func NewAggregator(store DocumentStore, judger Judger, embedder pipeline.EmbedFunc, complete judge.CompleteFunc, results ResultStore, logger *slog.Logger) (*Aggregator, error) {
	if store == nil {
		return nil, helper.NewError("aggregator validation", fmt.Errorf("document store is nil"))
	}
	if judger == nil {
		return nil, helper.NewError("aggregator validation", fmt.Errorf("judge is nil"))
	}
	if embedder == nil {
		return nil, helper.NewError("aggregator validation", fmt.Errorf("embedder is nil"))
	}
	if complete == nil {
		return nil, helper.NewError("aggregator validation", fmt.Errorf("completion function is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Aggregator{
		Store:    store,
		Judge:    judger,
		Embedder: embedder,
		Complete: complete,
		Results:  results,
		Logger:   logger,
	}, nil
}

// RunChecklist runs every question and condition of a template against a
// stored target document and aggregates the compliance verdict. The full
// document text is reconstructed once and shared by all judgments.
func (a *Aggregator) RunChecklist(ctx context.Context, template *model.ChecklistTemplate, filename string) (*model.ChecklistResult, error) {
	if template == nil {
		return nil, helper.NewError("checklist validation", fmt.Errorf("template is nil"))
	}

	content, err := a.Store.ReconstructDocument(model.CollectionTarget, filename)
	if err != nil {
		return nil, helper.NewError("reconstruct document", err)
	}

	result := &model.ChecklistResult{
		ChecklistID:      template.ID,
		ChecklistName:    template.Name,
		DocumentFilename: filename,
	}

	result.Answers = a.Judge.BatchAnswer(ctx, content, template.Questions)
	result.Evaluations = a.Judge.BatchEvaluate(ctx, content, template.Conditions)
	result.ComputeCompliance()

	a.Logger.Info(
		"Ran checklist",
		slog.String("checklist", template.Name),
		slog.String("file", filename),
		slog.Bool("overall_compliance", result.OverallCompliance),
		slog.Float64("compliance_percentage", result.CompliancePercentage),
	)

	if a.Results != nil {
		err := a.Results.SaveResult(result)
		if err != nil {
			a.Logger.Warn("Failed to persist checklist result", slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// Compare checks a stored target document against a stored template document
// chunk by chunk. Every template chunk becomes one checklist item; for each,
// the topK most similar target chunks are retrieved and a model judges whether
// they satisfy the item.
func (a *Aggregator) Compare(ctx context.Context, templateFilename string, targetFilename string, topK int) (*model.ComparisonReport, error) {
	if topK <= 0 {
		topK = 10
	}

	items, err := a.Store.SelectChunksByFilename(model.CollectionTemplate, templateFilename, -1)
	if err != nil {
		return nil, helper.NewError("select checklist items", err)
	}
	if len(items) == 0 {
		return nil, helper.NewError("select checklist items", fmt.Errorf("no checklist items found for '%s'", templateFilename))
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ChunkIndex < items[j].ChunkIndex
	})

	report := &model.ComparisonReport{
		UserDocument:      targetFilename,
		ChecklistTemplate: templateFilename,
	}

	for _, item := range items {
		itemResult := a.checkItemCompliance(ctx, targetFilename, item.Content, topK)
		if itemResult.Compliant {
			report.CompliantItems = append(report.CompliantItems, itemResult)
		} else {
			report.NonCompliantItems = append(report.NonCompliantItems, itemResult)
		}
	}

	report.Summarize()

	a.Logger.Info(
		"Compared documents",
		slog.String("template", templateFilename),
		slog.String("target", targetFilename),
		slog.Int("total_items", report.TotalItems),
		slog.Float64("compliance_rate", report.ComplianceRate),
	)

	return report, nil
}

type compliancePayload struct {
	Compliant  bool    `json:"compliant"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// checkItemCompliance judges one checklist item against the target document.
// Failures degrade into a non-compliant item with confidence 0.
func (a *Aggregator) checkItemCompliance(ctx context.Context, targetFilename string, itemContent string, topK int) model.ItemCompliance {
	item := model.ItemCompliance{
		ChecklistItem: truncate(itemContent, 200),
		Confidence:    0.0,
	}

	embeddings, err := a.Embedder([]string{itemContent})
	if err != nil || len(embeddings) == 0 {
		item.Reason = fmt.Sprintf("Error: embedding checklist item failed: %v", err)
		return item
	}

	results, err := a.Store.SelectChunksBySimilarity(model.CollectionTarget, embeddings[0], topK, targetFilename)
	if err != nil {
		item.Reason = fmt.Sprintf("Error: %v", err)
		return item
	}
	if len(results) == 0 {
		item.Reason = "No relevant content found in user document"
		return item
	}

	contextChunks := results
	if len(contextChunks) > 5 {
		contextChunks = contextChunks[:5]
	}
	contents := make([]string, 0, len(contextChunks))
	for _, chunk := range contextChunks {
		contents = append(contents, chunk.Content)
	}
	documentContext := strings.Join(contents, "\n\n")

	prompt := fmt.Sprintf(`You are a compliance verification assistant. Your task is to determine if the user document contains the required checklist item.

Checklist Requirement:
%s

Relevant Content from User Document:
%s

Analyze whether the user document satisfies the checklist requirement. Respond in JSON format:
{
    "compliant": true/false,
    "reason": "Brief explanation of why it is or isn't compliant",
    "confidence": 0.0-1.0
}`, itemContent, documentContext)

	response, err := a.Complete(ctx, prompt, judge.CompletionOptions{
		Temperature:   0.3,
		MaxTokens:     1000,
		SystemMessage: "You are a compliance expert analyzing documents against requirements.",
	})
	if err != nil {
		item.Reason = fmt.Sprintf("Error: %v", err)
		return item
	}

	var payload compliancePayload
	err = judge.ParseJSONResponse(response, &payload)
	if err != nil {
		item.Reason = "Failed to parse LLM response"
		return item
	}

	item.Compliant = payload.Compliant
	item.Reason = payload.Reason
	if item.Reason == "" {
		item.Reason = "Unable to determine"
	}
	item.Confidence = payload.Confidence
	item.RelevantContent = truncate(results[0].Content, 300)
	return item
}

// truncate shortens text to at most limit runes, appending "..." when cut
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
