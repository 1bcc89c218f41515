package compliance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/siherrmann/checkmate/core/judge"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// Generator builds checklist templates from document content using a model
type Generator struct {
	Complete judge.CompleteFunc
	Logger   *slog.Logger
}

// NewGenerator creates a new checklist generator
func NewGenerator(complete judge.CompleteFunc, logger *slog.Logger) (*Generator, error) {
	if complete == nil {
		return nil, helper.NewError("generator validation", fmt.Errorf("completion function is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		Complete: complete,
		Logger:   logger,
	}, nil
}

type generatedQuestion struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	Category string `json:"category"`
}

type generatedCondition struct {
	Condition string `json:"condition"`
	Context   string `json:"context"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
}

type generatedChecklist struct {
	TemplateName string               `json:"template_name"`
	Description  string               `json:"description"`
	Questions    []generatedQuestion  `json:"questions"`
	Conditions   []generatedCondition `json:"conditions"`
}

// GenerateChecklist derives a checklist template from document content. On
// failure it returns a minimal marker template whose description carries the
// error, together with the error itself so callers can skip persisting it.
func (g *Generator) GenerateChecklist(ctx context.Context, documentContent string, filename string) (*model.ChecklistTemplate, error) {
	prompt := fmt.Sprintf(`Analyze the following document and generate a comprehensive compliance checklist.

Document Content:
%s

Your task is to:
1. Identify key requirements, standards, or criteria mentioned in the document
2. Generate relevant questions to verify compliance with these requirements
3. Create specific conditions that need to be met

Provide your response in the following JSON format:
{
    "template_name": "A descriptive name for this checklist",
    "description": "Brief description of what this checklist covers",
    "questions": [
        {
            "question": "The question text",
            "context": "Additional context or explanation for this question",
            "category": "Category name (e.g., 'Safety', 'Quality', 'Documentation')"
        }
    ],
    "conditions": [
        {
            "condition": "The condition that must be met",
            "context": "Additional context for this condition",
            "category": "Category name",
            "severity": "critical/high/medium/low"
        }
    ]
}

Generate 5-10 questions and 3-8 conditions based on the document content.
Ensure questions are specific, measurable, and directly related to the document.
Conditions should be clear, testable criteria for compliance.`, documentContent)

	response, err := g.Complete(ctx, prompt, judge.CompletionOptions{MaxTokens: 4000})
	if err != nil {
		g.Logger.Error("Checklist generation failed", slog.String("file", filename), slog.String("error", err.Error()))
		return failedTemplate(filename, err), helper.NewError("generate checklist", err)
	}

	var parsed generatedChecklist
	err = judge.ParseJSONResponse(response, &parsed)
	if err != nil {
		g.Logger.Error("Checklist generation response unparseable", slog.String("file", filename), slog.String("error", err.Error()))
		return failedTemplate(filename, err), helper.NewError("parse generated checklist", err)
	}

	questions := make([]model.Question, 0, len(parsed.Questions))
	for i, q := range parsed.Questions {
		questions = append(questions, model.Question{
			Text:    q.Question,
			Type:    model.QuestionTypeText,
			Context: q.Context,
			Order:   i,
		})
	}

	conditions := make([]model.Condition, 0, len(parsed.Conditions))
	for i, c := range parsed.Conditions {
		conditions = append(conditions, model.Condition{
			Text:    c.Condition,
			Type:    model.ConditionTypeCustom,
			Context: c.Context,
			Parameters: model.Metadata{
				"category": c.Category,
				"severity": c.Severity,
			},
			Order: i,
		})
	}

	name := parsed.TemplateName
	if name == "" {
		name = fmt.Sprintf("Checklist for %s", filename)
	}
	description := parsed.Description
	if description == "" {
		description = fmt.Sprintf("Auto-generated checklist from %s", filename)
	}

	g.Logger.Info(
		"Generated checklist",
		slog.String("file", filename),
		slog.Int("questions", len(questions)),
		slog.Int("conditions", len(conditions)),
	)

	return &model.ChecklistTemplate{
		Name:        name,
		Description: description,
		Questions:   questions,
		Conditions:  conditions,
	}, nil
}

func failedTemplate(filename string, err error) *model.ChecklistTemplate {
	return &model.ChecklistTemplate{
		Name:        fmt.Sprintf("Failed Generation for %s", filename),
		Description: fmt.Sprintf("Error generating checklist: %v", err),
		Questions:   []model.Question{},
		Conditions:  []model.Condition{},
	}
}
