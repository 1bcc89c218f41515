package judge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// Judge runs language model judgments over document text. Transport and
// parsing failures never propagate as errors; they degrade into low or medium
// confidence judgments so a batch always yields one result per input.
type Judge struct {
	Complete CompleteFunc
	Logger   *slog.Logger
}

// NewJudge creates a new judge with the given completion function
func NewJudge(complete CompleteFunc, logger *slog.Logger) (*Judge, error) {
	if complete == nil {
		return nil, helper.NewError("judge validation", fmt.Errorf("completion function is nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Judge{
		Complete: complete,
		Logger:   logger,
	}, nil
}

type answerPayload struct {
	Answer      string `json:"answer"`
	Confidence  string `json:"confidence"`
	Evidence    string `json:"evidence"`
	Explanation string `json:"explanation"`
}

type evaluationPayload struct {
	IsMet           bool   `json:"is_met"`
	Confidence      string `json:"confidence"`
	Evidence        string `json:"evidence"`
	Reasoning       string `json:"reasoning"`
	Recommendations string `json:"recommendations"`
}

// AnswerQuestion extracts the answer to a question from document content
func (j *Judge) AnswerQuestion(ctx context.Context, documentContent string, question model.Question) model.QuestionAnswer {
	answer := model.QuestionAnswer{
		QuestionID:   question.ID,
		QuestionText: question.Text,
	}

	contextLine := ""
	if question.Context != "" {
		contextLine = fmt.Sprintf("Additional Context: %s\n", question.Context)
	}

	prompt := fmt.Sprintf(`Analyze the following document and answer the question.

Document Content:
%s

Question: %s

%s
Provide your answer in the following JSON format:
{
    "answer": "your detailed answer here",
    "confidence": "high/medium/low",
    "evidence": "relevant excerpts from the document that support your answer",
    "explanation": "brief explanation of your reasoning"
}

If the document does not contain enough information to answer the question, set answer to "Information not found" and confidence to "low".`,
		documentContent, question.Text, contextLine)

	response, err := j.Complete(ctx, prompt, CompletionOptions{MaxTokens: 2000})
	if err != nil {
		j.Logger.Error("Question judgment failed", slog.String("question_id", question.ID), slog.String("error", err.Error()))
		answer.Answer = fmt.Sprintf("Error: %v", err)
		answer.Confidence = model.ConfidenceLow
		answer.Explanation = "API call failed"
		return answer
	}

	var payload answerPayload
	err = ParseJSONResponse(response, &payload)
	if err != nil {
		answer.Answer = response
		answer.Confidence = model.ConfidenceMedium
		answer.Explanation = "Response parsing failed"
		return answer
	}

	answer.Answer = payload.Answer
	answer.Confidence = normalizeConfidence(payload.Confidence)
	answer.Evidence = payload.Evidence
	answer.Explanation = payload.Explanation
	return answer
}

// EvaluateCondition judges whether a condition is met in document content
func (j *Judge) EvaluateCondition(ctx context.Context, documentContent string, condition model.Condition) model.ConditionEvaluation {
	evaluation := model.ConditionEvaluation{
		ConditionID:   condition.ID,
		ConditionText: condition.Text,
	}

	contextLine := ""
	if condition.Context != "" {
		contextLine = fmt.Sprintf("Additional Context: %s\n", condition.Context)
	}

	prompt := fmt.Sprintf(`Analyze the following document and evaluate whether the given condition is met.

Document Content:
%s

Condition to Evaluate: %s

%s
Provide your evaluation in the following JSON format:
{
    "is_met": true/false,
    "confidence": "high/medium/low",
    "evidence": "relevant excerpts from the document",
    "reasoning": "detailed explanation of why the condition is or is not met",
    "recommendations": "suggestions if condition is not met (optional)"
}`,
		documentContent, condition.Text, contextLine)

	response, err := j.Complete(ctx, prompt, CompletionOptions{MaxTokens: 2000})
	if err != nil {
		j.Logger.Error("Condition judgment failed", slog.String("condition_id", condition.ID), slog.String("error", err.Error()))
		evaluation.IsMet = false
		evaluation.Confidence = model.ConfidenceLow
		evaluation.Reasoning = fmt.Sprintf("API call failed: %v", err)
		evaluation.Recommendations = "Please review manually"
		return evaluation
	}

	var payload evaluationPayload
	err = ParseJSONResponse(response, &payload)
	if err != nil {
		evaluation.IsMet = false
		evaluation.Confidence = model.ConfidenceLow
		evaluation.Reasoning = "Response parsing failed"
		evaluation.Recommendations = "Please review manually"
		return evaluation
	}

	evaluation.IsMet = payload.IsMet
	evaluation.Confidence = normalizeConfidence(payload.Confidence)
	evaluation.Evidence = payload.Evidence
	evaluation.Reasoning = payload.Reasoning
	evaluation.Recommendations = payload.Recommendations
	return evaluation
}

// BatchAnswer answers multiple questions sequentially against the same
// document content. The results preserve the input order.
func (j *Judge) BatchAnswer(ctx context.Context, documentContent string, questions []model.Question) []model.QuestionAnswer {
	answers := make([]model.QuestionAnswer, 0, len(questions))
	for _, question := range questions {
		answers = append(answers, j.AnswerQuestion(ctx, documentContent, question))
	}
	return answers
}

// BatchEvaluate evaluates multiple conditions sequentially against the same
// document content. The results preserve the input order.
func (j *Judge) BatchEvaluate(ctx context.Context, documentContent string, conditions []model.Condition) []model.ConditionEvaluation {
	evaluations := make([]model.ConditionEvaluation, 0, len(conditions))
	for _, condition := range conditions {
		evaluations = append(evaluations, j.EvaluateCondition(ctx, documentContent, condition))
	}
	return evaluations
}

// normalizeConfidence maps a model-reported confidence to a known level,
// falling back to medium for anything unrecognized
func normalizeConfidence(value string) model.Confidence {
	switch model.Confidence(strings.ToLower(strings.TrimSpace(value))) {
	case model.ConfidenceHigh:
		return model.ConfidenceHigh
	case model.ConfidenceMedium:
		return model.ConfidenceMedium
	case model.ConfidenceLow:
		return model.ConfidenceLow
	default:
		return model.ConfidenceMedium
	}
}
