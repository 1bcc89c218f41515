package model

import (
	"math"
	"time"
)

// Confidence is the qualitative confidence level of a judgment
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// QuestionType categorizes the expected answer of a question
type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeNumber         QuestionType = "number"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

// ConditionType categorizes how a condition is meant to be checked
type ConditionType string

const (
	ConditionTypeMustContain       ConditionType = "must_contain"
	ConditionTypeMustNotContain    ConditionType = "must_not_contain"
	ConditionTypeMustMatch         ConditionType = "must_match"
	ConditionTypeNumericComparison ConditionType = "numeric_comparison"
	ConditionTypeDateComparison    ConditionType = "date_comparison"
	ConditionTypeCustom            ConditionType = "custom"
)

// Question is a reusable information-extraction prompt
type Question struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Type      QuestionType `json:"type"`
	Context   string       `json:"context,omitempty"`
	Options   []string     `json:"options,omitempty"`
	Required  bool         `json:"required"`
	Order     int          `json:"order"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Condition is a reusable pass/fail requirement
type Condition struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Type       ConditionType `json:"type"`
	Context    string        `json:"context,omitempty"`
	Parameters Metadata      `json:"parameters,omitempty"`
	Required   bool          `json:"required"`
	Order      int           `json:"order"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ChecklistTemplate is a named ordered bundle of questions and conditions.
// Questions and conditions are copied by value at creation time, so later
// edits to the source question or condition do not change the template.
type ChecklistTemplate struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Questions   []Question  `json:"questions"`
	Conditions  []Condition `json:"conditions"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// QuestionAnswer is the immutable judgment for one question
type QuestionAnswer struct {
	QuestionID   string     `json:"question_id"`
	QuestionText string     `json:"question_text"`
	Answer       string     `json:"answer"`
	Confidence   Confidence `json:"confidence"`
	Evidence     string     `json:"evidence,omitempty"`
	Explanation  string     `json:"explanation,omitempty"`
}

// ConditionEvaluation is the immutable judgment for one condition
type ConditionEvaluation struct {
	ConditionID     string     `json:"condition_id"`
	ConditionText   string     `json:"condition_text"`
	IsMet           bool       `json:"is_met"`
	Confidence      Confidence `json:"confidence"`
	Evidence        string     `json:"evidence,omitempty"`
	Reasoning       string     `json:"reasoning"`
	Recommendations string     `json:"recommendations,omitempty"`
}

// ChecklistResult is the immutable outcome of running a template against a document
type ChecklistResult struct {
	ID                   string                `json:"id"`
	ChecklistID          string                `json:"checklist_id"`
	ChecklistName        string                `json:"checklist_name"`
	DocumentFilename     string                `json:"document_filename"`
	Answers              []QuestionAnswer      `json:"answers"`
	Evaluations          []ConditionEvaluation `json:"evaluations"`
	OverallCompliance    bool                  `json:"overall_compliance"`
	CompliancePercentage float64               `json:"compliance_percentage"`
	CreatedAt            time.Time             `json:"created_at"`
}

// ComputeCompliance derives OverallCompliance and CompliancePercentage from
// the evaluations. With zero conditions the result is vacuously compliant at
// 100 percent. The percentage is rounded to two decimals.
func (r *ChecklistResult) ComputeCompliance() {
	total := len(r.Evaluations)
	if total == 0 {
		r.OverallCompliance = true
		r.CompliancePercentage = 100.0
		return
	}

	met := 0
	overall := true
	for _, e := range r.Evaluations {
		if e.IsMet {
			met++
		} else {
			overall = false
		}
	}

	r.OverallCompliance = overall
	r.CompliancePercentage = math.Round(float64(met)/float64(total)*100*100) / 100
}
