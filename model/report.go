package model

// ItemCompliance is the per-item outcome of a retrieval-based comparison.
// ChecklistItem carries the template chunk text truncated to 200 characters.
type ItemCompliance struct {
	ChecklistItem   string  `json:"checklist_item"`
	Compliant       bool    `json:"compliant"`
	Reason          string  `json:"reason"`
	Confidence      float64 `json:"confidence"`
	RelevantContent string  `json:"relevant_content,omitempty"`
}

// ComparisonReport summarizes a chunk-by-chunk comparison of a target
// document against a checklist template file
type ComparisonReport struct {
	UserDocument      string           `json:"user_document"`
	ChecklistTemplate string           `json:"checklist_template"`
	TotalItems        int              `json:"total_items"`
	CompliantCount    int              `json:"compliant_count"`
	NonCompliantCount int              `json:"non_compliant_count"`
	ComplianceRate    float64          `json:"compliance_rate"`
	CompliantItems    []ItemCompliance `json:"compliant_items"`
	NonCompliantItems []ItemCompliance `json:"non_compliant_items"`
}

// Summarize fills the counts and rate from the item lists.
// The rate is 0 when there are no items.
func (r *ComparisonReport) Summarize() {
	r.CompliantCount = len(r.CompliantItems)
	r.NonCompliantCount = len(r.NonCompliantItems)
	r.TotalItems = r.CompliantCount + r.NonCompliantCount
	if r.TotalItems > 0 {
		r.ComplianceRate = float64(r.CompliantCount) / float64(r.TotalItems)
	} else {
		r.ComplianceRate = 0
	}
}
