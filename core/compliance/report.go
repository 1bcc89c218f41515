package compliance

import (
	"fmt"
	"strings"

	"github.com/siherrmann/checkmate/model"
)

// FormatReport renders a comparison report as human-readable text
func FormatReport(report *model.ComparisonReport) string {
	var b strings.Builder

	b.WriteString("COMPLIANCE REPORT\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "User Document: %s\n", report.UserDocument)
	fmt.Fprintf(&b, "Checklist Template: %s\n", report.ChecklistTemplate)
	fmt.Fprintf(&b, "Total Items Checked: %d\n", report.TotalItems)
	fmt.Fprintf(&b, "Compliant: %d\n", report.CompliantCount)
	fmt.Fprintf(&b, "Non-Compliant: %d\n", report.NonCompliantCount)
	fmt.Fprintf(&b, "Compliance Rate: %.1f%%\n\n", report.ComplianceRate*100)

	if len(report.NonCompliantItems) > 0 {
		b.WriteString("NON-COMPLIANT ITEMS:\n")
		b.WriteString(strings.Repeat("-", 60) + "\n")
		for i, item := range report.NonCompliantItems {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.ChecklistItem)
			fmt.Fprintf(&b, "   Reason: %s\n", item.Reason)
			fmt.Fprintf(&b, "   Confidence: %.1f%%\n\n", item.Confidence*100)
		}
	}

	return b.String()
}
