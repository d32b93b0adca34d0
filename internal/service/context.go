package service

import (
	"fmt"
	"strings"

	"github.com/xxxsen/compcheck/internal/model"
)

const contextSeparator = "-------------------------------------"

// BuildContext renders structured rows and retrieved passages into the
// prompt block the answer model consumes. The labels, their order and the
// separators are part of the model contract: changing them changes answer
// quality, not just formatting.
func BuildContext(records []model.ContractRecord, chunks []model.RetrievedChunk) string {
	var sb strings.Builder
	sb.WriteString("STRUCTURED CONTRACT DATA:\n")
	for _, row := range records {
		fmt.Fprintf(&sb, `
Contract ID    : %d
Vendor         : %s
Contract Type  : %s
Duration       : %d months
Compliance     : %d
Audit Status   : %s
Date           : %s
Jurisdiction   : %s
Policy         : %s
Region         : %s
`,
			row.ContractID,
			row.VendorName,
			row.ContractType,
			row.DurationMonths,
			row.ComplianceScore,
			row.AuditStatus,
			row.ContractDate.String(),
			row.Jurisdiction,
			row.PolicyName,
			row.Region,
		)
		sb.WriteString(contextSeparator)
		sb.WriteString("\n")
	}

	sb.WriteString("\nRELEVANT CONTRACT CLAUSES:\n")
	for _, c := range chunks {
		fmt.Fprintf(&sb, "\n[Contract ID: %d | Score: %.3f]\n", c.ContractID, c.SimilarityScore)
		sb.WriteString(c.ChunkText)
		sb.WriteString("\n")
		sb.WriteString(contextSeparator)
		sb.WriteString("\n")
	}
	return sb.String()
}
