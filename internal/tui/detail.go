package tui

import (
	"fmt"
	"strings"

	"github.com/cybrain/reportbuilder/internal/layout"
	"github.com/cybrain/reportbuilder/internal/models"
)

// detailHeight is the fixed number of lines for the detail panel.
const detailHeight = 8

// renderDetail produces the detail view for a selected finding. Each
// non-blank field is shown on one line, cut to the panel width.
func renderDetail(finding *models.Finding, width int) string {
	if finding == nil {
		return styleDetailPanel.Width(width).Render("No finding selected")
	}

	var b strings.Builder

	sevStyled := severityStyle(finding.Level()).Render(strings.ToUpper(finding.DisplaySeverity()))
	b.WriteString(fmt.Sprintf("%s  %s\n", sevStyled, finding.DisplayTitle()))

	parts := make([]string, 0, 3)
	if finding.ID != "" {
		parts = append(parts, "ID: "+finding.ID)
	}
	if asset := strings.TrimSpace(finding.Asset); asset != "" {
		parts = append(parts, "Asset: "+asset)
	}
	if finding.TargetID != "" {
		parts = append(parts, "Target: "+finding.TargetID)
	}
	if len(parts) > 0 {
		b.WriteString(strings.Join(parts, "  "))
		b.WriteString("\n")
	}

	lineWidth := width - 4
	if lineWidth < 20 {
		lineWidth = 20
	}
	for _, block := range layout.FieldBlocks {
		body := finding.Fields.Text(block.Key)
		if body == "" {
			continue
		}
		body = strings.Join(strings.Fields(body), " ")
		b.WriteString(styleLabel.Render(block.Label + ":"))
		b.WriteString(" " + truncate(body, lineWidth-len(block.Label)-2))
		b.WriteString("\n")
	}

	return styleDetailPanel.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}
