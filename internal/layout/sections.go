package layout

import (
	"fmt"

	"github.com/cybrain/reportbuilder/internal/models"
	"github.com/cybrain/reportbuilder/internal/severity"
	"github.com/cybrain/reportbuilder/internal/textwrap"
)

// Section titles and fixed text.
const (
	CoverTitle            = "CyBrain Report Builder"
	SummaryTitle          = "Executive Summary"
	FindingsTitle         = "Findings"
	FindingsContinueTitle = "Findings (cont.)"
	AppendixTitle         = "Appendix: Severity Definitions"
	Disclaimer            = "Disclaimer: This report is provided for informational purposes and reflects the data supplied to the tool."
)

// FieldBlock pairs a finding field with its printed label.
type FieldBlock struct {
	Key   string
	Label string
}

// FieldBlocks lists the finding detail blocks in display order.
var FieldBlocks = [...]FieldBlock{
	{models.FieldDescription, "Description"},
	{models.FieldImpact, "Impact"},
	{models.FieldRecommendation, "Recommendation"},
	{models.FieldProof, "Proof/Evidence"},
	{models.FieldRepro, "Steps to Reproduce"},
}

// Build lays out the cover, executive summary, findings and appendix of
// report. Every section starts on a new page and none is skipped.
func Build(report models.Report) Document {
	var f flow
	f = cover(f, report)
	f = executiveSummary(f, report)
	f = findings(f, report)
	f = appendix(f)

	return Document{
		Title:  report.Meta.Title,
		Author: report.Meta.AuthorName,
		Pages:  f.pages,
	}
}

func cover(f flow, report models.Report) flow {
	meta := report.Meta

	f = f.newPage(SectionCover)
	f = f.textAt(MarginLeft, PageHeight-30, CoverTitle, bold(SizeCoverTitle))
	f = f.textAt(MarginLeft, PageHeight-42, "Title: "+meta.Title, regular(SizeHeading))
	f = f.textAt(MarginLeft, PageHeight-50, "Client/Org: "+meta.ClientLabel(), regular(SizeHeading))
	f = f.textAt(MarginLeft, PageHeight-58, "Author: "+meta.AuthorName, regular(SizeHeading))
	f = f.textAt(MarginLeft, PageHeight-66, "Date: "+meta.Date, regular(SizeHeading))

	if target, ok := report.PrimaryTarget(); ok {
		line := fmt.Sprintf("Primary Target: %s — %s", target.Type, target.Value)
		f = f.textAt(MarginLeft, PageHeight-74, line, regular(SizeHeading))
	}
	return f
}

func executiveSummary(f flow, report models.Report) flow {
	var counts models.SeverityCounts
	for _, finding := range report.Findings {
		counts = counts.Add(finding.Level())
	}

	f = f.header(SectionSummary, SummaryTitle)
	f = f.text(MarginLeft, "Report Type: "+report.Meta.ReportType, regular(SizeHeading)).down(8)
	f = f.text(MarginLeft, fmt.Sprintf("Targets: %d   Findings: %d", len(report.Targets), len(report.Findings)), regular(SizeHeading)).down(10)
	f = f.text(MarginLeft, "Severity Counts:", bold(SizeHeading)).down(7)

	for _, level := range severity.Order {
		f = f.text(Indent, fmt.Sprintf("%s: %d", level, counts.Get(level)), regular(SizeBody)).down(6)
	}
	return f
}

func findings(f flow, report models.Report) flow {
	f = f.header(SectionFindings, FindingsTitle)

	for _, finding := range models.SortBySeverity(report.Findings) {
		f = findingBlock(f, finding)
	}
	return f
}

func findingBlock(f flow, finding models.Finding) flow {
	f = f.ensureSpace(SectionFindings, FindingsContinueTitle)
	heading := fmt.Sprintf("[%s] %s", finding.DisplaySeverity(), finding.DisplayTitle())
	f = f.text(MarginLeft, heading, bold(SizeHeading)).down(6)
	f = f.text(MarginLeft, "Asset: "+finding.DisplayAsset(), regular(SizeBody)).down(6)

	for _, block := range FieldBlocks {
		body := finding.Fields.Text(block.Key)
		if body == "" {
			continue
		}

		f = f.down(2).ensureSpace(SectionFindings, FindingsContinueTitle)
		f = f.text(MarginLeft, block.Label+":", bold(SizeBody)).down(5.5)

		for _, line := range textwrap.Wrap(body, WrapWidth) {
			f = f.ensureSpace(SectionFindings, FindingsContinueTitle)
			f = f.text(MarginLeft, line, regular(SizeBody)).down(5)
		}
	}
	return f.down(6)
}

func appendix(f flow) flow {
	f = f.header(SectionAppendix, AppendixTitle)
	for _, def := range severity.Definitions {
		f = f.text(MarginLeft, def.Level.String()+":", bold(SizeBody))
		f = f.text(DefinitionX, def.Text, regular(SizeBody)).down(7)
	}

	f = f.newPage(SectionDisclaimer)
	return f.textAt(MarginLeft, HeaderY, Disclaimer, regular(SizeSmall))
}
