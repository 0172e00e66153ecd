package layout

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cybrain/reportbuilder/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Meta: models.Meta{
			ReportType:      "pentest",
			Title:           "External Assessment",
			ClientName:      "ACME Corp",
			AuthorName:      "J. Doe",
			Date:            "2026-01-15",
			PrimaryTargetID: "t1",
		},
		Targets: []models.Target{
			{ID: "t1", Type: "domain", Value: "acme.example"},
			{ID: "t2", Type: "ip", Value: "203.0.113.10"},
		},
		Findings: []models.Finding{
			{ID: "f1", Title: "Verbose errors", Severity: "Low", Asset: "api.acme.example",
				Fields: models.Fields{"description": "Stack traces are returned to clients."}},
			{ID: "f2", Title: "SQL injection", Severity: "Critical", Asset: "shop.acme.example",
				Fields: models.Fields{
					"description":    "The id parameter is concatenated into a query.",
					"impact":         "Full database read access.",
					"recommendation": "Use parameterized queries.",
					"proof":          "' OR 1=1 -- returned all rows",
					"repro":          "1. Open /item?id=1' 2. Observe the error",
				}},
		},
	}
}

func allTexts(pages []Page) []string {
	var texts []string
	for _, p := range pages {
		texts = append(texts, p.Texts()...)
	}
	return texts
}

func contains(texts []string, want string) bool {
	for _, s := range texts {
		if s == want {
			return true
		}
	}
	return false
}

func TestBuildSectionOrder(t *testing.T) {
	doc := Build(sampleReport())

	var sections []Section
	for _, p := range doc.Pages {
		sections = append(sections, p.Section)
	}

	want := []Section{SectionCover, SectionSummary, SectionFindings, SectionAppendix, SectionDisclaimer}
	if !reflect.DeepEqual(sections, want) {
		t.Errorf("sections = %v, want %v", sections, want)
	}
	if doc.Title != "External Assessment" || doc.Author != "J. Doe" {
		t.Errorf("unexpected metadata: %q by %q", doc.Title, doc.Author)
	}
}

func TestBuildEmptyReport(t *testing.T) {
	doc := Build(models.Report{})

	if len(doc.Pages) != 5 {
		t.Fatalf("expected 5 pages for an empty report, got %d", len(doc.Pages))
	}

	findings := doc.PagesIn(SectionFindings)
	if len(findings) != 1 {
		t.Fatalf("expected one findings page, got %d", len(findings))
	}
	if got := findings[0].Texts(); !reflect.DeepEqual(got, []string{FindingsTitle}) {
		t.Errorf("empty findings page = %v", got)
	}

	cover := doc.PagesIn(SectionCover)[0].Texts()
	want := []string{CoverTitle, "Title: ", "Client/Org: ", "Author: ", "Date: "}
	if !reflect.DeepEqual(cover, want) {
		t.Errorf("cover = %q, want %q", cover, want)
	}
}

func TestCoverPrimaryTarget(t *testing.T) {
	report := sampleReport()

	cover := Build(report).PagesIn(SectionCover)[0].Texts()
	if !contains(cover, "Primary Target: domain — acme.example") {
		t.Errorf("expected primary target line, got %q", cover)
	}

	report.Meta.PrimaryTargetID = "t9"
	cover = Build(report).PagesIn(SectionCover)[0].Texts()
	for _, line := range cover {
		if strings.HasPrefix(line, "Primary Target:") {
			t.Errorf("unresolved primary target should be omitted, got %q", line)
		}
	}
}

func TestCoverClientLabel(t *testing.T) {
	report := models.Report{Meta: models.Meta{IsPersonalLab: true}}

	cover := Build(report).PagesIn(SectionCover)[0].Texts()
	if !contains(cover, "Client/Org: Personal/Lab") {
		t.Errorf("expected personal lab label, got %q", cover)
	}
}

func TestExecutiveSummary(t *testing.T) {
	page := Build(sampleReport()).PagesIn(SectionSummary)[0]

	want := []string{
		SummaryTitle,
		"Report Type: pentest",
		"Targets: 2   Findings: 2",
		"Severity Counts:",
		"Critical: 1",
		"High: 0",
		"Medium: 0",
		"Low: 1",
		"Info: 0",
	}
	if got := page.Texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("summary = %q\nwant %q", got, want)
	}

	rows := page.Instructions[4:]
	for i := 1; i < len(rows); i++ {
		if rows[i].Y >= rows[i-1].Y {
			t.Errorf("row %d not below previous row", i)
		}
		if rows[i].X != Indent {
			t.Errorf("row %d x = %v, want %v", i, rows[i].X, Indent)
		}
	}
}

func TestFindingsOrderAndFields(t *testing.T) {
	texts := allTexts(Build(sampleReport()).PagesIn(SectionFindings))

	want := []string{
		FindingsTitle,
		"[Critical] SQL injection",
		"Asset: shop.acme.example",
		"Description:",
		"The id parameter is concatenated into a query.",
		"Impact:",
		"Full database read access.",
		"Recommendation:",
		"Use parameterized queries.",
		"Proof/Evidence:",
		"' OR 1=1 -- returned all rows",
		"Steps to Reproduce:",
		"1. Open /item?id=1' 2. Observe the error",
		"[Low] Verbose errors",
		"Asset: api.acme.example",
		"Description:",
		"Stack traces are returned to clients.",
	}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("findings = %q\nwant %q", texts, want)
	}
}

func TestFindingDefaultsAndBlankFields(t *testing.T) {
	report := models.Report{Findings: []models.Finding{
		{Title: "  ", Severity: "", Fields: models.Fields{"impact": "   ", "other": "ignored"}},
	}}

	texts := allTexts(Build(report).PagesIn(SectionFindings))
	want := []string{FindingsTitle, "[Info] Untitled Finding", "Asset: "}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("findings = %q, want %q", texts, want)
	}
}

func TestFindingAssetTrimmed(t *testing.T) {
	report := models.Report{Findings: []models.Finding{
		{Title: "Weak lockout", Severity: "Low", Asset: "   /login  "},
	}}

	texts := allTexts(Build(report).PagesIn(SectionFindings))
	if !contains(texts, "Asset: /login") {
		t.Errorf("findings = %q, want trimmed asset line", texts)
	}
}

func TestFindingsContinuationPages(t *testing.T) {
	long := strings.Repeat("The service accepts unauthenticated requests on the admin interface. ", 60)

	var findings []models.Finding
	for i := 0; i < 6; i++ {
		findings = append(findings, models.Finding{
			Title:    "Exposed admin",
			Severity: "High",
			Fields:   models.Fields{"description": long, "impact": long},
		})
	}

	doc := Build(models.Report{Findings: findings})
	pages := doc.PagesIn(SectionFindings)
	if len(pages) < 3 {
		t.Fatalf("expected findings to span several pages, got %d", len(pages))
	}

	for i, p := range pages {
		title := p.Instructions[0].Text
		switch {
		case i == 0 && title != FindingsTitle:
			t.Errorf("first findings page header = %q", title)
		case i > 0 && title != FindingsContinueTitle:
			t.Errorf("page %d header = %q, want continuation header", i, title)
		}
		if len(p.Instructions) < 2 {
			t.Errorf("page %d carries no content", i)
		}
		for _, in := range p.Instructions[1:] {
			if in.Y < MinY-6 {
				t.Errorf("page %d: instruction %q drawn at y=%v, below bottom margin", i, in.Text, in.Y)
			}
		}
	}

	if doc.Pages[len(doc.Pages)-1].Section != SectionDisclaimer {
		t.Error("disclaimer must be the last page")
	}
}

func TestBodyLinesRespectWrapWidth(t *testing.T) {
	body := strings.Repeat("lorem ipsum dolor sit amet ", 40)
	report := models.Report{Findings: []models.Finding{{Fields: models.Fields{"description": body}}}}

	texts := allTexts(Build(report).PagesIn(SectionFindings))
	var lines []string
	for _, s := range texts[4:] {
		if len(s) > WrapWidth {
			t.Errorf("line exceeds wrap width: %q", s)
		}
		lines = append(lines, s)
	}
	if got := strings.Join(lines, " "); got != strings.Join(strings.Fields(body), " ") {
		t.Error("wrapped body does not reproduce the field text")
	}
}

func TestAppendixAndDisclaimer(t *testing.T) {
	doc := Build(models.Report{})

	appendix := doc.PagesIn(SectionAppendix)[0]
	want := []string{
		AppendixTitle,
		"Critical:", "Severe risk with immediate impact; urgent remediation required.",
		"High:", "Major risk; likely to be exploited; prioritize remediation.",
		"Medium:", "Moderate risk; exploitable under certain conditions.",
		"Low:", "Minor risk; limited impact; address in normal cycles.",
		"Info:", "Informational; best practice or observation.",
	}
	if got := appendix.Texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("appendix = %q", got)
	}
	if appendix.Instructions[2].X != DefinitionX {
		t.Errorf("definition x = %v, want %v", appendix.Instructions[2].X, DefinitionX)
	}

	disclaimer := doc.PagesIn(SectionDisclaimer)
	if len(disclaimer) != 1 || !reflect.DeepEqual(disclaimer[0].Texts(), []string{Disclaimer}) {
		t.Errorf("unexpected disclaimer page: %+v", disclaimer)
	}
}

func TestBuildDeterministic(t *testing.T) {
	report := sampleReport()
	if !reflect.DeepEqual(Build(report), Build(report)) {
		t.Error("Build is not deterministic")
	}
}

func TestBuildDoesNotReorderInput(t *testing.T) {
	report := sampleReport()
	Build(report)
	if report.Findings[0].ID != "f1" {
		t.Error("Build reordered the caller's findings")
	}
}
