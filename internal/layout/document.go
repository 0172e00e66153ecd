// Package layout turns a report into pages of positioned text instructions.
//
// Coordinates are millimetres on an A4 page with the origin at the bottom
// left corner, so the cursor moves down by decreasing Y. The renderer
// converts to its own coordinate system.
package layout

// Page geometry.
const (
	PageWidth  = 210.0
	PageHeight = 297.0

	MarginLeft  = 22.0
	Indent      = 28.0
	DefinitionX = 40.0

	// MinY is the lowest baseline content may start at before a new page
	// is forced.
	MinY = 30.0

	HeaderY    = PageHeight - 25
	BodyStartY = PageHeight - 40

	// WrapWidth is the character budget of a wrapped field body line.
	WrapWidth = 95
)

// Font sizes in points.
const (
	SizeCoverTitle = 20.0
	SizeHeader     = 16.0
	SizeHeading    = 12.0
	SizeBody       = 11.0
	SizeSmall      = 10.0
)

// Section identifies which part of the document a page belongs to.
type Section int

const (
	SectionCover Section = iota
	SectionSummary
	SectionFindings
	SectionAppendix
	SectionDisclaimer
)

func (s Section) String() string {
	switch s {
	case SectionCover:
		return "cover"
	case SectionSummary:
		return "summary"
	case SectionFindings:
		return "findings"
	case SectionAppendix:
		return "appendix"
	case SectionDisclaimer:
		return "disclaimer"
	default:
		return "unknown"
	}
}

// Style is the font treatment of an instruction.
type Style struct {
	Bold bool
	Size float64
}

// Instruction draws Text with its baseline starting at (X, Y).
type Instruction struct {
	X     float64
	Y     float64
	Text  string
	Style Style
}

// Page is one page of instructions in drawing order.
type Page struct {
	Section      Section
	Instructions []Instruction
}

// Document is a fully paginated report ready to render.
type Document struct {
	Title  string
	Author string
	Pages  []Page
}

// Texts returns the text of every instruction on the page, in order.
func (p Page) Texts() []string {
	texts := make([]string, 0, len(p.Instructions))
	for _, in := range p.Instructions {
		texts = append(texts, in.Text)
	}
	return texts
}

// PagesIn returns the pages belonging to section.
func (d Document) PagesIn(section Section) []Page {
	var pages []Page
	for _, p := range d.Pages {
		if p.Section == section {
			pages = append(pages, p)
		}
	}
	return pages
}
