package layout

// flow is the layout cursor. Every step takes a flow and returns the
// advanced one; the pages slice is only ever appended to by the owner of
// the latest flow value.
type flow struct {
	pages   []Page
	section Section
	y       float64
}

func regular(size float64) Style { return Style{Size: size} }

func bold(size float64) Style { return Style{Bold: true, Size: size} }

// newPage starts a fresh page in section with the cursor at the body start.
func (f flow) newPage(section Section) flow {
	f.pages = append(f.pages, Page{Section: section})
	f.section = section
	f.y = BodyStartY
	return f
}

// text draws s at x on the current baseline without moving the cursor.
func (f flow) text(x float64, s string, style Style) flow {
	return f.textAt(x, f.y, s, style)
}

// textAt draws s at an absolute position on the current page.
func (f flow) textAt(x, y float64, s string, style Style) flow {
	last := len(f.pages) - 1
	page := f.pages[last]
	page.Instructions = append(page.Instructions, Instruction{X: x, Y: y, Text: s, Style: style})
	f.pages[last] = page
	return f
}

// down moves the cursor toward the bottom of the page.
func (f flow) down(dy float64) flow {
	f.y -= dy
	return f
}

// header starts a new page in section carrying a bold section title.
func (f flow) header(section Section, title string) flow {
	f = f.newPage(section)
	return f.textAt(MarginLeft, HeaderY, title, bold(SizeHeader))
}

// ensureSpace breaks to a continuation page when the cursor has dropped
// below MinY.
func (f flow) ensureSpace(section Section, title string) flow {
	if f.y >= MinY {
		return f
	}
	return f.header(section, title)
}
