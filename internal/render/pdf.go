// Package render draws laid-out documents as PDF.
package render

import (
	"bytes"
	"fmt"
	"time"

	gofpdf "github.com/go-pdf/fpdf"

	"github.com/cybrain/reportbuilder/internal/layout"
	"github.com/cybrain/reportbuilder/internal/models"
)

// DefaultFilename is the suggested name for a delivered report.
const DefaultFilename = "CyBrain_Report.pdf"

const (
	creator    = "CyBrain Report Builder"
	fontFamily = "Helvetica"
)

// Options controls PDF output.
type Options struct {
	// Compress enables stream compression. Uncompressed output keeps page
	// text searchable in the raw bytes.
	Compress bool
	// CreatedAt is written as the creation and modification date. The zero
	// value means the Unix epoch, which keeps output byte-identical across
	// runs.
	CreatedAt time.Time
}

// DefaultOptions returns compressed output with a fixed timestamp.
func DefaultOptions() Options {
	return Options{Compress: true}
}

func (o Options) createdAt() time.Time {
	if o.CreatedAt.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return o.CreatedAt
}

// PDF draws doc and returns the finished file. Nothing is returned unless
// the whole document was written successfully.
func PDF(doc layout.Document, opts Options) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(opts.Compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(opts.createdAt())
	pdf.SetModificationDate(opts.createdAt())
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator(creator, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, in := range page.Instructions {
			style := ""
			if in.Style.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, in.Style.Size)
			pdf.Text(in.X, layout.PageHeight-in.Y, tr(in.Text))
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to draw document: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Report lays out report and draws it.
func Report(report models.Report, opts Options) ([]byte, error) {
	return PDF(layout.Build(report), opts)
}
