package reporter

import (
	"encoding/json"
	"io"

	"github.com/cybrain/reportbuilder/internal/models"
)

// JSONReporter generates machine-readable summaries
type JSONReporter struct {
	writer io.Writer
	pretty bool
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(writer io.Writer, pretty bool) *JSONReporter {
	return &JSONReporter{
		writer: writer,
		pretty: pretty,
	}
}

// Generate writes summary as JSON
func (r *JSONReporter) Generate(summary models.Summary) error {
	return r.write(summary)
}

// GenerateBatch writes one summary per source path
func (r *JSONReporter) GenerateBatch(summaries map[string]models.Summary) error {
	return r.write(summaries)
}

func (r *JSONReporter) write(v interface{}) error {
	var data []byte
	var err error

	if r.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = r.writer.Write(data)
	if err != nil {
		return err
	}

	// Add trailing newline for terminal output
	_, err = r.writer.Write([]byte("\n"))
	return err
}
