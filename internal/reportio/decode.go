// Package reportio reads reports from bytes, files and directories.
package reportio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cybrain/reportbuilder/internal/models"
)

// ErrEmptyInput is returned when there is nothing to decode.
var ErrEmptyInput = errors.New("empty input")

// DecodeError reports a payload that could not be decoded as a report.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid report: %v", e.Err)
	}
	return fmt.Sprintf("invalid report %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses data as a report in the given format. Absent or null
// containers decode as empty.
func Decode(data []byte, format Format) (models.Report, error) {
	var report models.Report
	if len(bytes.TrimSpace(data)) == 0 {
		return report, &DecodeError{Err: ErrEmptyInput}
	}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &report)
	default:
		err = json.Unmarshal(data, &report)
	}
	if err != nil {
		return models.Report{}, &DecodeError{Err: err}
	}
	return report, nil
}

// Read decodes a report from r. The format is sniffed from the content.
func Read(r io.Reader, source string) (models.Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	report, err := Decode(data, DetectFormat(data))
	return report, withSource(err, source)
}

// LoadFile decodes the report at path. A path of "-" reads standard input.
func LoadFile(path string) (models.Report, error) {
	if path == "-" {
		return Read(os.Stdin, "stdin")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Report{}, fmt.Errorf("failed to read file: %w", err)
	}

	report, err := Decode(data, FormatFromPath(path))
	return report, withSource(err, path)
}

func withSource(err error, source string) error {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		decodeErr.Source = source
	}
	return err
}
