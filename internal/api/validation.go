package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MaxReportPayloadBytes bounds an uploaded report when no limit is configured.
const MaxReportPayloadBytes = 2 * 1024 * 1024 // 2 MiB

// Rejection reasons, also used as metric labels.
const (
	ReasonEmpty         = "empty"
	ReasonTooLarge      = "too_large"
	ReasonInvalidJSON   = "invalid_json"
	ReasonNotObject     = "not_object"
	ReasonInvalidReport = "invalid_report"
)

// PayloadError describes why a request body was rejected.
type PayloadError struct {
	Reason  string
	Message string
}

func (e *PayloadError) Error() string {
	return e.Message
}

// ValidateReportPayload checks a raw report body before decoding: it must be
// non-empty, within limit bytes and a single JSON object.
func ValidateReportPayload(raw []byte, limit int64) error {
	if limit <= 0 {
		limit = MaxReportPayloadBytes
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return &PayloadError{Reason: ReasonEmpty, Message: "request body is required"}
	}
	if int64(len(raw)) > limit {
		return &PayloadError{Reason: ReasonTooLarge, Message: fmt.Sprintf("request body exceeds %d bytes", limit)}
	}
	if !json.Valid(trimmed) {
		return &PayloadError{Reason: ReasonInvalidJSON, Message: "request body must be valid JSON"}
	}
	if trimmed[0] != '{' {
		return &PayloadError{Reason: ReasonNotObject, Message: "request body must be a JSON object"}
	}
	return nil
}
