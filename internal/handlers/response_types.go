package handlers

import (
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
)

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Meeting processing failed"`
	Details string `json:"details,omitempty" example:"transcribe: empty transcript"`
}

// ProcessResponse is the JSON outcome of a full pipeline run. Document holds
// the DOCX protocol, base64 encoded.
type ProcessResponse struct {
	RunID     string           `json:"run_id" example:"7d7b9c1e-6f0e-4f38-9a53-1f3c0b8a2d11"`
	Record    meeting.Record   `json:"record"`
	Tracker   *tracker.Result  `json:"tracker,omitempty"`
	TimingsMs map[string]int64 `json:"timings_ms"`
	Document  []byte           `json:"document,omitempty" swaggertype:"string" format:"base64"`
}

// ExtractRequest carries a ready transcript.
type ExtractRequest struct {
	Transcript string `json:"transcript" binding:"required" example:"Иванов: предлагаю начать с API..."`
}

type ExtractResponse struct {
	Record meeting.Record `json:"record"`
}

type PublishResponse struct {
	Tracker *tracker.Result `json:"tracker"`
}

type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Tracker string `json:"tracker,omitempty" example:"weeek"`
}
