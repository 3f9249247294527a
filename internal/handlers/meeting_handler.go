package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/protocol"
	"github.com/xpanvictor/meetsec/internal/domains/secretary"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/pkg/Logger"
	"github.com/xpanvictor/meetsec/pkg/io/stt"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// MeetingService is the orchestrator surface the HTTP layer needs.
type MeetingService interface {
	Process(ctx context.Context, job secretary.Job) (*secretary.Outcome, error)
	Extract(ctx context.Context, transcript string) (meeting.Record, error)
	Render(rec meeting.Record, template []byte) ([]byte, error)
	Publish(ctx context.Context, rec meeting.Record) (*tracker.Result, error)
}

// MeetingHandler handles meeting processing requests
type MeetingHandler struct {
	svc       MeetingService
	maxUpload int64
	logger    *Logger.Logger
}

func NewMeetingHandler(svc MeetingService, maxUploadMB int64, logger *Logger.Logger) *MeetingHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 200
	}
	return &MeetingHandler{
		svc:       svc,
		maxUpload: maxUploadMB << 20,
		logger:    logger,
	}
}

// Process handles a full pipeline run
// @Summary Process a meeting recording
// @Description Transcribe the audio, extract the meeting record, render the protocol and optionally publish tasks
// @Tags Meetings
// @Accept multipart/form-data
// @Produce json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param audio formData file true "Meeting audio"
// @Param template formData file false "DOCX protocol template"
// @Param publish formData bool false "Create tracker tasks"
// @Param format query string false "Response format: json (default) or docx"
// @Success 200 {object} ProcessResponse "Processing outcome"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 413 {object} ErrorResponse "Upload too large"
// @Failure 422 {object} ErrorResponse "Audio contains no speech"
// @Failure 500 {object} ErrorResponse "Processing failed"
// @Router /meetings/process [post]
func (h *MeetingHandler) Process(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := c.FormFile("audio")
	if err != nil {
		h.badUpload(c, "Audio file is required", err)
		return
	}
	audio, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable audio file", Details: err.Error()})
		return
	}
	defer audio.Close()

	template, err := optionalFile(c, "template")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable template file", Details: err.Error()})
		return
	}

	publish := false
	if raw := c.PostForm("publish"); raw != "" {
		if publish, err = strconv.ParseBool(raw); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid publish flag", Details: err.Error()})
			return
		}
	}

	out, err := h.svc.Process(c.Request.Context(), secretary.Job{
		Audio:    audio,
		Filename: fh.Filename,
		Publish:  publish,
		Template: template,
	})
	if err != nil {
		h.fail(c, "process", err)
		return
	}

	if c.Query("format") == "docx" {
		sendDocx(c, out.Document)
		return
	}
	c.JSON(http.StatusOK, ProcessResponse{
		RunID:     out.RunID,
		Record:    out.Record,
		Tracker:   out.Tracker,
		TimingsMs: audit.Timings(out.Timings),
		Document:  out.Document,
	})
}

// Extract handles analysis of a ready transcript
// @Summary Extract a meeting record
// @Description Analyse a transcript into a structured meeting record
// @Tags Meetings
// @Accept json
// @Produce json
// @Param request body ExtractRequest true "Transcript"
// @Success 200 {object} ExtractResponse "Meeting record"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 422 {object} ErrorResponse "Empty transcript"
// @Failure 500 {object} ErrorResponse "Processing failed"
// @Router /meetings/extract [post]
func (h *MeetingHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}
	rec, err := h.svc.Extract(c.Request.Context(), req.Transcript)
	if err != nil {
		h.fail(c, "extract", err)
		return
	}
	c.JSON(http.StatusOK, ExtractResponse{Record: rec})
}

// Publish handles task creation for an existing record
// @Summary Publish a meeting record
// @Description Create the summary task and one task per meeting task in the configured tracker
// @Tags Meetings
// @Accept json
// @Produce json
// @Param request body meeting.Record true "Meeting record"
// @Success 200 {object} PublishResponse "Tracker result"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Publishing failed"
// @Router /meetings/publish [post]
func (h *MeetingHandler) Publish(c *gin.Context) {
	var rec meeting.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data", Details: err.Error()})
		return
	}
	res, err := h.svc.Publish(c.Request.Context(), withValidation(rec))
	if err != nil {
		h.fail(c, "publish", err)
		return
	}
	c.JSON(http.StatusOK, PublishResponse{Tracker: res})
}

// Render handles protocol rendering for an existing record
// @Summary Render a protocol
// @Description Render a meeting record into a DOCX protocol
// @Tags Protocols
// @Accept multipart/form-data
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param record formData string true "Meeting record JSON"
// @Param template formData file false "DOCX protocol template"
// @Success 200 {file} file "Protocol document"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Rendering failed"
// @Router /protocols/render [post]
func (h *MeetingHandler) Render(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	raw := c.PostForm("record")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Record is required"})
		return
	}
	var rec meeting.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid record", Details: err.Error()})
		return
	}
	template, err := optionalFile(c, "template")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Unreadable template file", Details: err.Error()})
		return
	}

	doc, err := h.svc.Render(withValidation(rec), template)
	if err != nil {
		h.fail(c, "render", err)
		return
	}
	sendDocx(c, doc)
}

// fail maps pipeline errors to responses. The orchestrator always wraps
// ErrProcessingFailed, so the cause decides the status code.
func (h *MeetingHandler) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	msg := "Meeting processing failed"
	switch {
	case errors.Is(err, secretary.ErrNoAudio), errors.Is(err, stt.ErrAudioNotFound), errors.Is(err, stt.ErrDecodeFailed):
		status, msg = http.StatusBadRequest, "Invalid audio"
	case errors.Is(err, secretary.ErrEmptyTranscript):
		status, msg = http.StatusUnprocessableEntity, "Empty transcript"
	case errors.Is(err, protocol.ErrInvalidTemplate):
		status, msg = http.StatusBadRequest, "Invalid protocol template"
	default:
		h.logger.Errorf("%s error: %v", op, err)
	}
	c.JSON(status, ErrorResponse{Error: msg, Details: err.Error()})
}

func (h *MeetingHandler) badUpload(c *gin.Context, msg string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "Upload too large",
			Details: fmt.Sprintf("limit is %d MB", h.maxUpload>>20),
		})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Details: err.Error()})
}

func optionalFile(c *gin.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return readFile(fh)
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// withValidation recomputes Valid; client supplied flags are not trusted.
func withValidation(rec meeting.Record) meeting.Record {
	rec = rec.Normalize()
	rec.Valid = meeting.Validate(rec)
	return rec
}

func sendDocx(c *gin.Context, doc []byte) {
	name := fmt.Sprintf("protocol_%s.docx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, docxContentType, doc)
}
