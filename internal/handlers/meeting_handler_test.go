package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/protocol"
	"github.com/xpanvictor/meetsec/internal/domains/secretary"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
	"github.com/xpanvictor/meetsec/pkg/Logger"
)

type fakeService struct {
	job      secretary.Job
	audio    []byte
	record   meeting.Record
	template []byte
	err      error
}

func (f *fakeService) Process(_ context.Context, job secretary.Job) (*secretary.Outcome, error) {
	f.job = job
	f.audio, _ = io.ReadAll(job.Audio)
	if f.err != nil {
		return nil, f.err
	}
	return &secretary.Outcome{
		RunID:    "run-1",
		Record:   meeting.Record{Summary: "итог"},
		Document: []byte("PK-doc"),
		Timings:  map[string]time.Duration{secretary.StageTotal: 1500 * time.Millisecond},
	}, nil
}

func (f *fakeService) Extract(_ context.Context, transcript string) (meeting.Record, error) {
	if f.err != nil {
		return meeting.Record{}, f.err
	}
	return meeting.Record{Transcript: transcript, Summary: "итог"}, nil
}

func (f *fakeService) Render(rec meeting.Record, template []byte) ([]byte, error) {
	f.record, f.template = rec, template
	if f.err != nil {
		return nil, f.err
	}
	return []byte("PK-rendered"), nil
}

func (f *fakeService) Publish(_ context.Context, rec meeting.Record) (*tracker.Result, error) {
	f.record = rec
	return &tracker.Result{Status: tracker.StatusSuccess, Tracker: "weeek"}, f.err
}

func newRouter(svc MeetingService, maxMB int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMeetingHandler(svc, maxMB, Logger.NewNop())
	r := gin.New()
	r.POST("/process", h.Process)
	r.POST("/extract", h.Extract)
	r.POST("/publish", h.Publish)
	r.POST("/render", h.Render)
	return r
}

type part struct {
	field, filename string
	data            []byte
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, w.WriteField(p.field, string(p.data)))
			continue
		}
		fw, err := w.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func do(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcessJSON(t *testing.T) {
	svc := &fakeService{}
	body, ct := multipartBody(t,
		part{"audio", "meeting.ogg", []byte("OggS")},
		part{"template", "tpl.docx", []byte("PK-tpl")},
		part{field: "publish", data: []byte("true")},
	)
	w := do(newRouter(svc, 10), http.MethodPost, "/process", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "meeting.ogg", svc.job.Filename)
	assert.Equal(t, []byte("OggS"), svc.audio)
	assert.Equal(t, []byte("PK-tpl"), svc.job.Template)
	assert.True(t, svc.job.Publish)

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, "итог", resp.Record.Summary)
	assert.Equal(t, []byte("PK-doc"), resp.Document)
	assert.Equal(t, int64(1500), resp.TimingsMs[secretary.StageTotal])
}

func TestProcessDocx(t *testing.T) {
	body, ct := multipartBody(t, part{"audio", "a.wav", []byte("RIFF")})
	w := do(newRouter(&fakeService{}, 10), http.MethodPost, "/process?format=docx", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, docxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"protocol_")
	assert.Equal(t, "PK-doc", w.Body.String())
}

func TestProcessValidation(t *testing.T) {
	noAudio, ct := multipartBody(t, part{field: "publish", data: []byte("true")})
	w := do(newRouter(&fakeService{}, 10), http.MethodPost, "/process", noAudio, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badFlag, ct := multipartBody(t, part{"audio", "a.wav", []byte("x")}, part{field: "publish", data: []byte("maybe")})
	w = do(newRouter(&fakeService{}, 10), http.MethodPost, "/process", badFlag, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid publish flag")
}

func TestProcessUploadTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte{1}, 2<<20)
	body, ct := multipartBody(t, part{"audio", "a.wav", big})
	w := do(newRouter(&fakeService{}, 1), http.MethodPost, "/process", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestProcessErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{fmt.Errorf("%w: %w", secretary.ErrProcessingFailed, secretary.ErrEmptyTranscript), http.StatusUnprocessableEntity, "Empty transcript"},
		{fmt.Errorf("%w: %w", secretary.ErrProcessingFailed, secretary.ErrNoAudio), http.StatusBadRequest, "Invalid audio"},
		{fmt.Errorf("%w: %w", secretary.ErrProcessingFailed, protocol.ErrInvalidTemplate), http.StatusBadRequest, "Invalid protocol template"},
		{fmt.Errorf("%w: %w", secretary.ErrProcessingFailed, errors.New("whisper down")), http.StatusInternalServerError, "Meeting processing failed"},
	}
	for _, tt := range tests {
		body, ct := multipartBody(t, part{"audio", "a.wav", []byte("x")})
		w := do(newRouter(&fakeService{err: tt.err}, 10), http.MethodPost, "/process", body, ct)
		assert.Equal(t, tt.status, w.Code, tt.msg)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, tt.msg, resp.Error)
		assert.Equal(t, tt.err.Error(), resp.Details)
	}
}

func TestExtract(t *testing.T) {
	w := do(newRouter(&fakeService{}, 10), http.MethodPost, "/extract", strings.NewReader(`{"transcript":"текст"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "текст", resp.Record.Transcript)

	w = do(newRouter(&fakeService{}, 10), http.MethodPost, "/extract", strings.NewReader(`{}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishRevalidatesRecord(t *testing.T) {
	svc := &fakeService{}
	w := do(newRouter(svc, 10), http.MethodPost, "/publish",
		strings.NewReader(`{"summary":"ok","tasks":[{"title":"A"}],"valid":true}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.record.Valid)
	assert.NotNil(t, svc.record.Decisions)

	var resp PublishResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, tracker.StatusSuccess, resp.Tracker.Status)
}

func TestRender(t *testing.T) {
	svc := &fakeService{}
	body, ct := multipartBody(t, part{field: "record", data: []byte(`{"summary":"итог"}`)})
	w := do(newRouter(svc, 10), http.MethodPost, "/render", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PK-rendered", w.Body.String())
	assert.Equal(t, "итог", svc.record.Summary)
	assert.True(t, svc.record.Valid)
	assert.Nil(t, svc.template)

	body, ct = multipartBody(t, part{field: "record", data: []byte(`{"summary":`)})
	w = do(newRouter(svc, 10), http.MethodPost, "/render", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct = multipartBody(t, part{"template", "t.docx", []byte("x")})
	w = do(newRouter(svc, 10), http.MethodPost, "/render", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", NewHealthHandler("jira").Health)
	w := do(r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","tracker":"jira"}`, w.Body.String())
}
