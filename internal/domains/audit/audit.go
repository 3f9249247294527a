package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/xpanvictor/meetsec/internal/domains/meeting"
	"github.com/xpanvictor/meetsec/internal/domains/tracker"
)

const keyLayout = "20060102_150405"

// Metadata describes one processing run.
type Metadata struct {
	RunID       string           `json:"run_id"`
	Timestamp   time.Time        `json:"timestamp"`
	AudioFile   string           `json:"audio_file,omitempty"`
	Transcriber string           `json:"transcriber,omitempty"`
	Extractor   string           `json:"extractor,omitempty"`
	Valid       bool             `json:"valid"`
	TimingsMs   map[string]int64 `json:"timings_ms,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Entry is the audit dump of a run: metadata, the extracted record and the
// tracker outcome when publishing happened.
type Entry struct {
	Metadata Metadata        `json:"metadata"`
	Record   meeting.Record  `json:"record"`
	Tracker  *tracker.Result `json:"tracker,omitempty"`
}

// Key is the timestamp key entries are stored under.
func (e Entry) Key() string {
	return e.Metadata.Timestamp.Format(keyLayout)
}

func (e Entry) JSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Timings converts stage durations to milliseconds.
func Timings(in map[string]time.Duration) map[string]int64 {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v.Milliseconds()
	}
	return out
}

// Sink persists audit entries. Write failures never fail a run; callers
// log them.
type Sink interface {
	Name() string
	Write(ctx context.Context, e Entry) error
}
