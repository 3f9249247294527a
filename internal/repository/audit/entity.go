package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/meetsec/internal/domains/audit"
	"gorm.io/gorm"
)

// AuditEntity is one row of meeting_audits. The full entry is kept as JSON;
// a few fields are lifted into columns for querying.
type AuditEntity struct {
	ID            uuid.UUID `gorm:"primaryKey;type:char(36);not null"`
	RunID         string    `gorm:"column:run_id;type:varchar(64);index"`
	Key           string    `gorm:"column:entry_key;type:varchar(32);index"`
	AudioFile     string    `gorm:"column:audio_file;type:varchar(512)"`
	Valid         bool      `gorm:"column:valid"`
	TaskCount     int       `gorm:"column:task_count"`
	TrackerStatus string    `gorm:"column:tracker_status;type:varchar(16)"`
	Payload       string    `gorm:"column:payload;type:longtext;not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime(3)"`
}

func (AuditEntity) TableName() string {
	return "meeting_audits"
}

func (a *AuditEntity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func NewAuditEntityFromDomain(e audit.Entry) (*AuditEntity, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit entry: %w", err)
	}
	entity := &AuditEntity{
		RunID:     e.Metadata.RunID,
		Key:       e.Key(),
		AudioFile: e.Metadata.AudioFile,
		Valid:     e.Metadata.Valid,
		TaskCount: len(e.Record.Tasks),
		Payload:   string(payload),
	}
	if id, err := uuid.Parse(e.Metadata.RunID); err == nil {
		entity.ID = id
	}
	if e.Tracker != nil {
		entity.TrackerStatus = string(e.Tracker.Status)
	}
	return entity, nil
}

func (a *AuditEntity) ToDomain() (audit.Entry, error) {
	var e audit.Entry
	if err := json.Unmarshal([]byte(a.Payload), &e); err != nil {
		return audit.Entry{}, fmt.Errorf("failed to decode audit entry %s: %w", a.ID, err)
	}
	return e, nil
}
