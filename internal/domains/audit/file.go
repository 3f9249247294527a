package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileSink writes one indented JSON file per run into a directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

func (f *FileSink) Name() string { return "file" }

// Path is where e is written.
func (f *FileSink) Path(e Entry) string {
	name := "meeting_" + e.Key()
	if e.Metadata.RunID != "" {
		name += "_" + shortID(e.Metadata.RunID)
	}
	return filepath.Join(f.dir, name+".json")
}

func (f *FileSink) Write(_ context.Context, e Entry) error {
	data, err := e.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create audit dir: %w", err)
	}
	if err := os.WriteFile(f.Path(e), data, 0o644); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
