package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

// FileAdapter keeps one JSON snapshot per machine in a directory.
type FileAdapter struct {
	dir string
}

func NewFileAdapter(dir string) *FileAdapter {
	if dir == "" {
		dir = ".vending"
	}
	return &FileAdapter{dir: dir}
}

func (f *FileAdapter) path(machineID string) string {
	return filepath.Join(f.dir, machineID+".json")
}

// Save writes to a temp file in the same directory and renames it over the old snapshot.
func (f *FileAdapter) Save(ctx context.Context, machineID string, snapshot domain.Snapshot) error {
	if machineID == "" {
		return errors.New("machine id cannot be empty")
	}
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, "tmp-"+machineID+"-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path(machineID)); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func (f *FileAdapter) Load(ctx context.Context, machineID string) (domain.Snapshot, error) {
	var snapshot domain.Snapshot

	data, err := os.ReadFile(f.path(machineID))
	if errors.Is(err, os.ErrNotExist) {
		return snapshot, port.ErrSnapshotNotFound
	}
	if err != nil {
		return snapshot, fmt.Errorf("read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snapshot); err != nil {
		return snapshot, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}
