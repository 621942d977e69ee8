package port

import (
	"context"
	"errors"

	"github.com/rl1809/vending/internal/core/domain"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotStore interface {
	// Save replaces the stored snapshot of a machine
	Save(ctx context.Context, machineID string, snapshot domain.Snapshot) error

	// Load returns ErrSnapshotNotFound when nothing was saved yet
	Load(ctx context.Context, machineID string) (domain.Snapshot, error)
}
