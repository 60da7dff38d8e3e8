package storage

import (
	"context"
	"errors"

	"github.com/grace-raper/cbs-pickems-agent/internal/pkg/models"
)

// ErrDocumentNotFound reports a missing required input document, distinct
// from a malformed one and from an empty schedule.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore persists schedule and prediction documents. Documents are
// immutable: saving writes a whole new document, never a partial update.
type DocumentStore interface {
	// SaveSchedule writes the schedule document, creating parent directories.
	SaveSchedule(path string, schedule *models.Schedule) error

	// LoadSchedule reads a schedule document. Returns ErrDocumentNotFound
	// when the file does not exist.
	LoadSchedule(path string) (*models.Schedule, error)

	// SavePredictions writes the flat picks array next to the schedule.
	SavePredictions(path string, predictions models.Predictions) error

	// LoadPredictions reads a picks document.
	LoadPredictions(path string) (models.Predictions, error)
}

// Archive keeps historical copies of capture runs in a database. Optional:
// the file store remains the document of record.
type Archive interface {
	ArchiveSchedule(ctx context.Context, schedule *models.Schedule) error
	ArchivePredictions(ctx context.Context, schedule *models.Schedule, predictions models.Predictions) error
	Close() error
}
