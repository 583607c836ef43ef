package ports

import (
	"context"

	"github.com/aretw0/scribe/pkg/domain"
)

// JobStore defines the interface for persisting ingestion jobs.
// This allows upload and indexing to run on different replicas.
type JobStore interface {
	// Save persists the job, keyed by job.ID.
	Save(ctx context.Context, job *domain.Job) error

	// Load retrieves a job by ID.
	// Returns domain.ErrJobNotFound if the job does not exist.
	Load(ctx context.Context, id string) (*domain.Job, error)

	// Delete removes the job.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all known jobs.
	List(ctx context.Context) ([]string, error)
}
