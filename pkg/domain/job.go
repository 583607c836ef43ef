package domain

import "time"

// JobStatus defines the current stage of an upload batch.
type JobStatus string

const (
	JobReceived JobStatus = "received" // Files spooled to disk, not yet indexed
	JobIndexing JobStatus = "indexing" // Index build in progress
	JobIndexed  JobStatus = "indexed"  // Index built, spool directory removed
	JobFailed   JobStatus = "failed"   // Index build aborted
)

// Document describes a single uploaded file plus the metadata extracted from
// its content during indexing.
type Document struct {
	// Name is the sanitized filename the file was spooled under.
	Name string `json:"name"`

	// OriginalName is the client-supplied filename before sanitization.
	OriginalName string `json:"original_name"`

	// Size is the payload size in bytes.
	Size int64 `json:"size"`

	// BrandName is extracted from a leading "Brand name:" line, falling back
	// to a prettified filename.
	BrandName string `json:"brand_name,omitempty"`

	// Usage is the one-line "Usage:" summary, if present.
	Usage string `json:"usage,omitempty"`

	// NormalizedName is the lowercase slug used as a stable document key.
	NormalizedName string `json:"normalized_name,omitempty"`

	// Chunks is how many text chunks the document was split into.
	Chunks int `json:"chunks,omitempty"`
}

// Chunk is a slice of document text produced by the sentence splitter.
type Chunk struct {
	Document string `json:"document"` // NormalizedName of the owning document
	Ordinal  int    `json:"ordinal"`
	Text     string `json:"text"`
}

// Job represents one upload batch moving through the pipeline.
type Job struct {
	// ID is the hex job identifier assigned at upload time.
	ID string `json:"id"`

	// Dir is the spool directory holding the raw files until indexing.
	// Empty once the job has been indexed.
	Dir string `json:"dir,omitempty"`

	Status    JobStatus  `json:"status"`
	Documents []Document `json:"documents"`

	// Chunks is the total chunk count across all documents (set on index).
	Chunks int `json:"chunks"`

	// Error holds the failure reason when Status == JobFailed.
	Error string `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	IndexedAt time.Time `json:"indexed_at,omitzero"`
}

// NewJob creates a job in the received state.
func NewJob(id, dir string) *Job {
	return &Job{
		ID:        id,
		Dir:       dir,
		Status:    JobReceived,
		Documents: []Document{},
		CreatedAt: time.Now().UTC(),
	}
}
