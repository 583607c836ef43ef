package domain

import "errors"

// ErrJobNotFound is returned when a job ID cannot be found in the store.
var ErrJobNotFound = errors.New("job not found")

// ErrNoDocuments is returned when indexing is requested for a job whose spool
// directory contains no eligible documents.
var ErrNoDocuments = errors.New("no documents to index")

// ErrEmptyScript is returned when a narrator is built without any lines.
var ErrEmptyScript = errors.New("narration script is empty")
