package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/ports"
	"github.com/google/uuid"
)

// MaxUploadBytes caps the total payload of a single upload request.
const MaxUploadBytes = 100 << 20 // 100MB

// lockTTL bounds how long an index build may hold the per-job lock.
const lockTTL = 5 * time.Minute

// Upload is one incoming file of an upload request.
type Upload struct {
	Name string
	Data io.Reader
}

// Rejected describes a file refused at upload time.
type Rejected struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Service owns the upload spool and the index build.
type Service struct {
	store   ports.JobStore
	locker  ports.DistributedLocker
	spool   string
	size    int
	overlap int
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Service.
type Option func(*Service)

// WithLocker enables distributed locking around index builds.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Service) { s.locker = l }
}

// WithChunking overrides the chunk size and overlap.
func WithChunking(size, overlap int) Option {
	return func(s *Service) {
		s.size = size
		s.overlap = overlap
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) { s.hooks = hooks }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an ingestion service spooling uploads under spoolDir.
func NewService(store ports.JobStore, spoolDir string, opts ...Option) *Service {
	s := &Service{
		store:   store,
		spool:   spoolDir,
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s
}

// CreateJob spools the uploaded files into a fresh per-job directory and
// records the job in the received state. Non-PDF files are rejected
// individually rather than failing the batch; name collisions within the job
// are resolved with _1, _2... suffixes.
func (s *Service) CreateJob(ctx context.Context, files []Upload) (*domain.Job, []Rejected, error) {
	jobID := strings.ReplaceAll(uuid.NewString(), "-", "")
	jobDir := filepath.Join(s.spool, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create job dir: %w", err)
	}

	job := domain.NewJob(jobID, jobDir)
	rejected := []Rejected{}

	for _, f := range files {
		if f.Name == "" || f.Data == nil {
			continue
		}

		name := SanitizeFilename(f.Name)
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			rejected = append(rejected, Rejected{File: f.Name, Reason: "Only PDF allowed"})
			continue
		}

		dst := filepath.Join(jobDir, name)
		dst = uniquePath(dst)

		size, err := spoolFile(dst, f.Data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to spool %s: %w", f.Name, err)
		}

		job.Documents = append(job.Documents, domain.Document{
			Name:         filepath.Base(dst),
			OriginalName: f.Name,
			Size:         size,
		})
	}

	if err := s.store.Save(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("failed to save job: %w", err)
	}

	s.logger.Info("job created", "job_id", jobID, "saved", len(job.Documents), "rejected", len(rejected))
	return job, rejected, nil
}

// Index builds the chunk index for a spooled job: extract document metadata,
// split into sentence-bounded chunks, persist the result, and remove the
// spool directory on success. Concurrent builds of the same job are excluded
// by the distributed lock when one is configured.
func (s *Service) Index(ctx context.Context, jobID string) (*domain.Job, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "index:"+jobID, lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock job %s: %w", jobID, err)
		}
		defer func() { _ = unlock(ctx) }()
	}

	job, err := s.store.Load(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Dir == "" {
		// Already indexed: spool directory is gone.
		return job, nil
	}

	pdfs, err := listPDFs(job.Dir)
	if err != nil {
		return nil, err
	}
	if len(pdfs) == 0 {
		return nil, domain.ErrNoDocuments
	}

	started := time.Now()
	job.Status = domain.JobIndexing
	if err := s.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	total := 0
	for _, path := range pdfs {
		doc, err := s.indexDocument(path)
		if err != nil {
			job.Status = domain.JobFailed
			job.Error = err.Error()
			_ = s.store.Save(ctx, job)
			return nil, err
		}
		total += doc.Chunks
		attachDocument(job, doc)
	}

	job.Status = domain.JobIndexed
	job.Chunks = total
	job.IndexedAt = time.Now().UTC()
	dir := job.Dir
	job.Dir = ""

	if err := s.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn("failed to remove job dir", "job_id", jobID, "err", err)
	}

	if s.hooks.OnJobIndexed != nil {
		s.hooks.OnJobIndexed(ctx, &domain.JobEvent{
			EventBase: domain.EventBase{Timestamp: time.Now().UTC(), Type: domain.EventJobIndexed},
			JobID:     jobID,
			Documents: len(job.Documents),
			Chunks:    total,
			Duration:  time.Since(started),
		})
	}

	s.logger.Info("job indexed", "job_id", jobID, "documents", len(job.Documents), "chunks", total)
	return job, nil
}

// Status returns the stored job.
func (s *Service) Status(ctx context.Context, jobID string) (*domain.Job, error) {
	return s.store.Load(ctx, jobID)
}

// List returns all known job IDs.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// indexDocument reads one spooled file and produces its enriched metadata.
// Documents are treated as UTF-8 text payloads; real PDF text extraction is
// out of scope here.
func (s *Service) indexDocument(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	text := string(data)
	name := filepath.Base(path)
	chunks := ChunkText(text, s.size, s.overlap)

	return domain.Document{
		Name:           name,
		Size:           int64(len(data)),
		BrandName:      ExtractBrandName(text, name),
		Usage:          ExtractUsage(text),
		NormalizedName: NormalizeName(name),
		Chunks:         len(chunks),
	}, nil
}

// attachDocument merges an indexed document into the job, matching by spooled
// name so upload-time fields (original name) survive.
func attachDocument(job *domain.Job, doc domain.Document) {
	for i := range job.Documents {
		if job.Documents[i].Name == doc.Name {
			doc.OriginalName = job.Documents[i].OriginalName
			job.Documents[i] = doc
			return
		}
	}
	job.Documents = append(job.Documents, doc)
}

func listPDFs(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, domain.ErrJobNotFound
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read job dir: %w", err)
	}

	var pdfs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			pdfs = append(pdfs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// uniquePath avoids overwrites inside the same job by appending _1, _2...
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func spoolFile(dst string, src io.Reader) (int64, error) {
	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, src)
	if err != nil {
		return 0, err
	}
	return n, f.Close()
}
