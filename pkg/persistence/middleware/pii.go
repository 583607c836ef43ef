package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/ports"
)

const mask = "***"

type piiMiddleware struct {
	next     ports.JobStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks document metadata values
// matching the patterns before they reach the backend. Masking is one-way:
// loads return the masked values.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.JobStore) ports.JobStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, job *domain.Job) error {
	// Clone to avoid side effects on the in-memory job used by the service.
	cloned := *job
	cloned.Documents = make([]domain.Document, len(job.Documents))
	copy(cloned.Documents, job.Documents)

	for i := range cloned.Documents {
		d := &cloned.Documents[i]
		d.OriginalName = m.scrub(d.OriginalName)
		d.BrandName = m.scrub(d.BrandName)
		d.Usage = m.scrub(d.Usage)
	}
	cloned.Error = m.scrub(cloned.Error)

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id string) (*domain.Job, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) scrub(v string) string {
	for _, p := range m.patterns {
		v = p.ReplaceAllString(v, mask)
	}
	return v
}
