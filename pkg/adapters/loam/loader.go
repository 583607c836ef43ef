// Package loam adapts the Loam library to the Scribe ScriptLoader interface.
// Narration lines live as markdown files with YAML frontmatter, so the
// overlay copy can be edited (and hot-reloaded) without recompiling.
package loam

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/scribe/pkg/domain"
)

// Loader implements ports.ScriptLoader over a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[LineMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[LineMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a Loam repository at path and wraps it in a Loader.
// Strict mode keeps frontmatter numeric types consistent; read-only mode
// avoids Loam's sandbox behavior in dev mode, since the loader never writes.
func Open(path string) (*Loader, error) {
	repo, err := loam.Init(path,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[LineMetadata](repo)), nil
}

// Load reads every line document, drops disabled ones, and returns the
// script sorted by frontmatter order.
func (l *Loader) Load(ctx context.Context) (domain.Script, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type entry struct {
		id    string
		order int
		line  domain.Line
	}

	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Disabled {
			continue
		}

		text := strings.TrimSpace(doc.Content)
		if text == "" {
			continue
		}
		// A narration line is a single line; keep only the first one so
		// stray markdown body text cannot break the overlay.
		if i := strings.IndexAny(text, "\r\n"); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}

		line := domain.Line{Text: text}
		if doc.Data.Pause != "" {
			pause, err := time.ParseDuration(doc.Data.Pause)
			if err != nil {
				return nil, fmt.Errorf("invalid pause %q in %s: %w", doc.Data.Pause, doc.ID, err)
			}
			line.Pause = pause
		}

		entries = append(entries, entry{id: doc.ID, order: doc.Data.Order, line: line})
	}

	if len(entries) == 0 {
		return nil, domain.ErrEmptyScript
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id < entries[j].id
	})

	script := make(domain.Script, 0, len(entries))
	for _, e := range entries {
		script = append(script, e.line)
	}
	return script, nil
}

// Watch implements ports.Watchable for hot reload of narration copy.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce: a pending notification is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
