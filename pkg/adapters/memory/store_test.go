package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/scribe/pkg/adapters/memory"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunJobStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	job := domain.NewJob("job-1", "/tmp/spool/job-1")
	job.Documents = []domain.Document{{Name: "a.pdf"}}
	require.NoError(t, store.Save(ctx, job))

	// Mutating the original after Save must not affect the stored copy.
	job.Documents[0].Name = "mutated.pdf"
	job.Status = domain.JobFailed

	loaded, err := store.Load(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", loaded.Documents[0].Name)
	assert.Equal(t, domain.JobReceived, loaded.Status)

	// Mutating a loaded copy must not leak back either.
	loaded.Documents[0].Name = "leaked.pdf"
	again, err := store.Load(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", again.Documents[0].Name)
}

func TestScriptLoader(t *testing.T) {
	ctx := context.Background()

	_, err := memory.NewScriptLoader(nil).Load(ctx)
	assert.ErrorIs(t, err, domain.ErrEmptyScript)

	loader := memory.NewScriptLoader(domain.NewScript("one", "two"))
	script, err := loader.Load(ctx)
	require.NoError(t, err)
	require.Len(t, script, 2)
	assert.Equal(t, "one", script[0].Text)
}
