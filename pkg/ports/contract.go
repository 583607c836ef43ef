package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJobStoreContract runs a suite of tests to verify that a JobStore
// implementation adheres to the defined interface contract.
func RunJobStoreContract(t *testing.T, store JobStore) {
	ctx := context.Background()
	jobID := "contract-test-job-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		job := domain.NewJob(jobID, "/tmp/spool/"+jobID)
		job.Documents = append(job.Documents, domain.Document{
			Name:           "amoxil.pdf",
			OriginalName:   "Amoxil 500mg.pdf",
			Size:           1024,
			NormalizedName: "amoxil-500mg",
		})

		err := store.Save(ctx, job)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, jobID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, job.ID, loaded.ID)
		assert.Equal(t, domain.JobReceived, loaded.Status)
		require.Len(t, loaded.Documents, 1)
		assert.Equal(t, "amoxil-500mg", loaded.Documents[0].NormalizedName)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+jobID)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		job := domain.NewJob(jobID, "")
		job.Status = domain.JobIndexed
		job.Chunks = 12

		require.NoError(t, store.Save(ctx, job))

		loaded, err := store.Load(ctx, jobID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobIndexed, loaded.Status)
		assert.Equal(t, 12, loaded.Chunks)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewJob(jobID, "")))

		err := store.Delete(ctx, jobID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, jobID)
		assert.ErrorIs(t, err, domain.ErrJobNotFound, "Load after Delete should return ErrJobNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := jobID + "-1"
		id2 := jobID + "-2"
		_ = store.Save(ctx, domain.NewJob(id1, ""))
		_ = store.Save(ctx, domain.NewJob(id2, ""))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		jobs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, jobs, id1)
		assert.Contains(t, jobs, id2)
	})
}
