package middleware_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/aretw0/scribe/pkg/adapters/memory"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestEncryption_RoundTrip(t *testing.T) {
	backend := memory.NewStore()
	key := newKey(t)
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(backend)

	ctx := context.Background()
	job := domain.NewJob("job-enc", "/tmp/spool/job-enc")
	job.Documents = []domain.Document{{Name: "amoxil.pdf", BrandName: "Amoxil", Usage: "antibiotic"}}
	require.NoError(t, store.Save(ctx, job))

	// Backend sees only the opaque envelope.
	raw, err := backend.Load(ctx, "job-enc")
	require.NoError(t, err)
	assert.Empty(t, raw.Documents)
	assert.Empty(t, raw.Dir)
	assert.NotContains(t, raw.Error, "Amoxil")

	// Load decrypts transparently.
	loaded, err := store.Load(ctx, "job-enc")
	require.NoError(t, err)
	require.Len(t, loaded.Documents, 1)
	assert.Equal(t, "Amoxil", loaded.Documents[0].BrandName)
	assert.Equal(t, "/tmp/spool/job-enc", loaded.Dir)
}

func TestEncryption_KeyRotation(t *testing.T) {
	backend := memory.NewStore()
	oldKey := newKey(t)
	newActive := newKey(t)
	ctx := context.Background()

	// Written under the old key.
	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(backend)
	require.NoError(t, oldStore.Save(ctx, domain.NewJob("job-rot", "")))

	// Readable after rotation when the old key is listed as fallback.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newActive,
		FallbackKeys: [][]byte{oldKey},
	})(backend)

	loaded, err := rotated.Load(ctx, "job-rot")
	require.NoError(t, err)
	assert.Equal(t, "job-rot", loaded.ID)

	// Without the fallback, decryption fails.
	noFallback := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newActive})(backend)
	_, err = noFallback.Load(ctx, "job-rot")
	assert.Error(t, err)
}

func TestEncryption_RejectsPlainJobs(t *testing.T) {
	backend := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, domain.NewJob("plain", "")))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey(t)})(backend)
	_, err := store.Load(ctx, "plain")
	assert.Error(t, err, "fail secure on non-envelope data")
}

func TestPII_MasksDocumentMetadata(t *testing.T) {
	backend := memory.NewStore()
	store := middleware.NewPIIMiddleware([]string{
		`[\w.+-]+@[\w-]+\.[\w.]+`, // email addresses
		`\b\d{9}\b`,               // bare patient numbers
	})(backend)

	ctx := context.Background()
	job := domain.NewJob("job-pii", "")
	job.Documents = []domain.Document{{
		Name:         "report.pdf",
		OriginalName: "report for jane.doe@example.com.pdf",
		Usage:        "Patient 123456789 takes twice daily",
	}}
	require.NoError(t, store.Save(ctx, job))

	stored, err := backend.Load(ctx, "job-pii")
	require.NoError(t, err)
	assert.Equal(t, "report for ***", stored.Documents[0].OriginalName,
		"greedy match swallows the trailing extension too")
	assert.Equal(t, "Patient *** takes twice daily", stored.Documents[0].Usage)

	// The in-memory job passed to Save is untouched.
	assert.Contains(t, job.Documents[0].OriginalName, "jane.doe@example.com")
}

func TestChain_Order(t *testing.T) {
	backend := memory.NewStore()
	store := middleware.Chain(backend,
		middleware.NewPIIMiddleware([]string{`secret`}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: newKey(t)}),
	)

	ctx := context.Background()
	job := domain.NewJob("job-chain", "")
	job.Documents = []domain.Document{{Name: "a.pdf", BrandName: "secret brand"}}
	require.NoError(t, store.Save(ctx, job))

	// Masked before encryption, so the decrypted view is masked too.
	loaded, err := store.Load(ctx, "job-chain")
	require.NoError(t, err)
	assert.Equal(t, "*** brand", loaded.Documents[0].BrandName)

	// And the backend never saw the plaintext.
	raw, err := backend.Load(ctx, "job-chain")
	require.NoError(t, err)
	assert.NotContains(t, raw.Error, "secret")
}
