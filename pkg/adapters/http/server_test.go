package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/scribe/internal/ingest"
	"github.com/aretw0/scribe/pkg/adapters/memory"
	"github.com/aretw0/scribe/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leafletText = `Brand name: Nasonex
Usage: Relief of seasonal allergic rhinitis.
Shake well before each use. Consult your physician if symptoms persist.`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()

	service := ingest.NewService(memory.NewStore(), t.TempDir())
	handler, err := NewHandler(service, opts...)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(t *testing.T, srv *httptest.Server, files map[string]string) map[string]any {
	t.Helper()

	body, contentType := multipartBody(t, files)
	resp, err := http.Post(srv.URL+"/upload", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
}

func TestServer_Info(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "scribe-http", out["app"])
	assert.NotEmpty(t, out["api_version"], "version should come from the embedded spec")
}

func TestServer_Upload(t *testing.T) {
	srv := newTestServer(t)

	out := postUpload(t, srv, map[string]string{
		"leaflet.pdf": leafletText,
		"notes.txt":   "not a pdf",
	})

	assert.Equal(t, "ok", out["status"])
	assert.Len(t, out["job_id"], 32, "job IDs are 32 hex chars")

	saved, ok := out["saved"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"leaflet.pdf"}, saved)

	rejected, ok := out["rejected"].([]any)
	require.True(t, ok)
	require.Len(t, rejected, 1)
	entry := rejected[0].(map[string]any)
	assert.Equal(t, "notes.txt", entry["file"])
	assert.Equal(t, "Only PDF allowed", entry["reason"])
}

func TestServer_UploadRequiresFilesKey(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("documents", "leaflet.pdf")
	require.NoError(t, err)
	_, _ = io.WriteString(part, leafletText)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/upload", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Use multipart key 'files'", out["message"])
}

func TestServer_UploadRejectsNonMultipart(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/upload", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UpsertFlow(t *testing.T) {
	srv := newTestServer(t)

	out := postUpload(t, srv, map[string]string{"leaflet.pdf": leafletText})
	jobID := out["job_id"].(string)

	resp, err := http.Post(srv.URL+"/upsert/"+jobID, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var upsert map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&upsert))
	assert.Equal(t, "ok", upsert["status"])
	assert.Equal(t, "Upsert completed", upsert["message"])
	assert.Equal(t, jobID, upsert["job_id"])
	assert.Equal(t, float64(1), upsert["pdf_count"])
	assert.GreaterOrEqual(t, upsert["chunks"], float64(1))

	// The indexed job is queryable afterwards.
	jobResp, err := http.Get(srv.URL + "/jobs/" + jobID)
	require.NoError(t, err)
	defer jobResp.Body.Close()
	require.Equal(t, http.StatusOK, jobResp.StatusCode)

	var job map[string]any
	require.NoError(t, json.NewDecoder(jobResp.Body).Decode(&job))
	assert.Equal(t, "indexed", job["status"])
	docs := job["documents"].([]any)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "Nasonex", doc["brand_name"])
	assert.Equal(t, "Relief of seasonal allergic rhinitis.", doc["usage"])
}

func TestServer_UpsertUnknownJob(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/upsert/deadbeef", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Invalid job_id", out["message"])
}

func TestServer_UpsertEmptyJob(t *testing.T) {
	srv := newTestServer(t)

	// Every file rejected: the job exists but holds no PDFs.
	out := postUpload(t, srv, map[string]string{"notes.txt": "plain text"})
	jobID := out["job_id"].(string)

	resp, err := http.Post(srv.URL+"/upsert/"+jobID, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ListJobs(t *testing.T) {
	srv := newTestServer(t)

	first := postUpload(t, srv, map[string]string{"a.pdf": "alpha"})
	second := postUpload(t, srv, map[string]string{"b.pdf": "beta"})

	resp, err := http.Get(srv.URL + "/jobs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.ElementsMatch(t, []string{first["job_id"].(string), second["job_id"].(string)}, out["jobs"])
}

func TestServer_GetJobNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/jobs/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_OpenAPISpecServed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Scribe Ingestion API")
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/upload", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	srv := newTestServer(t, WithMetrics(metrics), WithGatherer(reg))

	postUpload(t, srv, map[string]string{"a.pdf": "alpha"})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "scribe_uploads_total 1")
	assert.Contains(t, string(body), "scribe_http_requests_total")
}
