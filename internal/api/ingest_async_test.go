package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"paperdesk/internal/config"
	"paperdesk/internal/workflows"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
)

type stagedBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newStagedBlob() *stagedBlob {
	return &stagedBlob{objects: map[string][]byte{}}
}

func (b *stagedBlob) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return "mem://" + key, nil
}

func (b *stagedBlob) Download(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.objects[key], nil
}

func (b *stagedBlob) GetURL(_ context.Context, key string) (string, error) {
	return "mem://" + key, nil
}

func (b *stagedBlob) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

type fakeWorkflowRun struct {
	id    string
	runID string
}

func (r fakeWorkflowRun) GetID() string    { return r.id }
func (r fakeWorkflowRun) GetRunID() string { return r.runID }
func (r fakeWorkflowRun) Get(context.Context, interface{}) error {
	return nil
}
func (r fakeWorkflowRun) GetWithOptions(context.Context, interface{}, client.WorkflowRunGetOptions) error {
	return nil
}

type fakeEncodedValue struct {
	progress workflows.PaperIngestProgress
}

func (v fakeEncodedValue) HasValue() bool { return true }
func (v fakeEncodedValue) Get(valuePtr interface{}) error {
	*valuePtr.(*workflows.PaperIngestProgress) = v.progress
	return nil
}

type fakeWorkflowClient struct {
	mu          sync.Mutex
	startedOpts client.StartWorkflowOptions
	startedArgs []any
	queried     string
	progress    workflows.PaperIngestProgress
	queryErr    error
}

func (c *fakeWorkflowClient) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ any, args ...any) (client.WorkflowRun, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startedOpts = options
	c.startedArgs = args
	return fakeWorkflowRun{id: options.ID, runID: "run-1"}, nil
}

func (c *fakeWorkflowClient) QueryWorkflow(_ context.Context, workflowID, _, _ string, _ ...any) (converter.EncodedValue, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queried = workflowID
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	return fakeEncodedValue{progress: c.progress}, nil
}

func newAsyncTestServer(t *testing.T) (*Server, *fakeWorkflowClient, *stagedBlob) {
	t.Helper()
	wc := &fakeWorkflowClient{}
	blobs := newStagedBlob()
	cfg := &config.Config{
		APIAddr:           ":0",
		JWTSecret:         testSecret,
		MaxUploadBytes:    1 << 20,
		DefaultPageSize:   20,
		MaxPageSize:       100,
		TemporalTaskQueue: "paperdesk",
	}
	srv := NewServer(nil, nil, nil, nil, nil, nil, nil, wc, blobs, cfg, nil)
	return srv, wc, blobs
}

func multipartPDF(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "paper.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestIngestAsyncStagesPDFAndStartsWorkflow(t *testing.T) {
	srv, wc, blobs := newAsyncTestServer(t)
	body, contentType := multipartPDF(t, map[string]string{
		"target_language": "de",
		"include_summary": "true",
	})

	r := httptest.NewRequest(http.MethodPost, "/papers/ingestions", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	require.Equal(t, http.StatusAccepted, w.Code)

	var out struct {
		WorkflowID string `json:"workflow_id"`
		RunID      string `json:"run_id"`
		StagingKey string `json:"staging_key"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	require.True(t, strings.HasPrefix(out.WorkflowID, "paper-ingest-"))
	require.Equal(t, "run-1", out.RunID)
	require.True(t, strings.HasPrefix(out.StagingKey, "staging/"))

	staged, err := blobs.Download(context.Background(), out.StagingKey)
	require.NoError(t, err)
	require.Equal(t, []byte("%PDF-1.4 fake"), staged)

	require.Equal(t, "paperdesk", wc.startedOpts.TaskQueue)
	require.Len(t, wc.startedArgs, 1)
	input, ok := wc.startedArgs[0].(workflows.PaperIngestInput)
	require.True(t, ok)
	require.Equal(t, out.StagingKey, input.StagingKey)
	require.Equal(t, "de", input.TargetLanguage)
	require.True(t, input.IncludeSummary)
}

func TestIngestAsyncRequiresFile(t *testing.T) {
	srv, _, _ := newAsyncTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/papers/ingestions", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestAsyncUnavailableWithoutTemporal(t *testing.T) {
	srv, _ := newTestServer(t)
	body, contentType := multipartPDF(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/papers/ingestions", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestIngestProgressQueriesWorkflow(t *testing.T) {
	srv, wc, _ := newAsyncTestServer(t)
	wc.progress = workflows.PaperIngestProgress{
		StagingKey:  "staging/abc.pdf",
		CurrentStep: "persist",
		Steps:       map[string]string{"validate": "done", "extract": "done", "persist": "processing"},
	}

	r := httptest.NewRequest(http.MethodGet, "/papers/ingestions/paper-ingest-abc/progress", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "paper-ingest-abc", wc.queried)

	var progress workflows.PaperIngestProgress
	require.NoError(t, json.NewDecoder(w.Body).Decode(&progress))
	require.Equal(t, "persist", progress.CurrentStep)
	require.Equal(t, "done", progress.Steps["validate"])
}

func TestIngestProgressUnknownWorkflow(t *testing.T) {
	srv, wc, _ := newAsyncTestServer(t)
	wc.queryErr = context.DeadlineExceeded

	r := httptest.NewRequest(http.MethodGet, "/papers/ingestions/missing/progress", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, r)
	require.Equal(t, http.StatusNotFound, w.Code)
}
