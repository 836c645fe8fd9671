package api

import (
	"context"
	"io"
	"net/http"

	"paperdesk/internal/service"
	"paperdesk/internal/workflows"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	"go.uber.org/zap"
)

// WorkflowClient is the slice of the Temporal client the async ingestion
// routes need; client.Client satisfies it.
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow any, args ...any) (client.WorkflowRun, error)
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...any) (converter.EncodedValue, error)
}

// handleIngestAsync stages the uploaded PDF under a fresh blob key and hands
// it to the durable ingestion workflow. The response carries the workflow
// identity for progress polling; the workflow deletes the staged object when
// it finishes.
func (s *Server) handleIngestAsync(w http.ResponseWriter, r *http.Request) {
	if s.temporal == nil || s.blobs == nil {
		s.respondError(w, http.StatusServiceUnavailable, "async ingestion not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart upload")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()
	pdfData, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "read upload")
		return
	}

	ingestID := uuid.NewString()
	stagingKey := "staging/" + ingestID + ".pdf"
	if _, err := s.blobs.Upload(r.Context(), stagingKey, "application/pdf", pdfData); err != nil {
		s.logger.Error("stage pdf", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), client.StartWorkflowOptions{
		ID:        "paper-ingest-" + ingestID,
		TaskQueue: s.config.TemporalTaskQueue,
	}, workflows.PaperIngestWorkflow, workflows.PaperIngestInput{
		StagingKey:              stagingKey,
		TargetLanguage:          r.FormValue("target_language"),
		IncludeSummary:          r.FormValue("include_summary") == "true",
		IncludeChapterSummaries: r.FormValue("include_chapter_summaries") == "true",
	})
	if err != nil {
		s.logger.Error("start ingest workflow", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
		"staging_key": stagingKey,
	})
}

func (s *Server) handleIngestProgress(w http.ResponseWriter, r *http.Request) {
	if s.temporal == nil {
		s.respondError(w, http.StatusServiceUnavailable, "async ingestion not configured")
		return
	}
	workflowID := chi.URLParam(r, "workflowID")
	resp, err := s.temporal.QueryWorkflow(r.Context(), workflowID, "", workflows.QueryGetProgress)
	if err != nil {
		s.respondServiceError(w, service.ErrNotFound)
		return
	}
	var progress workflows.PaperIngestProgress
	if err := resp.Get(&progress); err != nil {
		s.logger.Error("decode ingest progress", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusOK, progress)
}
