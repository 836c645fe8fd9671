package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"paperdesk/internal/extraction"
	"paperdesk/internal/service"
	"paperdesk/internal/storage"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case service.IsValidation(err):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
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

	opts := service.IngestOptions{
		TargetLanguage:          r.FormValue("target_language"),
		IncludeSummary:          r.FormValue("include_summary") == "true",
		IncludeChapterSummaries: r.FormValue("include_chapter_summaries") == "true",
	}
	paper, err := s.ingestor.Ingest(r.Context(), pdfData, opts)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, paper)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Server) paperFilterFromQuery(r *http.Request) (storage.PaperFilter, error) {
	q := r.URL.Query()
	filter := storage.PaperFilter{
		Tags:      splitCSV(q.Get("tags")),
		Authors:   splitCSV(q.Get("authors")),
		PageToken: q.Get("page_token"),
		PageSize:  s.config.DefaultPageSize,
	}
	if raw := q.Get("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return filter, errors.New("page_size must be a positive integer")
		}
		filter.PageSize = n
	}
	if filter.PageSize > s.config.MaxPageSize {
		filter.PageSize = s.config.MaxPageSize
	}
	for param, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := q.Get(param)
		if raw == "" {
			continue
		}
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New(param + " must be RFC 3339")
		}
		*dst = &ts
	}
	return filter, nil
}

func (s *Server) handleListPapers(w http.ResponseWriter, r *http.Request) {
	filter, err := s.paperFilterFromQuery(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	papers, nextToken, err := s.papers.List(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"papers":          papers,
		"next_page_token": nextToken,
	})
}

func (s *Server) handleGetPaper(w http.ResponseWriter, r *http.Request) {
	detail, err := s.papers.Detail(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdatePaper(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	paper, err := s.papers.UpdateMeta(r.Context(), chi.URLParam(r, "paperID"), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, paper)
}

func (s *Server) handleDeletePaper(w http.ResponseWriter, r *http.Request) {
	if err := s.papers.Delete(r.Context(), chi.URLParam(r, "paperID")); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handlePaperFile(w http.ResponseWriter, r *http.Request) {
	url, err := s.papers.FileURL(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) handleListTranslationLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.translations.Languages(r.Context(), chi.URLParam(r, "paperID"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	if langs == nil {
		langs = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"languages": langs})
}

func (s *Server) handleGetTranslation(w http.ResponseWriter, r *http.Request) {
	t, err := s.translations.Get(r.Context(), chi.URLParam(r, "paperID"), chi.URLParam(r, "lang"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

type translateRequest struct {
	Language string `json:"language"`
}

func (s *Server) handleCreateTranslation(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := s.translations.GetOrCreate(r.Context(), chi.URLParam(r, "paperID"), req.Language)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.summaries.Get(r.Context(), chi.URLParam(r, "paperID"), chi.URLParam(r, "lang"))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sum)
}

type summarizeRequest struct {
	Language                string `json:"language"`
	IncludeChapterSummaries bool   `json:"include_chapter_summaries"`
}

func (s *Server) handleCreateSummary(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sum, err := s.summaries.GetOrCreate(r.Context(), chi.URLParam(r, "paperID"), extraction.SummaryOptions{
		Language:                req.Language,
		IncludeChapterSummaries: req.IncludeChapterSummaries,
	})
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, sum)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply, err := s.chats.Ask(r.Context(), chi.URLParam(r, "paperID"), req.Message)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleListHighlights(w http.ResponseWriter, r *http.Request) {
	hs, err := s.highlights.ListByPaper(r.Context(), chi.URLParam(r, "paperID"), UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"highlights": hs})
}

func (s *Server) handleCreateHighlight(w http.ResponseWriter, r *http.Request) {
	var req service.CreateHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h, err := s.highlights.Create(r.Context(), chi.URLParam(r, "paperID"), UserID(r.Context()), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, h)
}

func (s *Server) handleUpdateHighlight(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateHighlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h, err := s.highlights.Update(r.Context(), chi.URLParam(r, "highlightID"), UserID(r.Context()), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, h)
}

func (s *Server) handleDeleteHighlight(w http.ResponseWriter, r *http.Request) {
	if err := s.highlights.Delete(r.Context(), chi.URLParam(r, "highlightID"), UserID(r.Context())); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	ps, err := s.presets.List(r.Context(), UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"presets": ps})
}

func (s *Server) handleCreatePreset(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.presets.Create(r.Context(), UserID(r.Context()), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePreset(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p, err := s.presets.Update(r.Context(), chi.URLParam(r, "presetID"), UserID(r.Context()), req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "presetID"), UserID(r.Context())); err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleSetDefaultPreset(w http.ResponseWriter, r *http.Request) {
	p, err := s.presets.SetDefault(r.Context(), chi.URLParam(r, "presetID"), UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}
