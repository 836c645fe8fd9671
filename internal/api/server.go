// Package api provides the HTTP boundary over the paper services.
package api

import (
	"context"
	"net/http"
	"time"

	"paperdesk/internal/blob"
	"paperdesk/internal/config"
	"paperdesk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server routes HTTP traffic to the use cases. User-scoped routes sit behind
// bearer auth; everything else is open.
type Server struct {
	ingestor     *service.Ingestor
	papers       *service.Papers
	translations *service.Translations
	summaries    *service.Summaries
	chats        *service.Chats
	highlights   *service.Highlights
	presets      *service.Presets
	temporal     WorkflowClient
	blobs        blob.Store
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
}

func NewServer(
	ingestor *service.Ingestor,
	papers *service.Papers,
	translations *service.Translations,
	summaries *service.Summaries,
	chats *service.Chats,
	highlights *service.Highlights,
	presets *service.Presets,
	temporal WorkflowClient,
	blobs blob.Store,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		ingestor:     ingestor,
		papers:       papers,
		translations: translations,
		summaries:    summaries,
		chats:        chats,
		highlights:   highlights,
		presets:      presets,
		temporal:     temporal,
		blobs:        blobs,
		config:       cfg,
		logger:       logger,
	}
}

// Router builds the full route tree. Exposed separately from Start so tests
// can drive it with httptest.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/healthz", s.handleHealth)

	r.Route("/papers", func(r chi.Router) {
		r.Post("/", s.handleIngest)
		r.Get("/", s.handleListPapers)
		r.Post("/ingestions", s.handleIngestAsync)
		r.Get("/ingestions/{workflowID}/progress", s.handleIngestProgress)
		r.Route("/{paperID}", func(r chi.Router) {
			r.Get("/", s.handleGetPaper)
			r.Patch("/", s.handleUpdatePaper)
			r.Delete("/", s.handleDeletePaper)
			r.Get("/file", s.handlePaperFile)
			r.Get("/translations", s.handleListTranslationLanguages)
			r.Get("/translations/{lang}", s.handleGetTranslation)
			r.Post("/translations", s.handleCreateTranslation)
			r.Get("/summaries/{lang}", s.handleGetSummary)
			r.Post("/summaries", s.handleCreateSummary)
			r.Post("/chat", s.handleChat)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/highlights", s.handleListHighlights)
				r.Post("/highlights", s.handleCreateHighlight)
				r.Patch("/highlights/{highlightID}", s.handleUpdateHighlight)
				r.Delete("/highlights/{highlightID}", s.handleDeleteHighlight)
			})
		})
	})

	r.Route("/highlight-presets", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/", s.handleListPresets)
		r.Post("/", s.handleCreatePreset)
		r.Patch("/{presetID}", s.handleUpdatePreset)
		r.Delete("/{presetID}", s.handleDeletePreset)
		r.Post("/{presetID}/default", s.handleSetDefaultPreset)
	})

	return r
}

// Start serves until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.config.APIAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting api server", zap.String("addr", s.config.APIAddr))
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
