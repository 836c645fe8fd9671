package service

import (
	"context"
	"sort"
	"sync"

	"paperdesk/internal/extraction"
	"paperdesk/internal/models"
	"paperdesk/internal/storage"

	"github.com/google/uuid"
)

// In-memory store fakes. They honor the same absence contract as the
// Postgres implementations: missing rows come back as storage.ErrNotFound.

type memPapers struct {
	mu     sync.Mutex
	papers map[string]models.Paper
}

func newMemPapers() *memPapers {
	return &memPapers{papers: map[string]models.Paper{}}
}

func (m *memPapers) Create(_ context.Context, p models.Paper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.papers[p.PaperID] = p
	return nil
}

func (m *memPapers) GetByID(_ context.Context, paperID string) (models.Paper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.papers[paperID]
	if !ok {
		return models.Paper{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *memPapers) Update(_ context.Context, p models.Paper) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.papers[p.PaperID]; !ok {
		return storage.ErrNotFound
	}
	m.papers[p.PaperID] = p
	return nil
}

func (m *memPapers) Delete(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.papers[paperID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.papers, paperID)
	return nil
}

func (m *memPapers) List(_ context.Context, filter storage.PaperFilter) ([]models.Paper, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Paper, 0, len(m.papers))
	for _, p := range m.papers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].PaperID > out[j].PaperID
	})
	if filter.PageSize > 0 && len(out) > filter.PageSize {
		out = out[:filter.PageSize]
	}
	return out, "", nil
}

type memContents struct {
	mu       sync.Mutex
	contents map[string]models.TextContent
}

func newMemContents() *memContents {
	return &memContents{contents: map[string]models.TextContent{}}
}

func (m *memContents) Create(_ context.Context, c models.TextContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[c.PaperID] = c
	return nil
}

func (m *memContents) GetByPaperID(_ context.Context, paperID string) (models.TextContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[paperID]
	if !ok {
		return models.TextContent{}, storage.ErrNotFound
	}
	return c, nil
}

func (m *memContents) DeleteByPaperID(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contents, paperID)
	return nil
}

type memFigures struct {
	mu      sync.Mutex
	figures []models.Figure
}

func (m *memFigures) CreateBatch(_ context.Context, figures []models.Figure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.figures = append(m.figures, figures...)
	return nil
}

func (m *memFigures) ListByPaper(_ context.Context, paperID string) ([]models.Figure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Figure
	for _, f := range m.figures {
		if f.PaperID == paperID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFigures) DeleteByPaper(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.figures[:0]
	for _, f := range m.figures {
		if f.PaperID != paperID {
			kept = append(kept, f)
		}
	}
	m.figures = kept
	return nil
}

type memTables struct {
	mu     sync.Mutex
	tables []models.Table
}

func (m *memTables) CreateBatch(_ context.Context, tables []models.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = append(m.tables, tables...)
	return nil
}

func (m *memTables) ListByPaper(_ context.Context, paperID string) ([]models.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Table
	for _, t := range m.tables {
		if t.PaperID == paperID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTables) DeleteByPaper(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.tables[:0]
	for _, t := range m.tables {
		if t.PaperID != paperID {
			kept = append(kept, t)
		}
	}
	m.tables = kept
	return nil
}

type memEquations struct {
	mu        sync.Mutex
	equations []models.Equation
}

func (m *memEquations) CreateBatch(_ context.Context, equations []models.Equation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equations = append(m.equations, equations...)
	return nil
}

func (m *memEquations) ListByPaper(_ context.Context, paperID string) ([]models.Equation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Equation
	for _, e := range m.equations {
		if e.PaperID == paperID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEquations) DeleteByPaper(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.equations[:0]
	for _, e := range m.equations {
		if e.PaperID != paperID {
			kept = append(kept, e)
		}
	}
	m.equations = kept
	return nil
}

type memTranslations struct {
	mu   sync.Mutex
	rows map[string]models.Translation
}

func newMemTranslations() *memTranslations {
	return &memTranslations{rows: map[string]models.Translation{}}
}

func translationKey(paperID, language string) string {
	return paperID + "|" + language
}

func (m *memTranslations) GetByPaperAndLanguage(_ context.Context, paperID, language string) (models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[translationKey(paperID, language)]
	if !ok {
		return models.Translation{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *memTranslations) CreateIfAbsent(_ context.Context, t models.Translation) (models.Translation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := translationKey(t.PaperID, t.Language)
	if existing, ok := m.rows[key]; ok {
		return existing, nil
	}
	m.rows[key] = t
	return t, nil
}

func (m *memTranslations) ListLanguages(_ context.Context, paperID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, t := range m.rows {
		if t.PaperID == paperID {
			out = append(out, t.Language)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memTranslations) DeleteByPaper(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, t := range m.rows {
		if t.PaperID == paperID {
			delete(m.rows, key)
		}
	}
	return nil
}

type memSummaries struct {
	mu   sync.Mutex
	rows map[string]models.Summary
}

func newMemSummaries() *memSummaries {
	return &memSummaries{rows: map[string]models.Summary{}}
}

func (m *memSummaries) GetByPaperAndLanguage(_ context.Context, paperID, language string) (models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[translationKey(paperID, language)]
	if !ok {
		return models.Summary{}, storage.ErrNotFound
	}
	return s, nil
}

func (m *memSummaries) CreateIfAbsent(_ context.Context, s models.Summary) (models.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := translationKey(s.PaperID, s.Language)
	if existing, ok := m.rows[key]; ok {
		return existing, nil
	}
	m.rows[key] = s
	return s, nil
}

func (m *memSummaries) DeleteByPaper(_ context.Context, paperID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.rows {
		if s.PaperID == paperID {
			delete(m.rows, key)
		}
	}
	return nil
}

type memHighlights struct {
	mu   sync.Mutex
	rows map[string]models.Highlight
}

func newMemHighlights() *memHighlights {
	return &memHighlights{rows: map[string]models.Highlight{}}
}

func (m *memHighlights) Create(_ context.Context, h models.Highlight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[h.HighlightID] = h
	return nil
}

func (m *memHighlights) GetByID(_ context.Context, highlightID, userID string) (models.Highlight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.rows[highlightID]
	if !ok || h.UserID != userID {
		return models.Highlight{}, storage.ErrNotFound
	}
	return h, nil
}

func (m *memHighlights) ListByPaper(_ context.Context, paperID, userID string) ([]models.Highlight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Highlight
	for _, h := range m.rows {
		if h.PaperID == paperID && h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memHighlights) Update(_ context.Context, h models.Highlight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[h.HighlightID]
	if !ok || existing.UserID != h.UserID {
		return storage.ErrNotFound
	}
	m.rows[h.HighlightID] = h
	return nil
}

func (m *memHighlights) Delete(_ context.Context, highlightID, userID, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.rows[highlightID]
	if !ok || h.UserID != userID {
		return storage.ErrNotFound
	}
	delete(m.rows, highlightID)
	return nil
}

type memPresets struct {
	mu   sync.Mutex
	rows map[string]models.HighlightColorPreset
}

func newMemPresets() *memPresets {
	return &memPresets{rows: map[string]models.HighlightColorPreset{}}
}

func (m *memPresets) Create(_ context.Context, p models.HighlightColorPreset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.PresetID] = p
	return nil
}

func (m *memPresets) GetByID(_ context.Context, presetID, userID string) (models.HighlightColorPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[presetID]
	if !ok || p.UserID != userID {
		return models.HighlightColorPreset{}, storage.ErrNotFound
	}
	return p, nil
}

func (m *memPresets) ListByUser(_ context.Context, userID string) ([]models.HighlightColorPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.HighlightColorPreset
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memPresets) Update(_ context.Context, p models.HighlightColorPreset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rows[p.PresetID]
	if !ok || existing.UserID != p.UserID {
		return storage.ErrNotFound
	}
	m.rows[p.PresetID] = p
	return nil
}

func (m *memPresets) Delete(_ context.Context, presetID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[presetID]
	if !ok || p.UserID != userID {
		return storage.ErrNotFound
	}
	delete(m.rows, presetID)
	return nil
}

func (m *memPresets) SetDefault(_ context.Context, presetID, userID string) (models.HighlightColorPreset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := m.rows[presetID]
	if !ok || target.UserID != userID {
		return models.HighlightColorPreset{}, storage.ErrNotFound
	}
	for id, p := range m.rows {
		if p.UserID == userID {
			p.IsDefault = id == presetID
			m.rows[id] = p
		}
	}
	return m.rows[presetID], nil
}

// memBlob records uploads and serves deterministic URLs.
type memBlob struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newMemBlob() *memBlob {
	return &memBlob{objects: map[string][]byte{}}
}

func (m *memBlob) Upload(_ context.Context, key, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "mem://" + key, nil
}

func (m *memBlob) Download(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memBlob) GetURL(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return "", storage.ErrNotFound
	}
	return "mem://" + key, nil
}

func (m *memBlob) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// fakeExtractor returns canned structures and counts invocations per method.
type fakeExtractor struct {
	mu    sync.Mutex
	calls map[string]int

	content   models.TextContent
	paper     models.Paper
	figures   []models.Figure
	tables    []models.Table
	equations []models.Equation

	translateErr error
	chatReply    string
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{
		calls: map[string]int{},
		content: models.TextContent{
			Sections: []models.Section{
				{
					SectionID:  "sec-1",
					Title:      "Introduction",
					Level:      1,
					OrderIndex: 1,
					Paragraphs: []models.Paragraph{
						{ParagraphID: "par-1", Content: "First paragraph.", OrderIndex: 1, Type: models.ParagraphText},
						{ParagraphID: "par-2", Content: "E = mc^2", OrderIndex: 2, Type: models.ParagraphEquation},
						{ParagraphID: "par-3", Content: "See Figure 1.", OrderIndex: 3, Type: models.ParagraphFigureReference},
					},
				},
				{
					SectionID:  "sec-2",
					Title:      "Methods",
					Level:      1,
					OrderIndex: 2,
					Paragraphs: []models.Paragraph{
						{ParagraphID: "par-4", Content: "We did things.", OrderIndex: 1, Type: models.ParagraphText},
					},
				},
			},
		},
		paper: models.Paper{
			Title:       "Attention Is All You Need",
			Authors:     []string{"Vaswani", "Shazeer"},
			Description: "Transformer architecture.",
			Tags:        []string{"nlp", "transformers"},
		},
		figures: []models.Figure{
			{FigureID: "fig-1", Caption: "Model architecture", OrderIndex: 1},
		},
		equations: []models.Equation{
			{EquationID: "eq-1", LatexContent: `\mathrm{Attention}(Q,K,V)`, OrderIndex: 1},
			{EquationID: "eq-2", LatexContent: `\mathrm{softmax}(x)`, OrderIndex: 2},
		},
		chatReply: "The paper introduces the transformer.",
	}
}

func (f *fakeExtractor) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

func (f *fakeExtractor) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeExtractor) ExtractText(_ context.Context, _ []byte) (models.TextContent, error) {
	f.count("extract_text")
	return f.content, nil
}

func (f *fakeExtractor) ExtractMetadataAndMedia(_ context.Context, _ []byte, paperID string) (models.Paper, []models.Figure, []models.Table, []models.Equation, error) {
	f.count("extract_metadata")
	p := f.paper
	p.PaperID = paperID
	return p, f.figures, f.tables, f.equations, nil
}

func (f *fakeExtractor) Translate(_ context.Context, content models.TextContent, paperID, targetLanguage string) (models.Translation, error) {
	f.count("translate")
	if f.translateErr != nil {
		return models.Translation{}, f.translateErr
	}
	t := models.Translation{
		TranslationID: uuid.NewString(),
		PaperID:       paperID,
		Language:      targetLanguage,
	}
	for _, sec := range content.Sections {
		ts := models.TranslatedSection{SectionID: sec.SectionID, TranslatedTitle: "[" + targetLanguage + "] " + sec.Title}
		for _, par := range sec.Paragraphs {
			ts.Paragraphs = append(ts.Paragraphs, models.TranslatedParagraph{
				ParagraphID:       par.ParagraphID,
				TranslatedContent: "[" + targetLanguage + "] " + par.Content,
			})
		}
		t.Sections = append(t.Sections, ts)
	}
	return t, nil
}

func (f *fakeExtractor) Summarize(_ context.Context, content models.TextContent, paperID string, opts extraction.SummaryOptions) (models.Summary, error) {
	f.count("summarize")
	s := models.Summary{
		SummaryID:    uuid.NewString(),
		PaperID:      paperID,
		Language:     opts.Language,
		WholeSummary: "A short summary.",
	}
	if opts.IncludeChapterSummaries {
		for _, sec := range content.Sections {
			s.ChapterSummaries = append(s.ChapterSummaries, models.ChapterSummary{
				SectionID: sec.SectionID,
				Summary:   "Summary of " + sec.Title,
			})
		}
	}
	return s, nil
}

func (f *fakeExtractor) Chat(_ context.Context, _ string, _ string) (string, error) {
	f.count("chat")
	return f.chatReply, nil
}
