package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"paperdesk/internal/models"
	"paperdesk/internal/providers"

	"github.com/google/uuid"
)

// Extractor wraps a generative capability with tolerant parsing. Model output
// is free-form text expected to contain JSON; on any parse failure the
// extractor substitutes a well-typed fallback instead of surfacing an error.
// Only transport failures (the provider itself erroring) propagate.
type Extractor struct {
	llm providers.LLMProvider
}

func New(llm providers.LLMProvider) *Extractor {
	return &Extractor{llm: llm}
}

type SummaryOptions struct {
	Language                string `json:"language"`
	IncludeChapterSummaries bool   `json:"include_chapter_summaries"`
}

func (e *Extractor) ExtractText(ctx context.Context, pdfData []byte) (models.TextContent, error) {
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation:    "extract_text",
		Prompt:       extractTextPrompt,
		Document:     pdfData,
		DocumentType: "application/pdf",
		MaxTokens:    8192,
	})
	if err != nil {
		return models.TextContent{}, fmt.Errorf("extract text: %w", err)
	}

	if raw, ok := jsonSlice(resp.Text); ok {
		var wire textContentWire
		if err := json.Unmarshal([]byte(raw), &wire); err == nil && wire.Sections != nil {
			return normalizeTextContent(wire), nil
		}
	}

	// Fallback: the whole raw response becomes a single plain-text paragraph.
	return models.TextContent{
		Sections: []models.Section{
			{
				SectionID:  uuid.NewString(),
				Title:      "Content",
				Level:      1,
				OrderIndex: 1,
				Paragraphs: []models.Paragraph{
					{
						ParagraphID: uuid.NewString(),
						Content:     resp.Text,
						OrderIndex:  1,
						Type:        models.ParagraphText,
					},
				},
			},
		},
	}, nil
}

func (e *Extractor) ExtractMetadataAndMedia(ctx context.Context, pdfData []byte, paperID string) (models.Paper, []models.Figure, []models.Table, []models.Equation, error) {
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation:    "extract_metadata",
		Prompt:       extractMetadataPrompt,
		Document:     pdfData,
		DocumentType: "application/pdf",
		MaxTokens:    8192,
	})
	if err != nil {
		return models.Paper{}, nil, nil, nil, fmt.Errorf("extract metadata: %w", err)
	}

	if raw, ok := jsonSlice(resp.Text); ok {
		var wire metadataWire
		if err := json.Unmarshal([]byte(raw), &wire); err == nil {
			return normalizeMetadata(wire, paperID)
		}
	}

	return models.Paper{
		PaperID: paperID,
		Title:   "Untitled",
		Authors: []string{},
		Tags:    []string{},
	}, []models.Figure{}, []models.Table{}, []models.Equation{}, nil
}

func (e *Extractor) Translate(ctx context.Context, content models.TextContent, paperID, targetLanguage string) (models.Translation, error) {
	contentJSON, err := json.Marshal(content.Sections)
	if err != nil {
		return models.Translation{}, fmt.Errorf("marshal content for translation: %w", err)
	}
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "translate",
		Prompt:    buildTranslatePrompt(targetLanguage, string(contentJSON)),
		MaxTokens: 8192,
	})
	if err != nil {
		return models.Translation{}, fmt.Errorf("translate: %w", err)
	}

	translation := models.Translation{
		TranslationID: uuid.NewString(),
		PaperID:       paperID,
		Language:      targetLanguage,
		Sections:      []models.TranslatedSection{},
		CreatedAt:     time.Now().UTC(),
	}
	if raw, ok := jsonSlice(resp.Text); ok {
		var wire translationWire
		if err := json.Unmarshal([]byte(raw), &wire); err == nil && wire.Sections != nil {
			for _, s := range wire.Sections {
				ts := models.TranslatedSection{
					SectionID:       s.SectionID,
					TranslatedTitle: s.TranslatedTitle,
					Paragraphs:      make([]models.TranslatedParagraph, 0, len(s.Paragraphs)),
				}
				for _, p := range s.Paragraphs {
					ts.Paragraphs = append(ts.Paragraphs, models.TranslatedParagraph{
						ParagraphID:       p.ParagraphID,
						TranslatedContent: p.TranslatedContent,
					})
				}
				translation.Sections = append(translation.Sections, ts)
			}
		}
	}
	return translation, nil
}

func (e *Extractor) Summarize(ctx context.Context, content models.TextContent, paperID string, opts SummaryOptions) (models.Summary, error) {
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "summarize",
		Prompt:    buildSummarizePrompt(opts.Language, BuildContext(content), opts.IncludeChapterSummaries),
		MaxTokens: 4096,
	})
	if err != nil {
		return models.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	summary := models.Summary{
		SummaryID:        uuid.NewString(),
		PaperID:          paperID,
		Language:         opts.Language,
		ChapterSummaries: []models.ChapterSummary{},
		CreatedAt:        time.Now().UTC(),
	}
	if raw, ok := jsonSlice(resp.Text); ok {
		var wire summaryWire
		if err := json.Unmarshal([]byte(raw), &wire); err == nil && wire.WholeSummary != nil {
			summary.WholeSummary = *wire.WholeSummary
			for _, c := range wire.ChapterSummaries {
				summary.ChapterSummaries = append(summary.ChapterSummaries, models.ChapterSummary{
					SectionID: c.SectionID,
					Summary:   c.Summary,
				})
			}
			return summary, nil
		}
	}

	// The target shape is near-flat, so the degraded result is simply the
	// whole raw response as the document summary.
	summary.WholeSummary = resp.Text
	return summary, nil
}

func (e *Extractor) Chat(ctx context.Context, paperContext, message string) (string, error) {
	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation: "chat",
		Prompt:    buildChatPrompt(paperContext, message),
		MaxTokens: 4096,
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return resp.Text, nil
}

// BuildContext renders the content tree as a markdown-ish block, sections and
// paragraphs in order-index order.
func BuildContext(content models.TextContent) string {
	sections := append([]models.Section(nil), content.Sections...)
	sort.SliceStable(sections, func(i, j int) bool { return sections[i].OrderIndex < sections[j].OrderIndex })

	var sb strings.Builder
	for _, section := range sections {
		sb.WriteString("## ")
		sb.WriteString(section.Title)
		sb.WriteString("\n")
		paragraphs := append([]models.Paragraph(nil), section.Paragraphs...)
		sort.SliceStable(paragraphs, func(i, j int) bool { return paragraphs[i].OrderIndex < paragraphs[j].OrderIndex })
		for _, p := range paragraphs {
			sb.WriteString(p.Content)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func normalizeTextContent(wire textContentWire) models.TextContent {
	out := models.TextContent{Sections: make([]models.Section, 0, len(wire.Sections))}
	for _, s := range wire.Sections {
		section := models.Section{
			SectionID:  s.ID,
			Title:      s.Title,
			Level:      s.Level,
			OrderIndex: s.Order,
			Paragraphs: make([]models.Paragraph, 0, len(s.Paragraphs)),
		}
		if section.SectionID == "" {
			section.SectionID = uuid.NewString()
		}
		for _, p := range s.Paragraphs {
			paragraph := models.Paragraph{
				ParagraphID: p.ID,
				Content:     p.Content,
				OrderIndex:  p.Order,
				Type:        models.ParseParagraphType(p.Type),
			}
			if paragraph.ParagraphID == "" {
				paragraph.ParagraphID = uuid.NewString()
			}
			section.Paragraphs = append(section.Paragraphs, paragraph)
		}
		out.Sections = append(out.Sections, section)
	}
	return out
}

func normalizeMetadata(wire metadataWire, paperID string) (models.Paper, []models.Figure, []models.Table, []models.Equation, error) {
	paper := models.Paper{
		PaperID:     paperID,
		Title:       wire.Title,
		Authors:     wire.Authors,
		Description: wire.Description,
		Tags:        wire.Tags,
		OriginalURL: wire.OriginalURL,
	}
	if paper.Title == "" {
		paper.Title = "Untitled"
	}
	if paper.Authors == nil {
		paper.Authors = []string{}
	}
	if paper.Tags == nil {
		paper.Tags = []string{}
	}

	figures := make([]models.Figure, 0, len(wire.Figures))
	for _, f := range wire.Figures {
		fig := models.Figure{FigureID: f.ID, PaperID: paperID, Caption: f.Caption, OrderIndex: f.Order}
		if fig.FigureID == "" {
			fig.FigureID = uuid.NewString()
		}
		figures = append(figures, fig)
	}
	tables := make([]models.Table, 0, len(wire.Tables))
	for _, t := range wire.Tables {
		tbl := models.Table{TableID: t.ID, PaperID: paperID, Caption: t.Caption, Content: t.Content, OrderIndex: t.Order}
		if tbl.TableID == "" {
			tbl.TableID = uuid.NewString()
		}
		tables = append(tables, tbl)
	}
	equations := make([]models.Equation, 0, len(wire.Equations))
	for _, e := range wire.Equations {
		eq := models.Equation{EquationID: e.ID, PaperID: paperID, LatexContent: e.LatexContent, OrderIndex: e.Order}
		if eq.EquationID == "" {
			eq.EquationID = uuid.NewString()
		}
		equations = append(equations, eq)
	}
	return paper, figures, tables, equations, nil
}
