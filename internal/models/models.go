package models

import "time"

// ParagraphType distinguishes prose from equations and cross-references.
type ParagraphType string

const (
	ParagraphText            ParagraphType = "text"
	ParagraphEquation        ParagraphType = "equation"
	ParagraphFigureReference ParagraphType = "figure_reference"
	ParagraphTableReference  ParagraphType = "table_reference"
)

// ParseParagraphType maps free-form model output onto a known type,
// defaulting to plain text.
func ParseParagraphType(s string) ParagraphType {
	switch normalizeTypeTag(s) {
	case "equation":
		return ParagraphEquation
	case "figurereference", "figure_reference", "figureref":
		return ParagraphFigureReference
	case "tablereference", "table_reference", "tableref":
		return ParagraphTableReference
	default:
		return ParagraphText
	}
}

func normalizeTypeTag(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-':
			// drop
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

type Paper struct {
	PaperID     string    `json:"paper_id"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	OriginalURL string    `json:"original_url,omitempty"`
	PDFURL      string    `json:"pdf_url,omitempty"`
	PageCount   int       `json:"page_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TextContent is the structured section/paragraph tree extracted from a
// paper's PDF. Exactly one per paper.
type TextContent struct {
	ContentID string    `json:"content_id"`
	PaperID   string    `json:"paper_id"`
	Sections  []Section `json:"sections"`
}

type Section struct {
	SectionID  string      `json:"section_id"`
	Title      string      `json:"title"`
	Level      int         `json:"level"`
	OrderIndex int         `json:"order_index"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Paragraph identifiers are unique across the whole paper, not just within
// their section; highlights and translations address paragraphs by ID alone.
type Paragraph struct {
	ParagraphID string        `json:"paragraph_id"`
	Content     string        `json:"content"`
	OrderIndex  int           `json:"order_index"`
	Type        ParagraphType `json:"type"`
}

type Figure struct {
	FigureID   string `json:"figure_id"`
	PaperID    string `json:"paper_id"`
	Caption    string `json:"caption"`
	ImageURL   string `json:"image_url,omitempty"`
	OrderIndex int    `json:"order_index"`
}

type Table struct {
	TableID    string `json:"table_id"`
	PaperID    string `json:"paper_id"`
	Caption    string `json:"caption"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
}

type Equation struct {
	EquationID   string `json:"equation_id"`
	PaperID      string `json:"paper_id"`
	LatexContent string `json:"latex_content"`
	OrderIndex   int    `json:"order_index"`
}

// Translation is keyed by (paper, language); at most one per pair. Sections
// and paragraphs are addressed by the original content identifiers.
type Translation struct {
	TranslationID string              `json:"translation_id"`
	PaperID       string              `json:"paper_id"`
	Language      string              `json:"language"`
	Sections      []TranslatedSection `json:"sections"`
	CreatedAt     time.Time           `json:"created_at"`
}

type TranslatedSection struct {
	SectionID       string                `json:"section_id"`
	TranslatedTitle string                `json:"translated_title"`
	Paragraphs      []TranslatedParagraph `json:"paragraphs"`
}

type TranslatedParagraph struct {
	ParagraphID       string `json:"paragraph_id"`
	TranslatedContent string `json:"translated_content"`
}

// Summary is keyed by (paper, language); at most one per pair.
type Summary struct {
	SummaryID        string           `json:"summary_id"`
	PaperID          string           `json:"paper_id"`
	Language         string           `json:"language"`
	WholeSummary     string           `json:"whole_summary"`
	ChapterSummaries []ChapterSummary `json:"chapter_summaries,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

type ChapterSummary struct {
	SectionID string `json:"section_id"`
	Summary   string `json:"summary"`
}

// Highlight is a user-scoped annotation span over a paragraph. The offset
// range is half-open: [StartOffset, EndOffset).
type Highlight struct {
	HighlightID string    `json:"highlight_id"`
	PaperID     string    `json:"paper_id"`
	UserID      string    `json:"user_id"`
	ParagraphID string    `json:"paragraph_id"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Color       string    `json:"color"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type HighlightColorPreset struct {
	PresetID  string    `json:"preset_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}
