package extraction

import "strings"

// jsonSlice carves the substring between the first '{' and the last '}' out
// of a free-form model response. The response is expected to contain JSON,
// not to be JSON.
func jsonSlice(raw string) (string, bool) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// Wire shapes for model output. Every field is optional; normalization in the
// extractor backfills whatever the model omitted so nothing nullable leaks
// past this package.

type sectionWire struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Level      int             `json:"level"`
	Order      int             `json:"order"`
	Paragraphs []paragraphWire `json:"paragraphs"`
}

type paragraphWire struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Order   int    `json:"order"`
	Type    string `json:"type"`
}

type textContentWire struct {
	Sections []sectionWire `json:"sections"`
}

type metadataWire struct {
	Title       string         `json:"title"`
	Authors     []string       `json:"authors"`
	Description string         `json:"description"`
	Tags        []string       `json:"tags"`
	OriginalURL string         `json:"originalUrl"`
	Figures     []figureWire   `json:"figures"`
	Tables      []tableWire    `json:"tables"`
	Equations   []equationWire `json:"equations"`
}

type figureWire struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}

type tableWire struct {
	ID      string `json:"id"`
	Caption string `json:"caption"`
	Content string `json:"content"`
	Order   int    `json:"order"`
}

type equationWire struct {
	ID           string `json:"id"`
	LatexContent string `json:"latexContent"`
	Order        int    `json:"order"`
}

type translationWire struct {
	Sections []translatedSectionWire `json:"sections"`
}

type translatedSectionWire struct {
	SectionID       string                    `json:"sectionId"`
	TranslatedTitle string                    `json:"translatedTitle"`
	Paragraphs      []translatedParagraphWire `json:"paragraphs"`
}

type translatedParagraphWire struct {
	ParagraphID       string `json:"paragraphId"`
	TranslatedContent string `json:"translatedContent"`
}

type summaryWire struct {
	WholeSummary     *string            `json:"wholeSummary"`
	ChapterSummaries []chapterWireEntry `json:"chapterSummaries"`
}

type chapterWireEntry struct {
	SectionID string `json:"sectionId"`
	Summary   string `json:"summary"`
}
