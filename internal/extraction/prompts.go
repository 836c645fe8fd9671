package extraction

import "fmt"

const extractTextPrompt = `Extract the text content from this PDF document.
Return the content as a structured JSON with sections and paragraphs.
For each paragraph, identify if it's regular text, an equation (return LaTeX), a figure reference, or a table reference.

Return JSON in this exact format:
{
  "sections": [
    {
      "id": "sec-1",
      "title": "Section Title",
      "level": 1,
      "order": 1,
      "paragraphs": [
        {
          "id": "para-1-1",
          "content": "paragraph text or latex equation",
          "order": 1,
          "type": "Text"
        }
      ]
    }
  ]
}

Type can be: Text, Equation, FigureReference, TableReference`

const extractMetadataPrompt = `Extract metadata, figures, tables, and equations from this PDF document.

Return JSON in this exact format:
{
  "title": "Paper Title",
  "authors": ["Author 1", "Author 2"],
  "description": "A short description of the paper",
  "tags": ["tag1", "tag2"],
  "originalUrl": "https://...",
  "figures": [
    {"id": "fig-1", "caption": "Figure caption", "order": 1}
  ],
  "tables": [
    {"id": "tbl-1", "caption": "Table caption", "content": "markdown table content", "order": 1}
  ],
  "equations": [
    {"id": "eq-1", "latexContent": "\\frac{a}{b}", "order": 1}
  ]
}`

func buildTranslatePrompt(targetLanguage, contentJSON string) string {
	return fmt.Sprintf(`Translate the following paper content to %s.
Keep the same structure and return JSON with translated titles and paragraphs.

Original content:
%s

Return JSON in this exact format:
{
  "sections": [
    {
      "sectionId": "original-section-id",
      "translatedTitle": "Translated title",
      "paragraphs": [
        {"paragraphId": "original-paragraph-id", "translatedContent": "Translated content"}
      ]
    }
  ]
}`, targetLanguage, contentJSON)
}

func buildSummarizePrompt(language, contentText string, includeChapters bool) string {
	if includeChapters {
		return fmt.Sprintf(`Summarize the following paper in %s. Provide both an overall summary and chapter-by-chapter summaries.

Paper content:
%s

Return JSON in this exact format:
{
  "wholeSummary": "Overall summary of the paper",
  "chapterSummaries": [
    {"sectionId": "section-id", "summary": "Summary of this section"}
  ]
}`, language, contentText)
	}
	return fmt.Sprintf(`Summarize the following paper in %s.

Paper content:
%s

Return JSON in this exact format:
{
  "wholeSummary": "Overall summary of the paper"
}`, language, contentText)
}

func buildChatPrompt(paperContext, message string) string {
	return fmt.Sprintf(`You are a helpful assistant answering questions about a research paper.
Here is the paper content:

%s

User question: %s

Please provide a helpful and accurate answer based on the paper content.`, paperContext, message)
}
