package activities

import "paperdesk/internal/models"

type ValidatePDFInput struct {
	StagingKey string `json:"staging_key"`
}

type ValidatePDFOutput struct {
	Pages int `json:"pages"`
}

type ExtractTextInput struct {
	StagingKey string `json:"staging_key"`
}

type ExtractTextOutput struct {
	Content models.TextContent `json:"content"`
}

type ExtractMetadataInput struct {
	StagingKey string `json:"staging_key"`
}

type ExtractMetadataOutput struct {
	Paper     models.Paper      `json:"paper"`
	Figures   []models.Figure   `json:"figures"`
	Tables    []models.Table    `json:"tables"`
	Equations []models.Equation `json:"equations"`
}

type PersistPaperInput struct {
	StagingKey string             `json:"staging_key"`
	Pages      int                `json:"pages"`
	Paper      models.Paper       `json:"paper"`
	Content    models.TextContent `json:"content"`
	Figures    []models.Figure    `json:"figures"`
	Tables     []models.Table     `json:"tables"`
	Equations  []models.Equation  `json:"equations"`
}

type PersistPaperOutput struct {
	PaperID string `json:"paper_id"`
	PDFURL  string `json:"pdf_url"`
}

type TranslatePaperInput struct {
	PaperID  string `json:"paper_id"`
	Language string `json:"language"`
}

type SummarizePaperInput struct {
	PaperID                 string `json:"paper_id"`
	Language                string `json:"language"`
	IncludeChapterSummaries bool   `json:"include_chapter_summaries"`
}

type DeleteStagingInput struct {
	StagingKey string `json:"staging_key"`
}
