package workflows

// PaperIngestInput identifies a staged PDF and the optional post-ingest
// steps. The PDF itself is addressed by staging key; the bytes never enter
// workflow history.
type PaperIngestInput struct {
	StagingKey              string `json:"staging_key"`
	TargetLanguage          string `json:"target_language,omitempty"`
	IncludeSummary          bool   `json:"include_summary"`
	IncludeChapterSummaries bool   `json:"include_chapter_summaries"`
}

type PaperIngestResult struct {
	PaperID string `json:"paper_id"`
	PDFURL  string `json:"pdf_url"`
	Status  string `json:"status"`
}

// PaperIngestProgress is exposed through the progress query handler.
type PaperIngestProgress struct {
	StagingKey  string            `json:"staging_key"`
	CurrentStep string            `json:"current_step"`
	Steps       map[string]string `json:"steps"`
	PaperID     string            `json:"paper_id,omitempty"`
}
