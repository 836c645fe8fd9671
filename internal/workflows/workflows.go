package workflows

import (
	"time"

	"paperdesk/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const QueryGetProgress = "GetProgress"

// PaperIngestWorkflow is the durable variant of PDF ingestion: validate the
// staged upload, run the two extractions, persist, then the optional
// translate/summarize steps. Post-persist failures do not fail the workflow;
// the paper is already fully ingested by then.
func PaperIngestWorkflow(ctx workflow.Context, input PaperIngestInput) (PaperIngestResult, error) {
	progress := PaperIngestProgress{
		StagingKey: input.StagingKey,
		Steps:      map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetProgress, func() (PaperIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return PaperIngestResult{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	step := func(name string) {
		progress.CurrentStep = name
		progress.Steps[name] = "processing"
	}
	done := func(name string) {
		progress.Steps[name] = "done"
	}

	step("validate")
	var validated activities.ValidatePDFOutput
	if err := workflow.ExecuteActivity(ctx, "ValidatePDFActivity", activities.ValidatePDFInput{StagingKey: input.StagingKey}).Get(ctx, &validated); err != nil {
		progress.Steps["validate"] = "failed"
		return PaperIngestResult{Status: "failed"}, err
	}
	done("validate")

	step("extract")
	textF := workflow.ExecuteActivity(ctx, "ExtractTextActivity", activities.ExtractTextInput{StagingKey: input.StagingKey})
	metaF := workflow.ExecuteActivity(ctx, "ExtractMetadataActivity", activities.ExtractMetadataInput{StagingKey: input.StagingKey})
	var textOut activities.ExtractTextOutput
	if err := textF.Get(ctx, &textOut); err != nil {
		progress.Steps["extract"] = "failed"
		return PaperIngestResult{Status: "failed"}, err
	}
	var metaOut activities.ExtractMetadataOutput
	if err := metaF.Get(ctx, &metaOut); err != nil {
		progress.Steps["extract"] = "failed"
		return PaperIngestResult{Status: "failed"}, err
	}
	done("extract")

	step("persist")
	var persisted activities.PersistPaperOutput
	err := workflow.ExecuteActivity(ctx, "PersistPaperActivity", activities.PersistPaperInput{
		StagingKey: input.StagingKey,
		Pages:      validated.Pages,
		Paper:      metaOut.Paper,
		Content:    textOut.Content,
		Figures:    metaOut.Figures,
		Tables:     metaOut.Tables,
		Equations:  metaOut.Equations,
	}).Get(ctx, &persisted)
	if err != nil {
		progress.Steps["persist"] = "failed"
		return PaperIngestResult{Status: "failed"}, err
	}
	progress.PaperID = persisted.PaperID
	done("persist")

	if input.TargetLanguage != "" {
		step("translate")
		err := workflow.ExecuteActivity(ctx, "TranslatePaperActivity", activities.TranslatePaperInput{
			PaperID:  persisted.PaperID,
			Language: input.TargetLanguage,
		}).Get(ctx, nil)
		if err != nil {
			progress.Steps["translate"] = "failed"
		} else {
			done("translate")
		}
	}

	if input.IncludeSummary {
		step("summarize")
		language := input.TargetLanguage
		if language == "" {
			language = "en"
		}
		err := workflow.ExecuteActivity(ctx, "SummarizePaperActivity", activities.SummarizePaperInput{
			PaperID:                 persisted.PaperID,
			Language:                language,
			IncludeChapterSummaries: input.IncludeChapterSummaries,
		}).Get(ctx, nil)
		if err != nil {
			progress.Steps["summarize"] = "failed"
		} else {
			done("summarize")
		}
	}

	step("cleanup")
	_ = workflow.ExecuteActivity(ctx, "DeleteStagingActivity", activities.DeleteStagingInput{StagingKey: input.StagingKey}).Get(ctx, nil)
	done("cleanup")

	progress.CurrentStep = "done"
	return PaperIngestResult{PaperID: persisted.PaperID, PDFURL: persisted.PDFURL, Status: "processed"}, nil
}
