package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ValidatePDFActivity)
	w.RegisterActivity(a.ExtractTextActivity)
	w.RegisterActivity(a.ExtractMetadataActivity)
	w.RegisterActivity(a.PersistPaperActivity)
	w.RegisterActivity(a.TranslatePaperActivity)
	w.RegisterActivity(a.SummarizePaperActivity)
	w.RegisterActivity(a.DeleteStagingActivity)
}
