package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/memoire-review/internal/correction"
	"github.com/mind-engage/memoire-review/internal/extract"
	"github.com/mind-engage/memoire-review/internal/feedback"
	"github.com/mind-engage/memoire-review/internal/rubric"
)

type Deps struct {
	Analyzer       *correction.Analyzer
	Reviewer       *correction.Reviewer
	Extractor      *extract.Extractor
	Catalog        *rubric.Catalog
	Feedbacks      *feedback.Service
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Mount registers the review API on r.
func Mount(r chi.Router, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Post("/analyze", AnalyzeHandler(d.Analyzer, d.MaxUploadBytes))
	r.Post("/correct", CorrectHandler(logger, d.MaxUploadBytes))
	r.Post("/review", ReviewHandler(d.Reviewer, d.MaxUploadBytes))
	r.Post("/documents/review", DocumentReviewHandler(d.Extractor, d.Reviewer, d.MaxUploadBytes))

	r.Post("/score", ScoreHandler())
	r.Get("/templates", ListTemplatesHandler(d.Catalog))
	r.Get("/templates/{templateID}", GetTemplateHandler(d.Catalog))
	r.Get("/comments", CommentsHandler(d.Catalog))

	svc := d.Feedbacks
	r.Route("/feedbacks", func(fr chi.Router) {
		fr.Post("/", OpenFeedbackHandler(svc))
		fr.Get("/", ListFeedbacksHandler(svc))
		fr.Route("/{feedbackID}", func(ir chi.Router) {
			ir.Get("/", GetFeedbackHandler(svc))
			ir.Put("/criteria/{criterionID}", SetScoreHandler(svc))
			ir.Delete("/criteria/{criterionID}", ClearScoreHandler(svc))
			ir.Put("/comment", SetCommentHandler(svc))
			ir.Post("/strengths", AddListItemHandler(svc.AddStrength))
			ir.Delete("/strengths/{index}", RemoveListItemHandler(svc.RemoveStrength))
			ir.Post("/improvements", AddListItemHandler(svc.AddImprovement))
			ir.Delete("/improvements/{index}", RemoveListItemHandler(svc.RemoveImprovement))
			ir.Post("/submit", SubmitFeedbackHandler(svc))
			ir.Post("/read", MarkReadHandler(svc))
			ir.Post("/revise", ReviseFeedbackHandler(svc))
		})
	})
}
