package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/memoire-review/internal/feedback"
)

type scoreReq struct {
	Score *float64 `json:"score" validate:"required"`
}

type commentReq struct {
	Comment string `json:"comment"`
}

type listItemReq struct {
	Text string `json:"text" validate:"notblank"`
}

func feedbackID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "feedbackID"))
}

// POST /feedbacks
func OpenFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in feedback.OpenInput
		if err := decodeJSON(r, &in); err != nil {
			writeDecodeErr(w, err)
			return
		}
		f, err := svc.Open(r.Context(), in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

// GET /feedbacks?documentId=&evaluatorId=&status=&limit=&offset=
func ListFeedbacksHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		opts := feedback.ListOpts{
			DocumentID:  q.Get("documentId"),
			EvaluatorID: q.Get("evaluatorId"),
			Status:      feedback.Status(q.Get("status")),
		}
		if opts.Status != "" && !opts.Status.Valid() {
			writeError(w, http.StatusBadRequest, "unknown status "+string(opts.Status))
			return
		}
		var err error
		if opts.Limit, err = intParam(q.Get("limit")); err != nil {
			writeError(w, http.StatusBadRequest, "bad limit")
			return
		}
		if opts.Offset, err = intParam(q.Get("offset")); err != nil {
			writeError(w, http.StatusBadRequest, "bad offset")
			return
		}
		items, err := svc.List(r.Context(), opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errBadRequest("bad number")
	}
	return n, nil
}

// GET /feedbacks/{feedbackID}
func GetFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.Get(r.Context(), feedbackID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// PUT /feedbacks/{feedbackID}/criteria/{criterionID}
func SetScoreHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreReq
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeErr(w, err)
			return
		}
		f, err := svc.SetScore(r.Context(), feedbackID(r), chi.URLParam(r, "criterionID"), *req.Score)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// DELETE /feedbacks/{feedbackID}/criteria/{criterionID}
func ClearScoreHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.ClearScore(r.Context(), feedbackID(r), chi.URLParam(r, "criterionID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// PUT /feedbacks/{feedbackID}/comment
func SetCommentHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commentReq
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeErr(w, err)
			return
		}
		f, err := svc.SetComment(r.Context(), feedbackID(r), req.Comment)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// POST /feedbacks/{feedbackID}/strengths, /improvements
func AddListItemHandler(add func(ctx context.Context, id, text string) (feedback.Feedback, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req listItemReq
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeErr(w, err)
			return
		}
		f, err := add(r.Context(), feedbackID(r), req.Text)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// DELETE /feedbacks/{feedbackID}/strengths/{index}, /improvements/{index}
func RemoveListItemHandler(remove func(ctx context.Context, id string, index int) (feedback.Feedback, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "index must be a number")
			return
		}
		f, err := remove(r.Context(), feedbackID(r), i)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// POST /feedbacks/{feedbackID}/submit
func SubmitFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return lifecycleHandler(svc.Submit)
}

// POST /feedbacks/{feedbackID}/read
func MarkReadHandler(svc *feedback.Service) http.HandlerFunc {
	return lifecycleHandler(svc.MarkRead)
}

// POST /feedbacks/{feedbackID}/revise
func ReviseFeedbackHandler(svc *feedback.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := svc.Revise(r.Context(), feedbackID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

func lifecycleHandler(fn func(ctx context.Context, id string) (feedback.Feedback, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fn(r.Context(), feedbackID(r))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}
