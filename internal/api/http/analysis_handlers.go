package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/mind-engage/memoire-review/internal/correction"
	"github.com/mind-engage/memoire-review/internal/extract"
)

type textReq struct {
	Text *string `json:"text" validate:"required"`
}

type correctReq struct {
	Text   *string                      `json:"text" validate:"required"`
	Issues []correction.CorrectionIssue `json:"issues"`
}

type correctResp struct {
	Corrected string                 `json:"corrected"`
	Rejected  []correction.Rejection `json:"rejected"`
}

// readText accepts a raw body or a JSON {"text": "..."} document of at most
// maxBytes.
func readText(w http.ResponseWriter, r *http.Request, maxBytes int64) (string, error) {
	limitBody(w, r, maxBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req textReq
		if err := decodeJSON(r, &req); err != nil {
			return "", err
		}
		return *req.Text, nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func limitBody(w http.ResponseWriter, r *http.Request, maxBytes int64) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
}

// POST /analyze
func AnalyzeHandler(a *correction.Analyzer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := readText(w, r, maxBytes)
		if err != nil {
			writeDecodeErr(w, err)
			return
		}
		res, err := a.Analyze(r.Context(), text)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /correct
func CorrectHandler(logger *slog.Logger, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limitBody(w, r, maxBytes)
		var req correctReq
		if err := decodeJSON(r, &req); err != nil {
			writeDecodeErr(w, err)
			return
		}
		out, rejected := correction.ApplyCorrections(*req.Text, req.Issues)
		for _, rj := range rejected {
			logger.Warn("correction rejected", "issue_id", rj.Issue.ID, "reason", rj.Reason)
		}
		if rejected == nil {
			rejected = []correction.Rejection{}
		}
		writeJSON(w, http.StatusOK, correctResp{Corrected: out, Rejected: rejected})
	}
}

// POST /review
func ReviewHandler(rv *correction.Reviewer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, err := readText(w, r, maxBytes)
		if err != nil {
			writeDecodeErr(w, err)
			return
		}
		res, err := rv.Review(r.Context(), text)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

type documentReviewResp struct {
	FileName string            `json:"fileName"`
	Format   extract.Format    `json:"format"`
	Text     string            `json:"text"`
	Review   correction.Review `json:"review"`
}

// POST /documents/review (multipart, field "file")
func DocumentReviewHandler(ex *extract.Extractor, rv *correction.Reviewer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			// multipart overhead on top of the file itself
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			var mberr *http.MaxBytesError
			if errors.As(err, &mberr) {
				writeErr(w, err)
				return
			}
			writeError(w, http.StatusBadRequest, "file required")
			return
		}
		defer f.Close()

		ct := hdr.Header.Get("Content-Type")
		if !extract.Supported(hdr.Filename, ct) {
			writeErr(w, extract.ErrUnsupportedFormat)
			return
		}
		text, err := ex.Extract(r.Context(), hdr.Filename, ct, f)
		if err != nil {
			writeErr(w, err)
			return
		}
		if strings.TrimSpace(text) == "" {
			writeError(w, http.StatusUnprocessableEntity, "no text found in "+hdr.Filename)
			return
		}
		res, err := rv.Review(r.Context(), text)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, documentReviewResp{
			FileName: hdr.Filename,
			Format:   extract.FormatOf(hdr.Filename, ct),
			Text:     text,
			Review:   res,
		})
	}
}

