package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/mind-engage/memoire-review/internal/correction"
	"github.com/mind-engage/memoire-review/internal/extract"
	"github.com/mind-engage/memoire-review/internal/feedback"
	"github.com/mind-engage/memoire-review/internal/rubric"
)

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeErr maps domain errors to status codes.
func writeErr(w http.ResponseWriter, err error) {
	var (
		verrs validator.ValidationErrors
		terr  *feedback.TransitionError
		mberr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fieldErrors(verrs)})
	case errors.Is(err, feedback.ErrNotFound), errors.Is(err, rubric.ErrUnknownTemplate):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &terr):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, rubric.ErrScoreOutOfRange),
		errors.Is(err, rubric.ErrInvalidMaxScore),
		errors.Is(err, rubric.ErrNegativeWeight),
		errors.Is(err, feedback.ErrUnknownCriterion),
		errors.Is(err, feedback.ErrIndexOutOfRange),
		errors.Is(err, correction.ErrInvalidSpan):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, extract.ErrUnsupportedFormat):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, extract.ErrTooLarge), errors.As(err, &mberr):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decodeJSON decodes and validates a request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mberr *http.MaxBytesError
		if errors.As(err, &mberr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errBadRequest("empty body")
		}
		return errBadRequest("bad json: " + err.Error())
	}
	return validate.Struct(v)
}

type badRequest string

func (e badRequest) Error() string { return string(e) }

func errBadRequest(msg string) error { return badRequest(msg) }

func writeDecodeErr(w http.ResponseWriter, err error) {
	var br badRequest
	if errors.As(err, &br) {
		writeError(w, http.StatusBadRequest, br.Error())
		return
	}
	writeErr(w, err)
}
