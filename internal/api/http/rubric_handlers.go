package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/memoire-review/internal/rubric"
)

type scoreResp struct {
	GlobalScore int            `json:"globalScore"`
	Mention     rubric.Mention `json:"mention"`
}

// POST /score
func ScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var criteria []rubric.Criterion
		if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		for _, c := range criteria {
			if err := c.Validate(); err != nil {
				writeErr(w, err)
				return
			}
		}
		score := rubric.CalculateGlobalScore(criteria)
		writeJSON(w, http.StatusOK, scoreResp{GlobalScore: score, Mention: rubric.GetMention(score)})
	}
}

// GET /templates
func ListTemplatesHandler(cat *rubric.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Templates())
	}
}

// GET /templates/{templateID}
func GetTemplateHandler(cat *rubric.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := cat.Template(chi.URLParam(r, "templateID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// GET /comments
func CommentsHandler(cat *rubric.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.Comments())
	}
}
