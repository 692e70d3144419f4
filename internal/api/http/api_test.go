package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/memoire-review/internal/correction"
	"github.com/mind-engage/memoire-review/internal/extract"
	"github.com/mind-engage/memoire-review/internal/feedback"
	"github.com/mind-engage/memoire-review/internal/rubric"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := correction.NewAnalyzer(correction.WithLogger(logger))
	cat := rubric.DefaultCatalog()
	n := 0
	r := chi.NewRouter()
	Mount(r, Deps{
		Analyzer:  analyzer,
		Reviewer:  correction.NewReviewer(analyzer, nil, nil, logger),
		Extractor: extract.New(nil, 1<<20),
		Catalog:   cat,
		Feedbacks: feedback.NewService(feedback.NewInMemoryStore(), cat,
			feedback.WithLogger(logger),
			feedback.WithIDGenerator(func() string { n++; return fmt.Sprintf("fb-%d", n) })),
		MaxUploadBytes: 1 << 20,
		Logger:         logger,
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType string, body io.Reader, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func jsonBody(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var got correction.DocumentAnalysis
	code := do(t, "POST", srv.URL+"/analyze", "text/plain", strings.NewReader("Le developement durable."), &got)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.WordCount != 3 || len(got.Issues) != 1 || got.Issues[0].Suggestion != "développement" {
		t.Fatalf("analysis = %+v", got)
	}

	code = do(t, "POST", srv.URL+"/analyze", "application/json", jsonBody(map[string]string{"text": "Un texte."}), &got)
	if code != http.StatusOK || got.WordCount != 2 {
		t.Fatalf("status = %d, analysis = %+v", code, got)
	}

	var e errorBody
	code = do(t, "POST", srv.URL+"/analyze", "application/json", strings.NewReader(`{}`), &e)
	if code != http.StatusBadRequest || e.Fields["text"] == "" {
		t.Fatalf("status = %d, body = %+v", code, e)
	}
}

func TestTextEndpointsRejectOversizedBodies(t *testing.T) {
	srv := newTestServer(t)
	big := strings.Repeat("a", 1<<20+10)
	for _, path := range []string{"/analyze", "/review"} {
		var e errorBody
		if code := do(t, "POST", srv.URL+path, "text/plain", strings.NewReader(big), &e); code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s raw: status = %d", path, code)
		}
		if code := do(t, "POST", srv.URL+path, "application/json", jsonBody(map[string]string{"text": big}), &e); code != http.StatusRequestEntityTooLarge {
			t.Errorf("%s json: status = %d", path, code)
		}
	}
}

func TestCorrectEndpoint(t *testing.T) {
	srv := newTestServer(t)
	body := map[string]any{
		"text": "Ths is wrng",
		"issues": []map[string]any{
			{"id": "1", "type": "spelling", "severity": "error", "message": "m", "suggestion": "This", "position": map[string]int{"start": 0, "end": 3}, "original": "Ths"},
			{"id": "2", "type": "spelling", "severity": "error", "message": "m", "suggestion": "x", "position": map[string]int{"start": 5, "end": 50}, "original": ""},
		},
	}
	var got correctResp
	if code := do(t, "POST", srv.URL+"/correct", "application/json", jsonBody(body), &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Corrected != "This is wrng" || len(got.Rejected) != 1 || got.Rejected[0].Issue.ID != "2" {
		t.Fatalf("got %+v", got)
	}
}

func TestReviewEndpoint(t *testing.T) {
	srv := newTestServer(t)
	var got correction.Review
	code := do(t, "POST", srv.URL+"/review", "text/plain", strings.NewReader("Les résultats montre une hausse."), &got)
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Corrected != "Les résultats montrent une hausse." {
		t.Fatalf("corrected = %q", got.Corrected)
	}
}

func multipartFile(t *testing.T, name, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = io.WriteString(fw, content)
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestDocumentReviewEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body, ct := multipartFile(t, "chapitre.txt", "Le developement durable.")
	var got documentReviewResp
	if code := do(t, "POST", srv.URL+"/documents/review", ct, body, &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Format != extract.FormatTXT || got.Review.Corrected != "Le développement durable." {
		t.Fatalf("got %+v", got)
	}

	body, ct = multipartFile(t, "chapitre.odt", "x")
	var e errorBody
	if code := do(t, "POST", srv.URL+"/documents/review", ct, body, &e); code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, body = %+v", code, e)
	}

	if code := do(t, "POST", srv.URL+"/documents/review", "text/plain", strings.NewReader("x"), &e); code != http.StatusBadRequest {
		t.Fatalf("status without file = %d", code)
	}
}

func TestScoreEndpoint(t *testing.T) {
	srv := newTestServer(t)
	criteria := []rubric.Criterion{
		{ID: "c1", Weight: 20, MaxScore: 20, Score: rubric.Score(17)},
		{ID: "c2", Weight: 25, MaxScore: 20, Score: rubric.Score(18)},
		{ID: "c3", Weight: 20, MaxScore: 20, Score: rubric.Score(16)},
		{ID: "c4", Weight: 20, MaxScore: 20, Score: rubric.Score(15)},
		{ID: "c5", Weight: 15, MaxScore: 20, Score: rubric.Score(18)},
	}
	var got scoreResp
	if code := do(t, "POST", srv.URL+"/score", "application/json", jsonBody(criteria), &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.GlobalScore != 84 || got.Mention.Label != "Très Bien" {
		t.Fatalf("got %+v", got)
	}

	criteria[0].Score = rubric.Score(30)
	var e errorBody
	if code := do(t, "POST", srv.URL+"/score", "application/json", jsonBody(criteria), &e); code != http.StatusBadRequest {
		t.Fatalf("status = %d", code)
	}

	neg := []rubric.Criterion{
		{ID: "c1", Weight: 100, MaxScore: 20, Score: rubric.Score(20)},
		{ID: "c2", Weight: -50, MaxScore: 20, Score: rubric.Score(0)},
	}
	if code := do(t, "POST", srv.URL+"/score", "application/json", jsonBody(neg), &e); code != http.StatusBadRequest {
		t.Fatalf("negative weight: status = %d", code)
	}

	if code := do(t, "POST", srv.URL+"/score", "application/json", strings.NewReader(`[]`), &got); code != http.StatusOK || got.GlobalScore != 0 {
		t.Fatalf("empty grid: status = %d, got %+v", code, got)
	}
}

func TestTemplateEndpoints(t *testing.T) {
	srv := newTestServer(t)
	var ts []rubric.Template
	if code := do(t, "GET", srv.URL+"/templates", "", nil, &ts); code != http.StatusOK || len(ts) != 4 {
		t.Fatalf("status = %d, %d templates", code, len(ts))
	}
	var tpl rubric.Template
	if code := do(t, "GET", srv.URL+"/templates/template-revision", "", nil, &tpl); code != http.StatusOK || len(tpl.Criteria) != 4 {
		t.Fatalf("status = %d, template = %+v", code, tpl)
	}
	var e errorBody
	if code := do(t, "GET", srv.URL+"/templates/nope", "", nil, &e); code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	var cm rubric.Comments
	if code := do(t, "GET", srv.URL+"/comments", "", nil, &cm); code != http.StatusOK || len(cm.General) == 0 {
		t.Fatalf("status = %d, comments = %+v", code, cm)
	}
}

func TestFeedbackEndpoints(t *testing.T) {
	srv := newTestServer(t)
	base := srv.URL + "/feedbacks"

	var e errorBody
	code := do(t, "POST", base, "application/json", jsonBody(map[string]string{"templateId": "template-plan"}), &e)
	if code != http.StatusBadRequest || e.Fields["documentId"] == "" {
		t.Fatalf("status = %d, body = %+v", code, e)
	}

	open := feedback.OpenInput{
		TemplateID: "template-plan", DocumentID: "doc1", DocumentName: "Plan.docx",
		EvaluatorID: "a1", EvaluatorName: "Dr. Martin",
	}
	var f feedback.Feedback
	if code := do(t, "POST", base, "application/json", jsonBody(open), &f); code != http.StatusCreated {
		t.Fatalf("open status = %d", code)
	}
	if f.ID != "fb-1" || f.Status != feedback.StatusDraft {
		t.Fatalf("feedback = %+v", f)
	}
	item := base + "/" + f.ID

	if code := do(t, "PUT", item+"/criteria/c1", "application/json", jsonBody(map[string]float64{"score": 20}), &f); code != http.StatusOK || f.GlobalScore != 100 {
		t.Fatalf("status = %d, score = %d", code, f.GlobalScore)
	}
	if code := do(t, "PUT", item+"/criteria/c1", "application/json", jsonBody(map[string]float64{"score": 25}), &e); code != http.StatusBadRequest {
		t.Fatalf("out of range status = %d", code)
	}
	if code := do(t, "PUT", item+"/criteria/c9", "application/json", jsonBody(map[string]float64{"score": 1}), &e); code != http.StatusBadRequest {
		t.Fatalf("unknown criterion status = %d", code)
	}

	do(t, "POST", item+"/strengths", "application/json", jsonBody(map[string]string{"text": "Clair"}), &f)
	do(t, "POST", item+"/strengths", "application/json", jsonBody(map[string]string{"text": "Clair"}), &f)
	if len(f.Strengths) != 1 {
		t.Fatalf("strengths = %q", f.Strengths)
	}
	if code := do(t, "POST", item+"/improvements", "application/json", jsonBody(map[string]string{"text": "  "}), &e); code != http.StatusBadRequest {
		t.Fatalf("blank improvement status = %d", code)
	}
	if code := do(t, "DELETE", item+"/strengths/4", "", nil, &e); code != http.StatusBadRequest {
		t.Fatalf("bad index status = %d", code)
	}
	if code := do(t, "DELETE", item+"/strengths/0", "", nil, &f); code != http.StatusOK || len(f.Strengths) != 0 {
		t.Fatalf("status = %d, strengths = %q", code, f.Strengths)
	}
	do(t, "PUT", item+"/comment", "application/json", jsonBody(map[string]string{"comment": "Bon travail"}), &f)
	if f.GlobalComment != "Bon travail" {
		t.Fatalf("comment = %q", f.GlobalComment)
	}

	if code := do(t, "POST", item+"/read", "", nil, &e); code != http.StatusConflict {
		t.Fatalf("read draft status = %d", code)
	}
	if code := do(t, "POST", item+"/submit", "", nil, &f); code != http.StatusOK || f.Status != feedback.StatusSent {
		t.Fatalf("submit status = %d, %s", code, f.Status)
	}
	if code := do(t, "POST", item+"/submit", "", nil, &e); code != http.StatusConflict {
		t.Fatalf("second submit status = %d", code)
	}
	if code := do(t, "POST", item+"/read", "", nil, &f); code != http.StatusOK || f.Status != feedback.StatusRead {
		t.Fatalf("read status = %d, %s", code, f.Status)
	}

	var rev feedback.Feedback
	if code := do(t, "POST", item+"/revise", "", nil, &rev); code != http.StatusCreated || rev.RevisionOf != f.ID {
		t.Fatalf("revise status = %d, %+v", code, rev)
	}

	var list []feedback.Feedback
	if code := do(t, "GET", base+"?documentId=doc1&status=read", "", nil, &list); code != http.StatusOK || len(list) != 1 {
		t.Fatalf("status = %d, list = %+v", code, list)
	}
	if code := do(t, "GET", base+"?status=archived", "", nil, &e); code != http.StatusBadRequest {
		t.Fatalf("bad status filter = %d", code)
	}
	if code := do(t, "GET", base+"/missing", "", nil, &e); code != http.StatusNotFound {
		t.Fatalf("missing status = %d", code)
	}
}
