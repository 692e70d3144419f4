// Package gemini detects correction issues with a Gemini model.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
	"google.golang.org/api/option"

	"github.com/mind-engage/memoire-review/internal/correction"
)

const DefaultModel = "gemini-1.5-flash"

const systemPrompt = `Tu es un relecteur de mémoires universitaires. Relève les fautes d'orthographe,
de grammaire, de style et de cohérence du texte fourni par l'utilisateur.

Réponds UNIQUEMENT par un tableau JSON. Chaque élément contient :
- "type" : "spelling", "grammar", "style" ou "coherence"
- "severity" : "error", "warning" ou "info"
- "message" : explication courte en français
- "suggestion" : texte de remplacement, chaîne vide si aucune
- "original" : le passage fautif recopié exactement, caractère pour caractère

Liste les problèmes dans l'ordre où ils apparaissent dans le texte. N'invente aucun passage.`

const issuesSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["type", "severity", "message", "original"],
    "properties": {
      "type": { "enum": ["spelling", "grammar", "style", "coherence", "plagiarism"] },
      "severity": { "enum": ["error", "warning", "info"] },
      "message": { "type": "string" },
      "suggestion": { "type": "string" },
      "original": { "type": "string" }
    }
  }
}`

var issuesSchema = gojsonschema.NewStringLoader(issuesSchemaJSON)

type Detector struct {
	APIKey string
	Model  string
}

func New(apiKey, model string) *Detector {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &Detector{APIKey: strings.TrimSpace(apiKey), Model: model}
}

func (d *Detector) Detect(ctx context.Context, text string) ([]correction.CorrectionIssue, error) {
	if d.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	if strings.TrimSpace(text) == "" {
		return []correction.CorrectionIssue{}, nil
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(d.APIKey))
	if err != nil {
		return nil, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(d.Model)
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini detect: %w", err)
	}
	raw := firstText(resp)
	if raw == "" {
		return nil, fmt.Errorf("gemini detect: empty response")
	}
	return ParseIssues(text, raw)
}

type rawIssue struct {
	Type       correction.IssueType `json:"type"`
	Severity   correction.Severity  `json:"severity"`
	Message    string               `json:"message"`
	Suggestion string               `json:"suggestion"`
	Original   string               `json:"original"`
}

// ParseIssues turns a model answer into issues anchored on text. Positions
// are computed by locating each quoted passage, searching forward from the
// previous match first; passages that cannot be found are dropped.
func ParseIssues(text, raw string) ([]correction.CorrectionIssue, error) {
	payload := stripCodeFences(raw)
	result, err := gojsonschema.Validate(issuesSchema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("gemini detect: bad JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("gemini detect: schema: %s", strings.Join(msgs, "; "))
	}

	var items []rawIssue
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("gemini detect: bad JSON: %w", err)
	}

	out := make([]correction.CorrectionIssue, 0, len(items))
	cursor := 0
	for _, it := range items {
		if it.Original == "" {
			continue
		}
		at := strings.Index(text[cursor:], it.Original)
		if at >= 0 {
			at += cursor
		} else if at = strings.Index(text, it.Original); at < 0 {
			continue
		}
		end := at + len(it.Original)
		cursor = end
		out = append(out, correction.CorrectionIssue{
			ID:         strconv.Itoa(len(out) + 1),
			Type:       it.Type,
			Severity:   it.Severity,
			Message:    it.Message,
			Suggestion: it.Suggestion,
			Position: correction.Span{
				Start: utf8.RuneCountInString(text[:at]),
				End:   utf8.RuneCountInString(text[:end]),
			},
			Original: it.Original,
		})
	}
	return out, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
