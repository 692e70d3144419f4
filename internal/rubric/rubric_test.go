package rubric

import (
	"errors"
	"testing"
)

func TestCalculateGlobalScore(t *testing.T) {
	cases := []struct {
		name     string
		criteria []Criterion
		want     int
	}{
		{"empty", nil, 0},
		{"all ungraded", []Criterion{{ID: "c1", Weight: 50, MaxScore: 20}, {ID: "c2", Weight: 50, MaxScore: 20}}, 0},
		{"single full", []Criterion{{ID: "c1", Weight: 100, MaxScore: 20, Score: Score(20)}}, 100},
		{"ungraded excluded", []Criterion{
			{ID: "c1", Weight: 50, MaxScore: 20, Score: Score(20)},
			{ID: "c2", Weight: 50, MaxScore: 20},
		}, 100},
		{"weights below 100", []Criterion{{ID: "c1", Weight: 30, MaxScore: 20, Score: Score(10)}}, 50},
		{"zero score", []Criterion{{ID: "c1", Weight: 40, MaxScore: 20, Score: Score(0)}}, 0},
		{"chapter grid", []Criterion{
			{ID: "c1", Weight: 20, MaxScore: 20, Score: Score(17)},
			{ID: "c2", Weight: 25, MaxScore: 20, Score: Score(18)},
			{ID: "c3", Weight: 20, MaxScore: 20, Score: Score(16)},
			{ID: "c4", Weight: 20, MaxScore: 20, Score: Score(15)},
			{ID: "c5", Weight: 15, MaxScore: 20, Score: Score(18)},
		}, 84},
		{"zero weight only", []Criterion{{ID: "c1", Weight: 0, MaxScore: 20, Score: Score(20)}}, 0},
		{"negative weight ignored", []Criterion{
			{ID: "c1", Weight: 100, MaxScore: 20, Score: Score(20)},
			{ID: "c2", Weight: -50, MaxScore: 20, Score: Score(0)},
		}, 100},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CalculateGlobalScore(c.criteria); got != c.want {
				t.Fatalf("got %d, want %d", got, c.want)
			}
		})
	}
}

func TestGetMention(t *testing.T) {
	cases := []struct {
		score int
		tier  Tier
		label string
	}{
		{0, TierInsufficient, "Insuffisant"},
		{49, TierInsufficient, "Insuffisant"},
		{50, TierPassable, "Passable"},
		{59, TierPassable, "Passable"},
		{60, TierFairlyGood, "Assez Bien"},
		{69, TierFairlyGood, "Assez Bien"},
		{70, TierGood, "Bien"},
		{79, TierGood, "Bien"},
		{80, TierVeryGood, "Très Bien"},
		{89, TierVeryGood, "Très Bien"},
		{90, TierExcellent, "Excellent"},
		{100, TierExcellent, "Excellent"},
	}
	for _, c := range cases {
		m := GetMention(c.score)
		if m.Tier != c.tier || m.Label != c.label || m.Style == "" {
			t.Errorf("GetMention(%d) = %+v", c.score, m)
		}
	}
}

func TestValidateScore(t *testing.T) {
	c := Criterion{ID: "c1", Weight: 20, MaxScore: 20}
	if err := c.ValidateScore(20); err != nil {
		t.Fatalf("max score rejected: %v", err)
	}
	if err := c.ValidateScore(0); err != nil {
		t.Fatalf("zero rejected: %v", err)
	}
	for _, s := range []float64{-1, 20.5} {
		if err := c.ValidateScore(s); !errors.Is(err, ErrScoreOutOfRange) {
			t.Errorf("ValidateScore(%v) = %v", s, err)
		}
	}
	bad := Criterion{ID: "c2", MaxScore: 0}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidMaxScore) {
		t.Fatalf("Validate = %v", err)
	}
	neg := Criterion{ID: "c3", Weight: -50, MaxScore: 20, Score: Score(0)}
	if err := neg.Validate(); !errors.Is(err, ErrNegativeWeight) {
		t.Fatalf("Validate = %v", err)
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := DefaultCatalog()
	ts := cat.Templates()
	if len(ts) != 4 {
		t.Fatalf("got %d templates", len(ts))
	}
	wantTypes := []TemplateType{TypePlan, TypeChapter, TypeFinal, TypeRevision}
	for i, tpl := range ts {
		if tpl.Type != wantTypes[i] {
			t.Errorf("template %d type = %s", i, tpl.Type)
		}
		var sum float64
		for _, c := range tpl.Criteria {
			sum += c.Weight
			if c.MaxScore != 20 || c.Score != nil {
				t.Errorf("%s/%s = %+v", tpl.ID, c.ID, c)
			}
		}
		if sum != 100 {
			t.Errorf("%s weights sum to %v", tpl.ID, sum)
		}
	}

	final, err := cat.Template("template-final")
	if err != nil {
		t.Fatal(err)
	}
	if len(final.Criteria) != 7 {
		t.Fatalf("final grid has %d criteria", len(final.Criteria))
	}

	if _, err := cat.Template("nope"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("err = %v", err)
	}

	cm := cat.Comments()
	if len(cm.Strengths) != 10 || len(cm.Improvements) != 10 || len(cm.General) != 10 {
		t.Fatalf("comments = %+v", cm)
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	cat := DefaultCatalog()
	tpl, _ := cat.Template("template-plan")
	tpl.Criteria[0].Score = Score(12)
	tpl.Criteria[1].Name = "changed"

	again, _ := cat.Template("template-plan")
	if again.Criteria[0].Score != nil || again.Criteria[1].Name == "changed" {
		t.Fatal("catalog template was mutated through a returned copy")
	}

	cm := cat.Comments()
	cm.Strengths[0] = "changed"
	if cat.Comments().Strengths[0] == "changed" {
		t.Fatal("comment bank was mutated")
	}
}

func TestLoadCatalogRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad type": `templates: [{id: t, name: n, type: memo, criteria: []}]`,
		"dup id":   `templates: [{id: t, name: n, type: plan}, {id: t, name: m, type: plan}]`,
		"max zero": `templates: [{id: t, name: n, type: plan, criteria: [{id: c1, weight: 10, max_score: 0}]}]`,
		"no id":    `templates: [{name: n, type: plan}]`,
	}
	for name, doc := range cases {
		if _, err := LoadCatalog([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestCloneCriteria(t *testing.T) {
	in := []Criterion{{ID: "c1", MaxScore: 20, Score: Score(5)}}
	out := CloneCriteria(in)
	*out[0].Score = 10
	if *in[0].Score != 5 {
		t.Fatal("clone shares score pointer")
	}
}
