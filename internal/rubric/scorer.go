package rubric

import "math"

// CalculateGlobalScore returns the weighted score of the graded criteria on
// a 0-100 scale. Ungraded criteria count in neither the weighted sum nor the
// total weight, and a grid with nothing graded scores 0. Criteria with a
// non-positive max score or a negative weight are ignored.
func CalculateGlobalScore(criteria []Criterion) int {
	var weighted, totalWeight float64
	for _, c := range criteria {
		if c.Score == nil || c.MaxScore <= 0 || c.Weight < 0 {
			continue
		}
		normalized := *c.Score / c.MaxScore * 100
		weighted += float64(normalized * (c.Weight / 100))
		totalWeight += c.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return int(roundHalfUp(weighted / totalWeight * 100))
}

// roundHalfUp rounds .5 toward +Inf like the grading front-end does.
func roundHalfUp(x float64) float64 {
	r := math.Round(x)
	if r-x == -0.5 {
		return r + 1
	}
	return r
}
