package rubric

type Tier string

const (
	TierExcellent    Tier = "excellent"
	TierVeryGood     Tier = "very_good"
	TierGood         Tier = "good"
	TierFairlyGood   Tier = "fairly_good"
	TierPassable     Tier = "passable"
	TierInsufficient Tier = "insufficient"
)

// Mention is the grade label shown next to a global score. Style holds the
// CSS utility classes the front-end renders the badge with.
type Mention struct {
	Tier  Tier   `json:"tier"`
	Label string `json:"label"`
	Style string `json:"style"`
}

var mentions = []struct {
	min int
	Mention
}{
	{90, Mention{TierExcellent, "Excellent", "text-green-700 bg-green-100 border-green-300"}},
	{80, Mention{TierVeryGood, "Très Bien", "text-blue-700 bg-blue-100 border-blue-300"}},
	{70, Mention{TierGood, "Bien", "text-cyan-700 bg-cyan-100 border-cyan-300"}},
	{60, Mention{TierFairlyGood, "Assez Bien", "text-yellow-700 bg-yellow-100 border-yellow-300"}},
	{50, Mention{TierPassable, "Passable", "text-orange-700 bg-orange-100 border-orange-300"}},
}

var insufficient = Mention{TierInsufficient, "Insuffisant", "text-red-700 bg-red-100 border-red-300"}

func GetMention(score int) Mention {
	for _, m := range mentions {
		if score >= m.min {
			return m.Mention
		}
	}
	return insufficient
}
