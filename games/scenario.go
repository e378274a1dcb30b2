package games

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Scenario describes a game variant and the player counts it supports.
type Scenario struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Difficulty    Difficulty    `json:"difficulty"`
	MinPlayers    int           `json:"minPlayers"`
	MaxPlayers    int           `json:"maxPlayers"`
	EstimatedTime time.Duration `json:"estimatedTime"`
}

var catalog = []Scenario{
	{
		ID:            "classic",
		Title:         "Classic Truth or Dare",
		Description:   "The traditional game of questions and dares for a fun crowd.",
		Difficulty:    DifficultyEasy,
		MinPlayers:    2,
		MaxPlayers:    8,
		EstimatedTime: 30 * time.Minute,
	},
	{
		ID:            "confessions",
		Title:         "Honest Confessions",
		Description:   "For close friends, with more personal questions.",
		Difficulty:    DifficultyMedium,
		MinPlayers:    3,
		MaxPlayers:    6,
		EstimatedTime: 45 * time.Minute,
	},
	{
		ID:            "extreme",
		Title:         "Extreme Challenges",
		Description:   "For the bravest only: tough dares and tricky questions.",
		Difficulty:    DifficultyHard,
		MinPlayers:    4,
		MaxPlayers:    8,
		EstimatedTime: 60 * time.Minute,
	},
}

// Catalog returns the built-in scenarios.
func Catalog() []Scenario {
	out := make([]Scenario, len(catalog))
	copy(out, catalog)

	return out
}

func FindScenario(id string) (Scenario, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}

	return Scenario{}, false
}

// IsEligible reports whether the roster size falls inside the scenario's
// player range.
func IsEligible(r *Roster, s Scenario) bool {
	n := r.Len()

	return s.MinPlayers <= n && n <= s.MaxPlayers
}

// EligibleScenarios filters the catalog down to the scenarios r can play.
func EligibleScenarios(r *Roster) []Scenario {
	var out []Scenario
	for _, s := range catalog {
		if IsEligible(r, s) {
			out = append(out, s)
		}
	}

	return out
}
