package games

type ActionType string

const (
	ActionQuestion ActionType = "question"
	ActionDare     ActionType = "dare"
	ActionChoice   ActionType = "choice"
)

// Label is the name shown to players for an action type.
func (t ActionType) Label() string {
	switch t {
	case ActionQuestion:
		return "Truth"
	case ActionDare:
		return "Dare"
	case ActionChoice:
		return "Choice"
	default:
		return ""
	}
}

// GameAction is one prompt drawn during a turn.
type GameAction struct {
	ID         string     `json:"id"`
	Type       ActionType `json:"type"`
	Content    string     `json:"content"`
	Difficulty Difficulty `json:"difficulty"`
	Category   string     `json:"category"`
}

var defaultPool = []GameAction{
	{ID: "1", Type: ActionQuestion, Content: "What is the strangest dream you have ever had?", Difficulty: DifficultyEasy, Category: "personal"},
	{ID: "2", Type: ActionDare, Content: "Do the robot dance for 30 seconds.", Difficulty: DifficultyMedium, Category: "action"},
	{ID: "3", Type: ActionQuestion, Content: "What did you lie to your parents about as a kid?", Difficulty: DifficultyMedium, Category: "secrets"},
	{ID: "4", Type: ActionDare, Content: "Show the funniest photo on your phone.", Difficulty: DifficultyEasy, Category: "social"},
	{ID: "5", Type: ActionChoice, Content: "Would you rather sing the chorus of your favourite song or tell your most embarrassing story?", Difficulty: DifficultyEasy, Category: "social"},
	{ID: "6", Type: ActionQuestion, Content: "Who in this room would you call in an emergency, and why?", Difficulty: DifficultyHard, Category: "personal"},
	{ID: "7", Type: ActionDare, Content: "Let the player to your left post a status from your account.", Difficulty: DifficultyHard, Category: "social"},
	{ID: "8", Type: ActionChoice, Content: "Reveal your last search or do ten push-ups.", Difficulty: DifficultyMedium, Category: "action"},
}

// DefaultPool returns the built-in action pool.
func DefaultPool() []GameAction {
	out := make([]GameAction, len(defaultPool))
	copy(out, defaultPool)

	return out
}
