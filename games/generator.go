package games

import (
	"context"
	"strings"
)

// GenerateRequest is the context handed to a Generator for one turn.
type GenerateRequest struct {
	ScenarioID  string
	Tone        string
	Adult       bool
	Player      Player
	Personality string
	Action      GameAction
}

// Profile is a generated description of a player's taste in prompts.
type Profile struct {
	Personality string
	Preferences []string
}

// Generator produces turn content and player profiles. Implementations may
// call out to an external content service; the drawn Action is always a
// usable fallback.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Profile(ctx context.Context, p Player) (Profile, error)
}

// StubGenerator returns drawn actions verbatim and a fixed profile.
type StubGenerator struct{}

func (StubGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	content := strings.TrimSpace(req.Action.Content)
	if content == "" {
		return "", Validationf("action %q has no content", req.Action.ID)
	}

	return content, nil
}

func (StubGenerator) Profile(ctx context.Context, p Player) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	return Profile{
		Personality: "Generated personality profile",
		Preferences: []string{"fun", "adventure"},
	}, nil
}

var _ Generator = StubGenerator{}
