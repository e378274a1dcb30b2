package store

import (
	"context"
	"fmt"

	"github.com/Seednode/truthordare/games"
)

// GenerateProfile asks gen for a profile of the player and stores it.
func (s *Store) GenerateProfile(ctx context.Context, playerID string, gen games.Generator) (PlayerProfile, error) {
	var player Player
	if err := s.db.WithContext(ctx).First(&player, "id = ?", playerID).Error; err != nil {
		return PlayerProfile{}, notFound(err, "player %q not found", playerID)
	}

	if gen == nil {
		gen = games.StubGenerator{}
	}

	generated, err := gen.Profile(ctx, player.member())
	if err != nil {
		return PlayerProfile{}, fmt.Errorf("generate profile for %s: %w", player.Name, err)
	}

	profile := PlayerProfile{
		ID:          newID(),
		PlayerID:    player.ID,
		Personality: generated.Personality,
		Preferences: generated.Preferences,
	}
	if profile.Preferences == nil {
		profile.Preferences = []string{}
	}

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return PlayerProfile{}, fmt.Errorf("create profile: %w", err)
	}

	return profile, nil
}
