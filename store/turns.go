package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Seednode/truthordare/games"
)

// NextTurnOptions controls how NextTurn draws content. Zero values pick the
// default pool, a crypto-seeded source and the stub generator.
type NextTurnOptions struct {
	Choice    Choice
	Pool      []games.GameAction
	Source    games.Source
	Generator games.Generator
}

func openTurn(db *gorm.DB, gameID string) (Turn, bool, error) {
	var turn Turn

	err := db.Where("game_id = ? AND completed_at IS NULL", gameID).First(&turn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Turn{}, false, nil
	}
	if err != nil {
		return Turn{}, false, fmt.Errorf("find open turn: %w", err)
	}

	return turn, true, nil
}

func (s *Store) latestProfile(ctx context.Context, playerID string) (PlayerProfile, bool, error) {
	var profile PlayerProfile

	err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PlayerProfile{}, false, nil
	}
	if err != nil {
		return PlayerProfile{}, false, fmt.Errorf("find profile: %w", err)
	}

	return profile, true, nil
}

// NextTurn draws content for the game's current player and opens a turn
// for it. Only one turn per game may be open at a time.
func (s *Store) NextTurn(ctx context.Context, gameID string, opts NextTurnOptions) (Turn, GeneratedItem, error) {
	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}

	if game.Status != StatusActive {
		return Turn{}, GeneratedItem{}, games.Conflictf("game %q is %s, not active", game.ID, game.Status)
	}

	if open, ok, err := openTurn(s.db.WithContext(ctx), game.ID); err != nil {
		return Turn{}, GeneratedItem{}, err
	} else if ok {
		return Turn{}, GeneratedItem{}, games.Conflictf("turn %q is still open", open.ID)
	}

	if opts.Source == nil {
		opts.Source = games.NewSource()
	}
	if opts.Generator == nil {
		opts.Generator = games.StubGenerator{}
	}

	choice := opts.Choice
	if choice == "" {
		choice = []Choice{ChoiceTruth, ChoiceDare}[opts.Source.Intn(2)]
	}

	r, err := roster(game.Players)
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}

	engine, err := games.ResumeEngine(r, opts.Pool, opts.Source, games.TurnState{
		CurrentPlayerIndex: game.CurrentPlayerIndex,
		Round:              game.Round,
	})
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}

	action, err := engine.DrawActionOfType(choice.actionType())
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}

	player := engine.CurrentPlayer()

	req := games.GenerateRequest{
		ScenarioID: game.ScenarioID,
		Player:     player,
		Action:     action,
	}

	if scenario, err := s.GetScenario(ctx, game.ScenarioID); err == nil {
		req.Tone = string(scenario.Tone)
		req.Adult = scenario.IsAdult
	} else if !errors.Is(err, games.ErrNotFound) {
		return Turn{}, GeneratedItem{}, err
	}

	var profileID *string
	profile, ok, err := s.latestProfile(ctx, player.ID)
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}
	if ok {
		req.Personality = profile.Personality
		profileID = &profile.ID
	}

	content, err := opts.Generator.Generate(ctx, req)
	if err != nil {
		return Turn{}, GeneratedItem{}, fmt.Errorf("generate %s for %s: %w", choice, player.Name, err)
	}

	item := GeneratedItem{
		ID:              newID(),
		Type:            choice,
		Content:         content,
		ScenarioID:      game.ScenarioID,
		PlayerProfileID: profileID,
		ActionID:        action.ID,
	}

	turn := Turn{
		ID:              newID(),
		GameID:          game.ID,
		PlayerID:        player.ID,
		GeneratedItemID: item.ID,
		Choice:          choice,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := getGame(tx, game.ID)
		if err != nil {
			return err
		}
		if current.Status != StatusActive || current.CurrentPlayerIndex != game.CurrentPlayerIndex || current.Round != game.Round {
			return games.Conflictf("game %q changed while the turn was being prepared", game.ID)
		}

		if open, ok, err := openTurn(tx, game.ID); err != nil {
			return err
		} else if ok {
			return games.Conflictf("turn %q is still open", open.ID)
		}

		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("save generated item: %w", err)
		}

		if err := tx.Omit(clause.Associations).Create(&turn).Error; err != nil {
			return fmt.Errorf("save turn: %w", err)
		}

		return nil
	})
	if err != nil {
		return Turn{}, GeneratedItem{}, err
	}

	turn.Item = item

	return turn, item, nil
}

// GetTurn loads a turn and its generated item.
func (s *Store) GetTurn(ctx context.Context, id string) (Turn, error) {
	var turn Turn

	err := s.db.WithContext(ctx).Preload("Item").First(&turn, "id = ?", id).Error
	if err != nil {
		return Turn{}, notFound(err, "turn %q not found", id)
	}

	return turn, nil
}

// SubmitTurn records the outcome of an open turn and, if the game is still
// active, passes play to the next player.
func (s *Store) SubmitTurn(ctx context.Context, turnID, result string) (Turn, error) {
	result = strings.TrimSpace(result)
	if result == "" {
		return Turn{}, games.Validationf("result is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var turn Turn
		if err := tx.Preload("Item").First(&turn, "id = ?", turnID).Error; err != nil {
			return notFound(err, "turn %q not found", turnID)
		}

		if turn.CompletedAt != nil {
			return games.Conflictf("turn %q was already submitted", turn.ID)
		}

		game, err := getGame(tx, turn.GameID)
		if err != nil {
			return err
		}

		if game.Status == StatusActive {
			r, err := roster(game.Players)
			if err != nil {
				return err
			}

			engine, err := games.ResumeEngine(r, nil, nil, games.TurnState{
				CurrentPlayerIndex: game.CurrentPlayerIndex,
				Round:              game.Round,
				CurrentAction:      turn.Item.pendingAction(),
			})
			if err != nil {
				return err
			}

			if engine.CurrentPlayer().ID != turn.PlayerID {
				return games.Conflictf("turn %q does not belong to the current player", turn.ID)
			}

			if err := engine.Advance(); err != nil {
				return err
			}

			state := engine.State()
			if err := tx.Model(&Game{ID: game.ID}).Updates(map[string]any{
				"current_player_index": state.CurrentPlayerIndex,
				"current_player_id":    engine.CurrentPlayer().ID,
				"round":                state.Round,
			}).Error; err != nil {
				return fmt.Errorf("advance game: %w", err)
			}
		}

		return tx.Model(&Turn{ID: turn.ID}).Updates(map[string]any{
			"result":       result,
			"completed_at": s.now(),
		}).Error
	})
	if err != nil {
		return Turn{}, err
	}

	return s.GetTurn(ctx, turnID)
}
