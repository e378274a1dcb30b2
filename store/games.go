/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Seednode/truthordare/games"
)

func playersByOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (s *Store) CreateGame(ctx context.Context, hostID, scenarioID string) (Game, error) {
	hostID = strings.TrimSpace(hostID)
	scenarioID = strings.TrimSpace(scenarioID)

	if hostID == "" {
		return Game{}, games.Validationf("hostId is required")
	}
	if scenarioID == "" {
		return Game{}, games.Validationf("scenarioId is required")
	}

	if _, err := s.GetScenario(ctx, scenarioID); err != nil {
		if errors.Is(err, games.ErrNotFound) {
			return Game{}, games.Validationf("unknown scenario %q", scenarioID)
		}

		return Game{}, err
	}

	game := Game{
		ID:         newID(),
		HostID:     hostID,
		ScenarioID: scenarioID,
		Status:     StatusWaiting,
		Round:      1,
		Players:    []Player{},
	}

	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return Game{}, fmt.Errorf("create game: %w", err)
	}

	return game, nil
}

func getGame(db *gorm.DB, id string) (Game, error) {
	var game Game

	err := db.Preload("Players", playersByOrder).First(&game, "id = ?", id).Error
	if err != nil {
		return Game{}, notFound(err, "game %q not found", id)
	}

	if game.Players == nil {
		game.Players = []Player{}
	}

	return game, nil
}

// GetGame loads a game with its players in turn order.
func (s *Store) GetGame(ctx context.Context, id string) (Game, error) {
	return getGame(s.db.WithContext(ctx), id)
}

// AddPlayer appends a player to a waiting game. Names follow the roster
// rules: trimmed, non-empty, unique ignoring case, at most games.MaxPlayers.
func (s *Store) AddPlayer(ctx context.Context, gameID, name, avatar string) (Player, error) {
	var player Player

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, gameID)
		if err != nil {
			return err
		}

		if game.Status != StatusWaiting {
			return games.Conflictf("game %q is %s; players can only join while it is waiting", game.ID, game.Status)
		}

		r, err := roster(game.Players)
		if err != nil {
			return err
		}

		member, err := r.Add(name)
		if err != nil {
			return err
		}

		player = Player{
			ID:     member.ID,
			GameID: game.ID,
			Name:   member.Name,
			Avatar: strings.TrimSpace(avatar),
			Order:  len(game.Players),
		}

		if err := tx.Create(&player).Error; err != nil {
			return fmt.Errorf("add player: %w", err)
		}

		return nil
	})
	if err != nil {
		return Player{}, err
	}

	return player, nil
}

// StartGame moves a waiting game to active with the first player up.
func (s *Store) StartGame(ctx context.Context, id string) (Game, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, id)
		if err != nil {
			return err
		}

		if game.Status != StatusWaiting {
			return games.Conflictf("game %q is already %s", game.ID, game.Status)
		}

		r, err := roster(game.Players)
		if err != nil {
			return err
		}
		if !r.IsReadyToStart() {
			return games.Validationf("at least %d players are needed to start", games.MinPlayers)
		}

		return tx.Model(&Game{ID: game.ID}).Updates(map[string]any{
			"status":               StatusActive,
			"current_player_id":    game.Players[0].ID,
			"current_player_index": 0,
			"round":                1,
		}).Error
	})
	if err != nil {
		return Game{}, err
	}

	return s.GetGame(ctx, id)
}

// EndGame marks an active game completed.
func (s *Store) EndGame(ctx context.Context, id string) (Game, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := getGame(tx, id)
		if err != nil {
			return err
		}

		if game.Status != StatusActive {
			return games.Conflictf("game %q is %s; only active games can end", game.ID, game.Status)
		}

		return tx.Model(&Game{ID: game.ID}).Update("status", StatusCompleted).Error
	})
	if err != nil {
		return Game{}, err
	}

	return s.GetGame(ctx, id)
}
