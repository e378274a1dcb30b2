/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"strings"
	"time"

	"github.com/Seednode/truthordare/games"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Tone string

const (
	ToneClassic Tone = "classic"
	ToneParty   Tone = "party"
	ToneDeep    Tone = "deep"
	ToneWild    Tone = "wild"
)

// ParseTone accepts a tone in any letter case.
func ParseTone(s string) (Tone, error) {
	switch t := Tone(strings.ToLower(strings.TrimSpace(s))); t {
	case ToneClassic, ToneParty, ToneDeep, ToneWild:
		return t, nil
	default:
		return "", games.Validationf("invalid tone %q (want classic, party, deep or wild)", s)
	}
}

type Choice string

const (
	ChoiceTruth Choice = "truth"
	ChoiceDare  Choice = "dare"
)

// ParseChoice accepts "truth" or "dare" in any letter case. An empty string
// parses to the empty Choice, meaning "pick one at random".
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(s))); c {
	case "", ChoiceTruth, ChoiceDare:
		return c, nil
	default:
		return "", games.Validationf("invalid turn type %q (want truth or dare)", s)
	}
}

func (c Choice) actionType() games.ActionType {
	if c == ChoiceTruth {
		return games.ActionQuestion
	}

	return games.ActionDare
}

type Game struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	HostID             string    `gorm:"not null" json:"hostId"`
	ScenarioID         string    `gorm:"not null;index" json:"scenarioId"`
	Status             Status    `gorm:"not null;size:16" json:"status"`
	CurrentPlayerID    *string   `json:"currentPlayerId,omitempty"`
	CurrentPlayerIndex int       `gorm:"not null" json:"currentPlayerIndex"`
	Round              int       `gorm:"not null" json:"round"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Players []Player `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"players"`
}

type Player struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	GameID    string    `gorm:"not null;index;uniqueIndex:idx_players_game_order,priority:1" json:"gameId"`
	Name      string    `gorm:"not null" json:"name"`
	Avatar    string    `json:"avatar,omitempty"`
	Order     int       `gorm:"column:position;not null;uniqueIndex:idx_players_game_order,priority:2" json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

type PlayerProfile struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	PlayerID    string    `gorm:"not null;index" json:"playerId"`
	Personality string    `gorm:"not null" json:"personality"`
	Preferences []string  `gorm:"serializer:json" json:"preferences"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Scenario struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Tone        Tone      `gorm:"not null;size:16" json:"tone"`
	IsAdult     bool      `gorm:"not null" json:"isAdult"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GeneratedItem struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Type            Choice    `gorm:"not null;size:8" json:"type"`
	Content         string    `gorm:"not null" json:"content"`
	ScenarioID      string    `gorm:"not null;index" json:"scenarioId"`
	PlayerProfileID *string   `json:"playerProfileId,omitempty"`
	ActionID        string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
}

type Turn struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	GameID          string     `gorm:"not null;index" json:"gameId"`
	PlayerID        string     `gorm:"not null;index" json:"playerId"`
	GeneratedItemID string     `gorm:"not null" json:"generatedItemId"`
	Choice          Choice     `gorm:"not null;size:8" json:"choice"`
	Result          string     `json:"result,omitempty"`
	CompletedAt     *time.Time `gorm:"index" json:"completedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`

	Item GeneratedItem `gorm:"foreignKey:GeneratedItemID" json:"-"`
}

func (p Player) member() games.Player {
	return games.Player{
		ID:     p.ID,
		Name:   p.Name,
		Avatar: p.Avatar,
	}
}

func roster(players []Player) (*games.Roster, error) {
	members := make([]games.Player, 0, len(players))
	for _, p := range players {
		members = append(members, p.member())
	}

	return games.NewRosterFrom(members)
}

// pendingAction turns an open turn's item back into the engine's view of it.
func (i GeneratedItem) pendingAction() *games.GameAction {
	return &games.GameAction{
		ID:      i.ActionID,
		Type:    i.Type.actionType(),
		Content: i.Content,
	}
}
