/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

const (
	MinPlayers = 2
	MaxPlayers = 8
)

// Player is one participant; ID is unique within its roster.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Roster is the ordered set of players for one session.
// Insertion order is turn order.
type Roster struct {
	players []Player
	newID   func() string
}

func NewRoster() *Roster {
	return &Roster{
		newID: func() string { return uuid.NewString() },
	}
}

// NewRosterFrom rebuilds a roster from already-identified players, applying
// the same rules as Add.
func NewRosterFrom(players []Player) (*Roster, error) {
	r := NewRoster()

	for _, p := range players {
		if err := r.check(p.Name); err != nil {
			return nil, err
		}
		if p.ID == "" {
			return nil, Validationf("player %q has no id", p.Name)
		}

		p.Name = strings.TrimSpace(p.Name)
		r.players = append(r.players, p)
	}

	return r, nil
}

func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func (r *Roster) check(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Validationf("player name is required")
	}

	if len(r.players) >= MaxPlayers {
		return Validationf("roster is full (maximum %d players)", MaxPlayers)
	}

	folded := foldName(trimmed)
	for _, p := range r.players {
		if foldName(p.Name) == folded {
			return Validationf("a player named %q is already in the game", p.Name)
		}
	}

	return nil
}

// Add appends a new player named name (trimmed, original casing kept).
func (r *Roster) Add(name string) (Player, error) {
	if err := r.check(name); err != nil {
		return Player{}, err
	}

	p := Player{
		ID:   r.newID(),
		Name: strings.TrimSpace(name),
	}
	r.players = append(r.players, p)

	return p, nil
}

// Remove drops the player with the given id. Unknown ids are ignored.
func (r *Roster) Remove(id string) {
	for i, p := range r.players {
		if p.ID == id {
			r.players = append(r.players[:i:i], r.players[i+1:]...)

			return
		}
	}
}

func (r *Roster) IsReadyToStart() bool {
	return len(r.players) >= MinPlayers
}

func (r *Roster) Len() int {
	return len(r.players)
}

// Players returns a copy of the roster in turn order.
func (r *Roster) Players() []Player {
	out := make([]Player, len(r.players))
	copy(out, r.players)

	return out
}

// Player returns the player at index i in turn order.
func (r *Roster) Player(i int) (Player, bool) {
	if i < 0 || i >= len(r.players) {
		return Player{}, false
	}

	return r.players[i], true
}

// Index returns the turn-order position of the player with the given id.
func (r *Roster) Index(id string) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}

	return -1
}
