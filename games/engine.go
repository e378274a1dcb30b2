/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

// Phase is the engine's position within a single turn.
type Phase string

const (
	PhaseAwaitingDraw  Phase = "awaiting_draw"
	PhaseActionPending Phase = "action_pending"
)

// TurnState is a snapshot of whose turn it is.
type TurnState struct {
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	Round              int         `json:"round"`
	CurrentAction      *GameAction `json:"currentAction,omitempty"`
}

func (s TurnState) Phase() Phase {
	if s.CurrentAction != nil {
		return PhaseActionPending
	}

	return PhaseAwaitingDraw
}

// Engine rotates turns over a fixed player order and draws actions from a
// pool. It does not check scenario eligibility; callers gate on IsEligible.
type Engine struct {
	players []Player
	pool    []GameAction
	src     Source

	index  int
	round  int
	action *GameAction
}

// NewEngine starts a fresh engine at the first player, round 1. A nil pool
// selects DefaultPool and a nil src selects NewSource.
func NewEngine(r *Roster, pool []GameAction, src Source) (*Engine, error) {
	return ResumeEngine(r, pool, src, TurnState{Round: 1})
}

// ResumeEngine rebuilds an engine at a previously captured state.
func ResumeEngine(r *Roster, pool []GameAction, src Source, state TurnState) (*Engine, error) {
	if r == nil || r.Len() == 0 {
		return nil, invariantf("cannot rotate turns over an empty roster")
	}

	if pool == nil {
		pool = DefaultPool()
	}
	if len(pool) == 0 {
		return nil, invariantf("action pool is empty")
	}

	if src == nil {
		src = NewSource()
	}

	if state.CurrentPlayerIndex < 0 || state.CurrentPlayerIndex >= r.Len() {
		return nil, invariantf("player index %d out of range for %d players", state.CurrentPlayerIndex, r.Len())
	}
	if state.Round < 1 {
		return nil, invariantf("round %d is before the first round", state.Round)
	}

	e := &Engine{
		players: r.Players(),
		pool:    pool,
		src:     src,
		index:   state.CurrentPlayerIndex,
		round:   state.Round,
	}

	if state.CurrentAction != nil {
		a := *state.CurrentAction
		e.action = &a
	}

	return e, nil
}

func (e *Engine) Phase() Phase {
	if e.action != nil {
		return PhaseActionPending
	}

	return PhaseAwaitingDraw
}

// State returns a copy of the current turn state.
func (e *Engine) State() TurnState {
	s := TurnState{
		CurrentPlayerIndex: e.index,
		Round:              e.round,
	}

	if e.action != nil {
		a := *e.action
		s.CurrentAction = &a
	}

	return s
}

func (e *Engine) CurrentPlayer() Player {
	return e.players[e.index]
}

func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	copy(out, e.players)

	return out
}

// DrawAction picks an action uniformly from the whole pool.
func (e *Engine) DrawAction() (GameAction, error) {
	return e.draw(e.pool)
}

// DrawActionOfType picks uniformly among pool actions of type t.
func (e *Engine) DrawActionOfType(t ActionType) (GameAction, error) {
	var candidates []GameAction
	for _, a := range e.pool {
		if a.Type == t {
			candidates = append(candidates, a)
		}
	}

	if len(candidates) == 0 {
		return GameAction{}, Validationf("no %q actions in the pool", t)
	}

	return e.draw(candidates)
}

func (e *Engine) draw(from []GameAction) (GameAction, error) {
	if e.action != nil {
		return GameAction{}, invalidStatef("an action is already pending for %s", e.players[e.index].Name)
	}

	a := from[e.src.Intn(len(from))]
	e.action = &a

	return a, nil
}

// Advance resolves the pending action and passes the turn on, starting a
// new round when the rotation wraps.
func (e *Engine) Advance() error {
	if e.action == nil {
		return invalidStatef("no action has been drawn for %s", e.players[e.index].Name)
	}

	e.index = (e.index + 1) % len(e.players)
	if e.index == 0 {
		e.round++
	}
	e.action = nil

	return nil
}
