package games

import "sync"

type subscriber[T any] struct {
	id int
	fn func(T)
}

// observers fans snapshots out to subscribers in subscription order.
type observers[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber[T]
}

func (o *observers[T]) subscribe(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[T]{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()

		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)

				return
			}
		}
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	subs := make([]subscriber[T], len(o.subs))
	copy(subs, o.subs)
	o.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// StartSessionCommand carries a validated roster and the scenario chosen
// for it into a new Session.
type StartSessionCommand struct {
	Roster   *Roster
	Scenario Scenario
}

// LobbySnapshot is what the player-setup screen renders.
type LobbySnapshot struct {
	Players      []Player   `json:"players"`
	ReadyToStart bool       `json:"readyToStart"`
	Eligible     []Scenario `json:"eligible"`
}

// Lobby collects players before a scenario is picked.
type Lobby struct {
	roster *Roster
	obs    observers[LobbySnapshot]
}

func NewLobby() *Lobby {
	return &Lobby{roster: NewRoster()}
}

func (l *Lobby) Subscribe(fn func(LobbySnapshot)) (cancel func()) {
	return l.obs.subscribe(fn)
}

func (l *Lobby) Snapshot() LobbySnapshot {
	return LobbySnapshot{
		Players:      l.roster.Players(),
		ReadyToStart: l.roster.IsReadyToStart(),
		Eligible:     EligibleScenarios(l.roster),
	}
}

func (l *Lobby) AddPlayer(name string) (Player, error) {
	p, err := l.roster.Add(name)
	if err != nil {
		return Player{}, err
	}

	l.obs.notify(l.Snapshot())

	return p, nil
}

func (l *Lobby) RemovePlayer(id string) {
	before := l.roster.Len()

	l.roster.Remove(id)

	if l.roster.Len() != before {
		l.obs.notify(l.Snapshot())
	}
}

// Confirm checks the roster against the chosen scenario and hands back the
// command that starts a session.
func (l *Lobby) Confirm(scenarioID string) (StartSessionCommand, error) {
	if !l.roster.IsReadyToStart() {
		return StartSessionCommand{}, Validationf("at least %d players are needed to start", MinPlayers)
	}

	s, ok := FindScenario(scenarioID)
	if !ok {
		return StartSessionCommand{}, Validationf("unknown scenario %q", scenarioID)
	}

	if !IsEligible(l.roster, s) {
		return StartSessionCommand{}, Validationf("%q needs %d-%d players, you have %d",
			s.Title, s.MinPlayers, s.MaxPlayers, l.roster.Len())
	}

	roster, err := NewRosterFrom(l.roster.Players())
	if err != nil {
		return StartSessionCommand{}, err
	}

	return StartSessionCommand{Roster: roster, Scenario: s}, nil
}

// SessionSnapshot is what the game screen renders.
type SessionSnapshot struct {
	Scenario      Scenario  `json:"scenario"`
	Players       []Player  `json:"players"`
	CurrentPlayer Player    `json:"currentPlayer"`
	Turn          TurnState `json:"turn"`
	Ended         bool      `json:"ended"`
}

// Session owns the turn engine for one game and is the only way the
// presentation layer changes it.
type Session struct {
	scenario Scenario
	engine   *Engine
	ended    bool
	obs      observers[SessionSnapshot]
}

func NewSession(cmd StartSessionCommand, pool []GameAction, src Source) (*Session, error) {
	e, err := NewEngine(cmd.Roster, pool, src)
	if err != nil {
		return nil, err
	}

	return &Session{
		scenario: cmd.Scenario,
		engine:   e,
	}, nil
}

func (s *Session) Subscribe(fn func(SessionSnapshot)) (cancel func()) {
	return s.obs.subscribe(fn)
}

func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		Scenario:      s.scenario,
		Players:       s.engine.Players(),
		CurrentPlayer: s.engine.CurrentPlayer(),
		Turn:          s.engine.State(),
		Ended:         s.ended,
	}
}

func (s *Session) Draw() (GameAction, error) {
	if s.ended {
		return GameAction{}, invalidStatef("the game has ended")
	}

	a, err := s.engine.DrawAction()
	if err != nil {
		return GameAction{}, err
	}

	s.obs.notify(s.Snapshot())

	return a, nil
}

func (s *Session) Next() error {
	if s.ended {
		return invalidStatef("the game has ended")
	}

	if err := s.engine.Advance(); err != nil {
		return err
	}

	s.obs.notify(s.Snapshot())

	return nil
}

// End stops the session. Calling it again has no effect.
func (s *Session) End() {
	if s.ended {
		return
	}

	s.ended = true
	s.obs.notify(s.Snapshot())
}

func (s *Session) Ended() bool {
	return s.ended
}
