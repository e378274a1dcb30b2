package games

import (
	"context"
	"errors"
	"testing"
)

func TestLobbyNotifiesOnChange(t *testing.T) {
	t.Parallel()

	l := NewLobby()

	var snaps []LobbySnapshot
	cancel := l.Subscribe(func(s LobbySnapshot) { snaps = append(snaps, s) })

	alice, err := l.AddPlayer("Alice")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.AddPlayer("alice"); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate error = %v, want validation error", err)
	}
	l.RemovePlayer("missing")
	l.RemovePlayer(alice.ID)

	if len(snaps) != 2 {
		t.Fatalf("notifications = %d, want 2", len(snaps))
	}
	if len(snaps[0].Players) != 1 || len(snaps[1].Players) != 0 {
		t.Fatalf("snapshots = %+v", snaps)
	}

	cancel()
	if _, err := l.AddPlayer("Bob"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("notified after cancel")
	}
}

func TestLobbyConfirm(t *testing.T) {
	t.Parallel()

	l := NewLobby()
	if _, err := l.AddPlayer("Alice"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := l.Confirm("classic"); !errors.Is(err, ErrValidation) {
		t.Fatalf("one player confirm error = %v, want validation error", err)
	}

	if _, err := l.AddPlayer("Bob"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := l.Confirm("extreme"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ineligible confirm error = %v, want validation error", err)
	}
	if _, err := l.Confirm("unknown"); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown confirm error = %v, want validation error", err)
	}

	cmd, err := l.Confirm("classic")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if cmd.Roster.Len() != 2 || cmd.Scenario.ID != "classic" {
		t.Fatalf("command = %+v", cmd)
	}

	// Later lobby edits do not leak into the confirmed roster.
	if _, err := l.AddPlayer("Carol"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if cmd.Roster.Len() != 2 {
		t.Fatalf("confirmed roster len = %d, want 2", cmd.Roster.Len())
	}
}

func TestSessionPlaysTurns(t *testing.T) {
	t.Parallel()

	l := NewLobby()
	for _, name := range []string{"Alice", "Bob", "Carol"} {
		if _, err := l.AddPlayer(name); err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
	}

	cmd, err := l.Confirm("classic")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	s, err := NewSession(cmd, nil, &sequenceSource{values: []int{0}})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	var last SessionSnapshot
	calls := 0
	s.Subscribe(func(snap SessionSnapshot) {
		last = snap
		calls++
	})

	if err := s.Next(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("next before draw error = %v, want invalid state", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := s.Draw(); err != nil {
			t.Fatalf("draw: %v", err)
		}
		if last.Turn.CurrentAction == nil {
			t.Fatal("snapshot after draw has no action")
		}
		if err := s.Next(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}

	if calls != 6 {
		t.Fatalf("notifications = %d, want 6", calls)
	}
	if last.Turn.Round != 2 || last.CurrentPlayer.Name != "Alice" {
		t.Fatalf("snapshot = %+v, want Alice in round 2", last)
	}

	s.End()
	s.End()
	if calls != 7 || !last.Ended {
		t.Fatalf("end notifications = %d ended = %v", calls, last.Ended)
	}
	if _, err := s.Draw(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("draw after end error = %v, want invalid state", err)
	}
}

func TestNewSessionRejectsEmptyRoster(t *testing.T) {
	t.Parallel()

	_, err := NewSession(StartSessionCommand{Roster: NewRoster()}, nil, nil)
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("error = %v, want invariant error", err)
	}
}

func TestStubGenerator(t *testing.T) {
	t.Parallel()

	g := StubGenerator{}
	a := DefaultPool()[0]

	got, err := g.Generate(context.Background(), GenerateRequest{Action: a})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != a.Content {
		t.Fatalf("content = %q, want %q", got, a.Content)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Profile(ctx, Player{ID: "p"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled profile error = %v", err)
	}
}
