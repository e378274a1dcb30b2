package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Seednode/truthordare/games"
)

type fixedSource struct {
	values []int
	calls  int
}

func (s *fixedSource) Intn(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++

	return v
}

func openTempStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "truthordare.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

func seededStore(t *testing.T) *Store {
	t.Helper()

	s := openTempStore(t)
	if _, err := s.SeedScenarios(context.Background(), games.Catalog()); err != nil {
		t.Fatalf("seed scenarios: %v", err)
	}

	return s
}

func startedGame(t *testing.T, s *Store, names ...string) Game {
	t.Helper()

	ctx := context.Background()

	game, err := s.CreateGame(ctx, "host-1", "classic")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	for _, name := range names {
		if _, err := s.AddPlayer(ctx, game.ID, name, ""); err != nil {
			t.Fatalf("add player %q: %v", name, err)
		}
	}

	game, err = s.StartGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	return game
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestSeedScenariosOnce(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()

	n, err := s.SeedScenarios(ctx, games.Catalog())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(games.Catalog()) {
		t.Fatalf("seeded = %d, want %d", n, len(games.Catalog()))
	}

	n, err = s.SeedScenarios(ctx, games.Catalog())
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if n != 0 {
		t.Fatalf("reseeded = %d, want 0", n)
	}

	got, err := s.GetScenario(ctx, "extreme")
	if err != nil {
		t.Fatalf("get scenario: %v", err)
	}
	if got.Tone != ToneWild {
		t.Fatalf("tone = %q, want %q", got.Tone, ToneWild)
	}
}

func TestCreateScenario(t *testing.T) {
	t.Parallel()

	s := openTempStore(t)
	ctx := context.Background()

	if _, err := s.CreateScenario(ctx, NewScenario{Name: "Late night", Tone: "spicy"}); !errors.Is(err, games.ErrValidation) {
		t.Fatalf("invalid tone error = %v, want validation error", err)
	}
	if _, err := s.CreateScenario(ctx, NewScenario{Name: " ", Tone: "party"}); !errors.Is(err, games.ErrValidation) {
		t.Fatalf("empty name error = %v, want validation error", err)
	}

	created, err := s.CreateScenario(ctx, NewScenario{Name: "Late night", Description: "after midnight", Tone: "WILD", IsAdult: true})
	if err != nil {
		t.Fatalf("create scenario: %v", err)
	}
	if created.Tone != ToneWild || !created.IsAdult {
		t.Fatalf("created = %+v", created)
	}

	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("list scenarios: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created scenario", list)
	}
}

func TestCreateGameValidation(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	cases := []struct {
		host, scenario string
	}{
		{"", "classic"},
		{"host", ""},
		{"host", "missing"},
	}
	for _, tc := range cases {
		if _, err := s.CreateGame(ctx, tc.host, tc.scenario); !errors.Is(err, games.ErrValidation) {
			t.Fatalf("create game (%q, %q) error = %v, want validation error", tc.host, tc.scenario, err)
		}
	}

	game, err := s.CreateGame(ctx, "host", "classic")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if game.Status != StatusWaiting || game.Round != 1 {
		t.Fatalf("game = %+v, want waiting round 1", game)
	}

	if _, err := s.GetGame(ctx, "missing"); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("get missing error = %v, want not found", err)
	}
}

func TestAddPlayerRules(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	if _, err := s.AddPlayer(ctx, "missing", "Alice", ""); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("unknown game error = %v, want not found", err)
	}

	game, err := s.CreateGame(ctx, "host", "classic")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	for i, name := range []string{"Alice", "Bob", "Carol"} {
		p, err := s.AddPlayer(ctx, game.ID, name, "avatar.png")
		if err != nil {
			t.Fatalf("add %q: %v", name, err)
		}
		if p.Order != i {
			t.Fatalf("%s order = %d, want %d", name, p.Order, i)
		}
	}

	if _, err := s.AddPlayer(ctx, game.ID, " alice ", ""); !errors.Is(err, games.ErrValidation) {
		t.Fatalf("duplicate error = %v, want validation error", err)
	}

	got, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if len(got.Players) != 3 || got.Players[2].Name != "Carol" {
		t.Fatalf("players = %+v", got.Players)
	}

	if _, err := s.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.AddPlayer(ctx, game.ID, "Dan", ""); !errors.Is(err, games.ErrConflict) {
		t.Fatalf("add after start error = %v, want conflict", err)
	}
}

func TestStartGame(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	game, err := s.CreateGame(ctx, "host", "classic")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := s.AddPlayer(ctx, game.ID, "Alice", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := s.StartGame(ctx, game.ID); !errors.Is(err, games.ErrValidation) {
		t.Fatalf("start with one player error = %v, want validation error", err)
	}

	if _, err := s.AddPlayer(ctx, game.ID, "Bob", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	started, err := s.StartGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != StatusActive || started.CurrentPlayerID == nil || *started.CurrentPlayerID != started.Players[0].ID {
		t.Fatalf("started = %+v", started)
	}

	if _, err := s.StartGame(ctx, game.ID); !errors.Is(err, games.ErrConflict) {
		t.Fatalf("second start error = %v, want conflict", err)
	}

	after, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if after.Status != StatusActive || after.Round != 1 || after.CurrentPlayerIndex != 0 {
		t.Fatalf("game changed by rejected start: %+v", after)
	}

	if _, err := s.StartGame(ctx, "missing"); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("start missing error = %v, want not found", err)
	}
}

func TestTurnLifecycleRotatesPlayers(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()
	game := startedGame(t, s, "Alice", "Bob", "Carol")

	src := &fixedSource{values: []int{0}}

	for i, want := range []string{"Alice", "Bob", "Carol"} {
		turn, item, err := s.NextTurn(ctx, game.ID, NextTurnOptions{Source: src})
		if err != nil {
			t.Fatalf("next turn %d: %v", i, err)
		}
		if turn.PlayerID != game.Players[i].ID {
			t.Fatalf("turn %d player = %q, want %s", i, turn.PlayerID, want)
		}
		if item.Type != ChoiceTruth || turn.Choice != ChoiceTruth {
			t.Fatalf("turn %d choice = %q/%q, want truth", i, turn.Choice, item.Type)
		}
		if item.Content == "" {
			t.Fatalf("turn %d has no content", i)
		}

		if _, _, err := s.NextTurn(ctx, game.ID, NextTurnOptions{Source: src}); !errors.Is(err, games.ErrConflict) {
			t.Fatalf("next with open turn error = %v, want conflict", err)
		}

		done, err := s.SubmitTurn(ctx, turn.ID, "answered")
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
		if done.CompletedAt == nil || done.Result != "answered" {
			t.Fatalf("submitted turn = %+v", done)
		}

		if _, err := s.SubmitTurn(ctx, turn.ID, "again"); !errors.Is(err, games.ErrConflict) {
			t.Fatalf("resubmit error = %v, want conflict", err)
		}
	}

	after, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if after.CurrentPlayerIndex != 0 || after.Round != 2 {
		t.Fatalf("after full cycle index = %d round = %d, want 0 and 2", after.CurrentPlayerIndex, after.Round)
	}
	if after.CurrentPlayerID == nil || *after.CurrentPlayerID != game.Players[0].ID {
		t.Fatalf("current player = %v, want %s", after.CurrentPlayerID, game.Players[0].ID)
	}
}

func TestNextTurnHonoursChoice(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()
	game := startedGame(t, s, "Alice", "Bob")

	_, item, err := s.NextTurn(ctx, game.ID, NextTurnOptions{Choice: ChoiceDare, Source: &fixedSource{values: []int{2}}})
	if err != nil {
		t.Fatalf("next turn: %v", err)
	}
	if item.Type != ChoiceDare {
		t.Fatalf("type = %q, want dare", item.Type)
	}
}

func TestNextTurnRequiresActiveGame(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	game, err := s.CreateGame(ctx, "host", "classic")
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	if _, _, err := s.NextTurn(ctx, game.ID, NextTurnOptions{}); !errors.Is(err, games.ErrConflict) {
		t.Fatalf("waiting game error = %v, want conflict", err)
	}
	if _, _, err := s.NextTurn(ctx, "missing", NextTurnOptions{}); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("missing game error = %v, want not found", err)
	}
}

func TestSubmitTurnValidation(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	if _, err := s.SubmitTurn(ctx, "missing", "done"); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("missing turn error = %v, want not found", err)
	}

	game := startedGame(t, s, "Alice", "Bob")
	turn, _, err := s.NextTurn(ctx, game.ID, NextTurnOptions{})
	if err != nil {
		t.Fatalf("next turn: %v", err)
	}

	if _, err := s.SubmitTurn(ctx, turn.ID, "   "); !errors.Is(err, games.ErrValidation) {
		t.Fatalf("empty result error = %v, want validation error", err)
	}
}

func TestEndGame(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()
	game := startedGame(t, s, "Alice", "Bob")

	turn, _, err := s.NextTurn(ctx, game.ID, NextTurnOptions{})
	if err != nil {
		t.Fatalf("next turn: %v", err)
	}

	ended, err := s.EndGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != StatusCompleted {
		t.Fatalf("status = %q, want completed", ended.Status)
	}

	if _, err := s.EndGame(ctx, game.ID); !errors.Is(err, games.ErrConflict) {
		t.Fatalf("second end error = %v, want conflict", err)
	}

	// The open turn can still be closed out; play does not advance.
	if _, err := s.SubmitTurn(ctx, turn.ID, "skipped"); err != nil {
		t.Fatalf("submit after end: %v", err)
	}
	after, err := s.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if after.CurrentPlayerIndex != 0 {
		t.Fatalf("index = %d, want 0", after.CurrentPlayerIndex)
	}
}

func TestGenerateProfile(t *testing.T) {
	t.Parallel()

	s := seededStore(t)
	ctx := context.Background()

	if _, err := s.GenerateProfile(ctx, "missing", nil); !errors.Is(err, games.ErrNotFound) {
		t.Fatalf("missing player error = %v, want not found", err)
	}

	game := startedGame(t, s, "Alice", "Bob")

	profile, err := s.GenerateProfile(ctx, game.Players[0].ID, games.StubGenerator{})
	if err != nil {
		t.Fatalf("generate profile: %v", err)
	}
	if profile.Personality == "" || len(profile.Preferences) != 2 {
		t.Fatalf("profile = %+v", profile)
	}

	_, item, err := s.NextTurn(ctx, game.ID, NextTurnOptions{})
	if err != nil {
		t.Fatalf("next turn: %v", err)
	}
	if item.PlayerProfileID == nil || *item.PlayerProfileID != profile.ID {
		t.Fatalf("item profile = %v, want %s", item.PlayerProfileID, profile.ID)
	}
}
