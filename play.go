package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Seednode/truthordare/games"
)

const playHelp = `Commands:
  draw (d)    draw a truth, dare or choice for the current player
  next (n)    finish the turn and pass to the next player
  end  (q)    end the game
  help (?)    show this list`

type terminal struct {
	in  *bufio.Scanner
	out io.Writer
}

func (t *terminal) printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

// prompt reads the next line of input. It returns false once input runs out.
func (t *terminal) prompt(label string) (string, bool) {
	t.printf("%s", label)

	if !t.in.Scan() {
		t.printf("\n")

		return "", false
	}

	return strings.TrimSpace(t.in.Text()), true
}

func (t *terminal) renderLobby(s games.LobbySnapshot) {
	if len(s.Players) == 0 {
		t.printf("No players yet.\n")

		return
	}

	names := make([]string, 0, len(s.Players))
	for i, p := range s.Players {
		names = append(names, fmt.Sprintf("%d. %s", i+1, p.Name))
	}

	t.printf("Players: %s\n", strings.Join(names, ", "))

	if !s.ReadyToStart {
		t.printf("Add at least %d more to start.\n", games.MinPlayers-len(s.Players))
	}
}

func (t *terminal) renderSession(s games.SessionSnapshot) {
	switch {
	case s.Ended:
		t.printf("Game over after %d round(s). Thanks for playing!\n", s.Turn.Round)
	case s.Turn.CurrentAction != nil:
		a := s.Turn.CurrentAction
		t.printf("%s for %s: %s\n", a.Type.Label(), s.CurrentPlayer.Name, a.Content)
	default:
		t.printf("Round %d: %s's turn.\n", s.Turn.Round, s.CurrentPlayer.Name)
	}
}

// setup runs the player and scenario screens until a game can start.
func (t *terminal) setup(lobby *games.Lobby) (games.StartSessionCommand, bool) {
	t.printf("Add players by name, \"remove N\" to drop player N, or an empty line when everyone is in.\n")

	for {
		line, ok := t.prompt("player> ")
		if !ok {
			return games.StartSessionCommand{}, false
		}

		switch {
		case line == "":
			if !lobby.Snapshot().ReadyToStart {
				t.printf("At least %d players are needed.\n", games.MinPlayers)

				continue
			}

			cmd, back, ok := t.chooseScenario(lobby)
			if !ok {
				return games.StartSessionCommand{}, false
			}
			if back {
				t.printf("Back to players.\n")

				continue
			}

			return cmd, true

		case strings.HasPrefix(line, "remove "):
			players := lobby.Snapshot().Players

			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "remove ")))
			if err != nil || n < 1 || n > len(players) {
				t.printf("No player %q.\n", strings.TrimPrefix(line, "remove "))

				continue
			}

			lobby.RemovePlayer(players[n-1].ID)

		default:
			if _, err := lobby.AddPlayer(line); err != nil {
				t.printf("Can't add %q: %v\n", line, err)
			}
		}
	}
}

func (t *terminal) chooseScenario(lobby *games.Lobby) (games.StartSessionCommand, bool, bool) {
	catalog := games.Catalog()

	eligible := make(map[string]bool)
	for _, s := range lobby.Snapshot().Eligible {
		eligible[s.ID] = true
	}

	t.printf("Pick a scenario, or \"back\" to change players:\n")
	for i, s := range catalog {
		note := ""
		if !eligible[s.ID] {
			note = fmt.Sprintf(" (needs %d-%d players)", s.MinPlayers, s.MaxPlayers)
		}

		t.printf("  %d. %s [%s, about %d min]%s\n     %s\n",
			i+1, s.Title, s.Difficulty, int(s.EstimatedTime.Minutes()), note, s.Description)
	}

	for {
		line, ok := t.prompt("scenario> ")
		if !ok {
			return games.StartSessionCommand{}, false, false
		}

		if line == "back" {
			return games.StartSessionCommand{}, true, true
		}

		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(catalog) {
			t.printf("Pick a number from 1 to %d.\n", len(catalog))

			continue
		}

		cmd, err := lobby.Confirm(catalog[n-1].ID)
		if err != nil {
			t.printf("%v\n", err)

			continue
		}

		return cmd, false, true
	}
}

func (t *terminal) play(ctx context.Context, session *games.Session) error {
	t.printf("%s\n", playHelp)
	t.renderSession(session.Snapshot())

	for !session.Ended() {
		if err := ctx.Err(); err != nil {
			session.End()

			return err
		}

		line, ok := t.prompt("> ")
		if !ok {
			session.End()

			return nil
		}

		switch strings.ToLower(line) {
		case "d", "draw":
			if _, err := session.Draw(); err != nil {
				t.printf("%v. Type next when the turn is done.\n", err)
			}
		case "n", "next":
			if err := session.Next(); err != nil {
				t.printf("%v. Type draw first.\n", err)
			}
		case "q", "end", "quit":
			session.End()
		case "?", "help":
			t.printf("%s\n", playHelp)
		case "":
		default:
			t.printf("Unknown command %q. Type help for a list.\n", line)
		}
	}

	return nil
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, src games.Source) error {
	t := &terminal{in: bufio.NewScanner(in), out: out}

	lobby := games.NewLobby()
	cancel := lobby.Subscribe(t.renderLobby)

	cmd, ok := t.setup(lobby)
	cancel()
	if !ok {
		return t.in.Err()
	}

	session, err := games.NewSession(cmd, nil, src)
	if err != nil {
		return err
	}

	t.printf("Starting %s with %d players.\n", cmd.Scenario.Title, cmd.Roster.Len())

	defer session.Subscribe(t.renderSession)()

	if err := t.play(ctx, session); err != nil {
		return err
	}

	return t.in.Err()
}

func newPlayCmd() *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play truth or dare in the terminal, passing one device around.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := games.NewSource()
			if seed != 0 {
				src = games.NewSeededSource(seed)
			}

			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), src)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for drawing actions, for repeatable games (0 picks one at random)")

	return cmd
}
