package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/truthordare/games"
	"github.com/Seednode/truthordare/store"
)

type api struct {
	cfg   *Config
	store *store.Store
	feeds *FeedManager
	gen   games.Generator
	src   games.Source
}

// apiFunc returns the status and body of a successful call, or an error
// that is mapped onto an HTTP status by serveError.
type apiFunc func(r *http.Request, ps httprouter.Params) (int, any, error)

func (a *api) handle(name string, fn apiFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		status, body, err := fn(r, ps)
		if err != nil {
			serveError(a.cfg, w, r, err)

			return
		}

		written := writeJSON(a.cfg, w, status, body)

		logf(a.cfg, "SERVE: %s (%s) to %s in %s",
			name,
			humanize.Bytes(uint64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func (a *api) register(mux *httprouter.Router) {
	prefix := a.cfg.prefix + "/api"

	mux.POST(prefix+"/games", a.handle("Create game", a.createGame))
	mux.GET(prefix+"/games/:id", a.handle("Game", a.getGame))
	mux.POST(prefix+"/games/:id/players", a.handle("Add player", a.addPlayer))
	mux.POST(prefix+"/games/:id/start", a.handle("Start game", a.startGame))
	mux.POST(prefix+"/games/:id/next", a.handle("Next turn", a.nextTurn))
	mux.POST(prefix+"/games/:id/end", a.handle("End game", a.endGame))
	mux.GET(prefix+"/games/:id/ws", serveFeed(a.cfg, a.feeds, a.store))
	mux.GET(prefix+"/games/:id/qr", serveQR(a.cfg, a.store))

	mux.POST(prefix+"/turns/:id/submit", a.handle("Submit turn", a.submitTurn))

	mux.GET(prefix+"/scenarios", a.handle("Scenarios", a.listScenarios))
	mux.POST(prefix+"/scenarios", a.handle("Create scenario", a.createScenario))

	mux.POST(prefix+"/players/:id/profile", a.handle("Player profile", a.generateProfile))
}

// publish pushes the game's current state to anyone watching its feed.
func (a *api) publish(ctx context.Context, gameID string, turn *store.Turn, item *store.GeneratedItem) {
	if !a.feeds.watching(gameID) {
		return
	}

	game, err := a.store.GetGame(ctx, gameID)
	if err != nil {
		logErr(err)

		return
	}

	a.feeds.publish(gameID, feedMessage{
		Type: "game_state",
		Game: game,
		Turn: turn,
		Item: item,
	})

	logf(a.cfg, "GAMES: Published state of game %s", gameID)
}

type createGameRequest struct {
	HostID     string `json:"hostId"`
	ScenarioID string `json:"scenarioId"`
}

func (a *api) createGame(r *http.Request, _ httprouter.Params) (int, any, error) {
	var req createGameRequest
	if err := readJSON(r, &req); err != nil {
		return 0, nil, err
	}

	game, err := a.store.CreateGame(r.Context(), req.HostID, req.ScenarioID)
	if err != nil {
		return 0, nil, err
	}

	logf(a.cfg, "GAMES: Created game %s for host %s", game.ID, game.HostID)

	return http.StatusCreated, map[string]any{"game": game}, nil
}

func (a *api) getGame(r *http.Request, ps httprouter.Params) (int, any, error) {
	game, err := a.store.GetGame(r.Context(), ps.ByName("id"))
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, map[string]any{"game": game}, nil
}

type addPlayerRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (a *api) addPlayer(r *http.Request, ps httprouter.Params) (int, any, error) {
	var req addPlayerRequest
	if err := readJSON(r, &req); err != nil {
		return 0, nil, err
	}

	player, err := a.store.AddPlayer(r.Context(), ps.ByName("id"), req.Name, req.Avatar)
	if err != nil {
		return 0, nil, err
	}

	a.publish(r.Context(), player.GameID, nil, nil)

	return http.StatusCreated, map[string]any{"player": player}, nil
}

func (a *api) startGame(r *http.Request, ps httprouter.Params) (int, any, error) {
	game, err := a.store.StartGame(r.Context(), ps.ByName("id"))
	if err != nil {
		return 0, nil, err
	}

	logf(a.cfg, "GAMES: Started game %s with %d players", game.ID, len(game.Players))

	a.publish(r.Context(), game.ID, nil, nil)

	return http.StatusOK, map[string]any{"game": game}, nil
}

type nextTurnRequest struct {
	Type string `json:"type"`
}

func (a *api) nextTurn(r *http.Request, ps httprouter.Params) (int, any, error) {
	var req nextTurnRequest
	if err := readJSON(r, &req); err != nil {
		return 0, nil, err
	}

	choice, err := store.ParseChoice(req.Type)
	if err != nil {
		return 0, nil, err
	}

	turn, item, err := a.store.NextTurn(r.Context(), ps.ByName("id"), store.NextTurnOptions{
		Choice:    choice,
		Source:    a.src,
		Generator: a.gen,
	})
	if err != nil {
		return 0, nil, err
	}

	a.publish(r.Context(), turn.GameID, &turn, &item)

	return http.StatusOK, map[string]any{"turn": turn, "item": item}, nil
}

func (a *api) endGame(r *http.Request, ps httprouter.Params) (int, any, error) {
	game, err := a.store.EndGame(r.Context(), ps.ByName("id"))
	if err != nil {
		return 0, nil, err
	}

	logf(a.cfg, "GAMES: Ended game %s", game.ID)

	a.publish(r.Context(), game.ID, nil, nil)

	return http.StatusOK, map[string]any{"game": game}, nil
}

type submitTurnRequest struct {
	Result string `json:"result"`
}

func (a *api) submitTurn(r *http.Request, ps httprouter.Params) (int, any, error) {
	var req submitTurnRequest
	if err := readJSON(r, &req); err != nil {
		return 0, nil, err
	}

	turn, err := a.store.SubmitTurn(r.Context(), ps.ByName("id"), req.Result)
	if err != nil {
		return 0, nil, err
	}

	a.publish(r.Context(), turn.GameID, &turn, nil)

	return http.StatusOK, map[string]any{"turn": turn}, nil
}

func (a *api) listScenarios(r *http.Request, _ httprouter.Params) (int, any, error) {
	scenarios, err := a.store.ListScenarios(r.Context())
	if err != nil {
		return 0, nil, err
	}
	if scenarios == nil {
		scenarios = []store.Scenario{}
	}

	return http.StatusOK, map[string]any{"scenarios": scenarios}, nil
}

type createScenarioRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
	IsAdult     bool   `json:"isAdult"`
}

func (a *api) createScenario(r *http.Request, _ httprouter.Params) (int, any, error) {
	var req createScenarioRequest
	if err := readJSON(r, &req); err != nil {
		return 0, nil, err
	}

	scenario, err := a.store.CreateScenario(r.Context(), store.NewScenario{
		Name:        req.Name,
		Description: req.Description,
		Tone:        req.Tone,
		IsAdult:     req.IsAdult,
	})
	if err != nil {
		return 0, nil, err
	}

	return http.StatusCreated, map[string]any{"scenario": scenario}, nil
}

func (a *api) generateProfile(r *http.Request, ps httprouter.Params) (int, any, error) {
	profile, err := a.store.GenerateProfile(r.Context(), ps.ByName("id"), a.gen)
	if err != nil {
		return 0, nil, err
	}

	return http.StatusOK, map[string]any{"profile": profile}, nil
}
