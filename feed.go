// Live game feeds
//
// Each game has at most one hub. Clients connect to /api/games/:id/ws and
// receive a game_state message on connect and after every change made to
// the game through the API. Feeds are read-only; anything the client sends
// is discarded. Hubs that see no activity for --session-timeout are closed
// along with their connections.

package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/truthordare/store"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 8
)

type feedMessage struct {
	Type string               `json:"type"` // "game_state"
	Game store.Game           `json:"game"`
	Turn *store.Turn          `json:"turn,omitempty"`
	Item *store.GeneratedItem `json:"item,omitempty"`
}

type Client struct {
	conn *websocket.Conn
	send chan any
}

type Hub struct {
	id      string
	clients map[*Client]bool

	register  chan *Client
	unreg     chan *Client
	broadcast chan any
	done      chan struct{}
	closeOnce sync.Once

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newHub(gameID string) *Hub {
	now := time.Now()
	return &Hub{
		id:         gameID,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		broadcast:  make(chan any),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			count := len(h.clients)
			h.mu.Unlock()

			logf(cfg, "GAMES: Feed client joined game %s (%d watching)", h.id, count)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()

			logf(cfg, "GAMES: Feed client left game %s (%d watching)", h.id, count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.lastActive = time.Now()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow readers are dropped rather than stalling the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			return
		}
	}
}

// send queues msg for every client, unless the hub has been closed.
func (h *Hub) send(msg any) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// closeAll stops the hub and disconnects all of its clients.
func (h *Hub) closeAll() {
	h.closeOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedManager holds the hubs for every game that currently has, or
// recently had, someone watching it.
type FeedManager struct {
	cfg         *Config
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

func newFeedManager(cfg *Config) *FeedManager {
	fm := &FeedManager{
		cfg:         cfg,
		hubs:        make(map[string]*Hub),
		idleTimeout: cfg.sessionTimeout,
		stop:        make(chan struct{}),
	}
	if fm.idleTimeout > 0 {
		go fm.reaperLoop()
	}
	return fm
}

func (fm *FeedManager) getHub(gameID string) *Hub {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	if hub, ok := fm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID)
	fm.hubs[gameID] = hub
	go hub.run(fm.cfg)
	return hub
}

func (fm *FeedManager) lookup(gameID string) (*Hub, bool) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	hub, ok := fm.hubs[gameID]
	return hub, ok
}

// watching reports whether any client is connected to the game's feed.
func (fm *FeedManager) watching(gameID string) bool {
	hub, ok := fm.lookup(gameID)

	return ok && hub.watchers() > 0
}

func (fm *FeedManager) publish(gameID string, msg any) {
	if hub, ok := fm.lookup(gameID); ok {
		hub.send(msg)
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (fm *FeedManager) reaperLoop() {
	ticker := time.NewTicker(fm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-fm.stop:
			return
		case <-ticker.C:
		}

		fm.reap(time.Now().Add(-fm.idleTimeout))
	}
}

func (fm *FeedManager) reap(cutoff time.Time) {
	fm.mu.Lock()
	defer fm.mu.Unlock()

	for id, hub := range fm.hubs {
		hub.mu.RLock()
		created, last := hub.createdAt, hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(fm.hubs, id)
			go hub.closeAll()

			logf(fm.cfg, "GAMES: Closed idle feed for game %s (open %s)",
				id, time.Since(created).Round(time.Second))
		}
	}
}

// Close stops the reaper and disconnects every feed.
func (fm *FeedManager) Close() {
	fm.stopOnce.Do(func() {
		close(fm.stop)
	})

	fm.mu.Lock()
	hubs := fm.hubs
	fm.hubs = make(map[string]*Hub)
	fm.mu.Unlock()

	for _, hub := range hubs {
		hub.closeAll()
	}
}

func serveFeed(cfg *Config, fm *FeedManager, st *store.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		game, err := st.GetGame(r.Context(), ps.ByName("id"))
		if err != nil {
			serveError(cfg, w, r, err)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "ERROR: Feed upgrade for game %s from %s: %v", game.ID, realIP(r), err)

			return
		}

		client := &Client{
			conn: conn,
			send: make(chan any, sendBuffer),
		}

		// Queued before registering so the snapshot is the first message.
		client.send <- feedMessage{Type: "game_state", Game: game}

		hub := fm.getHub(game.ID)

		select {
		case hub.register <- client:
		case <-hub.done:
			_ = conn.Close()

			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
