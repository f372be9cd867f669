// Chomparty arena host
//
// Each match lives at /arena/:gameid and is driven by one Hub. Humans join
// with a username and stream already-classified face signals (direction and
// jaw open/closed); bots fill the remaining seats and are driven by the bot
// planner inside the arena simulation.
//
// Features:
// - WebSockets per match ID: /arena/:gameid and /arena/:gameid/ws
// - First connection to a match becomes moderator
// - Moderator can lock/unlock the lobby, kick players or bots, add bots
//   and start (or restart) the round
// - Players identified by cookie (playerID)
// - Duplicate usernames prevented across humans and bots
// - Collision messages sent only to the offending client
// - Match state broadcast on every tick while a round is running
// - Matches auto-reaped after configurable idle timeout
// - Random 8-char match IDs via crypto/rand, with server-side collision check
// - In-browser QR button to share the current match, backed by go-qrcode

package main

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Seednode/chomparty/internal/arena"
	"github.com/Seednode/chomparty/internal/bot"
	"github.com/Seednode/chomparty/internal/grid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Player is a seat in the match. Bots have no PlayerID.
type Player struct {
	PlayerID string
	Username string
	Num      int
	Bot      bool
}

// Messages coming from clients
type ClientMessage struct {
	Type           string `json:"type"`                      // "join", "input", "lock_lobby", "kick", "add_bot", "start_game"
	Username       string `json:"username,omitempty"`        // join
	Direction      string `json:"direction,omitempty"`       // input
	JawOpen        bool   `json:"jaw_open,omitempty"`        // input
	Lock           *bool  `json:"lock,omitempty"`            // lock_lobby
	TargetUsername string `json:"target_username,omitempty"` // kick
}

// Sent to a single client when there's a username collision
type CollisionMessage struct {
	Type    string `json:"type"`    // "collision"
	Field   string `json:"field"`   // "username"
	Message string `json:"message"` // user-facing text
}

// SimpleMessage is for generic notifications ("kicked", "lobby_locked", "error")
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type LobbyStateMessage struct {
	Type   string `json:"type"` // "lobby_state"
	Locked bool   `json:"locked"`
}

// SessionInfoMessage is sent immediately on connect so the client knows
// whether the lobby is locked and what role this cookie has.
type SessionInfoMessage struct {
	Type        string `json:"type"` // "session_info"
	LobbyLocked bool   `json:"lobby_locked"`
	IsExisting  bool   `json:"is_existing"`
	IsModerator bool   `json:"is_moderator"`
	Username    string `json:"username,omitempty"`
}

type GameStateMessage struct {
	Type  string         `json:"type"` // "game_state"
	State arena.Snapshot `json:"state"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type clientRequest struct {
	client *Client
	msg    ClientMessage
}

type Hub struct {
	id      string
	cfg     *Config
	clients map[*Client]bool
	players []Player

	register chan *Client
	unreg    chan *Client
	joins    chan clientRequest
	inputs   chan clientRequest
	mods     chan clientRequest

	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	createdAt         time.Time
	lastActive        time.Time
	lobbyLocked       bool
	moderatorPlayerID string

	match      *arena.Match
	lastStatus arena.Status
}

func newHub(cfg *Config, gameID string) (*Hub, error) {
	now := time.Now()

	h := &Hub{
		id:         gameID,
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unreg:      make(chan *Client),
		joins:      make(chan clientRequest),
		inputs:     make(chan clientRequest),
		mods:       make(chan clientRequest),
		done:       make(chan struct{}),
		createdAt:  now,
		lastActive: now,
	}

	match, err := h.newMatch()
	if err != nil {
		return nil, err
	}
	h.match = match

	for i := 0; i < cfg.bots; i++ {
		if err := h.addBotLocked(); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// now is the match clock in milliseconds since the hub was created.
func (h *Hub) now() int64 {
	return time.Since(h.createdAt).Milliseconds()
}

func (h *Hub) newMatch() (*arena.Match, error) {
	reporter := bot.ReporterFunc(func(d bot.Diagnostic) {
		logf(h.cfg, "BOTS: %s in %s", d, h.id)
	})

	return arena.NewMatch(h.cfg.matchSettings(reporter), h.cfg.matchSeed())
}

func (h *Hub) run() {
	ticker := time.NewTicker(h.cfg.tickInterval())
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case <-ticker.C:
			h.tick()

		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()

			if h.moderatorPlayerID == "" {
				h.moderatorPlayerID = c.playerID
			}

			existing := h.playerByIDLocked(c.playerID)

			h.clients[c] = true

			info := SessionInfoMessage{
				Type:        "session_info",
				LobbyLocked: h.lobbyLocked,
				IsModerator: h.moderatorPlayerID == c.playerID,
			}
			if existing != nil {
				info.IsExisting = true
				info.Username = existing.Username
			}
			c.send <- info

			h.broadcastGameStateLocked()

			h.mu.Unlock()

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

			if c.playerID != "" {
				go h.scheduleRemoval(c.playerID, h.cfg.playerTimeout)
			}

		case req := <-h.joins:
			h.handleJoin(req)

		case req := <-h.inputs:
			h.handleInput(req)

		case req := <-h.mods:
			h.handleModCommand(req)
		}
	}
}

func (h *Hub) tick() {
	h.mu.Lock()
	defer h.mu.Unlock()

	status := h.match.Status()
	if status == arena.StatusWaiting {
		return
	}

	h.match.Tick(h.now())

	status = h.match.Status()
	if status == arena.StatusRunning || status != h.lastStatus {
		h.broadcastGameStateLocked()
	}
	if status == arena.StatusOver && h.lastStatus == arena.StatusRunning {
		h.logLeadersLocked()
	}
	h.lastStatus = status
}

func (h *Hub) logLeadersLocked() {
	leaders := h.match.Snapshot(h.now()).Leaders()
	if len(leaders) == 0 {
		return
	}
	logf(h.cfg, "GAMES: Round over in %s, %q won with %d points", h.id, leaders[0].Name, leaders[0].Points)
}

func (h *Hub) playerByIDLocked(playerID string) *Player {
	if playerID == "" {
		return nil
	}
	for i := range h.players {
		if h.players[i].PlayerID == playerID {
			return &h.players[i]
		}
	}
	return nil
}

func (h *Hub) playerByNameLocked(username string) (int, *Player) {
	for i := range h.players {
		if h.players[i].Username == username {
			return i, &h.players[i]
		}
	}
	return -1, nil
}

func (h *Hub) removePlayerLocked(i int) {
	p := h.players[i]
	if err := h.match.Remove(p.Num); err != nil {
		logf(h.cfg, "GAMES: %v", err)
	}
	h.players = append(h.players[:i], h.players[i+1:]...)
}

func (h *Hub) addBotLocked() error {
	for i := 0; ; i++ {
		name := botName(i)
		if _, taken := h.playerByNameLocked(name); taken != nil {
			continue
		}

		num, err := h.match.AddBot(name)
		if err != nil {
			return err
		}
		h.players = append(h.players, Player{Username: name, Num: num, Bot: true})

		logf(h.cfg, "GAMES: Bot %q joined %s", name, h.id)

		return nil
	}
}

// resetMatchLocked builds a fresh match with the same seats, so a finished
// round can be replayed.
func (h *Hub) resetMatchLocked() error {
	match, err := h.newMatch()
	if err != nil {
		return err
	}

	nums := make([]int, len(h.players))
	for i, p := range h.players {
		if p.Bot {
			nums[i], err = match.AddBot(p.Username)
		} else {
			nums[i], err = match.AddHuman(p.Username)
		}
		if err != nil {
			return err
		}
	}

	for i, num := range nums {
		h.players[i].Num = num
	}
	h.match = match
	h.lastStatus = arena.StatusWaiting

	return nil
}

// broadcastGameStateLocked sends the current match snapshot to all clients.
func (h *Hub) broadcastGameStateLocked() {
	h.broadcastLocked(GameStateMessage{
		Type:  "game_state",
		State: h.match.Snapshot(h.now()),
	})
}

func (h *Hub) broadcastLocked(msg any) {
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) sendLocked(c *Client, msg any) {
	if _, ok := h.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// scheduleRemoval waits for d, and if no client with this playerID
// is currently connected, removes that player's seat and broadcasts
// the updated state.
func (h *Hub) scheduleRemoval(playerID string, d time.Duration) {
	select {
	case <-time.After(d):
	case <-h.done:
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.playerID == playerID {
			return
		}
	}

	for i, p := range h.players {
		if p.PlayerID == playerID {
			logf(h.cfg, "GAMES: Player %q timed out of %s", p.Username, h.id)
			h.removePlayerLocked(i)
			h.lastActive = time.Now()
			h.broadcastGameStateLocked()
			return
		}
	}
}

// handleJoin processes "join" messages.
func (h *Hub) handleJoin(req clientRequest) {
	c := req.client
	username := strings.TrimSpace(req.msg.Username)

	if username == "" || c.playerID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	existing := h.playerByIDLocked(c.playerID)

	if h.lobbyLocked && existing == nil {
		h.sendLocked(c, SimpleMessage{
			Type:    "lobby_locked",
			Message: "The lobby is locked; no new players may join.",
		})
		return
	}

	if _, p := h.playerByNameLocked(username); p != nil && p.PlayerID != c.playerID {
		h.sendLocked(c, CollisionMessage{
			Type:    "collision",
			Field:   "username",
			Message: "That username is already taken. Please choose a different username.",
		})
		return
	}

	if existing != nil && existing.Username == username {
		h.broadcastGameStateLocked()
		return
	}

	if h.match.Status() == arena.StatusOver {
		if err := h.resetMatchLocked(); err != nil {
			h.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
	}

	if h.match.Status() != arena.StatusWaiting {
		h.sendLocked(c, SimpleMessage{
			Type:    "error",
			Message: "The round is already under way; wait for it to finish.",
		})
		return
	}

	if existing != nil {
		if err := h.match.Remove(existing.Num); err != nil {
			logf(h.cfg, "GAMES: %v", err)
		}
	}

	num, err := h.match.AddHuman(username)
	if err != nil {
		h.sendLocked(c, SimpleMessage{Type: "error", Message: joinErrorText(err)})
		if existing != nil {
			for i := range h.players {
				if h.players[i].PlayerID == c.playerID {
					h.players = append(h.players[:i], h.players[i+1:]...)
					break
				}
			}
		}
		return
	}

	if existing != nil {
		logf(h.cfg, "GAMES: Player %q renamed to %q in %s", existing.Username, username, h.id)
		existing.Username = username
		existing.Num = num
	} else {
		h.players = append(h.players, Player{
			PlayerID: c.playerID,
			Username: username,
			Num:      num,
		})
		logf(h.cfg, "GAMES: Player %q joined %s", username, h.id)
	}

	h.broadcastGameStateLocked()
}

func joinErrorText(err error) string {
	switch {
	case errors.Is(err, arena.ErrMatchFull):
		return "The match is full."
	case errors.Is(err, arena.ErrAlreadyStarted):
		return "The round is already under way; wait for it to finish."
	case errors.Is(err, arena.ErrEmptyName):
		return "Please choose a username."
	}
	return "Unable to join the match."
}

// handleInput applies the face-derived signals of a human player.
func (h *Hub) handleInput(req clientRequest) {
	c := req.client

	d, err := grid.ParseDirection(req.msg.Direction)
	if err != nil {
		h.mu.Lock()
		h.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
		h.mu.Unlock()
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	p := h.playerByIDLocked(c.playerID)
	if p == nil {
		return
	}

	h.lastActive = time.Now()

	if err := h.match.SetInput(p.Num, d, req.msg.JawOpen, h.now()); err != nil {
		logf(h.cfg, "GAMES: Dropped input from %q in %s: %v", p.Username, h.id, err)
	}
}

// handleModCommand processes moderator commands: lock/unlock lobby, kick
// players or bots, add bots, start the round.
func (h *Hub) handleModCommand(req clientRequest) {
	c := req.client
	msg := req.msg

	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastActive = time.Now()

	if h.moderatorPlayerID == "" || c.playerID != h.moderatorPlayerID {
		return
	}

	switch msg.Type {
	case "lock_lobby":
		h.lobbyLocked = msg.Lock != nil && *msg.Lock

		h.broadcastLocked(LobbyStateMessage{
			Type:   "lobby_state",
			Locked: h.lobbyLocked,
		})

	case "kick":
		i, target := h.playerByNameLocked(msg.TargetUsername)
		if target == nil {
			return
		}
		kicked := *target

		h.removePlayerLocked(i)
		logf(h.cfg, "GAMES: Player %q kicked from %s", kicked.Username, h.id)

		if !kicked.Bot {
			for client := range h.clients {
				if client.playerID == kicked.PlayerID {
					h.sendLocked(client, SimpleMessage{
						Type:    "kicked",
						Message: "You have been removed by the moderator.",
					})
					if _, ok := h.clients[client]; ok {
						delete(h.clients, client)
						close(client.send)
					}
				}
			}
		}

		h.broadcastGameStateLocked()

	case "add_bot":
		if h.match.Status() == arena.StatusOver {
			if err := h.resetMatchLocked(); err != nil {
				h.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
				return
			}
		}
		if err := h.addBotLocked(); err != nil {
			h.sendLocked(c, SimpleMessage{Type: "error", Message: joinErrorText(err)})
			return
		}

		h.broadcastGameStateLocked()

	case "start_game":
		if h.match.Status() == arena.StatusOver {
			if err := h.resetMatchLocked(); err != nil {
				h.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
				return
			}
		}

		if err := h.match.Start(h.now()); err != nil {
			h.sendLocked(c, SimpleMessage{Type: "error", Message: err.Error()})
			return
		}
		h.lastStatus = arena.StatusRunning

		logf(h.cfg, "GAMES: Round started in %s with %d players", h.id, h.match.PlayerCount())

		h.broadcastGameStateLocked()
	}
}

// stop disconnects all clients of this hub and ends its run loop.
func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		defer h.mu.Unlock()

		h.match.Stop()

		for c := range h.clients {
			close(c.send)
			_ = c.conn.Close()
			delete(h.clients, c)
		}
	})
}

// submit hands a request to the run loop unless the hub has been stopped.
func submit[T any](h *Hub, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "chomparty_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		log.Println("rand.Read error:", err)
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by match ID, so each $path/$gameid
// is its own isolated match.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration
	done        chan struct{}
}

func newGameManager(idleTimeout time.Duration) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		done:        make(chan struct{}),
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) (*Hub, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub, nil
	}

	hub, err := newHub(cfg, gameID)
	if err != nil {
		return nil, err
	}
	gm.hubs[gameID] = hub
	go hub.run()

	return hub, nil
}

const (
	gameIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	gameIDLength  = 8
)

// validGameID reports whether id could have come from newGameID.
func validGameID(id string) bool {
	if len(id) != gameIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(gameIDLetters, id[i]) < 0 {
			return false
		}
	}
	return true
}

// newGameID generates a crypto-random match ID and ensures it doesn't
// collide with existing matches.
func (gm *GameManager) newGameID() string {
	for {
		buf := make([]byte, gameIDLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, gameIDLength)
		for i := range out {
			out[i] = gameIDLetters[int(buf[i])%len(gameIDLetters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.reap(time.Now().Add(-gm.idleTimeout))
		}
	}
}

func (gm *GameManager) reap(cutoff time.Time) int {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	reaped := 0
	for id, hub := range gm.hubs {
		hub.mu.RLock()
		last := hub.lastActive
		hub.mu.RUnlock()

		if last.Before(cutoff) {
			delete(gm.hubs, id)
			go hub.stop()
			reaped++
		}
	}
	return reaped
}

// close stops the reaper and every live hub.
func (gm *GameManager) close() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	select {
	case <-gm.done:
		return
	default:
		close(gm.done)
	}

	for id, hub := range gm.hubs {
		delete(gm.hubs, id)
		hub.stop()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if !validGameID(gameID) {
			http.Error(w, "invalid game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)
		if playerID == "" {
			http.Error(w, "unable to assign player id", http.StatusInternalServerError)
			return
		}

		hub, err := gm.getHub(cfg, gameID)
		if err != nil {
			http.Error(w, "unable to create match", http.StatusInternalServerError)
			logf(cfg, "GAMES: Failed to create %s: %v", gameID, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, http.Header{"Set-Cookie": w.Header().Values("Set-Cookie")})
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 32),
			playerID: playerID,
		}

		if !submit(hub, hub.register, client) {
			_ = conn.Close()
			return
		}

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		submit(h, h.unreg, c)
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		req := clientRequest{client: c, msg: msg}

		var ok bool
		switch msg.Type {
		case "join":
			ok = submit(h, h.joins, req)
		case "input":
			ok = submit(h, h.inputs, req)
		case "lock_lobby", "kick", "add_bot", "start_game":
			ok = submit(h, h.mods, req)
		default:
			// ignore unknown types
			ok = true
		}
		if !ok {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current match URL using go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !validGameID(ps.ByName("gameid")) {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the match URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

//go:embed assets/arena/index.html
var arenaHTML []byte

func getIndexHandler(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !validGameID(ps.ByName("gameid")) {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		// May carry a fresh player cookie.
		w.Header().Set("Cache-Control", "private, no-store")

		_, _ = w.Write(arenaHTML)
	}
}

// redirectNewGame handles GET /path by generating a new random match ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created match %s/%s", path, gameID)
		http.Redirect(w, r, cfg.prefix+path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerArenaGame sets up routes so that:
//   - $path                  → redirects to new random match (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that match
//   - $path/:gameid/qr       → PNG QR code for that match URL
func registerArenaGame(cfg *Config, path string, mux *httprouter.Router, errs chan<- error) *GameManager {
	gm := newGameManager(cfg.sessionTimeout)

	mux.GET(cfg.prefix+path, redirectNewGame(cfg, path, gm))

	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	mux.GET(cfg.prefix+"/assets/arena/:file", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)

	return gm
}
