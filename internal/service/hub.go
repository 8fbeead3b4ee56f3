package service

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"go.uber.org/zap"
)

// Peer represents a WebSocket connection bound to one game.
type Peer struct {
	GameID string
	UserID string
	TeamID string
	Role   game.Role
	Conn   *websocket.Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

// closeSend shuts the outbound queue exactly once. Queueing and closing hold
// the same peer lock, so a broadcast racing a disconnect can never hit a
// closed channel.
func (p *Peer) closeSend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.Send)
}

// GameHub manages the per-game sets of admin and participant connections and
// routes outbound frames to them. Registration does not serialize with
// scoring; broadcasts snapshot the peer set so a concurrent removal never
// receives a write.
type GameHub struct {
	mu         sync.RWMutex
	peers      map[string]map[*Peer]struct{} // gameID -> set of peers
	upgrader   websocket.Upgrader
	maxMsgSize int64
	log        *zap.Logger
}

// NewGameHub creates a hub.
func NewGameHub(readBufferSize, writeBufferSize int, maxMessageSize int64, log *zap.Logger) *GameHub {
	return &GameHub{
		peers:      make(map[string]map[*Peer]struct{}),
		maxMsgSize: maxMessageSize,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			// Allow all origins for dev; in prod set CheckOrigin.
		},
	}
}

// Register adds a peer to a game and returns a cleanup function.
func (h *GameHub) Register(gameID, userID, teamID string, role game.Role, conn *websocket.Conn) (*Peer, func()) {
	if h.maxMsgSize > 0 {
		conn.SetReadLimit(h.maxMsgSize)
	}
	p := &Peer{
		GameID: gameID,
		UserID: userID,
		TeamID: teamID,
		Role:   role,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
	h.mu.Lock()
	if h.peers[gameID] == nil {
		h.peers[gameID] = make(map[*Peer]struct{})
	}
	h.peers[gameID][p] = struct{}{}
	h.mu.Unlock()

	h.log.Info("peer registered",
		zap.String("game_id", gameID),
		zap.String("user_id", userID),
		zap.String("role", string(role)))

	cleanup := func() {
		h.unregister(gameID, p)
	}
	return p, cleanup
}

func (h *GameHub) unregister(gameID string, p *Peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.peers[gameID]; ok {
		if _, present := m[p]; !present {
			return
		}
		delete(m, p)
		if len(m) == 0 {
			delete(h.peers, gameID)
		}
	} else {
		return
	}
	p.closeSend()
	h.log.Info("peer unregistered",
		zap.String("game_id", gameID),
		zap.String("user_id", p.UserID))
}

func (h *GameHub) snapshot(gameID string) []*Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	m, ok := h.peers[gameID]
	if !ok {
		return nil
	}
	peers := make([]*Peer, 0, len(m))
	for p := range m {
		peers = append(peers, p)
	}
	return peers
}

// SendTo queues a frame to one peer; a peer with a full buffer is skipped
// rather than stalling the caller, and a peer already gone is a no-op.
func (h *GameHub) SendTo(p *Peer, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.Send <- data:
	default:
		h.log.Warn("peer send buffer full, frame dropped",
			zap.String("game_id", p.GameID),
			zap.String("user_id", p.UserID))
	}
}

// Broadcast sends a frame to every connection of the game.
func (h *GameHub) Broadcast(gameID string, data []byte) {
	for _, p := range h.snapshot(gameID) {
		h.SendTo(p, data)
	}
}

// BroadcastEach builds a frame per peer, letting the caller filter by role
// and team. A nil frame skips the peer.
func (h *GameHub) BroadcastEach(gameID string, build func(p *Peer) []byte) {
	for _, p := range h.snapshot(gameID) {
		if data := build(p); data != nil {
			h.SendTo(p, data)
		}
	}
}

// CloseSession queues the terminal game_finished frame on every connection of
// the game, then shuts their outbound queues. The explicit terminal frame is
// part of the contract: the client special-cases a mid-session disconnect.
// Each write pump drains the queue, delivers the frame last and closes its
// own connection; the frame never races a concurrent pump write.
func (h *GameHub) CloseSession(gameID string) {
	h.mu.Lock()
	m, ok := h.peers[gameID]
	if !ok {
		h.mu.Unlock()
		return
	}
	delete(h.peers, gameID)
	h.mu.Unlock()

	raw, _ := json.Marshal(model.GameFinishedEvent{Event: model.EventGameFinished, GameID: gameID})
	for p := range m {
		h.SendTo(p, raw)
		p.closeSend()
	}
	h.log.Info("game connections closed", zap.String("game_id", gameID))
}

// Upgrader returns the WebSocket upgrader for HTTP handlers.
func (h *GameHub) Upgrader() *websocket.Upgrader {
	return &h.upgrader
}

// PeerCount returns the number of peers in a game (for debugging).
func (h *GameHub) PeerCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers[gameID])
}
