package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/service"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/token"
	"go.uber.org/zap"
)

// GameWSHandler handles WebSocket connections for /ws/game/:game_id.
type GameWSHandler struct {
	hub    *service.GameHub
	svc    service.GameServicer
	tokens *token.Manager
	logger *zap.Logger
}

// NewGameWSHandler creates the WebSocket game handler.
func NewGameWSHandler(hub *service.GameHub, svc service.GameServicer, tokens *token.Manager, logger *zap.Logger) *GameWSHandler {
	return &GameWSHandler{hub: hub, svc: svc, tokens: tokens, logger: logger}
}

// ServeWS upgrades the request to WebSocket and runs the message loop.
// Path: /ws/game/:game_id. Identity comes from the verified claim; the
// connection is bound to the claim's role and team for its whole lifetime.
func (h *GameWSHandler) ServeWS(c *gin.Context) {
	gameID := c.Param("game_id")
	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_id required"})
		return
	}
	claims, err := h.tokens.FromRequest(c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	if !h.svc.IsStarted(gameID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not started"})
		return
	}

	conn, err := h.hub.Upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	role := game.RoleUser
	if claims.Role == string(game.RoleAdmin) {
		role = game.RoleAdmin
	}

	peer, cleanup := h.hub.Register(gameID, claims.UserID, claims.TeamID, role, conn)
	defer cleanup()

	go h.writePump(peer)
	h.readPump(peer)
}

func (h *GameWSHandler) readPump(p *service.Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()
	for {
		_, data, err := p.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("read error", zap.Error(err))
			}
			return
		}
		var req model.WSRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.sendError(p, "malformed message")
			continue
		}
		h.dispatch(p, req)
	}
}

// dispatch routes one inbound frame. Frame-level rejections go back to the
// sender only; the session survives any number of them.
func (h *GameWSHandler) dispatch(p *service.Peer, req model.WSRequest) {
	switch req.Action {
	case model.ActionAnswer:
		cur, err := h.svc.SubmitAnswer(p.GameID, p.Role, p.TeamID, req.Answer)
		if err != nil {
			h.sendError(p, err.Error())
			return
		}
		// Acknowledged to the sender only, the literal answer is never
		// relayed to other teams.
		raw, _ := json.Marshal(model.AnswerAcceptedEvent{
			Event:    model.EventAnswerAccepted,
			Round:    cur.Round,
			Question: cur.Question,
		})
		h.hub.SendTo(p, raw)
	case model.ActionStartRound:
		if err := h.svc.StartRound(p.GameID, p.Role, req.Round); err != nil {
			h.sendError(p, err.Error())
		}
	case model.ActionNextQuestion:
		if err := h.svc.NextQuestion(p.GameID, p.Role); err != nil {
			h.sendError(p, err.Error())
		}
	case model.ActionReveal:
		if err := h.svc.Reveal(p.GameID, p.Role); err != nil {
			h.sendError(p, err.Error())
		}
	default:
		h.sendError(p, "unknown action")
	}
}

func (h *GameWSHandler) sendError(p *service.Peer, msg string) {
	raw, _ := json.Marshal(model.ErrorEvent{Event: model.EventError, Message: msg})
	h.hub.SendTo(p, raw)
}

func (h *GameWSHandler) writePump(p *service.Peer) {
	defer func() {
		_ = p.Conn.Close()
	}()
	for data := range p.Send {
		if err := p.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
