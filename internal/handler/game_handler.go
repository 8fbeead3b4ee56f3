package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/game"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/repository"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/service"
)

// GameHandler handles REST API for configured games and their live sessions.
type GameHandler struct {
	games *repository.BigGameRepository
	svc   service.GameServicer
}

// NewGameHandler creates a game handler.
func NewGameHandler(games *repository.BigGameRepository, svc service.GameServicer) *GameHandler {
	return &GameHandler{games: games, svc: svc}
}

// GetAll godoc
// GET /games?am_i_participate=true
func (h *GameHandler) GetAll(c *gin.Context) {
	var (
		ents []model.BigGame
		err  error
	)
	if c.Query("am_i_participate") != "" {
		ents, err = h.games.FindParticipatedBy(claimsFrom(c).UserID)
	} else {
		ents, err = h.games.FindAll()
	}
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.GameResponse, 0, len(ents))
	for i := range ents {
		out = append(out, h.gameResponse(&ents[i]))
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}

// Get godoc
// GET /games/:id
func (h *GameHandler) Get(c *gin.Context) {
	ent, err := h.games.FindWithRelations(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.gameResponse(ent))
}

// Insert godoc
// POST /games
func (h *GameHandler) Insert(c *gin.Context) {
	var req model.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	ent, err := h.games.Insert(req.Name, claimsFrom(c).Email, req.Teams, req.ChGKSettings, req.MatrixSettings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": ent.ID})
}

// Change godoc
// PATCH /games/:id
func (h *GameHandler) Change(c *gin.Context) {
	var req model.ChangeGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.games.Update(c.Param("id"), req.NewName, req.Teams, req.ChGKSettings, req.MatrixSettings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ChangeName godoc
// PATCH /games/:id/changeName
func (h *GameHandler) ChangeName(c *gin.Context) {
	var req struct {
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.games.UpdateName(c.Param("id"), req.NewName); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ChangeStatus godoc
// PATCH /games/:id/changeStatus
func (h *GameHandler) ChangeStatus(c *gin.Context) {
	var req model.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.games.UpdateStatus(c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /games/:id
func (h *GameHandler) Delete(c *gin.Context) {
	if err := h.games.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Start godoc
// POST /games/:id/start
func (h *GameHandler) Start(c *gin.Context) {
	resp, err := h.svc.Start(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Finish godoc
// POST /games/:id/finish
func (h *GameHandler) Finish(c *gin.Context) {
	if err := h.svc.Finish(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ChangeIntrigueStatus godoc
// PATCH /games/:id/changeIntrigueStatus
func (h *GameHandler) ChangeIntrigueStatus(c *gin.Context) {
	var req model.ChangeIntrigueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.svc.SetIntrigue(c.Param("id"), game.Role(claimsFrom(c).Role), *req.IsIntrigue); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// ChangeActiveFormat godoc
// PATCH /games/:id/changeActiveFormat
func (h *GameHandler) ChangeActiveFormat(c *gin.Context) {
	var req model.ChangeActiveFormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	if err := h.svc.SetActiveFormat(c.Param("id"), game.Role(claimsFrom(c).Role), req.Format); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// AcceptAnswer godoc
// POST /games/:id/accept
func (h *GameHandler) AcceptAnswer(c *gin.Context) {
	var req model.AcceptAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	err := h.svc.AcceptAnswer(c.Param("id"), game.Role(claimsFrom(c).Role), req.TeamID, req.Round, req.Question, req.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{})
}

// GetResult godoc
// GET /games/:id/result
func (h *GameHandler) GetResult(c *gin.Context) {
	resp, err := h.svc.TotalScore(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResultTable godoc
// GET /games/:id/resultTable
func (h *GameHandler) GetResultTable(c *gin.Context) {
	claims := claimsFrom(c)
	resp, err := h.svc.Scoreboard(c.Param("id"), game.Role(claims.Role), claims.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetResultWithFormat godoc
// GET /games/:id/resultTable/format
func (h *GameHandler) GetResultWithFormat(c *gin.Context) {
	claims := claimsFrom(c)
	resp, err := h.svc.Export(c.Param("id"), game.Role(claims.Role), claims.TeamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GameHandler) gameResponse(ent *model.BigGame) model.GameResponse {
	resp := model.GameResponse{
		ID:        ent.ID,
		Name:      ent.Name,
		Status:    ent.Status,
		IsStarted: h.svc.IsStarted(ent.ID),
	}
	for _, t := range ent.Teams {
		resp.Teams = append(resp.Teams, t.Name)
	}
	for _, g := range ent.Games {
		settings := settingsFromRounds(g.Rounds)
		switch g.Type {
		case model.GameTypeChGK:
			resp.ChGKSettings = settings
		case model.GameTypeMatrix:
			resp.MatrixSettings = settings
		}
	}
	return resp
}

func settingsFromRounds(rounds []model.Round) *model.GameSettings {
	s := &model.GameSettings{RoundCount: len(rounds)}
	if len(rounds) > 0 {
		s.QuestionCount = rounds[0].QuestionCount
		s.QuestionCost = rounds[0].QuestionCost
		s.QuestionTime = rounds[0].QuestionTime
	}
	return s
}
