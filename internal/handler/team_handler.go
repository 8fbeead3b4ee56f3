package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/repository"
)

// TeamHandler handles REST API for teams.
type TeamHandler struct {
	teams *repository.TeamRepository
}

// NewTeamHandler creates a team handler.
func NewTeamHandler(teams *repository.TeamRepository) *TeamHandler {
	return &TeamHandler{teams: teams}
}

// GetAll godoc
// GET /teams
func (h *TeamHandler) GetAll(c *gin.Context) {
	ents, err := h.teams.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]model.TeamResponse, 0, len(ents))
	for i := range ents {
		out = append(out, teamResponse(&ents[i]))
	}
	c.JSON(http.StatusOK, gin.H{"teams": out})
}

// Get godoc
// GET /teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	ent, err := h.teams.FindByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teamResponse(ent))
}

// Insert godoc
// POST /teams
// The creating user becomes the team captain.
func (h *TeamHandler) Insert(c *gin.Context) {
	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	captainID := claimsFrom(c).UserID
	var captain *string
	if captainID != "" {
		captain = &captainID
	}
	ent, err := h.teams.Insert(req.Name, captain)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, teamResponse(ent))
}

// Delete godoc
// DELETE /teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teams.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func teamResponse(ent *model.Team) model.TeamResponse {
	resp := model.TeamResponse{ID: ent.ID, Name: ent.Name}
	if ent.Captain != nil {
		resp.CaptainEmail = ent.Captain.Email
	}
	return resp
}
