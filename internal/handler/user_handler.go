package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/errs"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/model"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/repository"
	"github.com/nulladdict/fiit-projects-OwnChGK/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles registration, login and token re-issue.
type UserHandler struct {
	users  *repository.UserRepository
	teams  *repository.TeamRepository
	tokens *token.Manager
}

// NewUserHandler creates a user handler.
func NewUserHandler(users *repository.UserRepository, teams *repository.TeamRepository, tokens *token.Manager) *UserHandler {
	return &UserHandler{users: users, teams: teams, tokens: tokens}
}

// Register godoc
// POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	user, err := h.users.Insert(req.Email, string(hash), "user")
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueCookie(c, user, "", "")
	c.JSON(http.StatusOK, gin.H{"id": user.ID})
}

// Login godoc
// POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
		return
	}
	user, err := h.users.FindByEmail(req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(c, errs.ErrBadPassword)
		return
	}
	h.issueCookie(c, user, "", "")
	c.JSON(http.StatusOK, h.userResponse(user))
}

// Current godoc
// GET /users/current
func (h *UserHandler) Current(c *gin.Context) {
	user, err := h.users.FindByID(claimsFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.userResponse(user))
}

// GetAll godoc
// GET /users
// Listing is intentionally thin: just emails for roster pickers.
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.users.FindAll()
	if err != nil {
		respondError(c, err)
		return
	}
	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	c.JSON(http.StatusOK, gin.H{"users": emails})
}

// Logout godoc
// POST /users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetCookie(token.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{})
}

// ChangeToken godoc
// PATCH /users/:game_id/changeToken
// Re-issues the caller's token bound to their team and the game they enter.
// The live connection derives its identity from this claim.
func (h *UserHandler) ChangeToken(c *gin.Context) {
	claims := claimsFrom(c)
	user, err := h.users.FindByID(claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	team, err := h.teams.FindByCaptain(user.ID)
	if err != nil {
		if errors.Is(err, errs.ErrTeamNotFound) {
			// No team: the token stays teamless, scores under intrigue will
			// be refused for this caller.
			h.issueCookie(c, user, "", c.Param("game_id"))
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		respondError(c, err)
		return
	}
	h.issueCookie(c, user, team.ID, c.Param("game_id"))
	c.JSON(http.StatusOK, gin.H{
		"id":            team.ID,
		"name":          team.Name,
		"captain_id":    user.ID,
		"captain_email": user.Email,
	})
}

func (h *UserHandler) issueCookie(c *gin.Context, user *model.User, teamID, gameID string) {
	raw, err := h.tokens.Generate(user.ID, user.Email, user.Role, teamID, gameID)
	if err != nil {
		return
	}
	c.SetCookie(token.CookieName, raw, int(h.tokens.TTL().Seconds()), "/", "", false, true)
}

func (h *UserHandler) userResponse(user *model.User) model.UserResponse {
	resp := model.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
	if team, err := h.teams.FindByCaptain(user.ID); err == nil {
		resp.Team = team.Name
	}
	return resp
}
