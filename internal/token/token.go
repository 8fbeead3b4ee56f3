package token

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie the frontend stores the issued token in.
const CookieName = "authorization"

// Claims is the verified identity attached to every request and connection:
// who the caller is, their role, and (after entering a game) the team and
// game they are bound to.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	TeamID string `json:"team_id,omitempty"`
	GameID string `json:"game_id,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HMAC-signed tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager with the given signing secret and
// token lifetime.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Generate signs a token binding the user to a role and, optionally, a team
// and a game.
func (m *Manager) Generate(userID, email, role, teamID, gameID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		TeamID: teamID,
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse verifies a raw token and returns its claims.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// FromRequest extracts and verifies the token from the authorization cookie,
// the token query parameter, or a Bearer header, in that order.
func (m *Manager) FromRequest(r *http.Request) (*Claims, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return m.Parse(c.Value)
	}
	if q := r.URL.Query().Get("token"); q != "" {
		return m.Parse(q)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return m.Parse(strings.TrimPrefix(h, "Bearer "))
	}
	return nil, fmt.Errorf("no token in request")
}

// TTL returns the configured token lifetime, used for cookie max age.
func (m *Manager) TTL() time.Duration { return m.ttl }
