package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/salon-scheduler/internal/audit"
	"github.com/BruksfildServices01/salon-scheduler/internal/config"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/middleware"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	config *config.Config
	audit  *audit.Dispatcher
	now    func() time.Time
}

func NewAuthHandler(cfg *config.Config, dispatcher *audit.Dispatcher) *AuthHandler {
	return &AuthHandler{config: cfg, audit: dispatcher, now: time.Now}
}

// --------- Requests ---------

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Login exchanges the salon admin password for a bearer token. There is a
// single admin; the bcrypt hash comes from ADMIN_PASSWORD_HASH.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "password is required.")
		return
	}

	if h.config.AdminPasswordHash == "" {
		httperr.Unauthorized(c, "admin_disabled", "Admin login is not configured.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.config.AdminPasswordHash), []byte(req.Password)); err != nil {
		h.audit.Dispatch(audit.Event{
			Action: "admin_login_failed",
			Actor:  c.ClientIP(),
			Entity: "admin",
		})
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials.")
		return
	}

	token, expires, err := h.generateToken()
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Could not issue a token.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action: "admin_login",
		Actor:  middleware.RoleAdmin,
		Entity: "admin",
	})

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expires.UTC().Format(time.RFC3339),
	})
}

// --------- Helpers ---------

func (h *AuthHandler) generateToken() (string, time.Time, error) {
	now := h.now()
	expires := now.Add(tokenTTL)

	claims := jwt.MapClaims{
		"sub":  middleware.RoleAdmin,
		"role": middleware.RoleAdmin,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.config.JWTSecret))
	return signed, expires, err
}
