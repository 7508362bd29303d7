package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lejet/booking-gateway/internal/domain"
	"github.com/lejet/booking-gateway/internal/session"
)

type AuthHandler struct {
	sessions   *session.Manager
	cookieName string
	cookieTTL  int
}

func NewAuthHandler(sessions *session.Manager, cookieName string, cookieTTLSeconds int) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookieName: cookieName, cookieTTL: cookieTTLSeconds}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.signup)
	router.POST("/login", h.login)
	router.POST("/logout", h.logout)
	router.GET("/me", h.me)
}

type credentialsRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role,omitempty"`
}

type identityResponse struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid, identity, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, sid)
	c.JSON(http.StatusOK, identityResponse{Email: identity.Email, Role: identity.Role})
}

func (h *AuthHandler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid, identity, err := h.sessions.Signup(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setCookie(c, sid)
	c.JSON(http.StatusCreated, identityResponse{Email: identity.Email, Role: identity.Role})
}

func (h *AuthHandler) logout(c *gin.Context) {
	sid, err := c.Cookie(h.cookieName)
	if err == nil && sid != "" {
		if err := h.sessions.Logout(c.Request.Context(), sid); err != nil {
			respondError(c, err)
			return
		}
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// me re-verifies the stored token upstream, the page-load identity check.
func (h *AuthHandler) me(c *gin.Context) {
	sid, err := c.Cookie(h.cookieName)
	if err != nil || sid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "please log in to continue", "reauth": true})
		return
	}

	identity, err := h.sessions.Current(c.Request.Context(), sid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, identityResponse{Email: identity.Email, Role: identity.Role})
}

func (h *AuthHandler) setCookie(c *gin.Context, sid string) {
	c.SetCookie(h.cookieName, sid, h.cookieTTL, "/", "", false, true)
}
