package handler

import (
	"net/http"
	"time"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	authService service.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie}
}

// RegisterRoutes wires the auth endpoints. limit guards the credential endpoints.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup, limit gin.HandlerFunc) {
	auth := public.Group("/auth")
	{
		auth.POST("/register", limit, h.Register)
		auth.POST("/login", limit, h.Login)
	}

	me := protected.Group("/auth")
	{
		me.POST("/logout", h.Logout)
		me.GET("/me", h.Me)
		me.GET("/csrf", h.CSRF)
	}
}

// Register creates an account and logs it in.
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.authService.StartSession(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusCreated, dto.AuthResponse{
		Success:   true,
		Message:   "Registration successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		CSRFToken: result.Identity.CSRFToken,
		User:      dto.FromModelToUserResponse(user),
	})
}

// Login accepts a username or email with a password.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, dto.AuthResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		CSRFToken: result.Identity.CSRFToken,
		User:      dto.FromIdentityToUserResponse(result.Identity),
	})
}

// Logout ends the current session. The cookie is cleared even if the store fails.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), id.SessionID); err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Str("user_id", id.UserID).Msg("failed to delete session")
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, dto.Succeeded("Logged out"))
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.FromIdentityToUserResponse(id))
}

// GET /api/auth/csrf
func (h *AuthHandler) CSRF(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.CSRFResponse{CSRFToken: id.CSRFToken})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
