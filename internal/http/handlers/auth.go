package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/smarttutor-backend/internal/http/middleware"
	"github.com/yungbote/smarttutor-backend/internal/http/response"
	"github.com/yungbote/smarttutor-backend/internal/learning/api"
	"github.com/yungbote/smarttutor-backend/internal/platform/logger"
	"github.com/yungbote/smarttutor-backend/internal/services"
)

// CookieConfig controls the session cookie. Secure cookies are sent with
// SameSite=None so a frontend on another origin can use them.
type CookieConfig struct {
	Secure bool
	Domain string
}

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      CookieConfig
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		cookie:      cookie,
	}
}

// POST /api/auth/signup
func (ah *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := ah.authService.Signup(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "signup_failed", err)
		return
	}
	ah.setSessionCookie(c, session.SessionToken)
	response.RespondOK(c, session)
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondServiceError(c, "login_failed", err)
		return
	}
	ah.setSessionCookie(c, session.SessionToken)
	response.RespondOK(c, session)
}

// GET /api/auth/session-data
func (ah *AuthHandler) SessionData(c *gin.Context) {
	session, err := ah.authService.ExchangeSession(c.Request.Context(), c.GetHeader("X-Session-ID"))
	if err != nil {
		response.RespondServiceError(c, "session_exchange_failed", err)
		return
	}
	ah.setSessionCookie(c, session.SessionToken)
	response.RespondOK(c, session)
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondServiceError(c, "logout_failed", err)
		return
	}
	ah.clearSessionCookie(c)
	response.RespondOK(c, api.Message{Message: "Logged out successfully"})
}

// GET /api/auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, "load_user_failed", err)
		return
	}
	response.RespondOK(c, me)
}

func (ah *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	ah.writeCookie(c, token, int(ah.authService.SessionTTL().Seconds()))
}

func (ah *AuthHandler) clearSessionCookie(c *gin.Context) {
	ah.writeCookie(c, "", -1)
}

func (ah *AuthHandler) writeCookie(c *gin.Context, value string, maxAge int) {
	if ah.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", ah.cookie.Domain, ah.cookie.Secure, true)
}
