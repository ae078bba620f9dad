package http

import (
	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/middleware"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/session/models"
	"kaliroot-admin/internal/features/session/service"
)

type SessionHandler struct {
	service service.SessionService
}

func NewSessionHandler(service service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// RegisterPublicRoutes mounts the routes reachable without a session.
func (h *SessionHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/session", h.Login)
	router.GET("/credentials", h.Prefill)
}

// RegisterRoutes mounts the routes behind RequireSession.
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.DELETE("/session", h.Logout)
	router.GET("/session", h.Current)
}

// @Summary Log in
// @Description Tests the backend credentials with a count of usuarios and opens a session.
// @Tags session
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope{data=models.LoginResponse}
// @Failure 400 {object} middleware.ErrorResponse "Missing URL or key"
// @Failure 502 {object} middleware.ErrorResponse "Connection error"
// @Router /session [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Connected to the backend", res)
}

// @Summary Log out
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /session [delete]
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(middleware.ContextSessionID)); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Session closed", nil)
}

// @Summary Current session
// @Description Returns how the request was authenticated and the masked credentials in use.
// @Tags session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /session [get]
func (h *SessionHandler) Current(c *gin.Context) {
	creds := middleware.CredentialsFrom(c)
	response.OK(c, "", gin.H{
		"session_id":  c.GetString(middleware.ContextSessionID),
		"auth_method": c.GetString(middleware.ContextAuthMethod),
		"credentials": creds.Masked(),
		"has_bot":     creds.BotToken != "",
	})
}

// @Summary Login form prefill
// @Description Remembered credentials overlaid on the static admin configuration, secrets masked.
// @Tags session
// @Produce json
// @Success 200 {object} response.Envelope{data=models.PrefillResponse}
// @Router /credentials [get]
func (h *SessionHandler) Prefill(c *gin.Context) {
	res, err := h.service.Prefill(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}
