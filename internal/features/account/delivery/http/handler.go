package http

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/account/service"
	"kaliroot-admin/internal/platform/account"
)

// AccountHandler proxies the local account API. Upstream JSON is returned
// as the envelope data without reshaping.
type AccountHandler struct {
	service service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	acc := router.Group("/account")
	{
		acc.GET("/health", h.Health)
		acc.GET("/auth/status", h.AuthStatus)
		acc.POST("/auth/code", h.SendCode)
		acc.POST("/auth/verify", h.Verify)
		acc.POST("/auth/logout", h.Logout)
		acc.GET("/me", h.Me)
		acc.GET("/stats", h.Stats)
		acc.GET("/channels", h.Channels)
		acc.GET("/groups", h.Groups)
		acc.GET("/dialogs", h.Dialogs)
		acc.GET("/chat/:id", h.Chat)
		acc.GET("/members/:id", h.Members)
		acc.POST("/send", h.Send)
	}
}

func reply(c *gin.Context, data json.RawMessage, err error) {
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", data)
}

func chatParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, errors.NewValidationError("id", "invalid chat ID format"))
		return 0, false
	}
	return id, true
}

func (h *AccountHandler) view(c *gin.Context, v service.View) {
	data, err := h.service.Get(c.Request.Context(), v)
	reply(c, data, err)
}

// @Summary Account API health
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/health [get]
func (h *AccountHandler) Health(c *gin.Context) { h.view(c, service.ViewHealth) }

// @Summary Account login status
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/auth/status [get]
func (h *AccountHandler) AuthStatus(c *gin.Context) { h.view(c, service.ViewAuthStatus) }

// @Summary Logged-in account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/me [get]
func (h *AccountHandler) Me(c *gin.Context) { h.view(c, service.ViewMe) }

// @Summary Account statistics
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/stats [get]
func (h *AccountHandler) Stats(c *gin.Context) { h.view(c, service.ViewStats) }

// @Summary Channels of the account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/channels [get]
func (h *AccountHandler) Channels(c *gin.Context) { h.view(c, service.ViewChannels) }

// @Summary Groups of the account
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/groups [get]
func (h *AccountHandler) Groups(c *gin.Context) { h.view(c, service.ViewGroups) }

// @Summary Request a login code
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body account.CodeRequest true "Phone"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} middleware.ErrorResponse "Account API error"
// @Router /account/auth/code [post]
func (h *AccountHandler) SendCode(c *gin.Context) {
	var req account.CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	data, err := h.service.SendCode(c.Request.Context(), req)
	reply(c, data, err)
}

// @Summary Verify a login code
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body account.VerifyRequest true "Phone, code and optional 2FA password"
// @Success 200 {object} response.Envelope
// @Router /account/auth/verify [post]
func (h *AccountHandler) Verify(c *gin.Context) {
	var req account.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	data, err := h.service.Verify(c.Request.Context(), req)
	reply(c, data, err)
}

// @Summary Log the account out
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /account/auth/logout [post]
func (h *AccountHandler) Logout(c *gin.Context) {
	data, err := h.service.Logout(c.Request.Context())
	reply(c, data, err)
}

// @Summary Dialogs
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param limit query int false "At most 500"
// @Success 200 {object} response.Envelope
// @Router /account/dialogs [get]
func (h *AccountHandler) Dialogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.service.Dialogs(c.Request.Context(), limit)
	reply(c, data, err)
}

// @Summary Chat details
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Success 200 {object} response.Envelope
// @Router /account/chat/{id} [get]
func (h *AccountHandler) Chat(c *gin.Context) {
	id, ok := chatParam(c)
	if !ok {
		return
	}
	data, err := h.service.Chat(c.Request.Context(), id)
	reply(c, data, err)
}

// @Summary Chat members
// @Tags account
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat ID"
// @Param limit query int false "At most 1000"
// @Success 200 {object} response.Envelope
// @Router /account/members/{id} [get]
func (h *AccountHandler) Members(c *gin.Context) {
	id, ok := chatParam(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	data, err := h.service.Members(c.Request.Context(), id, limit)
	reply(c, data, err)
}

// @Summary Send as the account
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body account.SendRequest true "Chat and message"
// @Success 200 {object} response.Envelope
// @Router /account/send [post]
func (h *AccountHandler) Send(c *gin.Context) {
	var req account.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	data, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Message sent", data)
}
