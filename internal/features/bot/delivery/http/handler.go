package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/bot/models"
	"kaliroot-admin/internal/features/bot/service"
)

type BotHandler struct {
	service service.BotService
}

func NewBotHandler(service service.BotService) *BotHandler {
	return &BotHandler{service: service}
}

func (h *BotHandler) RegisterRoutes(router *gin.RouterGroup) {
	bot := router.Group("/bot")
	{
		bot.GET("", h.Status)
		bot.DELETE("/webhook", h.DeleteWebhook)
		bot.POST("/messages", h.Send)
		bot.GET("/chats/:chat", h.Chat)
	}
}

// @Summary Bot status
// @Description getMe and getWebhookInfo for the session's bot token.
// @Tags bot
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.Status}
// @Failure 400 {object} middleware.ErrorResponse "No bot token"
// @Failure 502 {object} middleware.ErrorResponse "Telegram error"
// @Router /bot [get]
func (h *BotHandler) Status(c *gin.Context) {
	res, err := h.service.Status(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}

// @Summary Delete webhook
// @Tags bot
// @Produce json
// @Security BearerAuth
// @Param drop_pending_updates query bool false "Drop queued updates"
// @Success 200 {object} response.Envelope
// @Router /bot/webhook [delete]
func (h *BotHandler) DeleteWebhook(c *gin.Context) {
	drop, _ := strconv.ParseBool(c.Query("drop_pending_updates"))
	if err := h.service.DeleteWebhook(c.Request.Context(), drop); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Webhook deleted", nil)
}

// @Summary Send a message
// @Tags bot
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body models.SendRequest true "Message"
// @Success 200 {object} response.Envelope
// @Router /bot/messages [post]
func (h *BotHandler) Send(c *gin.Context) {
	var req models.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	msg, err := h.service.Send(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Message sent", msg)
}

// @Summary Chat info
// @Tags bot
// @Produce json
// @Security BearerAuth
// @Param chat path string true "Chat id or @username"
// @Success 200 {object} response.Envelope{data=models.ChatInfo}
// @Router /bot/chats/{chat} [get]
func (h *BotHandler) Chat(c *gin.Context) {
	res, err := h.service.Chat(c.Request.Context(), c.Param("chat"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}
