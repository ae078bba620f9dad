package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/user/models"
	"kaliroot-admin/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.PUT("/:id", h.UpdateUser)
		users.POST("/:id/message", h.SendMessage)
	}
}

// @Summary List users
// @Description Users newest first, filtered by id, first name or username and paginated 20 per page.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param page query int false "Page, 1-based"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	res, err := h.service.List(c.Request.Context(), models.ListParams{
		Search:  c.Query("q"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}

// @Summary Edit user
// @Description Replaces credits, subscription status, level and xp. The expiry is written only when given.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param update body models.UserUpdate true "New values"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} middleware.ErrorResponse "Invalid request"
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, errors.NewValidationError("id", "invalid user ID format"))
		return
	}

	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "User updated", nil)
}

// @Summary Message a user
// @Description Sends an HTML message to the user through the bot.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param message body models.SendMessageRequest true "Message"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} middleware.ErrorResponse "Empty message or no bot token"
// @Failure 502 {object} middleware.ErrorResponse "Telegram error"
// @Router /users/{id}/message [post]
func (h *UserHandler) SendMessage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, errors.NewValidationError("id", "invalid user ID format"))
		return
	}

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}

	if err := h.service.SendMessage(c.Request.Context(), id, req.Message); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Message sent", nil)
}
