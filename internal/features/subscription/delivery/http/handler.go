package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/subscription/models"
	"kaliroot-admin/internal/features/subscription/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	subs := router.Group("/subscriptions")
	{
		subs.GET("", h.List)
		subs.POST("/:id/activate", h.Activate)
	}
}

// @Summary List subscriptions
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param filter query string false "all, active, pending, inactive or expired"
// @Success 200 {object} response.Envelope{data=[]models.SubscriptionResponse}
// @Failure 400 {object} middleware.ErrorResponse "Invalid filter"
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.service.List(c.Request.Context(), c.DefaultQuery("filter", models.FilterAll))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", subs)
}

// @Summary Activate subscription
// @Description Sets the status to active with an expiry of now plus the configured days.
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Envelope{data=models.ActivateResponse}
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /subscriptions/{id}/activate [post]
func (h *SubscriptionHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, errors.NewValidationError("id", "invalid user ID format"))
		return
	}
	res, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Subscription activated", res)
}
