package http

import (
	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/service"
)

type BroadcastHandler struct {
	service service.BroadcastService
}

func NewBroadcastHandler(service service.BroadcastService) *BroadcastHandler {
	return &BroadcastHandler{service: service}
}

func (h *BroadcastHandler) RegisterRoutes(router *gin.RouterGroup) {
	broadcasts := router.Group("/broadcasts")
	{
		broadcasts.POST("", h.Start)
		broadcasts.GET("/:id", h.Get)
	}
}

// @Summary Start a broadcast
// @Description Sends the message to every user of the segment in the background.
// @Tags broadcasts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.StartRequest true "Segment all, premium or free"
// @Success 202 {object} response.Envelope{data=models.StartResponse}
// @Failure 400 {object} middleware.ErrorResponse "Invalid segment, empty message or no bot token"
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /broadcasts [post]
func (h *BroadcastHandler) Start(c *gin.Context) {
	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	res, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Accepted(c, "Broadcast started", res)
}

// @Summary Broadcast progress
// @Tags broadcasts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope{data=models.Job}
// @Failure 404 {object} middleware.ErrorResponse "Unknown job"
// @Router /broadcasts/{id} [get]
func (h *BroadcastHandler) Get(c *gin.Context) {
	job, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", job)
}
