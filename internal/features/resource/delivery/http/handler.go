package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/resource/models"
	"kaliroot-admin/internal/features/resource/service"
)

type ResourceHandler struct {
	service service.ResourceService
}

func NewResourceHandler(service service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: service}
}

func (h *ResourceHandler) RegisterRoutes(router *gin.RouterGroup) {
	resources := router.Group("/resources")
	{
		resources.GET("", h.List)
		resources.POST("", h.Create)
		resources.PUT("/:id", h.Update)
		resources.DELETE("/:id", h.Delete)
		resources.GET("/link", h.Link)
	}
}

// @Summary List download resources
// @Description Newest first. When the table is missing the response carries table_missing and a notice.
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=models.ResourceList}
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, res.Notice, res)
}

// @Summary Create resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param resource body models.ResourceInput true "Resource"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} middleware.ErrorResponse "Title and Drive ID are required"
// @Router /resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	var input models.ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	input.ID = 0
	if _, err := h.service.Save(c.Request.Context(), input); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "Resource created", nil)
}

// @Summary Update resource
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Param resource body models.ResourceInput true "Resource"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} middleware.ErrorResponse "Title and Drive ID are required"
// @Router /resources/{id} [put]
func (h *ResourceHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, errors.NewValidationError("id", "invalid resource ID format"))
		return
	}
	var input models.ResourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Fail(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Invalid request body"))
		return
	}
	input.ID = id
	if _, err := h.service.Save(c.Request.Context(), input); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Resource updated", nil)
}

// @Summary Delete resource
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} response.Envelope
// @Router /resources/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Fail(c, errors.NewValidationError("id", "invalid resource ID format"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "Resource deleted", nil)
}

// @Summary Download link
// @Description Direct download URL for a Drive file id or share link.
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param drive_id query string true "Drive file id or share link"
// @Success 200 {object} response.Envelope
// @Router /resources/link [get]
func (h *ResourceHandler) Link(c *gin.Context) {
	link, err := h.service.Link(c.Query("drive_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", gin.H{"url": link})
}
