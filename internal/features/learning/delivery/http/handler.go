package http

import (
	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/learning/service"
)

type LearningHandler struct {
	service service.LearningService
}

func NewLearningHandler(service service.LearningService) *LearningHandler {
	return &LearningHandler{service: service}
}

func (h *LearningHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/learning", h.Completions)
	router.GET("/badges", h.Badges)
}

// @Summary Completed learning modules
// @Description The 100 most recent module completions.
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.ModuleCompletion}
// @Router /learning [get]
func (h *LearningHandler) Completions(c *gin.Context) {
	out, err := h.service.Completions(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", out)
}

// @Summary Badges
// @Tags learning
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Badge}
// @Router /badges [get]
func (h *LearningHandler) Badges(c *gin.Context) {
	out, err := h.service.Badges(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", out)
}
