package http

import (
	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/audit/service"
)

type AuditHandler struct {
	service service.AuditService
}

func NewAuditHandler(service service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit", h.Log)
}

// @Summary Audit log
// @Description The 100 latest entries, optionally of one event type.
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param event_type query string false "Event type or all"
// @Success 200 {object} response.Envelope{data=[]models.EntryResponse}
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /audit [get]
func (h *AuditHandler) Log(c *gin.Context) {
	entries, err := h.service.Log(c.Request.Context(), c.Query("event_type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", entries)
}
