package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/middleware"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/dashboard/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(service service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/overview", h.Overview)
	router.GET("/sections", h.Sections)
	router.GET("/sections/:section", h.Section)
}

// cacheScope keys cached stats by session, or by auth method for the
// static credentials.
func cacheScope(c *gin.Context) string {
	if sid := c.GetString(middleware.ContextSessionID); sid != "" {
		return sid
	}
	return "static"
}

// @Summary Overview
// @Description Users, premium users, total credits, resources and the 10 latest audit entries.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "Bypass the stats cache"
// @Success 200 {object} response.Envelope{data=models.Overview}
// @Failure 502 {object} middleware.ErrorResponse "Backend error"
// @Router /overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	res, err := h.service.Overview(c.Request.Context(), cacheScope(c), refresh)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}

// @Summary Sections
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope{data=[]models.Section}
// @Router /sections [get]
func (h *DashboardHandler) Sections(c *gin.Context) {
	response.OK(c, "", h.service.Sections())
}

// @Summary Refresh a section
// @Description Loads the data of one section. Unknown sections load the overview.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param section path string true "overview, users, subscriptions, resources, learning, badges or audit"
// @Param q query string false "User search"
// @Param page query int false "Users page"
// @Param filter query string false "Subscription filter"
// @Param event_type query string false "Audit event type"
// @Success 200 {object} response.Envelope{data=models.SectionView}
// @Router /sections/{section} [get]
func (h *DashboardHandler) Section(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	res, err := h.service.Section(c.Request.Context(), cacheScope(c), c.Param("section"), service.SectionParams{
		Search:       c.Query("q"),
		Page:         page,
		Filter:       c.Query("filter"),
		EventType:    c.Query("event_type"),
		RefreshStats: true,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "", res)
}
