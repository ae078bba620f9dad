package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"kaliroot-admin/internal/common/middleware"
	"kaliroot-admin/internal/common/response"
	"kaliroot-admin/internal/features/export/service"
)

type ExportHandler struct {
	service service.ExportService
}

func NewExportHandler(service service.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	export := router.Group("/export")
	{
		export.GET("/users.csv", h.UsersCSV)
		export.GET("/env", h.EnvFile)
	}
}

func attachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// @Summary Export users
// @Description Every user as CSV, all values quoted.
// @Tags export
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} file "kaliroot_users_YYYY-MM-DD.csv"
// @Failure 400 {object} middleware.ErrorResponse "No data to export"
// @Router /export/users.csv [get]
func (h *ExportHandler) UsersCSV(c *gin.Context) {
	data, filename, err := h.service.UsersCSV(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	attachment(c, filename, "text/csv; charset=utf-8", data)
}

// @Summary Export env file
// @Description The credentials in use as a .env file for the bot.
// @Tags export
// @Produce plain
// @Security BearerAuth
// @Success 200 {file} file ".env"
// @Router /export/env [get]
func (h *ExportHandler) EnvFile(c *gin.Context) {
	out, err := h.service.EnvFile(middleware.CredentialsFrom(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	attachment(c, ".env", "text/plain; charset=utf-8", []byte(out))
}
