package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/application/datamanager"
	syncapp "github.com/storefront/backend/internal/application/sync"
)

// DataManagerHandler serves the admin data-manager surface: snapshot
// files and the auto-update trigger.
type DataManagerHandler struct {
	BaseHandler
	files      *datamanager.FileService
	autoUpdate *syncapp.AutoUpdateService
}

// NewDataManagerHandler creates a new DataManagerHandler
func NewDataManagerHandler(files *datamanager.FileService, autoUpdate *syncapp.AutoUpdateService) *DataManagerHandler {
	return &DataManagerHandler{files: files, autoUpdate: autoUpdate}
}

// RegisterRoutes registers data-manager routes
func (h *DataManagerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dm := rg.Group("/data-manager")
	{
		dm.GET("/files", h.ListFiles)
		dm.DELETE("/files", h.DeleteFile)
		dm.POST("/files/export", h.ExportFile)
		dm.POST("/auto-update", h.RunAutoUpdate)
		dm.GET("/auto-update/status", h.AutoUpdateStatus)
	}
}

// ListFiles handles GET /data-manager/files?dataSource=local|cloud
func (h *DataManagerHandler) ListFiles(c *gin.Context) {
	files, err := h.files.List(c.Request.Context(), c.Query("dataSource"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, files)
}

// DeleteFile handles DELETE /data-manager/files?dataSource=&name=
func (h *DataManagerHandler) DeleteFile(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.BadRequest(c, "The name query parameter is required")
		return
	}
	if err := h.files.Delete(c.Request.Context(), c.Query("dataSource"), name); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": true})
}

// exportRequest is the body of POST /data-manager/files/export
type exportRequest struct {
	Table string `json:"table" binding:"required"`
}

// ExportFile handles POST /data-manager/files/export
func (h *DataManagerHandler) ExportFile(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "A table name is required")
		return
	}
	file, err := h.files.Export(c.Request.Context(), req.Table)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, file)
}

// RunAutoUpdate handles POST /data-manager/auto-update. A run already
// in flight yields 409.
func (h *DataManagerHandler) RunAutoUpdate(c *gin.Context) {
	result, err := h.autoUpdate.Run(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// AutoUpdateStatus handles GET /data-manager/auto-update/status
func (h *DataManagerHandler) AutoUpdateStatus(c *gin.Context) {
	h.Success(c, h.autoUpdate.Status())
}
