package handler

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
	"github.com/storefront/backend/internal/domain/asset"
)

// uploadKinds maps the public upload endpoint names to asset categories
var uploadKinds = map[string]asset.Category{
	"banner-image":           asset.CategoryBanner,
	"main-banner":            asset.CategoryPageAsset,
	"mini-banner":            asset.CategoryMiniBanner,
	"product-image":          asset.CategoryProduct,
	"product-platform-asset": asset.CategoryProductVariant,
	"brand-logo":             asset.CategoryBrandLogo,
	"user-avatar":            asset.CategoryUserAvatar,
}

// UploadHandler handles asset upload and delete endpoints
type UploadHandler struct {
	BaseHandler
	assets *assetapp.Service
	logger *zap.Logger
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(assets *assetapp.Service, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{assets: assets, logger: logger}
}

// RegisterRoutes registers upload routes
func (h *UploadHandler) RegisterRoutes(rg *gin.RouterGroup) {
	uploads := rg.Group("/uploads")
	{
		uploads.POST("/:kind", h.Upload)
		uploads.DELETE("/:kind", h.Delete)
	}
}

// uploadForm carries the identifier fields accompanying the file
type uploadForm struct {
	Name    string `form:"name" binding:"required,assetname,max=128"`
	Variant string `form:"variant" binding:"omitempty,assetname,max=64"`
}

// Upload handles POST /uploads/:kind with a multipart file
func (h *UploadHandler) Upload(c *gin.Context) {
	category, ok := uploadKinds[c.Param("kind")]
	if !ok {
		h.NotFound(c, "Unknown upload kind")
		return
	}

	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		h.BadRequest(c, "A valid name for the uploaded asset is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "Unable to read uploaded file")
		return
	}

	result, err := h.assets.Upload(c.Request.Context(), assetapp.UploadInput{
		Category:      category,
		OwnerKey:      form.Name,
		Disambiguator: form.Variant,
		Ext:           strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."),
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Data:          data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// deleteResult reports the outcome of a best-effort delete
type deleteResult struct {
	Deleted bool `json:"deleted"`
}

// Delete handles DELETE /uploads/:kind?url=. The delete is best-effort:
// an unrecognized or already-gone asset yields deleted=false, not an
// error status.
func (h *UploadHandler) Delete(c *gin.Context) {
	if _, ok := uploadKinds[c.Param("kind")]; !ok {
		h.NotFound(c, "Unknown upload kind")
		return
	}
	rawURL := c.Query("url")
	if rawURL == "" {
		h.BadRequest(c, "The url query parameter is required")
		return
	}

	deleted := h.assets.Delete(c.Request.Context(), rawURL)
	h.Success(c, deleteResult{Deleted: deleted})
}
