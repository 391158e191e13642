package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agrimarket/internal/repository"
	"agrimarket/internal/service"
)

// ResourceHandler mantiene dependencias para endpoints de publicaciones.
type ResourceHandler struct {
	logger       *zap.Logger
	resourceServ *service.ResourceService
	uploadServ   *service.UploadService
}

func NewResourceHandler(logger *zap.Logger, resourceServ *service.ResourceService, uploadServ *service.UploadService) *ResourceHandler {
	return &ResourceHandler{
		logger:       logger,
		resourceServ: resourceServ,
		uploadServ:   uploadServ,
	}
}

// List maneja GET /api/resources (público).
func (h *ResourceHandler) List(c *gin.Context) {
	filter := repository.ResourceFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", "newest"),
	}

	listings, err := h.resourceServ.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("list resources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not list resources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": listings})
}

// ListMine maneja GET /api/resources/my.
func (h *ResourceHandler) ListMine(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
		return
	}

	resources, err := h.resourceServ.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list my resources failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not list resources"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": resources})
}

// Create maneja POST /api/resources (multipart: campos de formulario más
// una imagen opcional).
func (h *ResourceHandler) Create(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
		return
	}

	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid price"})
		return
	}
	ageYears, _ := strconv.Atoi(c.DefaultPostForm("age_years", "0"))
	quality, _ := strconv.Atoi(c.DefaultPostForm("quality", "5"))

	imageURL, ok := h.resolveImage(c)
	if !ok {
		return
	}

	resource, err := h.resourceServ.Create(c.Request.Context(), userID, service.CreateResourceInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Price:       price,
		ListingType: c.PostForm("listing_type"),
		Condition:   c.DefaultPostForm("condition", "good"),
		AgeYears:    ageYears,
		Quality:     quality,
		ImageURL:    imageURL,
		Location:    c.PostForm("location"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidResource) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing required fields"})
			return
		}
		h.logger.Error("create resource failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not create resource"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Resource added successfully",
		"resource_id": resource.ID,
	})
}

// resolveImage lee la imagen del formulario (si la hay) y la pasa por el
// resolver de uploads. Devuelve false si ya respondió un error.
func (h *ResourceHandler) resolveImage(c *gin.Context) (string, bool) {
	header, err := c.FormFile("image")
	if err != nil {
		// Sin archivo: el resolver responde con el placeholder.
		url, err := h.uploadServ.Resolve(c.Request.Context(), nil, "", 0, "")
		if err != nil {
			h.logger.Error("resolve placeholder failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not store image"})
			return "", false
		}
		return url, true
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("open upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not read image"})
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("read upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not read image"})
		return "", false
	}

	url, err := h.uploadServ.Resolve(
		c.Request.Context(),
		data,
		header.Header.Get("Content-Type"),
		header.Size,
		header.Filename,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPayloadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "message": "image too large"})
		case errors.Is(err, service.ErrUnsupportedMediaType):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"success": false, "message": "only image uploads are allowed"})
		case errors.Is(err, service.ErrStorageMisconfigured):
			h.logger.Error("object storage misconfigured", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "storage unavailable"})
		case errors.Is(err, service.ErrUploadFailed), errors.Is(err, service.ErrNoStorageAvailable):
			h.logger.Error("image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not store image"})
		default:
			h.logger.Error("image upload failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not store image"})
		}
		return "", false
	}
	return url, true
}

// Update maneja PUT /api/resources/:id.
func (h *ResourceHandler) Update(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid resource id"})
		return
	}

	var req struct {
		IsAvailable *bool    `json:"is_available"`
		Price       *float64 `json:"price"`
		Description *string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	err = h.resourceServ.Update(c.Request.Context(), userID, id, service.ResourceUpdate{
		IsAvailable: req.IsAvailable,
		Price:       req.Price,
		Description: req.Description,
	})
	if !h.respondMutation(c, err, "Resource updated successfully", "could not update resource") {
		return
	}
}

// Delete maneja DELETE /api/resources/:id.
func (h *ResourceHandler) Delete(c *gin.Context) {
	userID, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid resource id"})
		return
	}

	err = h.resourceServ.Delete(c.Request.Context(), userID, id)
	if !h.respondMutation(c, err, "Resource deleted successfully", "could not delete resource") {
		return
	}
}

func (h *ResourceHandler) respondMutation(c *gin.Context, err error, okMsg, failMsg string) bool {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": okMsg})
		return true
	case errors.Is(err, service.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Resource not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Unauthorized"})
	default:
		h.logger.Error("resource mutation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": failMsg})
	}
	return false
}
