package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// ResourceController handles learning resources, uploads and view counting
type ResourceController struct {
	resourceService services.ResourceService
	maxUploadBytes  int64
}

// NewResourceController creates a new ResourceController
func NewResourceController(resourceService services.ResourceService, maxUploadBytes int64) *ResourceController {
	return &ResourceController{
		resourceService: resourceService,
		maxUploadBytes:  maxUploadBytes,
	}
}

// CreateResource godoc
// @Summary Share a resource by reference
// @Tags resources
// @Accept json
// @Produce json
// @Param request body dto.CreateResourceRequest true "Resource data"
// @Success 201 {object} dto.ResourceCreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /resources [post]
func (c *ResourceController) CreateResource(ctx *gin.Context) {
	var req dto.CreateResourceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.resourceService.CreateResource(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// UploadResource godoc
// @Summary Upload a file as a resource
// @Description The file is stored under a sanitized name. Uploading the same name again replaces the file.
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param title formData string true "Title"
// @Param circle_id formData int true "Circle ID"
// @Param creator_id formData int true "Creator user ID"
// @Success 201 {object} dto.ResourceUploadedResponse
// @Failure 400 {object} dto.ErrorResponse "No file, unusable filename, too large or invalid fields"
// @Router /resources/upload [post]
func (c *ResourceController) UploadResource(ctx *gin.Context) {
	if c.maxUploadBytes > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError(
				fmt.Sprintf("upload exceeds the %d byte limit", tooLarge.Limit)))
			return
		}
		middleware.HandleAPIError(ctx, apperrors.ErrFileMissing)
		return
	}

	var form dto.UploadResourceForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.resourceService.UploadResource(ctx.Request.Context(), services.UploadResourceInput{
		Title:     form.Title,
		CircleID:  form.CircleID,
		CreatorID: form.CreatorID,
	}, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListCircleResources godoc
// @Summary Resources of a circle
// @Tags resources
// @Produce json
// @Param id path int true "Circle ID"
// @Success 200 {array} dto.ResourceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/resources [get]
func (c *ResourceController) ListCircleResources(ctx *gin.Context) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resources, err := c.resourceService.ListByCircle(ctx.Request.Context(), circleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resources)
}

// ViewResource godoc
// @Summary Count a view
// @Description Every tenth view pays the resource creator 5 points
// @Tags resources
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {object} dto.ViewCountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /resources/{id}/view [post]
func (c *ResourceController) ViewResource(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	count, err := c.resourceService.RecordView(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ViewCountResponse{ViewCount: count})
}
