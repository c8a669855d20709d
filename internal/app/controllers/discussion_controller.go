package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// DiscussionController handles resource comments and circle chat
type DiscussionController struct {
	commentService services.CommentService
	messageService services.MessageService
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(commentService services.CommentService, messageService services.MessageService) *DiscussionController {
	return &DiscussionController{
		commentService: commentService,
		messageService: messageService,
	}
}

// CreateComment godoc
// @Summary Comment on a resource
// @Tags comments
// @Accept json
// @Produce json
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.PostedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /comments [post]
func (c *DiscussionController) CreateComment(ctx *gin.Context) {
	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.commentService.CreateComment(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListResourceComments godoc
// @Summary Comments on a resource, newest first
// @Tags comments
// @Produce json
// @Param id path int true "Resource ID"
// @Success 200 {array} dto.AuthoredTextResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /resources/{id}/comments [get]
func (c *DiscussionController) ListResourceComments(ctx *gin.Context) {
	resourceID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	comments, err := c.commentService.ListByResource(ctx.Request.Context(), resourceID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, comments)
}

// ListCircleMessages godoc
// @Summary Chat history of a circle, oldest first
// @Tags messages
// @Produce json
// @Param id path int true "Circle ID"
// @Success 200 {array} dto.AuthoredTextResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/messages [get]
func (c *DiscussionController) ListCircleMessages(ctx *gin.Context) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	messages, err := c.messageService.ListByCircle(ctx.Request.Context(), circleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, messages)
}

// PostCircleMessage godoc
// @Summary Post a chat message
// @Description The message is also pushed to websocket subscribers of the circle
// @Tags messages
// @Accept json
// @Produce json
// @Param id path int true "Circle ID"
// @Param request body dto.CreateMessageRequest true "Message"
// @Success 201 {object} dto.PostedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/messages [post]
func (c *DiscussionController) PostCircleMessage(ctx *gin.Context) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.messageService.PostMessage(ctx.Request.Context(), circleID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}
