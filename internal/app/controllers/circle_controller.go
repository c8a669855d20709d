package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// CircleController handles the circle directory and memberships
type CircleController struct {
	circleService services.CircleService
}

// NewCircleController creates a new CircleController
func NewCircleController(circleService services.CircleService) *CircleController {
	return &CircleController{
		circleService: circleService,
	}
}

// ListCircles godoc
// @Summary List public circles
// @Description Public circles ordered by id. search matches title, tags or description as a case-insensitive substring.
// @Tags circles
// @Produce json
// @Param search query string false "Substring to look for"
// @Success 200 {array} dto.CircleDetailResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /circles [get]
func (c *CircleController) ListCircles(ctx *gin.Context) {
	circles, err := c.circleService.ListPublic(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, circles)
}

// CreateCircle godoc
// @Summary Create a circle
// @Tags circles
// @Accept json
// @Produce json
// @Param request body dto.CreateCircleRequest true "Circle data"
// @Success 201 {object} dto.CircleResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or unknown creator"
// @Router /circles [post]
func (c *CircleController) CreateCircle(ctx *gin.Context) {
	var req dto.CreateCircleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.circleService.CreateCircle(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetCircle godoc
// @Summary Get a circle
// @Description Works for private circles too
// @Tags circles
// @Produce json
// @Param id path int true "Circle ID"
// @Success 200 {object} dto.CircleDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id} [get]
func (c *CircleController) GetCircle(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.circleService.GetCircle(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteCircle godoc
// @Summary Delete a circle
// @Description Only the circle's creator may delete it. Resources, tasks, memberships and messages go with it.
// @Tags circles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id} [delete]
func (c *CircleController) DeleteCircle(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.circleService.DeleteCircle(ctx.Request.Context(), id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Circle deleted"))
}

// JoinCircle godoc
// @Summary Join a circle
// @Tags membership
// @Accept json
// @Produce json
// @Param id path int true "Circle ID"
// @Param request body dto.MembershipRequest true "Acting user"
// @Success 200 {object} dto.SuccessResponse "Already a member"
// @Success 201 {object} dto.SuccessResponse "Joined successfully"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/join [post]
func (c *CircleController) JoinCircle(ctx *gin.Context) {
	circleID, req, ok := bindMembership(ctx)
	if !ok {
		return
	}

	joined, err := c.circleService.Join(ctx.Request.Context(), circleID, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !joined {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Already a member"))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Joined successfully"))
}

// FollowCircle godoc
// @Summary Follow a circle
// @Tags membership
// @Accept json
// @Produce json
// @Param id path int true "Circle ID"
// @Param request body dto.MembershipRequest true "Acting user"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/follow [post]
func (c *CircleController) FollowCircle(ctx *gin.Context) {
	circleID, req, ok := bindMembership(ctx)
	if !ok {
		return
	}

	if err := c.circleService.Follow(ctx.Request.Context(), circleID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Following successfully"))
}

// UnfollowCircle godoc
// @Summary Unfollow a circle
// @Description Clears the follow flag and drops the membership row if the user is not a member either
// @Tags membership
// @Accept json
// @Produce json
// @Param id path int true "Circle ID"
// @Param request body dto.MembershipRequest true "Acting user"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/unfollow [post]
func (c *CircleController) UnfollowCircle(ctx *gin.Context) {
	circleID, req, ok := bindMembership(ctx)
	if !ok {
		return
	}

	if err := c.circleService.Unfollow(ctx.Request.Context(), circleID, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Unfollowed successfully"))
}

// GetMembership godoc
// @Summary Membership state of a user in a circle
// @Tags membership
// @Produce json
// @Param id path int true "Circle ID"
// @Param user_id query int true "User ID"
// @Success 200 {object} dto.MembershipResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/membership [get]
func (c *CircleController) GetMembership(ctx *gin.Context) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	userID, err := helpers.ParseIDQuery(ctx, "user_id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.circleService.Membership(ctx.Request.Context(), circleID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

func bindMembership(ctx *gin.Context) (int64, *dto.MembershipRequest, bool) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return 0, nil, false
	}

	var req dto.MembershipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return 0, nil, false
	}
	return circleID, &req, true
}
