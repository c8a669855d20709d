package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// UserController handles user profiles
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetProfile godoc
// @Summary User profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.ProfileResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.writeProfile(ctx, userID)
}

// GetMe godoc
// @Summary Profile of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.writeProfile(ctx, userID)
}

func (c *UserController) writeProfile(ctx *gin.Context, userID int64) {
	profile, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetPointsHistory godoc
// @Summary Points ledger of a user, newest first
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} dto.PointsHistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/points-history [get]
func (c *UserController) GetPointsHistory(ctx *gin.Context) {
	userID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	history, err := c.userService.GetPointsHistory(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, history)
}
