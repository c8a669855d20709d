package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/services"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// TaskController handles circle tasks
type TaskController struct {
	taskService services.TaskService
}

// NewTaskController creates a new TaskController
func NewTaskController(taskService services.TaskService) *TaskController {
	return &TaskController{
		taskService: taskService,
	}
}

// CreateTask godoc
// @Summary Create a task
// @Description due_date accepts ISO 8601 or "YYYY-MM-DD HH:MM:SS"
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task data"
// @Success 201 {object} dto.TaskCreatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	resp, err := c.taskService.CreateTask(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListCircleTasks godoc
// @Summary Tasks of a circle
// @Tags tasks
// @Produce json
// @Param id path int true "Circle ID"
// @Success 200 {array} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/tasks [get]
func (c *TaskController) ListCircleTasks(ctx *gin.Context) {
	circleID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	tasks, err := c.taskService.ListByCircle(ctx.Request.Context(), circleID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tasks)
}

// CompleteTask godoc
// @Summary Mark a task completed
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param request body dto.CompleteTaskRequest true "Acting user"
// @Success 200 {object} dto.SuccessResponse "Task already completed"
// @Success 201 {object} dto.SuccessResponse "Task completed"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/complete [post]
func (c *TaskController) CompleteTask(ctx *gin.Context) {
	taskID, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CompleteTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	completed, err := c.taskService.CompleteTask(ctx.Request.Context(), taskID, req.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !completed {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Task already completed"))
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Task completed"))
}
