package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/models"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// TaskService defines task operations
type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskCreatedResponse, error)
	ListByCircle(ctx context.Context, circleID int64) ([]dto.TaskResponse, error)
	// CompleteTask reports whether this call recorded a new completion
	CompleteTask(ctx context.Context, taskID, userID int64) (bool, error)
}

type taskServiceImpl struct {
	taskRepo      repositories.ITaskRepository
	circleRepo    repositories.ICircleRepository
	pointsService PointsService
	logger        zerolog.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repositories.ITaskRepository,
	circleRepo repositories.ICircleRepository,
	pointsService PointsService,
	logger zerolog.Logger,
) TaskService {
	return &taskServiceImpl{
		taskRepo:      taskRepo,
		circleRepo:    circleRepo,
		pointsService: pointsService,
		logger:        logger,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*dto.TaskCreatedResponse, error) {
	due, err := helpers.ParseDueDate(req.DueDate)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Rejected task due date")
		return nil, err
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		CircleID:    req.CircleID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, referenceError(err, fmt.Sprintf("circle_id %d does not exist", req.CircleID))
	}

	s.logger.Info().Int64("taskID", task.ID).Int64("circleID", task.CircleID).Msg("Task created")

	resp := dto.ToTaskCreatedResponse(task)
	return &resp, nil
}

func (s *taskServiceImpl) ListByCircle(ctx context.Context, circleID int64) ([]dto.TaskResponse, error) {
	if _, err := s.circleRepo.GetByID(ctx, circleID); err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}
	return dto.ToTaskList(tasks), nil
}

func (s *taskServiceImpl) CompleteTask(ctx context.Context, taskID, userID int64) (bool, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return false, err
	}

	done, err := s.taskRepo.CompletionExists(ctx, taskID, userID)
	if err != nil {
		return false, err
	}
	if done {
		return false, nil
	}

	completion := &models.TaskCompletion{TaskID: taskID, UserID: userID}
	if err := s.taskRepo.CreateCompletion(ctx, completion); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCompleted) {
			return false, nil
		}
		return false, referenceError(err, fmt.Sprintf("user_id %d does not exist", userID))
	}

	circle, err := s.circleRepo.GetByID(ctx, task.CircleID)
	if err != nil {
		s.logger.Error().Err(err).Int64("taskID", taskID).Msg("Failed to load circle for completion award")
		return true, nil
	}
	s.pointsService.AwardBestEffort(ctx, circle.CreatorID, models.PointsTaskCompleted,
		fmt.Sprintf("Student completed task %q", task.Title))

	return true, nil
}
