package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/app/models/dto"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
	"github.com/yigit/learncircle/internal/pkg/filestorage"
	"github.com/yigit/learncircle/internal/pkg/logger"
)

// DueDateFormatsMessage is returned for any due_date that cannot be parsed
const DueDateFormatsMessage = "Invalid due_date format. Use ISO 8601 (e.g. 2025-05-01T18:00:00) or YYYY-MM-DD HH:MM:SS"

// HandleAPIError maps service and repository errors onto HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

// HandleBindingError responds 400 with field-level messages from gin binding
func HandleBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Username already exists").WithField("username")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Email already exists").WithField("email")
	case errors.Is(err, apperrors.ErrInvalidDueDate):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, DueDateFormatsMessage).WithField("due_date")
	case errors.Is(err, apperrors.ErrFileMissing), errors.Is(err, filestorage.ErrUnsafeFilename):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "No file provided").WithField("file")
	case errors.Is(err, apperrors.ErrInvalidReference):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			apperrors.ClientMessage(err, "Referenced entity does not exist"))
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed,
			apperrors.ClientMessage(err, "Validation failed"))

	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token has expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")

	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden,
			apperrors.ClientMessage(err, "Permission denied"))

	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrCircleNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Circle not found")
	case errors.Is(err, apperrors.ErrLearningResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrTaskNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Task not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound,
			apperrors.ClientMessage(err, "Not found"))

	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}
