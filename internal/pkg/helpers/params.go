package helpers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learncircle/internal/pkg/apperrors"
)

// ParseIDParam reads a positive int64 path parameter.
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	return parsePositiveID(c.Param(name), name)
}

// ParseIDQuery reads a positive int64 query parameter.
func ParseIDQuery(c *gin.Context, name string) (int64, error) {
	return parsePositiveID(c.Query(name), name)
}

func parsePositiveID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}
