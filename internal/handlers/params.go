package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/project-management-api/internal/errors"
)

// FieldError names a request field that failed binding validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// parseIDParam reads a positive numeric path parameter, answering 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into req. Validation failures answer 400
// listing the offending fields; malformed bodies answer a plain 400.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		apierrors.BadRequestWithDetails(c, "Invalid request body", details)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}
