package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"geoatlas/internal/application"
	repo "geoatlas/internal/domain/repository"
	"geoatlas/internal/interface/middleware"
	"geoatlas/pkg/response"
)

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserIDKey)
}

// writeError maps service-layer failures onto the wire: field-keyed
// validation maps become 400, missing rows 404, database uniqueness races
// 409, everything else 500. Rows owned by other users never reach here as
// anything but repo.ErrNotFound.
func writeError(c *gin.Context, err error) {
	var fieldErrs application.FieldErrors
	if errors.As(err, &fieldErrs) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", fieldErrs)
		return
	}
	var bulkErrs application.BulkErrors
	if errors.As(err, &bulkErrs) {
		response.Error[any](c, http.StatusBadRequest, "validation failed", bulkErrs)
		return
	}
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, repo.ErrConflict):
		response.Error[any](c, http.StatusConflict, "conflict", err.Error())
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
