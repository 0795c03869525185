package handler

import (
	"net/http"

	"github.com/gestio-app/gestio/internal/constants"
	apperrors "github.com/gestio-app/gestio/internal/errors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the standard error body and the
// status code of its domain code. Non-domain errors collapse into a 500
// with a generic message so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	status := apperrors.ToHTTPStatus(err)
	message := apperrors.GetErrorMessage(err)
	if status == http.StatusInternalServerError && !apperrors.IsDomainError(err) {
		message = constants.MsgInternalError
	}
	c.JSON(status, constants.BuildErrorResponse(message, ""))
}

// respondBindingError reports a request-body validation failure.
func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest,
		constants.BuildErrorResponse(constants.MsgBadRequest, err.Error()))
}
