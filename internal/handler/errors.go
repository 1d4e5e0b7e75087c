package handler

import (
	"errors"
	"net/http"

	"catalogbooking/internal/apperror"
	"catalogbooking/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError writes the envelope for a service error and records the
// error on the context for the request logger.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)
	msg := err.Error()

	var appErr *apperror.Error
	switch {
	case kind == apperror.KindTransientStoreFailure:
		msg = "service temporarily unavailable, please retry"
	case status >= http.StatusInternalServerError:
		msg = "internal server error"
	case errors.As(err, &appErr) && appErr.Message != "":
		msg = appErr.Message
	}

	c.JSON(status, response.ErrorWithCode(status, string(kind), msg))
}

func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, response.ErrorWithCode(http.StatusBadRequest, string(apperror.KindInvalidInput), "Invalid request payload: "+err.Error()))
}
