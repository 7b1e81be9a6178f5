package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Fail writes a structured error body. Only the category message leaves the
// service; storage internals stay in the logs.
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"error": msg})
}

// FailErr maps a service error to its HTTP status. err.Error() on wrapped
// sentinel errors carries the client-safe detail (e.g. "validation failed:
// channel name is required"); ErrPersistence is replaced with a generic body.
func FailErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		Fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		Fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		Fail(c, http.StatusConflict, err.Error())
	default:
		Fail(c, http.StatusInternalServerError, "internal error")
	}
}
