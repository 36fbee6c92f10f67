package api

import (
	"errors"
	"net/http"

	"fitnesshub/fitness-api/internal/logging"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"message": message})
}

// statusFor maps a service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"message": ...}. Unclassified errors are logged
// and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		abortWithError(c, statusFor(svcErr), svcErr.Message)
		return
	}

	logging.FromContext(c).WithError(err).Error("unhandled error")
	abortWithError(c, http.StatusInternalServerError, "Server error")
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// pathID parses the named path parameter as an ObjectID, answering 400 on failure.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := service.ParseID(name, c.Param(name))
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}
