package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "currentUser"
)

// AuthMiddleware verifies the bearer token and stores the caller's ID.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "No token provided")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			respondError(c, err)
			return
		}
		userID, err := claims.ObjectID()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// RoleMiddleware loads the caller and admits only accounts holding role.
// Must run AFTER AuthMiddleware.
func RoleMiddleware(users repository.UserRepository, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := getUserIDFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		// The stored role wins over the token claim, so role changes apply
		// before the token expires.
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortWithError(c, http.StatusNotFound, "User not found")
				return
			}
			respondError(c, err)
			return
		}

		if !user.Role.Matches(role) {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied. %ss only.", role))
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// currentUser returns the account resolved by RoleMiddleware.
func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ContextUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
