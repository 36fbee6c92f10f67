package api

import (
	"fmt"
	"net/http"

	"fitnesshub/fitness-api/internal/logging"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// --- DTOs ---

type UpdateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
	Role  *string `json:"role"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type AssignTrainerRequest struct {
	UserID    string `json:"userId" binding:"required"`
	TrainerID string `json:"trainerId" binding:"required"`
}

// userQueryFrom reads the listing query parameters shared with the user surface.
func userQueryFrom(c *gin.Context) service.UserQuery {
	return service.UserQuery{
		Page:   c.Query("page"),
		Limit:  c.Query("limit"),
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}
}

// listUsers answers a paginated user listing.
func listUsers(c *gin.Context, list func(*gin.Context, service.UserQuery) (*service.UserPage, error)) {
	page, err := list(c, userQueryFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       mapUsers(page.Users),
		"pagination": page.Pagination,
	})
}

// ListUsers godoc
// @Summary List users
// @Description Newest first. search matches name or email, case-insensitive.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Param role query string false "Admin, Trainer or User"
// @Param search query string false "Substring of name or email"
// @Success 200 {object} gin.H "success, data, pagination"
// @Failure 400 {object} gin.H "Invalid page, limit or role"
// @Router /admin/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	listUsers(c, func(c *gin.Context, q service.UserQuery) (*service.UserPage, error) {
		return h.adminService.ListUsers(c.Request.Context(), q)
	})
}

// UpdateUser godoc
// @Summary Partially update a user's name, email or role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "Fields to change"
// @Success 200 {object} gin.H "User updated successfully."
// @Failure 400 {object} gin.H "Invalid input or email already in use"
// @Failure 404 {object} gin.H "User not found."
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), id, service.UserChanges{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully.", "user": MapUserToResponse(user)})
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Hard delete. Documents referencing the user are kept.
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} gin.H "User deleted successfully."
// @Failure 404 {object} gin.H "User not found."
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).WithField("user_id", id.Hex()).Info("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully."})
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role body ChangeRoleRequest true "New role"
// @Success 200 {object} gin.H "Role updated"
// @Failure 400 {object} gin.H "Invalid role provided."
// @Failure 404 {object} gin.H "User not found."
// @Router /admin/users/{id}/role [patch]
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.adminService.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User role updated to '%s' successfully.", user.Role),
		"user":    MapUserToResponse(user),
	})
}

// AssignTrainer godoc
// @Summary Assign a trainer to a user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param assignment body AssignTrainerRequest true "User and trainer IDs"
// @Success 200 {object} gin.H "Trainer assigned successfully"
// @Failure 404 {object} gin.H "User or trainer not found"
// @Router /admin/assign-trainer [put]
func (h *AdminHandler) AssignTrainer(c *gin.Context) {
	var req AssignTrainerRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, err := service.ParseID("user ID", req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	trainerID, err := service.ParseID("trainer ID", req.TrainerID)
	if err != nil {
		respondError(c, err)
		return
	}

	user, trainer, err := h.adminService.AssignTrainer(c.Request.Context(), userID, trainerID)
	if err != nil {
		respondError(c, err)
		return
	}

	logging.FromContext(c).WithField("user_id", userID.Hex()).WithField("trainer_id", trainerID.Hex()).Info("trainer assigned")
	c.JSON(http.StatusOK, gin.H{
		"message": "Trainer assigned successfully",
		"user":    MapUserToResponse(user),
		"trainer": MapUserToResponse(trainer),
	})
}

// RemoveTrainer godoc
// @Summary Remove a user's trainer
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} gin.H "Trainer removed successfully"
// @Failure 400 {object} gin.H "No trainer assigned to this user"
// @Failure 404 {object} gin.H "User not found or is not a client"
// @Router /admin/remove-trainer/{userId} [put]
func (h *AdminHandler) RemoveTrainer(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.adminService.RemoveTrainer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trainer removed successfully", "user": MapUserToResponse(user)})
}

// ListUsersWithTrainers godoc
// @Summary List clients with their trainer
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "success, data"
// @Router /admin/users-with-trainers [get]
func (h *AdminHandler) ListUsersWithTrainers(c *gin.Context) {
	users, err := h.adminService.ListUsersWithTrainers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": mapUsersWithTrainers(users)})
}
