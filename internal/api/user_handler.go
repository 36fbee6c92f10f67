package api

import (
	"net/http"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// --- DTOs ---

type UpdateProfileRequest struct {
	Age    *int     `json:"age"`
	Gender *string  `json:"gender"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`
}

type BookAppointmentRequest struct {
	TrainerID string `json:"trainerId"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

type AddMealRequest struct {
	MealType  string            `json:"mealType" binding:"required"`
	FoodItems []domain.FoodItem `json:"foodItems" binding:"dive"`
}

// ListUsers godoc
// @Summary List users
// @Description Same filters and pagination as the admin listing.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Param role query string false "Admin, Trainer or User"
// @Param search query string false "Substring of name or email"
// @Success 200 {object} gin.H "success, data, pagination"
// @Router /user/user/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	listUsers(c, func(c *gin.Context, q service.UserQuery) (*service.UserPage, error) {
		return h.userService.ListUsers(c.Request.Context(), q)
	})
}

// UpdateProfile godoc
// @Summary Update own profile details
// @Description Only the provided fields change.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} gin.H "Profile updated successfully."
// @Failure 400 {object} gin.H "Invalid gender value."
// @Router /user/update-profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUser(c).ID, service.ProfileChanges{
		Age:    req.Age,
		Gender: req.Gender,
		Weight: req.Weight,
		Height: req.Height,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "profile": user.ProfileDetails})
}

// GetProfile godoc
// @Summary Own profile
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "profile"
// @Router /user/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": mapProfile(user)})
}

// ListWorkoutPlans godoc
// @Summary Workout plans assigned to the caller
// @Description Always an array, empty when nothing is assigned.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "workoutPlan"
// @Router /user/workout-plan [get]
func (h *UserHandler) ListWorkoutPlans(c *gin.Context) {
	plans, err := h.userService.ListWorkoutPlans(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workoutPlan": plans})
}

// BookAppointment godoc
// @Summary Book an appointment with a trainer
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param booking body BookAppointmentRequest true "trainerId and date (RFC3339 or YYYY-MM-DD)"
// @Success 201 {object} gin.H "Appointment booked successfully!"
// @Failure 400 {object} gin.H "Trainer ID and date are required."
// @Failure 404 {object} gin.H "Trainer not found"
// @Router /user/book [post]
func (h *UserHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.userService.BookAppointment(c.Request.Context(), currentUser(c).ID, service.BookingRequest{
		TrainerID: req.TrainerID,
		Date:      req.Date,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully!", "appointment": appt})
}

// ListAppointments godoc
// @Summary Own appointments, ordered by date
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "appointments"
// @Router /user/my-appointments [get]
func (h *UserHandler) ListAppointments(c *gin.Context) {
	appts, err := h.userService.ListAppointments(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// CancelAppointment godoc
// @Summary Cancel a pending appointment
// @Tags User
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} gin.H "Appointment canceled successfully."
// @Failure 400 {object} gin.H "Only pending appointments can be canceled."
// @Failure 403 {object} gin.H "Not the owner"
// @Failure 404 {object} gin.H "Appointment not found."
// @Router /user/cancel/{id} [delete]
func (h *UserHandler) CancelAppointment(c *gin.Context) {
	apptID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.CancelAppointment(c.Request.Context(), currentUser(c).ID, apptID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment canceled successfully."})
}

// AddMeal godoc
// @Summary Log a meal for today
// @Description Meals are grouped per user, trainer and UTC day.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param meal body AddMealRequest true "Meal"
// @Success 200 {object} gin.H "Meal added successfully"
// @Failure 400 {object} gin.H "Invalid meal"
// @Router /user/add-meal [post]
func (h *UserHandler) AddMeal(c *gin.Context) {
	var req AddMealRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.userService.AddMeal(c.Request.Context(), currentUser(c), req.MealType, req.FoodItems)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal added successfully", "mealEntry": plan})
}

// ListMeals godoc
// @Summary Own nutrition history, newest day first
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "meals"
// @Router /user/my-meals [get]
func (h *UserHandler) ListMeals(c *gin.Context) {
	meals, err := h.userService.ListMeals(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// DeleteMeal godoc
// @Summary Delete a day's nutrition entry
// @Tags User
// @Security BearerAuth
// @Param mealId path string true "Nutrition plan ID"
// @Success 200 {object} gin.H "Meal deleted successfully"
// @Failure 403 {object} gin.H "Unauthorized to delete this meal"
// @Failure 404 {object} gin.H "Meal not found"
// @Router /user/delete-meal/{mealId} [delete]
func (h *UserHandler) DeleteMeal(c *gin.Context) {
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	if err := h.userService.DeleteMeal(c.Request.Context(), currentUser(c).ID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal deleted successfully"})
}
