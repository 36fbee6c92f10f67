package api

import (
	"net/http"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

type TrainerHandler struct {
	trainerService service.TrainerService
}

func NewTrainerHandler(trainerService service.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

// --- DTOs ---

type CreateWorkoutPlanRequest struct {
	ClientID   string            `json:"clientId" binding:"required"`
	Exercises  []domain.Exercise `json:"exercises" binding:"dive"`
	Suggestion string            `json:"suggestion"`
}

// UpdateWorkoutPlanRequest accepts the suggestion under either key;
// older clients send suggestedExercises.
type UpdateWorkoutPlanRequest struct {
	Exercises          []domain.Exercise `json:"exercises" binding:"dive"`
	Suggestion         string            `json:"suggestion"`
	SuggestedExercises string            `json:"suggestedExercises"`
}

func (r UpdateWorkoutPlanRequest) suggestion() string {
	if r.Suggestion != "" {
		return r.Suggestion
	}
	return r.SuggestedExercises
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Client Management ---

// ListClients godoc
// @Summary List the trainer's assigned clients
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "clients"
// @Router /trainer/clients [get]
func (h *TrainerHandler) ListClients(c *gin.Context) {
	trainer := currentUser(c)
	clients, err := h.trainerService.ListClients(c.Request.Context(), trainer.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": mapProfiles(clients)})
}

// ListClientNutrition godoc
// @Summary Nutrition plans of an assigned client
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Client ID"
// @Success 200 {object} gin.H "nutritionPlans"
// @Failure 403 {object} gin.H "Not assigned to this client"
// @Router /trainer/user-diet/{userId} [get]
func (h *TrainerHandler) ListClientNutrition(c *gin.Context) {
	clientID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	plans, err := h.trainerService.ListClientNutrition(c.Request.Context(), currentUser(c).ID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nutritionPlans": plans})
}

// --- Workout Plans ---

// CreateWorkoutPlan godoc
// @Summary Create a workout plan for an assigned client
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreateWorkoutPlanRequest true "Plan"
// @Success 201 {object} gin.H "Workout plan created successfully"
// @Failure 400 {object} gin.H "Invalid exercises"
// @Failure 403 {object} gin.H "Not assigned to this client"
// @Router /trainer/workout [post]
func (h *TrainerHandler) CreateWorkoutPlan(c *gin.Context) {
	var req CreateWorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}
	clientID, err := service.ParseID("client ID", req.ClientID)
	if err != nil {
		respondError(c, err)
		return
	}

	plan, err := h.trainerService.CreateWorkoutPlan(c.Request.Context(), currentUser(c).ID, clientID, req.Exercises, req.Suggestion)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Workout plan created successfully", "workoutPlan": plan})
}

// ListWorkoutPlans godoc
// @Summary Workout plans of an assigned client
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} gin.H "workoutPlans"
// @Failure 403 {object} gin.H "Not assigned to this client"
// @Router /trainer/{id} [get]
func (h *TrainerHandler) ListWorkoutPlans(c *gin.Context) {
	clientID, ok := pathID(c, "id")
	if !ok {
		return
	}
	plans, err := h.trainerService.ListWorkoutPlans(c.Request.Context(), currentUser(c).ID, clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workoutPlans": plans})
}

// UpdateWorkoutPlan godoc
// @Summary Replace a plan's exercises and suggestion
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout plan ID"
// @Param plan body UpdateWorkoutPlanRequest true "New content"
// @Success 200 {object} gin.H "Workout plan updated successfully"
// @Failure 403 {object} gin.H "Plan missing or owned by another trainer"
// @Router /trainer/{id} [put]
func (h *TrainerHandler) UpdateWorkoutPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.trainerService.UpdateWorkoutPlan(c.Request.Context(), currentUser(c).ID, planID, req.Exercises, req.suggestion())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout plan updated successfully", "workoutPlan": plan})
}

// DeleteWorkoutPlan godoc
// @Summary Delete a workout plan
// @Tags Trainer
// @Security BearerAuth
// @Param id path string true "Workout plan ID"
// @Success 200 {object} gin.H "Workout plan deleted successfully"
// @Failure 403 {object} gin.H "Plan missing or owned by another trainer"
// @Router /trainer/{id} [delete]
func (h *TrainerHandler) DeleteWorkoutPlan(c *gin.Context) {
	planID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.trainerService.DeleteWorkoutPlan(c.Request.Context(), currentUser(c).ID, planID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted successfully"})
}

// --- Appointments ---

// ListAppointments godoc
// @Summary Appointments booked with the trainer
// @Tags Trainer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "appointments"
// @Router /trainer/appointments [get]
func (h *TrainerHandler) ListAppointments(c *gin.Context) {
	appts, err := h.trainerService.ListAppointments(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// UpdateAppointmentStatus godoc
// @Summary Set an appointment's status
// @Description The value is stored as given; no transition rules apply.
// @Tags Trainer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Param status body UpdateAppointmentStatusRequest true "New status"
// @Success 200 {object} gin.H "Appointment status updated"
// @Failure 403 {object} gin.H "Appointment belongs to another trainer"
// @Failure 404 {object} gin.H "Appointment not found."
// @Router /trainer/appointments/{id} [put]
func (h *TrainerHandler) UpdateAppointmentStatus(c *gin.Context) {
	apptID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateAppointmentStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.trainerService.UpdateAppointmentStatus(c.Request.Context(), currentUser(c).ID, apptID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment status updated", "appointment": appt})
}
