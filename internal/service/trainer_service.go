package service

import (
	"context"
	"errors"
	"strings"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrainerService interface {
	// Client Management
	ListClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	ListClientNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.NutritionPlan, error)

	// Workout Plans
	CreateWorkoutPlan(ctx context.Context, trainerID, clientID primitive.ObjectID, exercises []domain.Exercise, suggestion string) (*domain.WorkoutPlan, error)
	ListWorkoutPlans(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	UpdateWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID, exercises []domain.Exercise, suggestion string) (*domain.WorkoutPlan, error)
	DeleteWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error

	// Appointments
	ListAppointments(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, trainerID, appointmentID primitive.ObjectID, status string) (*domain.Appointment, error)
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo        repository.UserRepository
	workoutRepo     repository.WorkoutPlanRepository
	nutritionRepo   repository.NutritionRepository
	appointmentRepo repository.AppointmentRepository
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutPlanRepository,
	nutritionRepo repository.NutritionRepository,
	appointmentRepo repository.AppointmentRepository,
) TrainerService {
	return &trainerService{
		userRepo:        userRepo,
		workoutRepo:     workoutRepo,
		nutritionRepo:   nutritionRepo,
		appointmentRepo: appointmentRepo,
	}
}

// === Client Management ===

func (s *trainerService) ListClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	return s.userRepo.GetClientsByTrainerID(ctx, trainerID)
}

// ensureAssigned requires clientID to be assigned to trainerID. An unknown
// client is reported the same way so callers cannot discover accounts.
func (s *trainerService) ensureAssigned(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if client == nil || !client.IsAssignedTo(trainerID) {
		return forbiddenError("Access denied. You are not assigned to this client.")
	}
	return nil
}

func (s *trainerService) ListClientNutrition(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.NutritionPlan, error) {
	if err := s.ensureAssigned(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.nutritionRepo.GetByUserID(ctx, clientID)
}

// === Workout Plans ===

func validateExercises(exercises []domain.Exercise) error {
	for i, ex := range exercises {
		switch {
		case strings.TrimSpace(ex.Name) == "":
			return validationError("exercise %d: name is required", i+1)
		case ex.Sets < 1:
			return validationError("exercise %d: sets must be at least 1", i+1)
		case ex.Reps < 1:
			return validationError("exercise %d: reps must be at least 1", i+1)
		case ex.Weight != nil && *ex.Weight < 0:
			return validationError("exercise %d: weight cannot be negative", i+1)
		}
	}
	return nil
}

func (s *trainerService) CreateWorkoutPlan(ctx context.Context, trainerID, clientID primitive.ObjectID, exercises []domain.Exercise, suggestion string) (*domain.WorkoutPlan, error) {
	if err := s.ensureAssigned(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	if err := validateExercises(exercises); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		TrainerID:  trainerID,
		ClientID:   clientID,
		Exercises:  exercises,
		Suggestion: suggestion,
	}
	if _, err := s.workoutRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *trainerService) ListWorkoutPlans(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if err := s.ensureAssigned(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByClientID(ctx, clientID)
}

func planAccessDenied(action string) error {
	return forbiddenError("Access denied. You cannot %s this workout plan.", action)
}

// ownedPlan loads a plan and requires trainerID to be its author. A missing
// plan is reported like a foreign one.
func (s *trainerService) ownedPlan(ctx context.Context, trainerID, planID primitive.ObjectID, action string) (*domain.WorkoutPlan, error) {
	plan, err := s.workoutRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, planAccessDenied(action)
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, planAccessDenied(action)
	}
	return plan, nil
}

func (s *trainerService) UpdateWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID, exercises []domain.Exercise, suggestion string) (*domain.WorkoutPlan, error) {
	plan, err := s.ownedPlan(ctx, trainerID, planID, "update")
	if err != nil {
		return nil, err
	}
	if err := validateExercises(exercises); err != nil {
		return nil, err
	}

	plan.Exercises = exercises
	plan.Suggestion = suggestion
	if err := s.workoutRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, planAccessDenied("update")
		}
		return nil, err
	}
	return plan, nil
}

func (s *trainerService) DeleteWorkoutPlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	if _, err := s.ownedPlan(ctx, trainerID, planID, "delete"); err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return planAccessDenied("delete")
		}
		return err
	}
	return nil
}

// === Appointments ===

func (s *trainerService) ListAppointments(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return s.appointmentRepo.GetByTrainerID(ctx, trainerID)
}

// UpdateAppointmentStatus stores status as given; there is no transition graph.
func (s *trainerService) UpdateAppointmentStatus(ctx context.Context, trainerID, appointmentID primitive.ObjectID, status string) (*domain.Appointment, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validationError("Status is required")
	}

	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Appointment not found.")
		}
		return nil, err
	}
	if appt.TrainerID != trainerID {
		return nil, forbiddenError("Access denied. This appointment belongs to another trainer.")
	}

	updated, err := s.appointmentRepo.UpdateStatus(ctx, appointmentID, domain.AppointmentStatus(status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("Appointment not found.")
		}
		return nil, err
	}
	return updated, nil
}
