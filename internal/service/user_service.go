package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileChanges is a user's partial edit of their own profile. Nil means unchanged.
type ProfileChanges struct {
	Age    *int
	Gender *string
	Weight *float64
	Height *float64
}

// BookingRequest carries the raw booking input.
type BookingRequest struct {
	TrainerID string
	Date      string
	Notes     string
}

type UserService interface {
	ListUsers(ctx context.Context, q UserQuery) (*UserPage, error)

	// Profile
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, changes ProfileChanges) (*domain.User, error)

	// Workout plans
	ListWorkoutPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)

	// Appointments
	BookAppointment(ctx context.Context, userID primitive.ObjectID, req BookingRequest) (*domain.Appointment, error)
	ListAppointments(ctx context.Context, userID primitive.ObjectID) ([]domain.Appointment, error)
	CancelAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID) error

	// Nutrition
	AddMeal(ctx context.Context, user *domain.User, mealType string, items []domain.FoodItem) (*domain.NutritionPlan, error)
	ListMeals(ctx context.Context, userID primitive.ObjectID) ([]domain.NutritionPlan, error)
	DeleteMeal(ctx context.Context, userID, planID primitive.ObjectID) error
}

type userService struct {
	userRepo        repository.UserRepository
	workoutRepo     repository.WorkoutPlanRepository
	nutritionRepo   repository.NutritionRepository
	appointmentRepo repository.AppointmentRepository
	now             func() time.Time
}

// NewUserService creates a new instance of userService.
func NewUserService(store repository.Store) UserService {
	return &userService{
		userRepo:        store.Users,
		workoutRepo:     store.WorkoutPlans,
		nutritionRepo:   store.Nutrition,
		appointmentRepo: store.Appointments,
		now:             time.Now,
	}
}

func (s *userService) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	return listUsers(ctx, s.userRepo, q)
}

// === Profile ===

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, changes ProfileChanges) (*domain.User, error) {
	var update domain.ProfileUpdate
	if changes.Gender != nil {
		g := domain.Gender(*changes.Gender)
		if !g.Valid() {
			return nil, validationError("Invalid gender value.")
		}
		update.Gender = &g
	}
	if changes.Age != nil && *changes.Age < 0 {
		return nil, validationError("Age cannot be negative.")
	}
	if changes.Weight != nil && *changes.Weight < 0 {
		return nil, validationError("Weight cannot be negative.")
	}
	if changes.Height != nil && *changes.Height < 0 {
		return nil, validationError("Height cannot be negative.")
	}
	update.Age = changes.Age
	update.Weight = changes.Weight
	update.Height = changes.Height

	user, err := s.userRepo.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found.")
		}
		return nil, err
	}
	return user, nil
}

// === Workout plans ===

// ListWorkoutPlans returns an empty slice, not an error, when nothing is assigned.
func (s *userService) ListWorkoutPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	return s.workoutRepo.GetByClientID(ctx, userID)
}

// === Appointments ===

// appointmentDateLayouts are tried in order.
var appointmentDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseAppointmentDate(raw string) (time.Time, error) {
	for _, layout := range appointmentDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("Invalid date. Use RFC3339 or YYYY-MM-DD.")
}

func (s *userService) BookAppointment(ctx context.Context, userID primitive.ObjectID, req BookingRequest) (*domain.Appointment, error) {
	rawDate := strings.TrimSpace(req.Date)
	if req.TrainerID == "" || rawDate == "" {
		return nil, validationError("Trainer ID and date are required.")
	}
	trainerID, err := ParseID("trainer ID", req.TrainerID)
	if err != nil {
		return nil, err
	}
	date, err := parseAppointmentDate(rawDate)
	if err != nil {
		return nil, err
	}

	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if trainer == nil || !trainer.IsTrainer() {
		return nil, notFoundError("Trainer not found")
	}

	appt := &domain.Appointment{
		UserID:    userID,
		TrainerID: trainerID,
		Date:      date,
		Status:    domain.StatusPending,
		Notes:     req.Notes,
	}
	if _, err := s.appointmentRepo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *userService) ListAppointments(ctx context.Context, userID primitive.ObjectID) ([]domain.Appointment, error) {
	return s.appointmentRepo.GetByUserID(ctx, userID)
}

// CancelAppointment deletes a pending appointment owned by userID.
func (s *userService) CancelAppointment(ctx context.Context, userID, appointmentID primitive.ObjectID) error {
	appt, err := s.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Appointment not found.")
		}
		return err
	}
	if appt.UserID != userID {
		return forbiddenError("Unauthorized to cancel this appointment.")
	}
	if !appt.Cancellable() {
		return validationError("Only pending appointments can be canceled.")
	}

	if err := s.appointmentRepo.Delete(ctx, appointmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Appointment not found.")
		}
		return err
	}
	return nil
}

// === Nutrition ===

func validateFoodItems(items []domain.FoodItem) error {
	if len(items) == 0 {
		return validationError("At least one food item is required")
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return validationError("food item %d: name is required", i+1)
		}
		if item.Calories < 0 || item.Protein < 0 || item.Carbs < 0 || item.Fats < 0 {
			return validationError("food item %d: values cannot be negative", i+1)
		}
	}
	return nil
}

// AddMeal appends a meal to today's plan for user and their current trainer.
func (s *userService) AddMeal(ctx context.Context, user *domain.User, mealType string, items []domain.FoodItem) (*domain.NutritionPlan, error) {
	mt := domain.MealType(mealType)
	if !mt.Valid() {
		return nil, validationError("Invalid meal type")
	}
	if err := validateFoodItems(items); err != nil {
		return nil, err
	}

	var trainerID *primitive.ObjectID
	if user.HasTrainer() {
		id := *user.AssignedTrainer
		trainerID = &id
	}

	meal := domain.NewMeal(mt, items)
	return s.nutritionRepo.AppendMeal(ctx, user.ID, trainerID, domain.DayBucket(s.now()), meal)
}

func (s *userService) ListMeals(ctx context.Context, userID primitive.ObjectID) ([]domain.NutritionPlan, error) {
	return s.nutritionRepo.GetByUserID(ctx, userID)
}

func (s *userService) DeleteMeal(ctx context.Context, userID, planID primitive.ObjectID) error {
	plan, err := s.nutritionRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Meal not found")
		}
		return err
	}
	if plan.UserID != userID {
		return forbiddenError("Unauthorized to delete this meal")
	}

	if err := s.nutritionRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("Meal not found")
		}
		return err
	}
	return nil
}
