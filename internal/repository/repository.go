package repository

import (
	"context"
	"time"

	"fitnesshub/fitness-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs fn so that every repository call made with the context it
// receives commits or aborts together, where the backend supports it.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// List returns a page of users matching filter, newest first.
	List(ctx context.Context, filter domain.UserFilter, skip, limit int64) ([]domain.User, error)
	Count(ctx context.Context, filter domain.UserFilter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Trainer <-> client links. These only touch one document each.
	SetAssignedTrainer(ctx context.Context, userID, trainerID primitive.ObjectID) error
	ClearAssignedTrainer(ctx context.Context, userID primitive.ObjectID) error
	AddClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	RemoveClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	ListClientsWithTrainers(ctx context.Context) ([]domain.UserWithTrainer, error)
}

// WorkoutPlanRepository defines the interface for interacting with workout plan data.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// Update replaces exercises and suggestion and bumps UpdatedAt.
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// NutritionRepository defines the interface for interacting with nutrition plan data.
type NutritionRepository interface {
	// AppendMeal adds meal to the plan keyed by (userID, trainerID, day),
	// creating the plan when it does not exist yet.
	AppendMeal(ctx context.Context, userID primitive.ObjectID, trainerID *primitive.ObjectID, day time.Time, meal domain.Meal) (*domain.NutritionPlan, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.NutritionPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.NutritionPlan, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AppointmentRepository defines the interface for interacting with appointment data.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Appointment, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus) (*domain.Appointment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Store bundles every repository a backend provides.
type Store struct {
	Users        UserRepository
	WorkoutPlans WorkoutPlanRepository
	Nutrition    NutritionRepository
	Appointments AppointmentRepository
	Tx           TxRunner
}
