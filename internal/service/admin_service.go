package service

import (
	"context"
	"errors"
	"strings"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserChanges is an admin's partial edit of an account. Nil means unchanged.
type UserChanges struct {
	Name  *string
	Email *string
	Role  *string
}

type AdminService interface {
	ListUsers(ctx context.Context, q UserQuery) (*UserPage, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, changes UserChanges) (*domain.User, error)
	// DeleteUser removes the account only; plans, appointments and trainer
	// client lists that reference it are left in place.
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	ChangeRole(ctx context.Context, id primitive.ObjectID, role string) (*domain.User, error)
	AssignTrainer(ctx context.Context, userID, trainerID primitive.ObjectID) (user, trainer *domain.User, err error)
	RemoveTrainer(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	ListUsersWithTrainers(ctx context.Context) ([]domain.UserWithTrainer, error)
}

type adminService struct {
	userRepo repository.UserRepository
	tx       repository.TxRunner
}

// NewAdminService creates a new instance of adminService.
func NewAdminService(userRepo repository.UserRepository, tx repository.TxRunner) AdminService {
	return &adminService{userRepo: userRepo, tx: tx}
}

func (s *adminService) ListUsers(ctx context.Context, q UserQuery) (*UserPage, error) {
	return listUsers(ctx, s.userRepo, q)
}

func (s *adminService) UpdateUser(ctx context.Context, id primitive.ObjectID, changes UserChanges) (*domain.User, error) {
	var update domain.UserUpdate
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, validationError("Name cannot be empty")
		}
		update.Name = &name
	}
	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if email == "" {
			return nil, validationError("Email cannot be empty")
		}
		update.Email = &email
	}
	if changes.Role != nil {
		role := domain.Role(*changes.Role)
		if !role.Valid() {
			return nil, validationError("Invalid role provided.")
		}
		update.Role = &role
	}

	user, err := s.userRepo.Update(ctx, id, update)
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFoundError("User not found.")
		}
		return err
	}
	return nil
}

func (s *adminService) ChangeRole(ctx context.Context, id primitive.ObjectID, role string) (*domain.User, error) {
	r := domain.Role(role)
	if !r.Valid() {
		return nil, validationError("Invalid role provided.")
	}
	user, err := s.userRepo.Update(ctx, id, domain.UserUpdate{Role: &r})
	if err != nil {
		return nil, mapUserWriteError(err)
	}
	return user, nil
}

// AssignTrainer links user and trainer in both directions. A user moving
// from another trainer is pulled from that trainer's client list.
func (s *adminService) AssignTrainer(ctx context.Context, userID, trainerID primitive.ObjectID) (*domain.User, *domain.User, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.loadClient(ctx, userID)
		if err != nil {
			return err
		}
		trainer, err := s.userRepo.GetByID(ctx, trainerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFoundError("Trainer not found")
			}
			return err
		}
		if !trainer.IsTrainer() {
			return notFoundError("Trainer not found")
		}

		if user.HasTrainer() && *user.AssignedTrainer != trainerID {
			err := s.userRepo.RemoveClient(ctx, *user.AssignedTrainer, userID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}
		if err := s.userRepo.SetAssignedTrainer(ctx, userID, trainerID); err != nil {
			return err
		}
		return s.userRepo.AddClient(ctx, trainerID, userID)
	})
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, nil, err
	}
	return user, trainer, nil
}

// RemoveTrainer undoes AssignTrainer. A trainer account that no longer
// exists is tolerated; the user's side is still cleared.
func (s *adminService) RemoveTrainer(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := s.loadClient(ctx, userID)
		if err != nil {
			return err
		}
		if !user.HasTrainer() {
			return validationError("No trainer assigned to this user")
		}

		err = s.userRepo.RemoveClient(ctx, *user.AssignedTrainer, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return s.userRepo.ClearAssignedTrainer(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *adminService) ListUsersWithTrainers(ctx context.Context) ([]domain.UserWithTrainer, error) {
	return s.userRepo.ListClientsWithTrainers(ctx)
}

// loadClient fetches id and requires it to be a role=User account.
func (s *adminService) loadClient(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found or is not a client")
		}
		return nil, err
	}
	if !user.IsClient() {
		return nil, notFoundError("User not found or is not a client")
	}
	return user, nil
}

func mapUserWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFoundError("User not found.")
	case errors.Is(err, repository.ErrDuplicateKey):
		return conflictError("Email already in use")
	}
	return err
}
