package service

import (
	"context"
	"strings"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserQuery holds the raw query string values of a user listing.
type UserQuery struct {
	Page   string
	Limit  string
	Role   string
	Search string
}

// UserPage is one page of a user listing.
type UserPage struct {
	Users      []domain.User
	Pagination Pagination
}

// listUsers backs the listing shared by the Admin and User surfaces.
func listUsers(ctx context.Context, users repository.UserRepository, q UserQuery) (*UserPage, error) {
	page, err := ParsePage(q.Page, q.Limit)
	if err != nil {
		return nil, err
	}

	filter := domain.UserFilter{Search: strings.TrimSpace(q.Search)}
	if q.Role != "" {
		role, ok := domain.ParseRole(q.Role)
		if !ok {
			return nil, validationError("Invalid role filter")
		}
		filter.Role = role
	}

	total, err := users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	list, err := users.List(ctx, filter, page.Skip(), page.Limit)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: list, Pagination: NewPagination(page, total)}, nil
}

// ParseID converts a hex path or body value into an ObjectID.
func ParseID(name, hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, validationError("%s is required", name)
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, validationError("Invalid %s", name)
	}
	return id, nil
}
