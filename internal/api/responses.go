package api

import (
	"time"

	"fitnesshub/fitness-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Role            domain.Role           `json:"role"`
	ProfileDetails  domain.ProfileDetails `json:"profileDetails"`
	AssignedTrainer *string               `json:"assignedTrainer,omitempty"`
	Clients         []string              `json:"clients,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ProfileResponse is the public projection of an account.
type ProfileResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	ProfileDetails domain.ProfileDetails `json:"profileDetails"`
}

type TrainerSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserWithTrainerResponse is a client with assignedTrainer expanded.
type UserWithTrainerResponse struct {
	UserResponse
	Trainer *TrainerSummaryResponse `json:"trainer"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
// Crucially excludes PasswordHash and converts ObjectIDs to strings.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		ProfileDetails: user.ProfileDetails,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if user.HasTrainer() {
		hex := user.AssignedTrainer.Hex()
		resp.AssignedTrainer = &hex
	}
	if len(user.Clients) > 0 {
		resp.Clients = hexIDs(user.Clients)
	}
	return resp
}

func mapUsers(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = MapUserToResponse(&users[i])
	}
	return out
}

func mapProfile(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:             user.ID.Hex(),
		Name:           user.Name,
		Email:          user.Email,
		ProfileDetails: user.ProfileDetails,
	}
}

func mapProfiles(users []domain.User) []ProfileResponse {
	out := make([]ProfileResponse, len(users))
	for i := range users {
		out[i] = mapProfile(&users[i])
	}
	return out
}

func mapUsersWithTrainers(users []domain.UserWithTrainer) []UserWithTrainerResponse {
	out := make([]UserWithTrainerResponse, len(users))
	for i := range users {
		out[i] = UserWithTrainerResponse{UserResponse: MapUserToResponse(&users[i].User)}
		if t := users[i].Trainer; t != nil {
			out[i].Trainer = &TrainerSummaryResponse{ID: t.ID.Hex(), Name: t.Name}
		}
	}
	return out
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
