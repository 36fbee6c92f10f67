package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles. Stored values are capitalised.
const (
	RoleAdmin   Role = "Admin"
	RoleTrainer Role = "Trainer"
	RoleUser    Role = "User"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleUser, RoleTrainer}

// Valid reports whether r is exactly one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Matches compares two roles ignoring case. Records written by older
// clients may carry lower-case role strings.
func (r Role) Matches(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// ParseRole resolves s to a known role, ignoring case.
func ParseRole(s string) (Role, bool) {
	for _, known := range Roles {
		if known.Matches(Role(s)) {
			return known, true
		}
	}
	return "", false
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// ProfileDetails holds the optional body metrics a user fills in.
type ProfileDetails struct {
	Age    *int     `bson:"age,omitempty" json:"age,omitempty"`
	Gender Gender   `bson:"gender,omitempty" json:"gender,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Height *float64 `bson:"height,omitempty" json:"height,omitempty"`
}

// User represents an account: an Admin, a Trainer or a regular User (client).
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash   string             `bson:"password" json:"-"`     // Never expose this via JSON
	Role           Role               `bson:"role" json:"role"`
	ProfileDetails ProfileDetails     `bson:"profileDetails,omitempty" json:"profileDetails"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- User-specific ---
	AssignedTrainer *primitive.ObjectID `bson:"assignedTrainer,omitempty" json:"assignedTrainer,omitempty"`

	// --- Trainer-specific ---
	Clients []primitive.ObjectID `bson:"clients,omitempty" json:"clients,omitempty"`
}

func (u *User) IsTrainer() bool {
	return u.Role.Matches(RoleTrainer)
}

func (u *User) IsClient() bool {
	return u.Role.Matches(RoleUser)
}

func (u *User) IsAdmin() bool {
	return u.Role.Matches(RoleAdmin)
}

// HasTrainer reports whether the user is currently assigned to a trainer.
func (u *User) HasTrainer() bool {
	return u.AssignedTrainer != nil && !u.AssignedTrainer.IsZero()
}

// IsAssignedTo reports whether trainerID is the user's assigned trainer.
func (u *User) IsAssignedTo(trainerID primitive.ObjectID) bool {
	return u.HasTrainer() && *u.AssignedTrainer == trainerID
}

// TrainerSummary is the expanded form of User.AssignedTrainer.
type TrainerSummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// UserWithTrainer is a client record with its trainer reference expanded.
type UserWithTrainer struct {
	User    `bson:",inline"`
	Trainer *TrainerSummary `bson:"trainer,omitempty" json:"trainer,omitempty"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   Role
	Search string // case-insensitive substring of name or email
}

// UserUpdate carries the admin-editable account fields. Nil means unchanged.
type UserUpdate struct {
	Name  *string
	Email *string
	Role  *Role
}

// ProfileUpdate carries the self-editable profile fields. Nil means unchanged.
type ProfileUpdate struct {
	Age    *int
	Gender *Gender
	Weight *float64
	Height *float64
}
