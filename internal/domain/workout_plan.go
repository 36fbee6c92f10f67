package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a single prescribed movement inside a WorkoutPlan.
type Exercise struct {
	Name     string   `bson:"name" json:"name" binding:"required"`
	Sets     int      `bson:"sets" json:"sets" binding:"required,min=1"`
	Reps     int      `bson:"reps" json:"reps" binding:"required,min=1"`
	Weight   *float64 `bson:"weight,omitempty" json:"weight,omitempty" binding:"omitempty,min=0"`
	Duration string   `bson:"duration,omitempty" json:"duration,omitempty"` // e.g. "30 minutes"
}

// WorkoutPlan is a list of exercises a trainer prescribes to one of their clients.
type WorkoutPlan struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID  primitive.ObjectID `bson:"trainer" json:"trainer"`
	ClientID   primitive.ObjectID `bson:"client" json:"client"`
	Exercises  []Exercise         `bson:"exercises" json:"exercises"`
	Suggestion string             `bson:"suggestion,omitempty" json:"suggestion,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
