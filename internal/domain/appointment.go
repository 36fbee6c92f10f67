package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentStatus type for appointment lifecycle
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusApproved  AppointmentStatus = "Approved"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// Appointment is a session a user books with a trainer.
type Appointment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Date      time.Time          `bson:"date" json:"date"`
	// Status is only enforced for cancellation; trainers may store any value.
	Status AppointmentStatus `bson:"status" json:"status"`
	Notes  string            `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Cancellable reports whether the owning user may still cancel.
func (a *Appointment) Cancellable() bool {
	return a.Status == StatusPending
}
