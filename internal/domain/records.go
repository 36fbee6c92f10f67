package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainerProfile stores trainer metadata. No route reads or writes it yet;
// the collection and its indexes are created at startup.
type TrainerProfile struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TrainerID     primitive.ObjectID   `bson:"trainerId" json:"trainerId"`
	Specialty     []string             `bson:"specialty" json:"specialty"` // e.g. "Weight Loss", "Cardio"
	Experience    int                  `bson:"experience" json:"experience"`
	AssignedUsers []primitive.ObjectID `bson:"assignedUsers" json:"assignedUsers"`
}

type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentDebitCard  PaymentMethod = "Debit Card"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "Net Banking"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentSuccess PaymentStatus = "Success"
	PaymentFailed  PaymentStatus = "Failed"
)

// Payment records a charge against a user. Payment processing is out of scope;
// only the record shape and its unique transaction index exist.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Amount        float64            `bson:"amount" json:"amount"`
	Method        PaymentMethod      `bson:"method" json:"method"`
	Status        PaymentStatus      `bson:"status" json:"status"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
