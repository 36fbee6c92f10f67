package mongo

import (
	"context"
	"fmt"
	"time"

	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

const (
	trainerCollectionName = "trainers"
	paymentCollectionName = "payments"
)

// ConnectDB establishes a connection to MongoDB using the provided URI and
// verifies it with a ping against the primary.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore wires every MongoDB repository against db. When transactions is
// true, multi-document writes run inside a session transaction on client.
func NewStore(client *mongo.Client, db *mongo.Database, transactions bool) repository.Store {
	return repository.Store{
		Users:        NewMongoUserRepository(db),
		WorkoutPlans: NewMongoWorkoutPlanRepository(db),
		Nutrition:    NewMongoNutritionRepository(db),
		Appointments: NewMongoAppointmentRepository(db),
		Tx:           NewTxRunner(client, transactions),
	}
}

// EnsureIndexes creates the indexes of every collection the API uses.
// Failures are collected per collection so one bad index does not hide the rest.
func EnsureIndexes(ctx context.Context, db *mongo.Database) map[string]error {
	steps := []struct {
		collection string
		ensure     func(context.Context, *mongo.Collection) error
	}{
		{userCollectionName, EnsureUserIndexes},
		{workoutPlanCollectionName, EnsureWorkoutPlanIndexes},
		{nutritionCollectionName, EnsureNutritionIndexes},
		{appointmentCollectionName, EnsureAppointmentIndexes},
		{trainerCollectionName, ensureTrainerIndexes},
		{paymentCollectionName, ensurePaymentIndexes},
	}

	failures := make(map[string]error)
	for _, step := range steps {
		if err := step.ensure(ctx, db.Collection(step.collection)); err != nil {
			failures[step.collection] = err
		}
	}
	return failures
}

func ensureTrainerIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "trainerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func ensurePaymentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
