package mongo

import (
	"context"
	"errors"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const appointmentCollectionName = "appointments"

// mongoAppointmentRepository implements repository.AppointmentRepository
type mongoAppointmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAppointmentRepository creates a new Appointment repository backed by MongoDB.
func NewMongoAppointmentRepository(db *mongo.Database) repository.AppointmentRepository {
	return &mongoAppointmentRepository{
		collection: db.Collection(appointmentCollectionName),
	}
}

// Create inserts a new appointment into the database.
func (r *mongoAppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (primitive.ObjectID, error) {
	if appt.UserID == primitive.NilObjectID || appt.TrainerID == primitive.NilObjectID || appt.Date.IsZero() {
		return primitive.NilObjectID, errors.New("appointment requires userId, trainerId and date")
	}

	appt.ID = primitive.NewObjectID()
	if appt.Status == "" { // Default status if not provided
		appt.Status = domain.StatusPending
	}

	result, err := r.collection.InsertOne(ctx, appt)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves an appointment by its ID.
func (r *mongoAppointmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Appointment, error) {
	var appt domain.Appointment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *mongoAppointmentRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Appointment, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

func (r *mongoAppointmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Appointment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	appts := make([]domain.Appointment, 0)
	if err = cursor.All(ctx, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// UpdateStatus stores status as given and returns the updated appointment.
func (r *mongoAppointmentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.AppointmentStatus) (*domain.Appointment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt domain.Appointment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}, opts).Decode(&appt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func (r *mongoAppointmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAppointmentIndexes creates necessary indexes for the appointments collection.
func EnsureAppointmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "trainerId", Value: 1}, {Key: "date", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
