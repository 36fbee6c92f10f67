package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" || user.Role == "" {
		return primitive.NilObjectID, errors.New("user email, password hash, and role are required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetByID retrieves a user by their MongoDB ObjectID.
func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// userFilter translates a domain filter into a query document.
// Search input is matched literally, never as a pattern.
// roleMatch matches role exactly but ignoring case, so legacy lower-case
// records are listed with their canonical role.
func roleMatch(role domain.Role) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(string(role)) + "$", Options: "i"}
}

func userFilter(f domain.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = roleMatch(f.Role)
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
		}
	}
	return filter
}

// List returns a page of users matching filter, newest first.
func (r *mongoUserRepository) List(ctx context.Context, f domain.UserFilter, skip, limit int64) ([]domain.User, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, userFilter(f), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.User, 0)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *mongoUserRepository) Count(ctx context.Context, f domain.UserFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, userFilter(f))
}

// Update applies the non-nil fields of update and returns the updated user.
func (r *mongoUserRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}
	return r.findOneAndSet(ctx, id, set)
}

// UpdateProfile sets the provided profileDetails sub-fields only.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) (*domain.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Age != nil {
		set["profileDetails.age"] = *update.Age
	}
	if update.Gender != nil {
		set["profileDetails.gender"] = *update.Gender
	}
	if update.Weight != nil {
		set["profileDetails.weight"] = *update.Weight
	}
	if update.Height != nil {
		set["profileDetails.height"] = *update.Height
	}
	return r.findOneAndSet(ctx, id, set)
}

func (r *mongoUserRepository) findOneAndSet(ctx context.Context, id primitive.ObjectID, set bson.M) (*domain.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, repository.ErrDuplicateKey
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes the user document. References held by other documents are left as-is.
func (r *mongoUserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetAssignedTrainer sets the assignedTrainer field for a specific user.
func (r *mongoUserRepository) SetAssignedTrainer(ctx context.Context, userID, trainerID primitive.ObjectID) error {
	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{"assignedTrainer": trainerID, "updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) ClearAssignedTrainer(ctx context.Context, userID primitive.ObjectID) error {
	return r.updateOne(ctx, userID, bson.M{
		"$unset": bson.M{"assignedTrainer": ""},
		"$set":   bson.M{"updatedAt": time.Now().UTC()},
	})
}

// AddClient adds a client's ID to a trainer's clients array.
func (r *mongoUserRepository) AddClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	return r.updateOne(ctx, trainerID, bson.M{
		"$addToSet": bson.M{"clients": clientID}, // $addToSet prevents duplicates
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) RemoveClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	return r.updateOne(ctx, trainerID, bson.M{
		"$pull": bson.M{"clients": clientID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	// ModifiedCount may be 0 when the value was already set, which is fine.
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetClientsByTrainerID retrieves all users assigned to a specific trainer,
// projected to their public profile.
func (r *mongoUserRepository) GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	findOptions := options.Find().
		SetProjection(bson.M{"name": 1, "email": 1, "profileDetails": 1}).
		SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"assignedTrainer": trainerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := make([]domain.User, 0)
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// ListClientsWithTrainers returns every role=User account with its trainer
// expanded to {_id, name}.
func (r *mongoUserRepository) ListClientsWithTrainers(ctx context.Context) ([]domain.UserWithTrainer, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"role": roleMatch(domain.RoleUser)}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         userCollectionName,
			"localField":   "assignedTrainer",
			"foreignField": "_id",
			"as":           "trainer",
		}}},
		{{Key: "$addFields", Value: bson.M{"trainer": bson.M{"$arrayElemAt": bson.A{"$trainer", 0}}}}},
		{{Key: "$project", Value: bson.M{"trainer.password": 0, "trainer.clients": 0}}},
		{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := make([]domain.UserWithTrainer, 0)
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			// Finding clients by trainer
			Keys:    bson.D{{Key: "assignedTrainer", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
