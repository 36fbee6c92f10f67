// internal/repository/mongo/nutrition_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const nutritionCollectionName = "nutritionplans"

// mongoNutritionRepository implements repository.NutritionRepository
type mongoNutritionRepository struct {
	collection *mongo.Collection
}

// NewMongoNutritionRepository creates a new NutritionPlan repository.
func NewMongoNutritionRepository(db *mongo.Database) repository.NutritionRepository {
	return &mongoNutritionRepository{
		collection: db.Collection(nutritionCollectionName),
	}
}

// AppendMeal pushes meal onto the day's plan in a single upsert.
// Two first meals of the same day racing each other both try to insert;
// the unique day index rejects one, and retrying turns it into an update.
func (r *mongoNutritionRepository) AppendMeal(ctx context.Context, userID primitive.ObjectID, trainerID *primitive.ObjectID, day time.Time, meal domain.Meal) (*domain.NutritionPlan, error) {
	filter := bson.M{
		"userId":    userID,
		"trainerId": trainerID, // nil matches plans without a trainer
		"day":       day,
	}
	update := bson.M{
		"$push":        bson.M{"meals": meal},
		"$inc":         bson.M{"totalCalories": meal.TotalCalories},
		"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var plan domain.NutritionPlan
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&plan)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetByID retrieves a single nutrition plan by its ID.
func (r *mongoNutritionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.NutritionPlan, error) {
	var plan domain.NutritionPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByUserID retrieves all of a user's nutrition plans, newest first.
func (r *mongoNutritionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.NutritionPlan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "day", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := make([]domain.NutritionPlan, 0)
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoNutritionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNutritionIndexes creates necessary indexes. Call during startup.
func EnsureNutritionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// One plan per user, trainer and day. Documents written before the
			// day key existed are left out of the constraint.
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "trainerId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"day": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: -1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
