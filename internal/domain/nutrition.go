package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

type FoodItem struct {
	Name     string  `bson:"name" json:"name" binding:"required"`
	Calories float64 `bson:"calories" json:"calories" binding:"min=0"`
	Protein  float64 `bson:"protein" json:"protein" binding:"min=0"`
	Carbs    float64 `bson:"carbs" json:"carbs" binding:"min=0"`
	Fats     float64 `bson:"fats" json:"fats" binding:"min=0"`
}

type Meal struct {
	MealType      MealType   `bson:"mealType" json:"mealType"`
	FoodItems     []FoodItem `bson:"foodItems" json:"foodItems"`
	TotalCalories float64    `bson:"totalCalories" json:"totalCalories"`
}

// NewMeal builds a meal entry with TotalCalories computed from its items.
func NewMeal(mealType MealType, items []FoodItem) Meal {
	var total float64
	for _, item := range items {
		total += item.Calories
	}
	if items == nil {
		items = []FoodItem{}
	}
	return Meal{MealType: mealType, FoodItems: items, TotalCalories: total}
}

// NutritionPlan groups a user's meals for one calendar day.
type NutritionPlan struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID  `bson:"userId" json:"userId"`
	TrainerID          *primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Day                time.Time           `bson:"day" json:"day"`
	Meals              []Meal              `bson:"meals" json:"meals"`
	TrainerSuggestions string              `bson:"trainerSuggestions,omitempty" json:"trainerSuggestions,omitempty"`
	TotalCalories      float64             `bson:"totalCalories" json:"totalCalories"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
}

// DayBucket truncates t to midnight UTC. It is the key that groups a user's
// meals into one NutritionPlan per day.
func DayBucket(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
