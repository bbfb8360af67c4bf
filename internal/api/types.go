package api

import "github.com/nutritrack/backend/internal/models"

// CreateBasicFoodRequest describes a new basic food.
type CreateBasicFoodRequest struct {
	ID          string   `json:"id" binding:"required"`
	Keywords    []string `json:"keywords"`
	ServingSize string   `json:"serving_size"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fats        float64  `json:"fats"`
}

// CreateCompositeFoodRequest describes a new composite food with no
// components yet.
type CreateCompositeFoodRequest struct {
	ID          string   `json:"id" binding:"required"`
	Keywords    []string `json:"keywords"`
	ServingSize string   `json:"serving_size"`
}

// AddComponentRequest adds servings of an existing food to a composite.
type AddComponentRequest struct {
	ComponentID string  `json:"component_id" binding:"required"`
	Servings    float64 `json:"servings" binding:"required,gt=0"`
}

// FoodResponse is a food plus its derived calorie value.
type FoodResponse struct {
	*models.Food
	CaloriesPerServing float64 `json:"calories_per_serving"`
}

// LogEntryRequest identifies a consumption to add to or remove from the log.
type LogEntryRequest struct {
	FoodID   string  `json:"food_id" binding:"required"`
	Servings float64 `json:"servings" binding:"required,gt=0"`
	Date     string  `json:"date" binding:"required"`
}

// CreateProfileRequest creates the user profile.
type CreateProfileRequest struct {
	Name   string  `json:"name" binding:"required"`
	Gender string  `json:"gender"`
	Height float64 `json:"height" binding:"required,gt=0"`
}

// UpdateProfileEntryRequest overwrites one date's metrics.
type UpdateProfileEntryRequest struct {
	Age           int     `json:"age" binding:"required,gt=0"`
	Weight        float64 `json:"weight" binding:"required,gt=0"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
}

// RecordCaloriesRequest adds a signed calorie delta to one date.
type RecordCaloriesRequest struct {
	Date     string  `json:"date" binding:"required"`
	Calories float64 `json:"calories"`
}

// SetCalorieMethodRequest switches the target-calorie formula.
type SetCalorieMethodRequest struct {
	Method string `json:"method" binding:"required"`
}
