package models

import "strings"

// FoodKind discriminates the two food variants. Every switch over a kind
// must handle both values.
type FoodKind string

const (
	FoodKindBasic     FoodKind = "BASIC"
	FoodKindComposite FoodKind = "COMPOSITE"
)

// Component ties a composite food to one of its parts. Components reference
// foods by catalog id rather than holding the food itself; the catalog owns
// the lifetime of every food and resolves ids at read time.
type Component struct {
	FoodID   string  `json:"food_id"`
	Servings float64 `json:"servings"`
}

// FoodResolver resolves a food id to the food it names. The catalog is the
// canonical implementation.
type FoodResolver interface {
	GetByID(id string) (*Food, bool)
}

// Food represents a catalog entry of either kind. ID and ServingSize are
// immutable after construction. Protein/Carbs/Fats are per-serving grams and
// remain zero for composites: only the calorie value of a composite is
// derived from its components.
type Food struct {
	Kind        FoodKind    `json:"kind"`
	ID          string      `json:"id"`
	Keywords    []string    `json:"keywords"`
	ServingSize string      `json:"serving_size"`
	Calories    float64     `json:"calories"`
	Protein     float64     `json:"protein"`
	Carbs       float64     `json:"carbs"`
	Fats        float64     `json:"fats"`
	Components  []Component `json:"components,omitempty"`
}

// NewBasicFood creates a food with fixed, author-supplied nutrition values.
// Values are expected to be non-negative; the type does not validate them.
func NewBasicFood(id string, keywords []string, servingSize string, calories, protein, carbs, fats float64) *Food {
	return &Food{
		Kind:        FoodKindBasic,
		ID:          id,
		Keywords:    append([]string(nil), keywords...),
		ServingSize: servingSize,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fats:        fats,
	}
}

// NewCompositeFood creates a composite food with no components. Its calorie
// value derives from whatever components are added later.
func NewCompositeFood(id string, keywords []string, servingSize string) *Food {
	return &Food{
		Kind:        FoodKindComposite,
		ID:          id,
		Keywords:    append([]string(nil), keywords...),
		ServingSize: servingSize,
	}
}

// AddKeyword appends a keyword unless an exact duplicate is already present.
func (f *Food) AddKeyword(keyword string) {
	for _, k := range f.Keywords {
		if k == keyword {
			return
		}
	}
	f.Keywords = append(f.Keywords, keyword)
}

// MatchesKeyword reports whether any stored keyword contains the search term,
// case-insensitively.
func (f *Food) MatchesKeyword(keyword string) bool {
	needle := strings.ToLower(keyword)
	for _, k := range f.Keywords {
		if strings.Contains(strings.ToLower(k), needle) {
			return true
		}
	}
	return false
}

// MatchesAllKeywords reports whether every search term matches at least one
// stored keyword. An empty term list matches vacuously.
func (f *Food) MatchesAllKeywords(keywords []string) bool {
	for _, k := range keywords {
		if !f.MatchesKeyword(k) {
			return false
		}
	}
	return true
}

// MatchesAnyKeyword reports whether at least one search term matches. An
// empty term list matches nothing.
func (f *Food) MatchesAnyKeyword(keywords []string) bool {
	for _, k := range keywords {
		if f.MatchesKeyword(k) {
			return true
		}
	}
	return false
}

// AddComponent records servings of another food in this composite. Adding a
// food that is already a component accumulates its serving count. Callers
// must ensure the component graph stays acyclic; the catalog's AddComponent
// enforces that.
func (f *Food) AddComponent(foodID string, servings float64) {
	for i := range f.Components {
		if f.Components[i].FoodID == foodID {
			f.Components[i].Servings += servings
			return
		}
	}
	f.Components = append(f.Components, Component{FoodID: foodID, Servings: servings})
}

// RemoveComponent drops a component unconditionally; absent ids are a no-op.
func (f *Food) RemoveComponent(foodID string) {
	for i := range f.Components {
		if f.Components[i].FoodID == foodID {
			f.Components = append(f.Components[:i], f.Components[i+1:]...)
			return
		}
	}
}

// CaloriesPerServing returns the fixed value for a basic food. For a
// composite it is recomputed on every call as the serving-weighted sum over
// components, resolved through r; component ids the resolver does not know
// contribute nothing.
func (f *Food) CaloriesPerServing(r FoodResolver) float64 {
	switch f.Kind {
	case FoodKindBasic:
		return f.Calories
	case FoodKindComposite:
		var total float64
		for _, c := range f.Components {
			if part, ok := r.GetByID(c.FoodID); ok {
				total += part.CaloriesPerServing(r) * c.Servings
			}
		}
		return total
	}
	return 0
}

// TotalNutrients returns protein + carbs + fats per serving.
func (f *Food) TotalNutrients() float64 {
	return f.Protein + f.Carbs + f.Fats
}
