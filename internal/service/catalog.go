package service

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nutritrack/backend/internal/models"
)

var (
	ErrNilFood        = errors.New("food cannot be nil")
	ErrFoodNotFound   = errors.New("food not found")
	ErrNotComposite   = errors.New("food is not a composite")
	ErrComponentCycle = errors.New("component would make the composite contain itself")
)

// FoodSource supplies basic foods from an external origin (seed data, a
// remote nutrition database, an import file).
type FoodSource interface {
	FetchFoods() ([]*models.Food, error)
}

// CatalogService owns the ordered food collection and its flat-file
// persistence. Insertion order is preserved and duplicate ids are permitted;
// GetByID returns the first match. Not safe for concurrent use.
type CatalogService struct {
	path  string
	foods []*models.Food
}

// Ensure the catalog can resolve component ids for calorie derivation.
var _ models.FoodResolver = (*CatalogService)(nil)

// NewCatalogService creates an empty catalog persisted at path.
func NewCatalogService(path string) *CatalogService {
	return &CatalogService{path: path}
}

// Add appends a food to the catalog.
func (s *CatalogService) Add(food *models.Food) error {
	if food == nil {
		return ErrNilFood
	}
	s.foods = append(s.foods, food)
	return nil
}

// Remove deletes a food by identity and reports whether it was present.
func (s *CatalogService) Remove(food *models.Food) bool {
	for i, f := range s.foods {
		if f == food {
			s.foods = append(s.foods[:i], s.foods[i+1:]...)
			return true
		}
	}
	return false
}

// AllFoods returns an order-preserving copy of the catalog.
func (s *CatalogService) AllFoods() []*models.Food {
	return append([]*models.Food(nil), s.foods...)
}

// BasicFoods returns the basic foods in catalog order.
func (s *CatalogService) BasicFoods() []*models.Food {
	var result []*models.Food
	for _, f := range s.foods {
		if f.Kind == models.FoodKindBasic {
			result = append(result, f)
		}
	}
	return result
}

// CompositeFoods returns the composite foods in catalog order.
func (s *CatalogService) CompositeFoods() []*models.Food {
	var result []*models.Food
	for _, f := range s.foods {
		if f.Kind == models.FoodKindComposite {
			result = append(result, f)
		}
	}
	return result
}

// FindByKeywords returns foods matching the search terms. With matchAll set,
// every term must match; otherwise one suffices. An empty term list returns
// the whole catalog rather than applying the vacuous-match rules.
func (s *CatalogService) FindByKeywords(keywords []string, matchAll bool) []*models.Food {
	if len(keywords) == 0 {
		return s.AllFoods()
	}
	var result []*models.Food
	for _, f := range s.foods {
		if matchAll {
			if f.MatchesAllKeywords(keywords) {
				result = append(result, f)
			}
		} else if f.MatchesAnyKeyword(keywords) {
			result = append(result, f)
		}
	}
	return result
}

// GetByID returns the first food with the given id.
func (s *CatalogService) GetByID(id string) (*models.Food, bool) {
	for _, f := range s.foods {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// CaloriesPerServing resolves a food's calorie value through this catalog.
func (s *CatalogService) CaloriesPerServing(food *models.Food) float64 {
	return food.CaloriesPerServing(s)
}

// AddComponent adds servings of the component food to a composite. The
// component must exist in the catalog, and the addition is rejected if it
// would let the composite transitively contain itself.
func (s *CatalogService) AddComponent(composite *models.Food, componentID string, servings float64) error {
	if composite == nil {
		return ErrNilFood
	}
	if composite.Kind != models.FoodKindComposite {
		return ErrNotComposite
	}
	if _, ok := s.GetByID(componentID); !ok {
		return fmt.Errorf("component %q: %w", componentID, ErrFoodNotFound)
	}
	if componentID == composite.ID || s.reaches(componentID, composite.ID) {
		return fmt.Errorf("component %q: %w", componentID, ErrComponentCycle)
	}
	composite.AddComponent(componentID, servings)
	return nil
}

// RemoveComponent drops a component from a composite; absent ids are a no-op.
func (s *CatalogService) RemoveComponent(composite *models.Food, componentID string) error {
	if composite == nil {
		return ErrNilFood
	}
	if composite.Kind != models.FoodKindComposite {
		return ErrNotComposite
	}
	composite.RemoveComponent(componentID)
	return nil
}

// reaches reports whether the component graph starting at fromID reaches
// targetID.
func (s *CatalogService) reaches(fromID, targetID string) bool {
	food, ok := s.GetByID(fromID)
	if !ok {
		return false
	}
	for _, c := range food.Components {
		if c.FoodID == targetID || s.reaches(c.FoodID, targetID) {
			return true
		}
	}
	return false
}

// ImportFromSource appends every food the source provides.
func (s *CatalogService) ImportFromSource(src FoodSource) error {
	if src == nil {
		return errors.New("source cannot be nil")
	}
	foods, err := src.FetchFoods()
	if err != nil {
		return fmt.Errorf("fetching foods: %w", err)
	}
	s.foods = append(s.foods, foods...)
	return nil
}

// Save writes the catalog in its current order, one colon-delimited line per
// food:
//
//	BASIC:<id>:<kw,kw,...>:<servingSize>:<calories>:<protein>:<carbs>:<fats>
//	COMPOSITE:<id>:<kw,kw,...>:<servingSize>:<compId>=<servings>:...
func (s *CatalogService) Save() error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, f := range s.foods {
		switch f.Kind {
		case models.FoodKindBasic:
			fmt.Fprintf(w, "BASIC:%s:%s:%s:%s:%s:%s:%s\n",
				f.ID, strings.Join(f.Keywords, ","), f.ServingSize,
				formatFloat(f.Calories), formatFloat(f.Protein),
				formatFloat(f.Carbs), formatFloat(f.Fats))
		case models.FoodKindComposite:
			fmt.Fprintf(w, "COMPOSITE:%s:%s:%s",
				f.ID, strings.Join(f.Keywords, ","), f.ServingSize)
			for _, c := range f.Components {
				fmt.Fprintf(w, ":%s=%s", c.FoodID, formatFloat(c.Servings))
			}
			fmt.Fprintln(w)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}

// Load replaces the catalog with the file's contents. An absent file leaves
// the catalog empty. Composite component lists reference other foods by id,
// and a referenced food may appear later in the file than the composite, so
// loading takes two passes: the first constructs every food (composites
// start with no components), the second links components against the fully
// populated catalog. Component ids that resolve to nothing are dropped
// silently; malformed numeric fields fail the load, leaving whatever was
// populated so far.
func (s *CatalogService) Load() error {
	lines, err := readLines(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading catalog: %w", err)
	}

	s.foods = nil
	composites := make(map[string]*models.Food)

	for _, line := range lines {
		parts := strings.Split(line, ":")
		switch parts[0] {
		case "BASIC":
			if len(parts) < 8 {
				return fmt.Errorf("loading catalog: malformed basic food line %q", line)
			}
			nums := make([]float64, 4)
			for i, field := range parts[4:8] {
				v, err := strconv.ParseFloat(field, 64)
				if err != nil {
					return fmt.Errorf("loading catalog: line %q: %w", line, err)
				}
				nums[i] = v
			}
			s.foods = append(s.foods, models.NewBasicFood(
				parts[1], strings.Split(parts[2], ","), parts[3],
				nums[0], nums[1], nums[2], nums[3]))
		case "COMPOSITE":
			if len(parts) < 4 {
				return fmt.Errorf("loading catalog: malformed composite food line %q", line)
			}
			composite := models.NewCompositeFood(parts[1], strings.Split(parts[2], ","), parts[3])
			s.foods = append(s.foods, composite)
			composites[parts[1]] = composite
		}
	}

	for _, line := range lines {
		parts := strings.Split(line, ":")
		if parts[0] != "COMPOSITE" {
			continue
		}
		composite := composites[parts[1]]
		for _, token := range parts[4:] {
			idServings := strings.SplitN(token, "=", 2)
			if len(idServings) != 2 {
				return fmt.Errorf("loading catalog: malformed component %q", token)
			}
			servings, err := strconv.ParseFloat(idServings[1], 64)
			if err != nil {
				return fmt.Errorf("loading catalog: component %q: %w", token, err)
			}
			if _, ok := s.GetByID(idServings[0]); ok {
				composite.AddComponent(idServings[0], servings)
			}
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
