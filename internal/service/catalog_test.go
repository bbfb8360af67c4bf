package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/backend/internal/models"
)

func newTestCatalog(t *testing.T) *CatalogService {
	t.Helper()
	return NewCatalogService(filepath.Join(t.TempDir(), "foods.txt"))
}

func TestAddRejectsNil(t *testing.T) {
	catalog := newTestCatalog(t)
	assert.ErrorIs(t, catalog.Add(nil), ErrNilFood)
}

func TestRemoveByIdentity(t *testing.T) {
	catalog := newTestCatalog(t)
	apple := models.NewBasicFood("Apple", []string{"fruit"}, "1 medium", 95, 0.5, 25, 0.3)
	require.NoError(t, catalog.Add(apple))

	assert.True(t, catalog.Remove(apple))
	assert.False(t, catalog.Remove(apple))
	assert.Empty(t, catalog.AllFoods())
}

func TestFindByKeywordsEmptyReturnsAll(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Add(models.NewBasicFood("Apple", []string{"fruit"}, "1 medium", 95, 0.5, 25, 0.3)))
	require.NoError(t, catalog.Add(models.NewBasicFood("Bread", []string{"bakery"}, "1 slice", 80, 3, 15, 1)))

	// Empty queries short-circuit to the whole catalog even though the
	// underlying any-match rule would match nothing.
	assert.Len(t, catalog.FindByKeywords(nil, true), 2)
	assert.Len(t, catalog.FindByKeywords(nil, false), 2)
}

func TestFindByKeywordsMatchModes(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Add(models.NewBasicFood("Apple", []string{"fruit", "snack"}, "1 medium", 95, 0.5, 25, 0.3)))
	require.NoError(t, catalog.Add(models.NewBasicFood("Banana", []string{"fruit"}, "1 medium", 105, 1.3, 27, 0.4)))

	all := catalog.FindByKeywords([]string{"fruit", "snack"}, true)
	require.Len(t, all, 1)
	assert.Equal(t, "Apple", all[0].ID)

	any := catalog.FindByKeywords([]string{"fruit", "snack"}, false)
	assert.Len(t, any, 2)
}

func TestGetByIDFirstMatchWithDuplicates(t *testing.T) {
	catalog := newTestCatalog(t)
	first := models.NewBasicFood("Apple", nil, "1 medium", 95, 0.5, 25, 0.3)
	second := models.NewBasicFood("Apple", nil, "1 large", 120, 0.6, 31, 0.4)
	require.NoError(t, catalog.Add(first))
	require.NoError(t, catalog.Add(second))

	found, ok := catalog.GetByID("Apple")
	require.True(t, ok)
	assert.Same(t, first, found)
}

func TestBasicRoundTripPreservesOrder(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Add(models.NewBasicFood("Bread", []string{"bread", "bakery"}, "1 slice", 80, 3, 15, 1)))
	require.NoError(t, catalog.Add(models.NewBasicFood("Peanut Butter", []string{"spread"}, "2 tbsp", 190.5, 8, 7, 16)))
	require.NoError(t, catalog.Save())

	loaded := NewCatalogService(catalog.path)
	require.NoError(t, loaded.Load())

	foods := loaded.AllFoods()
	require.Len(t, foods, 2)
	assert.Equal(t, "Bread", foods[0].ID)
	assert.Equal(t, []string{"bread", "bakery"}, foods[0].Keywords)
	assert.Equal(t, "1 slice", foods[0].ServingSize)
	assert.Equal(t, 80.0, foods[0].Calories)
	assert.Equal(t, "Peanut Butter", foods[1].ID)
	assert.Equal(t, 190.5, foods[1].Calories)
	assert.Equal(t, 16.0, foods[1].Fats)
}

func TestCompositeRoundTrip(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Add(models.NewBasicFood("Bread", nil, "1 slice", 80, 3, 15, 1)))
	require.NoError(t, catalog.Add(models.NewBasicFood("Peanut Butter", nil, "2 tbsp", 190, 8, 7, 16)))
	sandwich := models.NewCompositeFood("PB Sandwich", []string{"sandwich"}, "1 sandwich")
	require.NoError(t, catalog.Add(sandwich))
	require.NoError(t, catalog.AddComponent(sandwich, "Bread", 2.0))
	require.NoError(t, catalog.AddComponent(sandwich, "Peanut Butter", 1.0))
	require.NoError(t, catalog.Save())

	loaded := NewCatalogService(catalog.path)
	require.NoError(t, loaded.Load())

	food, ok := loaded.GetByID("PB Sandwich")
	require.True(t, ok)
	assert.Equal(t, []models.Component{
		{FoodID: "Bread", Servings: 2.0},
		{FoodID: "Peanut Butter", Servings: 1.0},
	}, food.Components)
	assert.InDelta(t, 350, loaded.CaloriesPerServing(food), 1e-9)
}

func TestLoadCompositeBeforeItsComponents(t *testing.T) {
	// The composite line references foods that only appear later in the
	// file; the second pass resolves them against the full catalog.
	path := filepath.Join(t.TempDir(), "foods.txt")
	content := "COMPOSITE:PB Sandwich:sandwich:1 sandwich:Bread=2:Peanut Butter=1\n" +
		"BASIC:Bread:bread:1 slice:80:3:15:1\n" +
		"BASIC:Peanut Butter:spread:2 tbsp:190:8:7:16\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog := NewCatalogService(path)
	require.NoError(t, catalog.Load())

	food, ok := catalog.GetByID("PB Sandwich")
	require.True(t, ok)
	require.Len(t, food.Components, 2)
	assert.InDelta(t, 350, catalog.CaloriesPerServing(food), 1e-9)
}

func TestLoadDropsUnknownComponentIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.txt")
	content := "COMPOSITE:Mystery Mix:mix:1 bowl:Ghost=2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog := NewCatalogService(path)
	require.NoError(t, catalog.Load())

	food, ok := catalog.GetByID("Mystery Mix")
	require.True(t, ok)
	assert.Empty(t, food.Components)
}

func TestLoadFailsOnMalformedNumericField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.txt")
	content := "BASIC:Bread:bread:1 slice:eighty:3:15:1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	catalog := NewCatalogService(path)
	assert.Error(t, catalog.Load())
}

func TestLoadAbsentFileLeavesCatalogEmpty(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Load())
	assert.Empty(t, catalog.AllFoods())
}

func TestLoadClearsExistingContents(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.Add(models.NewBasicFood("Bread", nil, "1 slice", 80, 3, 15, 1)))
	require.NoError(t, catalog.Save())

	require.NoError(t, catalog.Add(models.NewBasicFood("Stale", nil, "1", 1, 0, 0, 0)))
	require.NoError(t, catalog.Load())

	assert.Len(t, catalog.AllFoods(), 1)
}

func TestAddComponentRejectsCycles(t *testing.T) {
	catalog := newTestCatalog(t)
	inner := models.NewCompositeFood("Inner", nil, "1")
	outer := models.NewCompositeFood("Outer", nil, "1")
	require.NoError(t, catalog.Add(inner))
	require.NoError(t, catalog.Add(outer))
	require.NoError(t, catalog.AddComponent(outer, "Inner", 1))

	assert.ErrorIs(t, catalog.AddComponent(outer, "Outer", 1), ErrComponentCycle)
	assert.ErrorIs(t, catalog.AddComponent(inner, "Outer", 1), ErrComponentCycle)
}

func TestAddComponentValidation(t *testing.T) {
	catalog := newTestCatalog(t)
	bread := models.NewBasicFood("Bread", nil, "1 slice", 80, 3, 15, 1)
	sandwich := models.NewCompositeFood("Sandwich", nil, "1")
	require.NoError(t, catalog.Add(bread))
	require.NoError(t, catalog.Add(sandwich))

	assert.ErrorIs(t, catalog.AddComponent(bread, "Sandwich", 1), ErrNotComposite)
	assert.ErrorIs(t, catalog.AddComponent(sandwich, "Ghost", 1), ErrFoodNotFound)
	assert.NoError(t, catalog.AddComponent(sandwich, "Bread", 1))
}

type staticSource struct {
	foods []*models.Food
}

func (s staticSource) FetchFoods() ([]*models.Food, error) {
	return s.foods, nil
}

func TestImportFromSource(t *testing.T) {
	catalog := newTestCatalog(t)
	require.NoError(t, catalog.ImportFromSource(staticSource{foods: []*models.Food{
		models.NewBasicFood("Oats", []string{"cereal"}, "40g", 150, 5, 27, 3),
	}}))

	assert.Len(t, catalog.AllFoods(), 1)
	assert.Error(t, catalog.ImportFromSource(nil))
}
