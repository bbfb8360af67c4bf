package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutritrack/backend/internal/service"
)

type testEnv struct {
	router  *gin.Engine
	catalog *service.CatalogService
	profile *service.ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	catalog := service.NewCatalogService(filepath.Join(dir, "foods.txt"))
	dailyLog := service.NewDailyLogService(filepath.Join(dir, "daily_logs.txt"))
	profile := service.NewProfileService(filepath.Join(dir, "user_profile.txt"))

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewCatalogHandler(catalog).RegisterRoutes(v1)
	NewLogHandler(dailyLog, catalog, profile).RegisterRoutes(v1)
	NewProfileHandler(profile).RegisterRoutes(v1)

	return &testEnv{router: router, catalog: catalog, profile: profile}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndSearchFoods(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Apple", Keywords: []string{"fruit", "snack"}, ServingSize: "1 medium",
		Calories: 95, Protein: 0.5, Carbs: 25, Fats: 0.3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Bread", Keywords: []string{"bakery"}, ServingSize: "1 slice", Calories: 80,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/foods?keywords=fruit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var foods []FoodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &foods))
	require.Len(t, foods, 1)
	assert.Equal(t, "Apple", foods[0].ID)

	// No keywords returns the whole catalog.
	rec = env.do(t, http.MethodGet, "/api/v1/foods", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &foods))
	assert.Len(t, foods, 2)
}

func TestCompositeFoodOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Bread", ServingSize: "1 slice", Calories: 80,
	})
	env.do(t, http.MethodPost, "/api/v1/foods/composite", CreateCompositeFoodRequest{
		ID: "Sandwich", ServingSize: "1 sandwich",
	})

	rec := env.do(t, http.MethodPost, "/api/v1/foods/Sandwich/components", AddComponentRequest{
		ComponentID: "Bread", Servings: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var food FoodResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &food))
	assert.InDelta(t, 160, food.CaloriesPerServing, 1e-9)

	// A composite may not contain itself.
	rec = env.do(t, http.MethodPost, "/api/v1/foods/Sandwich/components", AddComponentRequest{
		ComponentID: "Sandwich", Servings: 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/foods/Sandwich/components/Bread", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &food))
	assert.Zero(t, food.CaloriesPerServing)
}

func TestLogEntryCreditsProfileCalories(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Apple", ServingSize: "1 medium", Calories: 95,
	})
	rec := env.do(t, http.MethodPost, "/api/v1/profile", CreateProfileRequest{
		Name: "Alex", Gender: "Male", Height: 175,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/log/entries", LogEntryRequest{
		FoodID: "Apple", Servings: 2, Date: "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/profile/calories?date=2024-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		ConsumedCalories float64 `json:"consumed_calories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.InDelta(t, 190, info.ConsumedCalories, 1e-9)

	// Removing the entry debits the same amount.
	rec = env.do(t, http.MethodDelete, "/api/v1/log/entries", LogEntryRequest{
		FoodID: "Apple", Servings: 2, Date: "2024-03-10",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/v1/profile/calories?date=2024-03-10", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Zero(t, info.ConsumedCalories)
}

func TestLogUndoOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Apple", ServingSize: "1 medium", Calories: 95,
	})

	rec := env.do(t, http.MethodGet, "/api/v1/log/undo", nil)
	assert.JSONEq(t, `{"can_undo":false}`, rec.Body.String())

	env.do(t, http.MethodPost, "/api/v1/log/entries", LogEntryRequest{
		FoodID: "Apple", Servings: 1, Date: "2024-03-10",
	})
	rec = env.do(t, http.MethodGet, "/api/v1/log/undo", nil)
	assert.JSONEq(t, `{"can_undo":true}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/log/undo", nil)
	assert.JSONEq(t, `{"can_undo":false}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/log/entries?date=2024-03-10", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLogUnknownFoodRejected(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/log/entries", LogEntryRequest{
		FoodID: "Ghost", Servings: 1, Date: "2024-03-10",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/profile", CreateProfileRequest{
		Name: "Alex", Gender: "Male", Height: 175,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/profile/entries/2024-03-10", UpdateProfileEntryRequest{
		Age: 30, Weight: 70, ActivityLevel: "SEDENTARY",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var entry struct {
		TargetCalories float64 `json:"target_calories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entry))
	assert.InDelta(t, 2094.33, entry.TargetCalories, 0.01)

	rec = env.do(t, http.MethodPut, "/api/v1/profile/method", SetCalorieMethodRequest{Method: "MIFFLIN_ST_JEOR"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/profile/method", SetCalorieMethodRequest{Method: "GUESSWORK"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/profile/save", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogSaveAndReloadOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/foods/basic", CreateBasicFoodRequest{
		ID: "Apple", ServingSize: "1 medium", Calories: 95,
	})

	rec := env.do(t, http.MethodPost, "/api/v1/foods/save", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/foods/Apple", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/foods/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/foods/Apple", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
