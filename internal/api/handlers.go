// Package api exposes the proxy's inbound HTTP surface: per-operation
// route handlers, cache introspection, and the router wiring them up.
package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kettleworks/recipe-proxy/pkg/cache"
	"github.com/kettleworks/recipe-proxy/pkg/fetch"
	"github.com/kettleworks/recipe-proxy/pkg/logging"
	"github.com/kettleworks/recipe-proxy/pkg/upstream"
)

// Handlers holds the shared collaborators of all route handlers.
// The store is only used for introspection; payload traffic goes
// through the fetcher.
type Handlers struct {
	Fetcher *fetch.Fetcher
	Store   cache.Store
	logger  zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(fetcher *fetch.Fetcher, store cache.Store) *Handlers {
	return &Handlers{
		Fetcher: fetcher,
		Store:   store,
		logger:  logging.NewLogger("api"),
	}
}

// fetchAndRespond runs the fetch-or-serve decision for one request and
// writes the annotated payload.
func (h *Handlers) fetchAndRespond(w http.ResponseWriter, r *http.Request, key cache.Key, loc upstream.Locator) {
	result, err := h.Fetcher.FetchWithCache(r.Context(), key, loc, ttlFor(key.Operation))
	if err != nil {
		h.logger.Warn().Err(err).Str("operation", key.Operation).Msg("Fetch failed")
		writeFetchError(w, err)
		return
	}
	writeResult(w, result)
}

// SearchRecipes handles GET /api/recipes/search.
func (h *Handlers) SearchRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeValidationError(w, "query parameter is required",
			"/api/recipes/search?query=pasta&cuisine=italian")
		return
	}

	key := cache.NewKey(opSearch).
		Text("query", query).
		Text("cuisine", q.Get("cuisine")).
		Text("diet", q.Get("diet")).
		Text("intolerances", q.Get("intolerances")).
		Param("number", q.Get("number"))

	params := url.Values{}
	params.Set("query", query)
	copyParams(params, q, "cuisine", "diet", "intolerances", "number")

	h.fetchAndRespond(w, r, key, upstream.Get(opSearch, "/recipes/complexSearch", params))
}

// RandomRecipes handles GET /api/recipes/random.
func (h *Handlers) RandomRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key := cache.NewKey(opRandom).
		Text("tags", q.Get("tags")).
		Param("number", q.Get("number"))

	params := url.Values{}
	copyParams(params, q, "tags", "number")

	h.fetchAndRespond(w, r, key, upstream.Get(opRandom, "/recipes/random", params))
}

// FindByIngredients handles GET /api/recipes/findByIngredients.
func (h *Handlers) FindByIngredients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ingredients := q.Get("ingredients")
	if ingredients == "" {
		writeValidationError(w, "ingredients parameter is required",
			"/api/recipes/findByIngredients?ingredients=tomato,cheese,basil")
		return
	}

	key := cache.NewKey(opByIngredients).
		Text("ingredients", ingredients).
		Param("number", q.Get("number")).
		Param("ranking", q.Get("ranking"))

	params := url.Values{}
	params.Set("ingredients", ingredients)
	copyParams(params, q, "number", "ranking")

	h.fetchAndRespond(w, r, key, upstream.Get(opByIngredients, "/recipes/findByIngredients", params))
}

// AutocompleteRecipes handles GET /api/recipes/autocomplete.
func (h *Handlers) AutocompleteRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeValidationError(w, "query parameter is required",
			"/api/recipes/autocomplete?query=chick")
		return
	}

	key := cache.NewKey(opAutocomplete).
		Text("query", query).
		Param("number", q.Get("number"))

	params := url.Values{}
	params.Set("query", query)
	copyParams(params, q, "number")

	h.fetchAndRespond(w, r, key, upstream.Get(opAutocomplete, "/recipes/autocomplete", params))
}

// RecipeByID handles GET /api/recipes/{id}.
func (h *Handlers) RecipeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id", "/api/recipes/12345")
	if !ok {
		return
	}

	key := cache.NewKey(opRecipeByID).Param("id", id)
	h.fetchAndRespond(w, r, key,
		upstream.Get(opRecipeByID, "/recipes/"+id+"/information", nil))
}

// RecipeNutrition handles GET /api/recipes/{id}/nutrition.
func (h *Handlers) RecipeNutrition(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id", "/api/recipes/12345/nutrition")
	if !ok {
		return
	}

	key := cache.NewKey(opRecipeNutrition).Param("id", id)
	h.fetchAndRespond(w, r, key,
		upstream.Get(opRecipeNutrition, "/recipes/"+id+"/nutritionWidget.json", nil))
}

// SearchIngredients handles GET /api/ingredients/search.
func (h *Handlers) SearchIngredients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeValidationError(w, "query parameter is required",
			"/api/ingredients/search?query=flour")
		return
	}

	key := cache.NewKey(opIngredientSearch).
		Text("query", query).
		Param("number", q.Get("number"))

	params := url.Values{}
	params.Set("query", query)
	copyParams(params, q, "number")

	h.fetchAndRespond(w, r, key,
		upstream.Get(opIngredientSearch, "/food/ingredients/search", params))
}

// IngredientInfo handles GET /api/ingredients/{id}/information.
func (h *Handlers) IngredientInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := numericParam(w, r, "id", "/api/ingredients/9266/information?amount=100&unit=g")
	if !ok {
		return
	}

	q := r.URL.Query()
	key := cache.NewKey(opIngredientInfo).
		Param("id", id).
		Param("amount", q.Get("amount")).
		Text("unit", q.Get("unit"))

	params := url.Values{}
	copyParams(params, q, "amount", "unit")

	h.fetchAndRespond(w, r, key,
		upstream.Get(opIngredientInfo, "/food/ingredients/"+id+"/information", params))
}

// mealPlanRequest is the inbound body for POST /api/mealplanner/generate.
type mealPlanRequest struct {
	TimeFrame      string `json:"timeFrame"`
	TargetCalories int    `json:"targetCalories"`
	Diet           string `json:"diet"`
}

// GenerateMealPlan handles POST /api/mealplanner/generate.
func (h *Handlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req mealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "invalid JSON body",
			`{"timeFrame": "day", "targetCalories": 2000, "diet": "vegetarian"}`)
		return
	}
	if req.TimeFrame == "" {
		writeValidationError(w, "timeFrame field is required",
			`{"timeFrame": "day", "targetCalories": 2000, "diet": "vegetarian"}`)
		return
	}

	calories := ""
	if req.TargetCalories > 0 {
		calories = strconv.Itoa(req.TargetCalories)
	}

	key := cache.NewKey(opMealPlan).
		Text("timeFrame", req.TimeFrame).
		Text("diet", req.Diet).
		Param("targetCalories", calories)

	params := url.Values{}
	params.Set("timeFrame", req.TimeFrame)
	if req.Diet != "" {
		params.Set("diet", req.Diet)
	}
	if calories != "" {
		params.Set("targetCalories", calories)
	}

	h.fetchAndRespond(w, r, key,
		upstream.Get(opMealPlan, "/mealplanner/generate", params))
}

// numericParam extracts a numeric chi URL parameter, answering a
// validation error when it is missing or not a number.
func numericParam(w http.ResponseWriter, r *http.Request, name, example string) (string, bool) {
	value := chi.URLParam(r, name)
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		writeValidationError(w, name+" must be a numeric id", example)
		return "", false
	}
	return value, true
}

// copyParams copies the named query parameters that are present.
func copyParams(dst, src url.Values, names ...string) {
	for _, name := range names {
		if v := src.Get(name); v != "" {
			dst.Set(name, v)
		}
	}
}
