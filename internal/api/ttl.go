package api

import "time"

// Operation tags. Each logical upstream capability gets one fixed tag,
// used both for cache key derivation and metrics labels.
const (
	opSearch           = "search"
	opRandom           = "random"
	opByIngredients    = "byIngredients"
	opAutocomplete     = "autocomplete"
	opRecipeByID       = "recipeById"
	opRecipeNutrition  = "recipeNutrition"
	opIngredientSearch = "ingredientSearch"
	opIngredientInfo   = "ingredientInfo"
	opMealPlan         = "mealPlan"
)

// defaultTTL applies to every operation without an override.
const defaultTTL = time.Hour

// ttlOverrides is the per-operation TTL table. Random results are
// cached briefly with a stable key, so repeat callers inside the window
// share one upstream call instead of defeating the cache with
// per-call keys.
var ttlOverrides = map[string]time.Duration{
	opRandom: 5 * time.Minute,
}

// ttlFor returns the cache TTL for an operation.
func ttlFor(operation string) time.Duration {
	if ttl, ok := ttlOverrides[operation]; ok {
		return ttl
	}
	return defaultTTL
}
