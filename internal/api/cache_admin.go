package api

import (
	"net/http"
	"sort"
	"strings"
)

// cacheStats is the introspection response: live entry counts broken
// down by what kind of operation produced them.
type cacheStats struct {
	TotalCachedItems  int      `json:"totalCachedItems"`
	CachedQueries     int      `json:"cachedQueries"`
	CachedRecipes     int      `json:"cachedRecipes"`
	CachedIngredients int      `json:"cachedIngredients"`
	CacheKeys         []string `json:"cacheKeys"`
}

// Key classes for introspection. Operations are grouped by the kind of
// data they cache.
var (
	queryOperations      = []string{opSearch, opByIngredients, opAutocomplete, opMealPlan}
	recipeOperations     = []string{opRecipeByID, opRecipeNutrition, opRandom}
	ingredientOperations = []string{opIngredientSearch, opIngredientInfo}
)

// CacheStats handles GET /api/cache/stats.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	keys, err := h.Store.Keys(r.Context())
	if err != nil {
		writeFetchError(w, err)
		return
	}
	sort.Strings(keys)

	stats := cacheStats{
		TotalCachedItems: len(keys),
		CacheKeys:        keys,
	}
	for _, key := range keys {
		switch {
		case keyInClass(key, queryOperations):
			stats.CachedQueries++
		case keyInClass(key, recipeOperations):
			stats.CachedRecipes++
		case keyInClass(key, ingredientOperations):
			stats.CachedIngredients++
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// FlushCache handles DELETE /api/cache.
func (h *Handlers) FlushCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.FlushAll(r.Context()); err != nil {
		writeFetchError(w, err)
		return
	}

	h.logger.Info().Msg("Cache flushed")
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "cache flushed, all entries removed",
	})
}

// keyInClass reports whether a cache key was derived from one of the
// given operations. Keys are "recipe:<operation>[:params...]".
func keyInClass(key string, operations []string) bool {
	for _, op := range operations {
		prefix := "recipe:" + op
		if key == prefix || strings.HasPrefix(key, prefix+":") {
			return true
		}
	}
	return false
}
