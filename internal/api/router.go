package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the inbound HTTP surface.
func NewRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/search", h.SearchRecipes)
			r.Get("/random", h.RandomRecipes)
			r.Get("/findByIngredients", h.FindByIngredients)
			r.Get("/autocomplete", h.AutocompleteRecipes)
			r.Get("/{id}", h.RecipeByID)
			r.Get("/{id}/nutrition", h.RecipeNutrition)
		})

		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/search", h.SearchIngredients)
			r.Get("/{id}/information", h.IngredientInfo)
		})

		r.Post("/mealplanner/generate", h.GenerateMealPlan)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", h.CacheStats)
			r.Delete("/", h.FlushCache)
		})
	})

	return r
}
