package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kettleworks/recipe-proxy/internal/testutil"
	"github.com/kettleworks/recipe-proxy/pkg/cache"
	"github.com/kettleworks/recipe-proxy/pkg/fetch"
	"github.com/kettleworks/recipe-proxy/pkg/upstream"
)

// testProxy wires a full inbound surface against a mock upstream with
// a fresh memory store per test.
type testProxy struct {
	router   http.Handler
	upstream *testutil.MockUpstream
	store    *cache.MemoryStore
}

func newTestProxy(t *testing.T) *testProxy {
	t.Helper()

	mock := testutil.NewMockUpstream()
	t.Cleanup(mock.Close)

	client, err := upstream.New(upstream.Config{
		BaseURL: mock.URL(),
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("upstream.New() error = %v", err)
	}

	store := cache.NewMemoryStore(0)
	t.Cleanup(store.Close)

	handlers := NewHandlers(fetch.New(store, client), store)

	return &testProxy{
		router:   NewRouter(handlers),
		upstream: mock,
		store:    store,
	}
}

func (p *testProxy) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	p.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON object: %v\n%s", err, rec.Body.String())
	}
	return body
}

func TestSearchRecipes_MissingQuery(t *testing.T) {
	proxy := newTestProxy(t)

	rec := proxy.do(t, "GET", "/api/recipes/search", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("validation response missing error field")
	}
	if example, _ := body["example"].(string); example == "" {
		t.Error("validation response missing example field")
	}

	// Invalid requests never reach the cache or the upstream.
	if proxy.upstream.RequestCount() != 0 {
		t.Errorf("upstream calls = %d, want 0", proxy.upstream.RequestCount())
	}
	keys, _ := proxy.store.Keys(t.Context())
	if len(keys) != 0 {
		t.Errorf("store keys = %v, want none", keys)
	}
}

func TestSearchRecipes_CacheFlow(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/recipes/complexSearch",
		testutil.NewRecipeResponse(`{"results": [{"id": 1, "title": "Chicken Soup"}]}`))

	first := proxy.do(t, "GET", "/api/recipes/search?query=Chicken", "")
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200\n%s", first.Code, first.Body.String())
	}
	if body := decodeBody(t, first); body["fromCache"] != false {
		t.Errorf("first fromCache = %v, want false", body["fromCache"])
	}

	// Different casing of the free-text query hits the same entry.
	second := proxy.do(t, "GET", "/api/recipes/search?query=chicken", "")
	if second.Code != http.StatusOK {
		t.Fatalf("second status = %d, want 200", second.Code)
	}
	body := decodeBody(t, second)
	if body["fromCache"] != true {
		t.Errorf("second fromCache = %v, want true", body["fromCache"])
	}
	if ts, _ := body["timestamp"].(string); ts == "" {
		t.Error("annotated response missing timestamp")
	}

	if proxy.upstream.RequestCount() != 1 {
		t.Errorf("upstream calls = %d, want 1", proxy.upstream.RequestCount())
	}
}

func TestRecipeByID_Validation(t *testing.T) {
	proxy := newTestProxy(t)

	rec := proxy.do(t, "GET", "/api/recipes/not-a-number", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if proxy.upstream.RequestCount() != 0 {
		t.Errorf("upstream calls = %d, want 0", proxy.upstream.RequestCount())
	}
}

func TestRecipeByID_PassThrough(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/recipes/12345/information",
		testutil.NewRecipeResponse(`{"id": 12345, "title": "Ratatouille", "servings": 4}`))

	rec := proxy.do(t, "GET", "/api/recipes/12345", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["title"] != "Ratatouille" {
		t.Errorf("payload not passed through: %v", body)
	}
	if body["fromCache"] != false {
		t.Errorf("fromCache = %v, want false", body["fromCache"])
	}
}

func TestUpstreamFailure_MapsTo502(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/recipes/complexSearch", testutil.NewServerErrorResponse())

	rec := proxy.do(t, "GET", "/api/recipes/search?query=soup", "")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	body := decodeBody(t, rec)
	if msg, _ := body["error"].(string); msg == "" {
		t.Error("upstream error response missing error field")
	}
	if body["details"] != "Internal server error" {
		t.Errorf("details = %v, want upstream message", body["details"])
	}

	// Failures are never cached.
	keys, _ := proxy.store.Keys(t.Context())
	if len(keys) != 0 {
		t.Errorf("store keys after failure = %v, want none", keys)
	}
}

func TestGenerateMealPlan(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/mealplanner/generate",
		testutil.NewRecipeResponse(`{"meals": [], "nutrients": {}}`))

	missing := proxy.do(t, "POST", "/api/mealplanner/generate", `{"diet": "vegan"}`)
	if missing.Code != http.StatusBadRequest {
		t.Fatalf("status without timeFrame = %d, want 400", missing.Code)
	}

	ok := proxy.do(t, "POST", "/api/mealplanner/generate",
		`{"timeFrame": "day", "targetCalories": 2000}`)
	if ok.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", ok.Code, ok.Body.String())
	}

	query := proxy.upstream.LastQuery()
	if query["timeFrame"][0] != "day" || query["targetCalories"][0] != "2000" {
		t.Errorf("upstream query = %v", query)
	}
}

func TestCacheStats(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/recipes/complexSearch", testutil.NewRecipeResponse(`{"results": []}`))
	proxy.upstream.SetResponse("/recipes/42/information", testutil.NewRecipeResponse(`{"id": 42}`))
	proxy.upstream.SetResponse("/food/ingredients/9266/information", testutil.NewRecipeResponse(`{"id": 9266}`))

	proxy.do(t, "GET", "/api/recipes/search?query=soup", "")
	proxy.do(t, "GET", "/api/recipes/42", "")
	proxy.do(t, "GET", "/api/ingredients/9266/information", "")

	rec := proxy.do(t, "GET", "/api/cache/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats cacheStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}

	if stats.TotalCachedItems != 3 {
		t.Errorf("TotalCachedItems = %d, want 3", stats.TotalCachedItems)
	}
	if stats.CachedQueries != 1 {
		t.Errorf("CachedQueries = %d, want 1", stats.CachedQueries)
	}
	if stats.CachedRecipes != 1 {
		t.Errorf("CachedRecipes = %d, want 1", stats.CachedRecipes)
	}
	if stats.CachedIngredients != 1 {
		t.Errorf("CachedIngredients = %d, want 1", stats.CachedIngredients)
	}
	if len(stats.CacheKeys) != 3 {
		t.Errorf("CacheKeys = %v, want 3 keys", stats.CacheKeys)
	}
}

func TestFlushCache(t *testing.T) {
	proxy := newTestProxy(t)
	proxy.upstream.SetResponse("/recipes/complexSearch", testutil.NewRecipeResponse(`{"results": []}`))

	proxy.do(t, "GET", "/api/recipes/search?query=soup", "")

	rec := proxy.do(t, "DELETE", "/api/cache", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("flush status = %d, want 200", rec.Code)
	}
	if msg, _ := decodeBody(t, rec)["message"].(string); msg == "" {
		t.Error("flush response missing confirmation message")
	}

	// All previously cached entries are gone: the next identical
	// request goes back upstream.
	before := proxy.upstream.RequestCount()
	next := proxy.do(t, "GET", "/api/recipes/search?query=soup", "")
	if body := decodeBody(t, next); body["fromCache"] != false {
		t.Errorf("fromCache after flush = %v, want false", body["fromCache"])
	}
	if proxy.upstream.RequestCount() != before+1 {
		t.Errorf("upstream calls = %d, want %d", proxy.upstream.RequestCount(), before+1)
	}
}

func TestHealth(t *testing.T) {
	proxy := newTestProxy(t)

	rec := proxy.do(t, "GET", "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
