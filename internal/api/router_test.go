package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pantry-chef/internal/core/ai"
	"pantry-chef/internal/core/ai/gateway"
	"pantry-chef/internal/core/ai/service"
	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const recipeJSON = `{"title":"Lemon Chicken","description":"Bright and quick","prepTime":"10 mins","cookTime":"20 mins","totalTime":"30 mins","servings":2,"difficulty":"Easy","ingredients":[{"item":"chicken","amount":"2 breasts"},{"item":"lemon","amount":"1"}],"instructions":[{"step":1,"text":"Season the chicken."},{"step":2,"text":"Pan fry with lemon."}],"tips":["Rest the meat."],"nutritionInfo":{"calories":"400","protein":"45g","carbs":"5g","fat":"18g"}}`

func init() {
	gin.SetMode(gin.TestMode)
}

// upstream 模擬 AI 閘道
type upstream struct {
	server *httptest.Server
	calls  int32
	status int
	body   string
}

func newUpstream(t *testing.T, status int, body string) *upstream {
	t.Helper()
	u := &upstream{status: status, body: body}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&u.calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.body))
	}))
	t.Cleanup(u.server.Close)
	return u
}

func completion(content string) string {
	data, _ := json.Marshal(ai.ChatCompletionResponse{
		Choices: []ai.Choice{{Message: common.ChatMessage{Role: common.RoleAssistant, Content: content}}},
	})
	return string(data)
}

func newTestRouter(t *testing.T, baseURL, apiKey string) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   64 << 10,
		},
		Gateway: config.GatewayConfig{
			APIKey:       apiKey,
			BaseURL:      baseURL,
			Model:        "google/gemini-3-flash-preview",
			Temperature:  0.7,
			Timeout:      5 * time.Second,
			MaxRetries:   0,
			RetryWait:    time.Millisecond,
			RetryMaxWait: time.Millisecond,
		},
		DedupWindow: time.Millisecond,
	}
	aiService := service.NewService(cfg, gateway.NewClient(cfg), nil)
	router, err := SetupRouter(cfg, aiService)
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	return router
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validRequest = `{"ingredients":["chicken","lemon"],"dietaryPreference":"none","cuisineType":"any","servings":2,"cookingTime":"quick"}`

func TestGenerateRecipeSuccess(t *testing.T) {
	for _, path := range []string{GenerateRecipePath, LegacyGenerateRecipePath} {
		t.Run(path, func(t *testing.T) {
			up := newUpstream(t, http.StatusOK, completion("```json\n"+recipeJSON+"\n```"))
			router := newTestRouter(t, up.server.URL, "secret")

			w := post(router, path, validRequest)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}

			var resp struct {
				Recipe common.Recipe `json:"recipe"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Recipe.Title != "Lemon Chicken" || len(resp.Recipe.Instructions) != 2 {
				t.Fatalf("recipe = %+v", resp.Recipe)
			}
			if w.Header().Get("X-Request-ID") == "" {
				t.Fatal("response should carry a request id")
			}
			if atomic.LoadInt32(&up.calls) != 1 {
				t.Fatalf("upstream calls = %d, want 1", up.calls)
			}
		})
	}
}

func TestGenerateRecipeErrors(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		status     int
		body       string
		request    string
		wantStatus int
		wantError  string
		wantCalls  int32
	}{
		{
			name:       "one ingredient",
			apiKey:     "secret",
			status:     http.StatusOK,
			body:       completion(recipeJSON),
			request:    `{"ingredients":["egg"],"dietaryPreference":"none","cuisineType":"any","servings":2,"cookingTime":"any"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Please provide at least 2 ingredients",
		},
		{
			name:       "invalid json",
			apiKey:     "secret",
			status:     http.StatusOK,
			body:       completion(recipeJSON),
			request:    `{"ingredients":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
		{
			name:       "missing credential",
			apiKey:     "",
			status:     http.StatusOK,
			body:       completion(recipeJSON),
			request:    validRequest,
			wantStatus: http.StatusInternalServerError,
			wantError:  "AI service not configured",
		},
		{
			name:       "upstream rate limited",
			apiKey:     "secret",
			status:     http.StatusTooManyRequests,
			body:       `{"error":"slow down"}`,
			request:    validRequest,
			wantStatus: http.StatusTooManyRequests,
			wantError:  "Rate limit exceeded. Please try again in a moment.",
			wantCalls:  1,
		},
		{
			name:       "upstream credits exhausted",
			apiKey:     "secret",
			status:     http.StatusPaymentRequired,
			body:       `{"error":"pay up"}`,
			request:    validRequest,
			wantStatus: http.StatusPaymentRequired,
			wantError:  "AI credits exhausted. Please try again later.",
			wantCalls:  1,
		},
		{
			name:       "upstream failure",
			apiKey:     "secret",
			status:     http.StatusBadGateway,
			body:       `oops`,
			request:    validRequest,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to generate recipe. Please try again.",
			wantCalls:  1,
		},
		{
			name:       "incomplete recipe",
			apiKey:     "secret",
			status:     http.StatusOK,
			body:       completion(`{"title":"X","ingredients":[]}`),
			request:    validRequest,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Invalid recipe structure",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.status, tt.body)
			router := newTestRouter(t, up.server.URL, tt.apiKey)

			w := post(router, GenerateRecipePath, tt.request)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantError {
				t.Fatalf("error = %v, want %q", body["error"], tt.wantError)
			}
			if _, ok := body["recipe"]; ok {
				t.Fatal("error response must not contain a recipe")
			}
			if n := atomic.LoadInt32(&up.calls); n != tt.wantCalls {
				t.Fatalf("upstream calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestPreflight(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", "secret")

	t.Run("cors request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, GenerateRecipePath, nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type,apikey")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("Access-Control-Allow-Origin = %q", got)
		}
		allowHeaders := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
		for _, h := range []string{"authorization", "x-client-info", "apikey", "content-type"} {
			if !strings.Contains(allowHeaders, h) {
				t.Fatalf("Access-Control-Allow-Headers %q missing %s", allowHeaders, h)
			}
		}
		if w.Body.Len() != 0 {
			t.Fatalf("preflight body should be empty, got %q", w.Body.String())
		}
	})

	t.Run("plain options", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, LegacyGenerateRecipePath, nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", w.Code)
		}
	})
}

func TestCORSHeadersOnResponse(t *testing.T) {
	up := newUpstream(t, http.StatusOK, completion(recipeJSON))
	router := newTestRouter(t, up.server.URL, "secret")

	req := httptest.NewRequest(http.MethodPost, GenerateRecipePath, strings.NewReader(validRequest))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestCORSHeadersWithoutOrigin(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1", "secret")

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
	}{
		{"post error", http.MethodPost, `{"ingredients":["egg"]}`, http.StatusBadRequest},
		{"options", http.MethodOptions, "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, GenerateRecipePath, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
				t.Fatalf("Access-Control-Allow-Origin = %q", got)
			}
			allowHeaders := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
			for _, h := range []string{"authorization", "x-client-info", "apikey", "content-type"} {
				if !strings.Contains(allowHeaders, h) {
					t.Fatalf("Access-Control-Allow-Headers %q missing %s", allowHeaders, h)
				}
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		path       string
		wantStatus int
	}{
		{"health", "", "/health", http.StatusOK},
		{"live", "", "/live", http.StatusOK},
		{"ready without key", "", "/ready", http.StatusServiceUnavailable},
		{"ready with key", "secret", "/ready", http.StatusOK},
		{"metrics", "", "/metrics", http.StatusOK},
		{"unknown route", "", "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, "http://127.0.0.1:1", tt.apiKey)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestSetupRouterRequiresService(t *testing.T) {
	if _, err := SetupRouter(&config.Config{}, nil); err == nil {
		t.Fatal("expected error without AI service")
	}
}
