package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nutripae/internal/config"
	"nutripae/internal/middleware"
	"nutripae/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret"

// fakeServices plays the four upstream services with a tiny in-memory state.
type fakeServices struct {
	mu    sync.Mutex
	srv   *httptest.Server
	towns []map[string]any
	hits  map[string]int
}

func newFakeServices(t *testing.T) *fakeServices {
	f := &fakeServices{
		towns: []map[string]any{{"id": 1, "dane_code": "19001", "name": "Popayán", "department_id": 19, "institutions_count": 4}},
		hits:  make(map[string]int),
	}
	mux := methodMux{}
	mux.HandleFunc("GET /coverage/towns", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.towns)
	})
	mux.HandleFunc("POST /coverage/towns", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		defer f.mu.Unlock()
		body["id"] = len(f.towns) + 1
		f.towns = append(f.towns, body)
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("GET /menus/menu-schedules/s1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "s1", "menu_cycle_id": "c1", "status": model.ScheduleCompleted})
	})
	mux.HandleFunc("GET /menus/ingredients/check-name", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"available": r.URL.Query().Get("name") != "Arroz"})
	})
	mux.HandleFunc("POST /menus/ingredients", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = "ing-9"
		body["status"] = model.StatusActive
		writeJSON(w, http.StatusCreated, body)
	})

	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeServices) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeServices) {
	gin.SetMode(gin.TestMode)
	f := newFakeServices(t)
	cfg := &config.Config{
		Env:                 "test",
		JWTSecret:           testSecret,
		CoverageURL:         f.srv.URL + "/coverage",
		HRURL:               f.srv.URL + "/hr",
		MenusURL:            f.srv.URL + "/menus",
		PurchasesURL:        f.srv.URL + "/purchases",
		HTTPTimeoutSeconds:  5,
		CacheBackend:        "memory",
		CacheStaleSeconds:   60,
		NameCheckDebounceMS: 0,
		PDFStoragePath:      t.TempDir(),
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, cfg, nil, nil, nil), f
}

func token(t *testing.T, rol string) string {
	t.Helper()
	claims := middleware.JWTClaims{
		UserID:   "5b7c8e0a-1111-4c2d-9e3f-222233334444",
		Username: "operador",
		Rol:      rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func do(r http.Handler, method, path, tok, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes_RequireAuthAndRole(t *testing.T) {
	r, f := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/towns", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/towns", token(t, model.RolConsulta), "").Code)

	w := do(r, http.MethodPost, "/v1/towns", token(t, model.RolConsulta), `{"dane_code":"19807","name":"Timbío","department_id":19}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, f.count("POST /coverage/towns"))
}

func TestTowns_CreateIsVisibleInNextList(t *testing.T) {
	r, f := newTestRouter(t)
	tok := token(t, model.RolCoordinador)

	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, "/v1/towns", tok, "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, f.count("GET /coverage/towns"), "second read is served from cache")

	w := do(r, http.MethodPost, "/v1/towns", tok, `{"dane_code":"19807","name":"Timbío","department_id":19}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/v1/towns", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	var towns []model.Town
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &towns))
	assert.Len(t, towns, 2)
	assert.Equal(t, "Timbío", towns[1].Name)
}

func TestTowns_InvalidPayloadNeverReachesUpstream(t *testing.T) {
	r, f := newTestRouter(t)

	w := do(r, http.MethodPost, "/v1/towns", token(t, model.RolAdministrador), `{"dane_code":"19807","department_id":19}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body struct {
		Kind   string            `json:"kind"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation", body.Kind)
	assert.Contains(t, body.Fields, "name")
	assert.Zero(t, f.count("POST /coverage/towns"))
}

func TestMenuSchedule_CancelCompletedIsConflict(t *testing.T) {
	r, f := newTestRouter(t)

	w := do(r, http.MethodPost, "/v1/menu-schedules/s1/cancel", token(t, model.RolCoordinador), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Zero(t, f.count("POST /menus/menu-schedules/s1/cancel"))
}

func TestIngredients_NameTakenBlocksCreate(t *testing.T) {
	r, f := newTestRouter(t)
	tok := token(t, model.RolCoordinador)

	w := do(r, http.MethodPost, "/v1/ingredients", tok, `{"name":"Arroz","base_unit_of_measure":"kg","category":"Cereales"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Ya existe un ingrediente con este nombre")
	assert.Zero(t, f.count("POST /menus/ingredients"))

	w = do(r, http.MethodPost, "/v1/ingredients", tok, `{"name":"Arroz integral","base_unit_of_measure":"kg","category":"Cereales"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1, f.count("POST /menus/ingredients"))
}

func TestUpstreamNotFoundIsPassedThrough(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/v1/providers/p404", token(t, model.RolConsulta), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth_ReportsUpstreams(t *testing.T) {
	r, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		OK       bool                      `json:"ok"`
		DB       string                    `json:"db"`
		Services map[string]map[string]any `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "disabled", body.DB)
	assert.Len(t, body.Services, 4)
	assert.Equal(t, true, body.Services["menus"]["reachable"])
}

func TestAuthRoutesNeedDatabase(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/v1/auth/login", "", `{"username":"a","password":"secret"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// methodMux routes exact "METHOD /path" patterns (stand-in for the Go 1.22
// ServeMux method patterns, which the Go 1.21 toolchain does not support).
type methodMux map[string]http.HandlerFunc

func (m methodMux) HandleFunc(pattern string, h http.HandlerFunc) { m[pattern] = h }

func (m methodMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := m[r.Method+" "+r.URL.Path]; ok {
		h(w, r)
		return
	}
	http.NotFound(w, r)
}
