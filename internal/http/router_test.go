package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/blueprints-backend/internal/data/aggregates"
	"github.com/yungbote/blueprints-backend/internal/data/repos"
	repotest "github.com/yungbote/blueprints-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/blueprints-backend/internal/http/handlers"
	httpMW "github.com/yungbote/blueprints-backend/internal/http/middleware"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/services"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := repotest.DB(t)
	log := repotest.Logger(t)
	agg := aggregates.NewBlueprintAggregate(aggregates.BlueprintAggregateDeps{
		Base:       aggregates.BaseDeps{DB: db, Log: log},
		Blueprints: repos.NewBlueprintRepo(db, log),
		Points:     repos.NewBlueprintPointRepo(db, log),
	})
	svc := services.NewBlueprintService(log, agg, nil, nil)
	return NewRouter(RouterConfig{
		Log:              log,
		Metrics:          observability.NewMetrics(prometheus.NewRegistry()),
		RequestTimeout:   5 * time.Second,
		BlueprintHandler: httpH.NewBlueprintHandler(log, svc),
		HealthHandler:    httpH.NewHealthHandler(),
	})
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, r *gin.Engine, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestRouterBlueprintLifecycle(t *testing.T) {
	r := newTestEngine(t)

	code, env := call(t, r, http.MethodGet, "/api/v1/blueprints", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = call(t, r, http.MethodPost, "/api/v1/blueprints",
		`{"author":"acme","name":"tower","points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10}]}`)
	require.Equal(t, http.StatusCreated, code, env.Message)

	code, env = call(t, r, http.MethodPost, "/api/v1/blueprints", `{"author":"acme","name":"tower","points":[]}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Blueprint already exists: acme:tower", env.Message)

	code, env = call(t, r, http.MethodPut, "/api/v1/blueprints/acme/tower/points", `{"x":0,"y":10}`)
	require.Equal(t, http.StatusAccepted, code, env.Message)

	code, env = call(t, r, http.MethodGet, "/api/v1/blueprints/acme/tower", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t,
		`{"author":"acme","name":"tower","points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10}]}`,
		string(env.Data))

	code, env = call(t, r, http.MethodGet, "/api/v1/blueprints/acme/bridge", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Blueprint not found: acme/bridge", env.Message)

	code, env = call(t, r, http.MethodGet, "/api/v1/blueprints/globex", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No blueprints for author: globex", env.Message)

	code, _ = call(t, r, http.MethodGet, "/api/v1/blueprints/acme/tower/render.png", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRouterConcurrentAppendsOverHTTP(t *testing.T) {
	r := newTestEngine(t)
	code, _ := call(t, r, http.MethodPost, "/api/v1/blueprints", `{"author":"acme","name":"grid","points":[]}`)
	require.Equal(t, http.StatusCreated, code)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/blueprints/acme/grid/points", strings.NewReader(`{"x":1,"y":1}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusAccepted, rec.Code)
		}()
	}
	wg.Wait()

	_, env := call(t, r, http.MethodGet, "/api/v1/blueprints/acme/grid", "")
	var bp struct {
		Points []struct{ X, Y int } `json:"points"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bp))
	assert.Len(t, bp.Points, n)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(httpMW.HeaderRequestID))

	call(t, r, http.MethodGet, "/api/v1/blueprints", "")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blueprints_api_requests_total")
}
