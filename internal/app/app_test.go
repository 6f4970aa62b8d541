package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/realtime"
)

func sqliteConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := LoadConfig()
	require.NoError(t, err)
	cfg.DBDriver = "sqlite"
	cfg.SQLitePath = filepath.Join(t.TempDir(), "bp.db")
	cfg.MetricsEnabled = false
	cfg.RateLimitEnabled = false
	return cfg
}

func TestNewWiresSQLiteStack(t *testing.T) {
	cfg := sqliteConfig(t)
	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NoError(t, a.Start())

	assert.Nil(t, a.Events)
	assert.Equal(t, "sqlite", a.Store.Driver())

	body := `{"author":"acme","name":"tower","points":[{"x":1,"y":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/blueprints", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	bp, err := a.Services.Blueprint.GetBlueprint(context.Background(), "acme", "tower")
	require.NoError(t, err)
	assert.Equal(t, []types.Point{{X: 1, Y: 2}}, bp.PointValues())
}

func TestNewPublishesToRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := sqliteConfig(t)
	cfg.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	require.NotNil(t, a.Events)

	require.NoError(t, a.Start())

	client := a.Hub.NewSSEClient()
	a.Hub.AddChannel(client, realtime.AuthorChannel("acme"))
	defer a.Hub.CloseClient(client)

	_, err = a.Services.Blueprint.AddNewBlueprint(context.Background(), "acme", "tower", nil)
	require.NoError(t, err)

	select {
	case msg := <-client.Outbound:
		assert.Equal(t, types.EventBlueprintCreated, msg.Event)
		assert.Equal(t, "tower", msg.Data.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("event did not reach the SSE hub through redis")
	}
}

func TestLocalEventsReachHubWithoutRedis(t *testing.T) {
	a, err := New(context.Background(), sqliteConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	client := a.Hub.NewSSEClient()
	a.Hub.AddChannel(client, realtime.ChannelAll)
	defer a.Hub.CloseClient(client)

	_, err = a.Services.Blueprint.AddNewBlueprint(context.Background(), "acme", "tower", nil)
	require.NoError(t, err)
	_, err = a.Services.Blueprint.AddPoint(context.Background(), "acme", "tower", 3, 4)
	require.NoError(t, err)

	first := <-client.Outbound
	second := <-client.Outbound
	assert.Equal(t, types.EventBlueprintCreated, first.Event)
	assert.Equal(t, types.EventPointAdded, second.Event)
	require.NotNil(t, second.Data.Point)
	assert.Equal(t, types.Point{X: 3, Y: 4}, *second.Data.Point)
}

func TestNewSurvivesUnreachableRedis(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"

	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	assert.Nil(t, a.Events)
}

func TestOpenStorageRejectsUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DBDriver = "oracle"
	_, err := OpenStorage(cfg, logger.Nop())
	assert.Error(t, err)
}
