package dependency

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diet-tracker/backend/config"
	"github.com/diet-tracker/backend/internal/integration/persistence"
	"github.com/diet-tracker/backend/internal/integration/persistence/persistencetest"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Environment:      "test",
			RateLimitEnabled: true,
		},
		Storage: config.StorageConfig{Mode: config.StorageModeLocal},
		JWT: config.JWTConfig{
			Secret:             "injector-test-secret",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		Email: config.EmailConfig{AppBaseURL: "http://localhost:5173"},
	}
}

func sqliteStore(t *testing.T) *Store {
	t.Helper()
	db := persistencetest.NewDB(t)
	return &Store{
		Mode:      config.StorageModeLocal,
		DataStore: persistence.NewDataStore(db, nil),
		DB:        db,
	}
}

func send(t *testing.T, engine http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestWire_HostedStoreNeedsRedis(t *testing.T) {
	store := sqliteStore(t)
	store.Mode = config.StorageModeCloud
	store.DB = nil

	_, err := Wire(testConfig(), store, nil)
	assert.Error(t, err)
}

func TestWire_ServesTheAPI(t *testing.T) {
	cfg := testConfig()
	inj, err := Wire(cfg, sqliteStore(t), nil)
	require.NoError(t, err)
	assert.Nil(t, inj.Worker, "worker is disabled in config")

	engine := inj.Router.Setup(cfg.Server.Environment)

	rec := send(t, engine, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "local", decode(t, rec)["mode"])

	rec = send(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "wire@example.com", "password": "secret123", "name": "Wire",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)

	rec = send(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "wire@example.com", "password": "secret123", "name": "Again",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "AUTH-010001", decode(t, rec)["code"])

	rec = send(t, engine, http.MethodPut, "/api/v1/entries", token, map[string]any{
		"date": "2024-05-01", "weight": 80.5, "meals": map[string]string{"lunch": "rice"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = send(t, engine, http.MethodGet, "/api/v1/entries", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries, _ := decode(t, rec)["entries"].([]any)
	assert.Len(t, entries, 1)

	rec = send(t, engine, http.MethodGet, "/api/v1/goal", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode(t, rec)["goal"])

	rec = send(t, engine, http.MethodPost, "/api/v1/ai/parse-meal", token, map[string]any{"text": "toast"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "coach is off without an API key")

	rec = send(t, engine, http.MethodGet, "/api/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWire_RedisBacksSessionsAndRateLimits(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	cfg.Server.Environment = "development"
	inj, err := Wire(cfg, sqliteStore(t), client)
	require.NoError(t, err)
	engine := inj.Router.Setup(cfg.Server.Environment)

	rec := send(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email": "limit@example.com", "password": "secret123", "name": "Limit",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, mr.Keys(), "refresh token is kept in redis")

	login := map[string]any{"email": "limit@example.com", "password": "secret123"}
	for i := 0; i < 5; i++ {
		rec = send(t, engine, http.MethodPost, "/api/v1/auth/login", "", login)
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d", i+1)
	}
	rec = send(t, engine, http.MethodPost, "/api/v1/auth/login", "", login)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestOpenStore_Local(t *testing.T) {
	storage := &config.StorageConfig{
		Mode:  config.StorageModeLocal,
		Local: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "open.db")},
	}

	store, err := OpenStore(context.Background(), storage, storage.Mode)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.DataStore.Close() })

	assert.NotNil(t, store.DB)
	assert.NoError(t, store.DataStore.Ping(context.Background()))
	assert.True(t, store.DB.Migrator().HasTable("daily_entries"))
}

func TestOpenStore_UnknownMode(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.StorageConfig{}, "mongo")
	assert.Error(t, err)
}
