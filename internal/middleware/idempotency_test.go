package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupIdempotencyServer(t *testing.T) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		if err := cache.Close(); err != nil {
			t.Errorf("cache.Close() returned error: %v", err)
		}
	})

	calls := 0

	server := gin.New()
	server.Use(Idempotency(cache, time.Minute))
	server.POST("/operations", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": strconv.Itoa(calls)})
	})
	server.GET("/operations", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"call": strconv.Itoa(calls)})
	})

	return server, mr
}

func doRequest(t *testing.T, server *gin.Engine, method, key string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, "/operations", nil)
	require.NoError(t, err)

	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	server, _ := setupIdempotencyServer(t)

	first := doRequest(t, server, http.MethodPost, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := doRequest(t, server, http.MethodPost, "key-1")
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyDistinctKeys(t *testing.T) {
	server, _ := setupIdempotencyServer(t)

	first := doRequest(t, server, http.MethodPost, "key-1")
	second := doRequest(t, server, http.MethodPost, "key-2")

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	require.NotEqual(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	server, _ := setupIdempotencyServer(t)

	first := doRequest(t, server, http.MethodPost, "")
	second := doRequest(t, server, http.MethodPost, "")

	require.Equal(t, http.StatusCreated, first.Code)
	require.Equal(t, http.StatusCreated, second.Code)
	require.NotEqual(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyIgnoresSafeMethods(t *testing.T) {
	server, _ := setupIdempotencyServer(t)

	first := doRequest(t, server, http.MethodGet, "key-1")
	second := doRequest(t, server, http.MethodGet, "key-1")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	require.NotEqual(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyInProgressConflict(t *testing.T) {
	server, mr := setupIdempotencyServer(t)

	require.NoError(t, mr.Set("idempotency:v1:key-1", "__in_progress__"))

	res := doRequest(t, server, http.MethodPost, "key-1")
	require.Equal(t, http.StatusConflict, res.Code)
}

func TestIdempotencyExpiredKeyExecutesAgain(t *testing.T) {
	server, mr := setupIdempotencyServer(t)

	first := doRequest(t, server, http.MethodPost, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	mr.FastForward(2 * time.Minute)

	second := doRequest(t, server, http.MethodPost, "key-1")
	require.Equal(t, http.StatusCreated, second.Code)
	require.NotEqual(t, first.Body.String(), second.Body.String())
}
