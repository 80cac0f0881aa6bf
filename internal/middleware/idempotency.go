package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v1:"
	inProgressMarker     = "__in_progress__"
)

type storedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays stored responses for repeated unsafe requests
// carrying the same Idempotency-Key header.
//
// Requests without the header pass through untouched. A repeated key
// whose first request is still in flight is answered with 409.
func Idempotency(cache *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		key := c.Request.Header.Get(idempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		l := zerolog.Ctx(c.Request.Context())
		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + key

		cached, err := cache.Get(ctx, cacheKey).Result()
		if err == nil {
			if cached == inProgressMarker {
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate request currently processing"})
				return
			}

			var stored storedResponse
			if err := json.Unmarshal([]byte(cached), &stored); err != nil {
				l.Warn().Err(err).Str("key", key).Msg("decode stored idempotent response")
				c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate request"})

				return
			}

			c.Header("Content-Type", "application/json; charset=utf-8")
			c.String(stored.Status, stored.Body)
			c.Abort()

			return
		}

		if err != redis.Nil {
			l.Error().Err(err).Str("key", key).Msg("idempotency lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "idempotency store failure"})

			return
		}

		if err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Err(); err != nil {
			l.Error().Err(err).Str("key", key).Msg("idempotency reservation failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "idempotency reservation failure"})

			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		stored := storedResponse{
			Status: writer.Status(),
			Body:   writer.body.String(),
		}

		payload, err := json.Marshal(stored)
		if err != nil {
			l.Error().Err(err).Str("key", key).Msg("encode idempotent response")
			cache.Del(ctx, cacheKey)

			return
		}

		if err := cache.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
			l.Error().Err(err).Str("key", key).Msg("persist idempotent response")
			cache.Del(ctx, cacheKey)
		}
	}
}
