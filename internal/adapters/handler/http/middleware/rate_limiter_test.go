package middleware

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestRedis(t *testing.T) *redis.Client {
	_ = godotenv.Load("../../../../../.env")

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(getEnv("REDIS_HOST", "localhost"), getEnv("REDIS_PORT", "6379")),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       1,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping integration test (Redis down): %v", err)
	}

	rdb.FlushDB(ctx)
	return rdb
}

func limitedRouter(rdb *redis.Client, limit int) *gin.Engine {
	router := gin.New()
	router.Use(RateLimiterMiddleware(rdb, limit, 1*time.Minute))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "passed")
	})
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Forwarded-For", ip)
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterMiddleware_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := setupTestRedis(t)
	defer rdb.Close()

	ctx := context.Background()

	t.Run("Allow Requests under limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		limit := 5
		router := limitedRouter(rdb, limit)

		for i := 1; i <= limit; i++ {
			w := hit(router, "192.168.1.100")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, strconv.Itoa(limit), w.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, strconv.Itoa(limit-i), w.Header().Get("X-RateLimit-Remaining"))
		}
	})

	t.Run("Block Requests over limit", func(t *testing.T) {
		rdb.FlushDB(ctx)

		router := limitedRouter(rdb, 2)
		ip := "192.168.1.101"

		assert.Equal(t, http.StatusOK, hit(router, ip).Code, "Request 1 should pass")
		assert.Equal(t, http.StatusOK, hit(router, ip).Code, "Request 2 should pass")

		w3 := hit(router, ip)
		assert.Equal(t, http.StatusTooManyRequests, w3.Code, "Request 3 should be blocked")
		assert.Contains(t, w3.Body.String(), "too many requests")
		assert.Equal(t, "0", w3.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("Clients are counted separately", func(t *testing.T) {
		rdb.FlushDB(ctx)

		router := limitedRouter(rdb, 1)

		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
		assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2").Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(router, "10.0.0.1").Code)
	})
}

func TestRateLimiterMiddleware_FailOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	badRdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:9999",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer badRdb.Close()

	w := hit(limitedRouter(badRdb, 5), "192.168.1.102")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "passed", w.Body.String())
}
