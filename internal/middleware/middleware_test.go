package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/trip-activity-go/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		user, _ := c.Get("user")
		c.JSON(http.StatusOK, gin.H{"user": user})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, vv := range header {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func TestAuth(t *testing.T) {
	const secret = "test-secret"
	r := newEngine(Auth(secret))

	t.Run("valid token", func(t *testing.T) {
		token, err := IssueToken(secret, "alice", time.Hour)
		require.NoError(t, err)

		w := get(r, bearer(token))
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":"alice"}`, w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := get(r, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := IssueToken("other", "alice", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, bearer(token)).Code)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := IssueToken(secret, "alice", -time.Minute)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, bearer(token)).Code)
	})

	t.Run("no expiry", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).
			SignedString([]byte(secret))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, get(r, bearer(token)).Code)
	})
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", "alice", time.Hour)
	assert.Error(t, err)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	r := newEngine(RateLimit(rl))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, http.StatusTooManyRequests, body["code"])
}

func TestLoggerRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Discard()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := newEngine(Logger(logger))

	w := get(r, nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Contains(t, buf.String(), generated)

	w = get(r, http.Header{RequestIDHeader: {"req-42"}})
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)
}
