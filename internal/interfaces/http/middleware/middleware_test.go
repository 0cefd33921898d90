package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/burger-pizza/internal/config"
	"github.com/your-org/burger-pizza/internal/pkg/auth"
	"github.com/your-org/burger-pizza/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(Session(cfg, auth.NewSessionManager(cfg), logger.Discard()))
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := GetSessionIDFromContext(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestSessionIssuesAndReusesToken(t *testing.T) {
	cfg := config.FromEnv()
	r := sessionRouter(cfg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	require.Equal(t, http.StatusOK, w.Code)

	first := w.Body.String()
	token := w.Header().Get(SessionTokenHeader)
	require.NotEmpty(t, first)
	require.NotEmpty(t, token)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cfg.Session.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
	assert.Empty(t, w.Header().Get(SessionTokenHeader))

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, first, w.Body.String())
}

func TestSessionReplacesInvalidToken(t *testing.T) {
	r := sessionRouter(config.FromEnv())

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(SessionTokenHeader, "garbage")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(SessionTokenHeader))
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := gin.New()
	r.Use(RateLimit(2, client, logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	mr.FastForward(time.Minute)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	r := gin.New()
	r.Use(RateLimit(1, client, logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDAndSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestSizeLimit(4))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too large"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORS(t *testing.T) {
	cfg := config.FromEnv()
	cfg.Security.CORSAllowedOrigins = []string{"https://shop.example.com", "*.example.org"}

	assert.True(t, isOriginAllowed("https://shop.example.com", cfg.Security.CORSAllowedOrigins))
	assert.True(t, isOriginAllowed("https://a.example.org", cfg.Security.CORSAllowedOrigins))
	assert.False(t, isOriginAllowed("https://evil.com", cfg.Security.CORSAllowedOrigins))

	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
