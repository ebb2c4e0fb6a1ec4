package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(policy *CORSPolicy) *gin.Engine {
	router := gin.New()
	router.Use(policy.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func getWithOrigin(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", origin)
	router.ServeHTTP(w, req)
	return w
}

func TestCORSPolicyAllowsWhitelistedOrigin(t *testing.T) {
	policy := NewCORSPolicy([]string{"https://a.example.com"})
	router := corsRouter(policy)

	w := getWithOrigin(router, "https://a.example.com")
	require.Equal(t, "https://a.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = getWithOrigin(router, "https://evil.example.com")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPolicyHotUpdate(t *testing.T) {
	policy := NewCORSPolicy([]string{"https://a.example.com"})
	router := corsRouter(policy)

	// 热更新后新名单立即生效，旧名单作废
	policy.Update([]string{"https://b.example.com"})

	w := getWithOrigin(router, "https://a.example.com")
	require.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = getWithOrigin(router, "https://b.example.com")
	require.Equal(t, "https://b.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func limitedRequest(router *gin.Engine, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":12345"
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	policy := NewRateLimitPolicy(2, time.Minute)
	router := gin.New()
	router.Use(policy.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.1"))
	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, limitedRequest(router, "10.0.0.1"))

	// 其他IP不受影响
	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.2"))
}

func TestRateLimitHotUpdate(t *testing.T) {
	policy := NewRateLimitPolicy(1, time.Minute)
	router := gin.New()
	router.Use(policy.Middleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, limitedRequest(router, "10.0.0.1"))

	// 放宽配额后新访客按新参数限流
	policy.Update(3, time.Minute)

	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.9"))
	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.9"))
	require.Equal(t, http.StatusOK, limitedRequest(router, "10.0.0.9"))
	require.Equal(t, http.StatusTooManyRequests, limitedRequest(router, "10.0.0.9"))
}
