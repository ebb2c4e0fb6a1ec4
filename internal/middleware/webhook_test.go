package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"predict_earn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
}

func signedRequest(t *testing.T, secret string, body []byte) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body))
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	req.Header.Set("X-WC-Webhook-Signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))
	return req
}

func webhookRouter(secret string) *gin.Engine {
	router := gin.New()
	router.POST("/hook", WebhookSignature(secret), func(c *gin.Context) {
		// 签名校验后 body 必须仍然可读
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusOK, gin.H{"received": true, "body": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": true, "body": true})
	})
	return router
}

func TestWebhookSignatureAcceptsValid(t *testing.T) {
	router := webhookRouter("topsecret")
	body := []byte(`{"id": 1001, "status": "completed"}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, "topsecret", body))

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"body":true`)
}

func TestWebhookSignatureRejectsMismatch(t *testing.T) {
	router := webhookRouter("topsecret")
	body := []byte(`{"id": 1001}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, signedRequest(t, "wrong-secret", body))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// 没有签名头同样拒绝
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body)))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookSignatureSkippedWithoutSecret(t *testing.T) {
	router := webhookRouter("")
	body := []byte(`{"id": 1001}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/hook", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
}
