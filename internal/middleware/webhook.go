package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"

	"predict_earn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookSignature 校验 WooCommerce 的 HMAC-SHA256 签名头。
// 这只是传输层的薄防线，密钥未配置时直接放行（开发环境）
func WebhookSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		// body 还要给后面的 handler 读
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

		got := c.GetHeader("X-WC-Webhook-Signature")
		if !hmac.Equal([]byte(expected), []byte(got)) {
			logger.Log.Warn("webhook signature mismatch",
				zap.String("remote", c.ClientIP()))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
