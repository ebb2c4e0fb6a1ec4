package controller

import (
	"net/http"

	"predict_earn_backend/internal/service"
	"predict_earn_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController 接收外部商城的订单事件。无论处理结果如何都
// 返回 200：发送方按至少一次投递重试失败请求，重试只会重放同一事件，
// 失败细节记在订单行上供运营排查
type WebhookController struct {
	OrderService *service.OrderSyncService
}

func NewWebhookController(orderService *service.OrderSyncService) *WebhookController {
	return &WebhookController{OrderService: orderService}
}

func (c *WebhookController) bind(ctx *gin.Context, event string) *service.OrderPayload {
	var payload service.OrderPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		// 畸形 payload 也要吸收掉，缺失字段走默认值
		logger.Log.Warn("malformed order webhook payload",
			zap.String("event", event), zap.Error(err))
	}
	return &payload
}

// @Summary 订单创建事件
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/webhooks/orders/created [post]
func (c *WebhookController) OrderCreated(ctx *gin.Context) {
	payload := c.bind(ctx, "created")
	c.OrderService.HandleCreated(payload)
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

// @Summary 订单更新事件
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/webhooks/orders/updated [post]
func (c *WebhookController) OrderUpdated(ctx *gin.Context) {
	payload := c.bind(ctx, "updated")
	c.OrderService.HandleUpdated(payload)
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}

// @Summary 订单删除事件
// @Tags Webhook
// @Accept json
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/webhooks/orders/deleted [post]
func (c *WebhookController) OrderDeleted(ctx *gin.Context) {
	payload := c.bind(ctx, "deleted")
	c.OrderService.HandleDeleted(payload)
	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
