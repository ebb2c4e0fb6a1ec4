package service

import (
	"fmt"
	"math"
	"strconv"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
	"predict_earn_backend/pkg/logger"
	"predict_earn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OrderSyncService 处理外部商城的订单 webhook。投递语义是至少一次、
// 可能乱序，幂等性靠 wordpress_order_id 的唯一索引保证；
// 任何处理失败都不向发送方报错，避免重试风暴
type OrderSyncService struct {
	OrderRepo *repository.OrderRepository
	UserRepo  *repository.UserRepository
}

func NewOrderSyncService(orderRepo *repository.OrderRepository, userRepo *repository.UserRepository) *OrderSyncService {
	return &OrderSyncService{
		OrderRepo: orderRepo,
		UserRepo:  userRepo,
	}
}

// OrderPayload WooCommerce 的订单表示，字段可能缺失或类型不符，
// 解析时一律用默认值兜底
type OrderPayload struct {
	ID      uint   `json:"id"`
	Status  string `json:"status"`
	Total   string `json:"total"` // WooCommerce 以字符串传金额
	Billing struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"billing"`
}

func (p *OrderPayload) total() float64 {
	total, err := strconv.ParseFloat(p.Total, 64)
	if err != nil || math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return 0
	}
	return total
}

// HandleCreated 已存在同 id 订单时视为重复投递，直接跳过
func (s *OrderSyncService) HandleCreated(payload *OrderPayload) {
	if payload.ID == 0 {
		logger.Log.Warn("order created webhook without id, ignoring")
		monitoring.WebhookEvents.WithLabelValues("created", "error").Inc()
		return
	}

	if _, err := s.OrderRepo.FindByWordpressID(payload.ID); err == nil {
		monitoring.WebhookEvents.WithLabelValues("created", "duplicate").Inc()
		return
	}

	order := &model.ExternalOrder{
		WordpressOrderID: payload.ID,
		Status:           payload.Status,
		CustomerEmail:    payload.Billing.Email,
		Total:            payload.total(),
	}
	if err := s.OrderRepo.Create(order); err != nil {
		// 并发重复投递会撞唯一索引，同样按已应用处理
		logger.Log.Warn("order insert failed, treating as duplicate",
			zap.Uint("wordpressOrderId", payload.ID), zap.Error(err))
		monitoring.WebhookEvents.WithLabelValues("created", "duplicate").Inc()
		return
	}

	if order.Status == model.OrderStatusCompleted {
		s.reconcile(order)
	} else {
		s.markProcessed(order, "")
	}
	monitoring.WebhookEvents.WithLabelValues("created", "applied").Inc()
}

// HandleUpdated 对应订单不存在时按创建事件兜底处理；存在则覆盖字段
// 并对该客户的订单积分做全量重算
func (s *OrderSyncService) HandleUpdated(payload *OrderPayload) {
	if payload.ID == 0 {
		logger.Log.Warn("order updated webhook without id, ignoring")
		monitoring.WebhookEvents.WithLabelValues("updated", "error").Inc()
		return
	}

	order, err := s.OrderRepo.FindByWordpressID(payload.ID)
	if err != nil {
		s.HandleCreated(payload)
		return
	}

	previousEmail := order.CustomerEmail
	order.Status = payload.Status
	order.Total = payload.total()
	if payload.Billing.Email != "" {
		order.CustomerEmail = payload.Billing.Email
	}
	if err := s.OrderRepo.Update(order); err != nil {
		logger.Log.Error("order update failed",
			zap.Uint("wordpressOrderId", payload.ID), zap.Error(err))
		monitoring.WebhookEvents.WithLabelValues("updated", "error").Inc()
		return
	}

	s.reconcile(order)
	if previousEmail != "" && previousEmail != order.CustomerEmail {
		s.reconcileEmail(previousEmail)
	}
	monitoring.WebhookEvents.WithLabelValues("updated", "applied").Inc()
}

// HandleDeleted 软废弃，保留订单行用于审计，同时把该客户的
// 订单积分重算（被废弃的订单不再计入）
func (s *OrderSyncService) HandleDeleted(payload *OrderPayload) {
	if payload.ID == 0 {
		logger.Log.Warn("order deleted webhook without id, ignoring")
		monitoring.WebhookEvents.WithLabelValues("deleted", "error").Inc()
		return
	}

	order, err := s.OrderRepo.FindByWordpressID(payload.ID)
	if err != nil {
		monitoring.WebhookEvents.WithLabelValues("deleted", "duplicate").Inc()
		return
	}

	order.Status = model.OrderStatusDiscarded
	if err := s.OrderRepo.Update(order); err != nil {
		logger.Log.Error("order discard failed",
			zap.Uint("wordpressOrderId", payload.ID), zap.Error(err))
		monitoring.WebhookEvents.WithLabelValues("deleted", "error").Inc()
		return
	}

	s.reconcile(order)
	monitoring.WebhookEvents.WithLabelValues("deleted", "applied").Inc()
}

// reconcile 重算订单对应客户的订单积分分区。重算值（当前所有
// completed 订单的总额）整体覆盖旧值，而不是做增量
func (s *OrderSyncService) reconcile(order *model.ExternalOrder) {
	if order.CustomerEmail == "" {
		s.markProcessed(order, "missing customer email, no points applied")
		return
	}

	if err := s.reconcileEmail(order.CustomerEmail); err != nil {
		s.markProcessed(order, err.Error())
		return
	}
	s.markProcessed(order, "")
}

func (s *OrderSyncService) reconcileEmail(email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err == gorm.ErrRecordNotFound {
		user, err = s.createUserForEmail(email)
	}
	if err != nil {
		return fmt.Errorf("resolve user for %s: %w", email, err)
	}

	sum, err := s.OrderRepo.SumCompletedByEmail(email)
	if err != nil {
		return fmt.Errorf("sum completed orders: %w", err)
	}

	return s.UserRepo.SetOrderPoints(user.ID, int(math.Round(sum)), sum)
}

// 商城客户在本系统没有账号时自动建号，占位凭证，直接视为已验证
func (s *OrderSyncService) createUserForEmail(email string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(util.PlaceholderPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:       email,
		Email:      email,
		Password:   string(hashed),
		Role:       model.RoleUser,
		IsVerified: true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		// 并发 webhook 可能已经建号，重查一次
		return s.UserRepo.FindByEmail(email)
	}

	logger.Log.Info("auto-created user from order webhook", zap.String("email", email))
	return user, nil
}

func (s *OrderSyncService) markProcessed(order *model.ExternalOrder, processingError string) {
	order.IsProcessed = processingError == ""
	order.ProcessingError = processingError
	if err := s.OrderRepo.Update(order); err != nil {
		logger.Log.Error("failed to record order processing state",
			zap.Uint("wordpressOrderId", order.WordpressOrderID), zap.Error(err))
	}
}

func (s *OrderSyncService) ListOrders(page, limit int) ([]model.ExternalOrder, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.OrderRepo.List(page, limit)
}
