package repository

import (
	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) Create(order *model.ExternalOrder) error {
	return r.DB.Create(order).Error
}

// FindByWordpressID 按幂等键查订单
func (r *OrderRepository) FindByWordpressID(wpID uint) (*model.ExternalOrder, error) {
	var order model.ExternalOrder
	err := r.DB.Where("wordpress_order_id = ?", wpID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(order *model.ExternalOrder) error {
	return r.DB.Save(order).Error
}

// SumCompletedByEmail 该客户当前处于 completed 状态的订单总额，
// 订单积分分区以这个重算值为准
func (r *OrderRepository) SumCompletedByEmail(email string) (float64, error) {
	var sum float64
	err := r.DB.Model(&model.ExternalOrder{}).
		Where("customer_email = ? AND status = ?", email, model.OrderStatusCompleted).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *OrderRepository) List(page, limit int) ([]model.ExternalOrder, int64, error) {
	var orders []model.ExternalOrder
	var total int64

	if err := r.DB.Model(&model.ExternalOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}
