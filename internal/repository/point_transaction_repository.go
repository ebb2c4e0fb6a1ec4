package repository

import (
	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type PointTransactionRepository struct {
	DB *gorm.DB
}

func NewPointTransactionRepository(db *gorm.DB) *PointTransactionRepository {
	return &PointTransactionRepository{DB: db}
}

func (r *PointTransactionRepository) FindByUser(userID uint, page, limit int) ([]model.PointTransaction, int64, error) {
	var transactions []model.PointTransaction
	var total int64

	if err := r.DB.Model(&model.PointTransaction{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&transactions).Error
	return transactions, total, err
}

// SumByUser 流水分区的累计值，审计时和 users.points 对账
func (r *PointTransactionRepository) SumByUser(userID uint) (int64, error) {
	var sum int64
	err := r.DB.Model(&model.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
