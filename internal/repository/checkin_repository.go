package repository

import (
	"time"

	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type CheckinRepository struct {
	DB *gorm.DB
}

func NewCheckinRepository(db *gorm.DB) *CheckinRepository {
	return &CheckinRepository{DB: db}
}

func (r *CheckinRepository) Create(record *model.CheckinRecord) error {
	return r.DB.Create(record).Error
}

// FindByUserAndDate 检查用户在指定自然日是否已签到
func (r *CheckinRepository) FindByUserAndDate(userID uint, date time.Time) (*model.CheckinRecord, error) {
	var record model.CheckinRecord
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour).Add(-1 * time.Nanosecond)

	err := r.DB.Where("user_id = ? AND checkin_date BETWEEN ? AND ?", userID, startOfDay, endOfDay).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *CheckinRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CheckinRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
