package repository

import (
	"strings"
	"time"

	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

// FindByReferralCode 推荐码大小写不敏感
func (r *UserRepository) FindByReferralCode(code string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("referral_code = ?", strings.ToLower(code)).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

// UpdateCheckinState 签到成功后一次更新连签计数、签到日期和跳过计数
func (r *UserRepository) UpdateCheckinState(userID uint, streak int, checkinDate time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"consecutive_check_ins": streak,
			"last_check_in_date":    checkinDate,
		}).Error
}

func (r *UserRepository) IncrementSkipCount(userID uint, date time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"skip_count":     gorm.Expr("skip_count + 1"),
			"last_skip_date": date,
		}).Error
}

func (r *UserRepository) ResetSkipCount(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("skip_count", 0).
		Error
}

// SetOrderPoints 订单重算结果整体覆盖，只动 order_points 分区，不碰流水分区
func (r *UserRepository) SetOrderPoints(userID uint, orderPoints int, totalOrderValue float64) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"order_points":      orderPoints,
			"total_order_value": totalOrderValue,
		}).Error
}

func (r *UserRepository) SetReferralCode(userID uint, code string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("referral_code", strings.ToLower(code)).
		Error
}

func (r *UserRepository) List(page, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	if err := r.DB.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	return users, total, err
}

// FindTopByBalance 排行榜，按两个积分分区之和排序
func (r *UserRepository) FindTopByBalance(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("points + order_points DESC").Limit(limit).Find(&users).Error
	return users, err
}
