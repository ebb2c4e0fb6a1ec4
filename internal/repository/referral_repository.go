package repository

import (
	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	DB *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{DB: db}
}

func (r *ReferralRepository) Create(referral *model.Referral) error {
	return r.DB.Create(referral).Error
}

func (r *ReferralRepository) FindPendingByReferredUser(userID uint) (*model.Referral, error) {
	var referral model.Referral
	err := r.DB.Where("referred_user_id = ? AND status = ?", userID, model.ReferralPending).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) Complete(referralID uint) error {
	return r.DB.Model(&model.Referral{}).
		Where("id = ?", referralID).
		Update("status", model.ReferralCompleted).
		Error
}

func (r *ReferralRepository) CountCompletedByReferrer(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Referral{}).
		Where("referring_user_id = ? AND status = ?", userID, model.ReferralCompleted).
		Count(&count).Error
	return count, err
}

func (r *ReferralRepository) CountByReferrer(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Referral{}).
		Where("referring_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
