package service

import (
	"fmt"
	"strings"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
	"predict_earn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReferralService struct {
	ReferralRepo *repository.ReferralRepository
	UserRepo     *repository.UserRepository
	Ledger       *LedgerService
}

func NewReferralService(
	referralRepo *repository.ReferralRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
) *ReferralService {
	return &ReferralService{
		ReferralRepo: referralRepo,
		UserRepo:     userRepo,
		Ledger:       ledger,
	}
}

type ReferralStats struct {
	Code      string `json:"code,omitempty"`
	Total     int64  `json:"total"`
	Completed int64  `json:"completed"`
}

// ApplyCode 注册时带推荐码则建立 pending 推荐关系
func (s *ReferralService) ApplyCode(referredUser *model.User, code string) error {
	referrer, err := s.UserRepo.FindByReferralCode(code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrInvalidReferral
		}
		return err
	}
	if referrer.ID == referredUser.ID {
		return util.ErrInvalidReferral
	}

	referredUser.ReferredByID = &referrer.ID
	if err := s.UserRepo.Update(referredUser); err != nil {
		return err
	}

	return s.ReferralRepo.Create(&model.Referral{
		ReferringUserID: referrer.ID,
		ReferredUserID:  referredUser.ID,
		Status:          model.ReferralPending,
	})
}

// OnFirstCheckin 被推荐人首次签到成功：推荐关系完成，推荐人拿固定奖励；
// 每满 MilestoneEvery 个完成的推荐额外发里程碑奖励。
// 签到主流程不能被推荐奖励的失败拖垮，这里只记日志
func (s *ReferralService) OnFirstCheckin(userID uint) {
	referral, err := s.ReferralRepo.FindPendingByReferredUser(userID)
	if err != nil {
		return // 没有待完成的推荐关系，正常情况
	}

	if err := s.ReferralRepo.Complete(referral.ID); err != nil {
		logger.Log.Error("failed to complete referral",
			zap.Uint("referralId", referral.ID), zap.Error(err))
		return
	}

	if _, err := s.Ledger.Record(referral.ReferringUserID, util.ReferralBonusPoints,
		model.ReasonReferral, nil,
		fmt.Sprintf("推荐用户 #%d 完成首次签到", userID)); err != nil {
		logger.Log.Error("referral bonus credit failed",
			zap.Uint("referrerId", referral.ReferringUserID), zap.Error(err))
		return
	}

	completed, err := s.ReferralRepo.CountCompletedByReferrer(referral.ReferringUserID)
	if err != nil {
		return
	}
	if completed > 0 && completed%util.MilestoneEvery == 0 {
		if _, err := s.Ledger.Record(referral.ReferringUserID, util.MilestoneBonusPoints,
			model.ReasonReferral, nil,
			fmt.Sprintf("累计完成 %d 个推荐的里程碑奖励", completed)); err != nil {
			logger.Log.Error("referral milestone credit failed",
				zap.Uint("referrerId", referral.ReferringUserID), zap.Error(err))
		}
	}
}

// SetCode 用户只能设置一次自己的推荐码，≥4 字符，全局唯一（统一小写）
func (s *ReferralService) SetCode(userID uint, code string) error {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) < 4 {
		return util.ErrReferralCodeShort
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return util.ErrReferralCodeSet
	}

	if _, err := s.UserRepo.FindByReferralCode(code); err == nil {
		return util.ErrReferralCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	return s.UserRepo.SetReferralCode(userID, code)
}

func (s *ReferralService) Stats(userID uint) (*ReferralStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	total, err := s.ReferralRepo.CountByReferrer(userID)
	if err != nil {
		return nil, err
	}
	completed, err := s.ReferralRepo.CountCompletedByReferrer(userID)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{Total: total, Completed: completed}
	if user.ReferralCode != nil {
		stats.Code = *user.ReferralCode
	}
	return stats, nil
}
