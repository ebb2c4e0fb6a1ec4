package service

import (
	"fmt"
	"strings"
	"time"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
	"predict_earn_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CheckinService struct {
	CheckinRepo  *repository.CheckinRepository
	QuestionRepo *repository.QuestionRepository
	UserRepo     *repository.UserRepository
	Ledger       *LedgerService
	Referral     *ReferralService

	BasePoints int // 题目未配置分值时的保底分
	MaxSkips   int
}

func NewCheckinService(
	checkinRepo *repository.CheckinRepository,
	questionRepo *repository.QuestionRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	referral *ReferralService,
	basePoints, maxSkips int,
) *CheckinService {
	return &CheckinService{
		CheckinRepo:  checkinRepo,
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		Ledger:       ledger,
		Referral:     referral,
		BasePoints:   basePoints,
		MaxSkips:     maxSkips,
	}
}

// CheckinResult 签到成功的响应。Streak 是展示值：第 7 天触发奖励后
// 库里存 0，但本次响应仍然报 7（次日签到从 1 重新开始）
type CheckinResult struct {
	Correct      bool `json:"correct"`
	PointsEarned int  `json:"pointsEarned"`
	Streak       int  `json:"streak"`
	BonusAwarded bool `json:"bonusAwarded"`
}

type CheckinStatus struct {
	CheckedInToday bool  `json:"checkedInToday"`
	Streak         int   `json:"streak"`
	SkipsRemaining int   `json:"skipsRemaining"`
	TotalCheckins  int64 `json:"totalCheckins"`
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TodayQuestion 取题：优先题 > 任意未答题 > 清空已答池后任取。
// 题库是有限的，循环使用
func (s *CheckinService) TodayQuestion(userID uint) (*model.Question, error) {
	question, err := s.QuestionRepo.FindUnanswered(userID, true)
	if err == gorm.ErrRecordNotFound {
		question, err = s.QuestionRepo.FindUnanswered(userID, false)
	}
	if err == gorm.ErrRecordNotFound {
		// 池耗尽，清空重来
		if err := s.QuestionRepo.ClearAnswered(userID); err != nil {
			return nil, err
		}
		question, err = s.QuestionRepo.FindAnyActive()
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrQuestionNotFound
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.QuestionRepo.IncrementDisplayCount(question.ID); err != nil {
		logger.Log.Warn("failed to bump question display count",
			zap.Uint("questionId", question.ID), zap.Error(err))
	}
	return question, nil
}

// Skip 每天最多 MaxSkips 次，消耗一次机会并把题目标记为已答，
// 不影响连签和积分
func (s *CheckinService) Skip(userID, questionID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}

	today := truncateToDay(time.Now())
	skipCount := user.SkipCount
	if user.LastSkipDate == nil || user.LastSkipDate.Before(today) {
		skipCount = 0
		if err := s.UserRepo.ResetSkipCount(userID); err != nil {
			return err
		}
	}

	maxSkips := user.MaxSkips
	if maxSkips <= 0 {
		maxSkips = s.MaxSkips
	}
	if skipCount >= maxSkips {
		return util.ErrSkipLimitReached
	}

	if _, err := s.QuestionRepo.FindByID(questionID); err != nil {
		return util.ErrQuestionNotFound
	}

	if err := s.QuestionRepo.MarkAnswered(userID, questionID); err != nil {
		return err
	}
	return s.UserRepo.IncrementSkipCount(userID, today)
}

// Submit 提交当日答案。答错不记签到、可立即换题重试；
// 答对走连签状态机并通过积分流水发放奖励
func (s *CheckinService) Submit(userID, questionID uint, answer string) (*CheckinResult, error) {
	now := time.Now()
	today := truncateToDay(now)

	if _, err := s.CheckinRepo.FindByUserAndDate(userID, now); err == nil {
		return nil, util.ErrAlreadyCheckedIn
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}

	if !answersMatch(question.Answer, answer) {
		return nil, util.ErrWrongAnswer
	}

	// 连签状态机：恰好间隔一天 +1，否则从 1 重来
	newStreak := 1
	if user.LastCheckInDate != nil {
		last := truncateToDay(*user.LastCheckInDate)
		if last.AddDate(0, 0, 1).Equal(today) {
			newStreak = user.ConsecutiveCheckIns + 1
		}
	}

	displayStreak := newStreak
	storedStreak := newStreak
	bonus := false
	if newStreak == util.StreakBonusDay {
		bonus = true
		storedStreak = 0
	}

	basePoints := question.Points
	if basePoints <= 0 {
		basePoints = s.BasePoints
	}
	earned := basePoints
	if bonus {
		earned += util.StreakBonusPoints
	}

	// 签到行必须先于入账落库：(user_id, checkin_date) 唯一索引是并发提交
	// 的仲裁，抢输的一方在这里失败，不会产生任何流水
	record := &model.CheckinRecord{
		UserID:       userID,
		QuestionID:   questionID,
		Answer:       answer,
		IsCorrect:    true,
		PointsEarned: earned,
		CheckinDate:  today,
	}
	if err := s.CheckinRepo.Create(record); err != nil {
		if _, dupErr := s.CheckinRepo.FindByUserAndDate(userID, now); dupErr == nil {
			return nil, util.ErrAlreadyCheckedIn
		}
		return nil, err
	}

	if _, err := s.Ledger.Record(userID, basePoints, model.ReasonCheckin, nil,
		fmt.Sprintf("每日签到 题目#%d", questionID)); err != nil {
		return nil, err
	}
	if bonus {
		if _, err := s.Ledger.Record(userID, util.StreakBonusPoints, model.ReasonStreakBonus, nil,
			fmt.Sprintf("连续签到 %d 天奖励", util.StreakBonusDay)); err != nil {
			// 基础分已经入账，奖励失败只记日志，靠流水人工对账
			logger.Log.Error("streak bonus credit failed",
				zap.Uint("userId", userID), zap.Error(err))
		}
	}

	if err := s.UserRepo.UpdateCheckinState(userID, storedStreak, today); err != nil {
		return nil, err
	}
	if err := s.QuestionRepo.MarkAnswered(userID, questionID); err != nil {
		logger.Log.Warn("failed to mark question answered",
			zap.Uint("userId", userID), zap.Uint("questionId", questionID), zap.Error(err))
	}

	// 首次签到成功是推荐关系的达成条件
	if s.Referral != nil {
		if count, err := s.CheckinRepo.CountByUser(userID); err == nil && count == 1 {
			s.Referral.OnFirstCheckin(userID)
		}
	}

	return &CheckinResult{
		Correct:      true,
		PointsEarned: earned,
		Streak:       displayStreak,
		BonusAwarded: bonus,
	}, nil
}

func (s *CheckinService) Status(userID uint) (*CheckinStatus, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	now := time.Now()
	checkedIn := false
	if _, err := s.CheckinRepo.FindByUserAndDate(userID, now); err == nil {
		checkedIn = true
	}

	total, err := s.CheckinRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	today := truncateToDay(now)
	skipCount := user.SkipCount
	if user.LastSkipDate == nil || user.LastSkipDate.Before(today) {
		skipCount = 0
	}
	maxSkips := user.MaxSkips
	if maxSkips <= 0 {
		maxSkips = s.MaxSkips
	}

	return &CheckinStatus{
		CheckedInToday: checkedIn,
		Streak:         user.ConsecutiveCheckIns,
		SkipsRemaining: maxSkips - skipCount,
		TotalCheckins:  total,
	}, nil
}

// 大小写不敏感、去首尾空白的答案比较
func answersMatch(expected, actual string) bool {
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(actual))
}
