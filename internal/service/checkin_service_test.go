package service

import (
	"sync"
	"testing"
	"time"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCheckinService(db *gorm.DB) *CheckinService {
	ledger := newLedger(db)
	userRepo := repository.NewUserRepository(db)
	referral := NewReferralService(repository.NewReferralRepository(db), userRepo, ledger)
	return NewCheckinService(
		repository.NewCheckinRepository(db),
		repository.NewQuestionRepository(db),
		userRepo,
		ledger,
		referral,
		10, 3,
	)
}

// 把用户调到指定的连签状态：最近一次签到在 daysAgo 天前，连签 streak 天
func setCheckinState(t *testing.T, db *gorm.DB, userID uint, streak, daysAgo int) {
	t.Helper()

	date := time.Now().AddDate(0, 0, -daysAgo)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"consecutive_check_ins": streak,
			"last_check_in_date":    date,
		}).Error)
}

func TestSubmitFirstCheckin(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	result, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)
	require.True(t, result.Correct)
	require.Equal(t, 10, result.PointsEarned)
	require.Equal(t, 1, result.Streak)
	require.False(t, result.BonusAwarded)

	reloaded := reloadUser(t, db, user.ID)
	require.Equal(t, 10, reloaded.Points)
	require.Equal(t, 1, reloaded.ConsecutiveCheckIns)
	require.NotNil(t, reloaded.LastCheckInDate)

	status, err := svc.Status(user.ID)
	require.NoError(t, err)
	require.True(t, status.CheckedInToday)
	require.EqualValues(t, 1, status.TotalCheckins)
}

func TestSubmitTwiceSameDayRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	_, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)

	_, err = svc.Submit(user.ID, question.ID, "7")
	require.ErrorIs(t, err, util.ErrAlreadyCheckedIn)

	// 重复提交不再入账
	require.EqualValues(t, 1, countTransactions(t, db, user.ID))
}

func TestSubmitConcurrentCreditsAtMostOnce(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	// 并发提交同一天的签到，唯一索引仲裁后最多一个生效
	const attempts = 8
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Submit(user.ID, question.ID, "7")
		}()
	}
	wg.Wait()

	countRecords := func() int64 {
		var n int64
		require.NoError(t, db.Model(&model.CheckinRecord{}).
			Where("user_id = ?", user.ID).Count(&n).Error)
		return n
	}
	countCredits := func() int64 {
		var n int64
		require.NoError(t, db.Model(&model.PointTransaction{}).
			Where("user_id = ? AND reason = ?", user.ID, model.ReasonCheckin).Count(&n).Error)
		return n
	}

	require.LessOrEqual(t, countRecords(), int64(1))
	require.Equal(t, countRecords(), countCredits())

	// 并发全败时串行补一次，最终必须恰好一条签到、一笔入账
	if countRecords() == 0 {
		_, err := svc.Submit(user.ID, question.ID, "7")
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, countRecords())
	require.EqualValues(t, 1, countCredits())
	require.Equal(t, 10, reloadUser(t, db, user.ID).Points)
}

func TestCheckinRecordUniquePerDay(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewCheckinRepository(db)
	user := createUser(t, db, "alice@example.com")

	today := truncateToDay(time.Now())
	require.NoError(t, repo.Create(&model.CheckinRecord{
		UserID: user.ID, QuestionID: 1, IsCorrect: true, CheckinDate: today,
	}))
	require.Error(t, repo.Create(&model.CheckinRecord{
		UserID: user.ID, QuestionID: 2, IsCorrect: true, CheckinDate: today,
	}))
}

func TestSubmitWrongAnswerAllowsRetry(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	_, err := svc.Submit(user.ID, question.ID, "8")
	require.ErrorIs(t, err, util.ErrWrongAnswer)
	require.Equal(t, 0, reloadUser(t, db, user.ID).Points)
	require.EqualValues(t, 0, countTransactions(t, db, user.ID))

	// 答错不算签到，当天可以继续答
	result, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)
	require.True(t, result.Correct)
}

func TestSubmitAnswerMatchingIsLenient(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "水的化学式是什么？", "H2O", 10)

	result, err := svc.Submit(user.ID, question.ID, "  h2o ")
	require.NoError(t, err)
	require.True(t, result.Correct)
}

func TestStreakIncrementsOnConsecutiveDay(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	setCheckinState(t, db, user.ID, 3, 1)

	result, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)
	require.Equal(t, 4, result.Streak)
	require.Equal(t, 4, reloadUser(t, db, user.ID).ConsecutiveCheckIns)
}

func TestStreakResetsAfterGap(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	setCheckinState(t, db, user.ID, 5, 3)

	result, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)
	require.Equal(t, 1, result.Streak)
	require.Equal(t, 1, reloadUser(t, db, user.ID).ConsecutiveCheckIns)
}

func TestDaySevenAwardsBonusAndResetsStoredStreak(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	setCheckinState(t, db, user.ID, 6, 1)

	result, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)
	require.True(t, result.BonusAwarded)
	require.Equal(t, 7, result.Streak)
	require.Equal(t, 10+util.StreakBonusPoints, result.PointsEarned)

	reloaded := reloadUser(t, db, user.ID)
	require.Equal(t, 0, reloaded.ConsecutiveCheckIns) // 次日从 1 重新开始
	require.Equal(t, 10+util.StreakBonusPoints, reloaded.Points)

	// 基础分和奖励分各一条流水
	require.EqualValues(t, 2, countTransactions(t, db, user.ID))
	var bonus model.PointTransaction
	require.NoError(t, db.Where("user_id = ? AND reason = ?", user.ID, model.ReasonStreakBonus).
		First(&bonus).Error)
	require.Equal(t, util.StreakBonusPoints, bonus.Amount)
}

func TestTodayQuestionPrefersPriority(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	createQuestion(t, db, "普通题", "a", 10)
	priority := createQuestion(t, db, "优先题", "b", 10)
	require.NoError(t, db.Model(&model.Question{}).Where("id = ?", priority.ID).
		Update("is_priority", true).Error)

	question, err := svc.TodayQuestion(user.ID)
	require.NoError(t, err)
	require.Equal(t, priority.ID, question.ID)
	require.Equal(t, 1, reloadQuestion(t, db, priority.ID).DisplayCount)
}

func TestQuestionPoolRecycles(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	_, err := svc.Submit(user.ID, question.ID, "7")
	require.NoError(t, err)

	// 题库只有一道且已答过：池被清空后循环复用
	got, err := svc.TodayQuestion(user.ID)
	require.NoError(t, err)
	require.Equal(t, question.ID, got.ID)
}

func TestSkipLimitPerDay(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")

	questions := make([]*model.Question, 4)
	for i := range questions {
		questions[i] = createQuestion(t, db, "题目", "答案", 10)
	}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Skip(user.ID, questions[i].ID))
	}
	require.ErrorIs(t, svc.Skip(user.ID, questions[3].ID), util.ErrSkipLimitReached)

	status, err := svc.Status(user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, status.SkipsRemaining)
}

func TestSkipCountResetsNextDay(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	user := createUser(t, db, "alice@example.com")
	question := createQuestion(t, db, "题目", "答案", 10)

	// 昨天用光了跳过次数
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"skip_count":     3,
			"last_skip_date": yesterday,
		}).Error)

	require.NoError(t, svc.Skip(user.ID, question.ID))
	require.Equal(t, 1, reloadUser(t, db, user.ID).SkipCount)
}

func TestFirstCheckinCompletesReferral(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckinService(db)
	question := createQuestion(t, db, "一周有几天？", "7", 10)

	referrer := createUser(t, db, "referrer@example.com")
	code := "friend"
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", referrer.ID).
		Update("referral_code", code).Error)

	referred := createUser(t, db, "referred@example.com")
	require.NoError(t, svc.Referral.ApplyCode(referred, code))

	_, err := svc.Submit(referred.ID, question.ID, "7")
	require.NoError(t, err)

	var referral model.Referral
	require.NoError(t, db.Where("referred_user_id = ?", referred.ID).First(&referral).Error)
	require.Equal(t, model.ReferralCompleted, referral.Status)
	require.Equal(t, util.ReferralBonusPoints, reloadUser(t, db, referrer.ID).Points)
}

func reloadQuestion(t *testing.T, db *gorm.DB, id uint) *model.Question {
	t.Helper()

	var question model.Question
	require.NoError(t, db.First(&question, id).Error)
	return &question
}
