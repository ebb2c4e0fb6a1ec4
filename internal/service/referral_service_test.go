package service

import (
	"fmt"
	"testing"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReferralService(db *gorm.DB) *ReferralService {
	return NewReferralService(
		repository.NewReferralRepository(db),
		repository.NewUserRepository(db),
		newLedger(db),
	)
}

func setReferralCode(t *testing.T, db *gorm.DB, userID uint, code string) {
	t.Helper()

	require.NoError(t, db.Model(&model.User{}).Where("id = ?", userID).
		Update("referral_code", code).Error)
}

func TestSetCodeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "alice@example.com")

	require.ErrorIs(t, svc.SetCode(user.ID, "ab"), util.ErrReferralCodeShort)
	require.ErrorIs(t, svc.SetCode(user.ID, "  a  "), util.ErrReferralCodeShort)

	require.NoError(t, svc.SetCode(user.ID, " MyCode "))
	reloaded := reloadUser(t, db, user.ID)
	require.NotNil(t, reloaded.ReferralCode)
	require.Equal(t, "mycode", *reloaded.ReferralCode) // 统一小写

	// 只能设置一次
	require.ErrorIs(t, svc.SetCode(user.ID, "another"), util.ErrReferralCodeSet)

	other := createUser(t, db, "bob@example.com")
	require.ErrorIs(t, svc.SetCode(other.ID, "MYCODE"), util.ErrReferralCodeTaken)
}

func TestApplyCodeCreatesPendingReferral(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	referrer := createUser(t, db, "referrer@example.com")
	setReferralCode(t, db, referrer.ID, "friend")

	referred := createUser(t, db, "referred@example.com")
	require.NoError(t, svc.ApplyCode(referred, "friend"))

	var referral model.Referral
	require.NoError(t, db.Where("referred_user_id = ?", referred.ID).First(&referral).Error)
	require.Equal(t, referrer.ID, referral.ReferringUserID)
	require.Equal(t, model.ReferralPending, referral.Status)

	reloaded := reloadUser(t, db, referred.ID)
	require.NotNil(t, reloaded.ReferredByID)
	require.Equal(t, referrer.ID, *reloaded.ReferredByID)
}

func TestApplyCodeRejectsUnknownCode(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	referred := createUser(t, db, "referred@example.com")

	require.ErrorIs(t, svc.ApplyCode(referred, "no-such-code"), util.ErrInvalidReferral)
}

func TestApplyCodeRejectsSelfReferral(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "alice@example.com")
	setReferralCode(t, db, user.ID, "selfie")

	require.ErrorIs(t, svc.ApplyCode(user, "selfie"), util.ErrInvalidReferral)
}

func TestOnFirstCheckinCompletesAndCredits(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	referrer := createUser(t, db, "referrer@example.com")
	setReferralCode(t, db, referrer.ID, "friend")
	referred := createUser(t, db, "referred@example.com")
	require.NoError(t, svc.ApplyCode(referred, "friend"))

	svc.OnFirstCheckin(referred.ID)

	var referral model.Referral
	require.NoError(t, db.Where("referred_user_id = ?", referred.ID).First(&referral).Error)
	require.Equal(t, model.ReferralCompleted, referral.Status)
	require.Equal(t, util.ReferralBonusPoints, reloadUser(t, db, referrer.ID).Points)

	// 推荐关系已完成，再触发一次不会重复发奖
	svc.OnFirstCheckin(referred.ID)
	require.Equal(t, util.ReferralBonusPoints, reloadUser(t, db, referrer.ID).Points)
}

func TestOnFirstCheckinWithoutReferralIsNoop(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	user := createUser(t, db, "alice@example.com")

	svc.OnFirstCheckin(user.ID)
	require.EqualValues(t, 0, countTransactions(t, db, user.ID))
}

func TestMilestoneBonusEveryTenCompletions(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	referrer := createUser(t, db, "referrer@example.com")
	setReferralCode(t, db, referrer.ID, "friend")

	// 已有 9 个完成的推荐
	for i := 0; i < util.MilestoneEvery-1; i++ {
		earlier := createUser(t, db, fmt.Sprintf("earlier%d@example.com", i))
		require.NoError(t, db.Create(&model.Referral{
			ReferringUserID: referrer.ID,
			ReferredUserID:  earlier.ID,
			Status:          model.ReferralCompleted,
		}).Error)
	}

	tenth := createUser(t, db, "tenth@example.com")
	require.NoError(t, svc.ApplyCode(tenth, "friend"))

	svc.OnFirstCheckin(tenth.ID)

	// 第 10 个完成触发里程碑：固定奖励 + 里程碑奖励
	expected := util.ReferralBonusPoints + util.MilestoneBonusPoints
	require.Equal(t, expected, reloadUser(t, db, referrer.ID).Points)
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	svc := newReferralService(db)
	referrer := createUser(t, db, "referrer@example.com")
	setReferralCode(t, db, referrer.ID, "friend")

	first := createUser(t, db, "first@example.com")
	require.NoError(t, svc.ApplyCode(first, "friend"))
	second := createUser(t, db, "second@example.com")
	require.NoError(t, svc.ApplyCode(second, "friend"))

	svc.OnFirstCheckin(first.ID)

	stats, err := svc.Stats(referrer.ID)
	require.NoError(t, err)
	require.Equal(t, "friend", stats.Code)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Completed)
}
