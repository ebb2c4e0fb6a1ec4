package service

import (
	"testing"
	"time"

	"predict_earn_backend/internal/config"
	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour

	userRepo := repository.NewUserRepository(db)
	referral := NewReferralService(repository.NewReferralRepository(db), userRepo, newLedger(db))
	return NewAuthService(db, userRepo, referral, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user, ""))
	require.NotEqual(t, "secret123", user.Password) // 明文不落库
	require.Equal(t, model.RoleUser, user.Role)

	token, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	first := &model.User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(first, ""))

	second := &model.User{Name: "Imposter", Email: "alice@example.com", Password: "other"}
	require.ErrorIs(t, svc.Register(second, ""), util.ErrEmailRegistered)
}

func TestRegisterWithReferralCode(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	referrer := createUser(t, db, "referrer@example.com")
	setReferralCode(t, db, referrer.ID, "friend")

	user := &model.User{Name: "Bob", Email: "bob@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user, "friend"))

	var referral model.Referral
	require.NoError(t, db.Where("referred_user_id = ?", user.ID).First(&referral).Error)
	require.Equal(t, model.ReferralPending, referral.Status)
}

func TestRegisterWithInvalidReferralCodeFails(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Bob", Email: "bob@example.com", Password: "secret123"}
	require.ErrorIs(t, svc.Register(user, "bogus"), util.ErrInvalidReferral)

	// 注册整体回滚，不留下半个账号
	_, err := repository.NewUserRepository(db).FindByEmail("bob@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var referrals int64
	require.NoError(t, db.Model(&model.Referral{}).Count(&referrals).Error)
	require.Zero(t, referrals)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user, ""))

	_, err := svc.Login("alice@example.com", "wrong")
	require.ErrorIs(t, err, util.ErrUnauthorized)

	_, err = svc.Login("nobody@example.com", "secret123")
	require.ErrorIs(t, err, util.ErrUnauthorized)
}

func TestLoginRejectsDisabledUser(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	user := &model.User{Name: "Alice", Email: "alice@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user, ""))
	require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("disabled", true).Error)

	_, err := svc.Login("alice@example.com", "secret123")
	require.ErrorIs(t, err, util.ErrUnauthorized)
}
