package service

import (
	"predict_earn_backend/internal/config"
	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB       *gorm.DB
	UserRepo *repository.UserRepository
	Referral *ReferralService
	Cfg      *config.Config
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, referral *ReferralService, cfg *config.Config) *AuthService {
	return &AuthService{
		DB:       db,
		UserRepo: userRepo,
		Referral: referral,
		Cfg:      cfg,
	}
}

// Register 注册，可选携带推荐码。建号和推荐关系在同一个事务里，
// 推荐码无效时整个注册回滚，不留下半个账号
func (s *AuthService) Register(user *model.User, referralCode string) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	user.Role = model.RoleUser

	return s.DB.Transaction(func(tx *gorm.DB) error {
		txUsers := repository.NewUserRepository(tx)
		if err := txUsers.Create(user); err != nil {
			return err
		}

		if referralCode == "" {
			return nil
		}
		txReferral := NewReferralService(repository.NewReferralRepository(tx), txUsers, s.Referral.Ledger)
		return txReferral.ApplyCode(user, referralCode)
	})
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		return "", util.ErrUnauthorized
	}
	if user.Disabled {
		return "", util.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrUnauthorized
	}

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
