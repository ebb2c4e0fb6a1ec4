package service

import (
	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
)

type UserService struct {
	UserRepo    *repository.UserRepository
	CheckinRepo *repository.CheckinRepository
	Ledger      *LedgerService
}

func NewUserService(userRepo *repository.UserRepository, checkinRepo *repository.CheckinRepository, ledger *LedgerService) *UserService {
	return &UserService{
		UserRepo:    userRepo,
		CheckinRepo: checkinRepo,
		Ledger:      ledger,
	}
}

type Profile struct {
	User          *model.User `json:"user"`
	Balance       int         `json:"balance"`
	TotalCheckins int64       `json:"totalCheckins"`
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Name    string `json:"name"`
	Balance int    `json:"balance"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	total, err := s.CheckinRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:          user,
		Balance:       user.Balance(),
		TotalCheckins: total,
	}, nil
}

func (s *UserService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, err := s.UserRepo.FindTopByBalance(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:    i + 1,
			Name:    user.Name,
			Balance: user.Balance(),
		}
	}
	return leaderboard, nil
}

// GrantPoints 管理员手工调整积分，经由流水入账并记录操作者
func (s *UserService) GrantPoints(adminID, userID uint, amount int, notes string) (uint, error) {
	return s.Ledger.Record(userID, amount, model.ReasonAdminGrant, &adminID, notes)
}

func (s *UserService) ListUsers(page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(page, limit)
}
