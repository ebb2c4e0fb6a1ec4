package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
	"predict_earn_backend/pkg/logger"
	"predict_earn_backend/pkg/secrets"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PredictionService struct {
	PredictionRepo *repository.PredictionRepository
	UserRepo       *repository.UserRepository
	Ledger         *LedgerService
	Secrets        *secrets.Box
	Cache          ListingCache
}

func NewPredictionService(
	predictionRepo *repository.PredictionRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	box *secrets.Box,
	cache ListingCache,
) *PredictionService {
	return &PredictionService{
		PredictionRepo: predictionRepo,
		UserRepo:       userRepo,
		Ledger:         ledger,
		Secrets:        box,
		Cache:          cache,
	}
}

type PredictionRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	Answer       string `json:"answer" binding:"required"`
	PointsCost   int    `json:"pointsCost" binding:"required,gt=0"`
	RewardPoints int    `json:"rewardPoints"`
}

// PredictionView 对外视图，非作者看到的答案是占位符
type PredictionView struct {
	ID           uint                   `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Answer       string                 `json:"answer"`
	PointsCost   int                    `json:"pointsCost"`
	RewardPoints int                    `json:"rewardPoints"`
	Status       model.PredictionStatus `json:"status"`
	AuthorID     uint                   `json:"authorId"`
	WinnerID     *uint                  `json:"winnerId,omitempty"`
}

type GuessResult struct {
	Correct      bool `json:"correct"`
	PointsSpent  int  `json:"pointsSpent"`
	RewardPoints int  `json:"rewardPoints,omitempty"`
	Balance      int  `json:"balance"`
}

// Create 作者创建竞猜，答案落库前加密。奖励未设置或非正数时
// 按成本的 1.5 倍取整
func (s *PredictionService) Create(authorID uint, req *PredictionRequest) (*model.Prediction, error) {
	reward := req.RewardPoints
	if reward <= 0 {
		reward = int(math.Round(float64(req.PointsCost) * util.DefaultRewardMultiplier))
	}

	encrypted, err := s.Secrets.Encrypt(req.Answer)
	if err != nil {
		return nil, err
	}

	prediction := &model.Prediction{
		Title:        req.Title,
		Description:  req.Description,
		Answer:       encrypted,
		PointsCost:   req.PointsCost,
		RewardPoints: reward,
		Status:       model.PredictionActive,
		AuthorID:     authorID,
	}
	if err := s.PredictionRepo.Create(prediction); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(context.Background())
	return prediction, nil
}

// Update 作者在竞猜仍 active 时可以编辑，结束后不可变
func (s *PredictionService) Update(predictionID, callerID uint, req *PredictionRequest) (*model.Prediction, error) {
	prediction, err := s.PredictionRepo.FindByID(predictionID)
	if err != nil {
		return nil, util.ErrPredictionNotFound
	}
	if prediction.AuthorID != callerID {
		return nil, util.ErrPermissionDenied
	}
	if prediction.Status != model.PredictionActive {
		return nil, util.ErrPredictionClosed
	}

	prediction.Title = req.Title
	prediction.Description = req.Description
	prediction.PointsCost = req.PointsCost
	if req.RewardPoints > 0 {
		prediction.RewardPoints = req.RewardPoints
	}
	if req.Answer != "" {
		encrypted, err := s.Secrets.Encrypt(req.Answer)
		if err != nil {
			return nil, err
		}
		prediction.Answer = encrypted
	}

	if err := s.PredictionRepo.Update(prediction); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(context.Background())
	return prediction, nil
}

// List 公共列表走读穿缓存，缓存的是全部脱敏后的数据
func (s *PredictionService) List(ctx context.Context) ([]PredictionView, error) {
	if data, hit := s.Cache.Get(ctx); hit {
		var views []PredictionView
		if err := json.Unmarshal(data, &views); err == nil {
			return views, nil
		}
		// 缓存内容损坏就当作未命中
		s.Cache.Invalidate(ctx)
	}

	predictions, err := s.PredictionRepo.ListPublic()
	if err != nil {
		return nil, err
	}

	views := make([]PredictionView, len(predictions))
	for i, p := range predictions {
		views[i] = s.view(&p, 0) // 列表对所有人脱敏
	}

	if data, err := json.Marshal(views); err == nil {
		s.Cache.Set(ctx, data)
	}
	return views, nil
}

// Detail 详情页按调用者身份脱敏：只有作者能拿到明文答案
func (s *PredictionService) Detail(predictionID, viewerID uint) (*PredictionView, error) {
	prediction, err := s.PredictionRepo.FindByID(predictionID)
	if err != nil {
		return nil, util.ErrPredictionNotFound
	}
	view := s.view(prediction, viewerID)
	return &view, nil
}

// Guess 提交猜测。成本无论对错都扣；第一个猜对的人通过状态上的
// 条件更新赢得竞猜，并发时只有一个提交能生效
func (s *PredictionService) Guess(predictionID, userID uint, guess string) (*GuessResult, error) {
	prediction, err := s.PredictionRepo.FindByID(predictionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPredictionNotFound
		}
		return nil, err
	}
	if prediction.Status != model.PredictionActive {
		return nil, util.ErrPredictionClosed
	}

	won, err := s.PredictionRepo.HasCorrectAttempt(userID, predictionID)
	if err != nil {
		return nil, err
	}
	if won {
		return nil, util.ErrAlreadyWon
	}

	balance, err := s.Ledger.Balance(userID)
	if err != nil {
		return nil, err
	}
	if balance < prediction.PointsCost {
		return nil, util.ErrInsufficientPoints
	}

	correct, err := s.checkGuess(prediction.Answer, guess)
	if err != nil {
		return nil, err
	}

	// 扣成本无条件执行，对错都收
	if _, err := s.Ledger.Record(userID, -prediction.PointsCost, model.ReasonPredictionWin, nil,
		fmt.Sprintf("竞猜 #%d 参与费", predictionID)); err != nil {
		return nil, err
	}

	resolved := false
	if correct {
		// 状态 active -> finished 的条件更新，输掉竞态说明冠军已产生
		resolved, err = s.PredictionRepo.Finish(predictionID, userID)
		if err != nil {
			return nil, err
		}
	}

	attempt := &model.PredictionAttempt{
		UserID:       userID,
		PredictionID: predictionID,
		Guess:        guess,
		IsCorrect:    correct && resolved,
		PointsSpent:  prediction.PointsCost,
	}
	if err := s.PredictionRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}

	if correct && !resolved {
		return nil, util.ErrPredictionClosed
	}

	result := &GuessResult{
		Correct:     correct,
		PointsSpent: prediction.PointsCost,
	}

	if resolved {
		// 奖励入账失败不回滚已扣的成本，流水里留有全部恢复信息
		if _, err := s.Ledger.Record(userID, prediction.RewardPoints, model.ReasonPredictionWin, nil,
			fmt.Sprintf("竞猜 #%d 获胜奖励", predictionID)); err != nil {
			logger.Log.Error("prediction reward credit failed",
				zap.Uint("predictionId", predictionID),
				zap.Uint("userId", userID),
				zap.Error(err))
		}
		result.RewardPoints = prediction.RewardPoints

		s.Cache.Invalidate(context.Background())
	}

	if b, err := s.Ledger.Balance(userID); err == nil {
		result.Balance = b
	}
	return result, nil
}

func (s *PredictionService) ListAttempts(predictionID uint) ([]model.PredictionAttempt, error) {
	return s.PredictionRepo.ListAttempts(predictionID)
}

// checkGuess 兼容加密功能上线前存的明文答案
func (s *PredictionService) checkGuess(stored, guess string) (bool, error) {
	expected := stored
	if s.Secrets.IsEncrypted(stored) {
		var err error
		expected, err = s.Secrets.Decrypt(stored)
		if err != nil {
			return false, util.ErrDecryption
		}
	}
	return strings.EqualFold(strings.TrimSpace(expected), strings.TrimSpace(guess)), nil
}

// view 生成对外视图；viewerID 为作者时返回明文答案，其余一律占位符
func (s *PredictionService) view(p *model.Prediction, viewerID uint) PredictionView {
	answer := util.RedactedAnswer
	if viewerID != 0 && viewerID == p.AuthorID {
		if s.Secrets.IsEncrypted(p.Answer) {
			if plain, err := s.Secrets.Decrypt(p.Answer); err == nil {
				answer = plain
			}
		} else {
			answer = p.Answer
		}
	}

	return PredictionView{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Answer:       answer,
		PointsCost:   p.PointsCost,
		RewardPoints: p.RewardPoints,
		Status:       p.Status,
		AuthorID:     p.AuthorID,
		WinnerID:     p.WinnerID,
	}
}
