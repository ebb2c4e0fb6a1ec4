package repository

import (
	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{DB: db}
}

func (r *PredictionRepository) Create(prediction *model.Prediction) error {
	return r.DB.Create(prediction).Error
}

func (r *PredictionRepository) FindByID(id uint) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.DB.First(&prediction, id).Error
	return &prediction, err
}

func (r *PredictionRepository) Update(prediction *model.Prediction) error {
	return r.DB.Save(prediction).Error
}

// ListPublic 公共列表（进行中和已结束的都展示）
func (r *PredictionRepository) ListPublic() ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.DB.Order("status ASC, created_at DESC").Find(&predictions).Error
	return predictions, err
}

// Finish 用条件更新抢第一个正确答案：只有状态仍是 active 的那次
// 更新能生效，RowsAffected 为 0 说明别人已经赢了
func (r *PredictionRepository) Finish(predictionID, winnerID uint) (bool, error) {
	res := r.DB.Model(&model.Prediction{}).
		Where("id = ? AND status = ?", predictionID, model.PredictionActive).
		Updates(map[string]interface{}{
			"status":    model.PredictionFinished,
			"winner_id": winnerID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PredictionRepository) CreateAttempt(attempt *model.PredictionAttempt) error {
	return r.DB.Create(attempt).Error
}

// HasCorrectAttempt 用户是否已经猜中过该竞猜，防止重复领奖
func (r *PredictionRepository) HasCorrectAttempt(userID, predictionID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.PredictionAttempt{}).
		Where("user_id = ? AND prediction_id = ? AND is_correct = ?", userID, predictionID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *PredictionRepository) ListAttempts(predictionID uint) ([]model.PredictionAttempt, error) {
	var attempts []model.PredictionAttempt
	err := r.DB.Where("prediction_id = ?", predictionID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}
