package repository

import (
	"predict_earn_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

// FindUnanswered 取用户未答过的启用题目，优先题在前
func (r *QuestionRepository) FindUnanswered(userID uint, priorityOnly bool) (*model.Question, error) {
	var question model.Question
	sub := r.DB.Model(&model.AnsweredQuestion{}).
		Select("question_id").
		Where("user_id = ?", userID)

	query := r.DB.Where("is_active = ?", true).
		Where("id NOT IN (?)", sub)
	if priorityOnly {
		query = query.Where("is_priority = ?", true)
	}

	err := query.Order("is_priority DESC, display_count ASC").First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindAnyActive 池耗尽清空后随便取一题
func (r *QuestionRepository) FindAnyActive() (*model.Question, error) {
	var question model.Question
	err := r.DB.Where("is_active = ?", true).
		Order("display_count ASC").
		First(&question).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) IncrementDisplayCount(questionID uint) error {
	return r.DB.Model(&model.Question{}).
		Where("id = ?", questionID).
		Update("display_count", gorm.Expr("display_count + 1")).
		Error
}

func (r *QuestionRepository) MarkAnswered(userID, questionID uint) error {
	return r.DB.Create(&model.AnsweredQuestion{
		UserID:     userID,
		QuestionID: questionID,
	}).Error
}

func (r *QuestionRepository) ClearAnswered(userID uint) error {
	return r.DB.Unscoped().
		Where("user_id = ?", userID).
		Delete(&model.AnsweredQuestion{}).Error
}

func (r *QuestionRepository) List(page, limit int) ([]model.Question, int64, error) {
	var questions []model.Question
	var total int64

	if err := r.DB.Model(&model.Question{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Order("id").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	return questions, total, err
}
