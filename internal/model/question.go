package model

// Question 每日签到答题的题目，题库有限且循环使用
// swagger:model Question
type Question struct {
	BaseModel
	Text         string `gorm:"type:text;not null" json:"text"`
	Answer       string `gorm:"size:255;not null" json:"-"`
	Points       int    `gorm:"default:10" json:"points"`
	IsActive     bool   `gorm:"default:true;index" json:"isActive"`
	IsPriority   bool   `gorm:"default:false" json:"isPriority"`
	DisplayCount int    `gorm:"default:0" json:"displayCount"`
}

func (Question) TableName() string {
	return "questions"
}

// AnsweredQuestion 用户已答（或已跳过）题目的去重池，池耗尽后整体清空
type AnsweredQuestion struct {
	BaseModel
	UserID     uint `gorm:"index:idx_answered_user_question,unique;not null" json:"userId"`
	QuestionID uint `gorm:"index:idx_answered_user_question,unique;not null" json:"questionId"`
}

func (AnsweredQuestion) TableName() string {
	return "answered_questions"
}
