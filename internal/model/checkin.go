package model

import (
	"time"
)

// CheckinRecord 记录用户每日签到答题结果，按自然日唯一
// swagger:model CheckinRecord
type CheckinRecord struct {
	BaseModel
	UserID       uint      `gorm:"index:idx_user_checkin_date,unique;not null" json:"userId"`
	QuestionID   uint      `gorm:"not null" json:"questionId"`
	Answer       string    `gorm:"size:255" json:"answer"`
	IsCorrect    bool      `json:"isCorrect"`
	PointsEarned int       `json:"pointsEarned"` // 含连续签到奖励
	CheckinDate  time.Time `gorm:"index:idx_user_checkin_date,unique;not null" json:"checkinDate"`
}

func (CheckinRecord) TableName() string {
	return "checkin_records"
}
