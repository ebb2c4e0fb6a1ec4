package model

type PointReason string

const (
	ReasonCheckin       PointReason = "check-in"
	ReasonReferral      PointReason = "referral"
	ReasonFeedback      PointReason = "feedback"
	ReasonPredictionWin PointReason = "prediction-win"
	ReasonAdminGrant    PointReason = "admin-grant"
	ReasonStreakBonus   PointReason = "streak-bonus"
)

// PointTransaction 积分流水，只追加，不更新不删除
// swagger:model PointTransaction
type PointTransaction struct {
	BaseModel
	UserID  uint        `gorm:"index;not null" json:"userId"`
	AdminID *uint       `json:"adminId,omitempty"`
	Amount  int         `gorm:"not null" json:"amount"` // 有符号，负数为扣减
	Reason  PointReason `gorm:"size:30;not null;index" json:"reason"`
	Notes   string      `gorm:"size:500" json:"notes"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
