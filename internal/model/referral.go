package model

type ReferralStatus string

const (
	ReferralPending   ReferralStatus = "pending"
	ReferralCompleted ReferralStatus = "completed"
)

// Referral 注册时带推荐码创建，被推荐人首次签到成功后完成
// swagger:model Referral
type Referral struct {
	BaseModel
	ReferringUserID uint           `gorm:"index;not null" json:"referringUserId"`
	ReferredUserID  uint           `gorm:"uniqueIndex;not null" json:"referredUserId"`
	Status          ReferralStatus `gorm:"size:20;default:'pending'" json:"status"`
}

func (Referral) TableName() string {
	return "referrals"
}
