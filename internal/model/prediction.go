package model

type PredictionStatus string

const (
	PredictionActive   PredictionStatus = "active"
	PredictionFinished PredictionStatus = "finished"
)

// Prediction 付费竞猜，答案加密存储，只有作者可读明文
// swagger:model Prediction
type Prediction struct {
	BaseModel
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	// Answer 存的是 pkg/secrets 产出的 nonce:ciphertext，历史数据可能是明文
	Answer string `gorm:"type:text;not null" json:"-"`

	PointsCost   int              `gorm:"not null" json:"pointsCost"`
	RewardPoints int              `json:"rewardPoints"`
	Status       PredictionStatus `gorm:"size:20;default:'active';index" json:"status"`
	AuthorID     uint             `gorm:"index;not null" json:"authorId"`
	WinnerID     *uint            `json:"winnerId,omitempty"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// PredictionAttempt 竞猜流水，每次提交一条，错误的猜测也全部保留
// swagger:model PredictionAttempt
type PredictionAttempt struct {
	BaseModel
	UserID       uint   `gorm:"index:idx_attempt_user_prediction;not null" json:"userId"`
	PredictionID uint   `gorm:"index:idx_attempt_user_prediction;not null" json:"predictionId"`
	Guess        string `gorm:"size:255" json:"guess"`
	IsCorrect    bool   `json:"isCorrect"`
	PointsSpent  int    `json:"pointsSpent"`
}

func (PredictionAttempt) TableName() string {
	return "prediction_attempts"
}
