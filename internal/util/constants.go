package util

const (
	// 连续签到奖励：第 7 天触发一次性奖励后重新计数
	StreakBonusDay    = 7
	StreakBonusPoints = 50

	// 推荐奖励
	ReferralBonusPoints  = 100
	MilestoneEvery       = 10
	MilestoneBonusPoints = 500

	// 竞猜默认赔率：未设置奖励时按成本的 1.5 倍
	DefaultRewardMultiplier = 1.5

	// 非作者查看竞猜时答案的占位符
	RedactedAnswer = "***"

	// Webhook 自动建号用户的占位密码（创建后立即被 bcrypt 散列）
	PlaceholderPassword = "wordpress-import"
)
