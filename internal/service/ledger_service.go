package service

import (
	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/internal/util"
	"predict_earn_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// LedgerService 是唯一允许按增量修改 users.points 的写入路径，
// 流水行和余额更新在同一个数据库事务里落库
type LedgerService struct {
	DB     *gorm.DB
	TxRepo *repository.PointTransactionRepository
}

func NewLedgerService(db *gorm.DB, txRepo *repository.PointTransactionRepository) *LedgerService {
	return &LedgerService{
		DB:     db,
		TxRepo: txRepo,
	}
}

// Record 追加一条积分流水并把金额应用到用户余额上。
// 用户不存在时整个事务回滚，不留下任何部分写入。
func (s *LedgerService) Record(userID uint, amount int, reason model.PointReason, adminID *uint, notes string) (uint, error) {
	transaction := model.PointTransaction{
		UserID:  userID,
		AdminID: adminID,
		Amount:  amount,
		Reason:  reason,
		Notes:   notes,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ?", userID).
			Update("points", gorm.Expr("points + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrUserNotFound
		}

		return tx.Create(&transaction).Error
	})
	if err != nil {
		return 0, err
	}

	monitoring.PointsTransactions.WithLabelValues(string(reason)).Inc()
	return transaction.ID, nil
}

// Balance 可用余额 = 流水分区 + 订单重算分区
func (s *LedgerService) Balance(userID uint) (int, error) {
	var user model.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, util.ErrUserNotFound
		}
		return 0, err
	}
	return user.Balance(), nil
}

// History 用户积分流水（审计视图）
func (s *LedgerService) History(userID uint, page, limit int) ([]model.PointTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.TxRepo.FindByUser(userID, page, limit)
}

// Audit 校验流水分区累计值与 users.points 是否一致
func (s *LedgerService) Audit(userID uint) (ledgerSum int64, livePoints int, consistent bool, err error) {
	var user model.User
	if err = s.DB.First(&user, userID).Error; err != nil {
		return 0, 0, false, err
	}

	ledgerSum, err = s.TxRepo.SumByUser(userID)
	if err != nil {
		return 0, 0, false, err
	}
	return ledgerSum, user.Points, ledgerSum == int64(user.Points), nil
}
