package service

import (
	"fmt"
	"strings"
	"testing"

	"predict_earn_backend/internal/model"
	"predict_earn_backend/internal/repository"
	"predict_earn_backend/pkg/database"
	"predict_earn_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// newTestDB 每个测试一个独立的内存库，表结构与生产一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{
		Name:     email,
		Email:    email,
		Password: "hashed",
		Role:     model.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createQuestion(t *testing.T, db *gorm.DB, text, answer string, points int) *model.Question {
	t.Helper()

	question := &model.Question{
		Text:     text,
		Answer:   answer,
		Points:   points,
		IsActive: true,
	}
	require.NoError(t, db.Create(question).Error)
	return question
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *model.User {
	t.Helper()

	var user model.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}

func countTransactions(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.PointTransaction{}).
		Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func newLedger(db *gorm.DB) *LedgerService {
	return NewLedgerService(db, repository.NewPointTransactionRepository(db))
}
