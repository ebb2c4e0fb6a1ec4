package database

import (
	"fmt"
	"log"

	"predict_earn_backend/internal/config"
	"predict_earn_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := &cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式下迁移需要 -migrate 显式开启
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		seedQuestions(db)
	}

	return db, nil
}

// Migrate 建表，测试里对 sqlite 复用同一份
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.AnsweredQuestion{},
		&model.CheckinRecord{},
		&model.Prediction{},
		&model.PredictionAttempt{},
		&model.PointTransaction{},
		&model.Referral{},
		&model.ExternalOrder{},
	)
}

// 默认题库，空库时插入一批题目保证签到功能开箱可用
func seedQuestions(db *gorm.DB) {
	var count int64
	db.Model(&model.Question{}).Count(&count)
	if count > 0 {
		return
	}

	defaults := []model.Question{
		{Text: "地球绕太阳一圈需要多少天？", Answer: "365", Points: 10, IsActive: true, IsPriority: true},
		{Text: "一周有几天？", Answer: "7", Points: 10, IsActive: true},
		{Text: "水的化学式是什么？", Answer: "H2O", Points: 10, IsActive: true},
		{Text: "彩虹有几种颜色？", Answer: "7", Points: 10, IsActive: true},
		{Text: "一年有几个季节？", Answer: "4", Points: 10, IsActive: true},
	}
	for _, q := range defaults {
		db.Create(&q)
	}
}
