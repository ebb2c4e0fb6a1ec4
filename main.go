// @title Predict & Earn 后端 API
// @version 1.0
// @description 积分竞猜与每日签到平台的后端服务器。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"predict_earn_backend/internal/app"
	"predict_earn_backend/internal/config"
	"predict_earn_backend/pkg/configwatcher"
	"predict_earn_backend/pkg/logger"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		log.Println("Migration completed, exiting (migrate-only mode)")
		return
	}

	// 配置热更新（CORS、限流参数）
	go configwatcher.WatchConfig("configs/config.yaml", cfg, application.ApplyConfig)

	application.Run()
}
