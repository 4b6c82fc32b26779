// @title QuizMaster 后端 API
// @version 1.0
// @description QuizMaster 测验平台的后端服务器。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"path/filepath"
	"quizmaster_backend/internal/app"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/pkg/configwatcher"
	"quizmaster_backend/pkg/logger"

	"go.uber.org/zap"
)

const configDir = "configs"

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	// 配置热加载：日志级别与 CORS 白名单
	go func() {
		configFile := filepath.Join(configDir, "config.yaml")
		if err := configwatcher.WatchConfig(configFile, application.ApplyConfig, application.Done()); err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()

	application.Run()
}
