package database

import (
	"fmt"
	"log"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, mode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	logLevel := logger.Warn
	if mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 建表并写入默认的平台设置
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Quiz{},
		&model.Student{},
		&model.Identity{},
		&model.PlatformSettings{},
	)
	if err != nil {
		return err
	}

	// 用户名区分大小写：默认排序规则会让 Alice 与 alice 冲突，也会让查询忽略大小写
	if db.Dialector.Name() == "mysql" {
		err := db.Exec("ALTER TABLE students MODIFY username VARCHAR(100) NOT NULL COLLATE utf8mb4_bin").Error
		if err != nil {
			return err
		}
	}

	log.Println("Database migration completed")

	var count int64
	db.Model(&model.PlatformSettings{}).Count(&count)
	if count == 0 {
		defaults := model.DefaultPlatformSettings()
		if err := db.Create(&defaults).Error; err != nil {
			return err
		}
	}

	return nil
}
