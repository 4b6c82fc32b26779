// 批量导入学生账号脚本
//
// 每个学生都走与管理后台相同的创建流程：先创建身份，再写学生记录，
// 记录写入失败时回滚身份。已存在的用户名或邮箱会被跳过并计入失败。
//
// 用法: go run scripts/import_students.go -file students.yaml
//
// 文件格式:
//
//	students:
//	  - username: alice
//	    email: alice@example.com
//	    password: secret1

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/internal/service"
	"quizmaster_backend/pkg/database"
	"quizmaster_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type importFile struct {
	Students []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"students"`
}

func main() {
	file := flag.String("file", "students.yaml", "学生列表 YAML 文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("无法读取导入文件: %v", err)
	}

	var input importFile
	if err := yaml.Unmarshal(data, &input); err != nil {
		log.Fatalf("解析导入文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	identities := service.NewIdentityService(repository.NewIdentityRepository(db))
	students := service.NewStudentService(repository.NewStudentRepository(db), identities)

	ctx := context.Background()
	created, failed := 0, 0
	for _, s := range input.Students {
		_, err := students.Provision(ctx, service.ProvisionStudentRequest{
			Username: s.Username,
			Email:    s.Email,
			Password: s.Password,
		})
		if err != nil {
			failed++
			logger.Log.Warn("导入学生失败", zap.String("username", s.Username), zap.Error(err))
			continue
		}
		created++
	}

	log.Printf("导入完成：成功 %d，失败 %d", created, failed)
}
