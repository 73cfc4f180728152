// 手动触发超时答卷巡检脚本
//
// 该功能已集成到主应用的后台定时任务中（按 engine.sweep_interval_seconds 周期执行）。
// 此脚本仅用于手动触发，例如服务长时间停机后积压了大量超时答卷。
//
// 用法: go run scripts/sweep_attempts.go

package main

import (
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/service"
	"elearn_backend/pkg/database"
	"elearn_backend/pkg/logger"
	"log"
	"time"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	attemptRepo := repository.NewAttemptRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)

	writer := service.NewAnswerWriter(attemptRepo, cfg.Engine.AnswerQueueSize)
	writer.Start()

	svc := service.NewAttemptService(attemptRepo, assessmentRepo, writer, rdb)
	svc.ProcessExpiredAttempts(context.Background(), time.Now())

	writer.Stop()
	log.Println("超时答卷巡检完成")
}
