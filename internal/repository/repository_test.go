package repository

import (
	"testing"

	"elearn_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 打开内存 sqlite 并建好全部表，仅供仓储层测试使用
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// 内存库随连接销毁，限制为单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Lesson{},
		&model.LessonResource{},
		&model.Assessment{},
		&model.AssessmentQuestion{},
		&model.AssessmentAttempt{},
		&model.AttemptAnswer{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
