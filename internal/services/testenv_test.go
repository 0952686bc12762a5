package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/goalforge/goalforge-backend/internal/logger"
	"github.com/goalforge/goalforge-backend/internal/types"
)

// newTestDB opens a private in-memory sqlite database with the full schema
// migrated. cache=shared keeps the database alive across the pool's
// connections; the random name keeps tests isolated from each other.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Goal{},
		&types.Task{},
		&types.SubTask{},
		&types.PlanGenerationRun{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func seedUser(t *testing.T, db *gorm.DB, username string) *types.User {
	t.Helper()
	user := &types.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          username + "@example.com",
		FullName:       "Test User",
		HashedPassword: "not-a-real-hash",
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedGoal(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, weeks int) *types.Goal {
	t.Helper()
	goal := &types.Goal{
		ID:       uuid.New(),
		UserID:   userID,
		GoalName: name,
		Weeks:    weeks,
		Status:   types.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("seed goal: %v", err)
	}
	return goal
}
