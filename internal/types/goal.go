package types

import (
  "time"

  "github.com/google/uuid"
)

type GoalStatus string

const (
  GoalStatusActive    GoalStatus = "active"
  GoalStatusCompleted GoalStatus = "completed"
  GoalStatusPaused    GoalStatus = "paused"
  GoalStatusCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) Valid() bool {
  switch s {
  case GoalStatusActive, GoalStatusCompleted, GoalStatusPaused, GoalStatusCancelled:
    return true
  }
  return false
}

// Goal is a user's multi-week objective. Weeks is the target duration and is
// constrained to [1, 52] at the service boundary.
type Goal struct {
  ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
  User        *User      `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
  GoalName    string     `gorm:"not null;index;column:goal_name" json:"goal_name"`
  Description string     `gorm:"column:description" json:"description"`
  Weeks       int        `gorm:"not null;column:weeks" json:"weeks"`
  Status      GoalStatus `gorm:"not null;default:active;column:status" json:"status"`
  CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string {
  return "goal"
}
