package types

import (
  "time"

  "github.com/google/uuid"
)

type TaskStatus string

const (
  TaskStatusPending    TaskStatus = "pending"
  TaskStatusInProgress TaskStatus = "in_progress"
  TaskStatusCompleted  TaskStatus = "completed"
  TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
  switch s {
  case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
    return true
  }
  return false
}

// Task is one week's unit of work under a Goal.
type Task struct {
  ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  GoalID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"goal_id"`
  Goal          *Goal      `gorm:"constraint:OnDelete:CASCADE;foreignKey:GoalID;references:ID" json:"-"`
  WeekNumber    int        `gorm:"not null;column:week_number" json:"week_number"`
  Title         string     `gorm:"not null;column:title" json:"title"`
  Description   string     `gorm:"column:description" json:"description"`
  ScheduledDate time.Time  `gorm:"not null;column:scheduled_date;index" json:"scheduled_date"`
  Status        TaskStatus `gorm:"not null;default:pending;column:status" json:"status"`
  CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (Task) TableName() string {
  return "task"
}
