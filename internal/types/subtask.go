package types

import (
  "time"

  "github.com/google/uuid"
)

// SubTask is one day's unit of work within its parent Task's week.
type SubTask struct {
  ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  TaskID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"task_id"`
  Task          *Task      `gorm:"constraint:OnDelete:CASCADE;foreignKey:TaskID;references:ID" json:"-"`
  Description   string     `gorm:"not null;column:description" json:"description"`
  ScheduledDate time.Time  `gorm:"not null;column:scheduled_date" json:"scheduled_date"`
  Status        TaskStatus `gorm:"not null;default:pending;column:status" json:"status"`
  CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (SubTask) TableName() string {
  return "subtask"
}
