package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  PlanRunStatusQueued    = "queued"
  PlanRunStatusRunning   = "running"
  PlanRunStatusSucceeded = "succeeded"
  PlanRunStatusFailed    = "failed"
)

// PlanGenerationRun records the single background generation attempt made for
// a Goal: which stage it reached and which plan source ultimately landed
// (structured, text or generic).
type PlanGenerationRun struct {
  ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
  GoalID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"goal_id"`
  Goal      *Goal          `gorm:"constraint:OnDelete:CASCADE;foreignKey:GoalID;references:ID" json:"-"`
  Status    string         `gorm:"not null;index;column:status" json:"status"`
  Stage     string         `gorm:"not null;column:stage" json:"stage"`   // call|extract|parse|validate|build|done
  Source    string         `gorm:"column:source" json:"source"`          // structured|text|generic
  Error     string         `gorm:"column:error" json:"error"`
  Metadata  datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata"`
  CreatedAt time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (PlanGenerationRun) TableName() string {
  return "plan_generation_run"
}
