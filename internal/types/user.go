package types

import (
  "time"

  "github.com/google/uuid"
)

type User struct {
  ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  Username       string      `gorm:"uniqueIndex;not null;column:username" json:"username"`
  Email          string      `gorm:"uniqueIndex;not null;column:email" json:"email"`
  FullName       string      `gorm:"column:full_name" json:"full_name"`
  HashedPassword string      `gorm:"not null;column:hashed_password" json:"-"`
  IsActive       bool        `gorm:"not null;default:true;column:is_active" json:"is_active"`
  CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
