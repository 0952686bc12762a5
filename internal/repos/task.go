package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type TaskRepo interface {
  Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)
  GetByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.Task, error)
  GetOwned(ctx context.Context, tx *gorm.DB, taskID, userID uuid.UUID) (*types.Task, error)
  GetScheduledBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Task, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, fields map[string]any) error
  DeleteByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error
}

type taskRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
  return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  if len(tasks) == 0 {
    return []*types.Task{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
    return nil, err
  }
  return tasks, nil
}

func (tr *taskRepo) GetByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.Task
  if len(goalIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("goal_id IN ?", goalIDs).
    Order("week_number ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetOwned resolves ownership through the parent goal.
func (tr *taskRepo) GetOwned(ctx context.Context, tx *gorm.DB, taskID, userID uuid.UUID) (*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var task types.Task
  if err := transaction.WithContext(ctx).
    Joins("JOIN goal ON goal.id = task.goal_id").
    Where("task.id = ? AND goal.user_id = ?", taskID, userID).
    First(&task).Error; err != nil {
    return nil, err
  }
  return &task, nil
}

func (tr *taskRepo) GetScheduledBetween(ctx context.Context, tx *gorm.DB, userID uuid.UUID, from, to time.Time) ([]*types.Task, error) {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  var results []*types.Task
  if err := transaction.WithContext(ctx).
    Joins("JOIN goal ON goal.id = task.goal_id").
    Where("goal.user_id = ? AND task.scheduled_date >= ? AND task.scheduled_date < ?", userID, from, to).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (tr *taskRepo) UpdateFields(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Task{}).
    Where("id = ?", taskID).
    Updates(fields).Error
}

func (tr *taskRepo) DeleteByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = tr.db
  }
  if len(goalIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("goal_id IN ?", goalIDs).
    Delete(&types.Task{}).Error
}
