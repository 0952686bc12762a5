package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type SubTaskRepo interface {
  Create(ctx context.Context, tx *gorm.DB, subtasks []*types.SubTask) ([]*types.SubTask, error)
  GetByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.SubTask, error)
  GetOwned(ctx context.Context, tx *gorm.DB, subtaskID, userID uuid.UUID) (*types.SubTask, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, subtaskID uuid.UUID, fields map[string]any) error
  DeleteByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) error
}

type subTaskRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubTaskRepo(db *gorm.DB, baseLog *logger.Logger) SubTaskRepo {
  return &subTaskRepo{db: db, log: baseLog.With("repo", "SubTaskRepo")}
}

func (sr *subTaskRepo) Create(ctx context.Context, tx *gorm.DB, subtasks []*types.SubTask) ([]*types.SubTask, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(subtasks) == 0 {
    return []*types.SubTask{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&subtasks).Error; err != nil {
    return nil, err
  }
  return subtasks, nil
}

func (sr *subTaskRepo) GetByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) ([]*types.SubTask, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var results []*types.SubTask
  if len(taskIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("task_id IN ?", taskIDs).
    Order("scheduled_date ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetOwned resolves ownership through the parent task's goal.
func (sr *subTaskRepo) GetOwned(ctx context.Context, tx *gorm.DB, subtaskID, userID uuid.UUID) (*types.SubTask, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  var subtask types.SubTask
  if err := transaction.WithContext(ctx).
    Joins("JOIN task ON task.id = subtask.task_id").
    Joins("JOIN goal ON goal.id = task.goal_id").
    Where("subtask.id = ? AND goal.user_id = ?", subtaskID, userID).
    First(&subtask).Error; err != nil {
    return nil, err
  }
  return &subtask, nil
}

func (sr *subTaskRepo) UpdateFields(ctx context.Context, tx *gorm.DB, subtaskID uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.SubTask{}).
    Where("id = ?", subtaskID).
    Updates(fields).Error
}

func (sr *subTaskRepo) DeleteByTaskIDs(ctx context.Context, tx *gorm.DB, taskIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }
  if len(taskIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("task_id IN ?", taskIDs).
    Delete(&types.SubTask{}).Error
}
