package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type GoalRepo interface {
  Create(ctx context.Context, tx *gorm.DB, goals []*types.Goal) ([]*types.Goal, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.Goal, error)
  GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Goal, error)
  GetOwned(ctx context.Context, tx *gorm.DB, goalID, userID uuid.UUID) (*types.Goal, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, goalID uuid.UUID, fields map[string]any) error
  DeleteByIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error
}

type goalRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewGoalRepo(db *gorm.DB, baseLog *logger.Logger) GoalRepo {
  return &goalRepo{db: db, log: baseLog.With("repo", "GoalRepo")}
}

func (gr *goalRepo) Create(ctx context.Context, tx *gorm.DB, goals []*types.Goal) ([]*types.Goal, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  if len(goals) == 0 {
    return []*types.Goal{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&goals).Error; err != nil {
    return nil, err
  }
  return goals, nil
}

func (gr *goalRepo) GetByIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.Goal, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var results []*types.Goal
  if len(goalIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", goalIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (gr *goalRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Goal, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var results []*types.Goal
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

// GetOwned returns the goal only when it exists and belongs to userID,
// gorm.ErrRecordNotFound otherwise.
func (gr *goalRepo) GetOwned(ctx context.Context, tx *gorm.DB, goalID, userID uuid.UUID) (*types.Goal, error) {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  var goal types.Goal
  if err := transaction.WithContext(ctx).
    Where("id = ? AND user_id = ?", goalID, userID).
    First(&goal).Error; err != nil {
    return nil, err
  }
  return &goal, nil
}

func (gr *goalRepo) UpdateFields(ctx context.Context, tx *gorm.DB, goalID uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.Goal{}).
    Where("id = ?", goalID).
    Updates(fields).Error
}

func (gr *goalRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = gr.db
  }
  if len(goalIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", goalIDs).
    Delete(&types.Goal{}).Error
}
