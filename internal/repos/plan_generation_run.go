package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type PlanGenerationRunRepo interface {
  Create(ctx context.Context, tx *gorm.DB, runs []*types.PlanGenerationRun) ([]*types.PlanGenerationRun, error)
  GetByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.PlanGenerationRun, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, runID uuid.UUID, fields map[string]any) error
  DeleteByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error
}

type planGenerationRunRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPlanGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) PlanGenerationRunRepo {
  return &planGenerationRunRepo{db: db, log: baseLog.With("repo", "PlanGenerationRunRepo")}
}

func (rr *planGenerationRunRepo) Create(ctx context.Context, tx *gorm.DB, runs []*types.PlanGenerationRun) ([]*types.PlanGenerationRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(runs) == 0 {
    return []*types.PlanGenerationRun{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&runs).Error; err != nil {
    return nil, err
  }
  return runs, nil
}

func (rr *planGenerationRunRepo) GetByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) ([]*types.PlanGenerationRun, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  var results []*types.PlanGenerationRun
  if len(goalIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("goal_id IN ?", goalIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (rr *planGenerationRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, runID uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  return transaction.WithContext(ctx).
    Model(&types.PlanGenerationRun{}).
    Where("id = ?", runID).
    Updates(fields).Error
}

func (rr *planGenerationRunRepo) DeleteByGoalIDs(ctx context.Context, tx *gorm.DB, goalIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }
  if len(goalIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("goal_id IN ?", goalIDs).
    Delete(&types.PlanGenerationRun{}).Error
}
