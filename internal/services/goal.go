package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/repos"
  "github.com/goalforge/goalforge-backend/internal/types"
)

const (
  minGoalWeeks = 1
  maxGoalWeeks = 52
)

type GoalService interface {
  CreateGoal(ctx context.Context, userID uuid.UUID, name, description string, weeks int) (*types.Goal, error)
  GetUserGoals(ctx context.Context, userID uuid.UUID) ([]*types.Goal, error)
  GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*types.Goal, error)
  UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, name, description string, weeks int) (*types.Goal, error)
  DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error
}

type goalService struct {
  db  *gorm.DB
  log *logger.Logger

  goalRepo    repos.GoalRepo
  taskRepo    repos.TaskRepo
  subTaskRepo repos.SubTaskRepo
  runRepo     repos.PlanGenerationRunRepo

  planGen PlanGenerationService
}

func NewGoalService(
  db *gorm.DB,
  baseLog *logger.Logger,
  goalRepo repos.GoalRepo,
  taskRepo repos.TaskRepo,
  subTaskRepo repos.SubTaskRepo,
  runRepo repos.PlanGenerationRunRepo,
  planGen PlanGenerationService,
) GoalService {
  return &goalService{
    db:          db,
    log:         baseLog.With("service", "GoalService"),
    goalRepo:    goalRepo,
    taskRepo:    taskRepo,
    subTaskRepo: subTaskRepo,
    runRepo:     runRepo,
    planGen:     planGen,
  }
}

func validateGoalInput(name string, weeks int) error {
  if strings.TrimSpace(name) == "" {
    return fmt.Errorf("goal name is required")
  }
  if weeks < minGoalWeeks || weeks > maxGoalWeeks {
    return fmt.Errorf("weeks must be between %d and %d", minGoalWeeks, maxGoalWeeks)
  }
  return nil
}

// CreateGoal persists the goal and enqueues its single plan-generation run.
// Generation happens in the background; the returned goal may not have tasks
// yet.
func (gs *goalService) CreateGoal(ctx context.Context, userID uuid.UUID, name, description string, weeks int) (*types.Goal, error) {
  if err := validateGoalInput(name, weeks); err != nil {
    return nil, err
  }
  goal := &types.Goal{
    ID:          uuid.New(),
    UserID:      userID,
    GoalName:    strings.TrimSpace(name),
    Description: description,
    Weeks:       weeks,
    Status:      types.GoalStatusActive,
  }
  if _, err := gs.goalRepo.Create(ctx, nil, []*types.Goal{goal}); err != nil {
    return nil, fmt.Errorf("create goal: %w", err)
  }

  if _, err := gs.planGen.EnqueueForGoal(ctx, goal); err != nil {
    // The goal itself is committed; a failed enqueue only costs the
    // auto-generated plan.
    gs.log.Error("Failed to enqueue plan generation", "goal_id", goal.ID, "error", err)
  }

  gs.log.Info("New goal created", "goal_id", goal.ID, "goal_name", goal.GoalName, "user_id", userID)
  return goal, nil
}

func (gs *goalService) GetUserGoals(ctx context.Context, userID uuid.UUID) ([]*types.Goal, error) {
  goals, err := gs.goalRepo.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("load goals: %w", err)
  }
  return goals, nil
}

func (gs *goalService) GetGoal(ctx context.Context, userID, goalID uuid.UUID) (*types.Goal, error) {
  goal, err := gs.goalRepo.GetOwned(ctx, nil, goalID, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("load goal: %w", err)
  }
  return goal, nil
}

func (gs *goalService) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, name, description string, weeks int) (*types.Goal, error) {
  if err := validateGoalInput(name, weeks); err != nil {
    return nil, err
  }
  var updated *types.Goal
  err := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    goal, err := gs.goalRepo.GetOwned(ctx, tx, goalID, userID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return ErrNotFound
      }
      return fmt.Errorf("load goal: %w", err)
    }
    if err := gs.goalRepo.UpdateFields(ctx, tx, goal.ID, map[string]any{
      "goal_name":   strings.TrimSpace(name),
      "description": description,
      "weeks":       weeks,
      "updated_at":  time.Now(),
    }); err != nil {
      return fmt.Errorf("update goal: %w", err)
    }
    updated, err = gs.goalRepo.GetOwned(ctx, tx, goalID, userID)
    if err != nil {
      return fmt.Errorf("reload goal: %w", err)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

// DeleteGoal removes the goal and everything under it. The cascade is
// explicit so it also holds on databases migrated without FK enforcement.
func (gs *goalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
  return gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    goal, err := gs.goalRepo.GetOwned(ctx, tx, goalID, userID)
    if err != nil {
      if errors.Is(err, gorm.ErrRecordNotFound) {
        return ErrNotFound
      }
      return fmt.Errorf("load goal: %w", err)
    }

    tasks, err := gs.taskRepo.GetByGoalIDs(ctx, tx, []uuid.UUID{goal.ID})
    if err != nil {
      return fmt.Errorf("load tasks: %w", err)
    }
    taskIDs := make([]uuid.UUID, 0, len(tasks))
    for _, task := range tasks {
      taskIDs = append(taskIDs, task.ID)
    }

    if err := gs.subTaskRepo.DeleteByTaskIDs(ctx, tx, taskIDs); err != nil {
      return fmt.Errorf("delete subtasks: %w", err)
    }
    if err := gs.taskRepo.DeleteByGoalIDs(ctx, tx, []uuid.UUID{goal.ID}); err != nil {
      return fmt.Errorf("delete tasks: %w", err)
    }
    if err := gs.runRepo.DeleteByGoalIDs(ctx, tx, []uuid.UUID{goal.ID}); err != nil {
      return fmt.Errorf("delete generation run: %w", err)
    }
    if err := gs.goalRepo.DeleteByIDs(ctx, tx, []uuid.UUID{goal.ID}); err != nil {
      return fmt.Errorf("delete goal: %w", err)
    }

    gs.log.Info("Goal deleted", "goal_id", goal.ID, "user_id", userID)
    return nil
  })
}
