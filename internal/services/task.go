package services

import (
  "context"
  "errors"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/repos"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type TaskService interface {
  GetGoalTasks(ctx context.Context, userID, goalID uuid.UUID) ([]*types.Task, error)
  GetTodayTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error)
  GetTaskSubTasks(ctx context.Context, userID, taskID uuid.UUID) ([]*types.SubTask, error)
  UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status types.TaskStatus) (*types.Task, error)
  UpdateSubTaskStatus(ctx context.Context, userID, subtaskID uuid.UUID, status types.TaskStatus) (*types.SubTask, error)
}

type taskService struct {
  db  *gorm.DB
  log *logger.Logger

  goalRepo    repos.GoalRepo
  taskRepo    repos.TaskRepo
  subTaskRepo repos.SubTaskRepo
  userRepo    repos.UserRepo

  notifier EmailNotifier
}

func NewTaskService(
  db *gorm.DB,
  baseLog *logger.Logger,
  goalRepo repos.GoalRepo,
  taskRepo repos.TaskRepo,
  subTaskRepo repos.SubTaskRepo,
  userRepo repos.UserRepo,
  notifier EmailNotifier,
) TaskService {
  return &taskService{
    db:          db,
    log:         baseLog.With("service", "TaskService"),
    goalRepo:    goalRepo,
    taskRepo:    taskRepo,
    subTaskRepo: subTaskRepo,
    userRepo:    userRepo,
    notifier:    notifier,
  }
}

func (ts *taskService) GetGoalTasks(ctx context.Context, userID, goalID uuid.UUID) ([]*types.Task, error) {
  if _, err := ts.goalRepo.GetOwned(ctx, nil, goalID, userID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("load goal: %w", err)
  }
  tasks, err := ts.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goalID})
  if err != nil {
    return nil, fmt.Errorf("load tasks: %w", err)
  }
  return tasks, nil
}

func (ts *taskService) GetTodayTasks(ctx context.Context, userID uuid.UUID) ([]*types.Task, error) {
  now := time.Now()
  dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
  tasks, err := ts.taskRepo.GetScheduledBetween(ctx, nil, userID, dayStart, dayStart.AddDate(0, 0, 1))
  if err != nil {
    return nil, fmt.Errorf("load today's tasks: %w", err)
  }
  return tasks, nil
}

func (ts *taskService) GetTaskSubTasks(ctx context.Context, userID, taskID uuid.UUID) ([]*types.SubTask, error) {
  if _, err := ts.taskRepo.GetOwned(ctx, nil, taskID, userID); err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("load task: %w", err)
  }
  subtasks, err := ts.subTaskRepo.GetByTaskIDs(ctx, nil, []uuid.UUID{taskID})
  if err != nil {
    return nil, fmt.Errorf("load subtasks: %w", err)
  }
  return subtasks, nil
}

func (ts *taskService) UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status types.TaskStatus) (*types.Task, error) {
  if !status.Valid() {
    return nil, fmt.Errorf("invalid task status %q", status)
  }
  task, err := ts.taskRepo.GetOwned(ctx, nil, taskID, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("load task: %w", err)
  }

  if err := ts.taskRepo.UpdateFields(ctx, nil, task.ID, map[string]any{
    "status":     status,
    "updated_at": time.Now(),
  }); err != nil {
    return nil, fmt.Errorf("update task: %w", err)
  }
  task.Status = status

  if status == types.TaskStatusCompleted {
    users, uErr := ts.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
    if uErr == nil && len(users) > 0 {
      user := users[0]
      taskCopy := *task
      go ts.notifier.TaskCompleted(context.Background(), user, &taskCopy)
    }
  }

  return task, nil
}

func (ts *taskService) UpdateSubTaskStatus(ctx context.Context, userID, subtaskID uuid.UUID, status types.TaskStatus) (*types.SubTask, error) {
  if !status.Valid() {
    return nil, fmt.Errorf("invalid subtask status %q", status)
  }
  subtask, err := ts.subTaskRepo.GetOwned(ctx, nil, subtaskID, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, ErrNotFound
    }
    return nil, fmt.Errorf("load subtask: %w", err)
  }

  if err := ts.subTaskRepo.UpdateFields(ctx, nil, subtask.ID, map[string]any{
    "status":     status,
    "updated_at": time.Now(),
  }); err != nil {
    return nil, fmt.Errorf("update subtask: %w", err)
  }
  subtask.Status = status
  return subtask, nil
}
