package services

import (
  "context"
  "fmt"
  "math"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/repos"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type DashboardStats struct {
  TotalGoals      int     `json:"total_goals"`
  ActiveGoals     int     `json:"active_goals"`
  CompletedGoals  int     `json:"completed_goals"`
  TotalTasks      int     `json:"total_tasks"`
  CompletedTasks  int     `json:"completed_tasks"`
  PendingTasks    int     `json:"pending_tasks"`
  InProgressTasks int     `json:"in_progress_tasks"`
  CompletionRate  float64 `json:"completion_rate"`
  TodayTasks      int     `json:"today_tasks"`
  TodayCompleted  int     `json:"today_completed"`
}

type DashboardService interface {
  GetStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)
}

type dashboardService struct {
  db       *gorm.DB
  log      *logger.Logger
  goalRepo repos.GoalRepo
  taskRepo repos.TaskRepo
}

func NewDashboardService(db *gorm.DB, baseLog *logger.Logger, goalRepo repos.GoalRepo, taskRepo repos.TaskRepo) DashboardService {
  return &dashboardService{
    db:       db,
    log:      baseLog.With("service", "DashboardService"),
    goalRepo: goalRepo,
    taskRepo: taskRepo,
  }
}

func (ds *dashboardService) GetStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
  goals, err := ds.goalRepo.GetByUserID(ctx, nil, userID)
  if err != nil {
    return nil, fmt.Errorf("load goals: %w", err)
  }

  stats := &DashboardStats{TotalGoals: len(goals)}
  goalIDs := make([]uuid.UUID, 0, len(goals))
  for _, goal := range goals {
    goalIDs = append(goalIDs, goal.ID)
    switch goal.Status {
    case types.GoalStatusActive:
      stats.ActiveGoals++
    case types.GoalStatusCompleted:
      stats.CompletedGoals++
    }
  }

  tasks, err := ds.taskRepo.GetByGoalIDs(ctx, nil, goalIDs)
  if err != nil {
    return nil, fmt.Errorf("load tasks: %w", err)
  }

  now := time.Now()
  dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
  dayEnd := dayStart.AddDate(0, 0, 1)

  stats.TotalTasks = len(tasks)
  for _, task := range tasks {
    switch task.Status {
    case types.TaskStatusCompleted:
      stats.CompletedTasks++
    case types.TaskStatusPending:
      stats.PendingTasks++
    case types.TaskStatusInProgress:
      stats.InProgressTasks++
    }
    if !task.ScheduledDate.Before(dayStart) && task.ScheduledDate.Before(dayEnd) {
      stats.TodayTasks++
      if task.Status == types.TaskStatusCompleted {
        stats.TodayCompleted++
      }
    }
  }

  if stats.TotalTasks > 0 {
    rate := float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
    stats.CompletionRate = math.Round(rate*10) / 10
  }
  return stats, nil
}
