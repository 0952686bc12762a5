package services

import (
  "context"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/types"
)

// EmailNotifier announces task completions to the owning user. The only
// transport wired today logs the message; a real mail provider can replace
// it behind the same interface.
type EmailNotifier interface {
  TaskCompleted(ctx context.Context, user *types.User, task *types.Task)
}

type logEmailNotifier struct {
  log *logger.Logger
}

func NewLogEmailNotifier(baseLog *logger.Logger) EmailNotifier {
  return &logEmailNotifier{log: baseLog.With("service", "EmailNotifier")}
}

func (n *logEmailNotifier) TaskCompleted(ctx context.Context, user *types.User, task *types.Task) {
  if n == nil || user == nil || task == nil {
    return
  }
  n.log.Info("Sending task completion email",
    "email", user.Email,
    "subject", "Task Completed!",
    "task_title", task.Title,
  )
}
