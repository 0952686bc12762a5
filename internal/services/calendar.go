package services

import (
  "context"
  "errors"
  "fmt"
  "os"
  "time"

  ics "github.com/arran4/golang-ical"
  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/repos"
)

type CalendarService interface {
  // ExportGoalCalendar writes the goal's tasks as an ICS file to a temp
  // path and returns that path plus the download filename.
  ExportGoalCalendar(ctx context.Context, userID, goalID uuid.UUID) (string, string, error)
}

type calendarService struct {
  db       *gorm.DB
  log      *logger.Logger
  goalRepo repos.GoalRepo
  taskRepo repos.TaskRepo
}

func NewCalendarService(db *gorm.DB, baseLog *logger.Logger, goalRepo repos.GoalRepo, taskRepo repos.TaskRepo) CalendarService {
  return &calendarService{
    db:       db,
    log:      baseLog.With("service", "CalendarService"),
    goalRepo: goalRepo,
    taskRepo: taskRepo,
  }
}

func (cs *calendarService) ExportGoalCalendar(ctx context.Context, userID, goalID uuid.UUID) (string, string, error) {
  goal, err := cs.goalRepo.GetOwned(ctx, nil, goalID, userID)
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return "", "", ErrNotFound
    }
    return "", "", fmt.Errorf("load goal: %w", err)
  }

  tasks, err := cs.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
  if err != nil {
    return "", "", fmt.Errorf("load tasks: %w", err)
  }

  cal := ics.NewCalendar()
  cal.SetMethod(ics.MethodPublish)
  for _, task := range tasks {
    event := cal.AddEvent(task.ID.String())
    start := task.ScheduledDate.UTC()
    event.SetCreatedTime(time.Now().UTC())
    event.SetStartAt(start)
    event.SetEndAt(start.Add(time.Hour))
    event.SetSummary(task.Title)
    event.SetDescription(task.Description)
  }

  filename := fmt.Sprintf("goal_%s_calendar_%s.ics", goal.ID, uuid.New().String())
  tmp, err := os.CreateTemp("", "goalforge-*.ics")
  if err != nil {
    return "", "", fmt.Errorf("create calendar file: %w", err)
  }
  if _, err := tmp.WriteString(cal.Serialize()); err != nil {
    _ = tmp.Close()
    _ = os.Remove(tmp.Name())
    return "", "", fmt.Errorf("write calendar file: %w", err)
  }
  if err := tmp.Close(); err != nil {
    _ = os.Remove(tmp.Name())
    return "", "", fmt.Errorf("close calendar file: %w", err)
  }

  return tmp.Name(), filename, nil
}
