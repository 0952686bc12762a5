package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/repos"
  "github.com/goalforge/goalforge-backend/internal/types"
)

// PlanGenerationService turns a freshly created Goal into persisted Task and
// SubTask rows. The generation service's output is untrusted: the pipeline
// degrades from the structured JSON plan through a prose fallback down to a
// fixed generic template, and a Goal never ends up with zero Tasks short of
// a storage failure.
type PlanGenerationService interface {
  EnqueueForGoal(ctx context.Context, goal *types.Goal) (*types.PlanGenerationRun, error)
  GeneratePreview(ctx context.Context, skill string, weeks int) (string, error)
}

type planGenerationService struct {
  db  *gorm.DB
  log *logger.Logger

  taskRepo    repos.TaskRepo
  subTaskRepo repos.SubTaskRepo
  runRepo     repos.PlanGenerationRunRepo

  // nil when no API key is configured; the pipeline then goes straight to
  // the generic tier.
  ai GeminiClient
}

func NewPlanGenerationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  taskRepo repos.TaskRepo,
  subTaskRepo repos.SubTaskRepo,
  runRepo repos.PlanGenerationRunRepo,
  ai GeminiClient,
) PlanGenerationService {
  return &planGenerationService{
    db:          db,
    log:         baseLog.With("service", "PlanGenerationService"),
    taskRepo:    taskRepo,
    subTaskRepo: subTaskRepo,
    runRepo:     runRepo,
    ai:          ai,
  }
}

// EnqueueForGoal records the run and kicks off generation in the background.
// The caller's HTTP response does not wait for it; a client may briefly
// observe the Goal with zero Tasks.
func (pgs *planGenerationService) EnqueueForGoal(ctx context.Context, goal *types.Goal) (*types.PlanGenerationRun, error) {
  now := time.Now()
  run := &types.PlanGenerationRun{
    ID:        uuid.New(),
    UserID:    goal.UserID,
    GoalID:    goal.ID,
    Status:    types.PlanRunStatusQueued,
    Stage:     "call",
    Metadata:  datatypes.JSON([]byte(`{}`)),
    CreatedAt: now,
    UpdatedAt: now,
  }
  if _, err := pgs.runRepo.Create(ctx, nil, []*types.PlanGenerationRun{run}); err != nil {
    return nil, fmt.Errorf("create plan generation run: %w", err)
  }

  goalCopy := *goal
  go pgs.processRun(context.Background(), run, &goalCopy)

  return run, nil
}

func (pgs *planGenerationService) processRun(ctx context.Context, run *types.PlanGenerationRun, goal *types.Goal) {
  log := pgs.log.With("goal_id", goal.ID, "run_id", run.ID)

  stage := func(name string) {
    _ = pgs.runRepo.UpdateFields(ctx, nil, run.ID, map[string]any{
      "status":     types.PlanRunStatusRunning,
      "stage":      name,
      "updated_at": time.Now(),
    })
  }
  finish := func(source planSource, weekCount int) {
    _ = pgs.runRepo.UpdateFields(ctx, nil, run.ID, map[string]any{
      "status":     types.PlanRunStatusSucceeded,
      "stage":      "done",
      "source":     string(source),
      "metadata":   datatypes.JSON(fmt.Appendf(nil, `{"weeks":%d}`, weekCount)),
      "updated_at": time.Now(),
    })
  }
  fail := func(stageName string, err error) {
    log.Error("Plan generation failed", "stage", stageName, "error", err)
    _ = pgs.runRepo.UpdateFields(ctx, nil, run.ID, map[string]any{
      "status":     types.PlanRunStatusFailed,
      "stage":      stageName,
      "error":      err.Error(),
      "updated_at": time.Now(),
    })
  }

  anchor := time.Now()
  weeks, source := pgs.resolvePlan(ctx, log, goal, stage)

  stage("build")
  if err := pgs.persistWeeks(ctx, goal.ID, weeks, anchor); err != nil {
    // Absolute backstop: a richer tier failing mid-persist must still
    // leave the goal with a plan.
    log.Warn("Persisting plan failed, falling back to generic template", "source", source, "error", err)
    if source == planSourceGeneric {
      fail("build", err)
      return
    }
    if gErr := pgs.persistWeeks(ctx, goal.ID, genericWeeks(goal.Weeks), anchor); gErr != nil {
      fail("build", gErr)
      return
    }
    source = planSourceGeneric
    weeks = genericWeeks(goal.Weeks)
  }

  log.Info("Plan generated", "source", source, "weeks", len(weeks))
  finish(source, len(weeks))
}

// resolvePlan walks the fallback chain and returns the best plan it can,
// tagged with the tier that produced it. It never returns an empty plan.
func (pgs *planGenerationService) resolvePlan(ctx context.Context, log *logger.Logger, goal *types.Goal, stage func(string)) ([]planWeek, planSource) {
  if pgs.ai == nil {
    log.Warn("No generation API key configured, using generic plan")
    return genericWeeks(goal.Weeks), planSourceGeneric
  }

  raw, err := pgs.ai.GenerateText(ctx, buildPlanPrompt(goal.GoalName, goal.Weeks))
  if err != nil {
    log.Warn("Generation service call failed, using generic plan", "error", err)
    return genericWeeks(goal.Weeks), planSourceGeneric
  }
  if strings.TrimSpace(raw) == "" {
    log.Warn("Generation service returned empty response, using generic plan")
    return genericWeeks(goal.Weeks), planSourceGeneric
  }

  stage("extract")
  candidate := extractPlanJSON(raw)

  stage("parse")
  data, err := decodePlanJSON(candidate)
  if err != nil {
    log.Debug("Plan JSON did not parse, using text fallback", "error", err)
    return pgs.textFallback(log, raw, goal)
  }

  stage("validate")
  if !validateScheduleData(data) {
    log.Debug("Plan JSON failed structural validation, using text fallback")
    return pgs.textFallback(log, raw, goal)
  }

  weeks := structuredWeeks(data, goal.Weeks)
  if len(weeks) == 0 {
    log.Debug("No usable week entries after week-number policy, using text fallback")
    return pgs.textFallback(log, raw, goal)
  }
  return weeks, planSourceStructured
}

func (pgs *planGenerationService) textFallback(log *logger.Logger, raw string, goal *types.Goal) ([]planWeek, planSource) {
  weeks := textWeeks(raw, goal.Weeks)
  if len(weeks) == 0 {
    log.Debug("No week sections found in text, using generic plan")
    return genericWeeks(goal.Weeks), planSourceGeneric
  }
  return weeks, planSourceText
}

// persistWeeks writes one Task per week plus its SubTasks. Each Task is
// committed before its SubTasks so the foreign key is always valid.
func (pgs *planGenerationService) persistWeeks(ctx context.Context, goalID uuid.UUID, weeks []planWeek, anchor time.Time) error {
  for _, week := range weeks {
    weekStart := anchor.AddDate(0, 0, 7*(week.WeekNumber-1))
    task := &types.Task{
      ID:            uuid.New(),
      GoalID:        goalID,
      WeekNumber:    week.WeekNumber,
      Title:         week.Title,
      Description:   week.Description,
      ScheduledDate: weekStart,
      Status:        types.TaskStatusPending,
    }
    if _, err := pgs.taskRepo.Create(ctx, nil, []*types.Task{task}); err != nil {
      return fmt.Errorf("create task for week %d: %w", week.WeekNumber, err)
    }

    subtasks := make([]*types.SubTask, 0, len(week.Days))
    for _, day := range week.Days {
      subtasks = append(subtasks, &types.SubTask{
        ID:            uuid.New(),
        TaskID:        task.ID,
        Description:   day.Description,
        ScheduledDate: weekStart.AddDate(0, 0, day.DayOffset),
        Status:        types.TaskStatusPending,
      })
    }
    if _, err := pgs.subTaskRepo.Create(ctx, nil, subtasks); err != nil {
      return fmt.Errorf("create subtasks for week %d: %w", week.WeekNumber, err)
    }
  }
  return nil
}

// GeneratePreview backs the schedule preview endpoint; unlike plan
// generation it surfaces upstream errors to the caller.
func (pgs *planGenerationService) GeneratePreview(ctx context.Context, skill string, weeks int) (string, error) {
  if pgs.ai == nil {
    return "", fmt.Errorf("generation API key not configured")
  }
  prompt := fmt.Sprintf(
    "Create a beginner-friendly weekly learning schedule for %s over %d weeks. "+
      "Include topics and small projects/examples. Format exactly as: "+
      "Week 1: <one paragraph>. Week 2: <one paragraph>. ... Keep it plain text.",
    skill, weeks,
  )
  text, err := pgs.ai.GenerateText(ctx, prompt)
  if err != nil {
    return "", fmt.Errorf("generate schedule: %w", err)
  }
  return text, nil
}

func buildPlanPrompt(goalName string, weeks int) string {
  return fmt.Sprintf(`Create a detailed %d-week learning plan for the goal: "%s"

Return your response as a valid JSON object with this exact structure:
{
    "goal": "%s",
    "total_weeks": %d,
    "weeks": [
        {
            "week_number": 1,
            "title": "Week 1: Introduction and Basics",
            "focus": "Main learning objectives for this week",
            "daily_tasks": [
                "Day 1: Specific task description",
                "Day 2: Another specific task",
                "Day 3: Continue with next task",
                "Day 4: Practice and reinforce",
                "Day 5: Apply what you learned",
                "Day 6: Review and consolidate",
                "Day 7: Rest or light practice"
            ]
        }
    ]
}

Guidelines:
- Create exactly %d week objects
- Each week should have 7 daily tasks (can include rest days)
- Tasks should be specific, actionable, and progressive
- Focus should be a brief summary of the week's main objectives
- Ensure proper JSON formatting with no syntax errors
- Do not include any text outside the JSON object`, weeks, goalName, goalName, weeks, weeks)
}
