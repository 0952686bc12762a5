package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/goalforge/goalforge-backend/internal/repos"
	"github.com/goalforge/goalforge-backend/internal/types"
)

type stubGemini struct {
	text string
	err  error
}

func (s *stubGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

type testPlanGenEnv struct {
	db          *gorm.DB
	taskRepo    repos.TaskRepo
	subTaskRepo repos.SubTaskRepo
	runRepo     repos.PlanGenerationRunRepo
}

func newPlanGenFixture(t *testing.T, ai GeminiClient) (*planGenerationService, *testPlanGenEnv) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	env := &testPlanGenEnv{
		db:          db,
		taskRepo:    repos.NewTaskRepo(db, log),
		subTaskRepo: repos.NewSubTaskRepo(db, log),
		runRepo:     repos.NewPlanGenerationRunRepo(db, log),
	}
	svc := NewPlanGenerationService(db, log, env.taskRepo, env.subTaskRepo, env.runRepo, ai).(*planGenerationService)
	return svc, env
}

func seedRun(t *testing.T, env *testPlanGenEnv, goal *types.Goal) *types.PlanGenerationRun {
	t.Helper()
	run := &types.PlanGenerationRun{
		ID:       uuid.New(),
		UserID:   goal.UserID,
		GoalID:   goal.ID,
		Status:   types.PlanRunStatusQueued,
		Stage:    "call",
		Metadata: datatypes.JSON([]byte(`{}`)),
	}
	if _, err := env.runRepo.Create(context.Background(), nil, []*types.PlanGenerationRun{run}); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	return run
}

func structuredPlanJSON(weeks int) string {
	out := fmt.Sprintf(`{"goal": "Learn Go", "total_weeks": %d, "weeks": [`, weeks)
	for w := 1; w <= weeks; w++ {
		if w > 1 {
			out += ","
		}
		out += fmt.Sprintf(`{"week_number": %d, "title": "Week %d: Topic", "focus": "Focus %d", "daily_tasks": ["Day 1: read about the basics", "Day 2: build a tiny example", "Day 3: practice the exercises"]}`, w, w, w)
	}
	return out + "]}"
}

func TestProcessRun_StructuredPlanPersistsTasksAndSubtasks(t *testing.T) {
	svc, env := newPlanGenFixture(t, &stubGemini{text: structuredPlanJSON(4)})
	ctx := context.Background()
	db := env.db
	user := seedUser(t, db, "alice")
	goal := seedGoal(t, db, user.ID, "Learn Go", 4)
	run := seedRun(t, env, goal)

	before := time.Now()
	svc.processRun(ctx, run, goal)

	tasks, err := env.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
	byWeek := make(map[int]*types.Task, len(tasks))
	for _, task := range tasks {
		byWeek[task.WeekNumber] = task
	}
	for w := 1; w <= 4; w++ {
		task, ok := byWeek[w]
		if !ok {
			t.Fatalf("missing task for week %d", w)
		}
		wantStart := before.AddDate(0, 0, 7*(w-1))
		if task.ScheduledDate.Before(wantStart.Add(-time.Minute)) || task.ScheduledDate.After(wantStart.Add(time.Minute)) {
			t.Fatalf("week %d scheduled at %v, expected near %v", w, task.ScheduledDate, wantStart)
		}
		subtasks, err := env.subTaskRepo.GetByTaskIDs(ctx, nil, []uuid.UUID{task.ID})
		if err != nil {
			t.Fatalf("load subtasks: %v", err)
		}
		if len(subtasks) != 3 {
			t.Fatalf("week %d: expected 3 subtasks, got %d", w, len(subtasks))
		}
	}

	runs, err := env.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil || len(runs) != 1 {
		t.Fatalf("load run: %v (%d rows)", err, len(runs))
	}
	if runs[0].Status != types.PlanRunStatusSucceeded {
		t.Fatalf("expected succeeded run, got %q (error %q)", runs[0].Status, runs[0].Error)
	}
	if runs[0].Source != string(planSourceStructured) {
		t.Fatalf("expected structured source, got %q", runs[0].Source)
	}
}

func TestProcessRun_UpstreamErrorFallsBackToGenericPlan(t *testing.T) {
	svc, env := newPlanGenFixture(t, &stubGemini{err: fmt.Errorf("upstream unavailable")})
	ctx := context.Background()
	db := env.db
	user := seedUser(t, db, "bob")
	goal := seedGoal(t, db, user.ID, "Learn Piano", 2)
	run := seedRun(t, env, goal)

	svc.processRun(ctx, run, goal)

	tasks, err := env.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		subtasks, err := env.subTaskRepo.GetByTaskIDs(ctx, nil, []uuid.UUID{task.ID})
		if err != nil {
			t.Fatalf("load subtasks: %v", err)
		}
		if len(subtasks) != 5 {
			t.Fatalf("expected 5 generic subtasks, got %d", len(subtasks))
		}
	}

	runs, _ := env.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if runs[0].Source != string(planSourceGeneric) {
		t.Fatalf("expected generic source, got %q", runs[0].Source)
	}
	if runs[0].Status != types.PlanRunStatusSucceeded {
		t.Fatalf("expected succeeded run, got %q", runs[0].Status)
	}
}

func TestProcessRun_ProseResponseUsesTextFallback(t *testing.T) {
	prose := "Sure! Here's your plan.\n" +
		"Week 1: Foundations\n" +
		"- Learn the scales and basic chords\n" +
		"- Practice finger positioning daily sessions\n" +
		"Week 2: First Songs\n" +
		"- Pick an easy song and learn the first half\n"
	svc, env := newPlanGenFixture(t, &stubGemini{text: prose})
	ctx := context.Background()
	db := env.db
	user := seedUser(t, db, "carol")
	goal := seedGoal(t, db, user.ID, "Learn Guitar", 6)
	run := seedRun(t, env, goal)

	svc.processRun(ctx, run, goal)

	tasks, err := env.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks from text sections, got %d", len(tasks))
	}

	runs, _ := env.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if runs[0].Source != string(planSourceText) {
		t.Fatalf("expected text source, got %q", runs[0].Source)
	}
}

func TestProcessRun_NoClientGoesStraightToGeneric(t *testing.T) {
	svc, env := newPlanGenFixture(t, nil)
	ctx := context.Background()
	db := env.db
	user := seedUser(t, db, "dave")
	goal := seedGoal(t, db, user.ID, "Learn Chess", 3)
	run := seedRun(t, env, goal)

	svc.processRun(ctx, run, goal)

	tasks, err := env.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	runs, _ := env.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if runs[0].Source != string(planSourceGeneric) {
		t.Fatalf("expected generic source, got %q", runs[0].Source)
	}
}

func TestGeneratePreview_RequiresClient(t *testing.T) {
	svc, _ := newPlanGenFixture(t, nil)
	if _, err := svc.GeneratePreview(context.Background(), "go", 4); err == nil {
		t.Fatalf("expected error without a configured client")
	}
}

func TestGeneratePreview_ReturnsUpstreamText(t *testing.T) {
	svc, _ := newPlanGenFixture(t, &stubGemini{text: "Week 1: start here."})
	out, err := svc.GeneratePreview(context.Background(), "go", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Week 1: start here." {
		t.Fatalf("unexpected preview: %q", out)
	}
}
