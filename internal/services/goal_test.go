package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goalforge/goalforge-backend/internal/repos"
	"github.com/goalforge/goalforge-backend/internal/types"
)

type goalFixture struct {
	db          *gorm.DB
	goalRepo    repos.GoalRepo
	taskRepo    repos.TaskRepo
	subTaskRepo repos.SubTaskRepo
	runRepo     repos.PlanGenerationRunRepo
	svc         GoalService
}

func newGoalFixture(t *testing.T) *goalFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	goalRepo := repos.NewGoalRepo(db, log)
	taskRepo := repos.NewTaskRepo(db, log)
	subTaskRepo := repos.NewSubTaskRepo(db, log)
	runRepo := repos.NewPlanGenerationRunRepo(db, log)
	planGen := NewPlanGenerationService(db, log, taskRepo, subTaskRepo, runRepo, nil)
	return &goalFixture{
		db:          db,
		goalRepo:    goalRepo,
		taskRepo:    taskRepo,
		subTaskRepo: subTaskRepo,
		runRepo:     runRepo,
		svc:         NewGoalService(db, log, goalRepo, taskRepo, subTaskRepo, runRepo, planGen),
	}
}

func TestCreateGoal_RejectsInvalidInput(t *testing.T) {
	f := newGoalFixture(t)
	userID := uuid.New()

	if _, err := f.svc.CreateGoal(context.Background(), userID, "  ", "", 4); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if _, err := f.svc.CreateGoal(context.Background(), userID, "Learn Go", "", 0); err == nil {
		t.Fatalf("expected error for weeks below range")
	}
	if _, err := f.svc.CreateGoal(context.Background(), userID, "Learn Go", "", 53); err == nil {
		t.Fatalf("expected error for weeks above range")
	}
}

func TestCreateGoal_PersistsGoalAndRecordsRun(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "erin")

	goal, err := f.svc.CreateGoal(ctx, user.ID, "  Learn Go  ", "backend focus", 4)
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if goal.GoalName != "Learn Go" {
		t.Fatalf("expected trimmed name, got %q", goal.GoalName)
	}
	if goal.Status != types.GoalStatusActive {
		t.Fatalf("expected active status, got %q", goal.Status)
	}

	runs, err := f.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 generation run, got %d", len(runs))
	}
}

func TestGetGoal_ScopedToOwner(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.db, "frank")
	other := seedUser(t, f.db, "grace")
	goal := seedGoal(t, f.db, owner.ID, "Learn Rust", 6)

	got, err := f.svc.GetGoal(ctx, owner.ID, goal.ID)
	if err != nil {
		t.Fatalf("owner load: %v", err)
	}
	if got.ID != goal.ID {
		t.Fatalf("unexpected goal %s", got.ID)
	}

	if _, err := f.svc.GetGoal(ctx, other.ID, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestUpdateGoal_ChangesFields(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "heidi")
	goal := seedGoal(t, f.db, user.ID, "Old Name", 4)

	updated, err := f.svc.UpdateGoal(ctx, user.ID, goal.ID, "New Name", "fresh description", 8)
	if err != nil {
		t.Fatalf("update goal: %v", err)
	}
	if updated.GoalName != "New Name" || updated.Weeks != 8 || updated.Description != "fresh description" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
}

func TestDeleteGoal_CascadesToTasksSubtasksAndRun(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "ivan")
	goal := seedGoal(t, f.db, user.ID, "Learn Piano", 2)

	task := &types.Task{
		ID:            uuid.New(),
		GoalID:        goal.ID,
		WeekNumber:    1,
		Title:         "Week 1",
		ScheduledDate: time.Now(),
		Status:        types.TaskStatusPending,
	}
	if _, err := f.taskRepo.Create(ctx, nil, []*types.Task{task}); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	subtask := &types.SubTask{
		ID:            uuid.New(),
		TaskID:        task.ID,
		Description:   "practice scales",
		ScheduledDate: time.Now(),
		Status:        types.TaskStatusPending,
	}
	if _, err := f.subTaskRepo.Create(ctx, nil, []*types.SubTask{subtask}); err != nil {
		t.Fatalf("seed subtask: %v", err)
	}
	if _, err := f.runRepo.Create(ctx, nil, []*types.PlanGenerationRun{{
		ID:     uuid.New(),
		UserID: user.ID,
		GoalID: goal.ID,
		Status: types.PlanRunStatusSucceeded,
		Stage:  "done",
	}}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	if err := f.svc.DeleteGoal(ctx, user.ID, goal.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}

	if _, err := f.svc.GetGoal(ctx, user.ID, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected goal gone, got %v", err)
	}
	tasks, err := f.taskRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no orphan tasks, got %d", len(tasks))
	}
	subtasks, err := f.subTaskRepo.GetByTaskIDs(ctx, nil, []uuid.UUID{task.ID})
	if err != nil {
		t.Fatalf("load subtasks: %v", err)
	}
	if len(subtasks) != 0 {
		t.Fatalf("expected no orphan subtasks, got %d", len(subtasks))
	}
	runs, err := f.runRepo.GetByGoalIDs(ctx, nil, []uuid.UUID{goal.ID})
	if err != nil {
		t.Fatalf("load runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no orphan runs, got %d", len(runs))
	}
}

func TestDeleteGoal_NotFoundForNonOwner(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.db, "judy")
	other := seedUser(t, f.db, "karl")
	goal := seedGoal(t, f.db, owner.ID, "Learn Chess", 3)

	if err := f.svc.DeleteGoal(ctx, other.ID, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.GetGoal(ctx, owner.ID, goal.ID); err != nil {
		t.Fatalf("goal should survive a non-owner delete: %v", err)
	}
}
