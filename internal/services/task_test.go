package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goalforge/goalforge-backend/internal/repos"
	"github.com/goalforge/goalforge-backend/internal/types"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls []string
	done  chan struct{}
}

func (n *recordingNotifier) TaskCompleted(ctx context.Context, user *types.User, task *types.Task) {
	n.mu.Lock()
	n.calls = append(n.calls, task.Title)
	n.mu.Unlock()
	n.done <- struct{}{}
}

type taskFixture struct {
	db       *gorm.DB
	svc      TaskService
	notifier *recordingNotifier
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	notifier := &recordingNotifier{done: make(chan struct{}, 8)}
	svc := NewTaskService(
		db,
		log,
		repos.NewGoalRepo(db, log),
		repos.NewTaskRepo(db, log),
		repos.NewSubTaskRepo(db, log),
		repos.NewUserRepo(db, log),
		notifier,
	)
	return &taskFixture{db: db, svc: svc, notifier: notifier}
}

func seedTask(t *testing.T, db *gorm.DB, goalID uuid.UUID, week int, scheduled time.Time) *types.Task {
	t.Helper()
	task := &types.Task{
		ID:            uuid.New(),
		GoalID:        goalID,
		WeekNumber:    week,
		Title:         "Week task",
		ScheduledDate: scheduled,
		Status:        types.TaskStatusPending,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func seedSubTask(t *testing.T, db *gorm.DB, taskID uuid.UUID) *types.SubTask {
	t.Helper()
	subtask := &types.SubTask{
		ID:            uuid.New(),
		TaskID:        taskID,
		Description:   "a daily exercise",
		ScheduledDate: time.Now(),
		Status:        types.TaskStatusPending,
	}
	if err := db.Create(subtask).Error; err != nil {
		t.Fatalf("seed subtask: %v", err)
	}
	return subtask
}

func TestGetGoalTasks_ScopedToOwner(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.db, "lena")
	other := seedUser(t, f.db, "marc")
	goal := seedGoal(t, f.db, owner.ID, "Learn Go", 4)
	seedTask(t, f.db, goal.ID, 1, time.Now())

	tasks, err := f.svc.GetGoalTasks(ctx, owner.ID, goal.ID)
	if err != nil {
		t.Fatalf("owner load: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}

	if _, err := f.svc.GetGoalTasks(ctx, other.ID, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestGetTodayTasks_FiltersByLocalDay(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "nina")
	goal := seedGoal(t, f.db, user.ID, "Learn Go", 4)

	now := time.Now()
	seedTask(t, f.db, goal.ID, 1, now)
	seedTask(t, f.db, goal.ID, 2, now.AddDate(0, 0, 7))
	seedTask(t, f.db, goal.ID, 3, now.AddDate(0, 0, -3))

	tasks, err := f.svc.GetTodayTasks(ctx, user.ID)
	if err != nil {
		t.Fatalf("today tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task scheduled today, got %d", len(tasks))
	}
	if tasks[0].WeekNumber != 1 {
		t.Fatalf("wrong task returned: week %d", tasks[0].WeekNumber)
	}
}

func TestGetTaskSubTasks_ScopedToOwner(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.db, "omar")
	other := seedUser(t, f.db, "pat")
	goal := seedGoal(t, f.db, owner.ID, "Learn Go", 4)
	task := seedTask(t, f.db, goal.ID, 1, time.Now())
	seedSubTask(t, f.db, task.ID)

	subtasks, err := f.svc.GetTaskSubTasks(ctx, owner.ID, task.ID)
	if err != nil {
		t.Fatalf("owner load: %v", err)
	}
	if len(subtasks) != 1 {
		t.Fatalf("expected 1 subtask, got %d", len(subtasks))
	}

	if _, err := f.svc.GetTaskSubTasks(ctx, other.ID, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}
}

func TestUpdateTaskStatus_RejectsUnknownStatus(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "quinn")
	goal := seedGoal(t, f.db, user.ID, "Learn Go", 4)
	task := seedTask(t, f.db, goal.ID, 1, time.Now())

	if _, err := f.svc.UpdateTaskStatus(ctx, user.ID, task.ID, types.TaskStatus("done-ish")); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestUpdateTaskStatus_CompletionNotifiesOwner(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "rosa")
	goal := seedGoal(t, f.db, user.ID, "Learn Go", 4)
	task := seedTask(t, f.db, goal.ID, 1, time.Now())

	updated, err := f.svc.UpdateTaskStatus(ctx, user.ID, task.ID, types.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != types.TaskStatusCompleted {
		t.Fatalf("expected completed, got %q", updated.Status)
	}

	select {
	case <-f.notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected completion notification")
	}

	var stored types.Task
	if err := f.db.First(&stored, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if stored.Status != types.TaskStatusCompleted {
		t.Fatalf("status not persisted, got %q", stored.Status)
	}
}

func TestUpdateTaskStatus_NonCompletionDoesNotNotify(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	user := seedUser(t, f.db, "sven")
	goal := seedGoal(t, f.db, user.ID, "Learn Go", 4)
	task := seedTask(t, f.db, goal.ID, 1, time.Now())

	if _, err := f.svc.UpdateTaskStatus(ctx, user.ID, task.ID, types.TaskStatusInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}
	select {
	case <-f.notifier.done:
		t.Fatalf("unexpected notification for in_progress")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdateSubTaskStatus_ScopedToOwner(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()
	owner := seedUser(t, f.db, "tara")
	other := seedUser(t, f.db, "ulf")
	goal := seedGoal(t, f.db, owner.ID, "Learn Go", 4)
	task := seedTask(t, f.db, goal.ID, 1, time.Now())
	subtask := seedSubTask(t, f.db, task.ID)

	if _, err := f.svc.UpdateSubTaskStatus(ctx, other.ID, subtask.ID, types.TaskStatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owner, got %v", err)
	}

	updated, err := f.svc.UpdateSubTaskStatus(ctx, owner.ID, subtask.ID, types.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != types.TaskStatusCompleted {
		t.Fatalf("expected completed, got %q", updated.Status)
	}
}
