package handlers

import (
  "errors"
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/services"
  "github.com/goalforge/goalforge-backend/internal/types"
)

type TaskHandler struct {
  log         *logger.Logger
  taskService services.TaskService
}

func NewTaskHandler(log *logger.Logger, taskService services.TaskService) *TaskHandler {
  return &TaskHandler{
    log:         log.With("handler", "TaskHandler"),
    taskService: taskService,
  }
}

type statusUpdateRequest struct {
  Status string `json:"status"`
}

func (th *TaskHandler) ListGoalTasks(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goalID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  tasks, err := th.taskService.GetGoalTasks(c.Request.Context(), userID, goalID)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "goal_not_found", fmt.Errorf("goal not found"))
      return
    }
    th.log.Error("ListGoalTasks failed", "error", err, "goal_id", goalID)
    RespondError(c, http.StatusInternalServerError, "load_tasks_failed", err)
    return
  }
  RespondOK(c, tasks)
}

func (th *TaskHandler) ListTodayTasks(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  tasks, err := th.taskService.GetTodayTasks(c.Request.Context(), userID)
  if err != nil {
    th.log.Error("ListTodayTasks failed", "error", err, "user_id", userID)
    RespondError(c, http.StatusInternalServerError, "load_tasks_failed", err)
    return
  }
  RespondOK(c, tasks)
}

func (th *TaskHandler) ListTaskSubTasks(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  taskID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  subtasks, err := th.taskService.GetTaskSubTasks(c.Request.Context(), userID, taskID)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "task_not_found", fmt.Errorf("task not found"))
      return
    }
    th.log.Error("ListTaskSubTasks failed", "error", err, "task_id", taskID)
    RespondError(c, http.StatusInternalServerError, "load_subtasks_failed", err)
    return
  }
  RespondOK(c, subtasks)
}

func (th *TaskHandler) UpdateTaskStatus(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  taskID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  var req statusUpdateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  task, err := th.taskService.UpdateTaskStatus(c.Request.Context(), userID, taskID, types.TaskStatus(req.Status))
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "task_not_found", fmt.Errorf("task not found"))
      return
    }
    RespondError(c, http.StatusBadRequest, "update_task_failed", err)
    return
  }
  RespondOK(c, task)
}

func (th *TaskHandler) UpdateSubTaskStatus(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  subtaskID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  var req statusUpdateRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  subtask, err := th.taskService.UpdateSubTaskStatus(c.Request.Context(), userID, subtaskID, types.TaskStatus(req.Status))
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "subtask_not_found", fmt.Errorf("subtask not found"))
      return
    }
    RespondError(c, http.StatusBadRequest, "update_subtask_failed", err)
    return
  }
  RespondOK(c, subtask)
}
