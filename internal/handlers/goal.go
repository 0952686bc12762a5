package handlers

import (
  "errors"
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/requestdata"
  "github.com/goalforge/goalforge-backend/internal/services"
)

type GoalHandler struct {
  log         *logger.Logger
  goalService services.GoalService
}

func NewGoalHandler(log *logger.Logger, goalService services.GoalService) *GoalHandler {
  return &GoalHandler{
    log:         log.With("handler", "GoalHandler"),
    goalService: goalService,
  }
}

// currentUserID pulls the authenticated user out of the request context; the
// auth middleware guarantees it is set on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil || rd.UserID == uuid.Nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("no authenticated user"))
    return uuid.Nil, false
  }
  return rd.UserID, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
  id, err := uuid.Parse(c.Param(name))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid %s", name))
    return uuid.Nil, false
  }
  return id, true
}

type goalRequest struct {
  GoalName    string `json:"goal_name"`
  Description string `json:"description"`
  Weeks       int    `json:"weeks"`
}

func (gh *GoalHandler) CreateGoal(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  var req goalRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  goal, err := gh.goalService.CreateGoal(c.Request.Context(), userID, req.GoalName, req.Description, req.Weeks)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "create_goal_failed", err)
    return
  }
  c.JSON(http.StatusOK, goal)
}

func (gh *GoalHandler) ListGoals(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goals, err := gh.goalService.GetUserGoals(c.Request.Context(), userID)
  if err != nil {
    gh.log.Error("ListGoals failed", "error", err, "user_id", userID)
    RespondError(c, http.StatusInternalServerError, "load_goals_failed", err)
    return
  }
  RespondOK(c, goals)
}

func (gh *GoalHandler) GetGoal(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goalID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  goal, err := gh.goalService.GetGoal(c.Request.Context(), userID, goalID)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "goal_not_found", fmt.Errorf("goal not found"))
      return
    }
    gh.log.Error("GetGoal failed", "error", err, "goal_id", goalID)
    RespondError(c, http.StatusInternalServerError, "load_goal_failed", err)
    return
  }
  RespondOK(c, goal)
}

func (gh *GoalHandler) UpdateGoal(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goalID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  var req goalRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  goal, err := gh.goalService.UpdateGoal(c.Request.Context(), userID, goalID, req.GoalName, req.Description, req.Weeks)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "goal_not_found", fmt.Errorf("goal not found"))
      return
    }
    RespondError(c, http.StatusBadRequest, "update_goal_failed", err)
    return
  }
  RespondOK(c, goal)
}

func (gh *GoalHandler) DeleteGoal(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goalID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  if err := gh.goalService.DeleteGoal(c.Request.Context(), userID, goalID); err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "goal_not_found", fmt.Errorf("goal not found"))
      return
    }
    gh.log.Error("DeleteGoal failed", "error", err, "goal_id", goalID)
    RespondError(c, http.StatusInternalServerError, "delete_goal_failed", err)
    return
  }
  RespondOK(c, gin.H{"message": "goal deleted successfully"})
}
