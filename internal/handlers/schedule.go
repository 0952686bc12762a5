package handlers

import (
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/services"
)

// ScheduleHandler backs the plain-text schedule preview. Unlike goal plan
// generation this endpoint talks to the generation service synchronously and
// surfaces its failures.
type ScheduleHandler struct {
  log     *logger.Logger
  planGen services.PlanGenerationService
}

func NewScheduleHandler(log *logger.Logger, planGen services.PlanGenerationService) *ScheduleHandler {
  return &ScheduleHandler{
    log:     log.With("handler", "ScheduleHandler"),
    planGen: planGen,
  }
}

func (sh *ScheduleHandler) GenerateSchedule(c *gin.Context) {
  var req struct {
    Skill         string `json:"skill"`
    DurationWeeks int    `json:"duration_weeks"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if req.Skill == "" || req.DurationWeeks < 1 {
    RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("skill and duration_weeks are required"))
    return
  }
  schedule, err := sh.planGen.GeneratePreview(c.Request.Context(), req.Skill, req.DurationWeeks)
  if err != nil {
    sh.log.Error("GenerateSchedule failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "generate_schedule_failed", err)
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "schedule": schedule,
    "message":  "Schedule generated successfully",
  })
}
