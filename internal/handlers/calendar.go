package handlers

import (
  "errors"
  "fmt"
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/services"
)

type CalendarHandler struct {
  log             *logger.Logger
  calendarService services.CalendarService
}

func NewCalendarHandler(log *logger.Logger, calendarService services.CalendarService) *CalendarHandler {
  return &CalendarHandler{
    log:             log.With("handler", "CalendarHandler"),
    calendarService: calendarService,
  }
}

func (ch *CalendarHandler) ExportGoalCalendar(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  goalID, ok := pathUUID(c, "id")
  if !ok {
    return
  }
  path, filename, err := ch.calendarService.ExportGoalCalendar(c.Request.Context(), userID, goalID)
  if err != nil {
    if errors.Is(err, services.ErrNotFound) {
      RespondError(c, http.StatusNotFound, "goal_not_found", fmt.Errorf("goal not found"))
      return
    }
    ch.log.Error("ExportGoalCalendar failed", "error", err, "goal_id", goalID)
    RespondError(c, http.StatusInternalServerError, "export_calendar_failed", err)
    return
  }
  c.Header("Content-Type", "text/calendar; charset=utf-8")
  c.FileAttachment(path, filename)
}
