package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/services"
)

type DashboardHandler struct {
  log              *logger.Logger
  dashboardService services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboardService services.DashboardService) *DashboardHandler {
  return &DashboardHandler{
    log:              log.With("handler", "DashboardHandler"),
    dashboardService: dashboardService,
  }
}

func (dh *DashboardHandler) GetStats(c *gin.Context) {
  userID, ok := currentUserID(c)
  if !ok {
    return
  }
  stats, err := dh.dashboardService.GetStats(c.Request.Context(), userID)
  if err != nil {
    dh.log.Error("GetStats failed", "error", err, "user_id", userID)
    RespondError(c, http.StatusInternalServerError, "load_stats_failed", err)
    return
  }
  RespondOK(c, stats)
}
