package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/goalforge/goalforge-backend/internal/handlers"
  "github.com/goalforge/goalforge-backend/internal/middleware"
)

type RouterConfig struct {
  AllowOrigins     []string
  AuthHandler      *handlers.AuthHandler
  AuthMiddleware   *middleware.AuthMiddleware
  UserHandler      *handlers.UserHandler
  GoalHandler      *handlers.GoalHandler
  TaskHandler      *handlers.TaskHandler
  DashboardHandler *handlers.DashboardHandler
  CalendarHandler  *handlers.CalendarHandler
  ScheduleHandler  *handlers.ScheduleHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  origins := cfg.AllowOrigins
  if len(origins) == 0 {
    origins = []string{"http://localhost:3000", "http://localhost:5173"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     origins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  api := router.Group("/api")
  {
    api.POST("/register", cfg.AuthHandler.Register)
    api.POST("/login", cfg.AuthHandler.Login)
  }

// ===============
// || Protected ||
// ===============
  protected := router.Group("/api")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Auth
  protected.POST("/refresh", cfg.AuthHandler.Refresh)
  protected.POST("/logout", cfg.AuthHandler.Logout)
  // User
  protected.GET("/users/me", cfg.UserHandler.GetMe)
  // Goals
  protected.POST("/goals", cfg.GoalHandler.CreateGoal)
  protected.GET("/goals", cfg.GoalHandler.ListGoals)
  protected.GET("/goals/:id", cfg.GoalHandler.GetGoal)
  protected.PUT("/goals/:id", cfg.GoalHandler.UpdateGoal)
  protected.DELETE("/goals/:id", cfg.GoalHandler.DeleteGoal)
  // Tasks
  protected.GET("/goals/:id/tasks", cfg.TaskHandler.ListGoalTasks)
  protected.GET("/tasks/today", cfg.TaskHandler.ListTodayTasks)
  protected.GET("/tasks/:id/subtasks", cfg.TaskHandler.ListTaskSubTasks)
  protected.PUT("/tasks/:id", cfg.TaskHandler.UpdateTaskStatus)
  protected.PUT("/subtasks/:id", cfg.TaskHandler.UpdateSubTaskStatus)
  // Dashboard
  protected.GET("/dashboard", cfg.DashboardHandler.GetStats)
  // Calendar
  protected.GET("/calendar/:id", cfg.CalendarHandler.ExportGoalCalendar)
  // Schedule preview
  protected.POST("/generate-schedule", cfg.ScheduleHandler.GenerateSchedule)

  return router
}
