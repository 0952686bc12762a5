package main

import (
  "fmt"
  "os"
  "strings"
  "time"

  "github.com/joho/godotenv"

  "github.com/goalforge/goalforge-backend/internal/db"
  "github.com/goalforge/goalforge-backend/internal/handlers"
  "github.com/goalforge/goalforge-backend/internal/logger"
  "github.com/goalforge/goalforge-backend/internal/middleware"
  "github.com/goalforge/goalforge-backend/internal/repos"
  "github.com/goalforge/goalforge-backend/internal/server"
  "github.com/goalforge/goalforge-backend/internal/services"
  "github.com/goalforge/goalforge-backend/internal/utils"
)

func main() {
  _ = godotenv.Load()

  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
  corsOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(thePG, log)
  userTokenRepo := repos.NewUserTokenRepo(thePG, log)
  goalRepo := repos.NewGoalRepo(thePG, log)
  taskRepo := repos.NewTaskRepo(thePG, log)
  subTaskRepo := repos.NewSubTaskRepo(thePG, log)
  planRunRepo := repos.NewPlanGenerationRunRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  geminiClient, err := services.NewGeminiClient(log)
  if err != nil {
    log.Warn("Could not init GeminiClient, plan generation will use the generic template", "error", err)
    geminiClient = nil
  }
  authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  userService := services.NewUserService(thePG, log, userRepo)
  planGenService := services.NewPlanGenerationService(thePG, log, taskRepo, subTaskRepo, planRunRepo, geminiClient)
  goalService := services.NewGoalService(thePG, log, goalRepo, taskRepo, subTaskRepo, planRunRepo, planGenService)
  notifier := services.NewLogEmailNotifier(log)
  taskService := services.NewTaskService(thePG, log, goalRepo, taskRepo, subTaskRepo, userRepo, notifier)
  dashboardService := services.NewDashboardService(thePG, log, goalRepo, taskRepo)
  calendarService := services.NewCalendarService(thePG, log, goalRepo, taskRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  userHandler := handlers.NewUserHandler(userService)
  goalHandler := handlers.NewGoalHandler(log, goalService)
  taskHandler := handlers.NewTaskHandler(log, taskService)
  dashboardHandler := handlers.NewDashboardHandler(log, dashboardService)
  calendarHandler := handlers.NewCalendarHandler(log, calendarService)
  scheduleHandler := handlers.NewScheduleHandler(log, planGenService)

  // Middleware
  log.Info("Setting up middleware from main...")
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AllowOrigins:     strings.Split(corsOrigins, ","),
    AuthHandler:      authHandler,
    AuthMiddleware:   authMiddleware,
    UserHandler:      userHandler,
    GoalHandler:      goalHandler,
    TaskHandler:      taskHandler,
    DashboardHandler: dashboardHandler,
    CalendarHandler:  calendarHandler,
    ScheduleHandler:  scheduleHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
