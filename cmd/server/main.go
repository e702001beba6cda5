package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"classroom-backend/internal/config"
	"classroom-backend/internal/database"
	"classroom-backend/internal/handlers"
	"classroom-backend/internal/logger"
	"classroom-backend/internal/middleware"
	"classroom-backend/internal/realtime"
	"classroom-backend/internal/services"
	"classroom-backend/internal/storage"
	"classroom-backend/internal/token"

	_ "classroom-backend/docs"
)

// @title           Classroom Engagement API
// @version         1.0
// @description     API for classroom activities with live sessions
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("database migrate failed", zap.Error(err))
	}
	log.Info("database ready")

	instructors := storage.NewInstructors(db)
	courses := storage.NewCourses(db)
	students := storage.NewStudents(db)
	activities := storage.NewActivities(db)
	submissions := storage.NewSubmissions(db)

	codec := token.NewCodec(cfg.SessionTokenSecret)
	registry := realtime.NewRegistry(log)

	authService := services.NewAuthService(instructors, cfg.JWTSecret)
	courseService := services.NewCourseService(courses, registry)
	studentService := services.NewStudentService(students, courses)
	admissionService := services.NewAdmissionService(students, courses, codec, log)
	scoringService := services.NewScoringService()
	activityService := services.NewActivityService(activities, submissions, registry, scoringService, log)

	authHandler := handlers.NewAuthHandler(authService)
	courseHandler := handlers.NewCourseHandler(courseService, studentService)
	activityHandler := handlers.NewActivityHandler(activityService, courseService)
	classroomHandler := handlers.NewClassroomHandler(courseService, admissionService, activityService, registry, log)
	wsHandler := handlers.NewWSHandler(registry, codec, courseService, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/connect/:token", wsHandler.HandleStudentSocket)
	r.GET("/ws/instructor/:courseId", wsHandler.HandleInstructorSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		courses := api.Group("/courses")
		courses.Use(middleware.JWTAuth(authService))
		{
			courses.POST("", courseHandler.CreateCourse)
			courses.GET("", courseHandler.ListCourses)
			courses.GET("/:id", courseHandler.GetCourse)
			courses.PUT("/:id", courseHandler.UpdateCourse)
			courses.DELETE("/:id", courseHandler.DeleteCourse)
			courses.GET("/:id/students", courseHandler.ListStudents)
			courses.POST("/:id/students", courseHandler.AddStudent)
			courses.GET("/:id/activities", activityHandler.ListActivities)
			courses.POST("/:id/activities", activityHandler.CreateActivity)
		}

		students := api.Group("/students")
		students.Use(middleware.JWTAuth(authService))
		{
			students.PUT("/:id", courseHandler.UpdateStudent)
			students.DELETE("/:id", courseHandler.DeleteStudent)
		}

		activities := api.Group("/activities")
		activities.Use(middleware.JWTAuth(authService))
		{
			activities.GET("/:id", activityHandler.GetActivity)
			activities.PUT("/:id", activityHandler.UpdateActivity)
			activities.DELETE("/:id", activityHandler.DeleteActivity)
			activities.POST("/:id/active", activityHandler.SetActive)
			activities.GET("/:id/submissions", activityHandler.ListSubmissions)
		}

		api.POST("/join", classroomHandler.Join)
		api.GET("/join-info/:joinCode", classroomHandler.JoinInfo)
		api.GET("/classroom-status/:courseId", classroomHandler.ClassroomStatus)
		api.POST("/submissions", middleware.StudentAuth(codec), classroomHandler.Submit)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
