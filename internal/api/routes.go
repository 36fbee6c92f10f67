package api

import (
	"net/http"
	"time"

	"fitnesshub/fitness-api/internal/config"
	"fitnesshub/fitness-api/internal/domain"
	"fitnesshub/fitness-api/internal/logging"
	"fitnesshub/fitness-api/internal/metrics"
	"fitnesshub/fitness-api/internal/repository"
	"fitnesshub/fitness-api/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services bundles everything the HTTP layer dispatches to.
type Services struct {
	Auth    service.AuthService
	Admin   service.AdminService
	Trainer service.TrainerService
	User    service.UserService
	// Users backs RoleMiddleware.
	Users repository.UserRepository
}

// NewServices wires the services over a repository store.
func NewServices(store repository.Store, jwt config.JWTConfig) Services {
	return Services{
		Auth:    service.NewAuthService(store.Users, jwt.Secret, jwt.Expiration),
		Admin:   service.NewAdminService(store.Users, store.Tx),
		Trainer: service.NewTrainerService(store.Users, store.WorkoutPlans, store.Nutrition, store.Appointments),
		User:    service.NewUserService(store),
		Users:   store.Users,
	}
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(cfg config.ServerConfig, log *logrus.Logger, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestID())
	router.Use(logging.Middleware(log))
	router.Use(metrics.Middleware())
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	SetupRoutes(router, svc)
	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// Credentials cannot be combined with a literal wildcard origin.
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return cors.New(c)
}

func SetupRoutes(router *gin.Engine, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	adminHandler := NewAdminHandler(svc.Admin)
	trainerHandler := NewTrainerHandler(svc.Trainer)
	userHandler := NewUserHandler(svc.User)

	authMiddleware := AuthMiddleware(svc.Auth)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login/:role", authHandler.Login)
	}

	// --- Admin Routes ---
	adminGroup := apiGroup.Group("/admin")
	adminGroup.Use(authMiddleware, RoleMiddleware(svc.Users, domain.RoleAdmin))
	{
		adminGroup.GET("/admin/users", adminHandler.ListUsers)
		adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
		adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)
		adminGroup.PATCH("/users/:id/role", adminHandler.ChangeRole)
		adminGroup.PUT("/assign-trainer", adminHandler.AssignTrainer)
		adminGroup.PUT("/remove-trainer/:userId", adminHandler.RemoveTrainer)
		adminGroup.GET("/users-with-trainers", adminHandler.ListUsersWithTrainers)
	}

	// --- Trainer Routes ---
	// Static paths are registered next to /:id; gin prefers the static segment.
	trainerGroup := apiGroup.Group("/trainer")
	trainerGroup.Use(authMiddleware, RoleMiddleware(svc.Users, domain.RoleTrainer))
	{
		trainerGroup.GET("/clients", trainerHandler.ListClients)
		trainerGroup.GET("/user-diet/:userId", trainerHandler.ListClientNutrition)
		trainerGroup.GET("/appointments", trainerHandler.ListAppointments)
		trainerGroup.PUT("/appointments/:id", trainerHandler.UpdateAppointmentStatus)

		trainerGroup.POST("/workout", trainerHandler.CreateWorkoutPlan)
		trainerGroup.GET("/:id", trainerHandler.ListWorkoutPlans)
		trainerGroup.PUT("/:id", trainerHandler.UpdateWorkoutPlan)
		trainerGroup.DELETE("/:id", trainerHandler.DeleteWorkoutPlan)
	}

	// --- User Routes ---
	userGroup := apiGroup.Group("/user")
	userGroup.Use(authMiddleware, RoleMiddleware(svc.Users, domain.RoleUser))
	{
		userGroup.GET("/user/users", userHandler.ListUsers)
		userGroup.PUT("/update-profile", userHandler.UpdateProfile)
		userGroup.GET("/profile", userHandler.GetProfile)
		userGroup.GET("/workout-plan", userHandler.ListWorkoutPlans)

		userGroup.POST("/book", userHandler.BookAppointment)
		userGroup.GET("/my-appointments", userHandler.ListAppointments)
		userGroup.DELETE("/cancel/:id", userHandler.CancelAppointment)

		userGroup.POST("/add-meal", userHandler.AddMeal)
		userGroup.GET("/my-meals", userHandler.ListMeals)
		userGroup.DELETE("/delete-meal/:mealId", userHandler.DeleteMeal)
	}
}
