package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/listkeep-dev/listkeep/internal/access"
	"github.com/listkeep-dev/listkeep/internal/handlers"
	"github.com/listkeep-dev/listkeep/internal/middleware"
	"github.com/listkeep-dev/listkeep/internal/stores"
	"github.com/listkeep-dev/listkeep/internal/types"
)

func NewRouter(database *gorm.DB) *gin.Engine {
	users := stores.NewUserStore(database)
	lists := stores.NewTaskListStore(database)
	tasks := stores.NewTaskStore(database)
	evaluator := access.NewEvaluator(lists)

	authHandler := handlers.NewAuthHandler(users)
	listHandler := handlers.NewTaskListHandler(lists, users, evaluator)
	taskHandler := handlers.NewTaskHandler(tasks, evaluator)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/check", middleware.AuthMiddleware(users), authHandler.Check)
		}

		taskLists := api.Group("/tasklists", middleware.AuthMiddleware(users))
		{
			taskLists.POST("", listHandler.Create)
			taskLists.GET("", listHandler.List)
			taskLists.DELETE("/:list_id", listHandler.Delete)
			taskLists.POST("/:list_id/participants", listHandler.AddParticipant)
		}

		taskRoutes := api.Group("/tasks", middleware.AuthMiddleware(users))
		{
			taskRoutes.POST("/:list_id", taskHandler.Create)
			taskRoutes.GET("/:list_id", taskHandler.ListByList)
			taskRoutes.PUT("/:task_id", taskHandler.Update)
			taskRoutes.PATCH("/:task_id/toggle", taskHandler.Toggle)
			taskRoutes.DELETE("/:task_id", taskHandler.Delete)
		}
	}

	return r
}
