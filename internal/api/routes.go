package api

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Services are the dependencies of the HTTP handlers.
type Services struct {
	Auth    service.AuthService
	Trainer service.TrainerService
	Plan    service.PlanService
	Catalog service.CatalogService
}

// NewRouter builds a gin engine with recovery, request logging and every route.
func NewRouter(basePath string, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())
	SetupRoutes(router, basePath, svc)
	return router
}

var useJSONNames sync.Once

// binding errors report the JSON field name the client sent
func registerJSONFieldNames() {
	useJSONNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

func SetupRoutes(router *gin.Engine, basePath string, svc Services) {
	registerJSONFieldNames()
	authHandler := NewAuthHandler(svc.Auth)
	trainerHandler := NewTrainerHandler(svc.Trainer)
	planHandler := NewPlanHandler(svc.Plan)
	catalogHandler := NewCatalogHandler(svc.Catalog)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	base := router.Group(basePath)
	{
		authGroup := base.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	// Everything below is trainer-only
	protected := base.Group("")
	protected.Use(AuthMiddleware(svc.Auth), RoleMiddleware(domain.RoleTrainer))
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		trainerGroup := protected.Group("/trainer")
		{
			trainerGroup.POST("/clients", trainerHandler.AddClientByEmail)
			trainerGroup.GET("/clients", trainerHandler.GetManagedClients)
		}

		// --- Catalog ---
		protected.GET("/exercises/list", catalogHandler.ListExercises)
		protected.GET("/foods/list", catalogHandler.ListFoods)

		// --- Plans ---
		protected.GET("/client/:clientId", planHandler.GetClient)
		protected.GET("/workout/:clientId", planHandler.GetWorkout)
		protected.GET("/nutrition/:clientId", planHandler.GetNutrition)
		protected.POST("/save-workout-plan", planHandler.SaveWorkout)
		protected.POST("/edit_nutritional_plan", planHandler.SaveNutrition)
		protected.GET("/plans/:clientId/archive", planHandler.GetArchive)
	}
}
