package app

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/Gersa28/Invera-ToDo-List/internal/auth"
	"github.com/Gersa28/Invera-ToDo-List/internal/cache"
	"github.com/Gersa28/Invera-ToDo-List/internal/config"
	"github.com/Gersa28/Invera-ToDo-List/internal/handlers"
	"github.com/Gersa28/Invera-ToDo-List/internal/repo"
	"github.com/Gersa28/Invera-ToDo-List/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client, log *slog.Logger) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	sessionStore := auth.NewStore(rdb, cfg.Session.TTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo, log)

	taskRepo := repo.NewPGTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache, log)

	registerAPIRoutes(r, sessionStore, userSvc, taskSvc)
	registerPageRoutes(r, sessionStore, userSvc, taskSvc)
}

func registerAPIRoutes(r *gin.Engine, sessions *auth.Store, userSvc *service.UserService, taskSvc *service.TaskService) {
	api := r.Group("/api")

	authHandler := handlers.NewAPIAuthHandler(sessions, userSvc)
	api.POST("/register/", authHandler.Register)
	api.POST("/login/", authHandler.Login)

	// Logout and tasks require an identity; the middleware picks Basic or
	// session per request. Logout answers both verbs like the page it mirrors.
	protected := api.Group("", auth.RequireAPIAuth(sessions, userSvc))
	protected.GET("/logout/", authHandler.Logout)
	protected.POST("/logout/", authHandler.Logout)

	taskHandler := handlers.NewAPITaskHandler(taskSvc)
	protected.GET("/tasks/", taskHandler.List)
	protected.POST("/tasks/", taskHandler.Create)
	protected.GET("/tasks/:id/", taskHandler.GetByID)
	protected.PUT("/tasks/:id/", taskHandler.Update)
	protected.PATCH("/tasks/:id/", taskHandler.Update)
	protected.DELETE("/tasks/:id/", taskHandler.Delete)
}

func registerPageRoutes(r *gin.Engine, sessions *auth.Store, userSvc *service.UserService, taskSvc *service.TaskService) {
	pages := handlers.NewPageHandler(sessions, userSvc, taskSvc)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/tasks") })
	r.GET("/register", pages.RegisterForm)
	r.POST("/register", pages.Register)
	r.GET("/login", pages.LoginForm)
	r.POST("/login", pages.Login)
	r.POST("/logout", pages.Logout)

	tasks := r.Group("/tasks", auth.RequirePageSession(sessions))
	tasks.GET("", pages.TaskList)
	tasks.POST("", pages.TaskList) // search form submits via POST
	tasks.GET("/create", pages.TaskCreateForm)
	tasks.POST("/create", pages.TaskCreate)
	tasks.GET("/update/:id", pages.TaskUpdateForm)
	tasks.POST("/update/:id", pages.TaskUpdate)
	tasks.GET("/delete/:id", pages.TaskDeleteConfirm)
	tasks.POST("/delete/:id", pages.TaskDelete)
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
