package server

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rob-j-au/djtip/config"
	"github.com/rob-j-au/djtip/internal/admin"
	"github.com/rob-j-au/djtip/internal/handlers"
	"github.com/rob-j-au/djtip/internal/jobs"
	"github.com/rob-j-au/djtip/internal/middleware"
	"github.com/rob-j-au/djtip/internal/uploads"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	store := uploads.NewStore(cfg.UploadCacheDir, cfg.UploadStoreDir, cfg.UploadURLSecret)
	queue := jobs.NewQueue(config.InitRedis(cfg), cfg.QueueName, jobs.NewRunner(db, store))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Work(ctx)

	r := gin.Default()
	r.LoadHTMLGlob("templates/*.html")

	SetupRoutes(r, db, store, queue, cfg.SessionSecret)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, store *uploads.Store, queue jobs.Scheduler, sessionSecret string) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.StoreMiddleware(store))
	r.Use(middleware.SchedulerMiddleware(queue))

	sessionStore := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("djtip_session", sessionStore))

	r.GET("/up", handlers.Health)
	r.GET("/manifest.json", handlers.Manifest)
	r.GET("/uploads/*path", handlers.ServeUpload)

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/qr", handlers.EventQR)
			eventPublic.GET("/:id/tips", listEventTips)
			eventPublic.POST("/:id/tips", createEventTip)
		}

		public.GET("/users", handlers.ListUsers)
		public.GET("/users/:id", handlers.GetUser)
		public.GET("/performers", handlers.ListPerformers)
		public.GET("/performers/:id", handlers.GetPerformer)
		public.GET("/tips/:id", handlers.GetTip)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		protected.POST("/users", handlers.CreateUser)
		protected.PUT("/users/:id", handlers.UpdateUser)
		protected.DELETE("/users/:id", handlers.DeleteUser)
		protected.POST("/users/:id/image", handlers.UploadUserImage)
		protected.DELETE("/users/:id/image", handlers.DeleteUserImage)

		protected.POST("/performers", handlers.CreatePerformer)
		protected.PUT("/performers/:id", handlers.UpdatePerformer)
		protected.DELETE("/performers/:id", handlers.DeletePerformer)

		protected.PUT("/tips/:id", handlers.UpdateTip)
		protected.DELETE("/tips/:id", handlers.DeleteTip)
	}

	adminGroup := r.Group("/admin")
	{
		adminGroup.GET("/login", admin.ShowLogin)
		adminGroup.POST("/login", admin.PerformLogin)
		adminGroup.GET("/logout", admin.Logout)

		guarded := adminGroup.Group("")
		guarded.Use(middleware.AdminRequired())
		{
			guarded.GET("", admin.Dashboard)

			guarded.GET("/events", admin.EventsIndex)
			guarded.GET("/events/new", admin.EventsNew)
			guarded.POST("/events", admin.EventsCreate)
			guarded.GET("/events/:id", admin.EventsShow)
			guarded.GET("/events/:id/edit", admin.EventsEdit)
			guarded.POST("/events/:id", admin.EventsUpdate)
			guarded.POST("/events/:id/delete", admin.EventsDestroy)

			guarded.GET("/users", admin.UsersIndex)
			guarded.GET("/users/new", admin.UsersNew)
			guarded.POST("/users", admin.UsersCreate)
			guarded.GET("/users/:id", admin.UsersShow)
			guarded.GET("/users/:id/edit", admin.UsersEdit)
			guarded.POST("/users/:id", admin.UsersUpdate)
			guarded.POST("/users/:id/delete", admin.UsersDestroy)
			guarded.POST("/users/:id/toggle_admin", admin.UsersToggleAdmin)

			guarded.GET("/performers", admin.PerformersIndex)
			guarded.GET("/performers/new", admin.PerformersNew)
			guarded.POST("/performers", admin.PerformersCreate)
			guarded.GET("/performers/:id", admin.PerformersShow)
			guarded.GET("/performers/:id/edit", admin.PerformersEdit)
			guarded.POST("/performers/:id", admin.PerformersUpdate)
			guarded.POST("/performers/:id/delete", admin.PerformersDestroy)

			guarded.GET("/tips", admin.TipsIndex)
			guarded.GET("/tips/:id", admin.TipsShow)
			guarded.GET("/tips/:id/edit", admin.TipsEdit)
			guarded.POST("/tips/:id", admin.TipsUpdate)
			guarded.POST("/tips/:id/delete", admin.TipsDestroy)
		}
	}
}

// Tip routes are nested under /v1/events/:id in gin, which reuses the :id
// param name across the group; these shims map it onto the event_id param
// the tip handlers read.
func listEventTips(c *gin.Context) {
	c.Params = append(c.Params, gin.Param{Key: "event_id", Value: c.Param("id")})
	handlers.ListEventTips(c)
}

func createEventTip(c *gin.Context) {
	c.Params = append(c.Params, gin.Param{Key: "event_id", Value: c.Param("id")})
	handlers.CreateEventTip(c)
}
