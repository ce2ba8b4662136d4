package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/pageflowhq/pageflow/configs"
	"github.com/pageflowhq/pageflow/internal/api/handlers"
	"github.com/pageflowhq/pageflow/internal/api/middleware"
	"github.com/pageflowhq/pageflow/internal/graph"
	job "github.com/pageflowhq/pageflow/internal/jobs"
	"github.com/pageflowhq/pageflow/internal/queue"
	"github.com/pageflowhq/pageflow/internal/repository"
	"github.com/pageflowhq/pageflow/internal/service"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	accountRepo := repository.NewAccountRepository(db)
	pageRepo := repository.NewPageRepository(db)
	apiKeyRepo := repository.NewApiKeyRepository(db)

	graphClient := graph.NewClient(cfg.GraphBaseURL)

	authService := service.NewAuthService(*cfg, graphClient, accountRepo)
	userService := service.NewUserService(accountRepo)
	syncService := service.NewSyncService(*cfg, graphClient, pageRepo)
	pageService := service.NewPageService(pageRepo)
	businessService := service.NewBusinessService(*cfg, graphClient, accountRepo)
	engagementService := service.NewEngagementService(*cfg, graphClient, pageRepo)
	actionService := service.NewActionService(*cfg, graphClient, pageRepo)
	statsService := service.NewStatsService(pageRepo, engagementService)
	apiKeyService := service.NewApiKeyService(apiKeyRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService, accountRepo)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallback)
	app.Post("/login/password", auth.PasswordLogin)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Post("/auth/logout", auth.Logout)

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.UserInfo)
	api.Delete("/auth/account", user.RemoveUser)

	page := handlers.NewPageHandler(pageService, syncService)
	api.Get("/pages", page.List)
	api.Get("/pages/selected", page.ListSelected)
	api.Post("/pages/sync", page.Sync)
	api.Put("/pages/:id/select", page.ToggleSelection)
	api.Put("/pages/selection", page.UpdateSelection)
	api.Post("/pages/select-all", page.SelectAll)
	api.Post("/pages/deselect-all", page.DeselectAll)

	comment := handlers.NewCommentHandler(engagementService, actionService, pageService)
	api.Get("/comments", comment.List)
	api.Get("/posts/:postId/comments", comment.ListForPost)
	api.Post("/comments/:commentId/reply", comment.Reply)
	api.Post("/comments/:commentId/like", comment.Like)
	api.Delete("/comments/:commentId/like", comment.Unlike)
	api.Post("/comments/:commentId/hide", comment.Hide)
	api.Post("/comments/:commentId/unhide", comment.Unhide)
	api.Delete("/comments/:commentId", comment.Delete)

	message := handlers.NewMessageHandler(engagementService, actionService, pageService)
	api.Get("/messages", message.ListConversations)
	api.Get("/messages/conversation/:conversationId", message.ListMessages)
	api.Post("/messages/conversation/:conversationId/send", message.Send)
	api.Post("/messages/conversation/:conversationId/read", message.MarkRead)

	business := handlers.NewBusinessHandler(businessService)
	api.Get("/business-manager", business.Info)
	api.Post("/business-manager/connect", business.Connect)
	api.Delete("/business-manager/disconnect", business.Disconnect)
	api.Post("/business-manager/validate", business.Validate)
	api.Get("/business-manager/pages", business.PreviewPages)

	stats := handlers.NewStatsHandler(statsService)
	api.Get("/stats", stats.Stats)
	api.Get("/stats/quick", stats.QuickStats)

	apiKeys := handlers.NewApiKeyHandler(apiKeyService)
	api.Post("/api_key/new", apiKeys.Create)
	api.Get("/api_key/list", apiKeys.List)
	api.Post("/api_key/remove", apiKeys.Remove)

	// cron jobs
	pageSyncJob := job.NewPageSyncJob(accountRepo, client)

	// queue
	queueW := queue.NewQueue(accountRepo, syncService)

	c := cron.New()
	c.AddFunc("@every 06h00m00s", pageSyncJob.SyncAll)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSyncPages, queueW.HandleSyncPagesTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
