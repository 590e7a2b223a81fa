package main

import (
	"context"
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
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/Akhand-Replit/facebook-handler/configs"
	"github.com/Akhand-Replit/facebook-handler/internal/api/handlers"
	"github.com/Akhand-Replit/facebook-handler/internal/api/middleware"
	"github.com/Akhand-Replit/facebook-handler/internal/jobs"
	"github.com/Akhand-Replit/facebook-handler/internal/repository"
	"github.com/Akhand-Replit/facebook-handler/internal/service"
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

	if err := repository.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB, page photo uploads
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return origin == cfg.FrontendURL
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo)
	accountService := service.NewAccountService(*cfg, accountRepo)
	facebookService := service.NewFacebookAuthService(*cfg, accountRepo)
	postService := service.NewPostService(*cfg, postRepo, accountRepo)
	commentService := service.NewCommentService(*cfg, commentRepo, postRepo, accountRepo)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	account := handlers.NewAccountHandler(*cfg, accountService, facebookService)
	app.Get("/auth/facebook/callback", account.FacebookCallback)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(authService)
	api.Get("/user/info", user.GetUserInfo)
	api.Post("/user/password", user.ChangePassword)
	api.Post("/user/profile", user.UpdateProfile)

	api.Get("/accounts", account.ListAccounts)
	api.Post("/accounts/new", account.AddAccount)
	api.Post("/accounts/update", account.UpdateAccount)
	api.Post("/accounts/remove", account.RemoveAccount)
	api.Post("/accounts/refresh", account.RefreshToken)
	api.Get("/accounts/token_status", account.TokenStatus)
	api.Get("/accounts/connect", account.ConnectFacebook)

	post := handlers.NewPostHandler(postService)
	api.Get("/posts", post.ListPosts)
	api.Get("/posts/info", post.PostInfo)
	api.Get("/posts/count", post.CountPosts)
	api.Post("/posts/sync", post.SyncPosts)
	api.Post("/posts/create", post.CreatePost)
	api.Post("/posts/update", post.UpdatePost)
	api.Post("/posts/remove", post.RemovePost)

	comment := handlers.NewCommentHandler(commentService)
	api.Get("/comments", comment.ListComments)
	api.Get("/comments/count", comment.CountComments)
	api.Post("/comments/sync", comment.SyncComments)
	api.Post("/comments/create", comment.CreateComment)
	api.Post("/comments/update", comment.UpdateComment)
	api.Post("/comments/remove", comment.RemoveComment)
	api.Post("/comments/reply", comment.ReplyToComment)

	// background token refresh sweep
	refreshTokenJob := jobs.NewTokenRefreshJob(accountRepo, facebookService)

	c := cron.New()
	c.AddFunc("@every 6h00m00s", refreshTokenJob.RefreshTokens)
	c.Start()

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
