package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/config"
	"github.com/lancerhub/lancerhub_be/internal/db"
	"github.com/lancerhub/lancerhub_be/internal/handlers"
	"github.com/lancerhub/lancerhub_be/internal/logger"
	"github.com/lancerhub/lancerhub_be/internal/middleware"
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/realtime"
	"github.com/lancerhub/lancerhub_be/internal/session"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/workflow"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if _, err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.L().Fatal("database connect failed", zap.Error(err))
	}

	if err := gdb.AutoMigrate(
		&models.Profile{},
		&models.JobCategory{},
		&models.Job{},
		&models.Proposal{},
		&models.Message{},
	); err != nil {
		logger.L().Fatal("migrate failed", zap.Error(err))
	}
	if err := seedCategories(gdb); err != nil {
		logger.L().Fatal("seed categories failed", zap.Error(err))
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.L().Fatal("redis connect failed", zap.Error(err))
	}

	hub := realtime.NewHub()
	go hub.Run()
	go realtime.Bridge(context.Background(), rdb, hub)

	st := store.New(gdb)
	engine := workflow.NewEngine(st)
	resolver := session.NewResolver(gdb, rdb, cfg.JWTSecret)

	authH := &handlers.AuthHandler{
		Store:     st,
		Resolver:  resolver,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		Store:           st,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	accessH := &handlers.AccessHandler{Resolver: resolver}
	categoryH := handlers.NewCategoryHandler(st)
	jobH := handlers.NewJobHandler(st, engine)
	proposalH := handlers.NewProposalHandler(st, engine, hub, rdb)
	messageH := handlers.NewMessageHandler(st, engine, hub, rdb, resolver)
	profileH := handlers.NewProfileHandler(st, engine, resolver)
	dashboardH := handlers.NewDashboardHandler(st)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Post("/access/evaluate", accessH.Evaluate)
	api.Get("/categories", categoryH.GetCategories)
	api.Get("/jobs", jobH.ListPublic)
	api.Get("/jobs/:id", jobH.GetDetail)
	api.Get("/profiles/:id", profileH.Get)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)
	protected.Patch("/profile", profileH.Update)
	protected.Get("/dashboard/stats", dashboardH.Stats)

	protected.Post("/jobs",
		middleware.RequireRoles("client"),
		jobH.Create,
	)
	protected.Get("/client/jobs",
		middleware.RequireRoles("client", "admin"),
		jobH.ListMine,
	)
	protected.Patch("/jobs/:id", jobH.Update)
	protected.Patch("/jobs/:id/status", jobH.UpdateStatus)

	protected.Get("/jobs/:id/proposals", proposalH.ListForJob)
	protected.Post("/jobs/:id/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Create,
	)
	protected.Get("/proposals/mine",
		middleware.RequireRoles("freelancer"),
		proposalH.ListMine,
	)
	protected.Patch("/proposals/:id/status", proposalH.UpdateStatus)

	protected.Get("/messages", messageH.List)
	protected.Get("/messages/unread-count", messageH.UnreadCount)
	protected.Get("/messages/with/:userId", messageH.ListWith)
	protected.Post("/messages", messageH.Send)
	protected.Patch("/messages/:id/read", messageH.MarkRead)

	// WebSocket auth via token query param, not the cookie middleware
	app.Get("/ws/events", websocket.New(messageH.WebSocketHandler))

	logger.L().Info("listening", zap.String("port", cfg.AppPort))
	log.Fatal(app.Listen(":" + cfg.AppPort))
}

var defaultCategories = []string{
	"Web Development",
	"Mobile Development",
	"Design",
	"Writing",
	"Marketing",
	"Data Science",
	"DevOps",
	"Other",
}

func seedCategories(gdb *gorm.DB) error {
	for _, name := range defaultCategories {
		cat := models.JobCategory{Name: name}
		if err := gdb.Where("name = ?", name).FirstOrCreate(&cat).Error; err != nil {
			return err
		}
	}
	return nil
}
