package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"menulens/internal/db"
	"menulens/internal/env"
	"menulens/internal/llm"
	"menulens/internal/menu"
	"menulens/internal/middleware"
	"menulens/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// ───────────────────────── LOGGER ─────────────────────────
	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	// ───────────────────────── DB ─────────────────────────
	dsn, err := db.ResolveDSN(os.Getenv)
	if err != nil {
		logger.Fatalw("postgres configuration invalid", "error", err)
	}

	pool, err := db.Connect(context.Background(), dsn)
	if err != nil {
		logger.Fatalw("postgres connection failed", "error", err)
	}
	defer pool.Close()

	logger.Infow("connected to postgres")

	// ───────────────────────── UPLOAD ARCHIVE (OPTIONAL) ─────────────────────────
	var archive menu.Archive
	if storage.Configured() {
		r2Client, err := storage.NewR2Client(context.Background())
		if err != nil {
			logger.Fatalw("object storage init failed", "error", err)
		}
		archive = r2Client
		logger.Infow("upload archive enabled")
	}

	// ───────────────────────── WIRING ─────────────────────────
	llmClient := llm.NewGeminiClient(logger)
	menuRepo := menu.NewPostgresRepository(pool)
	menuService := menu.NewService(menuRepo, llmClient, archive, logger)
	menuHandler := menu.NewHandler(menuService, logger)

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── ROUTES ─────────────────────────
	r.GET("/", menuHandler.Home)
	r.POST("/extract", menuHandler.Extract)
	r.GET("/menus", menuHandler.List)
	r.GET("/menus/:id", menuHandler.Detail)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ───────────────────────── START ─────────────────────────
	addr := ":" + env.GetString("PORT", "8000")
	logger.Infow("api running", "addr", addr)

	if err := r.Run(addr); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}
