package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vladpirlog/takenote-api-sub000/internal/access"
	"github.com/vladpirlog/takenote-api-sub000/internal/auth"
	"github.com/vladpirlog/takenote-api-sub000/internal/config"
	"github.com/vladpirlog/takenote-api-sub000/internal/database"
	"github.com/vladpirlog/takenote-api-sub000/internal/handlers"
	"github.com/vladpirlog/takenote-api-sub000/internal/kafka"
	"github.com/vladpirlog/takenote-api-sub000/internal/kvstore"
	"github.com/vladpirlog/takenote-api-sub000/internal/mailer"
	"github.com/vladpirlog/takenote-api-sub000/internal/middleware"
	"github.com/vladpirlog/takenote-api-sub000/internal/ratelimit"
	"github.com/vladpirlog/takenote-api-sub000/internal/router"
	"github.com/vladpirlog/takenote-api-sub000/internal/services"
	"github.com/vladpirlog/takenote-api-sub000/internal/share"
	"github.com/vladpirlog/takenote-api-sub000/internal/store"
	"github.com/vladpirlog/takenote-api-sub000/internal/twofactor"
	"github.com/vladpirlog/takenote-api-sub000/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	logger.InitLogger()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	kv, err := kvstore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal("Failed to connect to redis:", err)
	}
	defer kv.Close()

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	mail := mailer.New(cfg.MailAPIURL, cfg.MailAPIKey, cfg.MailFrom)

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret), cfg.JWTValidity, kv)
	twoFactorManager := twofactor.NewManager(
		twofactor.NewGormUserStore(db),
		twofactor.NewGormBackupCodeStore(db),
		kv,
		cfg.TwoFactorIssuer,
		cfg.PendingTwoFactor,
		cfg.RememberDuration,
	)
	limiter := ratelimit.NewLimiter(kv, cfg.RequestLimitPerMinute, cfg.EmailLimitPerMinute)
	collab := store.NewGormStore(db)
	shares := share.NewManager(db)

	authService := services.NewAuthService(db, tokens, twoFactorManager, kv, producer, mail, cfg.ConfirmationValid)
	twoFactorService := services.NewTwoFactorService(authService, twoFactorManager, producer)
	collabService := services.NewCollaborationService(db, collab, producer)
	shareService := services.NewShareService(db, collab, shares, producer)
	noteService := services.NewNoteService(db, collab, producer)
	notepadService := services.NewNotepadService(db, collab, producer)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	middleware.SetupPrometheus(r)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	router.SetupRouter(r, tokens, authService, limiter, router.Handlers{
		Auth:              handlers.NewAuthHandler(authService),
		TwoFactor:         handlers.NewTwoFactorHandler(twoFactorService),
		Notes:             handlers.NewNoteHandler(noteService),
		Notepads:          handlers.NewNotepadHandler(notepadService),
		NoteCollaborators: handlers.NewCollaboratorHandler(collabService, access.KindNote),
		PadCollaborators:  handlers.NewCollaboratorHandler(collabService, access.KindNotepad),
		NoteShares:        handlers.NewShareHandler(shareService, access.KindNote),
		PadShares:         handlers.NewShareHandler(shareService, access.KindNotepad),
		PublicShares:      handlers.NewPublicShareHandler(shareService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Forced shutdown")
	}
}
