// File: frontdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"frontdesk/config"
	"frontdesk/cron"
	"frontdesk/database"
	bookingRepo "frontdesk/database/repository/booking"
	knowledgeRepo "frontdesk/database/repository/knowledge"
	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/routes"
	"frontdesk/services/dialog"
	"frontdesk/services/intelligence"
	"frontdesk/services/session"
	"frontdesk/services/telephony"
	"frontdesk/services/voice"
	"frontdesk/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	knRepo := knowledgeRepo.NewMongoKnowledgeRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()

	// background worker: interaction audit + slot reconciliation.
	cron.InitWorker(bkRepo)
	audit := cron.NewQueueAuditLogger(bkRepo)

	// session store with sliding idle expiry.
	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionStore := session.NewRedisStore(utils.GetSessionCacheClient(), sessionTTL)

	// free-form answerer: Gemini when configured, apology otherwise.
	var answerer intelligence.Answerer = intelligence.NoopAnswerer{}
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gem, err := intelligence.NewGeminiAnswerer(key)
		if err != nil {
			logger.Warn("gemini unavailable, free-form answering degraded", zap.Error(err))
		} else {
			answerer = gem
		}
	}

	// response renderer: TTS audio when configured, plain speech otherwise.
	var renderer voice.Renderer = voice.NoopRenderer{}
	if config.AppConfig.ElevenLabsAPIKey != "" && config.AppConfig.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(config.AppConfig.CloudinaryURL)
		if err != nil {
			logger.Warn("cloudinary unavailable, audio rendering degraded", zap.Error(err))
		} else {
			renderer = voice.NewElevenLabsRenderer(
				config.AppConfig.ElevenLabsAPIKey,
				config.AppConfig.ElevenLabsVoiceID,
				cld, logger,
			)
		}
	}

	engine := dialog.NewEngine(knRepo, bkRepo, answerer, audit, logger)

	twilioClient := telephony.NewTwilioClient(
		config.AppConfig.TwilioAccountSID,
		config.AppConfig.TwilioAuthToken,
		config.AppConfig.TwilioPhoneNumber,
	)

	voiceHandler := handlers.NewVoiceHandler(sessionStore, engine, renderer, twilioClient, bkRepo, config.AppConfig.PublicBaseURL, logger)
	adminHandler := handlers.NewAdminHandler(knRepo, bkRepo, logger)

	routes.RegisterRoutes(router, voiceHandler, adminHandler)

	utils.StartHealthMonitor(utils.GetSessionCacheClient(), database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
