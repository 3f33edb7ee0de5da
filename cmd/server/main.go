package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/blogcast/blogcast/adapters/llm"
	"github.com/blogcast/blogcast/adapters/tts"
	"github.com/blogcast/blogcast/internal/api"
	"github.com/blogcast/blogcast/internal/auth"
	"github.com/blogcast/blogcast/internal/websocket"
	"github.com/blogcast/blogcast/usecase"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, relying on environment")
	}

	ctx := context.Background()

	// Initialize adapters
	writer, err := llm.NewGeminiWriter(ctx, llm.NewGeminiConfigFromEnv(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize script writer", zap.Error(err))
	}
	synthesizer, err := tts.NewMurfTTS(tts.NewMurfConfigFromEnv(), logger)
	if err != nil {
		logger.Fatal("Failed to initialize speech synthesizer", zap.Error(err))
	}

	issuer, err := auth.NewIssuerFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize token issuer", zap.Error(err))
	}

	// Initialize pipeline
	options := optionsFromEnv()
	allowFallback := os.Getenv("ALLOW_FALLBACK_SCRIPT") == "true"
	pipeline := usecase.NewPipelineWithFallback(writer, synthesizer, options, allowFallback, logger)

	if err := os.MkdirAll(options.OutputDir, 0o755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(pipeline, logger)
	go hub.Run()

	// Create Echo instance
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.InitRoutes(e, api.Deps{
		Pipeline:     pipeline,
		Hub:          hub,
		Issuer:       issuer,
		ClientSecret: os.Getenv("API_CLIENT_SECRET"),
		OutputDir:    options.OutputDir,
	}, logger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// optionsFromEnv layers environment settings over the production defaults.
func optionsFromEnv() usecase.Options {
	options := usecase.DefaultOptions()

	if v := os.Getenv("INTRO_PATH"); v != "" {
		options.IntroPath = v
	}
	if v := os.Getenv("OUTRO_PATH"); v != "" {
		options.OutroPath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		options.OutputDir = v
	}
	if v := os.Getenv("MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			options.MaxChars = n
		}
	}
	if v := os.Getenv("INTRO_FADE_OUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			options.IntroFadeOut = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("OUTRO_FADE_IN_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			options.OutroFadeIn = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("SPEECH_DELTA_DB"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			options.SpeechDeltaDB = f
		}
	}
	if v := os.Getenv("MUSIC_DELTA_DB"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			options.MusicDeltaDB = f
		}
	}

	return options
}
