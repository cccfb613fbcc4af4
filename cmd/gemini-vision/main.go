package main

import (
	"context"
	"log"

	"github.com/acrispino/gemini-vision/internal/config"
	"github.com/acrispino/gemini-vision/internal/db"
	"github.com/acrispino/gemini-vision/internal/imagelib"
	"github.com/acrispino/gemini-vision/internal/logging"
	"github.com/acrispino/gemini-vision/internal/service"
	"github.com/acrispino/gemini-vision/internal/store"
	"github.com/acrispino/gemini-vision/internal/vision/gemini"
	"github.com/acrispino/gemini-vision/internal/web"
	"github.com/acrispino/gemini-vision/internal/web/templates"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := cfg.RequireKey(); err != nil {
		logger.Error("missing configuration", "error", err)
		return
	}

	library, err := imagelib.New(cfg.ImageDir)
	if err != nil {
		logger.Error("failed to initialize image library", "error", err)
		return
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	describer, err := gemini.NewClient(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		return
	}
	logger.Info("using gemini model", "model", cfg.GeminiModel)

	svc := service.NewVisionService(library, describer, store.NewAnalysisStore(database), logger)
	server := web.NewServer(svc, library, templates.FS, logger)

	if err := server.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
