package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/acrispino/gemini-vision/internal/cli"
	"github.com/acrispino/gemini-vision/internal/config"
	"github.com/acrispino/gemini-vision/internal/db"
	"github.com/acrispino/gemini-vision/internal/imagelib"
	"github.com/acrispino/gemini-vision/internal/logging"
	"github.com/acrispino/gemini-vision/internal/service"
	"github.com/acrispino/gemini-vision/internal/store"
	"github.com/acrispino/gemini-vision/internal/vision/gemini"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.Load()

	// The CLI shares the terminal with its output, so always log as text.
	logger, cleanup, err := logging.New(cfg.LogLevel, "text", cfg.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := cfg.RequireKey(); err != nil {
		return err
	}

	library, err := imagelib.New(cfg.ImageDir)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	describer, err := gemini.NewClient(context.Background(), cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		return err
	}

	svc := service.NewVisionService(library, describer, store.NewAnalysisStore(database), logger)
	c := cli.New(svc, os.Stdout)

	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer func() {
		_ = rl.Close()
	}()

	ctx := context.Background()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if !c.Execute(ctx, strings.TrimSpace(line)) {
			break
		}
	}
	return nil
}
