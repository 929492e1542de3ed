package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/kbowl/knowledge-bowl-backend/internal/config"
	"github.com/kbowl/knowledge-bowl-backend/internal/httpapi"
	"github.com/kbowl/knowledge-bowl-backend/internal/hub"
	"github.com/kbowl/knowledge-bowl-backend/internal/question"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.BuildLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	pool, err := question.LoadFile(cfg.QuestionsFile)
	if err != nil {
		logger.Fatal("loading question pool", zap.Error(err))
	}
	logger.Info("question pool loaded",
		zap.String("file", cfg.QuestionsFile), zap.Int("questions", len(pool)))

	ctx := context.Background()
	h := hub.NewHub(ctx, pool, logger)

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, logger)

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
