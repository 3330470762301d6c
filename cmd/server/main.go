package main

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/slemo54/LifeQuests/internal/config"
	"github.com/slemo54/LifeQuests/internal/serverapp"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	balancePath := cfg.BalancePath
	if balancePath == "" {
		balancePath = filepath.Join(cfg.DataDir, "balance.yml")
	}
	balance, err := config.LoadBalance(balancePath)
	if err != nil {
		logger.Fatal("load balance", zap.Error(err))
	}

	handler, engine, err := serverapp.NewHandler(serverapp.Options{
		Config:  &cfg,
		Balance: balance,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("build server", zap.Error(err))
	}

	if _, err := engine.CheckDay(context.Background()); err != nil {
		logger.Warn("initial day check", zap.Error(err))
	}

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("serve", zap.Error(err))
	}
}
