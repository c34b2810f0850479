package main

import (
	"fmt"
	"os"

	"github.com/Naicocircus/blog-tech/internal/config"
	"github.com/Naicocircus/blog-tech/internal/devserver"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid config:", err)
		os.Exit(1)
	}

	logger := cfg.Logger()

	srv := devserver.New(cfg.JWTSecret, cfg.JWTExpiry, logger)
	if err := srv.Seed(); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	if err := srv.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
