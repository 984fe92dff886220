package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/acidni/intake-service/internal/config"
	"github.com/acidni/intake-service/internal/observability"
	"github.com/acidni/intake-service/internal/offers"
)

func main() {
	out := flag.String("out", "offers.generated.json", "output file for the normalized offers")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: import-offers [-out file] <path-to-marketplace-offers>")
		os.Exit(1)
	}

	logger, err := observability.NewLogger(config.LoggerConfig{Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	srcDir := flag.Arg(0)
	if _, err := os.Stat(srcDir); err != nil {
		logger.Fatal("source path not found", zap.String("path", srcDir), zap.Error(err))
	}

	collected, err := offers.Collect(srcDir, logger)
	if err != nil {
		logger.Fatal("collect offers failed", zap.String("path", srcDir), zap.Error(err))
	}
	if err := offers.WriteJSON(*out, collected); err != nil {
		logger.Fatal("write offers failed", zap.String("path", *out), zap.Error(err))
	}
	logger.Info("wrote offers", zap.Int("count", len(collected)), zap.String("path", *out))
}
