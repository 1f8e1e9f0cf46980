package main

import (
	"balance_benchmark/internal/pkg/logger"
)

func main() {
	if err := Execute(); err != nil {
		logger.Fatal("Benchmark failed", "error", err)
	}
	logger.Sync()
}
