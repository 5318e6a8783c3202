package main

import (
	"github.com/joho/godotenv"

	"github.com/deividalexander/investment-opportunity-engine/internal/cli"
)

func main() {
	// Optional .env for local development; config falls back to defaults.
	_ = godotenv.Load()

	cli.Execute()
}
