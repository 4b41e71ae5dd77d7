package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present so ${VAR} references in config.yaml resolve in
	// development. Missing file is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
