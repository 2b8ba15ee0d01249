package main

import (
	"github.com/joho/godotenv"

	"docai/cmd"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	cmd.Execute()
}
