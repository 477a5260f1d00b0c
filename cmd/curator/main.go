package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/MrSnakeDoc/curator/internal/app"
)

func main() {
	// A missing .env file is fine, the environment wins anyway.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ curator failed to start: %v", err)
	}
}
