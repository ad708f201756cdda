package main

import (
	"log"
	"os"
	"strconv"

	"anonboard/internal/cache"
	"anonboard/internal/conversation"
	"anonboard/internal/db"
	"anonboard/internal/dispatch"
	"anonboard/internal/handlers"
	"anonboard/internal/middleware"
	"anonboard/internal/router"
	"anonboard/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	adminID, err := strconv.ParseInt(os.Getenv("ADMIN_ID"), 10, 64)
	if err != nil || adminID == 0 {
		log.Fatal("ADMIN_ID is not set")
	}

	if v := os.Getenv("DAILY_TOPIC_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			log.Fatalf("invalid DAILY_TOPIC_LIMIT %q", v)
		}
		services.DailyTopicLimit = limit
	}

	feedCache, err := cache.New(500)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	dispatcher := dispatch.New(
		conversation.NewTracker(),
		dispatch.LogNotifier{},
		feedCache,
		adminID,
	)

	limiter := middleware.NewSenderLimiter(1, 5) // 1 event/s, burst 5 per sender
	eventHandler := handlers.NewEventHandler(dispatcher, limiter)

	r := router.Setup(eventHandler, os.Getenv("GATEWAY_TOKEN"))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("anonboard gateway starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
