package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"autosync/serving/internal/booking"
	"autosync/serving/internal/domain"
)

// Resets the Redis slot calendar to a clean demo state: all claims cleared
// and one completed visit in the fixed vehicle's history.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	addr := getEnv("REDIS_ADDR", "localhost:6379")
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Connection failed: %v\n\nMake sure Redis is running:\n  docker-compose up -d redis", err)
	}
	fmt.Println("✓ Connected to Redis")

	for _, slot := range booking.DemoSlots {
		key := fmt.Sprintf("booking:claim:%s", slot.SlotID)
		if err := client.Del(ctx, key).Err(); err != nil {
			log.Fatalf("✗ clearing claim %s failed: %v", slot.SlotID, err)
		}
		fmt.Printf("✓ slot %s open (%s %s)\n", slot.SlotID, slot.Date, slot.Time)
	}

	reg := getEnv("VEHICLE_REG", "TN-22-BJ-2730")
	historyKey := fmt.Sprintf("booking:history:%s", reg)
	if err := client.Del(ctx, historyKey).Err(); err != nil {
		log.Fatalf("✗ clearing history failed: %v", err)
	}
	seed := domain.BookingRecord{
		SlotID:     "S0",
		Date:       "2024-01-12",
		Time:       "10:00",
		Status:     domain.BookingCompleted,
		VehicleReg: reg,
	}
	payload, err := json.Marshal(seed)
	if err != nil {
		log.Fatalf("✗ marshal seed record failed: %v", err)
	}
	if err := client.RPush(ctx, historyKey, payload).Err(); err != nil {
		log.Fatalf("✗ seeding history failed: %v", err)
	}
	fmt.Printf("✓ seeded service history for %s\n", reg)

	fmt.Println("\n✅ Slot calendar seeded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
