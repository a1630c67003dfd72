package database

import (
	"context"
	"log"
	"ticket_manager/config"

	"github.com/redis/go-redis/v9"
)

// Redis carries availability broadcasts and domain notifications. The engine
// works without it; publishers must tolerate a nil client.
var Redis *redis.Client

func ConnectRedis() {
	addr := config.ConfigOr("REDIS_ADDR", "localhost:6379")
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("Redis not reachable at %s, pub/sub disabled: %v", addr, err)
		return
	}

	Redis = client
	log.Printf("Connected to Redis at %s", addr)
}
