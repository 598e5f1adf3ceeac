// file: database/redis.go
package database

import (
	"NovaCTF/config"
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RDB may be nil when Redis is not configured; every caller must treat the
// cache as optional and fall through to Postgres.
var RDB *redis.Client
var Ctx = context.Background()

func InitRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.C.RedisAddr,
		Password: config.C.RedisPassword,
		DB:       config.C.RedisDB,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RDB.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	log.Println("Redis connection successfully established.")
}
