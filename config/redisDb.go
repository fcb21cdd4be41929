package config

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ConnectRedisLock connects to redis and returns a distributed lock client.
// Redis is optional: with REDIS_ADDRESS unset this returns nil and the ledger
// falls back to database-level conditional commits only.
func ConnectRedisLock() *redislock.Client {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		log.Printf("REDIS_ADDRESS not set; stock lock disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: "",
		DB:       0, // use default DB
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("failed to connect redis (addr=%s): %v; stock lock disabled", redisAddr, err)
		return nil
	}

	log.Printf("connected to redis (addr=%s)", redisAddr)
	return redislock.New(rdb)
}
