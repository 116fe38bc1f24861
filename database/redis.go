package database

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"sportlink-service/config"

	"github.com/redis/go-redis/v9"
)

// RedisConnect opens one client per configured database number. DB 0 holds
// refresh tokens, DB 1 backs the socket.io adapter.
func RedisConnect() map[int]*redis.Client {
	clients := make(map[int]*redis.Client)

	for _, db := range strings.Split(config.Config("REDIS_DB"), ",") {
		dbNumber, _ := strconv.Atoi(db)

		options := &redis.Options{
			Addr: fmt.Sprintf(
				"%s:%s",
				config.Config("REDIS_HOST"),
				config.Config("REDIS_PORT"),
			),
			Password: config.Config("REDIS_PASSWORD"),
			DB:       dbNumber,
		}

		clients[dbNumber] = redis.NewClient(options)
	}

	log.Printf("Connections opened to Redis")
	return clients
}
