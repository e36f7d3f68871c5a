package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// InitRedisClient connects to REDIS_CONN_STRING when it is set. Without it the
// server keeps sessions, rate limits and token revocations in process memory.
func InitRedisClient() error {
	if RedisConnString == "" {
		RedisEnabled = false
		SysLog("REDIS_CONN_STRING not set, Redis is not enabled")
		return nil
	}
	SysLog("Redis is enabled")
	opt, err := redis.ParseURL(RedisConnString)
	if err != nil {
		return err
	}
	RDB = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err = RDB.Ping(ctx).Result(); err != nil {
		return err
	}
	RedisEnabled = true
	return nil
}

func ParseRedisOption() *redis.Options {
	opt, err := redis.ParseURL(RedisConnString)
	if err != nil {
		FatalLog("failed to parse Redis connection string: " + err.Error())
	}
	return opt
}
