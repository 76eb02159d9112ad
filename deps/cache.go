package deps

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// IgniteCache connects the redis instance used to publish moderation
// events to realtime consumers. Optional.
func IgniteCache(container Deps) (Deps, error) {
	address := container.Config().UString("cache.redis", "")
	if address == "" {
		return container, nil
	}
	client := redis.NewClient(&redis.Options{Addr: address})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return container, err
	}
	container.RedisProvider = client
	return container, nil
}
