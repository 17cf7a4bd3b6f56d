package redis_fx

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"saasbase/internal/infra"
)

var Module = fx.Provide(
	provideRedis)

func provideRedis() *redis.Client {
	return infra.InitRedis()
}
