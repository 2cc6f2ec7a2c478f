package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis every repository is written against.
// Both single node and cluster clients satisfy it.
type Client interface {
	redis.UniversalClient
}
