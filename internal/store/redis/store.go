package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store persists the bookmark tree, classification records, taxonomy
// and job state in Redis. Bookmark data is the source of truth here,
// not a cache, so entries carry no TTL.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
