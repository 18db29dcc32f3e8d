package cache

import "time"

// Cache stores serialized calculation results keyed by a request digest.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}
