package cache

import (
	"context"
	"time"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
}

// ClinicSlugKey is the cache key of a clinic looked up by slug
func ClinicSlugKey(slug string) string {
	return "clinic:slug:" + slug
}

// ClinicIDKey is the cache key of a clinic looked up by ID
func ClinicIDKey(id string) string {
	return "clinic:id:" + id
}

// ClinicPattern matches every cached clinic entry
const ClinicPattern = "clinic:*"
