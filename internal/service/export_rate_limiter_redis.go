package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisExportAllowScript cuenta una exportación y devuelve {cuenta, pttl}. La
// expiración se fija cuando la clave no tiene TTL, así una clave que perdió
// su EXPIRE no bloquea al cliente para siempre.
const redisExportAllowScript = `
local current = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`

// redisExportRateLimiter cuenta exportaciones por ventana fija, compartida por
// todas las instancias detrás del mismo Redis.
type redisExportRateLimiter struct {
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisExportRateLimiter devuelve nil si client es nil.
func NewRedisExportRateLimiter(client *redis.Client, window time.Duration, max int) ExportRateLimiter {
	if client == nil {
		return nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisExportRateLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: "export:rl:",
	}
}

// Allow deja pasar ante errores de Redis y rechaza claves vacías. Al rechazar
// devuelve el TTL restante de la ventana.
func (l *redisExportRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l == nil || l.client == nil {
		return true, 0
	}
	normalizedKey := strings.ToLower(strings.TrimSpace(key))
	if normalizedKey == "" {
		return false, 0
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	reply, err := l.client.Eval(ctx, redisExportAllowScript, []string{l.prefix + normalizedKey}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(reply) != 2 {
		return true, 0
	}
	if reply[0] <= int64(l.max) {
		return true, 0
	}
	return false, time.Duration(reply[1]) * time.Millisecond
}
