package service

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Devuelve 1 si el envio entra en el cupo del bucket y 0 si lo excede.
// ARGV[1] = ttl del bucket en ms, ARGV[2] = maximo por ventana.
const redisSubmitBucketScript = `
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if count > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const redisSubmitKeyPrefix = "feedback:submit:rl:"

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisSubmissionRateLimiter comparte el cupo de envios entre instancias de la API.
// Las claves son fingerprints opacos del cliente; cada ventana usa su propio bucket
// alineado al reloj, asi todas las instancias cuentan en el mismo.
// Si Redis falla se usa el limiter en memoria de la instancia.
type redisSubmissionRateLimiter struct {
	client   redisEvaler
	logger   *zap.Logger
	window   time.Duration
	max      int
	fallback SubmissionRateLimiter
	now      func() time.Time
}

func NewRedisSubmissionRateLimiter(client *redis.Client, logger *zap.Logger, window time.Duration, max int) SubmissionRateLimiter {
	if client == nil {
		return nil
	}
	return newRedisSubmissionRateLimiter(client, logger, window, max)
}

func newRedisSubmissionRateLimiter(client redisEvaler, logger *zap.Logger, window time.Duration, max int) *redisSubmissionRateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisSubmissionRateLimiter{
		client:   client,
		logger:   logger,
		window:   window,
		max:      max,
		fallback: NewSubmissionRateLimiter(window, max),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (l *redisSubmissionRateLimiter) Allow(fingerprint string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	allowed, err := l.client.Eval(ctx, redisSubmitBucketScript,
		[]string{l.bucketKey(fingerprint)},
		l.window.Milliseconds(), l.max,
	).Int()
	if err != nil {
		l.logger.Warn("redis rate limit unavailable, using local window", zap.Error(err))
		return l.fallback.Allow(fingerprint)
	}
	return allowed == 1
}

func (l *redisSubmissionRateLimiter) bucketKey(fingerprint string) string {
	bucket := l.now().UnixMilli() / l.window.Milliseconds()
	return redisSubmitKeyPrefix + fingerprint + ":" + strconv.FormatInt(bucket, 10)
}
