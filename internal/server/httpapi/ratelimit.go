package httpapi

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/dmitrijs2005/datalyn/internal/logging"
	"github.com/dmitrijs2005/datalyn/internal/netx"
	"github.com/julienschmidt/httprouter"
)

type RateLimitConfig struct {
	PerMinute int
	Burst     int
	// TrustProxy keys clients by the first X-Forwarded-For entry.
	TrustProxy bool
	Logger     logging.Logger
}

// bucketStore is the subset of bigcache the limiter uses.
type bucketStore interface {
	Get(key string) ([]byte, error)
	Set(key string, entry []byte) error
	Close() error
}

// RateLimiter is a per-client token bucket. Buckets live in a bigcache
// instance so clients that go quiet are evicted once their bucket would
// be full again.
type RateLimiter struct {
	mu         sync.Mutex
	cache      bucketStore
	logger     logging.Logger
	rate       float64
	burst      float64
	trustProxy bool
	now        func() time.Time
}

func NewRateLimiter(ctx context.Context, cfg RateLimitConfig) (*RateLimiter, error) {
	perMinute, burst := cfg.PerMinute, cfg.Burst
	if perMinute <= 0 {
		perMinute = 60
	}
	if burst <= 0 {
		burst = 20
	}
	rate := float64(perMinute) / 60.0

	refill := time.Duration(float64(burst)/rate*float64(time.Second)) + time.Minute

	bc := bigcache.DefaultConfig(refill)
	bc.Shards = 64
	bc.MaxEntriesInWindow = 10000
	bc.MaxEntrySize = 64
	bc.CleanWindow = time.Minute
	bc.Verbose = false

	cache, err := bigcache.New(ctx, bc)
	if err != nil {
		return nil, fmt.Errorf("rate limiter cache: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &RateLimiter{
		cache:      cache,
		logger:     logger,
		rate:       rate,
		burst:      float64(burst),
		trustProxy: cfg.TrustProxy,
		now:        time.Now,
	}, nil
}

func (l *RateLimiter) Close() error {
	return l.cache.Close()
}

// Limit answers 429 once the client's bucket is empty.
func (l *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ok, retry := l.allow(netx.ClientIP(r, l.trustProxy))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}
		next(w, r, ps)
	}
}

// allow takes a token for key. When none is left it also reports how
// long until the next one.
func (l *RateLimiter) allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tokens := l.burst

	if raw, err := l.cache.Get(key); err == nil {
		if b, ok := decodeBucket(raw); ok {
			elapsed := now.Sub(b.last).Seconds()
			if elapsed < 0 {
				elapsed = 0
			}
			tokens = math.Min(l.burst, b.tokens+elapsed*l.rate)
		}
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		// a broken cache must not lock everybody out
		return true, 0
	}

	allowed := tokens >= 1
	if allowed {
		tokens--
	}
	if err := l.cache.Set(key, encodeBucket(bucket{tokens: tokens, last: now})); err != nil {
		// fail open: the request is still served, the client just is not limited
		l.logger.Warn(context.Background(), "rate limit bucket not stored", "client", key, "error", err)
	}

	if allowed {
		return true, 0
	}
	wait := time.Duration((1 - tokens) / l.rate * float64(time.Second))
	return false, wait
}

type bucket struct {
	tokens float64
	last   time.Time
}

func encodeBucket(b bucket) []byte {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], math.Float64bits(b.tokens))
	binary.BigEndian.PutUint64(buf[8:], uint64(b.last.UnixNano()))
	return buf
}

func decodeBucket(buf []byte) (bucket, bool) {
	if len(buf) != 16 {
		return bucket{}, false
	}
	return bucket{
		tokens: math.Float64frombits(binary.BigEndian.Uint64(buf[:8])),
		last:   time.Unix(0, int64(binary.BigEndian.Uint64(buf[8:]))),
	}, true
}
