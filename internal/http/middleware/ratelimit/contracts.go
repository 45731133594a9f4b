package ratelimit

// Limiter decides whether a client key may make another request.
type Limiter interface {
	Allow(key string) bool
}

// NopLimiter admits everything; used when limiting is disabled.
type NopLimiter struct{}

func (NopLimiter) Allow(string) bool { return true }

var (
	_ Limiter = NopLimiter{}
	_ Limiter = (*KeyedLimiter)(nil)
)
