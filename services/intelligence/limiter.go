package intelligence

import (
	"context"

	"golang.org/x/time/rate"
)

type rateLimitedCompleter struct {
	next    Completer
	limiter *rate.Limiter
}

// RateLimited makes every completion wait for a token from limiter.
func RateLimited(next Completer, limiter *rate.Limiter) Completer {
	return &rateLimitedCompleter{next: next, limiter: limiter}
}

func (c *rateLimitedCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return c.next.Complete(ctx, system, user)
}
