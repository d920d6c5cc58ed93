package objstore

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries bounds how often a transient driver failure is retried.
const DefaultMaxRetries = 3

// Retry runs op with exponential backoff until it succeeds, ctx is done,
// the retry budget is spent or permanent reports the error as final.
func Retry(ctx context.Context, op func() error, permanent func(error) bool) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), DefaultMaxRetries), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err != nil && permanent != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
