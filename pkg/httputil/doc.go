// Package httputil provides retry support for the topicmap REST client.
//
// A [Backoff] re-runs an operation while it fails with a [RetryableError],
// doubling the wait between attempts up to MaxDelay:
//
//	b := httputil.Backoff{Attempts: 3, Delay: 200 * time.Millisecond}
//	err := b.Do(ctx, func() error {
//	    return doRequest(ctx)
//	})
//
// Wrap connection errors and 5xx responses with [Retryable]. Any other
// error ends the loop at once.
package httputil
