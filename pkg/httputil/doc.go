// Package httputil provides the HTTP plumbing shared by catalog fetchers.
//
// # Caching
//
// [Cache] stores responses as JSON files under ~/.cache/tilewright/ with a
// configurable TTL. Keys are hashed, so arbitrary strings (URLs included)
// are safe. Use [Cache.Namespace] to keep different sources from colliding:
//
//	cache, _ := httputil.NewCache("", 24*time.Hour)
//	providers := cache.Namespace("providers:")
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff, but only for
// errors wrapped in [RetryableError]. Wrap network failures and 5xx
// responses; leave 4xx responses unwrapped so they fail immediately.
package httputil
