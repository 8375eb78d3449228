package gateway

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// NewCachingTransport creates a round tripper with disk-based caching,
// used for the public website read endpoints that return Cache-Control
// headers. Pass the result to WithTransport.
func NewCachingTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		// Use in-memory cache if no cache directory specified
		return httpcache.NewTransport(httpcache.NewMemoryCache())
	}

	return httpcache.NewTransport(diskcache.New(cacheDir))
}

// NewInMemoryCachingTransport creates a round tripper with in-memory caching
// only. Suitable for testing or when disk caching is not desired.
func NewInMemoryCachingTransport() http.RoundTripper {
	return httpcache.NewTransport(httpcache.NewMemoryCache())
}
