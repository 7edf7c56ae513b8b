package httpclient

import (
	"net/http"
	"sync"
	"time"
)

var (
	once   sync.Once
	shared *http.Client
)

// Init sizes the shared outbound transport. First call wins.
func Init(maxIdleConns, maxIdleConnsPerHost int, idleConnTimeout time.Duration) {
	once.Do(func() {
		shared = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        maxIdleConns,
				MaxIdleConnsPerHost: maxIdleConnsPerHost,
				IdleConnTimeout:     idleConnTimeout,
			},
		}
	})
}

// Shared is the pooled client handed to the LLM and embedding SDKs so they
// reuse connections instead of dialing per call.
func Shared() *http.Client {
	Init(50, 25, 60*time.Second)
	return shared
}
