/*
Package resilience provides a circuit breaker and an upload guard built on it.

The share-target server funnels every photo through one image host. When that
host is down, each share would otherwise wait for its own timeout; the guard
fails them fast with an upload failure instead.

# Usage

	guarded := resilience.NewUploader(client, resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state changed", zap.Stringer("to", to))
		},
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[probes succeed]-> Closed
	                                                        |
	                                                    [failure]
	                                                        v
	                                                       Open

Only errors wrapping share.ErrUploadFailure count. A missing token or a
cancelled caller leaves the circuit alone.
*/
package resilience
