/*
Package monitoring provides Prometheus metrics for sharebridge.

# Overview

Metrics are registered on an injected registry so that tests and multiple
servers in one process do not collide on the global default registry.

# Metrics

  - sharebridge_http_requests_total{method,path,status}
  - sharebridge_http_request_duration_seconds{method,path}
  - sharebridge_http_request_size_bytes{method,path}
  - sharebridge_share_invocations_total{outcome,failure}
  - sharebridge_share_stage_duration_seconds{stage}
  - sharebridge_upload_bytes

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(monitoring.Handler(reg)))
*/
package monitoring
