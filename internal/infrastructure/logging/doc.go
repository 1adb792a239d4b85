// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for humans
//
// Every share invocation gets a child logger carrying its invocation id so
// that stage transitions and the final outcome can be correlated:
//
//	logger := logging.NewDefault()
//	inv := logger.ForInvocation("shr_01J...")
//	inv.Info("share completed", zap.String("outcome", "delivered"))
package logging
