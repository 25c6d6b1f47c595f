// Package logging provides structured logging built on zap.
//
// Production output is JSON for log aggregation; development output is
// colorized console text. All backend components log through this
// package rather than the standard library logger.
package logging
