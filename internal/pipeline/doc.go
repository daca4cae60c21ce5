// Package pipeline drives records from a line-oriented input stream into a
// storage backend.
//
// The flow is strictly sequential:
//
//	Driver (read line, filter, decode, normalize)
//	     → Buffer (append; flush through Writer at the threshold)
//	     → Reporter (cumulative inserted count on a time cadence)
//
// A flush blocks further reading until the store round trip completes or
// fails. Failed batches are logged and dropped; they are never retried.
package pipeline
