// Package testing provides test utilities for the rundinner library.
//
// This package offers helpers for setting up test environments: embedded NATS servers
// for schedule store tests and generators for participant fixtures. It follows Go's
// convention of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: Single NATS server with JetStream
//   - CreateJetStreamKV: Convenience wrapper for KV bucket creation
//   - GenerateParticipants: Numbered participants with unknown seats
//   - DistributeSeats, DistributeGender: Deterministic attribute patterns
//
// Example usage:
//
//	import (
//	    "testing"
//	    dinnertest "github.com/arloliu/rundinner/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := dinnertest.StartEmbeddedNATS(t)
//	    participants := dinnertest.GenerateParticipants(18)
//	    dinnertest.DistributeSeats(participants, 6, 2)
//	    // Test code here
//	}
package testing
