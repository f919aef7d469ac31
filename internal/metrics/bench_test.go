package metrics

import "testing"

// BenchmarkCollector_SDPAttempt measures the overhead of recording
// a transport-file attempt (atomic operations).
func BenchmarkCollector_SDPAttempt(b *testing.B) {
	c := New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SDPAttempt()
	}
}

// BenchmarkCollector_Snapshot measures the cost of taking a snapshot.
func BenchmarkCollector_Snapshot(b *testing.B) {
	c := New()
	c.ListRequested()
	c.DispatchFailed()
	c.RecordError("test")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Snapshot()
	}
}

// BenchmarkNilCollector verifies nil-safe no-ops have zero overhead.
func BenchmarkNilCollector(b *testing.B) {
	var c *Collector
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SDPAttempt()
		c.BytesTransferred(32768)
		c.RecordError("test")
	}
}
