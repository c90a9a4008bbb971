// internal/model/split.go
package model

// SplitOutcome partitions a segment of size n into simulated delivery
// outcomes: floor(0.85*n) delivered, the rest failed. Integer
// arithmetic keeps the floor exact; the SQL in the delivery store
// computes the same threshold as (total*85)/100 and must stay in step
// with this function.
func SplitOutcome(n int) (delivered, failed int) {
	if n <= 0 {
		return 0, 0
	}
	delivered = n * 85 / 100
	return delivered, n - delivered
}
