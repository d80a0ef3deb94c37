package partition

import (
	"errors"
	"fmt"
	"math"

	"taskset-gen/internal/randstream"
)

// ErrInvalidPartition is returned when a partition is requested for a
// non-positive total or count. It points at an upstream configuration or
// rounding bug and is never clamped away.
var ErrInvalidPartition = errors.New("invalid utilization partition")

// UUnifast splits total into n strictly positive shares that sum to total,
// drawn uniformly over the simplex of possible splits.
//
// For i in 1..n-1 the remaining utilization shrinks by r^(1/(n-i)), with r
// uniform in (0,1); the difference is emitted as share i and the remainder is
// the last share. n == 1 returns [total] without consuming a draw.
func UUnifast(s *randstream.Stream, total float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidPartition, n)
	}
	if !(total > 0) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total must be positive and finite, got %v", ErrInvalidPartition, total)
	}

	shares := make([]float64, n)
	remaining := total
	for i := 1; i < n; i++ {
		exp := 1.0 / float64(n-i)
		for {
			r := s.Float64()
			if r == 0 {
				continue
			}
			next := remaining * math.Pow(r, exp)
			share := remaining - next
			// Both halves must stay positive or a later share would be zero.
			if share <= 0 || next <= 0 {
				continue
			}
			shares[i-1] = share
			remaining = next
			break
		}
	}
	shares[n-1] = remaining
	return shares, nil
}
