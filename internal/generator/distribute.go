package generator

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DistributeTasks apportions numTasks over components proportionally to their
// utilization shares with the largest remainder method. When there are at
// least as many tasks as components, every component first receives one.
// Remainder ties go to the earlier component. The counts sum to numTasks.
func DistributeTasks(shares []float64, numTasks int) []int {
	counts := make([]int, len(shares))
	if len(shares) == 0 || numTasks <= 0 {
		return counts
	}

	remaining, base := numTasks, 0
	if numTasks >= len(shares) {
		base = 1
		for i := range counts {
			counts[i] = base
		}
		remaining -= len(shares)
	}
	if remaining == 0 {
		return counts
	}

	total := floats.Sum(shares)
	remainders := make([]float64, len(shares))
	assigned := 0
	for i, share := range shares {
		quota := float64(remaining) / float64(len(shares))
		if total > 0 {
			quota = float64(remaining) * share / total
		}
		whole := int(math.Floor(quota))
		counts[i] += whole
		assigned += whole
		remainders[i] = quota - float64(whole)
	}

	// Float error can leave the floors one off in either direction.
	order := byDescending(remainders)
	leftover := remaining - assigned
	for k := 0; leftover > 0; k++ {
		counts[order[k%len(order)]]++
		leftover--
	}
	for k := len(order) - 1; leftover < 0; k-- {
		i := order[(k%len(order)+len(order))%len(order)]
		if counts[i] > base {
			counts[i]--
			leftover++
		}
	}
	return counts
}

// ClassifySporadic decides how many of each component's tasks are sporadic.
// Each component gets round(n_i*ratio); the counts are then reconciled so the
// total is exactly round(numTasks*ratio).
func ClassifySporadic(counts []int, ratio float64) []int {
	sporadic := make([]int, len(counts))
	if ratio <= 0 {
		return sporadic
	}

	total, placed := 0, 0
	wanted := make([]float64, len(counts))
	for i, n := range counts {
		total += n
		wanted[i] = float64(n) * ratio
		sporadic[i] = int(math.Round(wanted[i]))
		placed += sporadic[i]
	}
	target := int(math.Round(float64(total) * ratio))

	for placed < target {
		best := -1
		for i := range counts {
			if sporadic[i] >= counts[i] {
				continue
			}
			if best < 0 || wanted[i]-float64(sporadic[i]) > wanted[best]-float64(sporadic[best]) {
				best = i
			}
		}
		sporadic[best]++
		placed++
	}
	for placed > target {
		best := -1
		for i := range counts {
			if sporadic[i] == 0 {
				continue
			}
			if best < 0 || float64(sporadic[i])-wanted[i] > float64(sporadic[best])-wanted[best] {
				best = i
			}
		}
		sporadic[best]--
		placed--
	}
	return sporadic
}

// byDescending returns indices ordered by value, largest first, stable on index.
func byDescending(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})
	return idx
}
