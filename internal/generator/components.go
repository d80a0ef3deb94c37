package generator

import (
	"fmt"
	"math"
	"sort"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"
	"taskset-gen/internal/partition"
	"taskset-gen/internal/randstream"
)

// BuildComponents assigns components to cores round-robin, partitions each
// core's share over its components and derives the periodic resource interface
// of every component. It returns the components with their utilization shares.
func BuildComponents(cfg *config.GeneratorConfig, s *randstream.Stream, cores []model.Core, coreShares []float64) ([]model.Component, []float64, error) {
	logger := logging.GetGeneratorLogger()
	g := cfg.Granularity

	ids := componentIDs(s, cfg.NumComponents)
	comps := make([]model.Component, cfg.NumComponents)
	byCore := make([][]int, len(cores))
	for i := range comps {
		c := i % len(cores)
		byCore[c] = append(byCore[c], i)
		comps[i] = model.Component{
			ID:        ids[i],
			CoreID:    cores[c].ID,
			Scheduler: cores[c].Scheduler,
		}
	}

	shares := make([]float64, len(comps))
	for c, idx := range byCore {
		if len(idx) == 0 {
			continue
		}
		split, err := partition.UUnifast(s, coreShares[c], len(idx))
		if err != nil {
			return nil, nil, fmt.Errorf("components on %s: %w", cores[c].ID, err)
		}
		for j, i := range idx {
			shares[i] = split[j]
		}
	}

	for i := range comps {
		sf := cores[i%len(cores)].SpeedFactor
		period := quantize(s.Uniform(cfg.ComponentPeriodRange.Min, cfg.ComponentPeriodRange.Max), g, math.Inf(1))
		comps[i].Period = period
		comps[i].Budget = quantize(math.Min(period, shares[i]*period/sf), g, period)
		comps[i].Utilization = comps[i].Budget / period * sf
	}

	for c := range cores {
		if cores[c].Scheduler == model.RM {
			assignComponentPriorities(comps, byCore[c])
		}
	}

	for i := range comps {
		logger.WithFields(componentFields(&comps[i])).Debug("Component created")
	}
	return comps, shares, nil
}

// assignComponentPriorities ranks the given components by period. Rank 0 is
// the highest priority; equal periods keep creation order.
func assignComponentPriorities(comps []model.Component, idx []int) {
	order := make([]int, len(idx))
	copy(order, idx)
	sort.SliceStable(order, func(a, b int) bool {
		return comps[order[a]].Period < comps[order[b]].Period
	})
	for rank, i := range order {
		comps[i].Priority = model.IntPtr(rank)
	}
}

// DeriveServers attaches a polling server to every component that hosts at
// least one sporadic task. The server never receives more than the component
// budget, and its bandwidth is held to the sporadic tasks' proportional share
// of the component bandwidth.
func DeriveServers(cfg *config.GeneratorConfig, s *randstream.Stream, comps []model.Component, counts, sporadic []int) {
	logger := logging.GetGeneratorLogger()
	g := cfg.Granularity

	for i := range comps {
		if sporadic[i] == 0 {
			continue
		}
		c := &comps[i]
		sp := quantize(s.Uniform(cfg.ServerPeriodRange.Min, cfg.ServerPeriodRange.Max), g, math.Inf(1))
		factor := s.Uniform(cfg.ServerBudgetFactorRange.Min, cfg.ServerBudgetFactorRange.Max)
		sb := quantize(sp*factor, g, sp)

		limit := math.Min(c.Budget, c.Bandwidth()*float64(sporadic[i])/float64(counts[i])*sp)
		if sb > limit {
			sb = floorTo(limit, g)
		}

		c.ServerPeriod = model.FloatPtr(sp)
		c.ServerBudget = model.FloatPtr(sb)
		logger.WithFields(componentFields(c)).Debug("Polling server derived")
	}
}
