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

// BuildTasks generates every component's tasks, periodic ones first. counts
// and sporadic are indexed like comps; servers must already be derived for
// components with sporadic tasks.
//
// The periodic tasks split (budget/period - server bandwidth) of the component,
// the sporadic tasks split the server bandwidth. Both pools are scaled by the
// core speed factor, so dividing by it again yields core-time WCETs.
func BuildTasks(cfg *config.GeneratorConfig, s *randstream.Stream, cores []model.Core, comps []model.Component, counts, sporadic []int) ([]model.Task, error) {
	logger := logging.GetGeneratorLogger()
	g := cfg.Granularity

	speed := make(map[string]float64, len(cores))
	for _, c := range cores {
		speed[c.ID] = c.SpeedFactor
	}

	var tasks []model.Task
	for i := range comps {
		c := &comps[i]
		sf := speed[c.CoreID]
		nSporadic := sporadic[i]
		nPeriodic := counts[i] - nSporadic
		start := len(tasks)

		if nPeriodic > 0 {
			pool := (c.Bandwidth() - c.ServerBandwidth()) * sf
			shares, err := partition.UUnifast(s, pool, nPeriodic)
			if err != nil {
				return nil, fmt.Errorf("periodic tasks of %s: %w", c.ID, err)
			}
			periods := samplePeriods(s, nPeriodic, cfg.TaskPeriodRange, cfg.HarmonicRatio, g)
			for j, share := range shares {
				period := periods[j]
				tasks = append(tasks, model.Task{
					Name:        taskName(len(tasks)),
					ComponentID: c.ID,
					WCET:        quantize(math.Min(period, share*period/sf), g, period),
					Period:      period,
					Deadline:    period,
					Type:        model.Periodic,
				})
			}
			if c.Scheduler == model.RM {
				assignTaskPriorities(tasks[start:])
			}
		}

		if nSporadic > 0 {
			if !c.HasServer() {
				return nil, fmt.Errorf("component %s hosts sporadic tasks without a server", c.ID)
			}
			serverPeriod := *c.ServerPeriod
			shares, err := partition.UUnifast(s, c.ServerBandwidth()*sf, nSporadic)
			if err != nil {
				return nil, fmt.Errorf("sporadic tasks of %s: %w", c.ID, err)
			}
			mits := samplePeriods(s, nSporadic, cfg.SporadicPeriodRange, cfg.HarmonicRatio, g)
			for j, share := range shares {
				mit := mits[j]
				deadline := mit * s.Uniform(cfg.SporadicDeadlineRange.Min, cfg.SporadicDeadlineRange.Max)
				tasks = append(tasks, model.Task{
					Name:        taskName(len(tasks)),
					ComponentID: c.ID,
					WCET:        quantize(math.Min(deadline, share*serverPeriod/sf), g, deadline),
					Period:      mit,
					Deadline:    deadline,
					Type:        model.Sporadic,
				})
			}
		}

		for j := start; j < len(tasks); j++ {
			logger.WithFields(taskFields(&tasks[j])).Debug("Task created")
		}
	}
	return tasks, nil
}

// assignTaskPriorities ranks tasks by period, rank 0 highest, ties by order.
func assignTaskPriorities(tasks []model.Task) {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tasks[order[a]].Period < tasks[order[b]].Period
	})
	for rank, i := range order {
		tasks[i].Priority = model.IntPtr(rank)
	}
}
