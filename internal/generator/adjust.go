package generator

import (
	"math"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"
	"taskset-gen/internal/randstream"

	"github.com/sirupsen/logrus"
)

const (
	ModeSchedulable   = "schedulable"
	ModeUnschedulable = "unschedulable"

	// inflationMargin is how far past capacity the inflated demand is pushed.
	inflationMargin = 1.25
	// budgetCut scales the inflated component's budget when clamping to
	// deadlines kept its demand within capacity.
	budgetCut = 0.8
	// violationSlack absorbs float noise when comparing demand to capacity.
	violationSlack = 1e-6
)

type ComponentAdjustment struct {
	ComponentID  string  `json:"component_id"`
	Capacity     float64 `json:"capacity"`
	DemandBefore float64 `json:"demand_before"`
	DemandAfter  float64 `json:"demand_after"`
}

type CoreAdjustment struct {
	CoreID     string  `json:"core_id"`
	Capacity   float64 `json:"capacity"`
	LoadBefore float64 `json:"load_before"`
	LoadAfter  float64 `json:"load_after"`
}

// AdjustmentReport records demand and load around the adjustment pass.
// InflatedComponent is empty in schedulable mode.
type AdjustmentReport struct {
	Mode              string                `json:"mode"`
	Components        []ComponentAdjustment `json:"components"`
	Cores             []CoreAdjustment      `json:"cores"`
	InflatedComponent string                `json:"inflated_component,omitempty"`
	InflationFactor   float64               `json:"inflation_factor,omitempty"`
}

// Violations returns the components whose demand exceeds their capacity.
func (r *AdjustmentReport) Violations() []string {
	var out []string
	for _, c := range r.Components {
		if c.DemandAfter > c.Capacity+violationSlack {
			out = append(out, c.ComponentID)
		}
	}
	return out
}

// LiuLaylandBound is n(2^(1/n)-1), the RM utilization bound for n tasks.
func LiuLaylandBound(n int) float64 {
	if n <= 0 {
		return 1
	}
	return float64(n) * (math.Pow(2, 1/float64(n)) - 1)
}

// Capacity is the share of a component's bandwidth its tasks may use:
// budget/period scaled by the Liu-Layland bound under RM.
func Capacity(c *model.Component, numTasks int) float64 {
	if c.Scheduler == model.RM {
		return c.Bandwidth() * LiuLaylandBound(numTasks)
	}
	return c.Bandwidth()
}

// Demand sums wcet/period over the given tasks. Sporadic periods are MITs.
func Demand(tasks []model.Task, idx []int) float64 {
	d := 0.0
	for _, i := range idx {
		d += tasks[i].Utilization()
	}
	return d
}

func coreLoad(sys *model.System, coreID string) float64 {
	load := 0.0
	for _, i := range sys.ComponentsOn(coreID) {
		load += sys.Components[i].Utilization
	}
	return load
}

// Adjust enforces the selected mode on sys in place. In schedulable mode it
// only ever lowers values and draws nothing from s. In unschedulable mode it
// caps like schedulable mode, then pushes one randomly chosen component with
// tasks past its capacity.
func Adjust(cfg *config.GeneratorConfig, s *randstream.Stream, sys *model.System) *AdjustmentReport {
	logger := logging.GetGeneratorLogger()

	report := &AdjustmentReport{Mode: ModeSchedulable}
	if cfg.Unschedulable {
		report.Mode = ModeUnschedulable
	}

	taskIdx := make([][]int, len(sys.Components))
	for i := range sys.Components {
		taskIdx[i] = sys.TasksOf(sys.Components[i].ID)
		report.Components = append(report.Components, ComponentAdjustment{
			ComponentID:  sys.Components[i].ID,
			DemandBefore: Demand(sys.Tasks, taskIdx[i]),
		})
	}
	for _, c := range sys.Cores {
		report.Cores = append(report.Cores, CoreAdjustment{
			CoreID:     c.ID,
			Capacity:   c.SpeedFactor,
			LoadBefore: coreLoad(sys, c.ID),
		})
	}

	capCores(cfg, sys)
	for i := range sys.Components {
		capComponent(cfg, sys, i, taskIdx[i])
	}

	if cfg.Unschedulable {
		var candidates []int
		for i := range sys.Components {
			if len(taskIdx[i]) > 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			logger.Warn("No component hosts tasks, nothing to make unschedulable")
		} else {
			pick := randstream.Choice(s, candidates)
			report.InflatedComponent = sys.Components[pick].ID
			report.InflationFactor = inflate(cfg, sys, pick, taskIdx[pick])
		}
	}

	for i := range sys.Components {
		report.Components[i].Capacity = Capacity(&sys.Components[i], len(taskIdx[i]))
		report.Components[i].DemandAfter = Demand(sys.Tasks, taskIdx[i])
	}
	for i := range sys.Cores {
		report.Cores[i].LoadAfter = coreLoad(sys, sys.Cores[i].ID)
	}

	logger.WithFields(logrus.Fields{
		"mode":               report.Mode,
		"inflated_component": report.InflatedComponent,
		"inflation_factor":   report.InflationFactor,
	}).Info("Schedulability adjusted")
	return report
}

// capCores scales the budgets on every overloaded core by speed_factor/load.
func capCores(cfg *config.GeneratorConfig, sys *model.System) {
	logger := logging.GetGeneratorLogger()
	for _, core := range sys.Cores {
		load := coreLoad(sys, core.ID)
		if load <= core.SpeedFactor {
			continue
		}
		scale := core.SpeedFactor / load
		for _, i := range sys.ComponentsOn(core.ID) {
			c := &sys.Components[i]
			c.Budget = floorTo(c.Budget*scale, cfg.Granularity)
			c.Utilization = c.Bandwidth() * core.SpeedFactor
		}
		logger.WithFields(logrus.Fields{
			"core_id":      core.ID,
			"load":         load,
			"speed_factor": core.SpeedFactor,
			"scale":        scale,
		}).Debug("Core budgets capped")
	}
}

// capComponent keeps the server inside the component and the task demand
// inside the component capacity: sporadic demand within the server bandwidth,
// periodic demand within what the server leaves.
func capComponent(cfg *config.GeneratorConfig, sys *model.System, ci int, idx []int) {
	logger := logging.GetGeneratorLogger()
	g := cfg.Granularity
	c := &sys.Components[ci]
	capacity := Capacity(c, len(idx))

	var periodic, sporadic []int
	for _, i := range idx {
		if sys.Tasks[i].Type == model.Sporadic {
			sporadic = append(sporadic, i)
		} else {
			periodic = append(periodic, i)
		}
	}

	beta := 0.0
	if c.HasServer() {
		sb := math.Min(*c.ServerBudget, c.Budget)
		if len(idx) > 0 {
			limit := capacity * float64(len(sporadic)) / float64(len(idx)) * *c.ServerPeriod
			if sb > limit {
				sb = floorTo(limit, g)
			}
		}
		*c.ServerBudget = sb
		beta = c.ServerBandwidth()

		for _, i := range sporadic {
			t := &sys.Tasks[i]
			t.WCET = math.Min(t.WCET, math.Min(sb, t.Deadline))
		}
	}

	if u := Demand(sys.Tasks, sporadic); u > beta {
		scaleWCETs(sys.Tasks, sporadic, beta/u, g)
	}
	if u := Demand(sys.Tasks, periodic); u > capacity-beta {
		scaleWCETs(sys.Tasks, periodic, (capacity-beta)/u, g)
	}

	logger.WithFields(logrus.Fields{
		"component_id": c.ID,
		"capacity":     capacity,
		"demand":       Demand(sys.Tasks, idx),
	}).Debug("Component capped")
}

func scaleWCETs(tasks []model.Task, idx []int, scale, g float64) {
	for _, i := range idx {
		tasks[i].WCET = floorTo(tasks[i].WCET*scale, g)
	}
}

// inflate multiplies the component's WCETs so its demand exceeds capacity,
// clamped to each deadline. If the clamp keeps demand within capacity the
// budget is cut instead. It returns the factor applied.
func inflate(cfg *config.GeneratorConfig, sys *model.System, ci int, idx []int) float64 {
	logger := logging.GetGeneratorLogger()
	g := cfg.Granularity
	c := &sys.Components[ci]

	capacity := Capacity(c, len(idx))
	demand := Demand(sys.Tasks, idx)
	k := math.Max(cfg.InflationFactor, inflationMargin*capacity/demand)
	for _, i := range idx {
		t := &sys.Tasks[i]
		t.WCET = quantize(t.WCET*k, g, t.Deadline)
	}

	demand = Demand(sys.Tasks, idx)
	if demand <= capacity+violationSlack {
		bound := capacity / c.Bandwidth()
		c.Budget = floorTo(budgetCut*demand/bound*c.Period, g)
		core := sys.Core(c.CoreID)
		c.Utilization = c.Bandwidth() * core.SpeedFactor
		if c.HasServer() && *c.ServerBudget > c.Budget {
			*c.ServerBudget = c.Budget
		}
		logger.WithFields(componentFields(c)).Debug("Budget cut to exceed capacity")
	}

	logger.WithFields(logrus.Fields{
		"component_id": c.ID,
		"factor":       k,
		"demand":       demand,
		"capacity":     Capacity(c, len(idx)),
	}).Info("Component made unschedulable")
	return k
}
