package generator

import (
	"taskset-gen/internal/model"

	"github.com/sirupsen/logrus"
)

func coreFields(c model.Core, share float64) logrus.Fields {
	return logrus.Fields{
		"core_id":      c.ID,
		"speed_factor": c.SpeedFactor,
		"scheduler":    c.Scheduler,
		"utilization":  share,
	}
}

func componentFields(c *model.Component) logrus.Fields {
	f := logrus.Fields{
		"component_id": c.ID,
		"core_id":      c.CoreID,
		"scheduler":    c.Scheduler,
		"budget":       c.Budget,
		"period":       c.Period,
		"utilization":  c.Utilization,
	}
	if c.Priority != nil {
		f["priority"] = *c.Priority
	}
	if c.HasServer() {
		f["server_budget"] = *c.ServerBudget
		f["server_period"] = *c.ServerPeriod
	}
	return f
}

func taskFields(t *model.Task) logrus.Fields {
	return logrus.Fields{
		"task_name":    t.Name,
		"component_id": t.ComponentID,
		"task_type":    t.Type,
		"wcet":         t.WCET,
		"period":       t.Period,
		"deadline":     t.Deadline,
	}
}
