package model

import "strconv"

var (
	ArchitectureHeader = []string{"core_id", "speed_factor", "scheduler"}
	BudgetHeader       = []string{"component_id", "scheduler", "budget", "period", "core_id", "priority", "server_budget", "server_period"}
	TaskHeader         = []string{"task_name", "wcet", "period", "component_id", "priority", "task_type", "deadline"}
)

func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v)
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// ArchitectureRows returns the core table including its header row.
func (s *System) ArchitectureRows() [][]string {
	rows := [][]string{ArchitectureHeader}
	for _, c := range s.Cores {
		rows = append(rows, []string{c.ID, FormatFloat(c.SpeedFactor), string(c.Scheduler)})
	}
	return rows
}

func (s *System) BudgetRows() [][]string {
	rows := [][]string{BudgetHeader}
	for _, c := range s.Components {
		rows = append(rows, []string{
			c.ID,
			string(c.Scheduler),
			FormatFloat(c.Budget),
			FormatFloat(c.Period),
			c.CoreID,
			formatOptionalInt(c.Priority),
			formatOptionalFloat(c.ServerBudget),
			formatOptionalFloat(c.ServerPeriod),
		})
	}
	return rows
}

func (s *System) TaskRows() [][]string {
	rows := [][]string{TaskHeader}
	for _, t := range s.Tasks {
		rows = append(rows, []string{
			t.Name,
			FormatFloat(t.WCET),
			FormatFloat(t.Period),
			t.ComponentID,
			formatOptionalInt(t.Priority),
			string(t.Type),
			FormatFloat(t.Deadline),
		})
	}
	return rows
}
