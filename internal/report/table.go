// Package report renders configuration and generation summaries for the console.
package report

import (
	"strconv"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func render(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...).
		Render()
}

func formatRange(r config.Range) string {
	return "(" + model.FormatFloat(r.Min) + ", " + model.FormatFloat(r.Max) + ")"
}

// ConfigTable lists the effective generation parameters.
func ConfigTable(cfg *config.Config) string {
	g := cfg.Generator
	seed := "random"
	if g.Seed != nil {
		seed = strconv.FormatInt(*g.Seed, 10)
	}

	rows := [][]string{
		{"Test case", cfg.TestCase.Name},
		{"Output directory", cfg.TestCase.Output.Dir},
		{"Number of cores", strconv.Itoa(g.NumCores)},
		{"Number of components", strconv.Itoa(g.NumComponents)},
		{"Number of tasks", strconv.Itoa(g.NumTasks)},
		{"Utilization", model.FormatFloat(g.Utilization) + "%"},
		{"Speed factor range", formatRange(g.SpeedFactorRange)},
		{"Schedulable", strconv.FormatBool(!g.Unschedulable)},
		{"Seed", seed},
		{"Sporadic task ratio", model.FormatFloat(g.SporadicRatio)},
		{"Sporadic deadline factor range", formatRange(g.SporadicDeadlineRange)},
		{"Server period range", formatRange(g.ServerPeriodRange)},
		{"Server budget factor range", formatRange(g.ServerBudgetFactorRange)},
		{"Component period range", formatRange(g.ComponentPeriodRange)},
		{"Task period range", formatRange(g.TaskPeriodRange)},
		{"Sporadic period range", formatRange(g.SporadicPeriodRange)},
		{"Harmonic ratio", model.FormatFloat(g.HarmonicRatio)},
		{"Granularity", model.FormatFloat(g.Granularity)},
	}
	if g.Unschedulable {
		rows = append(rows, []string{"Inflation factor", model.FormatFloat(g.InflationFactor)})
	}
	return render([]string{"Parameter", "Value"}, rows)
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// CoreTable shows every core's load around the adjustment pass.
func CoreTable(result *generator.Result) string {
	rows := make([][]string, 0, len(result.Report.Cores))
	for i, c := range result.Report.Cores {
		core := result.System.Cores[i]
		rows = append(rows, []string{
			c.CoreID,
			string(core.Scheduler),
			model.FormatFloat(core.SpeedFactor),
			strconv.Itoa(len(result.System.ComponentsOn(core.ID))),
			ratio(c.LoadBefore),
			ratio(c.LoadAfter),
		})
	}
	return render([]string{"Core", "Scheduler", "Speed", "Components", "Load before", "Load after"}, rows)
}

// SummaryTable shows per component bandwidth, task mix and demand against
// capacity. The inflated component is marked.
func SummaryTable(result *generator.Result) string {
	sys := result.System
	violated := map[string]bool{}
	for _, id := range result.Report.Violations() {
		violated[id] = true
	}
	rows := make([][]string, 0, len(sys.Components))
	for i, c := range sys.Components {
		periodic, sporadic := 0, 0
		for _, t := range sys.TasksOf(c.ID) {
			if sys.Tasks[t].Type == model.Sporadic {
				sporadic++
			} else {
				periodic++
			}
		}
		server := "-"
		if c.HasServer() {
			server = model.FormatFloat(*c.ServerBudget) + "/" + model.FormatFloat(*c.ServerPeriod)
		}
		adj := result.Report.Components[i]
		status := "ok"
		if violated[c.ID] {
			status = "overloaded"
		}
		if c.ID == result.Report.InflatedComponent {
			status = "inflated"
		}
		rows = append(rows, []string{
			c.ID,
			c.CoreID,
			string(c.Scheduler),
			model.FormatFloat(c.Budget) + "/" + model.FormatFloat(c.Period),
			server,
			strconv.Itoa(periodic),
			strconv.Itoa(sporadic),
			ratio(adj.Capacity),
			ratio(adj.DemandBefore),
			ratio(adj.DemandAfter),
			status,
		})
	}
	return render([]string{
		"Component", "Core", "Scheduler", "Budget/Period", "Server",
		"Periodic", "Sporadic", "Capacity", "Demand before", "Demand after", "Status",
	}, rows)
}
