package model

type Scheduler string

const (
	EDF Scheduler = "EDF"
	RM  Scheduler = "RM"
)

type TaskType string

const (
	Periodic TaskType = "periodic"
	Sporadic TaskType = "sporadic"
)

type Core struct {
	ID          string    `json:"id"`
	SpeedFactor float64   `json:"speed_factor"`
	Scheduler   Scheduler `json:"scheduler"`
}

// Component is a scheduling server hosted on a core. Budget and period are in
// the core's time base; Utilization is the raw demand it places on the core.
type Component struct {
	ID           string    `json:"id"`
	CoreID       string    `json:"core_id"`
	Scheduler    Scheduler `json:"scheduler"`
	Budget       float64   `json:"budget"`
	Period       float64   `json:"period"`
	Priority     *int      `json:"priority,omitempty"`
	Utilization  float64   `json:"utilization"`
	ServerBudget *float64  `json:"server_budget,omitempty"`
	ServerPeriod *float64  `json:"server_period,omitempty"`
}

func (c *Component) Bandwidth() float64 {
	return c.Budget / c.Period
}

// ServerBandwidth is zero when the component hosts no polling server.
func (c *Component) ServerBandwidth() float64 {
	if c.ServerBudget == nil || c.ServerPeriod == nil || *c.ServerPeriod <= 0 {
		return 0
	}
	return *c.ServerBudget / *c.ServerPeriod
}

func (c *Component) HasServer() bool {
	return c.ServerBudget != nil && c.ServerPeriod != nil
}

// Task periods double as the minimum inter-arrival time for sporadic tasks.
type Task struct {
	Name        string   `json:"name"`
	ComponentID string   `json:"component_id"`
	WCET        float64  `json:"wcet"`
	Period      float64  `json:"period"`
	Deadline    float64  `json:"deadline"`
	Type        TaskType `json:"type"`
	Priority    *int     `json:"priority,omitempty"`
}

func (t *Task) Utilization() float64 {
	return t.WCET / t.Period
}

type System struct {
	Cores      []Core      `json:"cores"`
	Components []Component `json:"components"`
	Tasks      []Task      `json:"tasks"`
}

// TasksOf returns the indices into Tasks of the component's tasks.
func (s *System) TasksOf(componentID string) []int {
	var idx []int
	for i := range s.Tasks {
		if s.Tasks[i].ComponentID == componentID {
			idx = append(idx, i)
		}
	}
	return idx
}

// ComponentsOn returns the indices into Components hosted by the core.
func (s *System) ComponentsOn(coreID string) []int {
	var idx []int
	for i := range s.Components {
		if s.Components[i].CoreID == coreID {
			idx = append(idx, i)
		}
	}
	return idx
}

func (s *System) Core(id string) *Core {
	for i := range s.Cores {
		if s.Cores[i].ID == id {
			return &s.Cores[i]
		}
	}
	return nil
}

func (s *System) Component(id string) *Component {
	for i := range s.Components {
		if s.Components[i].ID == id {
			return &s.Components[i]
		}
	}
	return nil
}

func IntPtr(v int) *int {
	return &v
}

func FloatPtr(v float64) *float64 {
	return &v
}
