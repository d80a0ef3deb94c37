package database

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"taskset-gen/internal/config"
	"taskset-gen/internal/generator"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/sirupsen/logrus"
)

const (
	MeasurementInstance  = "taskset_instance"
	MeasurementComponent = "taskset_component"
	MeasurementTask      = "taskset_task"
)

// InstanceMetadata identifies a published instance and where it was generated.
type InstanceMetadata struct {
	TestCase         string `json:"test_case"`
	Checksum         string `json:"checksum"`
	Seed             uint64 `json:"seed"`
	GeneratorVersion string `json:"generator_version"`
	Hostname         string `json:"hostname"`
	OSInfo           string `json:"os_info"`
}

// CollectInstanceMetadata fills in host information for an instance.
func CollectInstanceMetadata(cfg *config.Config, seed uint64, version string) (*InstanceMetadata, error) {
	checksum, err := config.Checksum(&cfg.Generator)
	if err != nil {
		return nil, fmt.Errorf("failed to compute config checksum: %w", err)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &InstanceMetadata{
		TestCase:         cfg.TestCase.Name,
		Checksum:         checksum,
		Seed:             seed,
		GeneratorVersion: version,
		Hostname:         hostname,
		OSInfo:           runtime.GOOS + "/" + runtime.GOARCH,
	}, nil
}

type InfluxDBClient struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewInfluxDBClient(ctx context.Context, config config.DatabaseConfig) (*InfluxDBClient, error) {
	logger := logging.GetLogger()

	client := influxdb2.NewClient(config.Host, config.Password)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		logger.WithField("host", config.Host).WithError(err).Error("Failed to connect to InfluxDB")
		client.Close()
		return nil, err
	}

	if health.Status != "pass" {
		message := ""
		if health.Message != nil {
			message = *health.Message
		}
		logger.WithFields(logrus.Fields{
			"host":    config.Host,
			"status":  health.Status,
			"message": message,
		}).Error("InfluxDB health check failed")
		client.Close()
		return nil, fmt.Errorf("influxdb health check failed: %s %s", health.Status, message)
	}

	logger.WithFields(logrus.Fields{
		"host":   config.Host,
		"bucket": config.Name,
		"org":    config.Org,
	}).Info("Connected to InfluxDB")

	return &InfluxDBClient{
		client:   client,
		writeAPI: client.WriteAPIBlocking(config.Org, config.Name),
		bucket:   config.Name,
		org:      config.Org,
	}, nil
}

// WriteInstance publishes one instance point, one point per component and one
// per task.
func (idb *InfluxDBClient) WriteInstance(ctx context.Context, meta *InstanceMetadata, result *generator.Result) error {
	points := BuildInstancePoints(meta, result, time.Now())
	if len(points) == 0 {
		return nil
	}
	if err := idb.writeAPI.WritePoint(ctx, points...); err != nil {
		return fmt.Errorf("failed to write instance points: %w", err)
	}

	logging.GetLogger().WithFields(logrus.Fields{
		"bucket":    idb.bucket,
		"test_case": meta.TestCase,
		"points":    len(points),
	}).Info("Instance published")
	return nil
}

// BuildInstancePoints converts an instance into line protocol points that all
// share the test case, checksum and seed tags.
func BuildInstancePoints(meta *InstanceMetadata, result *generator.Result, ts time.Time) []*write.Point {
	if meta == nil || result == nil || result.System == nil {
		return nil
	}
	sys := result.System
	report := result.Report

	baseTags := func() map[string]string {
		return map[string]string{
			"test_case": meta.TestCase,
			"checksum":  meta.Checksum,
			"seed":      strconv.FormatUint(meta.Seed, 10),
		}
	}

	instanceFields := map[string]interface{}{
		"num_cores":         len(sys.Cores),
		"num_components":    len(sys.Components),
		"num_tasks":         len(sys.Tasks),
		"generator_version": meta.GeneratorVersion,
		"hostname":          meta.Hostname,
		"os_info":           meta.OSInfo,
	}
	instanceTags := baseTags()
	if report != nil {
		instanceTags["mode"] = report.Mode
		instanceFields["violations"] = len(report.Violations())
		if report.InflatedComponent != "" {
			instanceFields["inflated_component"] = report.InflatedComponent
			instanceFields["inflation_factor"] = report.InflationFactor
		}
	}

	points := []*write.Point{influxdb2.NewPoint(MeasurementInstance, instanceTags, instanceFields, ts)}

	speed := make(map[string]float64, len(sys.Cores))
	for _, c := range sys.Cores {
		speed[c.ID] = c.SpeedFactor
	}

	for i, c := range sys.Components {
		tags := baseTags()
		tags["component_id"] = c.ID
		tags["core_id"] = c.CoreID
		tags["scheduler"] = string(c.Scheduler)

		fields := map[string]interface{}{
			"budget":       c.Budget,
			"period":       c.Period,
			"bandwidth":    c.Bandwidth(),
			"utilization":  c.Utilization,
			"speed_factor": speed[c.CoreID],
		}
		if c.Priority != nil {
			fields["priority"] = *c.Priority
		}
		if c.HasServer() {
			fields["server_budget"] = *c.ServerBudget
			fields["server_period"] = *c.ServerPeriod
		}
		if report != nil && i < len(report.Components) {
			fields["capacity"] = report.Components[i].Capacity
			fields["demand_before"] = report.Components[i].DemandBefore
			fields["demand_after"] = report.Components[i].DemandAfter
		}
		points = append(points, influxdb2.NewPoint(MeasurementComponent, tags, fields, ts))
	}

	for _, t := range sys.Tasks {
		points = append(points, taskPoint(baseTags(), &t, ts))
	}
	return points
}

func taskPoint(tags map[string]string, t *model.Task, ts time.Time) *write.Point {
	tags["task_name"] = t.Name
	tags["component_id"] = t.ComponentID
	tags["task_type"] = string(t.Type)

	fields := map[string]interface{}{
		"wcet":        t.WCET,
		"period":      t.Period,
		"deadline":    t.Deadline,
		"utilization": t.Utilization(),
	}
	if t.Priority != nil {
		fields["priority"] = *t.Priority
	}
	return influxdb2.NewPoint(MeasurementTask, tags, fields, ts)
}

func (idb *InfluxDBClient) Close() {
	idb.client.Close()
}
