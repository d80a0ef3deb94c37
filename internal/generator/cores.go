package generator

import (
	"fmt"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"
	"taskset-gen/internal/partition"
	"taskset-gen/internal/randstream"
)

const minSpeedFactor = 0.01

// BuildCores creates the cores and splits the target utilization across them.
// Schedulers alternate EDF, RM, EDF, ... by core index.
func BuildCores(cfg *config.GeneratorConfig, s *randstream.Stream) ([]model.Core, []float64, error) {
	logger := logging.GetGeneratorLogger()

	cores := make([]model.Core, cfg.NumCores)
	for i := range cores {
		sf := roundTo(s.Uniform(cfg.SpeedFactorRange.Min, cfg.SpeedFactorRange.Max), 2)
		if sf < minSpeedFactor {
			sf = minSpeedFactor
		}
		scheduler := model.EDF
		if i%2 == 1 {
			scheduler = model.RM
		}
		cores[i] = model.Core{ID: coreID(i), SpeedFactor: sf, Scheduler: scheduler}
	}

	shares, err := partition.UUnifast(s, cfg.TotalUtilization(), cfg.NumCores)
	if err != nil {
		return nil, nil, fmt.Errorf("cores: %w", err)
	}

	for i, c := range cores {
		logger.WithFields(coreFields(c, shares[i])).Debug("Core created")
	}
	return cores, shares, nil
}
