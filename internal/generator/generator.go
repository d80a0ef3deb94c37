// Package generator builds hierarchical real-time tasksets: cores host
// components through a periodic resource interface, components host periodic
// tasks and sporadic tasks behind a polling server.
//
// Every random decision is drawn from the supplied stream in a fixed order,
// so a seed and a configuration reproduce an instance exactly.
package generator

import (
	"fmt"

	"taskset-gen/internal/config"
	"taskset-gen/internal/logging"
	"taskset-gen/internal/model"
	"taskset-gen/internal/randstream"

	"github.com/sirupsen/logrus"
)

type Result struct {
	System *model.System     `json:"system"`
	Report *AdjustmentReport `json:"report"`
}

// Generate runs the pipeline on a validated configuration.
func Generate(cfg *config.GeneratorConfig, s *randstream.Stream) (*Result, error) {
	logger := logging.GetGeneratorLogger()

	cores, coreShares, err := BuildCores(cfg, s)
	if err != nil {
		return nil, err
	}

	comps, compShares, err := BuildComponents(cfg, s, cores, coreShares)
	if err != nil {
		return nil, err
	}

	counts := DistributeTasks(compShares, cfg.NumTasks)
	sporadic := ClassifySporadic(counts, cfg.SporadicRatio)
	logger.WithFields(logrus.Fields{
		"task_counts":     counts,
		"sporadic_counts": sporadic,
	}).Debug("Tasks distributed")

	DeriveServers(cfg, s, comps, counts, sporadic)

	tasks, err := BuildTasks(cfg, s, cores, comps, counts, sporadic)
	if err != nil {
		return nil, fmt.Errorf("tasks: %w", err)
	}

	sys := &model.System{Cores: cores, Components: comps, Tasks: tasks}
	report := Adjust(cfg, s, sys)

	logger.WithFields(logrus.Fields{
		"seed":       s.Seed(),
		"cores":      len(sys.Cores),
		"components": len(sys.Components),
		"tasks":      len(sys.Tasks),
	}).Info("Taskset generated")
	return &Result{System: sys, Report: report}, nil
}

// NewStream returns the stream for cfg: seeded when a seed is configured,
// otherwise seeded from crypto/rand.
func NewStream(cfg *config.GeneratorConfig) (*randstream.Stream, error) {
	if cfg.Seed != nil {
		return randstream.New(*cfg.Seed), nil
	}
	return randstream.NewUnseeded()
}
