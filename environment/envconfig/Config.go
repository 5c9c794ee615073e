// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are YAML serializable.
package envconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	env "github.com/samuelfneumann/gomanip/environment"
	"github.com/samuelfneumann/gomanip/environment/manipulation/slide"
	"github.com/samuelfneumann/gomanip/simulation/planar"
	ts "github.com/samuelfneumann/gomanip/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	Slide EnvName = "Slide"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	Slide				Goal
type TaskName string

// Tasks available for configuration
const (
	Goal TaskName = "Goal"
)

// Config implements a specific configuration of a specific environment
// and specific task. Zero-valued numeric fields are replaced by the
// task's defaults when the environment is created.
type Config struct {
	Environment       EnvName          `yaml:"environment"`
	Task              TaskName         `yaml:"task"`
	RewardType        slide.RewardType `yaml:"rewardType"`
	GoalRegion        string           `yaml:"goalRegion"`
	DistanceThreshold float64          `yaml:"distanceThreshold"`
	GoalXYRange       float64          `yaml:"goalXYRange"`
	GoalXOffset       float64          `yaml:"goalXOffset"`
	ObjXYRange        float64          `yaml:"objXYRange"`
	EpisodeCutoff     uint             `yaml:"episodeCutoff"`
	Discount          float64          `yaml:"discount"`
}

// NewConfig returns a new environment Config with default task
// parameters
func NewConfig(envName EnvName, taskName TaskName, episodeCutoff uint,
	discount float64) Config {
	return Config{
		Environment:   envName,
		Task:          taskName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
	}
}

// FromFile reads a YAML Config from the file at path
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("fromFile: could not read config "+
			"file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("fromFile: could not parse config "+
			"file: %v", err)
	}
	return config, nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	switch c.Environment {
	case Slide:
		return c.createSlide(seed)
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

// createSlide is a factory for creating the Slide environment with
// default physical parameters, overridden by any parameters the Config
// sets explicitly
func (c Config) createSlide(seed uint64) (env.Environment, ts.TimeStep,
	error) {
	taskConfig := slide.NewConfig()

	if c.RewardType != "" {
		taskConfig.RewardType = c.RewardType
	}
	if c.DistanceThreshold != 0 {
		taskConfig.DistanceThreshold = c.DistanceThreshold
	}
	if c.GoalXYRange != 0 {
		taskConfig.GoalXYRange = c.GoalXYRange
	}
	if c.GoalXOffset != 0 {
		taskConfig.GoalXOffset = c.GoalXOffset
	}
	if c.ObjXYRange != 0 {
		taskConfig.ObjXYRange = c.ObjXYRange
	}

	region, err := slide.ParseGoalRegion(c.GoalRegion)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createSlide: %v", err)
	}
	taskConfig.GoalRegion = region

	var task *slide.Goal
	switch c.Task {
	case Goal:
		task, err = slide.NewGoal(taskConfig, seed)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("createSlide: %v", err)
		}

	default:
		return nil, ts.TimeStep{}, fmt.Errorf("createSlide: Slide "+
			"environment has no task %v", c.Task)
	}

	cutoff := int(c.EpisodeCutoff)
	if cutoff == 0 {
		cutoff = 50
	}
	discount := c.Discount
	if discount == 0 {
		discount = 0.99
	}

	return slide.New(task, planar.New(), discount, cutoff)
}
