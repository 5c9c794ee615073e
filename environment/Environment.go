// Package environment outlines the interfaces and structs needed to implement
// concrete goal-conditioned manipulation environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/timestep"
)

// Starter implements a distribution of starting values and samples
// values from that distribution
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode ends, modifying the final timestep
// accordingly
type Ender interface {
	End(*timestep.TimeStep) bool
}

// GoalConditioned is the goal-scoring surface shared by tasks and the
// environments that run them. The achieved and desired goals passed to
// IsSuccess and ComputeReward are (x, y, z) coordinates supplied by
// the environment or by an external consumer relabelling past
// experience.
type GoalConditioned interface {
	// GetObs returns the task's view of the simulated world
	GetObs() (*mat.VecDense, error)

	// GetAchievedGoal returns the goal position currently achieved by
	// the agent, as a copy
	GetAchievedGoal() (*mat.VecDense, error)

	// GetDesiredGoal returns the goal sampled for the current episode
	GetDesiredGoal() *mat.VecDense

	// IsSuccess returns whether the achieved goal is within the task's
	// success threshold of the desired goal
	IsSuccess(achieved, desired mat.Vector) bool

	// ComputeReward returns the reward for reaching the achieved goal
	// when the desired goal was wanted
	ComputeReward(achieved, desired mat.Vector) float64
}

// Task implements a goal-conditioned task in some environment. A Task
// samples a desired goal each episode and scores the agent's progress
// towards it.
type Task interface {
	GoalConditioned

	// Reset samples a new desired goal and new starting poses, writing
	// them into the simulation
	Reset() error
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	GoalConditioned
	Reset() (timestep.TimeStep, error)
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)
	CurrentTimeStep() timestep.TimeStep
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
	GoalSpec() Spec
}
