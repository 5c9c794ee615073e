// Package slide implements the Slide environment. A cylindrical object
// rests on a table, and each episode a target resting position is
// sampled for it. The agent pushes the object with planar forces and
// is rewarded for bringing it to rest at the target.
package slide

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gomanip/environment"
	"github.com/samuelfneumann/gomanip/simulation"
	ts "github.com/samuelfneumann/gomanip/timestep"
	"github.com/samuelfneumann/gomanip/utils/matutils"
)

const (
	// ActionDims is the dimensionality of actions: a planar (x, y)
	// push force applied to the object's centre
	ActionDims int = 2

	// MaxForce bounds each component of the push force, in Newtons
	MaxForce float64 = 10.0
	MinForce float64 = -MaxForce

	// StateObservations is the length of the observation vector
	// returned in each TimeStep: the task observation followed by the
	// achieved goal and the desired goal
	StateObservations int = TaskObservations + 2*GoalDims
)

// slideEnv composes a simulation and a registered Goal task into an
// environment. Actions are clipped to their legal bounds before being
// applied.
type slideEnv struct {
	*Goal
	sim simulation.Simulation

	ender        environment.Ender
	discount     float64
	actionBounds r1.Interval

	currentTimeStep ts.TimeStep
}

// compile-time check
var _ environment.Environment = (*slideEnv)(nil)

// New returns a new Slide environment running the argument task in the
// argument simulation. The task is registered with the simulation,
// which creates the scene, and the environment is reset so that it is
// ready to use.
func New(task *Goal, sim simulation.Simulation, discount float64,
	cutoff int) (environment.Environment, ts.TimeStep, error) {
	if task == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newSlide: task cannot be nil")
	}
	if sim == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newSlide: simulation cannot " +
			"be nil")
	}
	if cutoff <= 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newSlide: episode cutoff "+
			"should be positive, got %v", cutoff)
	}

	if err := task.register(sim); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newSlide: %v", err)
	}

	env := &slideEnv{
		Goal:         task,
		sim:          sim,
		ender:        environment.NewStepLimit(cutoff),
		discount:     discount,
		actionBounds: r1.Interval{Min: MinForce, Max: MaxForce},
	}

	firstStep, err := env.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newSlide: %v", err)
	}

	return env, firstStep, nil
}

// Reset resets the environment to begin a new episode. A new goal and
// a new object starting position are sampled by the task.
func (s *slideEnv) Reset() (ts.TimeStep, error) {
	if err := s.Goal.Reset(); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}

	obs, err := s.observation()
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: could not get starting "+
			"state observation: %v", err)
	}

	firstStep := ts.New(ts.First, 0, s.discount, obs, 0)
	s.currentTimeStep = firstStep

	return firstStep, nil
}

// Step takes one environmental step given some action, which is the
// planar force to push the object with
func (s *slideEnv) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be "+
			"%v-dimensional push forces, got %v dimensions", ActionDims,
			action.Len())
	}

	force := mat.VecDenseCopyOf(action)
	matutils.VecClip(force, s.actionBounds.Min, s.actionBounds.Max)

	if err := s.sim.ApplyForce(objectName, force); err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	s.sim.Step()

	achieved, err := s.GetAchievedGoal()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: %v", err)
	}
	reward := s.ComputeReward(achieved, s.GetDesiredGoal())

	obs, err := s.observation()
	if err != nil {
		return ts.TimeStep{}, true, fmt.Errorf("step: could not get next "+
			"state observation: %v", err)
	}

	t := ts.New(ts.Mid, reward, s.discount, obs,
		s.currentTimeStep.Number+1)
	done := s.ender.End(&t)
	s.currentTimeStep = t

	return t, done, nil
}

// CurrentTimeStep returns the current time step
func (s *slideEnv) CurrentTimeStep() ts.TimeStep {
	return s.currentTimeStep
}

// observation assembles the environment observation: the task's view
// of the object followed by the achieved and desired goals
func (s *slideEnv) observation() (*mat.VecDense, error) {
	taskObs, err := s.GetObs()
	if err != nil {
		return nil, fmt.Errorf("observation: %v", err)
	}
	achieved, err := s.GetAchievedGoal()
	if err != nil {
		return nil, fmt.Errorf("observation: %v", err)
	}
	desired := s.GetDesiredGoal()

	obs := make([]float64, 0, StateObservations)
	obs = append(obs, taskObs.RawVector().Data...)
	obs = append(obs, achieved.RawVector().Data...)
	obs = append(obs, desired.RawVector().Data...)

	return mat.NewVecDense(StateObservations, obs), nil
}

// ObservationSpec returns the observation specification of the
// environment
func (s *slideEnv) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(StateObservations, nil)

	low := mat.NewVecDense(StateObservations, nil)
	high := mat.NewVecDense(StateObservations, nil)
	for i := 0; i < low.Len(); i++ {
		low.SetVec(i, math.Inf(-1))
		high.SetVec(i, math.Inf(1))
	}

	return environment.NewSpec(shape, environment.Observation, low, high,
		environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (s *slideEnv) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)

	low := mat.NewVecDense(ActionDims, []float64{MinForce, MinForce})
	high := mat.NewVecDense(ActionDims, []float64{MaxForce, MaxForce})

	return environment.NewSpec(shape, environment.Action, low, high,
		environment.Continuous)
}

// GoalSpec returns the specification of achieved and desired goals.
// Goal bounds follow the task's goal sampling region.
func (s *slideEnv) GoalSpec() environment.Spec {
	bounds := s.Goal.goalStarter.Bounds()

	shape := mat.NewVecDense(GoalDims, nil)
	low := mat.NewVecDense(GoalDims, nil)
	high := mat.NewVecDense(GoalDims, nil)
	for i, bound := range bounds {
		low.SetVec(i, bound.Min)
		high.SetVec(i, bound.Max)
	}

	// Goals rest on the table top
	low.SetVec(2, low.AtVec(2)+ObjectSize/2.0)
	high.SetVec(2, high.AtVec(2)+ObjectSize/2.0)

	return environment.NewSpec(shape, environment.Goal, low, high,
		environment.Continuous)
}

// RewardSpec returns the reward specification of the environment
func (s *slideEnv) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)

	var low *mat.VecDense
	if s.Goal.Config().RewardType == Sparse {
		low = mat.NewVecDense(1, []float64{-1.0})
	} else {
		low = mat.NewVecDense(1, []float64{math.Inf(-1)})
	}
	high := mat.NewVecDense(1, []float64{0.0})

	return environment.NewSpec(shape, environment.Reward, low, high,
		environment.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (s *slideEnv) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{s.discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// String returns a string representation of the environment
func (s *slideEnv) String() string {
	str := "Slide  |  Goal Region: %v  |  Reward Type: %v"
	config := s.Goal.Config()
	return fmt.Sprintf(str, config.GoalRegion, config.RewardType)
}
