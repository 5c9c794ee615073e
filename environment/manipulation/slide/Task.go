package slide

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/environment"
	"github.com/samuelfneumann/gomanip/simulation"
	"github.com/samuelfneumann/gomanip/utils/matutils"
)

const (
	// ObjectSize is the height of the manipulated cylinder. Its radius
	// is half this value, and bodies resting on the table sit with
	// their centres at half the object height.
	ObjectSize float64 = 0.06

	// Named bodies owned by the physics backend
	objectName string = "object"
	targetName string = "target"

	// TaskObservations is the number of features returned by GetObs:
	// position (3), orientation quaternion (4), linear velocity (3),
	// and angular velocity (3) of the object
	TaskObservations int = 13

	// GoalDims is the dimensionality of achieved and desired goals
	GoalDims int = 3

	// MaskLen is the length of the composite state vector that the
	// achieved, goal, and object masks index into
	MaskLen int = 21
)

// Goal implements the Slide task: a cylindrical object must be slid
// across a table so that it comes to rest at a target position sampled
// at the start of each episode. The achieved goal is the object's
// current position, and the desired goal is the sampled target
// position.
//
// A Goal must be registered with an environment before its
// simulation-facing methods (GetObs, GetAchievedGoal, Reset) can be
// used. Registration creates the scene: a ground plane, a table, the
// friction-bearing object, and a non-colliding ghost marker showing
// the target position.
type Goal struct {
	config     Config
	sim        simulation.Simulation
	registered bool

	// Desired goal for the current episode, immutable between resets
	goal *mat.VecDense

	// Random number generation for goal and object placement. All
	// three starters draw from one shared stream so that the sampled
	// goal and object positions are independent of each other.
	seed          uint64
	goalStarter   environment.UniformStarter
	objectStarter environment.UniformStarter
	tableStarter  environment.UniformStarter

	// Masks marking which entries of a composite state vector hold the
	// achieved goal, the desired goal, and the object state. Consumed
	// by external orchestrators slicing composite states, never by the
	// task itself.
	achievedMask []bool
	goalMask     []bool
	objMask      []bool
}

// compile-time check
var _ environment.Task = (*Goal)(nil)

// NewGoal returns a new Slide task with the given configuration. The
// task's randomness is driven by seed.
func NewGoal(config Config, seed uint64) (*Goal, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newGoal: invalid configuration: %v", err)
	}

	achievedMask := make([]bool, MaskLen)
	goalMask := make([]bool, MaskLen)
	objMask := make([]bool, MaskLen)
	for i := 6; i <= 8; i++ {
		achievedMask[i] = true
	}
	for i := MaskLen - 3; i < MaskLen; i++ {
		goalMask[i] = true
	}
	for i := 6; i <= 17; i++ {
		objMask[i] = true
	}

	source := rand.NewSource(seed)

	return &Goal{
		config: config,
		seed:   seed,
		goalStarter: environment.NewUniformStarterFrom(config.goalBounds(),
			source),
		objectStarter: environment.NewUniformStarterFrom(
			config.objectBounds(), source),
		tableStarter: environment.NewUniformStarterFrom(config.tableBounds(),
			source),
		achievedMask: achievedMask,
		goalMask:     goalMask,
		objMask:      objMask,
	}, nil
}

// register gives the task access to a simulation and creates the scene
// in it. Scene creation is hidden from view so that placing the bodies
// does not flicker in renders.
func (g *Goal) register(sim simulation.Simulation) error {
	if g.registered {
		return fmt.Errorf("register: task already registered")
	}
	g.sim = sim

	var err error
	sim.NoRendering(func() {
		if err = g.createScene(); err != nil {
			return
		}
		sim.PlaceVisualizer(mat.NewVecDense(3, nil), 0.9, 45.0, -30.0)
	})
	if err != nil {
		return fmt.Errorf("register: could not create scene: %v", err)
	}

	g.registered = true
	return nil
}

// createScene creates the plane, table, object, and target marker
func (g *Goal) createScene() error {
	if err := g.sim.CreatePlane(simulation.PlaneConfig{
		ZOffset: -0.4,
	}); err != nil {
		return fmt.Errorf("createScene: %v", err)
	}

	if err := g.sim.CreateTable(simulation.TableConfig{
		Length:  1.4,
		Width:   0.7,
		Height:  0.4,
		XOffset: -0.1,
	}); err != nil {
		return fmt.Errorf("createScene: %v", err)
	}

	if err := g.sim.CreateCylinder(simulation.CylinderConfig{
		BodyName:        objectName,
		Mass:            1.0,
		Radius:          ObjectSize / 2.0,
		Height:          ObjectSize / 2.0,
		Position:        mat.NewVecDense(3, []float64{0.0, 0.0, ObjectSize / 2.0}),
		RGBAColor:       [4]float64{0.1, 0.9, 0.1, 1.0},
		LateralFriction: 0.04,
	}); err != nil {
		return fmt.Errorf("createScene: %v", err)
	}

	if err := g.sim.CreateCylinder(simulation.CylinderConfig{
		BodyName:  targetName,
		Mass:      0.0,
		Ghost:     true,
		Radius:    ObjectSize / 2.0,
		Height:    ObjectSize / 2.0,
		Position:  mat.NewVecDense(3, []float64{0.0, 0.0, ObjectSize / 2.0}),
		RGBAColor: [4]float64{0.1, 0.9, 0.1, 0.3},
	}); err != nil {
		return fmt.Errorf("createScene: %v", err)
	}

	return nil
}

// GetObs returns the task's view of the simulated world: the position,
// orientation, linear velocity, and angular velocity of the object,
// concatenated in that order
func (g *Goal) GetObs() (*mat.VecDense, error) {
	if !g.registered {
		return nil, fmt.Errorf("getObs: task not registered with an " +
			"environment")
	}

	position, err := g.sim.BasePosition(objectName)
	if err != nil {
		return nil, fmt.Errorf("getObs: %v", err)
	}
	rotation, err := g.sim.BaseRotation(objectName)
	if err != nil {
		return nil, fmt.Errorf("getObs: %v", err)
	}
	velocity, err := g.sim.BaseVelocity(objectName)
	if err != nil {
		return nil, fmt.Errorf("getObs: %v", err)
	}
	angularVelocity, err := g.sim.BaseAngularVelocity(objectName)
	if err != nil {
		return nil, fmt.Errorf("getObs: %v", err)
	}

	obs := make([]float64, 0, TaskObservations)
	obs = append(obs, position.RawVector().Data...)
	obs = append(obs, rotation.RawVector().Data...)
	obs = append(obs, velocity.RawVector().Data...)
	obs = append(obs, angularVelocity.RawVector().Data...)

	return mat.NewVecDense(TaskObservations, obs), nil
}

// GetAchievedGoal returns a copy of the object's current position
func (g *Goal) GetAchievedGoal() (*mat.VecDense, error) {
	if !g.registered {
		return nil, fmt.Errorf("getAchievedGoal: task not registered " +
			"with an environment")
	}

	position, err := g.sim.BasePosition(objectName)
	if err != nil {
		return nil, fmt.Errorf("getAchievedGoal: %v", err)
	}
	return mat.VecDenseCopyOf(position), nil
}

// GetDesiredGoal returns a copy of the goal sampled for the current
// episode
func (g *Goal) GetDesiredGoal() *mat.VecDense {
	if g.goal == nil {
		return mat.NewVecDense(GoalDims, nil)
	}
	return mat.VecDenseCopyOf(g.goal)
}

// Reset samples a new goal and a new object starting position, writing
// both into the simulation with identity orientations
func (g *Goal) Reset() error {
	if !g.registered {
		return fmt.Errorf("reset: task not registered with an environment")
	}

	g.goal = g.SampleGoal()
	objectPosition := g.SampleObjectPosition()

	identity := mat.NewVecDense(4, []float64{0.0, 0.0, 0.0, 1.0})
	if err := g.sim.SetBasePose(targetName, g.goal,
		identity); err != nil {
		return fmt.Errorf("reset: %v", err)
	}
	if err := g.sim.SetBasePose(objectName, objectPosition,
		identity); err != nil {
		return fmt.Errorf("reset: %v", err)
	}

	return nil
}

// SampleGoal samples a single episode goal. The goal rests on the
// table, so its z coordinate is always half the object height.
func (g *Goal) SampleGoal() *mat.VecDense {
	goals := g.SampleGoals(1)
	return mat.VecDenseCopyOf(goals.RowView(0))
}

// SampleGoals samples n independent goals, one per row of the returned
// matrix
func (g *Goal) SampleGoals(n int) *mat.Dense {
	goals := g.goalStarter.StartN(n)
	for i := 0; i < n; i++ {
		goals.Set(i, 2, goals.At(i, 2)+ObjectSize/2.0)
	}
	return goals
}

// SampleObjectPosition samples a single starting position for the
// object. The object rests on the table, so its z coordinate is always
// half the object height.
func (g *Goal) SampleObjectPosition() *mat.VecDense {
	position := g.objectStarter.Start()
	position.SetVec(2, position.AtVec(2)+ObjectSize/2.0)
	return position
}

// SampleObjectPositions samples n independent object positions. Unlike
// SampleObjectPosition, positions are drawn from the wider table
// range, covering the whole working surface. Used by multi-object
// variants of the task.
func (g *Goal) SampleObjectPositions(n int) *mat.Dense {
	positions := g.tableStarter.StartN(n)
	for i := 0; i < n; i++ {
		positions.Set(i, 2, ObjectSize/2.0)
	}
	return positions
}

// IsSuccess returns whether the achieved goal is strictly within the
// distance threshold of the desired goal
func (g *Goal) IsSuccess(achieved, desired mat.Vector) bool {
	return matutils.Distance(achieved, desired) < g.config.DistanceThreshold
}

// IsSuccessBatch is the batch form of IsSuccess: rows of achieved are
// compared against the corresponding rows of desired
func (g *Goal) IsSuccessBatch(achieved, desired mat.Matrix) []bool {
	rows, _ := achieved.Dims()
	successes := make([]bool, rows)
	for i := 0; i < rows; i++ {
		successes[i] = g.IsSuccess(rowOf(achieved, i), rowOf(desired, i))
	}
	return successes
}

// ComputeReward returns the reward for reaching the achieved goal when
// the desired goal was wanted. Sparse rewards are -1 when the achieved
// goal is farther than the distance threshold from the desired goal
// and 0 otherwise. Dense rewards are the negated distance between the
// achieved and desired goals.
func (g *Goal) ComputeReward(achieved, desired mat.Vector) float64 {
	d := matutils.Distance(achieved, desired)

	if g.config.RewardType == Sparse {
		if d > g.config.DistanceThreshold {
			return -1.0
		}
		return 0.0
	}
	return -d
}

// ComputeRewardBatch is the batch form of ComputeReward: rows of
// achieved are compared against the corresponding rows of desired
func (g *Goal) ComputeRewardBatch(achieved, desired mat.Matrix) []float64 {
	rows, _ := achieved.Dims()
	rewards := make([]float64, rows)
	for i := 0; i < rows; i++ {
		rewards[i] = g.ComputeReward(rowOf(achieved, i), rowOf(desired, i))
	}
	return rewards
}

// Seed replaces the task's source of randomness with one seeded by
// seed. The new source is shared by the goal and object samplers.
func (g *Goal) Seed(seed uint64) {
	g.seed = seed

	source := rand.NewSource(seed)
	g.goalStarter = environment.NewUniformStarterFrom(g.config.goalBounds(),
		source)
	g.objectStarter = environment.NewUniformStarterFrom(
		g.config.objectBounds(), source)
	g.tableStarter = environment.NewUniformStarterFrom(g.config.tableBounds(),
		source)
}

// Config returns the task's configuration
func (g *Goal) Config() Config {
	return g.config
}

// AchievedMask returns the mask marking the achieved-goal entries of a
// composite state vector
func (g *Goal) AchievedMask() []bool {
	return copyMask(g.achievedMask)
}

// GoalMask returns the mask marking the desired-goal entries of a
// composite state vector
func (g *Goal) GoalMask() []bool {
	return copyMask(g.goalMask)
}

// ObjectMask returns the mask marking the object-state entries of a
// composite state vector
func (g *Goal) ObjectMask() []bool {
	return copyMask(g.objMask)
}

func copyMask(mask []bool) []bool {
	out := make([]bool, len(mask))
	copy(out, mask)
	return out
}

// rowOf returns row i of m as a vector
func rowOf(m mat.Matrix, i int) mat.Vector {
	_, cols := m.Dims()
	row := mat.NewVecDense(cols, nil)
	for j := 0; j < cols; j++ {
		row.SetVec(j, m.At(i, j))
	}
	return row
}
