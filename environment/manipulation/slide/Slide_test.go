package slide_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/environment"
	"github.com/samuelfneumann/gomanip/environment/manipulation/slide"
	"github.com/samuelfneumann/gomanip/simulation/planar"
	ts "github.com/samuelfneumann/gomanip/timestep"
)

func newEnv(t *testing.T, config slide.Config,
	seed uint64) (environment.Environment, *slide.Goal, ts.TimeStep) {
	task := newTask(t, config, seed)

	env, step, err := slide.New(task, planar.New(), 0.99, 50)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return env, task, step
}

func TestObservationLengths(t *testing.T) {
	env, task, first := newEnv(t, slide.NewConfig(), 123)

	if first.Observation.Len() != slide.StateObservations {
		t.Errorf("first observation length %v, want %v",
			first.Observation.Len(), slide.StateObservations)
	}

	obs, err := task.GetObs()
	if err != nil {
		t.Fatalf("getObs: %v", err)
	}
	if obs.Len() != slide.TaskObservations {
		t.Errorf("task observation length %v, want %v", obs.Len(),
			slide.TaskObservations)
	}

	achieved, err := task.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}
	if achieved.Len() != slide.GoalDims {
		t.Errorf("achieved goal length %v, want %v", achieved.Len(),
			slide.GoalDims)
	}

	if desired := env.GetDesiredGoal(); desired.Len() != slide.GoalDims {
		t.Errorf("desired goal length %v, want %v", desired.Len(),
			slide.GoalDims)
	}
}

func TestResetWritesPoses(t *testing.T) {
	env, task, _ := newEnv(t, slide.NewConfig(), 456)

	for i := 0; i < 10; i++ {
		if _, err := env.Reset(); err != nil {
			t.Fatalf("reset: %v", err)
		}

		// The object starts where the task placed it, resting on the
		// table with identity orientation
		achieved, err := task.GetAchievedGoal()
		if err != nil {
			t.Fatalf("getAchievedGoal: %v", err)
		}
		if z := achieved.AtVec(2); z != slide.ObjectSize/2 {
			t.Errorf("object z after reset = %v, want %v", z,
				slide.ObjectSize/2)
		}

		obs, err := task.GetObs()
		if err != nil {
			t.Fatalf("getObs: %v", err)
		}
		identity := mat.NewVecDense(4, []float64{0, 0, 0, 1})
		quat := obs.SliceVec(3, 7)
		if !mat.EqualApprox(quat, identity, tolerance) {
			t.Errorf("object orientation after reset = %v, want identity",
				mat.Formatted(quat.T()))
		}

		// The desired goal matches the ghost target's pose
		desired := env.GetDesiredGoal()
		if z := desired.AtVec(2); z != slide.ObjectSize/2 {
			t.Errorf("goal z after reset = %v, want %v", z,
				slide.ObjectSize/2)
		}
	}
}

func TestStepEpisodeLoop(t *testing.T) {
	env, _, first := newEnv(t, slide.NewConfig(), 789)

	if !first.First() {
		t.Error("environment should start at a First timestep")
	}

	step := first
	done := false
	steps := 0
	for !done {
		var err error
		step, done, err = env.Step(mat.NewVecDense(slide.ActionDims,
			[]float64{slide.MaxForce, 0.0}))
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		steps++

		if step.Reward != 0.0 && step.Reward != -1.0 {
			t.Fatalf("sparse reward = %v, want -1 or 0", step.Reward)
		}
		if steps > 50 {
			t.Fatal("episode did not end at the step limit")
		}
	}

	if steps != 50 {
		t.Errorf("episode ended after %v steps, want 50", steps)
	}
	if !step.Last() {
		t.Error("final timestep should be Last")
	}

	// The object never leaves the table plane
	achieved, err := env.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}
	if achieved.AtVec(2) != slide.ObjectSize/2 {
		t.Errorf("object z after pushing = %v, want %v",
			achieved.AtVec(2), slide.ObjectSize/2)
	}
}

func TestPushMovesObject(t *testing.T) {
	env, task, _ := newEnv(t, slide.NewConfig(), 321)

	before, err := task.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, _, err := env.Step(mat.NewVecDense(slide.ActionDims,
			[]float64{slide.MaxForce, 0.0})); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	after, err := task.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}

	if after.AtVec(0) <= before.AtVec(0) {
		t.Errorf("pushing along +x did not move the object along +x: "+
			"%v -> %v", before.AtVec(0), after.AtVec(0))
	}
}

// Forces beyond the legal bounds are clipped before being applied, so
// an oversized push moves the object exactly as far as a maximal one
func TestStepClipsActions(t *testing.T) {
	clipped, clippedTask, _ := newEnv(t, slide.NewConfig(), 135)
	maximal, maximalTask, _ := newEnv(t, slide.NewConfig(), 135)

	for i := 0; i < 5; i++ {
		if _, _, err := clipped.Step(mat.NewVecDense(slide.ActionDims,
			[]float64{1e6, -1e6})); err != nil {
			t.Fatalf("step: %v", err)
		}
		if _, _, err := maximal.Step(mat.NewVecDense(slide.ActionDims,
			[]float64{slide.MaxForce, slide.MinForce})); err != nil {
			t.Fatalf("step: %v", err)
		}
	}

	a, err := clippedTask.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}
	b, err := maximalTask.GetAchievedGoal()
	if err != nil {
		t.Fatalf("getAchievedGoal: %v", err)
	}

	if !mat.EqualApprox(a, b, tolerance) {
		t.Errorf("oversized push moved the object to %v, maximal push to "+
			"%v", mat.Formatted(a.T()), mat.Formatted(b.T()))
	}
}

func TestSpecs(t *testing.T) {
	env, _, _ := newEnv(t, slide.NewConfig(), 654)

	if n := env.ObservationSpec().Shape.Len(); n != slide.StateObservations {
		t.Errorf("observation spec length %v, want %v", n,
			slide.StateObservations)
	}
	if n := env.ActionSpec().Shape.Len(); n != slide.ActionDims {
		t.Errorf("action spec length %v, want %v", n, slide.ActionDims)
	}
	if n := env.GoalSpec().Shape.Len(); n != slide.GoalDims {
		t.Errorf("goal spec length %v, want %v", n, slide.GoalDims)
	}

	reward := env.RewardSpec()
	if low := reward.LowerBound.AtVec(0); low != -1.0 {
		t.Errorf("sparse reward lower bound %v, want -1", low)
	}
	if high := reward.UpperBound.AtVec(0); high != 0.0 {
		t.Errorf("reward upper bound %v, want 0", high)
	}
}

func TestBadActionDims(t *testing.T) {
	env, _, _ := newEnv(t, slide.NewConfig(), 987)

	if _, _, err := env.Step(mat.NewVecDense(3, nil)); err == nil {
		t.Error("step accepted a 3-dimensional action")
	}
}
