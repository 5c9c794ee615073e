package planar_test

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/simulation"
	"github.com/samuelfneumann/gomanip/simulation/planar"
)

// newScene builds the standard tabletop scene used by manipulation
// tasks
func newScene(t *testing.T) *planar.Planar {
	sim := planar.New()

	if err := sim.CreatePlane(simulation.PlaneConfig{
		ZOffset: -0.4,
	}); err != nil {
		t.Fatalf("createPlane: %v", err)
	}
	if err := sim.CreateTable(simulation.TableConfig{
		Length: 1.4, Width: 0.7, Height: 0.4, XOffset: -0.1,
	}); err != nil {
		t.Fatalf("createTable: %v", err)
	}
	if err := sim.CreateCylinder(simulation.CylinderConfig{
		BodyName:        "object",
		Mass:            1.0,
		Radius:          0.03,
		Height:          0.03,
		Position:        mat.NewVecDense(3, []float64{0, 0, 0.03}),
		RGBAColor:       [4]float64{0.1, 0.9, 0.1, 1.0},
		LateralFriction: 0.04,
	}); err != nil {
		t.Fatalf("createCylinder: %v", err)
	}
	if err := sim.CreateCylinder(simulation.CylinderConfig{
		BodyName:  "target",
		Mass:      0.0,
		Ghost:     true,
		Radius:    0.03,
		Height:    0.03,
		Position:  mat.NewVecDense(3, []float64{0, 0, 0.03}),
		RGBAColor: [4]float64{0.1, 0.9, 0.1, 0.3},
	}); err != nil {
		t.Fatalf("createCylinder: %v", err)
	}

	return sim
}

func TestDuplicateBodyName(t *testing.T) {
	sim := newScene(t)

	err := sim.CreateCylinder(simulation.CylinderConfig{
		BodyName: "object",
		Mass:     1.0,
		Radius:   0.03,
		Height:   0.03,
		Position: mat.NewVecDense(3, nil),
	})
	if err == nil {
		t.Error("creating a body with a duplicate name should fail")
	}
}

func TestUnknownBody(t *testing.T) {
	sim := newScene(t)

	if _, err := sim.BasePosition("missing"); err == nil {
		t.Error("basePosition of an unknown body should fail")
	}
	if err := sim.SetBasePose("missing", mat.NewVecDense(3, nil),
		mat.NewVecDense(4, []float64{0, 0, 0, 1})); err == nil {
		t.Error("setBasePose of an unknown body should fail")
	}
}

func TestSetBasePoseRoundTrip(t *testing.T) {
	sim := newScene(t)

	position := mat.NewVecDense(3, []float64{0.25, -0.1, 0.03})
	identity := mat.NewVecDense(4, []float64{0, 0, 0, 1})
	if err := sim.SetBasePose("object", position, identity); err != nil {
		t.Fatalf("setBasePose: %v", err)
	}

	got, err := sim.BasePosition("object")
	if err != nil {
		t.Fatalf("basePosition: %v", err)
	}
	if !mat.EqualApprox(got, position, 1e-12) {
		t.Errorf("position after teleport = %v, want %v",
			mat.Formatted(got.T()), mat.Formatted(position.T()))
	}

	rotation, err := sim.BaseRotation("object")
	if err != nil {
		t.Fatalf("baseRotation: %v", err)
	}
	if !mat.EqualApprox(rotation, identity, 1e-12) {
		t.Errorf("rotation after teleport = %v, want identity",
			mat.Formatted(rotation.T()))
	}

	// Teleporting zeroes the body's velocities
	velocity, err := sim.BaseVelocity("object")
	if err != nil {
		t.Fatalf("baseVelocity: %v", err)
	}
	angular, err := sim.BaseAngularVelocity("object")
	if err != nil {
		t.Fatalf("baseAngularVelocity: %v", err)
	}
	if mat.Norm(velocity, 2) != 0 || mat.Norm(angular, 2) != 0 {
		t.Error("velocities should be zero after a teleport")
	}
}

func TestApplyForceMovesBody(t *testing.T) {
	sim := newScene(t)

	for i := 0; i < 10; i++ {
		if err := sim.ApplyForce("object", mat.NewVecDense(2,
			[]float64{10.0, 0.0})); err != nil {
			t.Fatalf("applyForce: %v", err)
		}
		sim.Step()
	}

	position, err := sim.BasePosition("object")
	if err != nil {
		t.Fatalf("basePosition: %v", err)
	}
	if position.AtVec(0) <= 0 {
		t.Errorf("pushing along +x left the object at x = %v",
			position.AtVec(0))
	}
	if position.AtVec(2) != 0.03 {
		t.Errorf("object z changed to %v during planar motion",
			position.AtVec(2))
	}
}

// Ghost bodies are visual markers only; overlapping them must not
// push other bodies around
func TestGhostBodyDoesNotCollide(t *testing.T) {
	sim := newScene(t)

	identity := mat.NewVecDense(4, []float64{0, 0, 0, 1})
	spot := mat.NewVecDense(3, []float64{0.1, 0.1, 0.03})
	if err := sim.SetBasePose("object", spot, identity); err != nil {
		t.Fatalf("setBasePose: %v", err)
	}
	if err := sim.SetBasePose("target", spot, identity); err != nil {
		t.Fatalf("setBasePose: %v", err)
	}

	for i := 0; i < 10; i++ {
		sim.Step()
	}

	velocity, err := sim.BaseVelocity("object")
	if err != nil {
		t.Fatalf("baseVelocity: %v", err)
	}
	if mat.Norm(velocity, 2) != 0 {
		t.Errorf("overlapping the ghost target accelerated the object "+
			"to %v", mat.Formatted(velocity.T()))
	}
}

func TestNoRenderingSuppressesRender(t *testing.T) {
	sim := newScene(t)
	sim.PlaceVisualizer(mat.NewVecDense(3, nil), 0.9, 45, -30)

	dir := t.TempDir()

	suppressed := filepath.Join(dir, "suppressed.png")
	sim.NoRendering(func() {
		if err := sim.Render(suppressed); err != nil {
			t.Fatalf("render: %v", err)
		}
	})
	if _, err := os.Stat(suppressed); !os.IsNotExist(err) {
		t.Error("render inside NoRendering should not write a file")
	}

	rendered := filepath.Join(dir, "rendered.png")
	if err := sim.Render(rendered); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(rendered); err != nil {
		t.Errorf("render outside NoRendering should write a file: %v", err)
	}
}
