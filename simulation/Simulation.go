// Package simulation defines the physics-backend contract consumed by
// manipulation tasks. Bodies are identified by name, and ownership of
// all simulated state rests with the backend. Tasks issue one-time
// scene-construction calls, write poses on episode reset, and read
// poses and velocities when assembling observations.
package simulation

import "gonum.org/v1/gonum/mat"

// PlaneConfig describes an infinite static ground plane
type PlaneConfig struct {
	ZOffset float64
}

// TableConfig describes a static table slab whose top surface the
// manipulated bodies rest on
type TableConfig struct {
	Length  float64
	Width   float64
	Height  float64
	XOffset float64
}

// CylinderConfig describes an upright cylinder body. A Ghost body
// takes part in no collisions and exists only for visualization, e.g.
// as a target marker. RGBAColor components are in [0, 1].
type CylinderConfig struct {
	BodyName        string
	Mass            float64
	Radius          float64
	Height          float64
	Position        *mat.VecDense
	RGBAColor       [4]float64
	LateralFriction float64
	Ghost           bool
}

// Simulation is the physics backend consumed by manipulation tasks.
// All calls are blocking and must be issued from the owning goroutine.
type Simulation interface {
	// Scene construction. Each call creates one named body; creating
	// two bodies with the same name is an error.
	CreatePlane(PlaneConfig) error
	CreateTable(TableConfig) error
	CreateCylinder(CylinderConfig) error

	// BasePosition returns the (x, y, z) world position of the named
	// body's base
	BasePosition(bodyName string) (*mat.VecDense, error)

	// BaseRotation returns the world orientation of the named body's
	// base as an (x, y, z, w) quaternion
	BaseRotation(bodyName string) (*mat.VecDense, error)

	// BaseVelocity returns the (x, y, z) linear velocity of the named
	// body's base
	BaseVelocity(bodyName string) (*mat.VecDense, error)

	// BaseAngularVelocity returns the (x, y, z) angular velocity of
	// the named body's base
	BaseAngularVelocity(bodyName string) (*mat.VecDense, error)

	// SetBasePose teleports the named body to the given position and
	// (x, y, z, w) quaternion orientation, zeroing its velocities
	SetBasePose(bodyName string, position, orientation *mat.VecDense) error

	// ApplyForce applies a world-frame force to the centre of the
	// named body for the next simulation step
	ApplyForce(bodyName string, force *mat.VecDense) error

	// Step advances the simulation by one timestep
	Step()

	// NoRendering runs f with rendering suppressed, restoring the
	// previous rendering state afterwards. Used to hide scene
	// construction from view.
	NoRendering(f func())

	// PlaceVisualizer orients the camera to look at target from the
	// given distance, yaw and pitch (degrees)
	PlaceVisualizer(target *mat.VecDense, distance, yaw, pitch float64)

	// Render draws the current scene to a PNG file at path. Rendering
	// while suppressed by NoRendering is a no-op.
	Render(path string) error
}
