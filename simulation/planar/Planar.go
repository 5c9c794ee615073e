// Package planar implements the simulation.Simulation contract with a
// top-down, two-dimensional Box2D world. Bodies move in the x-y plane
// of the table top. Heights are kinematic: each body keeps the z
// coordinate it was created or last teleported with, which is exact
// for tabletop tasks where every body rests on a horizontal surface.
// Sliding friction against the table top is modelled as linear and
// angular damping on the body.
package planar

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gomanip/simulation"
)

const (
	// FPS is the number of simulation steps per second
	FPS float64 = 50.0

	// Box2D constraint-solver iterations per step
	velocityIterations int = 8
	positionIterations int = 3

	// Gravity is the gravitational acceleration used to convert a
	// lateral friction coefficient into damping
	Gravity float64 = 9.8

	ViewportW int = 600
	ViewportH int = 400
)

type bodyKind int

const (
	plane bodyKind = iota
	table
	cylinder
)

// body records one named body: its Box2D counterpart, its kinematic
// height, and what is needed to draw it
type body struct {
	kind bodyKind
	b2   *box2d.B2Body

	// z is the world height of the body's base centre
	z float64

	// Geometry: radius for cylinders, half extents for slabs
	radius     float64
	halfLength float64
	halfWidth  float64

	colour [4]float64
	ghost  bool
}

// Planar implements simulation.Simulation on a top-down Box2D world
type Planar struct {
	world  box2d.B2World
	bodies map[string]*body

	// names in creation order, which is also render order
	names []string

	rendering bool

	camTarget   *mat.VecDense
	camDistance float64
	camYaw      float64
	camPitch    float64
}

// New returns a new, empty planar simulation
func New() *Planar {
	// Top-down view: gravity acts along -z, which the plane does not
	// represent, so the world itself is force-free
	world := box2d.MakeB2World(box2d.MakeB2Vec2(0.0, 0.0))

	return &Planar{
		world:       world,
		bodies:      make(map[string]*body),
		names:       make([]string, 0),
		rendering:   true,
		camTarget:   mat.NewVecDense(3, nil),
		camDistance: 1.0,
	}
}

// compile-time check
var _ simulation.Simulation = (*Planar)(nil)

func (p *Planar) addBody(name string, b *body) error {
	if _, ok := p.bodies[name]; ok {
		return fmt.Errorf("body %v already exists", name)
	}
	p.bodies[name] = b
	p.names = append(p.names, name)
	return nil
}

func (p *Planar) body(name string) (*body, error) {
	b, ok := p.bodies[name]
	if !ok {
		return nil, fmt.Errorf("no such body %v", name)
	}
	return b, nil
}

// CreatePlane creates the static ground plane. The plane never
// collides with tabletop bodies and exists as backdrop scenery.
func (p *Planar) CreatePlane(config simulation.PlaneConfig) error {
	def := box2d.NewB2BodyDef()
	def.Type = 0 // Static body
	b2Body := p.world.CreateBody(def)

	b := &body{
		kind:   plane,
		b2:     b2Body,
		z:      config.ZOffset,
		colour: [4]float64{0.15, 0.15, 0.15, 1.0},
	}

	if err := p.addBody("plane", b); err != nil {
		return fmt.Errorf("createPlane: %v", err)
	}
	return nil
}

// CreateTable creates the static table slab whose top surface carries
// the manipulated bodies
func (p *Planar) CreateTable(config simulation.TableConfig) error {
	def := box2d.NewB2BodyDef()
	def.Type = 0 // Static body
	def.Position = box2d.MakeB2Vec2(config.XOffset, 0.0)
	b2Body := p.world.CreateBody(def)

	b := &body{
		kind:       table,
		b2:         b2Body,
		z:          -config.Height / 2.0, // top surface at z = 0
		halfLength: config.Length / 2.0,
		halfWidth:  config.Width / 2.0,
		colour:     [4]float64{0.85, 0.85, 0.85, 1.0},
	}

	if err := p.addBody("table", b); err != nil {
		return fmt.Errorf("createTable: %v", err)
	}
	return nil
}

// CreateCylinder creates an upright cylinder. Bodies with positive
// mass are dynamic; ghost bodies carry sensor fixtures and so take
// part in no collision responses.
func (p *Planar) CreateCylinder(config simulation.CylinderConfig) error {
	if config.Position == nil || config.Position.Len() != 3 {
		return fmt.Errorf("createCylinder: position should be (x, y, z) " +
			"coordinates")
	}

	def := box2d.NewB2BodyDef()
	if config.Mass > 0 {
		def.Type = 2 // Dynamic body
	} else {
		def.Type = 0 // Static body
	}
	def.Position = box2d.MakeB2Vec2(config.Position.AtVec(0),
		config.Position.AtVec(1))
	b2Body := p.world.CreateBody(def)

	shape := box2d.NewB2CircleShape()
	shape.M_radius = config.Radius

	fix := box2d.MakeB2FixtureDef()
	fix.Shape = shape
	fix.IsSensor = config.Ghost
	if config.Mass > 0 {
		fix.Density = config.Mass / (math.Pi * config.Radius * config.Radius)
	}
	b2Body.CreateFixtureFromDef(&fix)

	if config.LateralFriction > 0 {
		damping := config.LateralFriction * Gravity
		b2Body.SetLinearDamping(damping)
		b2Body.SetAngularDamping(damping)
	}

	b := &body{
		kind:   cylinder,
		b2:     b2Body,
		z:      config.Position.AtVec(2),
		radius: config.Radius,
		colour: config.RGBAColor,
		ghost:  config.Ghost,
	}

	if err := p.addBody(config.BodyName, b); err != nil {
		return fmt.Errorf("createCylinder: %v", err)
	}
	return nil
}

// BasePosition returns the (x, y, z) position of the named body's base
func (p *Planar) BasePosition(bodyName string) (*mat.VecDense, error) {
	b, err := p.body(bodyName)
	if err != nil {
		return nil, fmt.Errorf("basePosition: %v", err)
	}

	pos := b.b2.GetPosition()
	return mat.NewVecDense(3, []float64{pos.X, pos.Y, b.z}), nil
}

// BaseRotation returns the orientation of the named body's base as an
// (x, y, z, w) quaternion. Planar bodies rotate about +z only.
func (p *Planar) BaseRotation(bodyName string) (*mat.VecDense, error) {
	b, err := p.body(bodyName)
	if err != nil {
		return nil, fmt.Errorf("baseRotation: %v", err)
	}

	theta := b.b2.GetAngle()
	return mat.NewVecDense(4, []float64{
		0.0,
		0.0,
		math.Sin(theta / 2.0),
		math.Cos(theta / 2.0),
	}), nil
}

// BaseVelocity returns the (x, y, z) linear velocity of the named
// body's base. The z component is always 0.
func (p *Planar) BaseVelocity(bodyName string) (*mat.VecDense, error) {
	b, err := p.body(bodyName)
	if err != nil {
		return nil, fmt.Errorf("baseVelocity: %v", err)
	}

	vel := b.b2.GetLinearVelocity()
	return mat.NewVecDense(3, []float64{vel.X, vel.Y, 0.0}), nil
}

// BaseAngularVelocity returns the (x, y, z) angular velocity of the
// named body's base. Planar bodies spin about +z only.
func (p *Planar) BaseAngularVelocity(bodyName string) (*mat.VecDense, error) {
	b, err := p.body(bodyName)
	if err != nil {
		return nil, fmt.Errorf("baseAngularVelocity: %v", err)
	}

	return mat.NewVecDense(3, []float64{0.0, 0.0,
		b.b2.GetAngularVelocity()}), nil
}

// SetBasePose teleports the named body, zeroing its velocities
func (p *Planar) SetBasePose(bodyName string, position,
	orientation *mat.VecDense) error {
	if position == nil || position.Len() != 3 {
		return fmt.Errorf("setBasePose: position should be (x, y, z) " +
			"coordinates")
	}
	if orientation == nil || orientation.Len() != 4 {
		return fmt.Errorf("setBasePose: orientation should be an " +
			"(x, y, z, w) quaternion")
	}

	b, err := p.body(bodyName)
	if err != nil {
		return fmt.Errorf("setBasePose: %v", err)
	}

	theta := 2.0 * math.Atan2(orientation.AtVec(2), orientation.AtVec(3))
	b.b2.SetTransform(box2d.MakeB2Vec2(position.AtVec(0),
		position.AtVec(1)), theta)
	b.b2.SetLinearVelocity(box2d.MakeB2Vec2(0.0, 0.0))
	b.b2.SetAngularVelocity(0.0)
	b.z = position.AtVec(2)

	return nil
}

// ApplyForce applies a world-frame force to the centre of the named
// body for the next simulation step
func (p *Planar) ApplyForce(bodyName string, force *mat.VecDense) error {
	if force == nil || force.Len() < 2 {
		return fmt.Errorf("applyForce: force should provide at least " +
			"(x, y) components")
	}

	b, err := p.body(bodyName)
	if err != nil {
		return fmt.Errorf("applyForce: %v", err)
	}

	b.b2.ApplyForceToCenter(box2d.MakeB2Vec2(force.AtVec(0),
		force.AtVec(1)), true)
	return nil
}

// Step advances the simulation by one timestep
func (p *Planar) Step() {
	p.world.Step(1.0/FPS, velocityIterations, positionIterations)
}

// NoRendering runs f with rendering suppressed
func (p *Planar) NoRendering(f func()) {
	prev := p.rendering
	p.rendering = false
	f()
	p.rendering = prev
}

// PlaceVisualizer orients the camera to look at target from the given
// distance, yaw and pitch (degrees). The top-down renderer uses the
// target and distance to frame the scene; yaw and pitch are kept for
// backends that render in three dimensions.
func (p *Planar) PlaceVisualizer(target *mat.VecDense, distance, yaw,
	pitch float64) {
	if target != nil && target.Len() == 3 {
		p.camTarget = mat.VecDenseCopyOf(target)
	}
	if distance > 0 {
		p.camDistance = distance
	}
	p.camYaw = yaw
	p.camPitch = pitch
}
