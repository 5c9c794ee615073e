package slide

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"
)

// RewardType determines the reward scheme of a task
type RewardType string

const (
	// Sparse rewards are -1 on failure and 0 on success
	Sparse RewardType = "sparse"

	// Dense rewards are the negated distance between the achieved and
	// desired goals
	Dense RewardType = "dense"
)

// GoalRegion determines the region of the table that episode goals are
// sampled from. Exactly one region is active per task, so no illegal
// combination of regions can be constructed.
type GoalRegion int

const (
	// FullRegion samples goals from the full symmetric range around
	// the goal x offset
	FullRegion GoalRegion = iota

	// FixedGoal degenerates the sampling region to a single point, so
	// every episode has the same goal
	FixedGoal

	// Quadrant restricts goals to a single quadrant of the sampling
	// region
	Quadrant
)

// ParseGoalRegion returns the GoalRegion named by s. The empty string
// parses to FullRegion, the default policy.
func ParseGoalRegion(s string) (GoalRegion, error) {
	switch s {
	case "", "FullRegion":
		return FullRegion, nil
	case "FixedGoal":
		return FixedGoal, nil
	case "Quadrant":
		return Quadrant, nil
	default:
		return FullRegion, fmt.Errorf("no such goal region %v", s)
	}
}

func (g GoalRegion) String() string {
	switch g {
	case FullRegion:
		return "FullRegion"
	case FixedGoal:
		return "FixedGoal"
	case Quadrant:
		return "Quadrant"
	default:
		return "UnknownGoalRegion"
	}
}

// Config describes a Slide task. Configs are value objects: once a
// task has been constructed from a Config, later changes to the Config
// have no effect on the task.
type Config struct {
	// RewardType selects between sparse and dense rewards
	RewardType RewardType

	// DistanceThreshold is the distance between the achieved and
	// desired goals below which the task is considered solved
	DistanceThreshold float64

	// GoalXYRange is the side length of the goal sampling region
	GoalXYRange float64

	// GoalXOffset shifts the goal sampling region along the x axis,
	// away from the object's starting region
	GoalXOffset float64

	// ObjXYRange is the side length of the object starting region
	ObjXYRange float64

	// GoalRegion selects the goal sampling policy
	GoalRegion GoalRegion
}

// NewConfig returns a Config with the default Slide task parameters
func NewConfig() Config {
	return Config{
		RewardType:        Sparse,
		DistanceThreshold: 0.05,
		GoalXYRange:       0.3,
		GoalXOffset:       0.4,
		ObjXYRange:        0.3,
		GoalRegion:        FullRegion,
	}
}

// Validate returns an error describing the first illegal parameter of
// the Config, or nil if the Config is legal
func (c Config) Validate() error {
	if c.RewardType != Sparse && c.RewardType != Dense {
		return fmt.Errorf("no such reward type %v", c.RewardType)
	}
	if c.DistanceThreshold <= 0 {
		return fmt.Errorf("distance threshold must be positive, got %v",
			c.DistanceThreshold)
	}
	if c.GoalXYRange <= 0 {
		return fmt.Errorf("goal range must be positive, got %v",
			c.GoalXYRange)
	}
	if c.ObjXYRange <= 0 {
		return fmt.Errorf("object range must be positive, got %v",
			c.ObjXYRange)
	}
	if c.GoalRegion != FullRegion && c.GoalRegion != FixedGoal &&
		c.GoalRegion != Quadrant {
		return fmt.Errorf("no such goal region %v", c.GoalRegion)
	}
	return nil
}

// goalBounds returns the box that episode goal offsets are drawn from
func (c Config) goalBounds() []r1.Interval {
	switch c.GoalRegion {
	case FixedGoal:
		point := c.GoalXYRange/2.0 + c.GoalXOffset
		return []r1.Interval{
			{Min: point, Max: point},
			{Min: 0.0, Max: 0.0},
			{Min: 0.0, Max: 0.0},
		}

	case Quadrant:
		return []r1.Interval{
			{Min: c.GoalXOffset, Max: c.GoalXYRange/2.0 + c.GoalXOffset},
			{Min: 0.0, Max: c.GoalXYRange / 2.0},
			{Min: 0.0, Max: 0.0},
		}

	default:
		return []r1.Interval{
			{
				Min: -c.GoalXYRange/2.0 + c.GoalXOffset,
				Max: c.GoalXYRange/2.0 + c.GoalXOffset,
			},
			{Min: -c.GoalXYRange / 2.0, Max: c.GoalXYRange / 2.0},
			{Min: 0.0, Max: 0.0},
		}
	}
}

// objectBounds returns the box that single object starting offsets are
// drawn from
func (c Config) objectBounds() []r1.Interval {
	return []r1.Interval{
		{Min: -c.ObjXYRange / 2.0, Max: c.ObjXYRange / 2.0},
		{Min: -c.ObjXYRange / 2.0, Max: c.ObjXYRange / 2.0},
		{Min: 0.0, Max: 0.0},
	}
}

// tableBounds returns the wider box that batches of object positions
// are drawn from. It stretches from the object starting region to the
// far end of the goal region, covering the whole working surface.
func (c Config) tableBounds() []r1.Interval {
	return []r1.Interval{
		{
			Min: -c.ObjXYRange / 2.0,
			Max: c.ObjXYRange/2.0 + c.GoalXOffset,
		},
		{Min: -c.ObjXYRange / 2.0, Max: c.ObjXYRange / 2.0},
		{Min: 0.0, Max: 0.0},
	}
}
