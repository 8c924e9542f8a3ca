package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/voidrun/pkg/scene"
	"github.com/taigrr/voidrun/pkg/terrain"
)

const (
	maxTurnRate = 2.5  // Radians per second
	maxTilt     = 0.35 // Radians of roll at full turn
	stepUp      = 0.6  // Tallest ledge the craft climbs without stopping
	gravity     = 18.0 // Elevation units per second squared
	crashDepth  = -6.0 // Falling below this elevation is a crash
	lookAhead   = 4.0  // Autopilot look-ahead distance, in tiles
)

// Pilot flies the tracked craft. Speed, turn rate and roll chase their
// targets through harmonica springs.
type Pilot struct {
	Pose scene.Pose
	Tilt float64

	// Steer is the turn input in [-1, 1]; Throttle scales cruise speed.
	Steer    float64
	Throttle float64
	Auto     bool

	cruise   float64
	tileSize float64

	speed, speedVel float64
	turn, turnVel   float64
	tiltVel         float64
	vz              float64
	falling         bool

	speedSpring harmonica.Spring
	turnSpring  harmonica.Spring
	tiltSpring  harmonica.Spring
}

// NewPilot places a pilot on cell (i, j) of grid facing +X.
func NewPilot(grid *terrain.Grid, i, j int, cruise, tileSize float64, fps int) *Pilot {
	p := &Pilot{
		Throttle:    1,
		Auto:        true,
		cruise:      cruise,
		tileSize:    tileSize,
		speedSpring: harmonica.NewSpring(harmonica.FPS(fps), 2.0, 1.0),
		turnSpring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		tiltSpring:  harmonica.NewSpring(harmonica.FPS(fps), 5.0, 0.8),
	}
	p.Respawn(grid, i, j)
	return p
}

// Respawn puts the craft back on cell (i, j) at rest.
func (p *Pilot) Respawn(grid *terrain.Grid, i, j int) {
	p.Pose = scene.Pose{
		X:   (float64(i) + 0.5) * p.tileSize,
		Y:   (float64(j) + 0.5) * p.tileSize,
		Z:   grid.Height(i, j),
		Yaw: 0,
	}
	p.Tilt, p.tiltVel = 0, 0
	p.speed, p.speedVel = 0, 0
	p.turn, p.turnVel = 0, 0
	p.vz = 0
	p.falling = false
}

// Cell returns the grid cell under the craft.
func (p *Pilot) Cell() (i, j int) {
	return int(math.Floor(p.Pose.X / p.tileSize)), int(math.Floor(p.Pose.Y / p.tileSize))
}

// Speed returns the current ground speed in world units per second.
func (p *Pilot) Speed() float64 {
	return p.speed
}

// Falling reports whether the craft has left the floor.
func (p *Pilot) Falling() bool {
	return p.falling
}

// Update advances the craft by dt seconds and reports whether it crashed.
func (p *Pilot) Update(grid *terrain.Grid, dt float64) bool {
	if p.Auto && !p.falling {
		p.Steer = p.autoSteer(grid)
	}

	targetSpeed := p.cruise * p.Throttle
	targetTurn := clamp(p.Steer, -1, 1) * maxTurnRate
	if p.falling {
		targetTurn = 0
	}
	p.speed, p.speedVel = p.speedSpring.Update(p.speed, p.speedVel, targetSpeed)
	p.turn, p.turnVel = p.turnSpring.Update(p.turn, p.turnVel, targetTurn)
	p.Tilt, p.tiltVel = p.tiltSpring.Update(p.Tilt, p.tiltVel, -p.turn/maxTurnRate*maxTilt)

	p.Pose.Yaw = math.Mod(p.Pose.Yaw+p.turn*dt, 2*math.Pi)

	s, c := math.Sincos(p.Pose.Yaw)
	nx := p.Pose.X + c*p.speed*dt
	ny := p.Pose.Y + s*p.speed*dt
	ni, nj := int(math.Floor(nx/p.tileSize)), int(math.Floor(ny/p.tileSize))
	ground := grid.Height(ni, nj)

	if !p.falling && ground > p.Pose.Z+stepUp {
		// Wall ahead.
		p.speed, p.speedVel = 0, 0
		return false
	}
	p.Pose.X, p.Pose.Y = nx, ny

	switch {
	case p.falling || ground <= 0:
		p.falling = true
		p.vz -= gravity * dt
		p.Pose.Z += p.vz * dt
		return p.Pose.Z < crashDepth
	default:
		p.Pose.Z = ground
		return false
	}
}

// autoSteer fans out from the current heading and turns toward the first
// direction that stays on walkable floor.
func (p *Pilot) autoSteer(grid *terrain.Grid) float64 {
	for _, off := range [...]float64{0, 0.5, -0.5, 1.1, -1.1, 2.0, -2.0} {
		if p.clear(grid, p.Pose.Yaw+off) {
			return clamp(off*1.5, -1, 1)
		}
	}
	return 1
}

// clear reports whether every tile along heading for lookAhead tiles is
// floor the craft can drive onto.
func (p *Pilot) clear(grid *terrain.Grid, heading float64) bool {
	s, c := math.Sincos(heading)
	z := p.Pose.Z
	for step := 1.0; step <= lookAhead; step++ {
		x := p.Pose.X + c*step*p.tileSize
		y := p.Pose.Y + s*step*p.tileSize
		h := grid.Height(int(math.Floor(x/p.tileSize)), int(math.Floor(y/p.tileSize)))
		if h <= 0 || h > z+stepUp {
			return false
		}
		z = h
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
