package main

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/voidrun/internal/config"
	"github.com/taigrr/voidrun/pkg/render"
	"github.com/taigrr/voidrun/pkg/scene"
	"github.com/taigrr/voidrun/pkg/terrain"
)

const (
	scatterRadius  = 40  // Cells around spawn that objects are placed in
	eventRadius    = 36  // Cells around the craft that decay and spikes hit
	safeRadius     = 3   // Cells around the craft events never touch
	spikeHeight    = 8.0 // Elevation of a hazard spike
	fireRange      = 30  // Cells within which hostiles shoot
	fireEvery      = 1.6 // Seconds between hostile shots
	shotSpeed      = 160.0
	shotLife       = 2.5
	particleLife   = 0.8
	burstParticles = 14
)

type shot struct {
	x, y, z, vx, vy float64
	born           float64
}

type particle struct {
	x, y, z, vx, vy, vz float64
	born                float64
	color               render.Color
}

// World drives the demo objects and the terrain event stream. Everything
// it emits is consumed by the renderer through Objects and the grid's
// change queue.
type World struct {
	grid     *terrain.Grid
	cfg      config.DemoConfig
	tileSize float64
	rng      *rand.Rand
	seed     uint64

	statics   []scene.Object
	shots     []shot
	particles []particle
	out       []scene.Object

	decayAt, spikeAt, fireAt float64
	collected                int
}

// NewWorld scatters demo objects around cell (si, sj).
func NewWorld(grid *terrain.Grid, cfg config.DemoConfig, seed int64, tileSize float64, si, sj int) *World {
	w := &World{
		grid:     grid,
		cfg:      cfg,
		tileSize: tileSize,
		seed:     uint64(seed),
	}
	w.Reset(si, sj)
	return w
}

// Reset rebuilds the world from its seed around cell (si, sj).
func (w *World) Reset(si, sj int) {
	w.rng = rand.New(rand.NewPCG(w.seed, w.seed^0x9e3779b97f4a7c15))
	w.statics = w.statics[:0]
	w.shots = w.shots[:0]
	w.particles = w.particles[:0]
	w.decayAt, w.spikeAt, w.fireAt = 0, 0, 0
	w.collected = 0

	w.placeBeacon(si, sj)
	for k := range w.cfg.Objects {
		kind := scene.ObjectPickup
		if k%3 == 2 {
			kind = scene.ObjectHostile
		}
		i, j, ok := w.randomFloor(si, sj, scatterRadius)
		if !ok {
			continue
		}
		w.statics = append(w.statics, scene.Object{
			Kind:  kind,
			X:     (float64(i) + 0.5) * w.tileSize,
			Y:     (float64(j) + 0.5) * w.tileSize,
			Z:     w.grid.Height(i, j),
			Phase: w.rng.Float64() * 10,
			Rate:  0.8 + w.rng.Float64()*0.4,
		})
	}
}

func (w *World) placeBeacon(si, sj int) {
	i, j, ok := w.randomFloor(si, sj, scatterRadius/2)
	if !ok {
		return
	}
	w.statics = append(w.statics, scene.Object{
		Kind: scene.ObjectBeacon,
		X:    (float64(i) + 0.5) * w.tileSize,
		Y:    (float64(j) + 0.5) * w.tileSize,
	})
}

// randomFloor picks a floor cell within radius of (ci, cj) but outside the
// safe zone around it.
func (w *World) randomFloor(ci, cj, radius int) (int, int, bool) {
	for range 64 {
		di := w.rng.IntN(2*radius+1) - radius
		dj := w.rng.IntN(2*radius+1) - radius
		if max(abs(di), abs(dj)) <= safeRadius {
			continue
		}
		i, j := ci+di, cj+dj
		if h := w.grid.Height(i, j); h > 0 && h <= terrain.FloorMax {
			return i, j, true
		}
	}
	return 0, 0, false
}

// Collected returns the number of pickups gathered since the last reset.
func (w *World) Collected() int {
	return w.collected
}

// Update advances the world to time now (seconds) with the craft at p.
func (w *World) Update(now, dt float64, p *Pilot) {
	ci, cj := p.Cell()

	if every := w.cfg.DecayEvery; every > 0 && now >= w.decayAt {
		w.decayAt = now + every.Seconds()
		if i, j, ok := w.randomFloor(ci, cj, eventRadius); ok {
			w.grid.Destroy(i, j)
		}
	}
	if every := w.cfg.SpikeEvery; every > 0 && now >= w.spikeAt {
		w.spikeAt = now + every.Seconds()
		if i, j, ok := w.randomFloor(ci, cj, eventRadius); ok {
			w.grid.Spike(i, j, spikeHeight)
		}
	}

	w.collect(now, p)
	if now >= w.fireAt {
		w.fireAt = now + fireEvery
		w.fire(now, p)
	}
	w.moveShots(now, dt)
	w.moveParticles(now, dt)
}

// collect picks up every pickup within a tile of the craft.
func (w *World) collect(now float64, p *Pilot) {
	kept := w.statics[:0]
	for _, o := range w.statics {
		if o.Kind == scene.ObjectPickup && math.Hypot(o.X-p.Pose.X, o.Y-p.Pose.Y) < w.tileSize {
			w.collected++
			w.burst(now, o.X, o.Y, o.Z+2, render.RGB(255, 200, 0))
			continue
		}
		kept = append(kept, o)
	}
	w.statics = kept
}

// fire launches a shot at the craft from every hostile in range.
func (w *World) fire(now float64, p *Pilot) {
	limit := float64(fireRange) * w.tileSize
	for _, o := range w.statics {
		if o.Kind != scene.ObjectHostile {
			continue
		}
		dx, dy := p.Pose.X-o.X, p.Pose.Y-o.Y
		d := math.Hypot(dx, dy)
		if d > limit || d < w.tileSize {
			continue
		}
		w.shots = append(w.shots, shot{
			x:    o.X,
			y:    o.Y,
			z:    o.Z + 0.5,
			vx:   dx / d * shotSpeed,
			vy:   dy / d * shotSpeed,
			born: now,
		})
	}
}

func (w *World) moveShots(now, dt float64) {
	kept := w.shots[:0]
	for _, s := range w.shots {
		s.x += s.vx * dt
		s.y += s.vy * dt
		i, j := int(math.Floor(s.x/w.tileSize)), int(math.Floor(s.y/w.tileSize))
		if w.grid.Height(i, j) > s.z {
			w.burst(now, s.x, s.y, s.z, render.RGB(0, 255, 255))
			continue
		}
		if now-s.born > shotLife {
			continue
		}
		kept = append(kept, s)
	}
	w.shots = kept
}

func (w *World) moveParticles(now, dt float64) {
	kept := w.particles[:0]
	for _, p := range w.particles {
		if now-p.born >= particleLife {
			continue
		}
		p.x += p.vx * dt
		p.y += p.vy * dt
		p.vz -= 10 * dt
		p.z = math.Max(0, p.z+p.vz*dt)
		kept = append(kept, p)
	}
	w.particles = kept
}

// burst spawns a ring of particles at (x, y, z).
func (w *World) burst(now, x, y, z float64, c render.Color) {
	for range burstParticles {
		a := w.rng.Float64() * 2 * math.Pi
		s := 20 + w.rng.Float64()*40
		w.particles = append(w.particles, particle{
			x:     x,
			y:     y,
			z:     z,
			vx:    math.Cos(a) * s,
			vy:    math.Sin(a) * s,
			vz:    2 + w.rng.Float64()*3,
			born:  now,
			color: c,
		})
	}
}

// Objects returns the frame's dynamic objects. The slice is reused by the
// next call.
func (w *World) Objects(now float64) []scene.Object {
	w.out = append(w.out[:0], w.statics...)
	for _, s := range w.shots {
		w.out = append(w.out, scene.Object{Kind: scene.ObjectProjectile, X: s.x, Y: s.y, Z: s.z, Phase: s.born})
	}
	for _, p := range w.particles {
		w.out = append(w.out, scene.Object{
			Kind:  scene.ObjectParticle,
			X:     p.x,
			Y:     p.y,
			Z:     p.z,
			Age:   (now - p.born) / particleLife,
			Color: p.color,
		})
	}
	return w.out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
