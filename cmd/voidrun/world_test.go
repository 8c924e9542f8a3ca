package main

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/voidrun/internal/config"
	"github.com/taigrr/voidrun/pkg/scene"
)

func demoConfig() config.DemoConfig {
	return config.DemoConfig{
		FPS:        60,
		Speed:      90,
		Objects:    9,
		DecayEvery: 100 * time.Millisecond,
	}
}

func countKind(objs []scene.Object, k scene.ObjectKind) int {
	n := 0
	for _, o := range objs {
		if o.Kind == k {
			n++
		}
	}
	return n
}

func TestWorldScatter(t *testing.T) {
	g := floorGrid(128)
	w := NewWorld(g, demoConfig(), 42, 12, 64, 64)

	objs := w.Objects(0)
	require.Len(t, objs, 10)
	assert.Equal(t, 1, countKind(objs, scene.ObjectBeacon))
	assert.Equal(t, 3, countKind(objs, scene.ObjectHostile))
	assert.Equal(t, 6, countKind(objs, scene.ObjectPickup))

	for _, o := range objs {
		i, j := int(math.Floor(o.X/12)), int(math.Floor(o.Y/12))
		assert.Greater(t, max(abs(i-64), abs(j-64)), safeRadius)
		assert.LessOrEqual(t, max(abs(i-64), abs(j-64)), scatterRadius)
	}
}

func TestWorldDeterministic(t *testing.T) {
	a := NewWorld(floorGrid(128), demoConfig(), 7, 12, 64, 64)
	b := NewWorld(floorGrid(128), demoConfig(), 7, 12, 64, 64)
	assert.Equal(t, a.Objects(0), b.Objects(0))

	first := append([]scene.Object(nil), a.Objects(0)...)
	a.Reset(64, 64)
	assert.Equal(t, first, a.Objects(0))
}

func TestWorldEventsWriteGrid(t *testing.T) {
	g := floorGrid(128)
	cfg := demoConfig()
	cfg.SpikeEvery = time.Second
	w := NewWorld(g, cfg, 1, 12, 64, 64)
	p := NewPilot(g, 64, 64, 90, 12, 60)

	w.Update(0, 0.01, p)
	assert.Equal(t, 2, g.Pending())

	w.Update(0.05, 0.01, p)
	assert.Equal(t, 2, g.Pending(), "no event before the interval elapses")

	w.Update(0.1, 0.01, p)
	assert.Equal(t, 3, g.Pending())
}

func TestWorldCollectsPickups(t *testing.T) {
	g := floorGrid(128)
	cfg := demoConfig()
	cfg.DecayEvery = 0
	w := NewWorld(g, cfg, 3, 12, 64, 64)
	p := NewPilot(g, 64, 64, 90, 12, 60)

	var target scene.Object
	for _, o := range w.Objects(0) {
		if o.Kind == scene.ObjectPickup {
			target = o
			break
		}
	}
	p.Pose.X, p.Pose.Y = target.X, target.Y

	w.Update(0, 0.01, p)
	assert.GreaterOrEqual(t, w.Collected(), 1)

	objs := w.Objects(0.01)
	assert.Less(t, countKind(objs, scene.ObjectPickup), 6)
	assert.GreaterOrEqual(t, countKind(objs, scene.ObjectParticle), burstParticles)
	for _, o := range objs {
		if o.Kind == scene.ObjectParticle {
			assert.InDelta(t, 0.01/particleLife, o.Age, 1e-9)
		}
	}

	w.Update(1, 0.01, p)
	assert.Zero(t, countKind(w.Objects(1), scene.ObjectParticle), "particles expire")
}

func TestWorldHostilesFire(t *testing.T) {
	g := floorGrid(128)
	cfg := demoConfig()
	cfg.DecayEvery = 0
	w := NewWorld(g, cfg, 5, 12, 64, 64)
	p := NewPilot(g, 64, 64, 90, 12, 60)

	want := 0
	for _, o := range w.Objects(0) {
		if o.Kind != scene.ObjectHostile {
			continue
		}
		d := math.Hypot(o.X-p.Pose.X, o.Y-p.Pose.Y)
		if d >= 12 && d <= fireRange*12 {
			want++
		}
	}

	w.Update(0, 0.01, p)
	assert.Equal(t, want, countKind(w.Objects(0.01), scene.ObjectProjectile))

	w.Update(shotLife+0.5, 0.01, p)
	w.Update(shotLife+0.6, 0.01, p)
	for _, o := range w.Objects(shotLife + 0.6) {
		if o.Kind == scene.ObjectProjectile {
			assert.InDelta(t, shotLife+0.5, o.Phase, 1e-9, "only the second volley survives")
		}
	}
}

func TestShotsBurstOnWalls(t *testing.T) {
	g := floorGrid(64)
	w := NewWorld(g, config.DemoConfig{}, 1, 12, 32, 32)
	w.shots = append(w.shots, shot{x: 30 * 12, y: 30 * 12, z: 1.5, vx: 120, born: 0})
	g.Fill(31, 30, 6, 0)

	w.moveShots(0.1, 0.1)
	assert.Empty(t, w.shots)
	assert.Len(t, w.particles, burstParticles)
}
