package config

import (
	"errors"
	"fmt"
)

// Validate rejects settings the renderer cannot run with: non-positive
// sizes and inverted bounds.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	r := c.Render
	check(r.TileSize > 0, "render.tile_size must be positive, got %g", r.TileSize)
	check(r.HeightScale > 0, "render.height_scale must be positive, got %g", r.HeightScale)
	check(r.NearClip > 0, "render.near_clip must be positive, got %g", r.NearClip)
	check(r.ReferenceWidth > 0, "render.reference_width must be positive, got %g", r.ReferenceWidth)
	check(r.ReferenceFOV > 0, "render.reference_fov must be positive, got %g", r.ReferenceFOV)
	check(r.MinimapSize >= 0, "render.minimap_size must not be negative, got %d", r.MinimapSize)

	l := c.LOD
	check(l.MinRadius > 0, "lod.min_radius must be positive, got %d", l.MinRadius)
	check(l.MinRadius <= l.MaxRadius, "lod.min_radius %d exceeds lod.max_radius %d", l.MinRadius, l.MaxRadius)
	check(l.RadiusStep > 0, "lod.radius_step must be positive, got %d", l.RadiusStep)
	check(l.MinScale > 0, "lod.min_scale must be positive, got %g", l.MinScale)
	check(l.MinScale <= l.MaxScale, "lod.min_scale %g exceeds lod.max_scale %g", l.MinScale, l.MaxScale)
	check(l.MaxScale <= 1, "lod.max_scale must be at most 1, got %g", l.MaxScale)
	check(l.ScaleStep > 0, "lod.scale_step must be positive, got %g", l.ScaleStep)
	check(l.LowFPS <= l.HighFPS, "lod.low_fps %g exceeds lod.high_fps %g", l.LowFPS, l.HighFPS)

	check(c.Terrain.Size > 0, "terrain.size must be positive, got %d", c.Terrain.Size)
	check(c.Demo.FPS > 0, "demo.fps must be positive, got %d", c.Demo.FPS)

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
