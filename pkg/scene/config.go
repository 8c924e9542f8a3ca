// Package scene turns a heightfield and a tracked pose into a painted frame:
// a chase camera, a perspective projector, an approximate frustum culler,
// per-cell face generation and a painter's-algorithm compositor.
package scene

// Config holds the tuning constants of the render pipeline. Distances are
// in world units unless noted; elevations are in grid units and scaled by
// HeightScale when projected.
type Config struct {
	TileSize       float64 `yaml:"tile_size"`
	HeightScale    float64 `yaml:"height_scale"`
	CameraDistance float64 `yaml:"camera_distance"`
	CameraHeight   float64 `yaml:"camera_height"`
	NearClip       float64 `yaml:"near_clip"`
	HorizonRatio   float64 `yaml:"horizon_ratio"`

	// FOV in pixels is ReferenceFOV scaled by surface width over
	// ReferenceWidth.
	ReferenceWidth float64 `yaml:"reference_width"`
	ReferenceFOV   float64 `yaml:"reference_fov"`

	// Culling, in cells.
	FOVSlope     float64 `yaml:"fov_slope"`
	FOVMargin    float64 `yaml:"fov_margin"`
	BehindMargin float64 `yaml:"behind_margin"`

	DepthEpsilon     float64 `yaml:"depth_epsilon"`
	OcclusionDepth   float64 `yaml:"occlusion_depth"` // Fraction of CameraDistance
	OcclusionMargin  float64 `yaml:"occlusion_margin"`
	FogBlend         float64 `yaml:"fog_blend"`
	EdgeDrop         float64 `yaml:"edge_drop"`
	SideMinElevation float64 `yaml:"side_min_elevation"`

	MinimapSize  int     `yaml:"minimap_size"` // On-screen edge in display pixels
	MinimapAlpha float64 `yaml:"minimap_alpha"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		TileSize:         12,
		HeightScale:      10,
		CameraDistance:   60,
		CameraHeight:     25,
		NearClip:         1,
		HorizonRatio:     0.35,
		ReferenceWidth:   640,
		ReferenceFOV:     300,
		FOVSlope:         1.2,
		FOVMargin:        8,
		BehindMargin:     1,
		DepthEpsilon:     1,
		OcclusionDepth:   0.85,
		OcclusionMargin:  1,
		FogBlend:         0.6,
		EdgeDrop:         0.3,
		SideMinElevation: 0.3,
		MinimapSize:      132,
		MinimapAlpha:     0.55,
	}
}
