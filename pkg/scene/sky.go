package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/voidrun/pkg/render"
)

// Star is a fixed point on the sky dome. U wraps horizontally, V is a
// fraction of the horizon height.
type Star struct {
	U, V       float64
	Brightness float64
	Twinkle    float64 // Radians per second
}

// Cloud is a bank of overlapping blobs parked at a world angle.
type Cloud struct {
	Angle  float64
	Band   float64 // Fraction of the horizon height
	Drift  float64 // Radians per second
	Blobs  int
	Width  float64
	Height float64
}

type gradientStop struct {
	at float64
	c  colorful.Color
}

// Sky paints the backdrop behind the terrain: gradients, stars, moon,
// clouds and a horizon glow.
type Sky struct {
	Stars  []Star
	Clouds []Cloud

	MoonAngle float64

	skyStops  []gradientStop
	voidStops []gradientStop

	rowsH, rowsHorizon int
	rows               []render.Color
}

// Default sky generator seeds.
const (
	StarSeed  = 12345
	CloudSeed = 54321
)

// parkMiller returns a minimal-standard LCG yielding values in (0,1).
func parkMiller(seed int64) func() float64 {
	s := seed
	return func() float64 {
		s = s * 16807 % 2147483647
		return float64(s) / 2147483647
	}
}

// NewSky builds the star field and cloud banks from their seeds.
func NewSky(starSeed, cloudSeed int64) *Sky {
	sky := &Sky{
		MoonAngle: 2.2,
		skyStops: []gradientStop{
			{0, mustHex("#080818")},
			{0.3, mustHex("#111133")},
			{0.7, mustHex("#1a2244")},
			{0.9, mustHex("#2a3355")},
			{1, mustHex("#445577")},
		},
		voidStops: []gradientStop{
			{0, mustHex("#1a2a2a")},
			{0.3, mustHex("#0f1a1a")},
			{1, mustHex("#050808")},
		},
	}

	rng := parkMiller(starSeed)
	for range 80 {
		sky.Stars = append(sky.Stars, Star{
			U:          rng(),
			V:          rng() * 0.7,
			Brightness: 0.3 + rng()*0.7,
			Twinkle:    1 + rng()*4,
		})
	}

	rng = parkMiller(cloudSeed)
	for range 32 {
		sky.Clouds = append(sky.Clouds, Cloud{
			Angle:  rng() * math.Pi * 2,
			Band:   0.50 + rng()*0.28,
			Drift:  (0.002 + rng()*0.013) * 0.05,
			Blobs:  3 + int(rng()*6),
			Width:  0.5 + rng()*1.4,
			Height: 0.5 + rng()*0.9,
		})
	}
	return sky
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func sample(stops []gradientStop, t float64) render.Color {
	t = math.Max(0, math.Min(1, t))
	for k := 1; k < len(stops); k++ {
		if t <= stops[k].at {
			a, b := stops[k-1], stops[k]
			c := a.c.BlendRgb(b.c, (t-a.at)/(b.at-a.at))
			r, g, bl := c.Clamped().RGB255()
			return render.RGB(r, g, bl)
		}
	}
	r, g, bl := stops[len(stops)-1].c.RGB255()
	return render.RGB(r, g, bl)
}

// gradientRows returns one backdrop color per surface row, rebuilt only
// when the surface height or horizon changes.
func (s *Sky) gradientRows(h, horizon int) []render.Color {
	if h == s.rowsH && horizon == s.rowsHorizon && len(s.rows) == h {
		return s.rows
	}
	s.rows = s.rows[:0]
	for y := range h {
		if y < horizon {
			s.rows = append(s.rows, sample(s.skyStops, float64(y)/float64(max(horizon, 1))))
		} else {
			s.rows = append(s.rows, sample(s.voidStops, float64(y-horizon)/float64(max(h-horizon, 1))))
		}
	}
	s.rowsH, s.rowsHorizon = h, horizon
	return s.rows
}

// wrapAngle maps a into (-π, π].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Draw paints the backdrop for a camera looking along yaw at clock time t.
func (s *Sky) Draw(fb *render.Framebuffer, p *Projector, yaw, t float64) {
	w, h := fb.Width, fb.Height
	horizon := int(p.Horizon)
	for y, c := range s.gradientRows(h, horizon) {
		fb.DrawRect(0, y, w, 1, c)
	}

	if voidH := h - horizon; voidH > 2 {
		const bands = 5
		for bi := range bands {
			k := float64(bi) / bands
			alpha := 0.15 - k*0.1
			y := int(math.Round(float64(horizon) + k*float64(voidH)))
			bh := max(1, int(math.Round(float64(voidH)/bands*0.4)))
			v := 30 - k*20
			fb.DrawRect(0, y, w, bh, render.RGBA(render.Clamp8(v), render.Clamp8(v+15), render.Clamp8(v+12), render.Alpha8(alpha)))
		}
	}

	fw := float64(w)
	if w > 40 {
		offset := yaw * p.FOV / fw
		for _, st := range s.Stars {
			u := math.Mod(st.U-offset, 1)
			if u < 0 {
				u++
			}
			alpha := st.Brightness * (0.5 + 0.5*math.Sin(t*st.Twinkle))
			bright := 180 + alpha*75
			fb.BlendPixel(int(u*fw), int(st.V*p.Horizon), render.RGBA(
				render.Clamp8(bright), render.Clamp8(bright), render.Clamp8(bright+30), render.Alpha8(alpha)))
		}

		if mx := fw/2 + wrapAngle(s.MoonAngle-yaw)*p.FOV; mx > -fw*0.1 && mx < fw*1.1 {
			my := p.Horizon * 0.2
			mr := fw * 0.02
			fb.FillCircle(mx, my, mr, render.RGB(0xdd, 0xe4, 0xf0))
			fb.FillCircle(mx+mr*0.4, my-mr*0.15, mr*0.85, render.RGB(0x1a, 0x22, 0x44))
			fb.FillCircle(mx, my, mr*3, render.RGBA(180, 200, 230, 20))
		}
	}

	if w > 60 {
		s.drawClouds(fb, p, yaw, t)
	}

	glowH := max(2, int(math.Round(p.Horizon*0.15)))
	top := horizon - glowH
	span := float64(glowH) * 1.5
	for k := range int(span) {
		f := (float64(k) + 0.5) / span
		var c colorful.Color
		var a float64
		if f < 0.5 {
			c = colorful.Color{R: 80.0 / 255, G: 100.0 / 255, B: 130.0 / 255}.BlendRgb(colorful.Color{R: 80.0 / 255, G: 110.0 / 255, B: 140.0 / 255}, f*2)
			a = 0.25 * f * 2
		} else {
			c = colorful.Color{R: 80.0 / 255, G: 110.0 / 255, B: 140.0 / 255}.BlendRgb(colorful.Color{R: 40.0 / 255, G: 60.0 / 255, B: 70.0 / 255}, (f-0.5)*2)
			a = 0.25 * (1 - f) * 2
		}
		r, g, b := c.RGB255()
		fb.DrawRect(0, top+k, w, 1, render.RGBA(r, g, b, render.Alpha8(a)))
	}
}

func (s *Sky) drawClouds(fb *render.Framebuffer, p *Projector, yaw, t float64) {
	fw := float64(fb.Width)
	col := render.RGBA(150, 170, 200, 15)
	for _, cl := range s.Clouds {
		cx := fw/2 + wrapAngle(cl.Angle+t*cl.Drift-yaw)*p.FOV
		if cx < -fw*0.3 || cx > fw*1.3 {
			continue
		}
		cy := p.Horizon * cl.Band
		blobR := fw * 0.05 * cl.Width * 0.25 * cl.Height
		for bi := range cl.Blobs {
			bt := 0.0
			if cl.Blobs > 1 {
				bt = float64(bi)/float64(cl.Blobs-1) - 0.5
			}
			arch := 1 - 4*bt*bt
			fb.FillCircle(
				cx+bt*blobR*float64(cl.Blobs)*0.6,
				cy-arch*blobR*0.6,
				blobR*(0.6+arch*0.5),
				col,
			)
		}
	}
}
