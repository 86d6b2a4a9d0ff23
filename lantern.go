package skycity

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/lumen3d/skycity/bezier"
)

// lanternEpsilon keeps the flight curve's control point heights strictly
// ascending so the lantern never dips during its climb.
const lanternEpsilon = 1.0

// Fade windows at the start and end of a lantern's life, in seconds.
const (
	lanternFadeIn  = 1.5
	lanternFadeOut = 2.5
)

// Lantern is one slot of the pool. Inactive slots keep their last state so
// the pool never allocates after construction.
type Lantern struct {
	Active   bool
	Age      float64
	Lifetime float64
	Position Vec3
	Yaw      float64

	curve   bezier.Cubic
	fadeIn  *gween.Tween
	fadeOut *gween.Tween
	scale   float64
}

// LanternPool animates a fixed-capacity set of sky lanterns, each following
// its own cubic Bézier climb. Spawn requests beyond capacity are dropped
// silently.
type LanternPool struct {
	cfg      LanternConfig
	rng      *Rand
	lanterns []Lantern
	lights   []Light

	spawnAccum  float64
	spawnActive bool
}

// NewLanternPool allocates the pool at its fixed capacity.
func NewLanternPool(cfg LanternConfig, rng *Rand) *LanternPool {
	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}
	return &LanternPool{
		cfg:      cfg,
		rng:      rng,
		lanterns: make([]Lantern, size),
		lights:   make([]Light, 0, size),
	}
}

// ActiveCount returns the number of live lanterns.
func (p *LanternPool) ActiveCount() int {
	n := 0
	for i := range p.lanterns {
		if p.lanterns[i].Active {
			n++
		}
	}
	return n
}

// Capacity returns the fixed pool size.
func (p *LanternPool) Capacity() int {
	return len(p.lanterns)
}

// Advance runs the batch spawner and moves every live lantern along its
// curve. Once elapsed passes the spawn start time, a batch launches every
// spawn interval.
func (p *LanternPool) Advance(tk Tick) {
	if !p.cfg.Enabled {
		return
	}

	if tk.Elapsed >= p.cfg.SpawnStartTime {
		if !p.spawnActive {
			p.spawnActive = true
			p.spawnBatch()
		} else {
			p.spawnAccum += tk.Delta
			for p.spawnAccum >= p.cfg.SpawnInterval && p.cfg.SpawnInterval > 0 {
				p.spawnAccum -= p.cfg.SpawnInterval
				p.spawnBatch()
			}
		}
	}

	for i := range p.lanterns {
		p.advanceLantern(&p.lanterns[i], tk.Delta)
	}
}

// spawnBatch launches a random batch size, clamped to the free slots.
func (p *LanternPool) spawnBatch() {
	count := p.cfg.SpawnCount.Random(p.rng)
	for ; count > 0; count-- {
		if !p.Spawn() {
			return
		}
	}
}

// Spawn activates the first inactive slot with a fresh flight curve.
// Returns false when the pool is full.
func (p *LanternPool) Spawn() bool {
	for i := range p.lanterns {
		if !p.lanterns[i].Active {
			p.initLantern(&p.lanterns[i])
			return true
		}
	}
	return false
}

// initLantern seeds one slot: a launch point inside the spawn box and a
// cubic climb whose control points gain height monotonically.
func (p *LanternPool) initLantern(l *Lantern) {
	cfg := p.cfg
	rng := p.rng

	start := Vec3{
		X: cfg.SpawnCenter.X + (rng.Float64()*2-1)*cfg.SpawnHalfExtents.X,
		Y: cfg.SpawnCenter.Y + (rng.Float64()*2-1)*cfg.SpawnHalfExtents.Y,
		Z: cfg.SpawnCenter.Z + (rng.Float64()*2-1)*cfg.SpawnHalfExtents.Z,
	}

	lifetime := cfg.Lifetime.Random(rng)
	speed := cfg.Speed.Random(rng)

	climb := speed * lifetime * lerp(0.7, 1.3, rng.Float64())
	climb = clamp(climb, cfg.TargetHeight.Min, cfg.TargetHeight.Max)

	sway := climb * 0.15
	drift := func() float64 { return (rng.Float64()*2 - 1) * sway }

	y1 := climb * lerp(0.25, 0.45, rng.Float64())
	y2 := climb * lerp(0.55, 0.8, rng.Float64())
	if y1 < lanternEpsilon {
		y1 = lanternEpsilon
	}
	if y2 < y1+lanternEpsilon {
		y2 = y1 + lanternEpsilon
	}
	y3 := climb
	if y3 < y2+lanternEpsilon {
		y3 = y2 + lanternEpsilon
	}

	*l = Lantern{
		Active:   true,
		Lifetime: lifetime,
		Position: start,
		curve: bezier.Cubic{
			P0: bezier.Point3{X: start.X, Y: start.Y, Z: start.Z},
			P1: bezier.Point3{X: start.X + drift(), Y: start.Y + y1, Z: start.Z + drift()},
			P2: bezier.Point3{X: start.X + drift(), Y: start.Y + y2, Z: start.Z + drift()},
			P3: bezier.Point3{X: start.X + drift(), Y: start.Y + y3, Z: start.Z + drift()},
		},
		fadeIn: gween.New(0, 1, float32(lanternFadeIn), ease.OutQuad),
	}
}

// advanceLantern ages one slot, retiring it at end of life and otherwise
// sampling its curve for position and heading.
func (p *LanternPool) advanceLantern(l *Lantern, dt float64) {
	if !l.Active {
		return
	}
	l.Age += dt
	if l.Age >= l.Lifetime {
		l.Active = false
		return
	}

	t := l.Age / l.Lifetime
	pos := l.curve.Point(t)
	l.Position = Vec3{pos.X, pos.Y, pos.Z}

	tangent := l.curve.Tangent(t)
	horizontal := Vec3{tangent.X, 0, tangent.Z}
	if horizontal.Length() > 1e-6 {
		l.Yaw = math.Atan2(horizontal.Z, horizontal.X) * 180 / math.Pi
	}

	scale, _ := l.fadeIn.Update(float32(dt))
	l.scale = float64(scale)

	remaining := l.Lifetime - l.Age
	if remaining <= lanternFadeOut && l.fadeOut == nil {
		l.fadeOut = gween.New(float32(l.scale), 0, float32(lanternFadeOut), ease.InQuad)
	}
	if l.fadeOut != nil {
		out, _ := l.fadeOut.Update(float32(dt))
		l.scale = float64(out)
	}
}

// Transform returns the render transform for slot i. Inactive slots are
// hidden in place.
func (p *LanternPool) Transform(i int) Transform {
	l := &p.lanterns[i]
	if !l.Active {
		return HiddenTransform(l.Position)
	}
	return Transform{
		Position: l.Position,
		Yaw:      l.Yaw,
		Scale:    p.cfg.Scale.Scale(l.scale),
	}
}

// Lights returns one point light per live lantern, with intensity following
// the fade scale. The slice is reused across calls.
func (p *LanternPool) Lights() []Light {
	p.lights = p.lights[:0]
	for i := range p.lanterns {
		l := &p.lanterns[i]
		if !l.Active {
			continue
		}
		p.lights = append(p.lights, Light{
			Position:  l.Position,
			Color:     p.cfg.LightColor,
			Intensity: p.cfg.LightIntensity * l.scale,
			Radius:    p.cfg.LightRadius,
		})
	}
	return p.lights
}

// ControlHeights exposes the Y ordinates of slot i's flight curve, lowest
// first. Used to verify the monotone climb.
func (p *LanternPool) ControlHeights(i int) [4]float64 {
	c := p.lanterns[i].curve
	return [4]float64{c.P0.Y, c.P1.Y, c.P2.Y, c.P3.Y}
}
