package skycity

// Particle holds per-particle simulation state. Live particles occupy the
// first alive slots of the pool; "deletion" swaps a dead particle out of
// that prefix rather than deallocating.
type Particle struct {
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3
	Color        Color
	StartSize    float64
	EndSize      float64
	Lifetime     float64
	Age          float64

	renderAlpha float64
	renderSize  float64
}

// ParticleVertex is one entry of the render-ready buffer handed to the
// Renderer: world position, faded color, and point size.
type ParticleVertex struct {
	Position Vec3
	Color    Color
	Size     float64
}

// parallelThreshold is the live-particle count above which the integration
// pass is split across a helper goroutine.
const parallelThreshold = 1200

// ParticleSystem manages a fixed-capacity pool of transient particles with
// Euler integration. Used by the airplane trails and the missile explosion.
type ParticleSystem struct {
	particles []Particle
	alive     int
	snapshot  []ParticleVertex
}

// NewParticleSystem creates a system with a preallocated pool. The pool
// never grows; Emit drops silently at capacity.
func NewParticleSystem(maxParticles int) *ParticleSystem {
	if maxParticles <= 0 {
		maxParticles = 128
	}
	return &ParticleSystem{
		particles: make([]Particle, maxParticles),
		snapshot:  make([]ParticleVertex, 0, maxParticles),
	}
}

// AliveCount returns the number of live particles.
func (s *ParticleSystem) AliveCount() int {
	return s.alive
}

// Capacity returns the fixed pool size.
func (s *ParticleSystem) Capacity() int {
	return len(s.particles)
}

// Emit adds a particle to the pool. Silently dropped when the pool is full.
func (s *ParticleSystem) Emit(p Particle) {
	if s.alive >= len(s.particles) {
		return
	}
	if p.Lifetime < 0.01 {
		p.Lifetime = 0.01
	}
	p.Age = 0
	p.renderAlpha = p.Color.A
	p.renderSize = p.StartSize
	s.particles[s.alive] = p
	s.alive++
}

// Update advances every live particle by dt seconds and compacts dead ones
// out of the pool. Above parallelThreshold the integration pass is split
// into two contiguous halves, the second processed on a helper goroutine
// that is joined before compaction; each half touches only its own slots.
func (s *ParticleSystem) Update(dt float64) {
	if s.alive == 0 {
		return
	}
	if dt < 0 {
		dt = 0
	}

	if s.alive > parallelThreshold {
		mid := s.alive / 2
		done := make(chan struct{})
		go func() {
			s.integrateRange(mid, s.alive, dt)
			close(done)
		}()
		s.integrateRange(0, mid, dt)
		<-done
	} else {
		s.integrateRange(0, s.alive, dt)
	}

	// Compact: swap dead particles out of the live prefix.
	i := 0
	for i < s.alive {
		if s.particles[i].Age >= s.particles[i].Lifetime {
			s.alive--
			s.particles[i] = s.particles[s.alive]
			continue
		}
		i++
	}
}

// integrateRange advances particles in [begin, end).
func (s *ParticleSystem) integrateRange(begin, end int, dt float64) {
	for i := begin; i < end; i++ {
		p := &s.particles[i]
		p.Age += dt
		p.Velocity = p.Velocity.Add(p.Acceleration.Scale(dt))
		p.Position = p.Position.Add(p.Velocity.Scale(dt))

		ratio := clamp(p.Age/p.Lifetime, 0, 1)
		p.renderAlpha = p.Color.A * (1 - ratio)
		p.renderSize = lerp(p.StartSize, p.EndSize, ratio)
	}
}

// Snapshot returns the render-ready buffer for this frame, filtering out
// particles with negligible alpha or non-positive size. The returned slice
// is reused across calls.
func (s *ParticleSystem) Snapshot() []ParticleVertex {
	s.snapshot = s.snapshot[:0]
	for i := 0; i < s.alive; i++ {
		p := &s.particles[i]
		if p.renderAlpha <= 0.001 || p.renderSize <= 0 {
			continue
		}
		s.snapshot = append(s.snapshot, ParticleVertex{
			Position: p.Position,
			Color:    p.Color.WithAlpha(p.renderAlpha),
			Size:     p.renderSize,
		})
	}
	return s.snapshot
}
