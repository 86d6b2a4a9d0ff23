package skycity

import "math"

// Missile is the scripted drop animator. It detaches from the airplane a
// fixed delay after the airplane spawns, falls ballistically while rolling
// about its forward axis, and explodes exactly once on ground contact.
// Active and Exploded are never both true; Exploded is terminal.
type Missile struct {
	cfg MissileConfig

	Active     bool
	HasSpawned bool
	Exploded   bool
	SpawnTime  float64
	Position   Vec3
	Velocity   Vec3
	RollAngle  float64 // degrees in [0, 360)

	explosionPoint Vec3
}

// NewMissile creates the animator in its pre-drop state.
func NewMissile(cfg MissileConfig) *Missile {
	return &Missile{cfg: cfg}
}

// Advance integrates the missile for this tick. It returns true on the
// single tick the missile hits the ground; the explosion point is then
// available from ExplosionPoint.
func (m *Missile) Advance(tk Tick, plane *Airplane) (exploded bool) {
	if m.Exploded {
		return false
	}

	if !m.HasSpawned && plane.Active && tk.Elapsed-plane.SpawnTime >= m.cfg.DropDelay {
		m.drop(tk.Elapsed, plane)
	}
	if !m.Active {
		return false
	}

	m.Position = m.Position.Add(m.Velocity.Scale(tk.Delta))
	m.RollAngle = wrapAngle360(m.RollAngle + m.cfg.RotationSpeed*tk.Delta)

	if m.Position.Y <= m.cfg.GroundHeight {
		m.Active = false
		m.Exploded = true
		m.explosionPoint = m.Position
		return true
	}
	return false
}

// drop releases the missile from the airplane's current position with the
// configured fall speed split into horizontal and vertical components.
func (m *Missile) drop(elapsed float64, plane *Airplane) {
	m.HasSpawned = true
	m.Active = true
	m.SpawnTime = elapsed
	m.Position = plane.Position

	angleRad := m.cfg.FallAngle * math.Pi / 180
	horizontal := plane.Direction.Scale(m.cfg.FallSpeed * math.Cos(angleRad))
	m.Velocity = horizontal.Add(Vec3{0, -m.cfg.FallSpeed * math.Sin(angleRad), 0})
}

// ExplosionPoint returns where the missile hit the ground. Only meaningful
// once Exploded is true.
func (m *Missile) ExplosionPoint() Vec3 {
	return m.explosionPoint
}

// orientation derives yaw and pitch in degrees from the velocity vector.
// A degenerate velocity keeps the missile pointing down its last heading.
func (m *Missile) orientation() (yaw, pitch float64) {
	dir := m.Velocity.NormalizedOr(Vec3{1, 0, 0})
	yaw = math.Atan2(dir.Z, dir.X) * 180 / math.Pi
	pitch = math.Asin(clamp(-dir.Y, -1, 1)) * 180 / math.Pi
	return yaw, pitch
}

// TrackCamera chases the missile once the configured tracking delay has
// passed: behind it along the velocity, raised by the height offset, and
// looking a fixed distance ahead of it.
func (m *Missile) TrackCamera(tk Tick, cam *CameraState) {
	if !m.Active || tk.Elapsed-m.SpawnTime < m.cfg.CameraTrackDelay {
		return
	}
	forward := m.Velocity.NormalizedOr(Vec3{1, 0, 0})
	cam.Position = m.Position.
		Sub(forward.Scale(m.cfg.CameraDistance)).
		Add(Vec3{0, m.cfg.CameraHeight, 0})
	cam.LookAt(m.Position.Add(forward.Scale(m.cfg.CameraLookAhead)))
}

// Transform returns the missile's render transform, or a hidden transform
// before the drop and after the explosion.
func (m *Missile) Transform() Transform {
	if !m.Active {
		return HiddenTransform(m.Position)
	}
	yaw, pitch := m.orientation()
	return Transform{
		Position: m.Position,
		Yaw:      yaw,
		Pitch:    pitch,
		Roll:     m.RollAngle,
		Scale:    m.cfg.Scale,
	}
}

// EmitExplosion fills the particle system with the explosion burst: a
// radial shell of colored debris with downward gravity. No-op when the
// burst is disabled.
func (m *Missile) EmitExplosion(ps *ParticleSystem, rng *Rand) {
	if !m.cfg.ExplosionEnabled {
		return
	}
	for i := 0; i < m.cfg.ExplosionCount; i++ {
		// Uniform direction on the sphere via rejection-free spherical draw.
		theta := rng.Float64() * 2 * math.Pi
		z := rng.Float64()*2 - 1
		r := math.Sqrt(1 - z*z)
		dir := Vec3{r * math.Cos(theta), z, r * math.Sin(theta)}

		speed := m.cfg.ExplosionSpeed.Random(rng)
		color := m.cfg.ExplosionColors[rng.IntN(len(m.cfg.ExplosionColors))]

		ps.Emit(Particle{
			Position:     m.explosionPoint,
			Velocity:     dir.Scale(speed),
			Acceleration: Vec3{0, -m.cfg.ExplosionGravity, 0},
			Color:        color,
			StartSize:    m.cfg.ExplosionStartSize,
			EndSize:      m.cfg.ExplosionEndSize,
			Lifetime:     m.cfg.ExplosionLifetime.Random(rng),
		})
	}
}
