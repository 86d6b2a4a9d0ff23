package skycity

// TrailEmitter produces the rainbow exhaust trails behind the airplane and
// each wingman. Every emitter keeps its own fractional spawn accumulator so
// emission rate is frame-rate independent and the five trails stay in step.
type TrailEmitter struct {
	cfg          TrailConfig
	accumulators []float64
}

// NewTrailEmitter creates a TrailEmitter for the given number of emitters
// (formation leader plus wingmen).
func NewTrailEmitter(cfg TrailConfig, emitters int) *TrailEmitter {
	return &TrailEmitter{
		cfg:          cfg,
		accumulators: make([]float64, emitters),
	}
}

// Emit spawns this tick's trail particles for emitter idx positioned at pos
// and flying along dir. Particles stream backwards with jittered offsets
// and drift, and sink under the configured gravity.
func (t *TrailEmitter) Emit(idx int, pos, dir Vec3, dt float64, ps *ParticleSystem, rng *Rand) {
	if !t.cfg.Enabled || idx < 0 || idx >= len(t.accumulators) {
		return
	}

	t.accumulators[idx] += t.cfg.SpawnRate * dt
	for t.accumulators[idx] >= 1 {
		t.accumulators[idx]--
		t.spawnOne(pos, dir, ps, rng)
	}
}

func (t *TrailEmitter) spawnOne(pos, dir Vec3, ps *ParticleSystem, rng *Rand) {
	right, up, forward := horizontalBasis(dir)

	jitter := func(extent float64) float64 {
		return (rng.Float64()*2 - 1) * extent
	}

	origin := pos.
		Sub(forward.Scale(t.cfg.EmissionOffset)).
		Add(right.Scale(jitter(t.cfg.HorizontalJitter))).
		Add(up.Scale(jitter(t.cfg.VerticalJitter)))

	speed := t.cfg.InitialSpeed + jitter(t.cfg.SpeedVariance)
	velocity := forward.Scale(-speed).
		Add(right.Scale(jitter(t.cfg.LateralDrift))).
		Add(up.Scale(jitter(t.cfg.VerticalDrift)))

	ps.Emit(Particle{
		Position:     origin,
		Velocity:     velocity,
		Acceleration: Vec3{0, -t.cfg.Gravity, 0},
		Color:        t.cfg.Colors[rng.IntN(len(t.cfg.Colors))],
		StartSize:    t.cfg.StartSize,
		EndSize:      t.cfg.EndSize,
		Lifetime:     t.cfg.ParticleLifetime,
	})
}
