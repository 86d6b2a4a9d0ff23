package skycity

import "testing"

func emitN(ps *ParticleSystem, n int, lifetime float64) {
	for i := 0; i < n; i++ {
		ps.Emit(Particle{
			Position:  Vec3{float64(i), 0, 0},
			Velocity:  Vec3{1, 2, 3},
			Color:     Color{1, 1, 1, 1},
			StartSize: 10,
			EndSize:   5,
			Lifetime:  lifetime,
		})
	}
}

func TestParticleEmitAndDrain(t *testing.T) {
	ps := NewParticleSystem(100)
	emitN(ps, 50, 1)

	if ps.AliveCount() != 50 {
		t.Fatalf("alive = %d, want 50", ps.AliveCount())
	}

	ps.Update(0.5)
	if ps.AliveCount() != 50 {
		t.Fatalf("particles died early: alive = %d", ps.AliveCount())
	}

	ps.Update(0.6)
	if ps.AliveCount() != 0 {
		t.Fatalf("particles survived their lifetime: alive = %d", ps.AliveCount())
	}
}

func TestParticleEmitDropsAtCapacity(t *testing.T) {
	ps := NewParticleSystem(10)
	emitN(ps, 25, 1)
	if ps.AliveCount() != 10 {
		t.Fatalf("alive = %d, want capacity 10", ps.AliveCount())
	}
}

func TestParticleEulerIntegration(t *testing.T) {
	ps := NewParticleSystem(10)
	ps.Emit(Particle{
		Velocity:     Vec3{10, 0, 0},
		Acceleration: Vec3{0, -100, 0},
		Color:        Color{1, 1, 1, 1},
		StartSize:    10,
		EndSize:      10,
		Lifetime:     10,
	})

	// Semi-implicit Euler: velocity first, then position.
	ps.Update(0.1)
	p := ps.particles[0]
	assertVec3Near(t, "velocity", p.Velocity, Vec3{10, -10, 0})
	assertVec3Near(t, "position", p.Position, Vec3{1, -1, 0})
}

func TestParticleFadeAndShrink(t *testing.T) {
	ps := NewParticleSystem(10)
	ps.Emit(Particle{
		Color:     Color{1, 1, 1, 0.8},
		StartSize: 100,
		EndSize:   20,
		Lifetime:  2,
	})

	ps.Update(1)
	snap := ps.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("snapshot size = %d, want 1", len(snap))
	}
	assertNear(t, "half-life alpha", snap[0].Color.A, 0.4)
	assertNear(t, "half-life size", snap[0].Size, 60)
}

func TestSnapshotExcludesDeadAndInvisible(t *testing.T) {
	ps := NewParticleSystem(10)
	emitN(ps, 3, 0.5)
	ps.Update(0.4999)

	// Alpha has faded to 0.02% of its start; below the snapshot cutoff.
	if len(ps.Snapshot()) != 0 {
		t.Fatalf("snapshot rendered nearly-dead particles: %d", len(ps.Snapshot()))
	}

	ps.Update(0.01)
	if ps.AliveCount() != 0 {
		t.Fatalf("particles not compacted: alive = %d", ps.AliveCount())
	}
	if len(ps.Snapshot()) != 0 {
		t.Fatal("snapshot rendered dead particles")
	}
}

func TestParticleLifetimeFloor(t *testing.T) {
	ps := NewParticleSystem(10)
	ps.Emit(Particle{Color: Color{1, 1, 1, 1}, Lifetime: 0})
	if ps.particles[0].Lifetime < 0.01 {
		t.Fatalf("lifetime floor not applied: %v", ps.particles[0].Lifetime)
	}
}

func TestParticleCompactionKeepsSurvivors(t *testing.T) {
	ps := NewParticleSystem(100)
	// Interleave short- and long-lived particles.
	for i := 0; i < 20; i++ {
		lifetime := 0.1
		if i%2 == 0 {
			lifetime = 10
		}
		ps.Emit(Particle{
			Position: Vec3{float64(i), 0, 0},
			Color:    Color{1, 1, 1, 1},
			Lifetime: lifetime,
		})
	}

	ps.Update(0.2)
	if ps.AliveCount() != 10 {
		t.Fatalf("alive = %d, want 10 survivors", ps.AliveCount())
	}
	// Every survivor is one of the even-indexed (long-lived) particles.
	for i := 0; i < ps.AliveCount(); i++ {
		x := int(ps.particles[i].Position.X)
		if x%2 != 0 {
			t.Fatalf("short-lived particle %d survived compaction", x)
		}
	}
}

func TestParticleParallelUpdateMatchesSerial(t *testing.T) {
	// Two systems with identical contents, one above the parallel split
	// threshold and one forced through in smaller generations, must agree.
	big := NewParticleSystem(3000)
	small := NewParticleSystem(3000)

	for i := 0; i < 2000; i++ {
		p := Particle{
			Position:     Vec3{float64(i), float64(i % 7), 0},
			Velocity:     Vec3{1, -2, 0.5},
			Acceleration: Vec3{0, -9.8, 0},
			Color:        Color{1, 1, 1, 1},
			StartSize:    10,
			EndSize:      0.5,
			Lifetime:     100,
		}
		big.Emit(p)
		small.Emit(p)
	}

	big.Update(0.016) // 2000 alive: parallel path
	for i := 0; i < 2000; i++ {
		small.integrateRange(i, i+1, 0.016) // strictly serial
	}

	for i := 0; i < 2000; i++ {
		a, b := big.particles[i], small.particles[i]
		if a.Position != b.Position || a.Velocity != b.Velocity {
			t.Fatalf("particle %d diverged: %+v vs %+v", i, a, b)
		}
	}
}

func TestParticleUpdateNegativeDelta(t *testing.T) {
	ps := NewParticleSystem(10)
	emitN(ps, 5, 1)
	ps.Update(-1)
	if ps.AliveCount() != 5 {
		t.Fatalf("negative delta killed particles: alive = %d", ps.AliveCount())
	}
}

func TestNewParticleSystemDefaultCapacity(t *testing.T) {
	ps := NewParticleSystem(0)
	if ps.Capacity() <= 0 {
		t.Fatalf("capacity = %d, want positive default", ps.Capacity())
	}
}
