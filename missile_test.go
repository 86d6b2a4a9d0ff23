package skycity

import (
	"math"
	"testing"
)

func testMissileConfig() MissileConfig {
	return MissileConfig{
		DropDelay:        1,
		FallSpeed:        700,
		FallAngle:        60,
		Scale:            Vec3{0.08, 0.08, 0.08},
		GroundHeight:     6000,
		RotationSpeed:    180,
		CameraTrackDelay: 2,
		CameraDistance:   200,
		CameraHeight:     50,
		CameraLookAhead:  50,

		ExplosionEnabled:   true,
		ExplosionCount:     420,
		ExplosionSpeed:     Range{550, 1400},
		ExplosionLifetime:  Range{6.1, 8.6},
		ExplosionStartSize: 280,
		ExplosionEndSize:   30,
		ExplosionGravity:   220,
		ExplosionColors:    []Color{{1, 0, 0, 1}, {0, 1, 0, 1}},
	}
}

// spawnedPlane returns an airplane already flying, spawned at elapsed 2.
func spawnedPlane(t *testing.T) *Airplane {
	t.Helper()
	a := NewAirplane(testAirplaneConfig())
	a.Advance(Tick{Elapsed: 2, Delta: 0.1})
	if !a.Active {
		t.Fatal("test airplane failed to spawn")
	}
	return a
}

func TestMissileWaitsForDropDelay(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)

	m.Advance(Tick{Elapsed: 2.9, Delta: 0.1}, plane)
	if m.Active || m.HasSpawned {
		t.Fatal("missile dropped before the delay")
	}

	m.Advance(Tick{Elapsed: 3.0, Delta: 0.1}, plane)
	if !m.Active || !m.HasSpawned {
		t.Fatal("missile did not drop after the delay")
	}
}

func TestMissileNeverDropsWithoutPlane(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := NewAirplane(testAirplaneConfig())

	m.Advance(Tick{Elapsed: 50, Delta: 0.1}, plane)
	if m.HasSpawned {
		t.Fatal("missile dropped from an unspawned airplane")
	}
}

func TestMissileDropVelocityComponents(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)

	m.Advance(Tick{Elapsed: 3.0, Delta: 0.1}, plane)

	// 60 degree fall angle: horizontal = 700·cos60 along the heading,
	// vertical = 700·sin60 downward.
	wantH := 700 * math.Cos(60*math.Pi/180)
	wantV := -700 * math.Sin(60*math.Pi/180)
	assertNearEps(t, "horizontal velocity", m.Velocity.X, wantH, 1e-9)
	assertNearEps(t, "vertical velocity", m.Velocity.Y, wantV, 1e-9)
	assertNear(t, "lateral velocity", m.Velocity.Z, 0)
}

func TestMissileIntegratesFromPlanePosition(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)
	planePos := plane.Position

	m.Advance(Tick{Elapsed: 3.0, Delta: 0.5}, plane)
	want := planePos.Add(m.Velocity.Scale(0.5))
	assertVec3Near(t, "first integration step", m.Position, want)
}

func TestMissileRollWraps(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)
	m.Advance(Tick{Elapsed: 3.0, Delta: 0}, plane)

	// 180 deg/s for 3 seconds is 540, wrapped into [0, 360).
	for i := 0; i < 30; i++ {
		m.Advance(Tick{Elapsed: 3.0 + float64(i+1)*0.1, Delta: 0.1}, plane)
	}
	assertNearEps(t, "wrapped roll", m.RollAngle, 180, 1e-6)
	if m.RollAngle < 0 || m.RollAngle >= 360 {
		t.Errorf("roll angle %v outside [0, 360)", m.RollAngle)
	}
}

func TestMissileExplodesExactlyOnce(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)

	explosions := 0
	elapsed := 2.0
	for i := 0; i < 2000; i++ {
		elapsed += 0.01
		plane.Advance(Tick{Elapsed: elapsed, Delta: 0.01})
		if m.Advance(Tick{Elapsed: elapsed, Delta: 0.01}, plane) {
			explosions++
		}
	}

	if explosions != 1 {
		t.Fatalf("explosion reported %d times, want 1", explosions)
	}
	if m.Active {
		t.Fatal("missile still active after exploding")
	}
	if !m.Exploded {
		t.Fatal("missile not marked exploded")
	}
	if m.ExplosionPoint().Y > testMissileConfig().GroundHeight {
		t.Errorf("explosion point above ground: %v", m.ExplosionPoint())
	}
}

func TestMissileStaysDeadAfterExplosion(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)

	// Force the missile straight to ground contact.
	m.Advance(Tick{Elapsed: 3.0, Delta: 0}, plane)
	m.Position.Y = testMissileConfig().GroundHeight - 1
	if !m.Advance(Tick{Elapsed: 3.1, Delta: 0.0001}, plane) {
		t.Fatal("expected ground contact")
	}

	if m.Advance(Tick{Elapsed: 10, Delta: 0.1}, plane) {
		t.Fatal("exploded missile advanced again")
	}
	tf := m.Transform()
	if tf.Scale != (Vec3{}) {
		t.Errorf("exploded transform scale = %v, want zero", tf.Scale)
	}
}

func TestMissileTrackCameraRespectsDelay(t *testing.T) {
	m := NewMissile(testMissileConfig())
	plane := spawnedPlane(t)
	m.Advance(Tick{Elapsed: 3.0, Delta: 0.1}, plane)

	cam := CameraState{Position: Vec3{7, 7, 7}}
	m.TrackCamera(Tick{Elapsed: 4.0, Delta: 0.1}, &cam)
	assertVec3Near(t, "camera untouched during delay", cam.Position, Vec3{7, 7, 7})

	m.TrackCamera(Tick{Elapsed: 5.0, Delta: 0.1}, &cam)
	if cam.Position == (Vec3{7, 7, 7}) {
		t.Fatal("camera not moved after tracking delay")
	}
	forward := m.Velocity.Normalized()
	want := m.Position.Sub(forward.Scale(200)).Add(Vec3{0, 50, 0})
	assertVec3Near(t, "chase position", cam.Position, want)
}

func TestEmitExplosionFillsBurst(t *testing.T) {
	cfg := testMissileConfig()
	m := NewMissile(cfg)
	plane := spawnedPlane(t)
	m.Advance(Tick{Elapsed: 3.0, Delta: 0}, plane)
	m.Position.Y = cfg.GroundHeight - 1
	m.Advance(Tick{Elapsed: 3.1, Delta: 0.0001}, plane)

	ps := NewParticleSystem(1000)
	rng := NewRand(7)
	m.EmitExplosion(ps, rng)

	if ps.AliveCount() != cfg.ExplosionCount {
		t.Fatalf("burst emitted %d particles, want %d", ps.AliveCount(), cfg.ExplosionCount)
	}
}

func TestEmitExplosionRespectsCapacity(t *testing.T) {
	cfg := testMissileConfig()
	m := NewMissile(cfg)
	plane := spawnedPlane(t)
	m.Advance(Tick{Elapsed: 3.0, Delta: 0}, plane)
	m.Position.Y = cfg.GroundHeight - 1
	m.Advance(Tick{Elapsed: 3.1, Delta: 0.0001}, plane)

	ps := NewParticleSystem(100)
	m.EmitExplosion(ps, NewRand(7))
	if ps.AliveCount() != 100 {
		t.Fatalf("burst overflowed the pool: %d alive", ps.AliveCount())
	}
}

func TestEmitExplosionDisabled(t *testing.T) {
	cfg := testMissileConfig()
	cfg.ExplosionEnabled = false
	m := NewMissile(cfg)
	ps := NewParticleSystem(1000)
	m.EmitExplosion(ps, NewRand(7))
	if ps.AliveCount() != 0 {
		t.Fatalf("disabled burst emitted %d particles", ps.AliveCount())
	}
}
