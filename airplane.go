package skycity

import "math"

// Airplane is the scripted formation-leader animator. It spawns exactly
// once, flies a fixed heading at constant speed, and despawns after its
// configured lifetime. Wingman positions are derived from the leader every
// tick rather than integrated, so the formation can never drift apart.
type Airplane struct {
	cfg AirplaneConfig

	Active     bool
	HasSpawned bool
	SpawnTime  float64
	Position   Vec3
	Direction  Vec3 // unit heading
}

// NewAirplane creates the animator in its pre-spawn state.
func NewAirplane(cfg AirplaneConfig) *Airplane {
	return &Airplane{
		cfg:       cfg,
		Direction: cfg.Direction.NormalizedOr(Vec3{1, 0, 0}),
	}
}

// Advance moves the airplane for this tick. It returns true on the single
// tick the airplane despawns, which is the camera-resume trigger point.
func (a *Airplane) Advance(tk Tick) (despawned bool) {
	if !a.HasSpawned && tk.Elapsed >= a.cfg.SpawnTime {
		a.HasSpawned = true
		a.Active = true
		a.SpawnTime = tk.Elapsed
		a.Position = a.startPoint()
	}
	if !a.Active {
		return false
	}

	flightTime := tk.Elapsed - a.SpawnTime
	a.Position = a.startPoint().Add(a.Direction.Scale(a.cfg.Speed * flightTime))

	if a.cfg.Lifetime > 0 && flightTime > a.cfg.Lifetime {
		a.Active = false
		return true
	}
	return false
}

// startPoint is the spawn position including the cruise-height offset.
func (a *Airplane) startPoint() Vec3 {
	return a.cfg.StartPosition.Add(Vec3{0, a.cfg.Height, 0})
}

// Yaw returns the model yaw in degrees: heading plus the +90° offset the
// model convention requires.
func (a *Airplane) Yaw() float64 {
	return math.Atan2(a.Direction.Z, a.Direction.X)*180/math.Pi + 90
}

// WingmanPositions recomputes the four formation positions from the current
// leader position and heading basis.
func (a *Airplane) WingmanPositions() []Vec3 {
	right, up, forward := horizontalBasis(a.Direction)
	positions := make([]Vec3, len(a.cfg.WingmanOffsets))
	for i, off := range a.cfg.WingmanOffsets {
		positions[i] = a.Position.
			Add(right.Scale(off.X)).
			Add(up.Scale(off.Y)).
			Add(forward.Scale(off.Z))
	}
	return positions
}

// TrackCamera places the camera behind and above the airplane, looking at
// it. Called during hand-off phases when tracking is enabled.
func (a *Airplane) TrackCamera(cam *CameraState) {
	if !a.cfg.CameraTracking || !a.Active {
		return
	}
	_, _, forward := horizontalBasis(a.Direction)
	cam.Position = a.Position.
		Sub(forward.Scale(a.cfg.CameraDistance)).
		Add(Vec3{0, a.cfg.CameraHeight, 0})
	cam.LookAt(a.Position)
}

// Transform returns the leader's render transform, or a hidden transform
// after despawn.
func (a *Airplane) Transform() Transform {
	if !a.Active {
		return HiddenTransform(a.Position)
	}
	return Transform{
		Position: a.Position,
		Yaw:      a.Yaw(),
		Scale:    a.cfg.Scale,
	}
}

// WingmanTransform returns the render transform of wingman i.
func (a *Airplane) WingmanTransform(i int, positions []Vec3) Transform {
	if !a.Active {
		return HiddenTransform(a.Position)
	}
	return Transform{
		Position: positions[i],
		Yaw:      a.Yaw(),
		Scale:    a.cfg.WingmanScale,
	}
}
