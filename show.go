package skycity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Mesh names the show drives on the Renderer. Lantern slots are named
// lantern_0 through lantern_{poolSize-1}.
const (
	AirplaneMeshName     = "airplane"
	MissileMeshName      = "missile"
	CityMeshName         = "city"
	FlagpolePoleMeshName = "flagpole_pole"
	FlagpoleBallMeshName = "flagpole_ball"
)

// WingmanMeshName returns the mesh name of wingman slot i.
func WingmanMeshName(i int) string {
	return fmt.Sprintf("wingman_%d", i)
}

// LanternMeshName returns the mesh name of lantern slot i.
func LanternMeshName(i int) string {
	return fmt.Sprintf("lantern_%d", i)
}

// MeshRegistrar is implemented by renderers that accept mesh registration
// from the show during Load. Backends that preload their own scene may omit
// it; the show then only drives the names it is given.
type MeshRegistrar interface {
	Register(name string, vertices []Vertex)
}

// Show owns every subsystem of the scripted scene and drives them in a
// fixed order once per frame. It is single-goroutine: all methods must be
// called from the same goroutine that created it.
type Show struct {
	cfg Config
	log zerolog.Logger

	renderer Renderer
	loader   AssetLoader
	rng      *Rand
	clock    *Clock
	elapsed  float64

	sky       *SkyCycle
	choreo    *Choreographer
	airplane  *Airplane
	missile   *Missile
	trails    *TrailEmitter
	flag      *FlagSimulator
	lanterns  *LanternPool
	particles *ParticleSystem

	lastPhase      CameraPhase
	lanternsLoaded bool

	// loaded meshes staged by the asset barrier, consumed by registration
	airplaneMeshes []Mesh
	missileMeshes  []Mesh
	cityMeshes     []Mesh
	lanternMeshes  []Mesh
}

// NewShow wires the subsystems together. cfg must already be validated.
func NewShow(cfg Config, r Renderer, loader AssetLoader, rng *Rand, log zerolog.Logger) *Show {
	return &Show{
		cfg:       cfg,
		log:       log,
		renderer:  r,
		loader:    loader,
		rng:       rng,
		clock:     NewClock(),
		sky:       NewSkyCycle(cfg.Sky),
		choreo:    NewChoreographer(cfg.Camera),
		airplane:  NewAirplane(cfg.Airplane),
		missile:   NewMissile(cfg.Missile),
		trails:    NewTrailEmitter(cfg.Trail, 1+len(cfg.Airplane.WingmanOffsets)),
		flag:      NewFlagSimulator(cfg.Flag),
		lanterns:  NewLanternPool(cfg.Lantern, rng),
		particles: NewParticleSystem(cfg.MaxParticles),
	}
}

// Load runs the startup asset barrier: every model loads in parallel and
// Load returns once all of them have finished. A failed critical asset
// aborts the show; a failed optional asset disables its feature for the
// run. Procedural geometry (flag, pole) is generated here as well.
func (s *Show) Load(ctx context.Context) error {
	jobs := []assetJob{
		{
			name:     "airplane",
			path:     s.cfg.Airplane.ModelPath,
			critical: true,
			apply:    func(m []Mesh) { s.airplaneMeshes = m },
		},
		{
			name:     "missile",
			path:     s.cfg.Missile.ModelPath,
			critical: true,
			apply:    func(m []Mesh) { s.missileMeshes = m },
		},
		{
			name:  "city",
			path:  s.cfg.CityPath,
			apply: func(m []Mesh) { s.cityMeshes = m },
		},
	}
	if s.cfg.Lantern.Enabled {
		jobs = append(jobs, assetJob{
			name: "lantern",
			path: s.cfg.Lantern.ModelPath,
			apply: func(m []Mesh) {
				s.lanternMeshes = m
				s.lanternsLoaded = true
			},
		})
	}

	if err := loadAssets(ctx, s.loader, jobs, s.log); err != nil {
		return err
	}
	if s.cfg.Lantern.Enabled && !s.lanternsLoaded {
		s.cfg.Lantern.Enabled = false
		s.lanterns = NewLanternPool(s.cfg.Lantern, s.rng)
	}

	s.registerMeshes()
	s.clock.Reset()
	s.log.Info().
		Int("lanterns", s.lanterns.Capacity()).
		Bool("flag", s.cfg.Flag.Enabled).
		Msg("assets loaded, show ready")
	return nil
}

// registerMeshes hands every named mesh slot to the renderer, if it accepts
// registration. Wingmen and lanterns share geometry across their slots.
func (s *Show) registerMeshes() {
	reg, ok := s.renderer.(MeshRegistrar)
	if !ok {
		return
	}

	reg.Register(AirplaneMeshName, combineMeshes(s.airplaneMeshes))
	for i := range s.cfg.Airplane.WingmanOffsets {
		reg.Register(WingmanMeshName(i), combineMeshes(s.airplaneMeshes))
	}
	reg.Register(MissileMeshName, combineMeshes(s.missileMeshes))
	if len(s.cityMeshes) > 0 {
		reg.Register(CityMeshName, combineMeshes(s.cityMeshes))
	}
	if s.cfg.Lantern.Enabled {
		lantern := combineMeshes(s.lanternMeshes)
		for i := 0; i < s.lanterns.Capacity(); i++ {
			reg.Register(LanternMeshName(i), lantern)
		}
	}

	if s.cfg.Flag.Enabled {
		flagMesh := GenerateFlagMesh(s.cfg.Flag)
		reg.Register(flagMesh.Name, flagMesh.Vertices)
		reg.Register(FlagMarkersMeshName, nil)
		s.renderer.SetTransformByName(FlagMeshName, s.flagTransform())
		s.renderer.SetTransformByName(FlagMarkersMeshName, s.flagTransform())

		if s.cfg.Flag.PoleEnabled {
			for _, m := range GenerateFlagpole(s.cfg.Flag) {
				reg.Register(m.Name, combineMeshes([]Mesh{m}))
				s.renderer.SetTransformByName(m.Name, Transform{
					Position: s.cfg.Flag.Position,
					Scale:    Vec3{1, 1, 1},
				})
			}
		}
	}
}

// flagTransform places the cloth next to the pole top; the pole edge of the
// surface (u = 0) is what stays pinned.
func (s *Show) flagTransform() Transform {
	cfg := s.cfg.Flag
	return Transform{
		Position: cfg.Position.Add(Vec3{0, cfg.PoleHeight - cfg.Height*0.5, 0}),
		Yaw:      cfg.Yaw,
		Scale:    Vec3{1, 1, 1},
	}
}

// Tick advances the show by the wall-clock delta since the last call.
func (s *Show) Tick() Tick {
	return s.Step(s.clock.Tick())
}

// Step advances the show by an explicit delta in seconds. The update order
// is fixed: clock, sky, camera begin, airplane, missile, camera finalize,
// flag, lanterns, particles, then emission to the renderer. Reordering any
// of these changes the single-tick hand-off semantics.
func (s *Show) Step(dt float64) Tick {
	s.elapsed += dt
	tk := Tick{Elapsed: s.elapsed, Delta: dt}

	blend := s.sky.Blend(tk.Elapsed)
	s.choreo.BeginTick(tk)

	despawned := s.airplane.Advance(tk)
	if s.airplane.Active {
		s.emitTrails(tk)
	}
	if s.choreo.Phase() == PhaseHoldAtHandoff {
		s.airplane.TrackCamera(s.choreo.Camera())
	}

	exploded := s.missile.Advance(tk, s.airplane)
	if s.choreo.Phase() == PhaseHoldAtHandoff {
		s.missile.TrackCamera(tk, s.choreo.Camera())
	}
	if exploded {
		point := s.missile.ExplosionPoint()
		s.log.Info().
			Float64("elapsed", tk.Elapsed).
			Floats64("point", []float64{point.X, point.Y, point.Z}).
			Msg("missile impact")
		s.choreo.NotifyExplosion(point)
		s.missile.EmitExplosion(s.particles, s.rng)
		// The airplane may already be gone; the resume trigger must not be lost.
		if !s.airplane.Active && s.airplane.HasSpawned {
			s.choreo.RequestResume()
		}
	}
	if despawned && s.missile.Exploded {
		s.choreo.RequestResume()
	}

	entityActive := s.airplane.Active || s.missile.Active
	s.choreo.FinalizeTick(tk, entityActive)
	s.logPhaseChange(tk)

	s.flag.Advance(tk, s.renderer)
	s.lanterns.Advance(tk)
	s.particles.Update(tk.Delta)

	s.emit(tk, blend)
	return tk
}

// emitTrails feeds the per-aircraft trail emitters for this tick.
func (s *Show) emitTrails(tk Tick) {
	if !s.cfg.Trail.Enabled {
		return
	}
	s.trails.Emit(0, s.airplane.Position, s.airplane.Direction, tk.Delta, s.particles, s.rng)
	for i, pos := range s.airplane.WingmanPositions() {
		s.trails.Emit(1+i, pos, s.airplane.Direction, tk.Delta, s.particles, s.rng)
	}
}

// emit pushes this tick's results into the renderer.
func (s *Show) emit(tk Tick, blend float64) {
	s.renderer.SetTransformByName(AirplaneMeshName, s.airplane.Transform())
	positions := s.airplane.WingmanPositions()
	for i := range s.cfg.Airplane.WingmanOffsets {
		s.renderer.SetTransformByName(WingmanMeshName(i), s.airplane.WingmanTransform(i, positions))
	}
	s.renderer.SetTransformByName(MissileMeshName, s.missile.Transform())

	if s.cfg.Lantern.Enabled {
		for i := 0; i < s.lanterns.Capacity(); i++ {
			s.renderer.SetTransformByName(LanternMeshName(i), s.lanterns.Transform(i))
		}
	}

	s.renderer.SetPointLights(s.lanterns.Lights())
	s.renderer.SetEnvironmentBlend(blend)
	s.renderer.SetParticles(s.particles.Snapshot())
}

// logPhaseChange records camera phase transitions.
func (s *Show) logPhaseChange(tk Tick) {
	phase := s.choreo.Phase()
	if phase == s.lastPhase {
		return
	}
	s.log.Info().
		Float64("elapsed", tk.Elapsed).
		Str("from", s.lastPhase.String()).
		Str("to", phase.String()).
		Msg("camera phase change")
	s.lastPhase = phase
}

// Camera returns the current camera pose.
func (s *Show) Camera() *CameraState {
	return s.choreo.Camera()
}

// Choreographer returns the camera choreographer.
func (s *Show) Choreographer() *Choreographer {
	return s.choreo
}

// Airplane returns the airplane animator.
func (s *Show) Airplane() *Airplane {
	return s.airplane
}

// Missile returns the missile animator.
func (s *Show) Missile() *Missile {
	return s.missile
}

// Lanterns returns the lantern pool.
func (s *Show) Lanterns() *LanternPool {
	return s.lanterns
}

// Flag returns the cloth simulator.
func (s *Show) Flag() *FlagSimulator {
	return s.flag
}

// Particles returns the shared particle system.
func (s *Show) Particles() *ParticleSystem {
	return s.particles
}

// Sky returns the day/night cycle.
func (s *Show) Sky() *SkyCycle {
	return s.sky
}

// Elapsed returns the total show time in seconds.
func (s *Show) Elapsed() float64 {
	return s.elapsed
}

// combineMeshes flattens a set of meshes into one triangle-list vertex
// buffer, expanding index data so multi-material models collapse into a
// single named slot.
func combineMeshes(meshes []Mesh) []Vertex {
	total := 0
	for _, m := range meshes {
		if len(m.Indices) > 0 {
			total += len(m.Indices)
		} else {
			total += len(m.Vertices)
		}
	}

	out := make([]Vertex, 0, total)
	for _, m := range meshes {
		if len(m.Indices) == 0 {
			out = append(out, m.Vertices...)
			continue
		}
		for _, idx := range m.Indices {
			out = append(out, m.Vertices[idx])
		}
	}
	return out
}
