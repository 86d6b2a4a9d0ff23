package skycity

import (
	"math"

	"github.com/lumen3d/skycity/bezier"
)

// Mesh names the flag simulator updates on the Renderer.
const (
	FlagMeshName        = "flag"
	FlagMarkersMeshName = "flag_control_points"
)

// flagFrame is the result of one asynchronous recomputation: the sampled
// surface vertices and the control points they were built from (captured
// for debug marker regeneration).
type flagFrame struct {
	vertices      []Vertex
	controlPoints []Vec3
}

// FlagSimulator animates the cloth flag as a Bézier surface over a
// procedurally displaced control-point grid. Recomputation runs on a worker
// goroutine with at most one job outstanding; the render therefore lags the
// live animation time by at most one completed job and the tick never
// blocks on it.
type FlagSimulator struct {
	cfg           FlagConfig
	animationTime float64
	job           PendingJob[flagFrame]
	controlPoints []Vec3 // most recently applied grid, for debug markers
}

// NewFlagSimulator creates the simulator. Control point counts below 2 are
// clamped up to 2, matching the mesh generators.
func NewFlagSimulator(cfg FlagConfig) *FlagSimulator {
	if cfg.ControlPointsU < 2 {
		cfg.ControlPointsU = 2
	}
	if cfg.ControlPointsV < 2 {
		cfg.ControlPointsV = 2
	}
	return &FlagSimulator{cfg: cfg}
}

// AnimationTime returns the accumulated cloth animation time.
func (f *FlagSimulator) AnimationTime() float64 {
	return f.animationTime
}

// Advance accumulates animation time, applies a completed recomputation if
// one is ready, and launches a new job when none is outstanding. The job
// snapshots the current animation time; its result corresponds to that
// snapshot, not to the apply tick.
func (f *FlagSimulator) Advance(tk Tick, r Renderer) {
	if !f.cfg.Enabled {
		return
	}
	f.animationTime += tk.Delta

	if frame, ok := f.job.TryTake(); ok {
		r.UpdateVerticesByName(FlagMeshName, frame.vertices)
		f.controlPoints = frame.controlPoints
		if f.cfg.DebugControlPoints {
			markers := ControlPointMarkers(f.controlPoints, f.cfg.MarkerSize, f.cfg.MarkerColor)
			r.UpdateVerticesByName(FlagMarkersMeshName, markers)
		}
	}

	if !f.job.IsOutstanding() {
		cfg := f.cfg
		snapshot := f.animationTime
		f.job.Launch(func() flagFrame {
			return computeFlagFrame(cfg, snapshot)
		})
	}
}

// computeFlagFrame displaces the control grid for the given animation time
// and samples the surface. Pure function of its arguments; the job owns the
// returned buffers exclusively until the consumer takes them.
func computeFlagFrame(cfg FlagConfig, animationTime float64) flagFrame {
	grid, flat := displacedControlGrid(cfg, animationTime)
	return flagFrame{
		vertices:      sampleFlagSurface(grid, cfg.SegmentsU, cfg.SegmentsV),
		controlPoints: flat,
	}
}

// flagHash is the deterministic per-control-point pseudo-random source used
// for phase, amplitude, and frequency variation. Pure function of the grid
// index and a stream seed.
func flagHash(i, j int, seed float64) float64 {
	v := math.Sin(float64(i)*12.9898+float64(j)*78.233+seed*37.719) * 43758.5453
	return v - math.Floor(v)
}

// displacedControlGrid builds the control grid for one animation instant.
// The pole edge (i = 0) is pinned to zero displacement; displacement
// magnitude grows quadratically with distance from the pole.
func displacedControlGrid(cfg FlagConfig, animationTime float64) (bezier.Surface, []Vec3) {
	nu, nv := cfg.ControlPointsU, cfg.ControlPointsV
	halfW, halfH := cfg.Width*0.5, cfg.Height*0.5
	wavePhase := animationTime * cfg.WaveFrequency * 2 * math.Pi

	points := make([][]bezier.Point3, nu)
	flat := make([]Vec3, 0, nu*nv)

	for i := 0; i < nu; i++ {
		u := float64(i) / float64(nu-1)
		x := lerp(-halfW, halfW, u)

		factor := lerp(0.25, 1, u*u)
		if i == 0 {
			factor = 0
		}

		points[i] = make([]bezier.Point3, nv)
		for j := 0; j < nv; j++ {
			v := float64(j) / float64(nv-1)
			y := lerp(-halfH, halfH, v)

			phase := flagHash(i, j, 0) * 2 * math.Pi
			ampScale := lerp(0.7, 1.4, flagHash(i, j, 1))
			freqScale := lerp(0.8, 1.6, flagHash(i, j, 2))
			drift := flagHash(i, j, 3)

			baseWave := v*2*math.Pi + wavePhase*freqScale + u*2 + phase
			lateralNoise := math.Sin(wavePhase*0.35 + drift*2*math.Pi)
			verticalNoise := math.Cos(wavePhase*0.55 + drift*math.Pi)

			offX := (math.Sin(baseWave) + lateralNoise*0.35) * cfg.WaveAmplitude * ampScale * factor * 1.1
			offZ := (math.Cos(baseWave) + verticalNoise*0.3) * cfg.WaveAmplitude * ampScale * factor * 0.95
			offY := math.Sin(v*math.Pi*3+wavePhase*1.3+u*1.5+phase*0.5) *
				cfg.WaveAmplitude * 0.35 * ampScale * factor

			p := bezier.Point3{X: x + offX, Y: y + offY, Z: offZ}
			points[i][j] = p
			flat = append(flat, Vec3{p.X, p.Y, p.Z})
		}
	}

	return bezier.Surface{Points: points}, flat
}

// sampleFlagSurface evaluates the surface over the fixed (segmentsU+1) ×
// (segmentsV+1) sampling. Topology never changes; only positions and
// normals do, so the vertex order must match the registered index buffer.
func sampleFlagSurface(surface bezier.Surface, segmentsU, segmentsV int) []Vertex {
	vertices := make([]Vertex, 0, (segmentsU+1)*(segmentsV+1))

	for v := 0; v <= segmentsV; v++ {
		vParam := float64(v) / float64(segmentsV)
		for u := 0; u <= segmentsU; u++ {
			uParam := float64(u) / float64(segmentsU)

			pos := surface.Evaluate(uParam, vParam)
			du, dv := surface.Tangents(uParam, vParam)

			normal := Vec3{du.X, du.Y, du.Z}.
				Cross(Vec3{dv.X, dv.Y, dv.Z}).
				NormalizedOr(Vec3{0, 0, 1})

			vertices = append(vertices, Vertex{
				Position: Vec3{pos.X, pos.Y, pos.Z},
				Normal:   normal,
				U:        uParam,
				V:        1 - vParam,
				Color:    ColorWhite,
			})
		}
	}
	return vertices
}

// GenerateFlagMesh builds the initial flag mesh from the undisplaced grid:
// fixed topology, flat surface. The simulator only ever replaces vertices.
func GenerateFlagMesh(cfg FlagConfig) Mesh {
	if cfg.ControlPointsU < 2 {
		cfg.ControlPointsU = 2
	}
	if cfg.ControlPointsV < 2 {
		cfg.ControlPointsV = 2
	}

	// Rest pose: the undisplaced flat grid.
	nu, nv := cfg.ControlPointsU, cfg.ControlPointsV
	halfW, halfH := cfg.Width*0.5, cfg.Height*0.5
	points := make([][]bezier.Point3, nu)
	for i := 0; i < nu; i++ {
		u := float64(i) / float64(nu-1)
		points[i] = make([]bezier.Point3, nv)
		for j := 0; j < nv; j++ {
			v := float64(j) / float64(nv-1)
			points[i][j] = bezier.Point3{
				X: lerp(-halfW, halfW, u),
				Y: lerp(-halfH, halfH, v),
			}
		}
	}
	grid := bezier.Surface{Points: points}

	mesh := Mesh{
		Name:     FlagMeshName,
		Vertices: sampleFlagSurface(grid, cfg.SegmentsU, cfg.SegmentsV),
	}

	for v := 0; v < cfg.SegmentsV; v++ {
		for u := 0; u < cfg.SegmentsU; u++ {
			topLeft := uint32(v*(cfg.SegmentsU+1) + u)
			topRight := topLeft + 1
			bottomLeft := uint32((v+1)*(cfg.SegmentsU+1) + u)
			bottomRight := bottomLeft + 1
			mesh.Indices = append(mesh.Indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight)
		}
	}
	return mesh
}

// markerFaces indexes the octahedron tip offsets into eight triangles.
var markerFaces = [8][3]int{
	{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 1},
	{5, 2, 1}, {5, 3, 2}, {5, 4, 3}, {5, 1, 4},
}

// ControlPointMarkers builds octahedron marker geometry centered on each
// control point. Pure function; used by the debug visualization and never
// run asynchronously.
func ControlPointMarkers(points []Vec3, size float64, color Color) []Vertex {
	half := size * 0.5
	offsets := [6]Vec3{
		{0, half, 0},
		{half, 0, 0},
		{0, 0, half},
		{-half, 0, 0},
		{0, 0, -half},
		{0, -half, 0},
	}

	vertices := make([]Vertex, 0, len(points)*len(markerFaces)*3)
	for _, center := range points {
		for _, face := range markerFaces {
			p0 := center.Add(offsets[face[0]])
			p1 := center.Add(offsets[face[1]])
			p2 := center.Add(offsets[face[2]])

			normal := p1.Sub(p0).Cross(p2.Sub(p0)).NormalizedOr(worldUp)
			for _, p := range [3]Vec3{p0, p1, p2} {
				vertices = append(vertices, Vertex{Position: p, Normal: normal, Color: color})
			}
		}
	}
	return vertices
}

// GenerateFlagpole builds the static pole cylinder and finial ball meshes.
func GenerateFlagpole(cfg FlagConfig) []Mesh {
	segments := cfg.PoleSegments
	if segments < 3 {
		segments = 3
	}

	pole := Mesh{Name: "flagpole_pole"}
	for i := 0; i <= segments; i++ {
		angle := float64(i) / float64(segments) * 2 * math.Pi
		x := math.Cos(angle) * cfg.PoleRadius
		z := math.Sin(angle) * cfg.PoleRadius
		normal := Vec3{x, 0, z}.NormalizedOr(Vec3{1, 0, 0})
		u := float64(i) / float64(segments)

		pole.Vertices = append(pole.Vertices,
			Vertex{Position: Vec3{x, 0, z}, Normal: normal, U: u, V: 0, Color: ColorWhite},
			Vertex{Position: Vec3{x, cfg.PoleHeight, z}, Normal: normal, U: u, V: 1, Color: ColorWhite},
		)
	}
	for i := 0; i < segments; i++ {
		bottom0 := uint32(i * 2)
		bottom1 := uint32((i + 1) * 2)
		top0 := bottom0 + 1
		top1 := bottom1 + 1
		pole.Indices = append(pole.Indices,
			bottom0, top0, bottom1,
			bottom1, top0, top1)
	}

	ball := Mesh{Name: "flagpole_ball"}
	rings := segments / 2
	if rings < 2 {
		rings = 2
	}
	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) / float64(rings) * math.Pi
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) / float64(segments) * 2 * math.Pi
			sinP, cosP := math.Sin(phi), math.Cos(phi)

			normal := Vec3{cosP * sinT, cosT, sinP * sinT}
			ball.Vertices = append(ball.Vertices, Vertex{
				Position: normal.Scale(cfg.PoleBallRadius).Add(Vec3{0, cfg.PoleHeight, 0}),
				Normal:   normal,
				U:        float64(seg) / float64(segments),
				V:        float64(ring) / float64(rings),
				Color:    ColorWhite,
			})
		}
	}
	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1
			ball.Indices = append(ball.Indices,
				current, next, current+1,
				current+1, next, next+1)
		}
	}

	return []Mesh{pole, ball}
}
