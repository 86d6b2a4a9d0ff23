package skycity

import (
	"github.com/rs/zerolog"
)

// Renderer is the drawing backend the simulation pushes its results into.
// Implementations own buffers, textures, and draw submission; the core only
// hands them transforms, vertex data, and lights from the driving goroutine.
//
// Name-based lookups return false for unknown meshes. The core treats that
// as non-fatal: animation continues and the miss is logged at most once per
// name.
type Renderer interface {
	// SetTransformByName replaces the transform of a named mesh.
	SetTransformByName(name string, tf Transform) bool
	// UpdateVerticesByName replaces the vertex buffer of a named mesh.
	// Topology (index data) is fixed at registration time.
	UpdateVerticesByName(name string, vertices []Vertex) bool
	// SetPointLights replaces the scene's point-light list.
	SetPointLights(lights []Light)
	// SetEnvironmentBlend sets the day/night blend factor in [0, 1].
	SetEnvironmentBlend(blend float64)
	// SetParticles hands over the render-ready particle buffer for this
	// frame. The slice is only valid until the next Tick.
	SetParticles(particles []ParticleVertex)
}

// TableRenderer is a Renderer backed by name-keyed tables. It is the
// reference implementation used by tests and the example frontend; a GPU
// backend would consume the same calls.
type TableRenderer struct {
	names      []string
	transforms map[string]Transform
	vertices   map[string][]Vertex
	lights     []Light
	particles  []ParticleVertex
	blend      float64

	log    zerolog.Logger
	warned map[string]struct{}
}

// NewTableRenderer creates an empty TableRenderer.
func NewTableRenderer(log zerolog.Logger) *TableRenderer {
	return &TableRenderer{
		transforms: make(map[string]Transform),
		vertices:   make(map[string][]Vertex),
		log:        log,
		warned:     make(map[string]struct{}),
	}
}

// Register adds a named mesh slot. Transforms and vertex updates for names
// that were never registered are rejected (and warned about once).
func (r *TableRenderer) Register(name string, vertices []Vertex) {
	if _, ok := r.transforms[name]; !ok {
		r.names = append(r.names, name)
	}
	r.transforms[name] = Transform{Scale: Vec3{1, 1, 1}}
	r.vertices[name] = vertices
}

// Has reports whether a mesh with the given name is registered.
func (r *TableRenderer) Has(name string) bool {
	_, ok := r.transforms[name]
	return ok
}

// SetTransformByName implements Renderer.
func (r *TableRenderer) SetTransformByName(name string, tf Transform) bool {
	if _, ok := r.transforms[name]; !ok {
		r.warnUnknown(name)
		return false
	}
	r.transforms[name] = tf
	return true
}

// UpdateVerticesByName implements Renderer.
func (r *TableRenderer) UpdateVerticesByName(name string, vertices []Vertex) bool {
	if _, ok := r.vertices[name]; !ok {
		r.warnUnknown(name)
		return false
	}
	r.vertices[name] = vertices
	return true
}

// SetPointLights implements Renderer.
func (r *TableRenderer) SetPointLights(lights []Light) {
	r.lights = append(r.lights[:0], lights...)
}

// SetEnvironmentBlend implements Renderer.
func (r *TableRenderer) SetEnvironmentBlend(blend float64) {
	r.blend = clamp(blend, 0, 1)
}

// SetParticles implements Renderer.
func (r *TableRenderer) SetParticles(particles []ParticleVertex) {
	r.particles = append(r.particles[:0], particles...)
}

// Transform returns the current transform of a named mesh.
func (r *TableRenderer) Transform(name string) (Transform, bool) {
	tf, ok := r.transforms[name]
	return tf, ok
}

// Vertices returns the current vertex buffer of a named mesh.
func (r *TableRenderer) Vertices(name string) ([]Vertex, bool) {
	v, ok := r.vertices[name]
	return v, ok
}

// Lights returns the most recent point-light list.
func (r *TableRenderer) Lights() []Light {
	return r.lights
}

// Particles returns the most recent particle buffer.
func (r *TableRenderer) Particles() []ParticleVertex {
	return r.particles
}

// EnvironmentBlend returns the most recent day/night blend factor.
func (r *TableRenderer) EnvironmentBlend() float64 {
	return r.blend
}

// Names returns registered mesh names in registration order.
func (r *TableRenderer) Names() []string {
	return r.names
}

// warnUnknown logs an unknown-name miss, once per distinct name.
func (r *TableRenderer) warnUnknown(name string) {
	if _, seen := r.warned[name]; seen {
		return
	}
	r.warned[name] = struct{}{}
	r.log.Warn().Str("mesh", name).Msg("update for unknown mesh name; ignoring")
}
