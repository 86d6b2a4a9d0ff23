package skycity

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraState is the camera pose the show renders from. It is owned by the
// Choreographer; entity animators write it only during hand-off phases.
type CameraState struct {
	Position Vec3
	Yaw      float64 // degrees
	Pitch    float64 // degrees, clamped to [-89, 89]
	FOV      float64 // degrees, clamped to [10, 120]
}

// SetRotation sets yaw and pitch, clamping pitch to avoid gimbal flip.
func (c *CameraState) SetRotation(yaw, pitch float64) {
	c.Yaw = yaw
	c.Pitch = clamp(pitch, -89, 89)
}

// SetFOV sets the field of view, clamped to a usable range.
func (c *CameraState) SetFOV(fov float64) {
	c.FOV = clamp(fov, 10, 120)
}

// LookAt orients the camera toward target. A target coincident with the
// camera position leaves the rotation unchanged.
func (c *CameraState) LookAt(target Vec3) {
	dir := target.Sub(c.Position)
	if dir.NormalizedOr(Vec3{}) == (Vec3{}) {
		return
	}
	yaw, pitch := yawPitchFromDirection(dir)
	c.SetRotation(yaw, pitch)
}

// Forward returns the unit view direction derived from yaw and pitch.
func (c *CameraState) Forward() Vec3 {
	return directionFromYawPitch(c.Yaw, c.Pitch)
}

// Right returns the unit right vector (forward × world up).
func (c *CameraState) Right() Vec3 {
	return c.Forward().Cross(worldUp).NormalizedOr(Vec3{0, 0, -1})
}

// Up returns the unit up vector (right × forward).
func (c *CameraState) Up() Vec3 {
	return c.Right().Cross(c.Forward()).NormalizedOr(worldUp)
}

// CameraPhase identifies the choreographer's state.
type CameraPhase uint8

const (
	// PhaseKeyframeTraversal interpolates through the authored keyframes.
	PhaseKeyframeTraversal CameraPhase = iota
	// PhaseHoldAtHandoff parks at the hand-off keyframe while the airplane
	// and missile animators own the camera.
	PhaseHoldAtHandoff
	// PhaseExplosionHold watches the explosion point from the hand-off
	// keyframe until the airplane despawns.
	PhaseExplosionHold
	// PhaseResumeToFinal glides from the tracked pose to the final keyframe.
	PhaseResumeToFinal
	// PhaseTerminal rests at the final keyframe.
	PhaseTerminal
)

// String returns the phase name for logs and test failures.
func (p CameraPhase) String() string {
	switch p {
	case PhaseKeyframeTraversal:
		return "KeyframeTraversal"
	case PhaseHoldAtHandoff:
		return "HoldAtHandoff"
	case PhaseExplosionHold:
		return "ExplosionHold"
	case PhaseResumeToFinal:
		return "ResumeToFinal"
	default:
		return "Terminal"
	}
}

// resumeMotion holds the tweens carrying the camera from its snapshot pose
// to the final keyframe. Created on ResumeToFinal entry so the glide starts
// exactly where tracking left the camera (no visible jump).
type resumeMotion struct {
	x, y, z    *gween.Tween
	yaw, pitch *gween.Tween
	fov        *gween.Tween
	done       bool
}

// smoothstepEase is the t²(3−2t) curve as a gween easing function.
func smoothstepEase(t, b, c, d float32) float32 {
	p := float32(1)
	if d > 0 {
		p = t / d
	}
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	return b + c*(p*p*(3-2*p))
}

// Choreographer drives the camera through its five phases. Cumulative
// keyframe times are prefix sums of the configured transition durations.
type Choreographer struct {
	cfg        CameraConfig
	cam        CameraState
	cumulative []float64 // cumulative[i] = elapsed seconds at keyframe i

	phase          CameraPhase
	handoffSnapped bool
	exploded       bool
	explosionPoint Vec3
	resume         *resumeMotion
}

// NewChoreographer creates a Choreographer for the given keyframe set.
// The camera starts at keyframe 0 with the default FOV.
func NewChoreographer(cfg CameraConfig) *Choreographer {
	cumulative := make([]float64, len(cfg.Keyframes))
	for i, d := range cfg.TransitionTimes {
		cumulative[i+1] = cumulative[i] + math.Max(0, d)
	}

	ch := &Choreographer{cfg: cfg, cumulative: cumulative}
	ch.applyKeyframe(cfg.Keyframes[0])
	ch.cam.SetFOV(cfg.DefaultFOV)
	return ch
}

// Camera returns the pose. Entity animators write through this pointer
// during hand-off phases; everything else must treat it as read-only.
func (c *Choreographer) Camera() *CameraState {
	return &c.cam
}

// Phase returns the current phase.
func (c *Choreographer) Phase() CameraPhase {
	return c.phase
}

// handoffIndex returns the keyframe index control is handed to the entity
// animators at: the second-to-last keyframe.
func (c *Choreographer) handoffIndex() int {
	return len(c.cfg.Keyframes) - 2
}

// BeginTick runs the phase decision before the entity animators. During
// traversal it positions the camera for this frame; at hand-off it snaps to
// the hand-off keyframe exactly once and then leaves the pose alone so the
// animators can drive it.
func (c *Choreographer) BeginTick(tk Tick) {
	if !c.cfg.Enabled {
		return
	}

	switch c.phase {
	case PhaseKeyframeTraversal:
		handoffTime := c.cumulative[c.handoffIndex()]
		if tk.Elapsed >= handoffTime {
			c.phase = PhaseHoldAtHandoff
			c.applyKeyframe(c.cfg.Keyframes[c.handoffIndex()])
			c.handoffSnapped = true
			return
		}
		c.traverse(tk.Elapsed)
	case PhaseHoldAtHandoff:
		if !c.handoffSnapped {
			c.applyKeyframe(c.cfg.Keyframes[c.handoffIndex()])
			c.handoffSnapped = true
		}
	}
}

// NotifyExplosion records the explosion point, snaps the camera back to the
// hand-off keyframe position, and aims it at the blast.
func (c *Choreographer) NotifyExplosion(point Vec3) {
	c.exploded = true
	c.explosionPoint = point
	if c.phase == PhaseHoldAtHandoff {
		c.phase = PhaseExplosionHold
	}
	c.cam.Position = c.cfg.Keyframes[c.handoffIndex()].Position
	c.cam.LookAt(point)
}

// RequestResume starts the glide to the final keyframe from the current
// camera pose. Called by the show when the airplane despawns after the
// explosion; the snapshot-at-entry is what prevents a visible jump.
func (c *Choreographer) RequestResume() {
	if c.phase == PhaseResumeToFinal || c.phase == PhaseTerminal {
		return
	}
	c.phase = PhaseResumeToFinal

	final := c.cfg.Keyframes[len(c.cfg.Keyframes)-1]
	duration := float32(c.cfg.TransitionTimes[len(c.cfg.TransitionTimes)-1])
	if duration <= 0 {
		c.applyFinal(final)
		return
	}

	// Yaw tweens along the shortest angular path from the snapshot.
	yawTarget := c.cam.Yaw + shortestAngleDelta(c.cam.Yaw, final.Yaw)

	c.resume = &resumeMotion{
		x:     gween.New(float32(c.cam.Position.X), float32(final.Position.X), duration, smoothstepEase),
		y:     gween.New(float32(c.cam.Position.Y), float32(final.Position.Y), duration, smoothstepEase),
		z:     gween.New(float32(c.cam.Position.Z), float32(final.Position.Z), duration, smoothstepEase),
		yaw:   gween.New(float32(c.cam.Yaw), float32(yawTarget), duration, smoothstepEase),
		pitch: gween.New(float32(c.cam.Pitch), float32(final.Pitch), duration, smoothstepEase),
		fov:   gween.New(float32(c.cfg.DefaultFOV), float32(c.cfg.FinalFOV), duration, ease.Linear),
	}
}

// FinalizeTick runs the phase work that must follow the entity animators:
// the hold fallback, the explosion look-at, and the resume glide.
// entityActive reports whether the airplane or missile animator is driving
// the camera this tick; while it is, hand-off writes are left untouched.
func (c *Choreographer) FinalizeTick(tk Tick, entityActive bool) {
	if !c.cfg.Enabled {
		return
	}

	switch c.phase {
	case PhaseHoldAtHandoff:
		if !entityActive {
			c.applyKeyframe(c.cfg.Keyframes[c.handoffIndex()])
		}
	case PhaseExplosionHold:
		c.cam.Position = c.cfg.Keyframes[c.handoffIndex()].Position
		c.cam.LookAt(c.explosionPoint)
	case PhaseResumeToFinal:
		c.advanceResume(tk.Delta)
	}
}

// traverse positions the camera along the active keyframe segment.
func (c *Choreographer) traverse(elapsed float64) {
	seg := 0
	for seg < c.handoffIndex() && elapsed >= c.cumulative[seg+1] {
		seg++
	}

	from := c.cfg.Keyframes[seg]
	to := c.cfg.Keyframes[seg+1]
	duration := c.cumulative[seg+1] - c.cumulative[seg]

	// Zero or negative duration means an instantaneous jump, never a
	// divide-by-zero.
	t := 1.0
	if duration > 0 {
		t = clamp((elapsed-c.cumulative[seg])/duration, 0, 1)
	}
	t = smoothstep(t)

	c.cam.Position = from.Position.Lerp(to.Position, t)
	yaw := from.Yaw + shortestAngleDelta(from.Yaw, to.Yaw)*t
	pitch := lerp(from.Pitch, to.Pitch, t)
	c.cam.SetRotation(yaw, pitch)
	c.cam.SetFOV(c.cfg.DefaultFOV)
}

// advanceResume steps the resume tweens and clamps into Terminal when done.
func (c *Choreographer) advanceResume(dt float64) {
	final := c.cfg.Keyframes[len(c.cfg.Keyframes)-1]
	if c.resume == nil || c.resume.done {
		c.applyFinal(final)
		return
	}

	step := float32(dt)
	x, _ := c.resume.x.Update(step)
	y, _ := c.resume.y.Update(step)
	z, _ := c.resume.z.Update(step)
	yaw, _ := c.resume.yaw.Update(step)
	pitch, _ := c.resume.pitch.Update(step)
	fov, done := c.resume.fov.Update(step)

	c.cam.Position = Vec3{float64(x), float64(y), float64(z)}
	c.cam.SetRotation(float64(yaw), float64(pitch))
	c.cam.SetFOV(float64(fov))

	if done {
		c.resume.done = true
		c.applyFinal(final)
	}
}

// applyFinal snaps to the final keyframe and enters Terminal.
func (c *Choreographer) applyFinal(final Keyframe) {
	c.applyKeyframe(final)
	c.cam.SetFOV(c.cfg.FinalFOV)
	c.phase = PhaseTerminal
}

// applyKeyframe snaps the camera pose to a keyframe.
func (c *Choreographer) applyKeyframe(kf Keyframe) {
	c.cam.Position = kf.Position
	c.cam.SetRotation(kf.Yaw, kf.Pitch)
}
