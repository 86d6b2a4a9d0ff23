package skycity

import (
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// captureLogger returns a logger writing into the returned builder.
func captureLogger() (zerolog.Logger, *strings.Builder, *sync.Mutex) {
	var buf strings.Builder
	var mu sync.Mutex
	w := lockedWriter{buf: &buf, mu: &mu}
	return zerolog.New(w), &buf, &mu
}

type lockedWriter struct {
	buf *strings.Builder
	mu  *sync.Mutex
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestTableRendererRegisterAndSet(t *testing.T) {
	r := NewTableRenderer(testLogger())
	r.Register("plane", nil)

	if !r.Has("plane") {
		t.Fatal("registered mesh not found")
	}
	tf, _ := r.Transform("plane")
	assertVec3Near(t, "initial scale", tf.Scale, Vec3{1, 1, 1})

	want := Transform{Position: Vec3{1, 2, 3}, Yaw: 45, Scale: Vec3{2, 2, 2}}
	if !r.SetTransformByName("plane", want) {
		t.Fatal("SetTransformByName rejected a known mesh")
	}
	got, _ := r.Transform("plane")
	if got != want {
		t.Errorf("transform = %+v, want %+v", got, want)
	}
}

func TestTableRendererUnknownNameRejected(t *testing.T) {
	r := NewTableRenderer(testLogger())
	if r.SetTransformByName("ghost", Transform{}) {
		t.Error("SetTransformByName accepted an unknown mesh")
	}
	if r.UpdateVerticesByName("ghost", nil) {
		t.Error("UpdateVerticesByName accepted an unknown mesh")
	}
}

func TestTableRendererWarnsOncePerName(t *testing.T) {
	log, buf, mu := captureLogger()
	r := NewTableRenderer(log)

	for i := 0; i < 5; i++ {
		r.SetTransformByName("ghost", Transform{})
	}
	r.UpdateVerticesByName("phantom", nil)
	r.UpdateVerticesByName("phantom", nil)

	mu.Lock()
	out := buf.String()
	mu.Unlock()
	if got := strings.Count(out, "ghost"); got != 1 {
		t.Errorf("ghost warned %d times, want 1", got)
	}
	if got := strings.Count(out, "phantom"); got != 1 {
		t.Errorf("phantom warned %d times, want 1", got)
	}
}

func TestTableRendererUpdateVertices(t *testing.T) {
	r := NewTableRenderer(testLogger())
	r.Register("flag", nil)

	verts := []Vertex{{Position: Vec3{1, 2, 3}}}
	if !r.UpdateVerticesByName("flag", verts) {
		t.Fatal("UpdateVerticesByName rejected a known mesh")
	}
	got, ok := r.Vertices("flag")
	if !ok || len(got) != 1 {
		t.Fatalf("vertices not stored: %v, %v", got, ok)
	}
}

func TestTableRendererFrameState(t *testing.T) {
	r := NewTableRenderer(testLogger())

	r.SetPointLights([]Light{{Intensity: 5}})
	r.SetEnvironmentBlend(0.4)
	r.SetParticles([]ParticleVertex{{Size: 10}, {Size: 20}})

	if len(r.Lights()) != 1 {
		t.Errorf("lights = %d, want 1", len(r.Lights()))
	}
	assertNear(t, "blend", r.EnvironmentBlend(), 0.4)
	if len(r.Particles()) != 2 {
		t.Errorf("particles = %d, want 2", len(r.Particles()))
	}

	r.SetEnvironmentBlend(3)
	assertNear(t, "blend clamped", r.EnvironmentBlend(), 1)
}

func TestTableRendererNamesInOrder(t *testing.T) {
	r := NewTableRenderer(testLogger())
	r.Register("b", nil)
	r.Register("a", nil)
	r.Register("b", nil) // re-register must not duplicate

	names := r.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("names = %v, want [b a]", names)
	}
}
