package skycity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Mesh is a named bundle of geometry produced by an AssetLoader and
// registered with the Renderer at startup.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// AssetLoader resolves model paths into meshes. Implementations must not
// panic across this boundary; a failed load returns ok=false or an empty
// slice.
type AssetLoader interface {
	// LoadMesh loads a single mesh from path.
	LoadMesh(path string) (*Mesh, bool)
	// LoadMeshes loads a material-split model as one mesh per material.
	LoadMeshes(path string) []Mesh
}

// assetJob is one unit of the startup load barrier. Critical jobs abort
// startup on failure; optional jobs disable their feature for the run.
type assetJob struct {
	name     string
	path     string
	critical bool
	apply    func(meshes []Mesh)
}

// loadAssets runs every job in parallel and joins before returning. The
// first critical failure aborts the whole barrier; optional failures are
// logged once and their feature is skipped.
func loadAssets(ctx context.Context, loader AssetLoader, jobs []assetJob, log zerolog.Logger) error {
	g, _ := errgroup.WithContext(ctx)

	for _, job := range jobs {
		g.Go(func() error {
			meshes := loader.LoadMeshes(job.path)
			if len(meshes) == 0 {
				if m, ok := loader.LoadMesh(job.path); ok {
					meshes = []Mesh{*m}
				}
			}
			if len(meshes) == 0 {
				if job.critical {
					return fmt.Errorf("critical asset %q failed to load from %s", job.name, job.path)
				}
				log.Warn().Str("asset", job.name).Str("path", job.path).
					Msg("optional asset failed to load; feature disabled")
				return nil
			}
			job.apply(meshes)
			return nil
		})
	}

	return g.Wait()
}
