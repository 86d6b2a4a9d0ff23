// Package skycity is the simulation core of a scripted real-time flythrough
// of a night-festival city scene.
//
// The package drives a fixed choreography: a keyframed camera glide toward
// the city, a formation of airplanes crossing overhead, a missile drop and
// explosion the camera reacts to, a cloth flag animated as a Bézier surface,
// a pool of ascending sky lanterns, and a generic particle simulator for
// trails and explosion debris. Rendering, asset decoding, and windowing are
// external collaborators reached through the [Renderer] and [AssetLoader]
// interfaces; the core only produces transforms, vertex buffers, and light
// lists.
//
// # Quick start
//
//	cfg, err := skycity.LoadConfig(".")
//	if err != nil {
//		// config file malformed or rejected
//	}
//	show := skycity.NewShow(cfg, renderer, loader, skycity.NewRand(1), logger)
//	if err := show.Load(ctx); err != nil {
//		// a critical asset failed to load
//	}
//	for running {
//		show.Tick()
//	}
//
// Each Tick advances every subsystem in a fixed dependency order and pushes
// the results to the Renderer. All simulation state lives in plain structs
// that tests can construct directly; randomness comes from an injected
// seedable source, so runs are reproducible.
//
// # Concurrency
//
// A single goroutine drives the tick loop. Worker goroutines appear in
// exactly three places, each joined or polled before its result is used:
// the startup asset barrier (join-all), the flag recomputation (one
// outstanding job, polled per tick), and the particle integration split
// (fork-join within one tick). Nothing in the core is cancelled mid-flight.
package skycity
