// Package worldmap is an interactive world map core: it projects country
// polygons onto a flat canvas, builds a pickable scene from them and drives
// pan, zoom and selection from pointer input.
//
// The package draws nothing itself. Backends (see backend/ebitenmap,
// backend/termmap and backend/svgmap) implement [Painter] and [Surface] and
// feed pointer events into the map's [Router].
//
// # Quick start
//
//	features, err := dataset.Open(ctx, "assets/world.geo.json")
//	// handle err
//	atlas, err := worldmap.NewProjector(nil, worldmap.DefaultProjectorConfig()).Project(features)
//	// handle err
//
//	m := worldmap.New(surface, worldmap.WithObserver(panel))
//	m.Load(atlas)
//
// Each frame the backend forwards input and paints:
//
//	m.Router().PointerDown(0, x, y)
//	m.Router().Wheel(x, y, deltaY)
//	m.Update(dt)
//	m.Paint(painter)
//
// # Projection
//
// [Projector] uses an equirectangular projection with a cosine correction at
// the dataset's mid latitude, scaled to fit a 2048x1152 canvas. Only outer
// rings are kept, thinned by a minimum point distance, and the result is
// centered on the origin so the world bounds are symmetric.
//
// # Viewport
//
// [Viewport] fits the world to the surface minus a margin, zooms around a
// focal point, clamps panning to the world edge and frames a country's main
// landmass (or a clicked segment) when it is selected. Reframes can be
// animated with [gween] by setting [ViewportConfig.ReframeDuration].
//
// # Input
//
// [Router] runs an Idle/Dragging/Pinching state machine over pointer 0
// (mouse) and pointers 1-9 (touch). Dragging pans one to one, two pointers
// pinch-zoom around their midpoint and the wheel zooms around the cursor.
// Graphics under the pointer receive enter, leave, down and up callbacks.
//
// [gween]: https://github.com/tanema/gween
package worldmap
