// Package listview implements a windowed list-virtualization engine.
//
// Given an ordered, sectioned collection of rows, a Controller decides which
// prefix of the collection is materialized for rendering, tracks scroll
// geometry along one primary axis, computes per-row visibility transitions
// from measured frames, and emits end-of-list signals.
//
// The package never draws anything. A Host (see host.go) renders the flat
// units produced by Render, reports layout/content-size/scroll events, and
// measures frames asynchronously. All Controller methods must be called from
// the host's event loop; there is no internal locking.
//
// Pipeline for every geometry event:
//
//	host event → GeometryTracker → visibility recompute
//	           → WindowController.MaybeAdvance (or end-reached check)
//	           → Host.RequestRender → Controller.Render (Flatten)
//	           → Host.MeasureFrames → Controller.OnFrames → visibility
package listview
