// Package timeline keeps a sequence of time-bounded regimes ("sections") of
// one compartmental model stitched into a continuous trajectory.
//
// Section i starts somewhere inside section i-1's span and takes its
// initial state from i-1's trajectory at that time, interpolated linearly.
// Editing a section integrates it and every later section again, in order;
// earlier sections are never touched.
//
// Each section but the last is split at its successor's start into a left
// series (what was followed) and a right one (what the regime would have
// gone on to do). Collaborators address sections by index only.
//
// # Example
//
//	tl, _ := timeline.New(compartment.SIR)
//	_ = tl.SetTimeEndValue(0, 20)
//	_ = tl.AddSection()
//	_ = tl.SetTimeEndValue(1, 60)
//	_ = tl.SetParameterValue(1, 0, 0.9)
//	path, _ := tl.Path()
package timeline
