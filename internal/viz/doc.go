// Package viz renders simulation output in the terminal.
//
// Static output is built on asciigraph: [PlotSeries] for a single channel,
// [PlotRun] for a stored run and [PlotCompare] for several runs on one axis.
// [TrackPlot] draws the boat's path through the water column on a Braille
// [Canvas] with depth growing downward.
//
// [LiveModel] is a Bubble Tea program that steps a simulator in real time
// under a manual controller.
//
// # Key Bindings
//
//	w/s   - Throttle up/down
//	a/d   - Planes up/down
//	f/v   - Flood/vent the main tank
//	Space - Pause/Resume
//	T     - Cycle color themes
//	Q     - Quit
package viz
