// Package layout allocates the pixel space of a violin chart between the value
// axis, the category axis and the plot bands.
//
// [Resolve] is a pure function of its [Input]: viewport size, axis
// configuration, category names and the value-axis domain. It never looks at
// sample data, so the pipeline runs it twice: once to fix the initial domain
// and again after density estimation has asked for the domain to be widened.
//
// # Collapse cascade
//
// The category axis consumes vertical space below the plot. When the plot
// height left for the value axis falls short of its minimum, the category
// axis gives space back in a fixed order: its title, then its labels, then the
// whole axis. The value axis consumes horizontal space left of the plot and
// yields to the category axis' minimum width in the same order. An axis that
// is still short after both cascades is flagged BelowMinimum and no band
// geometry is produced; renderers draw a placeholder instead.
package layout
